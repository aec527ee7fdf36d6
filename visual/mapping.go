package visual

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/gogpu/ggchart/color"
)

// Mapping errors.
var (
	ErrUnknownChannel = errors.New("visual: unknown channel")
	ErrUnknownMethod  = errors.New("visual: unknown mapping method")
	ErrMissingExtent  = errors.New("visual: linear mapping without data extent")
	ErrMissingPieces  = errors.New("visual: piecewise mapping without pieces")
)

// Method selects how a value is normalized before it is mapped.
type Method string

// Mapping methods.
const (
	MethodLinear    Method = "linear"
	MethodPiecewise Method = "piecewise"
	MethodCategory  Method = "category"
	MethodFixed     Method = "fixed"
)

// categoryDefault is the normalized value of a category without a visual.
const categoryDefault = -1

// MappingOption configures a Mapping.
type MappingOption struct {
	Channel Channel
	// Method defaults to linear when DataExtent is set, piecewise when
	// Pieces are set and fixed otherwise.
	Method Method

	DataExtent *[2]float64
	Pieces     []Piece

	// Categories names the categories of a category mapping. Without
	// them the value itself is the category index.
	Categories []string
	Loop       bool

	// Visual is a single value, a list ([]any, []string, []float64) or,
	// for category mappings with Categories, a map from category name to
	// visual. Keys that are not a category set the default visual.
	Visual any

	// Space is the color interpolation space of linear color mappings.
	Space color.Space
}

// Mapping maps data values to the visual of one channel.
type Mapping struct {
	opt MappingOption

	visual        []any
	defaultVisual any
	parsed        []color.RGBA

	categoryIndex    map[string]int
	hasSpecialVisual bool
}

// NewMapping builds a mapping from opt.
func NewMapping(opt MappingOption) (*Mapping, error) {
	if !opt.Channel.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, opt.Channel)
	}
	if opt.Method == "" {
		switch {
		case opt.DataExtent != nil:
			opt.Method = MethodLinear
		case len(opt.Pieces) > 0:
			opt.Method = MethodPiecewise
		default:
			opt.Method = MethodFixed
		}
	}

	m := &Mapping{opt: opt}
	switch opt.Method {
	case MethodLinear:
		if opt.DataExtent == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingExtent, opt.Channel)
		}
		m.setVisual(normalizeVisualRange(opt.Channel, opt.Visual, false))
	case MethodFixed:
		m.setVisual(normalizeVisualRange(opt.Channel, opt.Visual, false))
	case MethodPiecewise:
		if len(opt.Pieces) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingPieces, opt.Channel)
		}
		m.opt.Pieces = append([]Piece(nil), opt.Pieces...)
		for _, p := range m.opt.Pieces {
			if p.Visual != nil {
				m.hasSpecialVisual = true
				break
			}
		}
		m.setVisual(normalizeVisualRange(opt.Channel, opt.Visual, false))
	case MethodCategory:
		if len(opt.Categories) > 0 {
			m.prepareCategories()
		} else {
			m.setVisual(normalizeVisualRange(opt.Channel, opt.Visual, true))
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, opt.Method)
	}
	return m, nil
}

// Channel returns the mapped channel.
func (m *Mapping) Channel() Channel { return m.opt.Channel }

// Method returns the mapping method.
func (m *Mapping) Method() Method { return m.opt.Method }

// Visuals returns the normalized visual list.
func (m *Mapping) Visuals() []any {
	return append([]any(nil), m.visual...)
}

func (m *Mapping) prepareCategories() {
	m.categoryIndex = make(map[string]int, len(m.opt.Categories))
	for i, c := range m.opt.Categories {
		m.categoryIndex[c] = i
	}

	var arr []any
	switch v := m.opt.Visual.(type) {
	case map[string]any:
		arr = make([]any, len(m.opt.Categories))
		for k, vis := range v {
			if i, ok := m.categoryIndex[k]; ok {
				arr[i] = vis
			} else {
				m.defaultVisual = vis
			}
		}
	default:
		if list, ok := asList(v); ok {
			arr = list
		} else {
			m.defaultVisual = v
		}
	}
	m.setVisual(arr)

	for i, c := range m.opt.Categories {
		if i >= len(m.visual) || m.visual[i] == nil {
			delete(m.categoryIndex, c)
		}
	}
}

func (m *Mapping) setVisual(arr []any) {
	m.visual = arr
	if m.opt.Channel != Color {
		return
	}
	m.parsed = make([]color.RGBA, len(arr))
	for i, v := range arr {
		m.parsed[i] = parseColor(v)
	}
	if m.defaultVisual != nil {
		parseColor(m.defaultVisual)
	}
}

// parseColor converts a color visual. Illegal colors fall back to black.
func parseColor(v any) color.RGBA {
	switch c := v.(type) {
	case color.RGBA:
		return c
	case string:
		if rgba, err := color.Parse(c); err == nil {
			return rgba
		}
	}
	logger().Warn("visual: illegal color, fallback to black", "color", v)
	return color.Black
}

// normalizeVisualRange turns a visual option into a list. A single value
// is duplicated for numeric channels so it maps to [v, v].
func normalizeVisualRange(ch Channel, visual any, category bool) []any {
	var arr []any
	switch v := visual.(type) {
	case nil:
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			arr = append(arr, v[k])
		}
	default:
		if list, ok := asList(v); ok {
			arr = list
		} else {
			arr = []any{v}
		}
	}
	if !category && len(arr) == 1 && ch != Color && ch != Symbol {
		arr = append(arr, arr[0])
	}
	return arr
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return append([]any(nil), l...), true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(l))
		for i, f := range l {
			out[i] = f
		}
		return out, true
	case []color.RGBA:
		out := make([]any, len(l))
		for i, c := range l {
			out[i] = c
		}
		return out, true
	}
	return nil, false
}

// Normalize maps value into the normalized domain of the method: [0, 1]
// for linear and piecewise, the category index for category mappings.
// Values outside every piece normalize to NaN.
func (m *Mapping) Normalize(value float64) float64 {
	switch m.opt.Method {
	case MethodLinear:
		return linearMap(value, *m.opt.DataExtent, [2]float64{0, 1}, true)
	case MethodPiecewise:
		i := FindPieceIndex(value, m.opt.Pieces, true)
		if i < 0 {
			return math.NaN()
		}
		return linearMap(float64(i), [2]float64{0, float64(len(m.opt.Pieces) - 1)}, [2]float64{0, 1}, true)
	case MethodCategory:
		if m.categoryIndex == nil {
			return value
		}
		return m.normalizeCategory(strconv.FormatFloat(value, 'f', -1, 64))
	}
	return value
}

func (m *Mapping) normalizeCategory(name string) float64 {
	if i, ok := m.categoryIndex[name]; ok {
		return float64(i)
	}
	return categoryDefault
}

// MapValueToVisual returns the visual for value.
func (m *Mapping) MapValueToVisual(value float64) any {
	return m.normalizedToVisual(m.Normalize(value), value)
}

// MapCategory returns the visual of a named category. It is only
// meaningful for category mappings with Categories.
func (m *Mapping) MapCategory(name string) any {
	return m.mapCategory(m.normalizeCategory(name))
}

func (m *Mapping) normalizedToVisual(n, value float64) any {
	ch := m.opt.Channel
	if ch == LiftZ || m.opt.Method == MethodFixed {
		return m.fixed()
	}
	if m.opt.Method == MethodCategory {
		return m.mapCategory(n)
	}
	if m.opt.Method == MethodPiecewise {
		if v := m.specifiedVisual(value); v != nil {
			return v
		}
	}
	switch ch {
	case Color:
		return color.FastLerp(n, m.parsed, m.opt.Space).String()
	case Symbol:
		return m.mapToArray(n)
	}
	return m.mapNumeric(n)
}

func (m *Mapping) fixed() any {
	if len(m.visual) == 0 {
		return nil
	}
	return m.visual[0]
}

func (m *Mapping) mapCategory(n float64) any {
	if math.IsNaN(n) {
		return nil
	}
	i := int(n)
	if i == categoryDefault {
		return m.defaultVisual
	}
	if m.opt.Loop && len(m.visual) > 0 {
		i %= len(m.visual)
	}
	if i < 0 || i >= len(m.visual) {
		return nil
	}
	return m.visual[i]
}

func (m *Mapping) mapToArray(n float64) any {
	if len(m.visual) == 0 {
		return nil
	}
	i := math.Round(linearMap(n, [2]float64{0, 1}, [2]float64{0, float64(len(m.visual) - 1)}, true))
	if math.IsNaN(i) {
		return nil
	}
	return m.visual[int(i)]
}

func (m *Mapping) mapNumeric(n float64) any {
	if len(m.visual) < 2 {
		return nil
	}
	lo, ok1 := toFloat(m.visual[0])
	hi, ok2 := toFloat(m.visual[1])
	if !ok1 || !ok2 {
		return nil
	}
	return linearMap(n, [2]float64{0, 1}, [2]float64{lo, hi}, true)
}

func (m *Mapping) specifiedVisual(value float64) any {
	if !m.hasSpecialVisual {
		return nil
	}
	i := FindPieceIndex(value, m.opt.Pieces, false)
	if i < 0 || m.opt.Pieces[i].Visual == nil {
		return nil
	}
	return m.opt.Pieces[i].Visual[m.opt.Channel]
}

// ColorMapper returns a function mapping a value, or an already
// normalized value when normalized is set, to a color. It returns nil for
// channels other than Color.
func (m *Mapping) ColorMapper() func(value float64, normalized bool) color.RGBA {
	if m.opt.Channel != Color {
		return nil
	}
	if m.opt.Method == MethodCategory {
		return func(value float64, normalized bool) color.RGBA {
			if !normalized {
				value = m.Normalize(value)
			}
			v := m.mapCategory(value)
			if v == nil {
				return color.Transparent
			}
			return parseColor(v)
		}
	}
	return func(value float64, normalized bool) color.RGBA {
		if !normalized {
			value = m.Normalize(value)
		}
		return color.FastLerp(value, m.parsed, m.opt.Space)
	}
}

// Getter reads the visual resolved so far for a channel.
type Getter func(c Channel) any

// Setter writes the visual of a channel.
type Setter func(c Channel, v any)

// Apply maps value and writes the result through set. Color modifying
// channels read the current color through get and write the adjusted
// color; they do nothing when no color is resolved yet.
func (m *Mapping) Apply(value float64, get Getter, set Setter) {
	ch := m.opt.Channel
	if !ch.modifiesColor() {
		set(ch, m.MapValueToVisual(value))
		return
	}

	amount, ok := toFloat(m.MapValueToVisual(value))
	if !ok {
		return
	}
	cur := get(Color)
	if cur == nil {
		return
	}
	c := parseColor(cur)
	nan := math.NaN()
	switch ch {
	case ColorHue:
		c = color.ModifyHSL(c, amount, nan, nan)
	case ColorSaturation:
		c = color.ModifyHSL(c, nan, amount, nan)
	case ColorLightness:
		c = color.ModifyHSL(c, nan, nan, amount)
	case ColorAlpha:
		c = c.WithAlpha(amount)
	}
	set(Color, c.String())
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// linearMap maps val from domain onto rng. With clamp the result stays
// within rng.
func linearMap(val float64, domain, rng [2]float64, clamp bool) float64 {
	d0, d1 := domain[0], domain[1]
	r0, r1 := rng[0], rng[1]
	subDomain := d1 - d0
	subRange := r1 - r0

	if subDomain == 0 {
		if subRange == 0 {
			return r0
		}
		return (r0 + r1) / 2
	}

	if clamp {
		if subDomain > 0 {
			if val <= d0 {
				return r0
			} else if val >= d1 {
				return r1
			}
		} else {
			if val >= d0 {
				return r0
			} else if val <= d1 {
				return r1
			}
		}
	} else {
		if val == d0 {
			return r0
		}
		if val == d1 {
			return r1
		}
	}
	return (val-d0)/subDomain*subRange + r0
}
