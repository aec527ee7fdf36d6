package ggchart

import (
	"fmt"
	"math"

	"github.com/gogpu/ggchart/color"
	"github.com/gogpu/ggchart/data"
	"github.com/gogpu/ggchart/option"
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/stack"
	"github.com/gogpu/ggchart/visual"
)

// seriesMeta keeps the option settings a chart needs after the series is
// built.
type seriesMeta struct {
	window *option.Window
	// indexed is set when the option data are bare values and every row
	// is prefixed with its index.
	indexed bool
}

// axisMetas hands out one ordinal meta per coordinate dimension so the
// series of a chart agree on category indices.
type axisMetas map[string]*data.OrdinalMeta

func (a axisMetas) share(dims []data.Dimension) {
	for i := range dims {
		d := &dims[i]
		if d.Type != data.TypeOrdinal || d.Ordinal != nil {
			continue
		}
		m := a[d.CoordDim]
		if m == nil {
			m = data.NewOrdinalMeta()
			a[d.CoordDim] = m
		}
		d.Ordinal = m
	}
}

func seriesConfig(i int, so option.Series, defaultStep int) (series.Config, *seriesMeta) {
	name := so.Name
	if name == "" {
		name = fmt.Sprintf("series%d", i)
	}
	cfg := series.Config{
		Name: name,
		Type: so.Type,
		Stack: stack.Options{
			Key:      so.Stack,
			Strategy: so.StackStrategy,
			By:       so.StackBy,
		},
		ItemStyle: stateStyle(so.ItemStyle, map[string]map[string]any{
			string(visual.StateEmphasis): stateItemStyle(so.Emphasis),
			string(visual.StateBlur):     stateItemStyle(so.Blur),
			string(visual.StateSelect):   stateItemStyle(so.Select),
		}),
		Large:                so.Large,
		LargeThreshold:       so.LargeThreshold,
		ProgressiveThreshold: so.ProgressiveThreshold,
		ProgressiveChunkMode: so.ProgressiveChunkMode,
	}
	switch {
	case so.Progressive == nil:
		cfg.Progressive = defaultStep
	case *so.Progressive <= 0:
		cfg.Progressive = -1
	default:
		cfg.Progressive = *so.Progressive
	}

	meta := &seriesMeta{window: so.Window}
	cfg.Dimensions, meta.indexed = dimensions(so)
	cfg.Rows = rows(so.Data, meta.indexed, 0)
	cfg.Items = itemOptions(so.Data)
	return cfg, meta
}

func stateItemStyle(st *option.State) map[string]any {
	if st == nil {
		return nil
	}
	return st.ItemStyle
}

// dimensions returns the dimensions of so and whether its bare values
// need an index column.
func dimensions(so option.Series) ([]data.Dimension, bool) {
	if len(so.Dimensions) > 0 {
		dims := make([]data.Dimension, len(so.Dimensions))
		for i, d := range so.Dimensions {
			dims[i] = data.Dimension{Name: d.Name, Type: data.ParseType(d.Type), CoordDim: d.CoordDim}
			if dims[i].CoordDim == "" {
				dims[i].CoordDim = defaultCoordDim(i)
			}
		}
		return dims, false
	}

	width := 0
	for _, it := range so.Data {
		width = max(width, len(it.Value))
	}
	dims := []data.Dimension{
		{Name: "x", Type: data.TypeOrdinal, CoordDim: "x"},
		{Name: "y", CoordDim: "y"},
	}
	for j := 2; j < width; j++ {
		dims = append(dims, data.Dimension{Name: fmt.Sprintf("value%d", j), CoordDim: "value"})
	}
	return dims, width <= 1
}

func defaultCoordDim(i int) string {
	switch i {
	case 0:
		return "x"
	case 1:
		return "y"
	}
	return "value"
}

// rows converts option data to store rows. Indexed rows are numbered
// from first.
func rows(items []option.DataItem, indexed bool, first int) [][]any {
	out := make([][]any, len(items))
	for i, it := range items {
		if !indexed {
			out[i] = it.Value
			continue
		}
		var v any
		if len(it.Value) > 0 {
			v = it.Value[0]
		}
		out[i] = []any{float64(first + i), v}
	}
	return out
}

// itemOptions returns the per-item options, or nil when no item has any.
func itemOptions(items []option.DataItem) []data.ItemOption {
	var out []data.ItemOption
	for i, it := range items {
		if it.Name == "" && len(it.ItemStyle) == 0 && len(it.States) == 0 && !it.NoVisualMap {
			continue
		}
		if out == nil {
			out = make([]data.ItemOption, len(items))
		}
		out[i] = data.ItemOption{
			Name:        it.Name,
			Style:       stateStyle(it.ItemStyle, it.States),
			NoVisualMap: it.NoVisualMap,
		}
	}
	return out
}

// stateStyle flattens state styles into "state.key" entries next to the
// normal keys.
func stateStyle(normal map[string]any, states map[string]map[string]any) map[string]any {
	var out map[string]any
	set := func(k string, v any) {
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	for k, v := range normal {
		set(k, v)
	}
	for st, style := range states {
		for k, v := range style {
			set(st+"."+k, v)
		}
	}
	return out
}

func mapComponent(vm option.VisualMap, memo visual.Memoizer) *visual.MapComponent {
	c := &visual.MapComponent{
		Dimension:  vm.Dimension,
		Min:        vm.Min,
		Max:        vm.Max,
		Range:      vm.Range,
		Categories: vm.Categories,
		Selected:   vm.Selected,
		InRange:    channels(vm.InRange),
		OutOfRange: channels(vm.OutOfRange),
		Memo:       memo,
	}
	if vm.ColorSpace == "linear" {
		c.Space = color.SpaceLinear
	}
	if idx := vm.SeriesIndex; len(idx) > 0 {
		c.Series = func(s *series.Series) bool { return idx.Contains(s.Index()) }
	}
	if vm.Type != "piecewise" {
		return c
	}

	colors := make([]any, 0, len(vm.Pieces))
	for _, p := range vm.Pieces {
		c.Pieces = append(c.Pieces, piece(p))
		colors = append(colors, p.Color)
	}
	// Pieces without their own color need an inRange color list to pick
	// from.
	if _, ok := c.InRange[visual.Color]; !ok && len(c.Pieces) > 0 && len(c.Categories) == 0 {
		for i, v := range colors {
			if v == "" {
				colors[i] = visual.DefaultPalette[i%len(visual.DefaultPalette)]
			}
		}
		if c.InRange == nil {
			c.InRange = make(map[visual.Channel]any)
		}
		c.InRange[visual.Color] = colors
	}
	return c
}

func channels(m map[string]any) map[visual.Channel]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[visual.Channel]any, len(m))
	for k, v := range m {
		out[visual.Channel(k)] = v
	}
	return out
}

func piece(p option.Piece) visual.Piece {
	var vp visual.Piece
	if p.Value != nil {
		vp = visual.ValuePiece(*p.Value)
	} else {
		lo, hi := math.Inf(-1), math.Inf(1)
		var closeLo, closeHi bool
		if p.Min != nil {
			lo, closeLo = *p.Min, true
		}
		if p.Max != nil {
			hi, closeHi = *p.Max, true
		}
		if p.Gt != nil {
			lo, closeLo = *p.Gt, false
		}
		if p.Gte != nil {
			lo, closeLo = *p.Gte, true
		}
		if p.Lt != nil {
			hi, closeHi = *p.Lt, false
		}
		if p.Lte != nil {
			hi, closeHi = *p.Lte, true
		}
		vp = visual.IntervalPiece(lo, hi, closeLo, closeHi)
	}
	vp.Label = p.Label
	if p.Color != "" || p.Opacity != nil {
		vp.Visual = make(map[visual.Channel]any, 2)
		if p.Color != "" {
			vp.Visual[visual.Color] = p.Color
		}
		if p.Opacity != nil {
			vp.Visual[visual.Opacity] = *p.Opacity
		}
	}
	return vp
}
