package option

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrInvalid is returned for an option that decodes but cannot describe
// a chart.
var ErrInvalid = errors.New("option: invalid option")

// Option is the root of the option tree.
type Option struct {
	// Color is the series palette.
	Color     []string    `json:"color,omitempty"`
	Series    []Series    `json:"series"`
	VisualMap []VisualMap `json:"visualMap,omitempty"`
}

// Series is one series option.
type Series struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Dimensions []Dimension `json:"dimensions,omitempty"`
	Data       []DataItem  `json:"data"`

	Stack         string `json:"stack,omitempty"`
	StackStrategy string `json:"stackStrategy,omitempty"`
	StackBy       string `json:"stackBy,omitempty"`

	ItemStyle map[string]any `json:"itemStyle,omitempty"`
	Emphasis  *State         `json:"emphasis,omitempty"`
	Blur      *State         `json:"blur,omitempty"`
	Select    *State         `json:"select,omitempty"`

	Large          bool `json:"large,omitempty"`
	LargeThreshold int  `json:"largeThreshold,omitempty"`
	// Progressive is the chunk size. 0 disables progressive rendering and
	// nil keeps the default.
	Progressive          *int   `json:"progressive,omitempty"`
	ProgressiveThreshold int    `json:"progressiveThreshold,omitempty"`
	ProgressiveChunkMode string `json:"progressiveChunkMode,omitempty"`

	// Window keeps only the rows whose value on a dimension falls in
	// [Min, Max].
	Window *Window `json:"window,omitempty"`
}

// State holds the item style of a non-normal state.
type State struct {
	ItemStyle map[string]any `json:"itemStyle,omitempty"`
}

// Window is a value range filter on one dimension.
type Window struct {
	Dimension string   `json:"dimension"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// Dimension describes a data column. It decodes from a bare name too.
type Dimension struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	CoordDim string `json:"coordDim,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dimension) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		*d = Dimension{}
		return json.Unmarshal(b, &d.Name)
	}
	type plain Dimension
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = Dimension(p)
	return nil
}

// DataItem is one row of series data.
type DataItem struct {
	Value []any

	Name      string
	ItemStyle map[string]any
	// States maps "emphasis", "blur" and "select" to their item styles.
	States map[string]map[string]any
	// NoVisualMap is set by "visualMap": false.
	NoVisualMap bool
}

type objectItem struct {
	Value     json.RawMessage `json:"value"`
	Name      string          `json:"name"`
	ItemStyle map[string]any  `json:"itemStyle"`
	VisualMap *bool           `json:"visualMap"`
	Emphasis  *State          `json:"emphasis"`
	Blur      *State          `json:"blur"`
	Select    *State          `json:"select"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (it *DataItem) UnmarshalJSON(b []byte) error {
	*it = DataItem{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		v, err := decodeValue(b)
		it.Value = v
		return err
	}

	var o objectItem
	if err := json.Unmarshal(b, &o); err != nil {
		return err
	}
	v, err := decodeValue(o.Value)
	if err != nil {
		return err
	}
	it.Value = v
	it.Name = o.Name
	it.ItemStyle = o.ItemStyle
	it.NoVisualMap = o.VisualMap != nil && !*o.VisualMap
	for name, st := range map[string]*State{"emphasis": o.Emphasis, "blur": o.Blur, "select": o.Select} {
		if st == nil || len(st.ItemStyle) == 0 {
			continue
		}
		if it.States == nil {
			it.States = make(map[string]map[string]any)
		}
		it.States[name] = st.ItemStyle
	}
	return nil
}

// MarshalJSON implements json.Marshaler. An item without settings encodes
// as its bare value array.
func (it DataItem) MarshalJSON() ([]byte, error) {
	if it.Name == "" && len(it.ItemStyle) == 0 && len(it.States) == 0 && !it.NoVisualMap {
		return json.Marshal(it.Value)
	}
	m := map[string]any{"value": it.Value}
	if it.Name != "" {
		m["name"] = it.Name
	}
	if len(it.ItemStyle) > 0 {
		m["itemStyle"] = it.ItemStyle
	}
	for name, style := range it.States {
		m[name] = State{ItemStyle: style}
	}
	if it.NoVisualMap {
		m["visualMap"] = false
	}
	return json.Marshal(m)
}

// decodeValue reads an array value or wraps a scalar into a one-cell row.
func decodeValue(b []byte) ([]any, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []any{nil}, nil
	}
	if b[0] == '[' {
		var row []any
		if err := json.Unmarshal(b, &row); err != nil {
			return nil, err
		}
		return row, nil
	}
	var cell any
	if err := json.Unmarshal(b, &cell); err != nil {
		return nil, err
	}
	return []any{cell}, nil
}

// VisualMap is a visualMap component option.
type VisualMap struct {
	// Type is "continuous" (default) or "piecewise".
	Type      string `json:"type,omitempty"`
	Dimension string `json:"dimension,omitempty"`

	Min   *float64    `json:"min,omitempty"`
	Max   *float64    `json:"max,omitempty"`
	Range *[2]float64 `json:"range,omitempty"`

	Pieces     []Piece  `json:"pieces,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Selected   []bool   `json:"selected,omitempty"`

	InRange    map[string]any `json:"inRange,omitempty"`
	OutOfRange map[string]any `json:"outOfRange,omitempty"`

	SeriesIndex IndexList `json:"seriesIndex,omitempty"`
	// ColorSpace is "srgb" (default) or "linear".
	ColorSpace string `json:"colorSpace,omitempty"`
}

// Piece is a piecewise visualMap piece. Min and Max are inclusive; Gt,
// Gte, Lt and Lte set one end each.
type Piece struct {
	Value *float64 `json:"value,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Gt    *float64 `json:"gt,omitempty"`
	Gte   *float64 `json:"gte,omitempty"`
	Lt    *float64 `json:"lt,omitempty"`
	Lte   *float64 `json:"lte,omitempty"`

	Label   string   `json:"label,omitempty"`
	Color   string   `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// IndexList decodes from a number or an array of numbers.
type IndexList []int

// UnmarshalJSON implements json.Unmarshaler.
func (l *IndexList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var v []int
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*l = v
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*l = IndexList{v}
	return nil
}

// Contains reports whether i is listed. An empty list contains every
// index.
func (l IndexList) Contains(i int) bool {
	if len(l) == 0 {
		return true
	}
	for _, v := range l {
		if v == i {
			return true
		}
	}
	return false
}

// Parse decodes and validates an option.
func Parse(b []byte) (*Option, error) {
	var o Option
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("option: decode: %w", err)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Validate checks the parts of the option that decoding cannot.
func (o *Option) Validate() error {
	names := make(map[string]bool, len(o.Series))
	for i, s := range o.Series {
		if s.Type == "" {
			return fmt.Errorf("%w: series %d has no type", ErrInvalid, i)
		}
		if s.Name != "" {
			if names[s.Name] {
				return fmt.Errorf("%w: duplicate series name %q", ErrInvalid, s.Name)
			}
			names[s.Name] = true
		}
		if s.Window != nil && s.Window.Dimension == "" {
			return fmt.Errorf("%w: series %d window has no dimension", ErrInvalid, i)
		}
	}
	for i, vm := range o.VisualMap {
		switch vm.Type {
		case "", "continuous", "piecewise":
		default:
			return fmt.Errorf("%w: visualMap %d has unknown type %q", ErrInvalid, i, vm.Type)
		}
		if vm.Type == "piecewise" && len(vm.Pieces) == 0 && len(vm.Categories) == 0 {
			return fmt.Errorf("%w: piecewise visualMap %d has no pieces", ErrInvalid, i)
		}
	}
	return nil
}

// Marshal encodes o.
func Marshal(o *Option) ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}
