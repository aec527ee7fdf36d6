package visual

import (
	"math"

	"github.com/gogpu/ggchart/color"
	"github.com/gogpu/ggchart/data"
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/task"
)

// Memoizer caches values per owner across passes. The scheduler side
// table implements it.
type Memoizer interface {
	Memo(owner, key string, create func() any) any
}

// MapComponent encodes a data dimension into visuals the way a visualMap
// component does. It is continuous unless Pieces are set.
//
// Values inside the selected range (or a selected piece) take the InRange
// visuals, the others take OutOfRange.
type MapComponent struct {
	// Dimension is the encoded dimension. Empty selects the last
	// non-calculated dimension of the series.
	Dimension string

	// Min and Max bound a continuous mapping. When nil the data extent of
	// the series is used.
	Min, Max *float64
	// Range is the selected range of a continuous mapping; nil selects
	// [Min, Max].
	Range *[2]float64

	Pieces []Piece
	// Selected marks pieces as selected; nil selects every piece.
	Selected []bool

	// Categories turns the component into a category mapping.
	Categories []string

	InRange    map[Channel]any
	OutOfRange map[Channel]any

	// Series limits the component to the series it returns true for.
	// nil targets every series.
	Series func(s *series.Series) bool

	Space color.Space
	Memo  Memoizer
}

// Targets reports whether the component encodes s.
func (c *MapComponent) Targets(s *series.Series) bool {
	return c.Series == nil || c.Series(s)
}

func (c *MapComponent) dimension(store *data.Store) string {
	if c.Dimension != "" {
		return c.Dimension
	}
	dims := store.Dimensions()
	for i := len(dims) - 1; i >= 0; i-- {
		if !dims[i].IsCalculation {
			return dims[i].Name
		}
	}
	return ""
}

func (c *MapComponent) extent(s *series.Series, store *data.Store, dim string) [2]float64 {
	compute := func() any { return store.DataExtent(dim) }
	var ext [2]float64
	if c.Memo != nil {
		ext = c.Memo.Memo(s.UID(), "visualMap.extent:"+dim+":"+store.ID().String(), compute).([2]float64)
	} else {
		ext = compute().([2]float64)
	}
	if c.Min != nil {
		ext[0] = *c.Min
	}
	if c.Max != nil {
		ext[1] = *c.Max
	}
	return ext
}

// Reset builds the mappings for the current pass and returns the executor
// applying them.
func (c *MapComponent) Reset(s *series.Series) ([]task.ProgressExecutor, error) {
	if !c.Targets(s) {
		return nil, nil
	}
	store := s.Store()
	if store == nil {
		return nil, nil
	}
	dim := c.dimension(store)
	if !store.HasDimension(dim) {
		logger().Warn("visual: visualMap dimension not found", "series", s.Name(), "dimension", dim)
		return nil, nil
	}

	ms, valueState, err := c.mappings(s, store, dim)
	if err != nil {
		return nil, err
	}
	return []task.ProgressExecutor{
		IncrementalApplyVisual(ms, valueState, dim, s.PipelineContext().Large),
	}, nil
}

func (c *MapComponent) option() map[State]map[Channel]MappingOption {
	opt := make(map[State]map[Channel]MappingOption, 2)
	for st, vis := range map[State]map[Channel]any{StateInRange: c.InRange, StateOutOfRange: c.OutOfRange} {
		if len(vis) == 0 {
			continue
		}
		opt[st] = make(map[Channel]MappingOption, len(vis))
		for ch, v := range vis {
			opt[st][ch] = MappingOption{Visual: v, Space: c.Space}
		}
	}
	return opt
}

func (c *MapComponent) mappings(s *series.Series, store *data.Store, dim string) (*Mappings, ValueState, error) {
	states := []State{StateInRange, StateOutOfRange}

	switch {
	case len(c.Categories) > 0:
		ms, err := CreateMappings(c.option(), states, func(opt *MappingOption, _ State) {
			opt.Method = MethodCategory
			opt.Categories = c.Categories
		})
		return ms, func(float64) State { return StateInRange }, err

	case len(c.Pieces) > 0:
		ms, err := CreateMappings(c.option(), states, func(opt *MappingOption, st State) {
			opt.Method = MethodPiecewise
			pieces := append([]Piece(nil), c.Pieces...)
			if st != StateInRange {
				for i := range pieces {
					pieces[i].Visual = nil
				}
			}
			opt.Pieces = pieces
		})
		valueState := func(v float64) State {
			i := FindPieceIndex(v, c.Pieces, false)
			if i >= 0 && (c.Selected == nil || (i < len(c.Selected) && c.Selected[i])) {
				return StateInRange
			}
			return StateOutOfRange
		}
		return ms, valueState, err
	}

	ext := c.extent(s, store, dim)
	ms, err := CreateMappings(c.option(), states, func(opt *MappingOption, _ State) {
		opt.Method = MethodLinear
		opt.DataExtent = &ext
	})
	sel := ext
	if c.Range != nil {
		sel = *c.Range
	}
	lo, hi := math.Min(sel[0], sel[1]), math.Max(sel[0], sel[1])
	valueState := func(v float64) State {
		if v >= lo && v <= hi {
			return StateInRange
		}
		return StateOutOfRange
	}
	return ms, valueState, err
}
