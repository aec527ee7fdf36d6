package visual

import (
	"fmt"

	"github.com/gogpu/ggchart/data"
	"github.com/gogpu/ggchart/task"
)

// Supplement completes a mapping option before it is built, e.g. by
// setting the method and data extent of a visualMap component.
type Supplement func(opt *MappingOption, state State)

// Mappings holds the mappings of each value state.
type Mappings struct {
	states  []State
	byState map[State]*stateMappings
}

type stateMappings struct {
	byChannel map[Channel]*Mapping
	order     []Channel

	// alphaForOpacity mirrors the opacity mapping as colorAlpha, for
	// consumers that draw opacity into a color.
	alphaForOpacity *Mapping
}

// CreateMappings builds the mappings of every state in states from
// option. Channels of a state are built in canonical channel order and
// applied in PrepareVisualTypes order. Unknown channels are skipped.
func CreateMappings(option map[State]map[Channel]MappingOption, states []State, supplement Supplement) (*Mappings, error) {
	ms := &Mappings{
		states:  append([]State(nil), states...),
		byState: make(map[State]*stateMappings, len(states)),
	}
	for _, st := range states {
		sm := &stateMappings{byChannel: make(map[Channel]*Mapping)}
		ms.byState[st] = sm

		opts := option[st]
		for _, ch := range channels {
			opt, ok := opts[ch]
			if !ok {
				continue
			}
			opt.Channel = ch
			if supplement != nil {
				supplement(&opt, st)
			}
			m, err := NewMapping(opt)
			if err != nil {
				return nil, fmt.Errorf("visual: state %s: %w", st, err)
			}
			sm.byChannel[ch] = m
			sm.order = append(sm.order, ch)

			if ch == Opacity {
				alpha := opt
				alpha.Channel = ColorAlpha
				if sm.alphaForOpacity, err = NewMapping(alpha); err != nil {
					return nil, fmt.Errorf("visual: state %s: %w", st, err)
				}
			}
		}
		for ch := range opts {
			if !ch.Valid() {
				logger().Warn("visual: unknown channel skipped", "state", st, "channel", ch)
			}
		}
		sm.order = PrepareVisualTypes(sm.order)
	}
	return ms, nil
}

// States returns the states the mappings were built for.
func (ms *Mappings) States() []State {
	return append([]State(nil), ms.states...)
}

// Mapping returns the mapping of channel c in state st, or nil.
func (ms *Mappings) Mapping(st State, c Channel) *Mapping {
	if sm := ms.byState[st]; sm != nil {
		return sm.byChannel[c]
	}
	return nil
}

// Channels returns the channels of state st in application order.
func (ms *Mappings) Channels(st State) []Channel {
	if sm := ms.byState[st]; sm != nil {
		return append([]Channel(nil), sm.order...)
	}
	return nil
}

// AlphaForOpacity returns the colorAlpha twin of the opacity mapping of
// state st, or nil.
func (ms *Mappings) AlphaForOpacity(st State) *Mapping {
	if sm := ms.byState[st]; sm != nil {
		return sm.alphaForOpacity
	}
	return nil
}

// Resolve maps value through channel c of state st. A state without a
// mapping for c falls back to the normal state, or to the first listed
// state when there is no normal state.
func (ms *Mappings) Resolve(st State, c Channel, value float64) any {
	m := ms.Mapping(st, c)
	if m == nil {
		fallback := StateNormal
		if _, ok := ms.byState[StateNormal]; !ok && len(ms.states) > 0 {
			fallback = ms.states[0]
		}
		m = ms.Mapping(fallback, c)
	}
	if m == nil {
		return nil
	}
	return m.MapValueToVisual(value)
}

// ValueState picks the state a value falls into.
type ValueState func(value float64) State

// applier writes the visuals of a Mappings into store items.
type applier struct {
	ms         *Mappings
	valueState ValueState
	dim        string
	large      bool
}

func (a *applier) value(s *data.Store, dataIndex int) float64 {
	if a.dim == "" {
		return float64(dataIndex)
	}
	return s.Get(a.dim, dataIndex)
}

func (a *applier) each(s *data.Store, dataIndex int) {
	if !a.large && s.SkipsVisualMap(dataIndex) {
		return
	}
	v := a.value(s, dataIndex)
	sm := a.ms.byState[a.valueState(v)]
	if sm == nil || len(sm.order) == 0 {
		return
	}

	var style map[string]any
	if !a.large {
		style = s.ItemStyle(dataIndex)
	}
	get := func(c Channel) any {
		if v, ok := s.ItemVisual(dataIndex, string(c)); ok {
			return v
		}
		return s.Visual(string(c))
	}
	set := func(c Channel, v any) {
		if explicit, ok := style[string(c)]; ok && explicit != nil {
			v = explicit
		}
		s.SetItemVisual(dataIndex, string(c), v)
	}
	for _, c := range sm.order {
		sm.byChannel[c].Apply(v, get, set)
	}
}

// ApplyVisual writes the visuals of ms into every item of store. The
// value of an item is its dim value, or its data index when dim is empty.
// Items that opted out of visual mapping are skipped and explicit item
// style keys win over mapped visuals.
func ApplyVisual(ms *Mappings, store *data.Store, valueState ValueState, dim string) {
	a := &applier{ms: ms, valueState: valueState, dim: dim}
	for i, n := 0, store.Count(); i < n; i++ {
		a.each(store, i)
	}
}

// IncrementalApplyVisual returns a progress executor applying ms chunk by
// chunk. In large mode it skips the per-item opt-out and override checks
// and reads dim straight from the column.
func IncrementalApplyVisual(ms *Mappings, valueState ValueState, dim string, large bool) task.ProgressExecutor {
	a := &applier{ms: ms, valueState: valueState, dim: dim, large: large}
	if !large {
		return task.ProgressExecutor{DataEach: func(s *data.Store, dataIndex int) error {
			a.each(s, dataIndex)
			return nil
		}}
	}
	return task.ProgressExecutor{Progress: func(p task.Params, s *data.Store) error {
		col := s.Column(dim)
		for i, ok := p.Next(); ok; i, ok = p.Next() {
			if col == nil {
				a.each(s, i)
				continue
			}
			v := col[s.RawIndex(i)]
			sm := ms.byState[valueState(v)]
			if sm == nil {
				continue
			}
			get := func(c Channel) any {
				if v, ok := s.ItemVisual(i, string(c)); ok {
					return v
				}
				return s.Visual(string(c))
			}
			set := func(c Channel, v any) { s.SetItemVisual(i, string(c), v) }
			for _, c := range sm.order {
				sm.byChannel[c].Apply(v, get, set)
			}
		}
		return nil
	}}
}
