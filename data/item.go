package data

// ItemOption carries the per-item settings of a data item given as an
// object in the option, e.g. {"value": 3, "name": "a", "itemStyle": {...}}.
type ItemOption struct {
	Name string

	// Style holds explicit item style keys. Normal-state keys are bare
	// ("color", "opacity"); other states are prefixed ("emphasis.color").
	Style map[string]any

	// NoVisualMap excludes the item from visualMap components
	// ("visualMap": false).
	NoVisualMap bool
}

func (o ItemOption) empty() bool {
	return o.Name == "" && len(o.Style) == 0 && !o.NoVisualMap
}

// HasItemOption reports whether any item carries a name, a style or a
// visualMap opt-out.
func (s *Store) HasItemOption() bool {
	return s.items != nil
}

func (s *Store) item(dataIndex int) (ItemOption, bool) {
	if s.items == nil {
		return ItemOption{}, false
	}
	raw := s.RawIndex(dataIndex)
	if raw < 0 || raw >= len(s.items) {
		return ItemOption{}, false
	}
	return s.items[raw], true
}

// ItemName returns the name of the item at dataIndex, or "".
func (s *Store) ItemName(dataIndex int) string {
	it, _ := s.item(dataIndex)
	return it.Name
}

// ItemStyle returns the explicit style of the item at dataIndex, or nil.
// The map must not be modified.
func (s *Store) ItemStyle(dataIndex int) map[string]any {
	it, _ := s.item(dataIndex)
	return it.Style
}

// SkipsVisualMap reports whether the item at dataIndex opted out of
// visualMap components.
func (s *Store) SkipsVisualMap(dataIndex int) bool {
	it, _ := s.item(dataIndex)
	return it.NoVisualMap
}
