package data

// SetVisual sets a series-level visual, e.g. "color" or "emphasis.color".
func (s *Store) SetVisual(key string, value any) {
	if s.visual == nil {
		s.visual = make(map[string]any)
	}
	s.visual[key] = value
}

// Visual returns a series-level visual, or nil.
func (s *Store) Visual(key string) any {
	return s.visual[key]
}

// SetItemVisual sets a visual on the item at dataIndex.
func (s *Store) SetItemVisual(dataIndex int, key string, value any) {
	if s.itemVisuals == nil {
		s.itemVisuals = make(map[int]map[string]any)
	}
	m := s.itemVisuals[dataIndex]
	if m == nil {
		m = make(map[string]any, 2)
		s.itemVisuals[dataIndex] = m
	}
	m[key] = value
}

// ItemVisual returns the item-level visual at dataIndex without falling
// back to the series visual.
func (s *Store) ItemVisual(dataIndex int, key string) (any, bool) {
	v, ok := s.itemVisuals[dataIndex][key]
	return v, ok
}

// HasItemVisual reports whether any item-level visual is set.
func (s *Store) HasItemVisual() bool {
	return len(s.itemVisuals) > 0
}

// ClearAllVisual drops series and item visuals.
func (s *Store) ClearAllVisual() {
	s.visual = nil
	s.itemVisuals = nil
}
