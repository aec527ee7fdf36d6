package series

// Model is the ordered collection of series of one chart.
type Model struct {
	series   []*Series
	filtered map[string]bool
}

// NewModel creates a model from series in declaration order.
func NewModel(series ...*Series) *Model {
	m := &Model{filtered: make(map[string]bool)}
	for _, s := range series {
		m.Add(s)
	}
	return m
}

// Add appends s and assigns its declaration index.
func (m *Model) Add(s *Series) {
	s.index = len(m.series)
	m.series = append(m.series, s)
}

// Remove drops the series with uid and reindexes the rest.
func (m *Model) Remove(uid string) bool {
	for i, s := range m.series {
		if s.uid != uid {
			continue
		}
		m.series = append(m.series[:i], m.series[i+1:]...)
		for j := i; j < len(m.series); j++ {
			m.series[j].index = j
		}
		delete(m.filtered, uid)
		return true
	}
	return false
}

// Len returns the number of series, filtered or not.
func (m *Model) Len() int {
	return len(m.series)
}

// RawSeries returns every series in declaration order.
func (m *Model) RawSeries() []*Series {
	return append([]*Series(nil), m.series...)
}

// Series returns the series that are not filtered out.
func (m *Model) Series() []*Series {
	out := make([]*Series, 0, len(m.series))
	for _, s := range m.series {
		if !m.filtered[s.uid] {
			out = append(out, s)
		}
	}
	return out
}

// RawSeriesByType returns every series of type typ.
func (m *Model) RawSeriesByType(typ string) []*Series {
	var out []*Series
	for _, s := range m.series {
		if s.typ == typ {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the series with uid, or nil.
func (m *Model) Find(uid string) *Series {
	for _, s := range m.series {
		if s.uid == uid {
			return s
		}
	}
	return nil
}

// FindByName returns the first series named name, or nil.
func (m *Model) FindByName(name string) *Series {
	for _, s := range m.series {
		if s.name == name {
			return s
		}
	}
	return nil
}

// SetFiltered hides or shows a series, as a legend toggle does.
func (m *Model) SetFiltered(uid string, filtered bool) {
	if filtered {
		m.filtered[uid] = true
	} else {
		delete(m.filtered, uid)
	}
}

// IsFiltered reports whether s is hidden.
func (m *Model) IsFiltered(s *Series) bool {
	return m.filtered[s.uid]
}

// RestoreData marks every series data task dirty.
func (m *Model) RestoreData() {
	for _, s := range m.series {
		s.RestoreData()
	}
}
