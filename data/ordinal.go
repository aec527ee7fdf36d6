package data

// OrdinalMeta maps category names to stable indices.
// Stores that share an axis should share one OrdinalMeta so the same
// category gets the same index in every series.
type OrdinalMeta struct {
	categories []string
	index      map[string]int
}

// NewOrdinalMeta creates a meta seeded with categories in order.
func NewOrdinalMeta(categories ...string) *OrdinalMeta {
	m := &OrdinalMeta{index: make(map[string]int, len(categories))}
	for _, c := range categories {
		m.Parse(c)
	}
	return m
}

// Parse returns the index of name, appending it when it is new.
func (m *OrdinalMeta) Parse(name string) int {
	if i, ok := m.index[name]; ok {
		return i
	}
	i := len(m.categories)
	m.categories = append(m.categories, name)
	m.index[name] = i
	return i
}

// Lookup returns the index of name without adding it.
func (m *OrdinalMeta) Lookup(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// Category returns the name at index i, or "" when out of range.
func (m *OrdinalMeta) Category(i int) string {
	if i < 0 || i >= len(m.categories) {
		return ""
	}
	return m.categories[i]
}

// Len returns the number of categories.
func (m *OrdinalMeta) Len() int {
	return len(m.categories)
}

// Categories returns a copy of the category names in index order.
func (m *OrdinalMeta) Categories() []string {
	out := make([]string, len(m.categories))
	copy(out, m.categories)
	return out
}
