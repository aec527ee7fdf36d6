package cache

import "sync"

// Key identifies a side-table entry. Owner is the stable id of the model the
// value was derived from; Name distinguishes values of the same owner.
type Key struct {
	Owner string
	Name  string
}

// Table is an LRU side table with owner-scoped deletion.
// A capacity of 0 means unlimited.
type Table[V any] struct {
	mu       sync.Mutex
	entries  map[Key]*entry[V]
	owners   map[string]map[Key]struct{}
	order    lruList
	capacity int

	hits, misses int
}

type entry[V any] struct {
	value V
	node  *lruNode
}

// New creates a table holding at most capacity entries.
func New[V any](capacity int) *Table[V] {
	return &Table[V]{
		entries:  make(map[Key]*entry[V]),
		owners:   make(map[string]map[Key]struct{}),
		capacity: capacity,
	}
}

// Get returns the value stored under key and marks it recently used.
func (t *Table[V]) Get(key Key) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		t.misses++
		var zero V
		return zero, false
	}
	t.hits++
	t.order.moveToFront(e.node)
	return e.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the table is over capacity.
func (t *Table[V]) Set(key Key, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setLocked(key, value)
}

// GetOrCreate returns the cached value or stores the result of create.
// create runs under the table lock and must not call back into t.
func (t *Table[V]) GetOrCreate(key Key, create func() V) V {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok {
		t.hits++
		t.order.moveToFront(e.node)
		return e.value
	}
	t.misses++
	v := create()
	t.setLocked(key, v)
	return v
}

// Delete removes a single entry. It reports whether the entry existed.
func (t *Table[V]) Delete(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deleteLocked(key)
}

// DeleteOwner removes every entry owned by owner and returns how many were
// removed.
func (t *Table[V]) DeleteOwner(owner string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := t.owners[owner]
	n := 0
	for k := range keys {
		if t.deleteLocked(k) {
			n++
		}
	}
	delete(t.owners, owner)
	return n
}

// Clear removes all entries.
func (t *Table[V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = make(map[Key]*entry[V])
	t.owners = make(map[string]map[Key]struct{})
	t.order = lruList{}
}

// Len returns the number of entries.
func (t *Table[V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Stats reports table usage.
func (t *Table[V]) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		Len:      len(t.entries),
		Capacity: t.capacity,
		Owners:   len(t.owners),
		Hits:     t.hits,
		Misses:   t.misses,
	}
}

// Stats holds table statistics.
type Stats struct {
	Len      int
	Capacity int
	Owners   int
	Hits     int
	Misses   int
}

// Caller must hold t.mu.
func (t *Table[V]) setLocked(key Key, value V) {
	if e, ok := t.entries[key]; ok {
		e.value = value
		t.order.moveToFront(e.node)
		return
	}
	t.entries[key] = &entry[V]{value: value, node: t.order.pushFront(key)}
	set := t.owners[key.Owner]
	if set == nil {
		set = make(map[Key]struct{})
		t.owners[key.Owner] = set
	}
	set[key] = struct{}{}

	for t.capacity > 0 && len(t.entries) > t.capacity {
		oldest := t.order.back()
		if oldest == nil {
			break
		}
		t.deleteLocked(oldest.key)
	}
}

// Caller must hold t.mu.
func (t *Table[V]) deleteLocked(key Key) bool {
	e, ok := t.entries[key]
	if !ok {
		return false
	}
	t.order.remove(e.node)
	delete(t.entries, key)
	if set := t.owners[key.Owner]; set != nil {
		delete(set, key)
		if len(set) == 0 {
			delete(t.owners, key.Owner)
		}
	}
	return true
}
