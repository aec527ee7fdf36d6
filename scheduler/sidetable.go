package scheduler

import "github.com/gogpu/ggchart/internal/cache"

// Memo returns the value cached under owner and key, calling create on a
// miss. Entries are dropped when their owner is disposed or by LRU
// eviction. create must not call Memo.
func (sc *Scheduler) Memo(owner, key string, create func() any) any {
	return sc.side.GetOrCreate(cache.Key{Owner: owner, Name: key}, create)
}

// Forget drops every side-table entry of owner.
func (sc *Scheduler) Forget(owner string) int {
	return sc.side.DeleteOwner(owner)
}

// SideTableStats reports side-table usage.
func (sc *Scheduler) SideTableStats() cache.Stats {
	return sc.side.Stats()
}
