// Package cache provides the scheduler's side table: an LRU map whose keys
// carry the identity of the series (or axis) that owns them.
//
// Values derived from a series, such as a data extent computed for a visual
// mapping, are memoized under a [Key] naming their owner. When the owner is
// disposed the scheduler calls [Table.DeleteOwner] and every entry it owned
// goes with it, so nothing outlives the model it was computed from.
//
//	t := cache.New[[2]float64](256)
//	ext := t.GetOrCreate(cache.Key{Owner: uid, Name: "extent/value"}, compute)
//	t.DeleteOwner(uid)
//
// # Thread Safety
//
// Table is safe for concurrent use and must not be copied after creation.
package cache
