// Package data implements the columnar data store a series pipeline reads
// and writes.
//
// A [Store] holds one immutable Apache Arrow float64 column per dimension,
// indexed by raw index. Ordinal values are stored as category indices and
// time values as Unix milliseconds; a missing value is NaN. On top of the
// raw columns a store keeps a data-index view: [Store.Filter],
// [Store.SelectRange] and [Store.Map] return new stores that share the
// columns they did not touch and never write into a column in place.
//
// Stores are created once per series per option apply and replaced, not
// mutated, when a stage derives new columns. Each store carries a ULID that
// changes with every derived store, so caches can key on [Store.ID].
//
// Reads never fail: an unknown dimension or an index outside the view
// yields NaN, and the NaN flows through stacking and visual mapping as a gap.
package data
