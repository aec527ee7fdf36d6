// Package series holds the series model a pipeline runs on.
//
// A [Series] owns its raw store, built from the option data, and a data
// task that restores a shallow clone of it at the head of the series'
// pipeline. Stages read and replace the current store through
// [Series.Store] and [Series.SetStore], which follow the task the scheduler
// is performing, so each stage sees the output of the one before it.
//
// Stacking is a capability the series holds as a value ([stack.Capability]),
// not behavior it inherits: a Series satisfies [stack.Stackable] and
// [SeriesDataSource].
package series
