// Package stack resolves stack groups: series that share a stack key are
// summed row by row, in declaration order, into two derived dimensions.
//
// The stack result dimension holds the running sum including the series;
// the stacked-over dimension holds the baseline the series sits on. Rows
// align either by position (by index) or by the value of the first ordinal
// or time dimension, looked up through the store's inverted index.
//
// A series opts in with [Enable] when its store is built, which records the
// [Capability] the series keeps for later passes. [Resolve] then computes
// every group from the current member stores and replaces them with the
// derived stores.
package stack
