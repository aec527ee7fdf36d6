package task

// Params is the due range handed to a progress function.
type Params struct {
	// Start and End bound the chunk: [Start, End).
	Start, End int
	// DueIndex is the cursor before the chunk; it equals Start.
	DueIndex int
	// DueEnd is the end of the whole due range of the task.
	DueEnd int

	it *iterator
}

// Count returns the number of rows in the chunk.
func (p Params) Count() int {
	return p.End - p.Start
}

// Next returns the next data index to process in the chunk.
// In sequential mode it yields Start..End-1; in mod-sharded mode it visits
// the data in strides so a partially drawn chunk covers the whole extent.
func (p Params) Next() (int, bool) {
	if p.it == nil {
		return -1, false
	}
	return p.it.next()
}

// iterator walks a chunk either sequentially or in mod order. In mod
// order position c of [0, modDataCount) maps to a permutation that visits
// every modBy-th row first: 0, modBy, 2*modBy, ..., then 1, 1+modBy, ...
type iterator struct {
	current, end int
	modBy        int
	modDataCount int
}

func newIterator(start, end, modBy, modDataCount int) *iterator {
	return &iterator{current: start, end: end, modBy: modBy, modDataCount: modDataCount}
}

func (it *iterator) next() (int, bool) {
	if it.current >= it.end {
		return -1, false
	}
	cur := it.current
	it.current++
	if it.modBy <= 1 || it.modDataCount <= 0 || cur >= it.modDataCount {
		return cur, true
	}
	return modIndex(cur, it.modBy, it.modDataCount), true
}

// modIndex maps position c to a data index. Rows are split into modBy
// residue classes; class j holds j, j+modBy, j+2*modBy, ... and the classes
// are visited in order.
func modIndex(c, modBy, n int) int {
	q, r := n/modBy, n%modBy
	var j, k int
	if long := r * (q + 1); c < long {
		j, k = c/(q+1), c%(q+1)
	} else {
		c -= long
		j, k = r+c/q, c%q
	}
	return j + k*modBy
}
