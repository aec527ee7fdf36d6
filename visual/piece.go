package visual

import "math"

// Piece is one segment of a piecewise mapping: either an exact value or an
// interval. Interval ends are open unless the matching Close flag is set;
// an infinite end is unbounded.
type Piece struct {
	Value    *float64
	Interval *[2]float64
	Close    [2]bool

	// Visual overrides the mapped visual for values in the piece.
	Visual map[Channel]any
	Label  string
}

// ValuePiece returns a piece matching exactly v.
func ValuePiece(v float64) Piece {
	return Piece{Value: &v}
}

// IntervalPiece returns a piece for the interval between lo and hi.
func IntervalPiece(lo, hi float64, closeLo, closeHi bool) Piece {
	return Piece{Interval: &[2]float64{lo, hi}, Close: [2]bool{closeLo, closeHi}}
}

// FindPieceIndex returns the index of the piece containing value, or -1.
// Exact value pieces win over intervals. With findClosest a value outside
// every piece maps to the piece with the nearest bound, and ±Inf map to
// the last and first piece.
func FindPieceIndex(value float64, pieces []Piece, findClosest bool) int {
	best := -1
	bestAbs := math.Inf(1)
	consider := func(v float64, i int) {
		if d := math.Abs(v - value); d < bestAbs {
			bestAbs, best = d, i
		}
	}

	for i, p := range pieces {
		if p.Value == nil {
			continue
		}
		if *p.Value == value {
			return i
		}
		if findClosest {
			consider(*p.Value, i)
		}
	}

	for i, p := range pieces {
		if p.Interval == nil {
			continue
		}
		lo, hi := p.Interval[0], p.Interval[1]
		switch {
		case math.IsInf(lo, -1):
			if lessThan(p.Close[1], value, hi) {
				return i
			}
		case math.IsInf(hi, 1):
			if lessThan(p.Close[0], lo, value) {
				return i
			}
		case lessThan(p.Close[0], lo, value) && lessThan(p.Close[1], value, hi):
			return i
		}
		if findClosest {
			consider(lo, i)
			consider(hi, i)
		}
	}

	if !findClosest || len(pieces) == 0 {
		return -1
	}
	switch {
	case math.IsInf(value, 1):
		return len(pieces) - 1
	case math.IsInf(value, -1):
		return 0
	}
	return best
}

func lessThan(closed bool, a, b float64) bool {
	if closed {
		return a <= b
	}
	return a < b
}
