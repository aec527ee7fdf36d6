package stack

import (
	"math"
	"strconv"
	"strings"
)

// maxRoundPrecision is the largest decimal precision addSafe rounds to.
const maxRoundPrecision = 20

// addSafe adds a and b and rounds the sum to the larger decimal precision
// of the operands, so 0.1 + 0.2 yields 0.3.
func addSafe(a, b float64) float64 {
	sum := a + b
	p := max(precision(a), precision(b))
	if p > maxRoundPrecision || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return sum
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(sum, 'f', p, 64), 64)
	if err != nil {
		return sum
	}
	return r
}

// precision returns the number of decimal digits of v's shortest
// representation.
func precision(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
