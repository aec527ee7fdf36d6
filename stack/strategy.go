package stack

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by Enable for bad stack settings.
var (
	ErrUnknownStrategy = errors.New("stack: unknown strategy")
	ErrUnknownStackBy  = errors.New("stack: unknown stack-by mode")
)

// Strategy decides which prior layer a value stacks onto.
type Strategy string

// Stack strategies.
const (
	// StrategySameSign stacks positive values onto the nearest positive
	// layer and negative values onto the nearest negative layer.
	StrategySameSign Strategy = "samesign"
	// StrategyAll stacks onto the nearest layer whatever its sign.
	StrategyAll Strategy = "all"
	// StrategyPositive stacks only onto positive layers.
	StrategyPositive Strategy = "positive"
	// StrategyNegative stacks only onto negative layers.
	StrategyNegative Strategy = "negative"
)

// ParseStrategy parses a strategy name. "" selects StrategySameSign.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategySameSign, nil
	case StrategySameSign, StrategyAll, StrategyPositive, StrategyNegative:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// accepts reports whether a running sum stacks onto a prior layer value.
// NaN layers never accept.
func (s Strategy) accepts(sum, val float64) bool {
	if math.IsNaN(val) {
		return false
	}
	switch s {
	case StrategyAll:
		return true
	case StrategyPositive:
		return val > 0
	case StrategyNegative:
		return val < 0
	default:
		return (sum >= 0 && val > 0) || (sum <= 0 && val < 0)
	}
}

// By selects how rows of different series are aligned.
type By string

// Alignment modes.
const (
	// ByAuto aligns by the first ordinal or time dimension, falling back to
	// row position.
	ByAuto By = ""
	// ByIndex aligns rows by raw index.
	ByIndex By = "index"
	// ByValue aligns by the first ordinal or time dimension and leaves the
	// series unstacked when there is none.
	ByValue By = "value"
)

// ParseBy parses an alignment mode name.
func ParseBy(s string) (By, error) {
	switch By(s) {
	case ByAuto, ByIndex, ByValue:
		return By(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStackBy, s)
}
