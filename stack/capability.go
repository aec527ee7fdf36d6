package stack

import "github.com/gogpu/ggchart/data"

// Names of the derived dimensions.
const (
	ResultDimension = "__stackResult"
	OverDimension   = "__stackedOver"
)

// Options are the stack settings of one series.
type Options struct {
	Key      string // series "stack"; "" disables stacking
	Strategy string // series "stackStrategy"
	By       string // "", "index" or "value"
	CoordDim string // restrict the stacked dimension to this coordinate
}

// Capability is the stacking state a series holds between passes.
type Capability struct {
	Key      string
	Strategy Strategy
	By       By
	CoordDim string

	// Enabled is false when the series does not stack; Reason says why
	// when a key was given.
	Enabled bool
	Reason  string

	StackedDimension   string
	StackedByDimension string
	IsStackedByIndex   bool
	ResultDimension    string
	OverDimension      string
}

// Stackable is a series that can take part in a stack group.
type Stackable interface {
	UID() string
	StackCapability() Capability
	Store() *data.Store
	SetStore(*data.Store)
}

// Enable validates opts against store and prepares it for stacking. It
// returns the store to use from now on, with the stacked-by dimension
// indexed and the stack dimensions recorded in its calculation info.
//
// A series without a stack key, without a stackable value dimension, or
// asking for ByValue without an ordinal or time dimension is returned
// unchanged with a disabled capability.
func Enable(store *data.Store, opts Options) (*data.Store, Capability, error) {
	strategy, err := ParseStrategy(opts.Strategy)
	if err != nil {
		return store, Capability{}, err
	}
	by, err := ParseBy(opts.By)
	if err != nil {
		return store, Capability{}, err
	}

	capab := Capability{
		Key:      opts.Key,
		Strategy: strategy,
		By:       by,
		CoordDim: opts.CoordDim,
	}
	if opts.Key == "" || store == nil {
		return store, capab, nil
	}

	var byDim string
	for _, d := range store.Dimensions() {
		if d.IsCalculation {
			continue
		}
		if d.IsOrdinalOrTime() {
			if byDim == "" {
				byDim = d.Name
			}
			continue
		}
		if capab.StackedDimension == "" && (opts.CoordDim == "" || d.CoordDim == opts.CoordDim) {
			capab.StackedDimension = d.Name
		}
	}
	if capab.StackedDimension == "" {
		capab.Reason = "no numeric dimension to stack"
		return store, capab, nil
	}

	switch {
	case by == ByIndex || (by == ByAuto && byDim == ""):
		capab.IsStackedByIndex = true
	case byDim != "":
		capab.StackedByDimension = byDim
	default:
		capab.StackedDimension = ""
		capab.Reason = "stack by value needs an ordinal or time dimension"
		return store, capab, nil
	}

	capab.Enabled = true
	capab.ResultDimension = ResultDimension
	capab.OverDimension = OverDimension

	out := store.CloneShallow()
	if capab.StackedByDimension != "" {
		out = out.WithInvertedIndices(capab.StackedByDimension)
	}
	out.SetCalculation(data.CalculationInfo{
		StackedDimension:     capab.StackedDimension,
		StackedByDimension:   capab.StackedByDimension,
		IsStackedByIndex:     capab.IsStackedByIndex,
		StackResultDimension: capab.ResultDimension,
		StackedOverDimension: capab.OverDimension,
	})
	return out, capab, nil
}
