package data

// Calculation info keys understood by SetCalculationInfo.
const (
	KeyStackedDimension     = "stackedDimension"
	KeyStackedByDimension   = "stackedByDimension"
	KeyIsStackedByIndex     = "isStackedByIndex"
	KeyStackedOverDimension = "stackedOverDimension"
	KeyStackResultDimension = "stackResultDimension"
	KeyStackedOnSeries      = "stackedOnSeries"
)

// CalculationInfo is the stack linkage recorded on a store.
type CalculationInfo struct {
	StackedDimension     string
	StackedByDimension   string
	IsStackedByIndex     bool
	StackedOverDimension string
	StackResultDimension string

	// StackedOnSeries is the UID of the previous member of the stack group.
	StackedOnSeries string
}

// SetCalculationInfo records derived metadata on s. The stack keys set the
// matching CalculationInfo field when value has the right type; other keys
// are kept as free-form values.
func (s *Store) SetCalculationInfo(key string, value any) {
	str, isStr := value.(string)
	switch key {
	case KeyStackedDimension:
		if isStr {
			s.calc.StackedDimension = str
			return
		}
	case KeyStackedByDimension:
		if isStr {
			s.calc.StackedByDimension = str
			return
		}
	case KeyStackedOverDimension:
		if isStr {
			s.calc.StackedOverDimension = str
			return
		}
	case KeyStackResultDimension:
		if isStr {
			s.calc.StackResultDimension = str
			return
		}
	case KeyStackedOnSeries:
		if isStr {
			s.calc.StackedOnSeries = str
			return
		}
	case KeyIsStackedByIndex:
		if b, ok := value.(bool); ok {
			s.calc.IsStackedByIndex = b
			return
		}
	}
	if s.calcExtra == nil {
		s.calcExtra = make(map[string]any)
	}
	s.calcExtra[key] = value
}

// SetCalculation replaces the typed calculation info.
func (s *Store) SetCalculation(info CalculationInfo) {
	s.calc = info
}

// CalculationInfo returns the typed calculation info.
func (s *Store) CalculationInfo() CalculationInfo {
	return s.calc
}

// CalculationInfoValue returns the value recorded under key, or nil.
func (s *Store) CalculationInfoValue(key string) any {
	switch key {
	case KeyStackedDimension:
		return s.calc.StackedDimension
	case KeyStackedByDimension:
		return s.calc.StackedByDimension
	case KeyIsStackedByIndex:
		return s.calc.IsStackedByIndex
	case KeyStackedOverDimension:
		return s.calc.StackedOverDimension
	case KeyStackResultDimension:
		return s.calc.StackResultDimension
	case KeyStackedOnSeries:
		return s.calc.StackedOnSeries
	}
	return s.calcExtra[key]
}
