package data

import "fmt"

// Type is the value type of a dimension.
type Type uint8

// Dimension types.
const (
	TypeFloat Type = iota
	TypeInt
	TypeOrdinal
	TypeTime
)

// String returns the type name used in options.
func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeOrdinal:
		return "ordinal"
	case TypeTime:
		return "time"
	default:
		return fmt.Sprintf("Type(%d)", t)
	}
}

// ParseType maps an option type name to a Type. Unknown names and "" are
// TypeFloat; "number" is accepted as an alias.
func ParseType(s string) Type {
	switch s {
	case "int":
		return TypeInt
	case "ordinal", "category":
		return TypeOrdinal
	case "time":
		return TypeTime
	default:
		return TypeFloat
	}
}

// Dimension describes one column of a store.
type Dimension struct {
	Name string
	Type Type

	// CoordDim is the coordinate dimension ("x", "y", "value") this column
	// maps onto. Stacking can be scoped to it.
	CoordDim string

	// Ordinal maps category names to the indices stored in the column.
	// It is created on demand for TypeOrdinal dimensions.
	Ordinal *OrdinalMeta

	// CreateInvertedIndices enables RawIndexOf on this dimension.
	CreateInvertedIndices bool

	// IsCalculation marks a column derived by a stage, e.g. a stack result.
	IsCalculation bool
}

// IsOrdinalOrTime reports whether the dimension can align rows across
// series.
func (d Dimension) IsOrdinalOrTime() bool {
	return d.Type == TypeOrdinal || d.Type == TypeTime
}
