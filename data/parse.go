package data

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// parseCell converts a raw option cell to the float64 stored for dim.
// Unparseable cells become NaN.
func parseCell(dim *Dimension, cell any) float64 {
	if cell == nil {
		return math.NaN()
	}
	switch dim.Type {
	case TypeOrdinal:
		if dim.Ordinal == nil {
			dim.Ordinal = NewOrdinalMeta()
		}
		switch v := cell.(type) {
		case string:
			if v == "" || v == "-" {
				return math.NaN()
			}
			return float64(dim.Ordinal.Parse(v))
		default:
			// Numbers on an ordinal dimension are category indices.
			return parseNumber(cell)
		}
	case TypeTime:
		return parseTime(cell)
	case TypeInt:
		f := parseNumber(cell)
		if math.IsNaN(f) {
			return f
		}
		return math.Trunc(f)
	default:
		return parseNumber(cell)
	}
}

func parseNumber(cell any) float64 {
	switch v := cell.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case uint32:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if v {
			return 1
		}
		return 0
	case time.Time:
		return float64(v.UnixMilli())
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "-" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

func parseTime(cell any) float64 {
	switch v := cell.(type) {
	case time.Time:
		return float64(v.UnixMilli())
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return float64(t.UnixMilli())
			}
		}
		return parseNumber(s)
	}
	return parseNumber(cell)
}
