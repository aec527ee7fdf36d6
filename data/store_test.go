package data

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xyDims() []Dimension {
	return []Dimension{
		{Name: "x", Type: TypeOrdinal, CoordDim: "x"},
		{Name: "y", Type: TypeFloat, CoordDim: "y"},
	}
}

func newXY(t *testing.T) *Store {
	t.Helper()
	s, err := New(xyDims(), [][]any{
		{"a", 1},
		{"b", "2.5"},
		{"c", nil},
		{"d", -4},
	})
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s := newXY(t)

	assert.Equal(t, 4, s.Count())
	assert.Equal(t, 4, s.RawCount())
	assert.Equal(t, 1.0, s.Get("y", 0))
	assert.Equal(t, 2.5, s.Get("y", 1))
	assert.True(t, math.IsNaN(s.Get("y", 2)))
	assert.Equal(t, 3.0, s.Get("x", 3), "ordinal stored as category index")

	dim, ok := s.Dimension("x")
	require.True(t, ok)
	assert.Equal(t, "d", dim.Ordinal.Category(3))
	assert.False(t, s.ID().IsZero())
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNoDimensions)

	_, err = New([]Dimension{{Name: "a"}, {Name: "a"}}, nil)
	assert.ErrorIs(t, err, ErrDuplicateDimension)

	_, err = FromColumns([]Dimension{{Name: "a"}, {Name: "b"}}, [][]float64{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrColumnLength)
}

func TestGetMissing(t *testing.T) {
	s := newXY(t)
	assert.True(t, math.IsNaN(s.Get("nope", 0)))
	assert.True(t, math.IsNaN(s.Get("y", -1)))
	assert.True(t, math.IsNaN(s.Get("y", 4)))
	assert.True(t, math.IsNaN(s.GetByRawIndex("y", 99)))
}

func TestParseTime(t *testing.T) {
	s, err := New([]Dimension{{Name: "t", Type: TypeTime}}, [][]any{
		{"2025-01"},
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"garbage"},
	})
	require.NoError(t, err)

	jan := float64(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	feb := float64(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	assert.Equal(t, jan, s.Get("t", 0))
	assert.Equal(t, feb, s.Get("t", 1))
	assert.True(t, math.IsNaN(s.Get("t", 2)))
}

func TestFilterKeepsRawIndex(t *testing.T) {
	s := newXY(t)
	f := s.Filter(func(st *Store, di int) bool {
		return !math.IsNaN(st.Get("y", di))
	})

	require.Equal(t, 3, f.Count())
	assert.Equal(t, 4, s.Count(), "source view unchanged")
	assert.Equal(t, 3, f.RawIndex(2))
	assert.Equal(t, -4.0, f.Get("y", 2))
	assert.Equal(t, 2, f.IndexOfRawIndex(3))
	assert.Equal(t, -1, f.IndexOfRawIndex(2))
	assert.True(t, math.IsNaN(f.Get("y", 3)), "index outside the filtered view")
	assert.Equal(t, -4.0, f.GetByRawIndex("y", 3))
	assert.NotEqual(t, s.ID(), f.ID())
}

func TestSelectRange(t *testing.T) {
	s := newXY(t).SelectRange("y", 0, 2)
	require.Equal(t, 1, s.Count())
	assert.Equal(t, 1.0, s.Get("y", 0))
}

func TestRawIndexOf(t *testing.T) {
	s, err := New([]Dimension{
		{Name: "k", Type: TypeFloat, CreateInvertedIndices: true},
		{Name: "v"},
	}, [][]any{{10, 1}, {20, 2}, {10, 3}})
	require.NoError(t, err)

	assert.Equal(t, 1, s.RawIndexOf("k", 20))
	assert.Equal(t, 2, s.RawIndexOf("k", 10), "last raw index wins on duplicates")
	assert.Equal(t, -1, s.RawIndexOf("k", 30))
	assert.Equal(t, -1, s.RawIndexOf("v", 1), "no inverted index on v")

	w := s.WithInvertedIndices("v")
	assert.Equal(t, 2, w.RawIndexOf("v", 3))
	assert.Equal(t, -1, s.RawIndexOf("v", 3), "source unchanged")
}

func TestMap(t *testing.T) {
	s := newXY(t)
	m := s.Map([]string{"y", "double"}, func(v []float64, di int) []float64 {
		return []float64{v[0] + 1, v[0] * 2}
	})

	assert.Equal(t, 1.0, s.Get("y", 0), "source untouched")
	assert.Equal(t, 2.0, m.Get("y", 0))
	assert.Equal(t, 2.0, m.Get("double", 0))
	assert.Equal(t, -8.0, m.Get("double", 3))
	assert.True(t, math.IsNaN(m.Get("double", 2)))

	dim, ok := m.Dimension("double")
	require.True(t, ok)
	assert.True(t, dim.IsCalculation)
	assert.False(t, s.HasDimension("double"))
}

func TestMapOverView(t *testing.T) {
	s := newXY(t).SelectRange("y", -10, 0)
	m := s.Map([]string{"z"}, func(v []float64, di int) []float64 {
		return []float64{42}
	})
	assert.Equal(t, 42.0, m.Get("z", 0))
	assert.True(t, math.IsNaN(m.GetByRawIndex("z", 0)), "rows outside the view are NaN")
}

func TestAppendRows(t *testing.T) {
	s := newXY(t)
	a := s.AppendRows([][]any{{"a", 7}, {"e", 8}}, []ItemOption{{Name: "seven"}})

	assert.Equal(t, 6, a.Count())
	assert.Equal(t, 4, s.Count())
	assert.Equal(t, 0.0, a.Get("x", 4), "known category reuses its index")
	assert.Equal(t, 4.0, a.Get("x", 5))
	assert.Equal(t, "seven", a.ItemName(4))
	assert.True(t, a.HasItemOption())

	f := s.SelectRange("y", 0, 10).AppendRows([][]any{{"z", 1}}, nil)
	assert.Equal(t, 3, f.Count())
	assert.Equal(t, 4, f.RawIndex(2))
}

func TestExtentAndSum(t *testing.T) {
	s := newXY(t)
	assert.Equal(t, [2]float64{-4, 2.5}, s.DataExtent("y"))
	assert.Equal(t, -0.5, s.Sum("y"))

	empty := s.Filter(func(*Store, int) bool { return false })
	ext := empty.DataExtent("y")
	assert.True(t, math.IsInf(ext[0], 1) && math.IsInf(ext[1], -1))
}

func TestCalculationInfo(t *testing.T) {
	s := newXY(t)
	s.SetCalculationInfo(KeyStackResultDimension, "__stack_result")
	s.SetCalculationInfo(KeyIsStackedByIndex, true)
	s.SetCalculationInfo("custom", 3)

	info := s.CalculationInfo()
	assert.Equal(t, "__stack_result", info.StackResultDimension)
	assert.True(t, info.IsStackedByIndex)
	assert.Equal(t, 3, s.CalculationInfoValue("custom"))
	assert.Equal(t, "__stack_result", s.CalculationInfoValue(KeyStackResultDimension))

	c := s.CloneShallow()
	assert.Equal(t, info, c.CalculationInfo())
}

func TestItemsAndVisuals(t *testing.T) {
	s, err := New(xyDims(), [][]any{{"a", 1}, {"b", 2}}, WithItems([]ItemOption{
		{},
		{Name: "b", Style: map[string]any{"color": "#f00"}, NoVisualMap: true},
	}))
	require.NoError(t, err)

	assert.True(t, s.HasItemOption())
	assert.Nil(t, s.ItemStyle(0))
	assert.Equal(t, "#f00", s.ItemStyle(1)["color"])
	assert.True(t, s.SkipsVisualMap(1))
	assert.False(t, s.SkipsVisualMap(0))

	s.SetVisual("color", "#000")
	s.SetItemVisual(1, "color", "#fff")
	v, ok := s.ItemVisual(1, "color")
	assert.True(t, ok)
	assert.Equal(t, "#fff", v)
	_, ok = s.ItemVisual(0, "color")
	assert.False(t, ok)
	assert.Equal(t, "#000", s.Visual("color"))

	c := s.CloneShallow()
	assert.Nil(t, c.Visual("color"), "clones start without visuals")

	s.ClearAllVisual()
	assert.False(t, s.HasItemVisual())

	plain := newXY(t)
	assert.False(t, plain.HasItemOption())
}

func TestRecord(t *testing.T) {
	s := newXY(t).SelectRange("y", 0, 10)
	rec := s.Record()
	defer rec.Release()

	assert.Equal(t, int64(2), rec.NumRows())
	assert.Equal(t, int64(2), rec.NumCols())
	assert.Equal(t, "y", rec.Schema().Field(1).Name)
}
