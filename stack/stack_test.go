package stack

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggchart/data"
)

type member struct {
	uid   string
	capab Capability
	store *data.Store
}

func (m *member) UID() string                 { return m.uid }
func (m *member) StackCapability() Capability { return m.capab }
func (m *member) Store() *data.Store          { return m.store }
func (m *member) SetStore(s *data.Store)      { m.store = s }

func valueMember(t *testing.T, uid string, opts Options, values ...float64) *member {
	t.Helper()
	s, err := data.FromColumns([]data.Dimension{{Name: "v", CoordDim: "y"}}, [][]float64{values})
	require.NoError(t, err)
	s, c, err := Enable(s, opts)
	require.NoError(t, err)
	return &member{uid: uid, capab: c, store: s}
}

func rowMember(t *testing.T, uid string, dims []data.Dimension, opts Options, rows ...[]any) *member {
	t.Helper()
	s, err := data.New(dims, rows)
	require.NoError(t, err)
	s, c, err := Enable(s, opts)
	require.NoError(t, err)
	return &member{uid: uid, capab: c, store: s}
}

func results(m *member) (res, over []float64) {
	s := m.store
	for i := 0; i < s.Count(); i++ {
		res = append(res, s.Get(ResultDimension, i))
		over = append(over, s.Get(OverDimension, i))
	}
	return res, over
}

// assertFloats compares element-wise, treating NaN as equal to NaN.
func assertFloats(t *testing.T, want, got []float64, msg string) {
	t.Helper()
	require.Len(t, got, len(want), msg)
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "%s[%d] = %v, want NaN", msg, i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-12, "%s[%d]", msg, i)
	}
}

var nan = math.NaN()

func TestTwoSeriesSameSign(t *testing.T) {
	opts := Options{Key: "s", By: "index"}
	a := valueMember(t, "A", opts, 1, 2, -1)
	b := valueMember(t, "B", opts, 3, -1, 4)

	Resolve([]Stackable{a, b})

	res, over := results(a)
	assertFloats(t, []float64{1, 2, -1}, res, "A result")
	assertFloats(t, []float64{nan, nan, nan}, over, "A over")

	res, over = results(b)
	assertFloats(t, []float64{4, -1, 4}, res, "B result")
	assertFloats(t, []float64{1, nan, nan}, over, "B over")

	assert.Equal(t, "A", b.store.CalculationInfo().StackedOnSeries)
	assert.Equal(t, "", a.store.CalculationInfo().StackedOnSeries)
}

func TestTwoSeriesStrategyAll(t *testing.T) {
	opts := Options{Key: "s", By: "index", Strategy: "all"}
	a := valueMember(t, "A", opts, 1, 2, -1)
	b := valueMember(t, "B", opts, 3, -1, 4)

	Resolve([]Stackable{a, b})

	res, over := results(b)
	assertFloats(t, []float64{4, 1, 3}, res, "B result")
	assertFloats(t, []float64{1, 2, -1}, over, "B over")
}

func TestPositiveStacksSum(t *testing.T) {
	opts := Options{Key: "total"}
	ms := []*member{
		valueMember(t, "s1", opts, 1, 2, 3),
		valueMember(t, "s2", opts, 10, 20, 30),
		valueMember(t, "s3", opts, 100, 200, 300),
	}
	Resolve([]Stackable{ms[0], ms[1], ms[2]})

	res, _ := results(ms[2])
	assertFloats(t, []float64{111, 222, 333}, res, "s3 result")
	_, over := results(ms[1])
	assertFloats(t, []float64{1, 2, 3}, over, "s2 over")
}

func TestMixedSignIndependent(t *testing.T) {
	opts := Options{Key: "s"}
	s1 := valueMember(t, "1", opts, 5)
	s2 := valueMember(t, "2", opts, -3)
	s3 := valueMember(t, "3", opts, 2)
	s4 := valueMember(t, "4", opts, -1)
	Resolve([]Stackable{s1, s2, s3, s4})

	res, over := results(s3)
	assertFloats(t, []float64{7}, res, "s3 result")
	assertFloats(t, []float64{5}, over, "s3 over")

	res, over = results(s4)
	assertFloats(t, []float64{-4}, res, "s4 result")
	assertFloats(t, []float64{-3}, over, "s4 over")
}

func TestNaNPropagation(t *testing.T) {
	opts := Options{Key: "s"}
	a := valueMember(t, "A", opts, 1, nan, 3)
	b := valueMember(t, "B", opts, 1, 1, 1)
	c := valueMember(t, "C", opts, 1, nan, 1)
	Resolve([]Stackable{a, b, c})

	res, over := results(a)
	assertFloats(t, []float64{1, nan, 3}, res, "A result")
	assertFloats(t, []float64{nan, nan, nan}, over, "A over")

	res, over = results(b)
	assertFloats(t, []float64{2, 1, 4}, res, "B result")
	assertFloats(t, []float64{1, nan, 3}, over, "B over")

	res, over = results(c)
	assertFloats(t, []float64{3, nan, 5}, res, "C result")
	assertFloats(t, []float64{2, nan, 4}, over, "C over")
}

func TestIdempotent(t *testing.T) {
	opts := Options{Key: "s"}
	a := valueMember(t, "A", opts, 1.5, -2, 3)
	b := valueMember(t, "B", opts, 2, -4.25, 0)
	all := []Stackable{a, b}

	Resolve(all)
	firstRes, firstOver := results(b)
	Resolve(all)
	Resolve(all)
	secondRes, secondOver := results(b)

	assertFloats(t, firstRes, secondRes, "result after re-run")
	assertFloats(t, firstOver, secondOver, "over after re-run")
}

func TestSafeAddition(t *testing.T) {
	opts := Options{Key: "s"}
	a := valueMember(t, "A", opts, 0.1)
	b := valueMember(t, "B", opts, 0.2)
	Resolve([]Stackable{a, b})

	assert.Equal(t, 0.3, b.store.Get(ResultDimension, 0))
	assert.Equal(t, 3.0, addSafe(1, 2))
	assert.Equal(t, 0.0003, addSafe(0.0001, 0.0002))
}

func TestSingleMemberMaterializes(t *testing.T) {
	a := valueMember(t, "A", Options{Key: "solo"}, 4, 5)
	Resolve([]Stackable{a})

	res, over := results(a)
	assertFloats(t, []float64{4, 5}, res, "result")
	assertFloats(t, []float64{nan, nan}, over, "over")
}

func TestStackByTime(t *testing.T) {
	dims := []data.Dimension{
		{Name: "t", Type: data.TypeTime, CoordDim: "x"},
		{Name: "v", CoordDim: "y"},
	}
	opts := Options{Key: "s"}
	a := rowMember(t, "A", dims, opts, []any{"2025-01", 4}, []any{"2025-02", 8})
	b := rowMember(t, "B", dims, opts, []any{"2025-02", 3}, []any{"2025-01", 9})

	require.False(t, b.capab.IsStackedByIndex)
	require.Equal(t, "t", b.capab.StackedByDimension)
	Resolve([]Stackable{a, b})

	res, over := results(b)
	assertFloats(t, []float64{11, 13}, res, "B result")
	assertFloats(t, []float64{8, 4}, over, "B over")
}

func TestStackByOrdinalBareIndices(t *testing.T) {
	dims := func() []data.Dimension {
		return []data.Dimension{
			{Name: "x", Type: data.TypeOrdinal},
			{Name: "y"},
		}
	}
	opts := Options{Key: "s"}
	a := rowMember(t, "A", dims(), opts, []any{0, 1}, []any{1, 2}, []any{2, 3})
	b := rowMember(t, "B", dims(), opts, []any{0, 10}, []any{1, 20}, []any{2, 30})
	require.Equal(t, "x", b.capab.StackedByDimension)
	Resolve([]Stackable{a, b})

	res, over := results(b)
	assertFloats(t, []float64{11, 22, 33}, res, "B result")
	assertFloats(t, []float64{1, 2, 3}, over, "B over")
}

func TestStackByOrdinalAcrossMetas(t *testing.T) {
	dims := func() []data.Dimension {
		return []data.Dimension{
			{Name: "cat", Type: data.TypeOrdinal},
			{Name: "v"},
		}
	}
	opts := Options{Key: "s", By: "value"}
	a := rowMember(t, "A", dims(), opts, []any{"x", 1}, []any{"y", 2})
	b := rowMember(t, "B", dims(), opts, []any{"y", 10}, []any{"z", 20}, []any{"x", 30})
	Resolve([]Stackable{a, b})

	res, over := results(b)
	assertFloats(t, []float64{12, 20, 31}, res, "B result")
	assertFloats(t, []float64{2, nan, 1}, over, "B over")
}

func TestGroupsKeepDeclarationOrder(t *testing.T) {
	a := valueMember(t, "A", Options{Key: "one"}, 1)
	b := valueMember(t, "B", Options{Key: "two"}, 1)
	c := valueMember(t, "C", Options{Key: "one"}, 1)
	d := valueMember(t, "D", Options{}, 1)

	groups := Groups([]Stackable{a, b, c, d})
	require.Len(t, groups, 2)
	assert.Equal(t, "one", groups[0].Key)
	assert.Equal(t, []Stackable{a, c}, groups[0].Members)
	assert.Equal(t, "two", groups[1].Key)
}

func TestEnable(t *testing.T) {
	s, err := data.FromColumns([]data.Dimension{
		{Name: "a", CoordDim: "x"},
		{Name: "b", CoordDim: "y"},
	}, [][]float64{{1}, {2}})
	require.NoError(t, err)

	t.Run("no key", func(t *testing.T) {
		out, c, err := Enable(s, Options{})
		require.NoError(t, err)
		assert.False(t, c.Enabled)
		assert.Same(t, s, out)
	})

	t.Run("coord dim", func(t *testing.T) {
		out, c, err := Enable(s, Options{Key: "k", CoordDim: "y"})
		require.NoError(t, err)
		assert.True(t, c.Enabled)
		assert.Equal(t, "b", c.StackedDimension)
		assert.True(t, c.IsStackedByIndex)
		assert.Equal(t, "b", out.CalculationInfo().StackedDimension)
		assert.Equal(t, "", s.CalculationInfo().StackedDimension, "input store untouched")
	})

	t.Run("by value without ordinal", func(t *testing.T) {
		out, c, err := Enable(s, Options{Key: "k", By: "value"})
		require.NoError(t, err)
		assert.False(t, c.Enabled)
		assert.NotEmpty(t, c.Reason)
		assert.Same(t, s, out)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, _, err := Enable(s, Options{Key: "k", Strategy: "sideways"})
		assert.ErrorIs(t, err, ErrUnknownStrategy)
	})

	t.Run("unknown stack by", func(t *testing.T) {
		_, _, err := Enable(s, Options{Key: "k", By: "diagonal"})
		assert.ErrorIs(t, err, ErrUnknownStackBy)
	})
}

func TestDisabledMemberIsSkipped(t *testing.T) {
	a := valueMember(t, "A", Options{Key: "s"}, 1)
	b := valueMember(t, "B", Options{Key: "s", By: "value"}, 5)
	c := valueMember(t, "C", Options{Key: "s"}, 2)
	require.False(t, b.capab.Enabled)

	Resolve([]Stackable{a, b, c})

	assert.False(t, b.store.HasDimension(ResultDimension))
	res, over := results(c)
	assertFloats(t, []float64{3}, res, "C result")
	assertFloats(t, []float64{1}, over, "C over")
}
