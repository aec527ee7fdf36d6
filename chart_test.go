package ggchart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggchart/color"
	"github.com/gogpu/ggchart/data"
	"github.com/gogpu/ggchart/option"
	"github.com/gogpu/ggchart/scheduler"
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/stack"
	"github.com/gogpu/ggchart/task"
	"github.com/gogpu/ggchart/visual"
)

type testTarget struct{}

func (testTarget) Size() (int, int) { return 100, 100 }

// recorder is an incremental view that records what it draws.
type recorder struct {
	renders  int
	prepared int
	rows     []int
	target   Target
}

func (r *recorder) Render(s *series.Series) error {
	r.renders++
	r.rows = r.rows[:0]
	for i := 0; i < s.Store().Count(); i++ {
		r.rows = append(r.rows, i)
	}
	return nil
}

func (r *recorder) IncrementalPrepareRender(*series.Series) error {
	r.prepared++
	r.rows = r.rows[:0]
	return nil
}

func (r *recorder) IncrementalRender(p task.Params, _ *series.Series) error {
	for i, ok := p.Next(); ok; i, ok = p.Next() {
		r.rows = append(r.rows, i)
	}
	return nil
}

// useRecorder registers the "rec" chart type for the test and returns
// the views it creates, by series name.
func useRecorder(t *testing.T) map[string]*recorder {
	t.Helper()
	made := make(map[string]*recorder)
	RegisterView("rec", func(s *series.Series, target Target) (scheduler.View, error) {
		r := &recorder{target: target}
		made[s.Name()] = r
		return r, nil
	})
	t.Cleanup(func() { UnregisterView("rec") })
	return made
}

func parse(t *testing.T, js string) *option.Option {
	t.Helper()
	o, err := option.Parse([]byte(js))
	require.NoError(t, err)
	return o
}

func column(st *data.Store, dim string) []float64 {
	out := make([]float64, st.Count())
	for i := range out {
		out[i] = st.Get(dim, i)
	}
	return out
}

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

const stackedOption = `{"series": [
	{"name": "A", "type": "rec", "stack": "total", "data": [1, 2, -1]},
	{"name": "B", "type": "rec", "stack": "total", "data": [3, -1, 4]}
]}`

func TestChartStackScenario(t *testing.T) {
	views := useRecorder(t)
	c := New(WithTarget(testTarget{}))
	require.NoError(t, c.SetOption(parse(t, stackedOption)))
	require.NoError(t, c.Flush())
	assert.False(t, c.Unfinished())

	a, b := c.Series("A"), c.Series("B")
	require.NotNil(t, a)
	require.NotNil(t, b)

	nan := math.NaN()
	assertFloats(t, []float64{1, 2, -1}, column(a.Store(), stack.ResultDimension), "A result")
	assertFloats(t, []float64{4, -1, 4}, column(b.Store(), stack.ResultDimension), "B result")
	assertFloats(t, []float64{1, nan, nan}, column(b.Store(), stack.OverDimension), "B over")
	assertFloats(t, []float64{0, 1, 2}, column(b.Store(), "x"), "B x")

	require.Contains(t, views, "A")
	assert.Equal(t, 1, views["A"].renders)
	assert.Equal(t, testTarget{}, views["A"].target)
}

func TestChartStackByCategory(t *testing.T) {
	useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, `{"series": [
		{"name": "A", "type": "rec", "stack": "s", "data": [["Mon", 1], ["Tue", 2]]},
		{"name": "B", "type": "rec", "stack": "s", "data": [["Tue", 10], ["Wed", 20], ["Mon", 30]]}
	]}`)))
	require.NoError(t, c.Flush())

	a, b := c.Series("A").Store(), c.Series("B").Store()
	ax, ok := a.Dimension("x")
	require.True(t, ok)
	bx, ok := b.Dimension("x")
	require.True(t, ok)
	assert.Same(t, ax.Ordinal, bx.Ordinal)
	assert.Equal(t, []string{"Mon", "Tue", "Wed"}, bx.Ordinal.Categories())

	nan := math.NaN()
	assertFloats(t, []float64{12, 20, 31}, column(b, stack.ResultDimension), "B result")
	assertFloats(t, []float64{2, nan, 1}, column(b, stack.OverDimension), "B over")
}

func TestChartStackProgressiveHonorsRowBudget(t *testing.T) {
	views := useRecorder(t)
	step := 100
	o := &option.Option{}
	for _, name := range []string{"A", "B"} {
		values := make([]option.DataItem, 1000)
		for i := range values {
			values[i] = option.DataItem{Value: []any{1.0}}
		}
		o.Series = append(o.Series, option.Series{
			Name: name, Type: "rec", Stack: "s", Data: values,
			Progressive: &step, ProgressiveThreshold: 500,
		})
	}

	c := New()
	require.NoError(t, c.SetOption(o))
	more, err := c.PerformPass(scheduler.RowBudget(1))
	require.NoError(t, err)
	assert.True(t, more)
	assert.Len(t, views["A"].rows, 100)
	assert.Len(t, views["B"].rows, 100)
	assert.Equal(t, 2.0, c.Series("B").Store().Get(stack.ResultDimension, 999))

	require.NoError(t, c.Flush())
	assert.Len(t, views["B"].rows, 1000)
}

func TestChartPalette(t *testing.T) {
	useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, stackedOption)))
	require.NoError(t, c.Flush())

	a := c.Series("A").Store()
	assert.Equal(t, "#5470c6", a.Visual("color"))
	assert.Equal(t, "rgba(92,123,217,1)", a.Visual("emphasis.color"))
	assert.Equal(t, "#91cc75", c.Series("B").Store().Visual("color"))

	c = New(WithPalette("#101010", "#202020"))
	require.NoError(t, c.SetOption(parse(t, stackedOption)))
	require.NoError(t, c.Flush())
	assert.Equal(t, "#202020", c.Series("B").Store().Visual("color"))

	require.NoError(t, c.SetOption(parse(t, `{"color": ["#303030"], "series": [
		{"name": "A", "type": "rec", "data": [1]},
		{"name": "B", "type": "rec", "data": [2]}
	]}`)))
	require.NoError(t, c.Flush())
	assert.Equal(t, "#303030", c.Series("B").Store().Visual("color"))
}

func TestChartItemStyle(t *testing.T) {
	useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, `{"series": [{
		"name": "A", "type": "rec",
		"itemStyle": {"opacity": 0.5},
		"emphasis": {"itemStyle": {"color": "#ffffff"}},
		"data": [1, {"value": 2, "itemStyle": {"color": "#000000"}}]
	}]}`)))
	require.NoError(t, c.Flush())

	st := c.Series("A").Store()
	assert.Equal(t, "#000000", visual.ResolveItemVisual(st, 1, visual.StateNormal, visual.Color))
	assert.Equal(t, "#5470c6", visual.ResolveItemVisual(st, 0, visual.StateNormal, visual.Color))
	assert.Equal(t, "#ffffff", visual.ResolveItemVisual(st, 0, visual.StateEmphasis, visual.Color))

	got, ok := visual.ResolveItemColor(st, 1, visual.StateNormal)
	require.True(t, ok)
	assert.Equal(t, color.MustParse("#000000").WithAlpha(0.5), got)
}

func TestChartWindow(t *testing.T) {
	useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, `{"series": [{
		"name": "A", "type": "rec", "stack": "s",
		"data": [1, 5, 3, 8],
		"window": {"dimension": "y", "min": 2, "max": 6}
	}]}`)))
	require.NoError(t, c.Flush())

	st := c.Series("A").Store()
	assertFloats(t, []float64{5, 3}, column(st, "y"), "windowed y")
	assertFloats(t, []float64{5, 3}, column(st, stack.ResultDimension), "windowed result")
	assertFloats(t, []float64{1, 2}, column(st, "x"), "windowed x")
}

func TestChartVisualMapPiecewise(t *testing.T) {
	useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, `{
		"series": [
			{"name": "A", "type": "rec", "data": [-1, 5, {"value": -2, "visualMap": false}]},
			{"name": "B", "type": "rec", "data": [-1]}
		],
		"visualMap": [{
			"type": "piecewise", "dimension": "y", "seriesIndex": 0,
			"pieces": [{"lt": 0, "color": "#ff0000"}, {"gte": 0, "color": "#00ff00"}]
		}]
	}`)))
	require.NoError(t, c.Flush())

	st := c.Series("A").Store()
	red, ok := visual.ResolveItemColor(st, 0, visual.StateNormal)
	require.True(t, ok)
	assert.Equal(t, color.MustParse("#ff0000"), red)
	green, _ := visual.ResolveItemColor(st, 1, visual.StateNormal)
	assert.Equal(t, color.MustParse("#00ff00"), green)
	skipped, _ := visual.ResolveItemColor(st, 2, visual.StateNormal)
	assert.Equal(t, color.MustParse("#5470c6"), skipped)

	b, _ := visual.ResolveItemColor(c.Series("B").Store(), 0, visual.StateNormal)
	assert.Equal(t, color.MustParse("#91cc75"), b)
}

func TestChartVisualMapContinuousMemoizesExtent(t *testing.T) {
	useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, `{
		"series": [{"name": "A", "type": "rec", "data": [0, 5, 10]}],
		"visualMap": [{"dimension": "y", "inRange": {"color": ["#000000", "#ffffff"]}}]
	}`)))
	require.NoError(t, c.Flush())

	st := c.Series("A").Store()
	mid, ok := visual.ResolveItemColor(st, 1, visual.StateNormal)
	require.True(t, ok)
	assert.InDelta(t, 0.5, mid.R, 0.01)
	assert.Equal(t, 1, c.Scheduler().SideTableStats().Len)
}

func TestChartUnknownChartType(t *testing.T) {
	useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, stackedOption)))

	err := c.SetOption(parse(t, `{"series": [{"name": "Z", "type": "nope", "data": [1]}]}`))
	require.ErrorIs(t, err, ErrUnknownChartType)
	assert.NotNil(t, c.Series("A"), "failed SetOption must keep the previous series")
	assert.Nil(t, c.Series("Z"))
}

func TestChartProgressive(t *testing.T) {
	views := useRecorder(t)
	values := make([]option.DataItem, 1000)
	for i := range values {
		values[i] = option.DataItem{Value: []any{float64(i)}}
	}
	step := 100
	o := &option.Option{Series: []option.Series{{
		Name: "big", Type: "rec", Data: values,
		Progressive: &step, ProgressiveThreshold: 500,
	}}}

	c := New()
	require.NoError(t, c.SetOption(o))
	more, err := c.PerformPass(scheduler.RowBudget(1))
	require.NoError(t, err)
	assert.True(t, more)
	mode, err := c.StreamMode("big")
	require.NoError(t, err)
	assert.Equal(t, StreamModeProgressive, mode)
	assert.Len(t, views["big"].rows, 100)

	require.NoError(t, c.Flush())
	assert.Len(t, views["big"].rows, 1000)
	assert.Equal(t, 1, views["big"].prepared)
}

func TestWithProgressiveStep(t *testing.T) {
	views := useRecorder(t)
	values := make([]option.DataItem, 200)
	for i := range values {
		values[i] = option.DataItem{Value: []any{1.0}}
	}
	c := New(WithProgressiveStep(50))
	require.NoError(t, c.SetOption(&option.Option{Series: []option.Series{{
		Name: "s", Type: "rec", Data: values, ProgressiveThreshold: 100,
	}}}))
	_, err := c.PerformPass(scheduler.RowBudget(1))
	require.NoError(t, err)
	assert.Len(t, views["s"].rows, 50)

	zero := 0
	c = New(WithProgressiveStep(50))
	require.NoError(t, c.SetOption(&option.Option{Series: []option.Series{{
		Name: "s", Type: "rec", Data: values, ProgressiveThreshold: 100, Progressive: &zero,
	}}}))
	more, err := c.PerformPass(scheduler.RowBudget(1))
	require.NoError(t, err)
	assert.False(t, more)
	mode, _ := c.StreamMode("s")
	assert.Equal(t, StreamModeNormal, mode)
}

func TestChartAppendData(t *testing.T) {
	views := useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, `{"series": [{"name": "A", "type": "rec", "data": [1, 2, 3]}]}`)))
	require.NoError(t, c.Flush())

	require.NoError(t, c.AppendData("A", []option.DataItem{
		{Value: []any{4.0}},
		{Value: []any{5.0}, ItemStyle: map[string]any{"color": "#000000"}},
	}))
	require.NoError(t, c.Flush())

	st := c.Series("A").Store()
	require.Equal(t, 5, st.Count())
	assertFloats(t, []float64{0, 1, 2, 3, 4}, column(st, "x"), "x")
	assertFloats(t, []float64{1, 2, 3, 4, 5}, column(st, "y"), "y")
	assert.Equal(t, "#000000", visual.ResolveItemVisual(st, 4, visual.StateNormal, visual.Color))
	assert.Equal(t, 2, views["A"].renders)

	assert.ErrorIs(t, c.AppendData("missing", nil), ErrUnknownSeries)
}

func TestChartSetSeriesFiltered(t *testing.T) {
	views := useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, stackedOption)))
	require.NoError(t, c.Flush())

	require.NoError(t, c.SetSeriesFiltered("A", true))
	require.NoError(t, c.Flush())

	b := c.Series("B").Store()
	nan := math.NaN()
	assertFloats(t, []float64{3, -1, 4}, column(b, stack.ResultDimension), "B result")
	assertFloats(t, []float64{nan, nan, nan}, column(b, stack.OverDimension), "B over")
	assert.Equal(t, 1, views["A"].renders)

	require.NoError(t, c.SetSeriesFiltered("A", false))
	require.NoError(t, c.Flush())
	assertFloats(t, []float64{4, -1, 4}, column(c.Series("B").Store(), stack.ResultDimension), "B result")
}

func TestChartSetDataFilter(t *testing.T) {
	useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, `{"series": [{"name": "A", "type": "rec", "data": [1, 2, 3, 4]}]}`)))
	require.NoError(t, c.Flush())

	require.NoError(t, c.SetDataFilter("A", func(st *data.Store, i int) bool { return st.Get("y", i) > 2 }))
	require.NoError(t, c.Flush())
	assertFloats(t, []float64{3, 4}, column(c.Series("A").Store(), "y"), "filtered y")

	require.NoError(t, c.SetDataFilter("A", nil))
	require.NoError(t, c.Flush())
	assert.Equal(t, 4, c.Series("A").Store().Count())
}

func TestChartStallSurfaces(t *testing.T) {
	useRecorder(t)
	stall := scheduler.StageHandler{
		Name:              "stall",
		CreateOnAllSeries: true,
		Reset: func(*series.Series) ([]task.ProgressExecutor, error) {
			return []task.ProgressExecutor{{Func: func(task.Params, task.Notify) error { return nil }}}, nil
		},
	}
	c := New(WithMaxStalls(2), WithScheduler(scheduler.WithVisualHandlers(stall)))
	require.NoError(t, c.SetOption(parse(t, stackedOption)))
	assert.ErrorIs(t, c.Flush(), scheduler.ErrStalled)
}

func TestChartDispose(t *testing.T) {
	useRecorder(t)
	c := New()
	require.NoError(t, c.SetOption(parse(t, stackedOption)))
	require.NoError(t, c.Flush())
	a := c.Series("A")

	c.Dispose()
	c.Dispose()
	assert.True(t, a.DataTask().Disposed())
	assert.Equal(t, 0, c.Model().Len())

	_, err := c.PerformPass(nil)
	assert.ErrorIs(t, err, ErrDisposed)
	assert.ErrorIs(t, c.SetOption(parse(t, stackedOption)), ErrDisposed)
	assert.ErrorIs(t, c.AppendData("A", nil), ErrDisposed)
	_, err = c.StreamMode("A")
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestChartSetOptionErrors(t *testing.T) {
	useRecorder(t)
	c := New()
	assert.ErrorIs(t, c.SetOption(nil), ErrNoOption)
	assert.ErrorIs(t, c.SetOption(&option.Option{Series: []option.Series{{Name: "a"}}}), option.ErrInvalid)
	assert.ErrorIs(t, c.SetOption(parse(t, `{"series": [{"type": "rec", "progressiveChunkMode": "zigzag", "data": [1]}]}`)),
		series.ErrUnknownChunkMode)
}
