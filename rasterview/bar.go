package rasterview

import (
	"math"

	"github.com/gogpu/ggchart"
	"github.com/gogpu/ggchart/color"
	"github.com/gogpu/ggchart/data"
	"github.com/gogpu/ggchart/scheduler"
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/task"
	"github.com/gogpu/ggchart/visual"
)

func init() {
	ggchart.RegisterView("bar", NewBarView)
}

// BarView collects the bars of one series onto a Canvas. Stacked series
// draw from their stacked-over value to their stack result.
type BarView struct {
	canvas *Canvas
}

// NewBarView is the ggchart.ViewFactory of the "bar" chart type.
func NewBarView(_ *series.Series, target ggchart.Target) (scheduler.View, error) {
	c, ok := target.(*Canvas)
	if !ok || c == nil {
		return nil, ErrTarget
	}
	return &BarView{canvas: c}, nil
}

// Render implements scheduler.View.
func (v *BarView) Render(s *series.Series) error {
	l := v.reset(s)
	st := s.Store()
	for i := 0; i < st.Count(); i++ {
		l.add(st, s, i)
	}
	return nil
}

// IncrementalPrepareRender implements scheduler.IncrementalView.
func (v *BarView) IncrementalPrepareRender(s *series.Series) error {
	v.reset(s)
	return nil
}

// IncrementalRender implements scheduler.IncrementalView.
func (v *BarView) IncrementalRender(p task.Params, s *series.Series) error {
	l := v.canvas.layer(s.UID(), s.Name(), group(s))
	st := s.Store()
	for i, ok := p.Next(); ok; i, ok = p.Next() {
		l.add(st, s, i)
	}
	return nil
}

func (v *BarView) reset(s *series.Series) *layer {
	l := v.canvas.layer(s.UID(), s.Name(), group(s))
	l.bars = l.bars[:0]
	l.legend = color.Black
	if name, ok := s.Store().Visual(string(visual.Color)).(string); ok {
		if c, err := color.Parse(name); err == nil {
			l.legend = c
		}
	}
	return l
}

// group is the stack key of s, or its UID when it does not stack. Bars of
// one group share a slot in every band.
func group(s *series.Series) string {
	if c := s.StackCapability(); c.Enabled {
		return "stack:" + c.Key
	}
	return s.UID()
}

func (l *layer) add(st *data.Store, s *series.Series, i int) {
	xDim, yDim := axisDims(st)
	b := bar{band: st.Get(xDim, i), lo: 0, hi: st.Get(yDim, i)}
	if c := s.StackCapability(); c.Enabled && st.HasDimension(c.ResultDimension) {
		b.hi = st.Get(c.ResultDimension, i)
		if over := st.Get(c.OverDimension, i); !math.IsNaN(over) {
			b.lo = over
		}
	}
	if math.IsNaN(b.band) || math.IsNaN(b.hi) {
		return
	}
	fill, ok := visual.ResolveItemColor(st, i, visual.StateNormal)
	if !ok {
		fill = color.Black
	}
	b.fill = fill
	l.bars = append(l.bars, b)
}

// axisDims returns the dimensions on the x and y coordinates, falling
// back to the first two dimensions.
func axisDims(st *data.Store) (x, y string) {
	dims := st.Dimensions()
	for _, d := range dims {
		switch {
		case d.CoordDim == "x" && x == "":
			x = d.Name
		case d.CoordDim == "y" && y == "":
			y = d.Name
		}
	}
	if x == "" && len(dims) > 0 {
		x = dims[0].Name
	}
	if y == "" && len(dims) > 1 {
		y = dims[1].Name
	}
	return x, y
}
