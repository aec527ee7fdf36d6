package rasterview

import (
	"errors"
	"image"
	"image/png"
	"io"
	"math"
	"sort"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/ggchart/color"
)

// ErrTarget is returned when a bar view is created for a target that is
// not a *Canvas.
var ErrTarget = errors.New("rasterview: target is not a *Canvas")

// bar is one bar in data coordinates.
type bar struct {
	band   float64
	lo, hi float64
	fill   color.RGBA
}

// layer holds the bars of one series.
type layer struct {
	name   string
	group  string
	legend color.RGBA
	bars   []bar
}

// Canvas collects the bars of every bar view of a chart.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	width, height int
	padding       int
	background    color.RGBA
	legend        bool

	layers map[string]*layer
	order  []string
}

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithPadding sets the margin around the plot area in pixels.
func WithPadding(px int) CanvasOption {
	return func(c *Canvas) {
		c.padding = max(px, 0)
	}
}

// WithBackground sets the background color.
func WithBackground(bg color.RGBA) CanvasOption {
	return func(c *Canvas) {
		c.background = bg
	}
}

// WithLegend enables the series name legend.
func WithLegend(on bool) CanvasOption {
	return func(c *Canvas) {
		c.legend = on
	}
}

// NewCanvas creates a canvas of the given size in pixels.
func NewCanvas(width, height int, opts ...CanvasOption) *Canvas {
	c := &Canvas{
		width:      width,
		height:     height,
		padding:    24,
		background: color.White,
		legend:     true,
		layers:     make(map[string]*layer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Size implements ggchart.Target.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Bars returns the number of bars collected.
func (c *Canvas) Bars() int {
	n := 0
	for _, l := range c.layers {
		n += len(l.bars)
	}
	return n
}

func (c *Canvas) layer(uid, name, group string) *layer {
	l := c.layers[uid]
	if l == nil {
		l = &layer{}
		c.layers[uid] = l
		c.order = append(c.order, uid)
	}
	l.name, l.group = name, group
	return l
}

// Reset drops every collected bar, for a chart that gets a new option.
func (c *Canvas) Reset() {
	c.layers = make(map[string]*layer)
	c.order = c.order[:0]
}

// plot maps data coordinates to pixels.
type plot struct {
	rect   image.Rectangle
	bands  map[float64]int
	nBands int
	groups map[string]int
	yLo    float64
	yHi    float64
}

func (c *Canvas) fit() plot {
	p := plot{
		rect:   image.Rect(c.padding, c.padding, c.width-c.padding, c.height-c.padding),
		bands:  make(map[float64]int),
		groups: make(map[string]int),
	}
	var xs []float64
	p.yLo, p.yHi = 0, 0
	for _, uid := range c.order {
		l := c.layers[uid]
		if _, ok := p.groups[l.group]; !ok {
			p.groups[l.group] = len(p.groups)
		}
		for _, b := range l.bars {
			if _, ok := p.bands[b.band]; !ok {
				p.bands[b.band] = 0
				xs = append(xs, b.band)
			}
			p.yLo = math.Min(p.yLo, math.Min(b.lo, b.hi))
			p.yHi = math.Max(p.yHi, math.Max(b.lo, b.hi))
		}
	}
	sort.Float64s(xs)
	for i, x := range xs {
		p.bands[x] = i
	}
	p.nBands = len(xs)
	if p.yHi == p.yLo {
		p.yHi = p.yLo + 1
	}
	return p
}

func (p plot) y(v float64) float32 {
	t := (v - p.yLo) / (p.yHi - p.yLo)
	return float32(float64(p.rect.Max.Y) - t*float64(p.rect.Dy()))
}

// barRect returns the pixel rectangle of b drawn for group slot g.
func (p plot) barRect(b bar, g int) (x0, y0, x1, y1 float32) {
	bandW := float64(p.rect.Dx()) / float64(max(p.nBands, 1))
	slotW := bandW * 0.8 / float64(max(len(p.groups), 1))
	left := float64(p.rect.Min.X) + float64(p.bands[b.band])*bandW + bandW*0.1 + float64(g)*slotW
	y0, y1 = p.y(math.Max(b.lo, b.hi)), p.y(math.Min(b.lo, b.hi))
	return float32(left), y0, float32(left + slotW), y1
}

// Draw rasterizes every collected bar into a new image.
func (c *Canvas) Draw() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.background.Color()), image.Point{}, draw.Src)
	if c.width <= 2*c.padding || c.height <= 2*c.padding {
		return dst
	}

	p := c.fit()
	z := vector.NewRasterizer(c.width, c.height)
	for _, uid := range c.order {
		l := c.layers[uid]
		g := p.groups[l.group]
		for _, b := range l.bars {
			x0, y0, x1, y1 := p.barRect(b, g)
			fillRect(z, dst, x0, y0, x1, y1, b.fill)
		}
	}

	// Zero line.
	zero := p.y(0)
	fillRect(z, dst, float32(p.rect.Min.X), zero-0.5, float32(p.rect.Max.X), zero+0.5, color.Black)

	if c.legend {
		c.drawLegend(dst)
	}
	return dst
}

func fillRect(z *vector.Rasterizer, dst draw.Image, x0, y0, x1, y1 float32, fill color.RGBA) {
	if x1-x0 <= 0 || y1-y0 <= 0 || fill.A <= 0 {
		return
	}
	b := dst.Bounds()
	z.Reset(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(x0, y0)
	z.LineTo(x1, y0)
	z.LineTo(x1, y1)
	z.LineTo(x0, y1)
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(fill.Color()), image.Point{})
}

// WritePNG encodes the result of Draw as PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.Draw())
}
