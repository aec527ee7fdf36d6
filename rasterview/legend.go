package rasterview

import (
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/ggchart"
	"github.com/gogpu/ggchart/color"
)

const legendSize = 12

var (
	faceOnce sync.Once
	face     font.Face
)

// legendFace returns the legend font face, or nil when the embedded font
// cannot be loaded.
func legendFace() font.Face {
	faceOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			ggchart.Logger().Warn("rasterview: failed to parse legend font", "err", err)
			return
		}
		face, err = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    legendSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			ggchart.Logger().Warn("rasterview: failed to create legend face", "err", err)
			face = nil
		}
	})
	return face
}

// drawLegend draws a swatch and the name of every layer along the top
// margin.
func (c *Canvas) drawLegend(dst *image.RGBA) {
	f := legendFace()
	if f == nil {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black.Color()),
		Face: f,
	}
	z := vector.NewRasterizer(c.width, c.height)
	x := fixed.I(c.padding)
	baseline := fixed.I(max(c.padding-6, legendSize))
	for _, uid := range c.order {
		l := c.layers[uid]
		if l.name == "" {
			continue
		}
		sx := float32(x.Round())
		sy := float32(baseline.Round())
		fillRect(z, dst, sx, sy-legendSize+2, sx+legendSize, sy, l.legend)

		d.Dot = fixed.Point26_6{X: x + fixed.I(legendSize+4), Y: baseline}
		d.DrawString(l.name)
		x = d.Dot.X + fixed.I(legendSize)
		if x.Round() > c.width-c.padding {
			break
		}
	}
}
