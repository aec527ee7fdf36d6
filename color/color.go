// Package color holds the color model used by visual mapping: an RGBA value
// type, CSS color parsing and stringification, HSL channel edits and stop
// interpolation.
//
// Visual values travel through the pipeline as CSS strings ("#5470c6",
// "rgba(84,112,198,1)"), the same form chart options use. Parse turns them
// into [RGBA]; [RGBA.String] turns them back.
package color

import (
	imgcolor "image/color"
	"math"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() imgcolor.Color {
	return imgcolor.NRGBA{
		R: byte255(c.R),
		G: byte255(c.G),
		B: byte255(c.B),
		A: byte255(c.A),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c imgcolor.Color) RGBA {
	n := imgcolor.NRGBAModel.Convert(c).(imgcolor.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Bytes creates a color from 0-255 channel values and a [0, 1] alpha.
func Bytes(r, g, b uint8, a float64) RGBA {
	return RGBA{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: a}
}

// WithAlpha returns c with its alpha replaced. a is clamped to [0, 1].
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = clamp01(a)
	return c
}

// Lift moves each RGB channel toward white by level when level > 0, and
// scales it by 1-level when level < 0. Alpha is kept.
func (c RGBA) Lift(level float64) RGBA {
	lift := func(v float64) float64 {
		b := math.Floor(v*255 + 0.5)
		if level < 0 {
			b = math.Floor(b * (1 - level))
		} else {
			b = math.Floor((255-b)*level + b)
		}
		return clamp01(b / 255)
	}
	return RGBA{R: lift(c.R), G: lift(c.G), B: lift(c.B), A: c.A}
}

// Common colors.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = RGBA{}
)

func byte255(x float64) uint8 {
	return uint8(math.Floor(clamp01(x)*255 + 0.5))
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
