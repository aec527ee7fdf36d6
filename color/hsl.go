package color

import "math"

// HSL creates a color from HSL values.
// h is hue [0, 360), s is saturation [0, 1], l is lightness [0, 1].
func HSL(h, s, l float64) RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 1.0/6:
		r, g, b = c, x, 0
	case h < 2.0/6:
		r, g, b = x, c, 0
	case h < 3.0/6:
		r, g, b = 0, c, x
	case h < 4.0/6:
		r, g, b = 0, x, c
	case h < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGB(r+m, g+m, b+m)
}

// HSL returns the hue in degrees [0, 360), saturation and lightness of c.
func (c RGBA) HSL() (h, s, l float64) {
	r, g, b := clamp01(c.R), clamp01(c.G), clamp01(c.B)
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	delta := maxC - minC
	l = (maxC + minC) / 2

	if delta == 0 {
		return 0, 0, l
	}
	if l < 0.5 {
		s = delta / (maxC + minC)
	} else {
		s = delta / (2 - maxC - minC)
	}

	switch maxC {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	return h * 60, s, l
}

// ModifyHSL returns c with the given HSL components replaced. A NaN argument
// keeps the current component. Alpha is kept.
func ModifyHSL(c RGBA, h, s, l float64) RGBA {
	ch, cs, cl := c.HSL()
	if !math.IsNaN(h) {
		ch = h
	}
	if !math.IsNaN(s) {
		cs = clamp01(s)
	}
	if !math.IsNaN(l) {
		cl = clamp01(l)
	}
	out := HSL(ch, cs, cl)
	out.A = c.A
	return out
}
