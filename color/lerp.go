package color

import (
	"math"
	"sort"

	icolor "github.com/gogpu/ggchart/internal/color"
)

// Space selects the interpolation color space.
type Space = icolor.Space

// Interpolation spaces.
const (
	SpaceSRGB   = icolor.SpaceSRGB
	SpaceLinear = icolor.SpaceLinear
)

// Stop is a color at a normalized offset.
type Stop struct {
	Offset float64 // Position, 0.0 to 1.0
	Color  RGBA
}

// Lerp interpolates between c and other. t is clamped to [0, 1].
func (c RGBA) Lerp(other RGBA, t float64, space Space) RGBA {
	return fromChannels(icolor.Lerp(c.channels(), other.channels(), t, space))
}

// FastLerp maps a normalized value onto evenly spaced colors, the layout a
// linear color mapping uses. An empty palette yields Transparent.
func FastLerp(t float64, palette []RGBA, space Space) RGBA {
	switch len(palette) {
	case 0:
		return Transparent
	case 1:
		return palette[0]
	}
	if math.IsNaN(t) {
		t = 0
	}
	v := icolor.Clamp01(t) * float64(len(palette)-1)
	left := int(math.Floor(v))
	right := int(math.Ceil(v))
	return palette[left].Lerp(palette[right], v-float64(left), space)
}

// AtOffset returns the interpolated color at t among stops sorted by offset.
// Offsets outside the stop range take the edge color.
func AtOffset(stops []Stop, t float64, space Space) RGBA {
	switch len(stops) {
	case 0:
		return Transparent
	case 1:
		return stops[0].Color
	}
	t = icolor.Clamp01(t)

	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset >= t
	})
	if idx == 0 {
		return stops[0].Color
	}
	if idx >= len(stops) {
		return stops[len(stops)-1].Color
	}

	s0, s1 := stops[idx-1], stops[idx]
	span := s1.Offset - s0.Offset
	if span <= 0 {
		return s1.Color
	}
	return s0.Color.Lerp(s1.Color, (t-s0.Offset)/span, space)
}

// SortStops returns a copy of stops ordered by offset.
func SortStops(stops []Stop) []Stop {
	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return sorted
}

func (c RGBA) channels() icolor.Channels {
	return icolor.Channels{c.R, c.G, c.B, c.A}
}

func fromChannels(ch icolor.Channels) RGBA {
	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
}
