package color

import "math"

// Space selects the space in which two colors are blended.
type Space uint8

const (
	// SpaceSRGB blends gamma-encoded components directly.
	SpaceSRGB Space = iota
	// SpaceLinear decodes to linear light, blends, and re-encodes.
	SpaceLinear
)

// String returns the space name.
func (s Space) String() string {
	switch s {
	case SpaceSRGB:
		return "srgb"
	case SpaceLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// Channels is an RGBA quadruple with every component in [0,1].
type Channels [4]float64

// SRGBToLinear converts an sRGB component to linear light (EOTF).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB converts a linear component to sRGB (OETF).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
func LinearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// Lerp blends a and b at t in the requested space. t is clamped to [0,1].
func Lerp(a, b Channels, t float64, space Space) Channels {
	t = Clamp01(t)
	if space != SpaceLinear {
		return Channels{
			a[0] + (b[0]-a[0])*t,
			a[1] + (b[1]-a[1])*t,
			a[2] + (b[2]-a[2])*t,
			a[3] + (b[3]-a[3])*t,
		}
	}
	var out Channels
	for i := 0; i < 3; i++ {
		la := SRGBToLinear(a[i])
		lb := SRGBToLinear(b[i])
		out[i] = Clamp01(LinearToSRGB(la + (lb-la)*t))
	}
	out[3] = a[3] + (b[3]-a[3])*t
	return out
}

// Clamp01 restricts x to [0,1]. NaN maps to 0.
func Clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
