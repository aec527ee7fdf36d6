package visual

import "strings"

// Channel names a visual attribute.
type Channel string

// Visual channels.
const (
	Color           Channel = "color"
	Opacity         Channel = "opacity"
	ColorAlpha      Channel = "colorAlpha"
	ColorHue        Channel = "colorHue"
	ColorSaturation Channel = "colorSaturation"
	ColorLightness  Channel = "colorLightness"
	Symbol          Channel = "symbol"
	SymbolSize      Channel = "symbolSize"
	LiftZ           Channel = "liftZ"
)

// channels lists every channel in canonical order.
var channels = []Channel{
	Color, Opacity, ColorAlpha, ColorHue, ColorSaturation, ColorLightness,
	Symbol, SymbolSize, LiftZ,
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	for _, k := range channels {
		if k == c {
			return true
		}
	}
	return false
}

// modifiesColor reports whether c adjusts an already resolved color
// instead of producing a visual of its own.
func (c Channel) modifiesColor() bool {
	switch c {
	case ColorAlpha, ColorHue, ColorSaturation, ColorLightness:
		return true
	}
	return false
}

// target returns the store visual key c writes to.
func (c Channel) target() Channel {
	if c.modifiesColor() {
		return Color
	}
	return c
}

// State names a value state of a visual mapping ("inRange",
// "outOfRange") or an interaction state of a series ("emphasis", "blur").
type State string

// Well-known states.
const (
	StateNormal     State = "normal"
	StateInRange    State = "inRange"
	StateOutOfRange State = "outOfRange"
	StateEmphasis   State = "emphasis"
	StateBlur       State = "blur"
	StateSelect     State = "select"
)

// Key returns the store visual key of channel c in state s. The normal
// state uses the bare channel name; other states are prefixed, e.g.
// "emphasis.color".
func Key(s State, c Channel) string {
	if s == "" || s == StateNormal {
		return string(c)
	}
	return string(s) + "." + string(c)
}

// PrepareVisualTypes orders channels for application: color comes before
// every color* channel since those modify the resolved color. Other
// channels keep their order.
func PrepareVisualTypes(types []Channel) []Channel {
	out := append([]Channel(nil), types...)
	ci := -1
	first := -1
	for i, t := range out {
		switch {
		case t == Color:
			ci = i
		case first < 0 && strings.HasPrefix(string(t), string(Color)):
			first = i
		}
	}
	if ci < 0 || first < 0 || first > ci {
		return out
	}
	copy(out[first+1:ci+1], out[first:ci])
	out[first] = Color
	return out
}

// DependsOn reports whether applying a reads the visual written by b.
func DependsOn(a, b Channel) bool {
	return a.modifiesColor() && b == Color
}
