package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is returned by Parse for strings that are not CSS colors.
var ErrInvalid = errors.New("color: invalid color")

var named = map[string]RGBA{
	"transparent": Transparent,
	"black":       Black,
	"white":       White,
	"red":         RGB(1, 0, 0),
	"green":       Bytes(0, 128, 0, 1),
	"lime":        RGB(0, 1, 0),
	"blue":        RGB(0, 0, 1),
	"yellow":      RGB(1, 1, 0),
	"cyan":        RGB(0, 1, 1),
	"magenta":     RGB(1, 0, 1),
	"gray":        Bytes(128, 128, 128, 1),
	"grey":        Bytes(128, 128, 128, 1),
	"orange":      Bytes(255, 165, 0, 1),
	"purple":      Bytes(128, 0, 128, 1),
	"pink":        Bytes(255, 192, 203, 1),
}

// Parse parses a CSS color: "#rgb", "#rgba", "#rrggbb", "#rrggbbaa",
// "rgb(...)", "rgba(...)", "hsl(...)", "hsla(...)" or a basic color name.
func Parse(s string) (RGBA, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	if str == "" {
		return RGBA{}, fmt.Errorf("%w: empty string", ErrInvalid)
	}
	if c, ok := named[str]; ok {
		return c, nil
	}
	if str[0] == '#' {
		c, ok := parseHexDigits(str[1:])
		if !ok {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
		return c, nil
	}

	open := strings.IndexByte(str, '(')
	if open < 0 || !strings.HasSuffix(str, ")") {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	fn := str[:open]
	args := strings.Split(str[open+1:len(str)-1], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	switch fn {
	case "rgb", "rgba":
		if len(args) != 3 && len(args) != 4 {
			break
		}
		var c RGBA
		var ok bool
		if c.R, ok = parseByte(args[0]); !ok {
			break
		}
		if c.G, ok = parseByte(args[1]); !ok {
			break
		}
		if c.B, ok = parseByte(args[2]); !ok {
			break
		}
		c.A = 1
		if len(args) == 4 {
			if c.A, ok = parseUnit(args[3]); !ok {
				break
			}
		}
		return c, nil
	case "hsl", "hsla":
		if len(args) != 3 && len(args) != 4 {
			break
		}
		h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
		if err != nil {
			break
		}
		sat, ok1 := parseUnit(args[1])
		light, ok2 := parseUnit(args[2])
		if !ok1 || !ok2 {
			break
		}
		c := HSL(h, sat, light)
		if len(args) == 4 {
			a, ok := parseUnit(args[3])
			if !ok {
				break
			}
			c.A = a
		}
		return c, nil
	}
	return RGBA{}, fmt.Errorf("%w: %q", ErrInvalid, s)
}

// MustParse is like Parse but falls back to opaque black on error.
func MustParse(s string) RGBA {
	c, err := Parse(s)
	if err != nil {
		return Black
	}
	return c
}

// Hex creates a color from a hex string with or without a leading '#'.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA".
// Invalid input yields opaque black.
func Hex(hex string) RGBA {
	c, ok := parseHexDigits(strings.TrimPrefix(hex, "#"))
	if !ok {
		return Black
	}
	return c
}

// String formats c as "rgba(r,g,b,a)" with integer channels.
func (c RGBA) String() string {
	return "rgba(" +
		strconv.Itoa(int(byte255(c.R))) + "," +
		strconv.Itoa(int(byte255(c.G))) + "," +
		strconv.Itoa(int(byte255(c.B))) + "," +
		strconv.FormatFloat(clamp01(c.A), 'f', -1, 64) + ")"
}

// HexString formats c as "#rrggbb", dropping alpha.
func (c RGBA) HexString() string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range [3]uint8{byte255(c.R), byte255(c.G), byte255(c.B)} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0f]
	}
	return string(b)
}

func parseHexDigits(hex string) (RGBA, bool) {
	var v [4]uint32
	v[3] = 255

	switch len(hex) {
	case 3, 4:
		for i := 0; i < len(hex); i++ {
			d, ok := hexDigit(hex[i])
			if !ok {
				return RGBA{}, false
			}
			v[i] = d * 17
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			hi, ok1 := hexDigit(hex[i])
			lo, ok2 := hexDigit(hex[i+1])
			if !ok1 || !ok2 {
				return RGBA{}, false
			}
			v[i/2] = hi<<4 | lo
		}
	default:
		return RGBA{}, false
	}

	return RGBA{
		R: float64(v[0]) / 255,
		G: float64(v[1]) / 255,
		B: float64(v[2]) / 255,
		A: float64(v[3]) / 255,
	}, true
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case '0' <= c && c <= '9':
		return uint32(c - '0'), true
	case 'a' <= c && c <= 'f':
		return uint32(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return uint32(c-'A') + 10, true
	}
	return 0, false
}

// parseByte parses "0".."255" or a percentage into [0, 1].
func parseByte(s string) (float64, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return clamp01(f / 100), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(f / 255), true
}

// parseUnit parses "0.5" or "50%" into [0, 1].
func parseUnit(s string) (float64, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return clamp01(f / 100), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(f), true
}
