package color

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#5470c6", "rgba(84,112,198,1)"},
		{"#fff", "rgba(255,255,255,1)"},
		{"#ff000080", "rgba(255,0,0,0.5019607843137255)"},
		{"rgb(10, 20, 30)", "rgba(10,20,30,1)"},
		{"rgba(10,20,30,0.25)", "rgba(10,20,30,0.25)"},
		{"RGBA(10,20,30,25%)", "rgba(10,20,30,0.25)"},
		{"hsl(0, 100%, 50%)", "rgba(255,0,0,1)"},
		{"red", "rgba(255,0,0,1)"},
		{" transparent ", "rgba(0,0,0,0)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got := c.String(); got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "rgb(1,2)", "notacolor", "rgba(1,2,3,x)"} {
		if _, err := Parse(in); !errors.Is(err, ErrInvalid) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalid", in, err)
		}
	}
	if got := MustParse("bogus"); got != Black {
		t.Errorf("MustParse(bogus) = %v, want Black", got)
	}
}

func TestHexString(t *testing.T) {
	if got := Hex("#91cc75").HexString(); got != "#91cc75" {
		t.Errorf("HexString() = %q, want #91cc75", got)
	}
	if got := Hex("xyz1"); got != Black {
		t.Errorf("Hex(invalid) = %v, want Black", got)
	}
}

func TestHSLRoundTrip(t *testing.T) {
	for _, hex := range []string{"#5470c6", "#91cc75", "#fac858", "#ee6666", "#808080"} {
		c := Hex(hex)
		h, s, l := c.HSL()
		back := HSL(h, s, l)
		if back.HexString() != hex {
			t.Errorf("HSL round trip %s -> %s", hex, back.HexString())
		}
	}
}

func TestModifyHSL(t *testing.T) {
	red := RGB(1, 0, 0).WithAlpha(0.5)

	got := ModifyHSL(red, 120, math.NaN(), math.NaN())
	if got.HexString() != "#00ff00" {
		t.Errorf("hue 120 = %s, want #00ff00", got.HexString())
	}
	if got.A != 0.5 {
		t.Errorf("alpha = %v, want 0.5", got.A)
	}

	got = ModifyHSL(red, math.NaN(), 0, math.NaN())
	if got.HexString() != "#808080" {
		t.Errorf("saturation 0 = %s, want #808080", got.HexString())
	}

	got = ModifyHSL(red, math.NaN(), math.NaN(), 1)
	if got.HexString() != "#ffffff" {
		t.Errorf("lightness 1 = %s, want #ffffff", got.HexString())
	}
}

func TestLift(t *testing.T) {
	c := Bytes(100, 200, 0, 1)
	if got := c.Lift(0.5).String(); got != "rgba(177,227,127,1)" {
		t.Errorf("Lift(0.5) = %s", got)
	}
	if got := c.Lift(-0.1).String(); got != "rgba(110,220,0,1)" {
		t.Errorf("Lift(-0.1) = %s", got)
	}
}

func TestFastLerp(t *testing.T) {
	palette := []RGBA{Black, White}

	mid := FastLerp(0.5, palette, SpaceSRGB)
	if !approx(mid.R, 0.5, 1e-9) {
		t.Errorf("FastLerp(0.5).R = %v, want 0.5", mid.R)
	}
	if got := FastLerp(-1, palette, SpaceSRGB); got != Black {
		t.Errorf("FastLerp(-1) = %v, want Black", got)
	}
	if got := FastLerp(3, palette, SpaceSRGB); got != White {
		t.Errorf("FastLerp(3) = %v, want White", got)
	}
	if got := FastLerp(0.3, nil, SpaceSRGB); got != Transparent {
		t.Errorf("FastLerp(empty) = %v", got)
	}
	lin := FastLerp(0.5, palette, SpaceLinear)
	if lin.R < 0.7 || lin.R > 0.74 {
		t.Errorf("FastLerp linear mid R = %v, want ~0.735", lin.R)
	}

	three := []RGBA{RGB(1, 0, 0), RGB(0, 1, 0), RGB(0, 0, 1)}
	if got := FastLerp(0.5, three, SpaceSRGB); got != RGB(0, 1, 0) {
		t.Errorf("FastLerp(0.5, 3 colors) = %v, want green", got)
	}
}

func TestAtOffset(t *testing.T) {
	stops := SortStops([]Stop{
		{Offset: 1, Color: White},
		{Offset: 0, Color: Black},
	})
	if stops[0].Offset != 0 {
		t.Fatalf("SortStops did not sort: %v", stops)
	}
	got := AtOffset(stops, 0.25, SpaceSRGB)
	if !approx(got.G, 0.25, 1e-9) {
		t.Errorf("AtOffset(0.25).G = %v, want 0.25", got.G)
	}
	if AtOffset(stops, 2, SpaceSRGB) != White {
		t.Error("AtOffset past the end should clamp to the last stop")
	}
}

func TestColorConversion(t *testing.T) {
	c := Bytes(10, 20, 30, 1)
	back := FromColor(c.Color())
	if back.String() != c.String() {
		t.Errorf("FromColor(Color()) = %s, want %s", back, c)
	}
}
