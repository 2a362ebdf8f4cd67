package units

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestLengthPixels(t *testing.T) {
	ctx := Context{ViewportWidth: 200, ViewportHeight: 100, FontSize: 20, RootFontSize: 10}
	tests := []struct {
		in   string
		axis Axis
		want float64
	}{
		{"12", X, 12},
		{"12px", X, 12},
		{"50%", X, 100},
		{"50%", Y, 50},
		{"100%", Diagonal, math.Sqrt(200*200+100*100) / math.Sqrt2},
		{"50%", FontSize, 10},
		{"2em", X, 40},
		{"2rem", X, 20},
		{"1ex", X, 10},
		{"10vw", X, 20},
		{"10vh", X, 10},
		{"10vmin", X, 10},
		{"10vmax", X, 20},
		{"72pt", X, 96},
		{"1pc", X, 16},
		{"2.54cm", X, 96},
		{"25.4mm", X, 96},
		{"1in", X, 96},
		{" -3.5E1PX ", X, -35},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l, err := ParseLength(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got := l.Pixels(ctx, tt.axis); !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("Pixels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLengthErrors(t *testing.T) {
	for _, in := range []string{"", "px", "10furlongs", "abc"} {
		if _, err := ParseLength(in); err == nil {
			t.Errorf("ParseLength(%q) succeeded", in)
		}
	}
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"90", math.Pi / 2},
		{"90deg", math.Pi / 2},
		{"100grad", math.Pi / 2},
		{"1rad", 1},
		{"0.5turn", math.Pi},
	}
	for _, tt := range tests {
		got, err := ParseAngle(tt.in)
		if err != nil {
			t.Fatalf("ParseAngle(%q): %v", tt.in, err)
		}
		if !almostEqual(got, tt.want, 1e-12) {
			t.Errorf("ParseAngle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1s", 1000},
		{"250ms", 250},
		{"2", 2000},
		{"0.5min", 30000},
		{"1h", 3600000},
		{"01:30", 90000},
		{"00:01:30.5", 90500},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", tt.in, err)
		}
		if !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseDuration("indefinite"); err == nil {
		t.Error("indefinite is not a duration")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"red", RGB(1, 0, 0)},
		{"RED", RGB(1, 0, 0)},
		{"#f00", RGB(1, 0, 0)},
		{"#ff0000", RGB(1, 0, 0)},
		{"#ff000080", Color{R: 1, A: 128.0 / 255}},
		{"#0f08", Color{G: 1, A: 136.0 / 255}},
		{"rgb(255, 0, 0)", RGB(1, 0, 0)},
		{"rgb(100%,0%,0%)", RGB(1, 0, 0)},
		{"rgba(0,0,255,0.5)", Color{B: 1, A: 0.5}},
		{"rgb(0 0 255 / 50%)", Color{B: 1, A: 0.5}},
		{"hsl(120, 100%, 50%)", RGB(0, 1, 0)},
		{"transparent", Transparent},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if !ok {
				t.Fatal("ParseColor failed")
			}
			if !almostEqual(got.R, tt.want.R, 1e-9) || !almostEqual(got.G, tt.want.G, 1e-9) ||
				!almostEqual(got.B, tt.want.B, 1e-9) || !almostEqual(got.A, tt.want.A, 1e-9) {
				t.Errorf("ParseColor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#ggg", "#12345", "rgb(1,2)", "notacolor", "none", "url(#a)"} {
		if _, ok := ParseColor(in); ok {
			t.Errorf("ParseColor(%q) succeeded", in)
		}
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := Color{R: 1, G: 0.5, A: 0.5}.RGBA()
	if a != 0x7fff || r != 0x7fff || b != 0 {
		t.Errorf("RGBA = %x %x %x %x", r, g, b, a)
	}
	if got := RGB(1, 0, 0).Hex(); got != "#ff0000" {
		t.Errorf("Hex = %s", got)
	}
}

func TestColorLerp(t *testing.T) {
	got := RGB(0, 0, 0).Lerp(RGB(1, 1, 1), 0.25)
	if !almostEqual(got.R, 0.25, 1e-12) || got.A != 1 {
		t.Errorf("Lerp = %+v", got)
	}
}
