package units

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
	"golang.org/x/image/colornames"
)

// Color is a non-premultiplied color with components in [0, 1].
// It implements color.Color.
type Color struct {
	R, G, B, A float64
}

// RGBA implements color.Color with premultiplied 16-bit components.
func (c Color) RGBA() (r, g, b, a uint32) {
	a16 := clamp01(c.A) * 0xffff
	r = uint32(clamp01(c.R) * a16)
	g = uint32(clamp01(c.G) * a16)
	b = uint32(clamp01(c.B) * a16)
	return r, g, b, uint32(a16)
}

// RGB creates an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// FromColor converts any color.Color, un-premultiplying its components.
func FromColor(c color.Color) Color {
	if uc, ok := c.(Color); ok {
		return uc
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Transparent
	}
	fa := float64(a)
	return Color{
		R: float64(r) / fa,
		G: float64(g) / fa,
		B: float64(b) / fa,
		A: fa / 0xffff,
	}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= clamp01(a)
	return c
}

// Lerp interpolates linearly between two colors, component by component.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// IsTransparent reports whether the color has no alpha.
func (c Color) IsTransparent() bool { return c.A <= 0 }

// Hex formats the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	r, g, b := to255(c.R), to255(c.G), to255(c.B)
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, to255(c.A))
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = Color{}
)

// ParseColor parses a CSS color: #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb()/rgba() with numbers or percentages, hsl()/hsla(), a named color
// or "transparent". "none" and "currentColor" are paint keywords and are
// not accepted here.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, false
	}
	if s[0] == '#' {
		return parseHexColor(s[1:])
	}
	lower := strings.ToLower(s)
	if lower == "transparent" {
		return Transparent, true
	}
	if open := strings.IndexByte(lower, '('); open > 0 && strings.HasSuffix(lower, ")") {
		return parseFunctionColor(lower[:open], lower[open+1:len(lower)-1])
	}
	if c, ok := colornames.Map[lower]; ok {
		return Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
			A: float64(c.A) / 255,
		}, true
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	var r, g, b uint32
	a := uint32(255)
	ok := true
	switch len(hex) {
	case 3, 4:
		r, g, b = hexDigits(hex[0:1], &ok)*17, hexDigits(hex[1:2], &ok)*17, hexDigits(hex[2:3], &ok)*17
		if len(hex) == 4 {
			a = hexDigits(hex[3:4], &ok) * 17
		}
	case 6, 8:
		r, g, b = hexDigits(hex[0:2], &ok), hexDigits(hex[2:4], &ok), hexDigits(hex[4:6], &ok)
		if len(hex) == 8 {
			a = hexDigits(hex[6:8], &ok)
		}
	default:
		return Color{}, false
	}
	if !ok {
		return Color{}, false
	}
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, true
}

func hexDigits(s string, ok *bool) uint32 {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		v *= 16
		switch {
		case '0' <= c && c <= '9':
			v += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			v += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			v += uint32(c - 'A' + 10)
		default:
			*ok = false
		}
	}
	return v
}

func parseFunctionColor(name, args string) (Color, bool) {
	fields := strings.FieldsFunc(args, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t'
	})
	if len(fields) < 3 || len(fields) > 4 {
		return Color{}, false
	}
	alpha := 1.0
	if len(fields) == 4 {
		v, pct, ok := component(fields[3])
		if !ok {
			return Color{}, false
		}
		if pct {
			v /= 100
		}
		alpha = clamp01(v)
	}

	switch name {
	case "rgb", "rgba":
		var c [3]float64
		for i := range c {
			v, pct, ok := component(fields[i])
			if !ok {
				return Color{}, false
			}
			if pct {
				c[i] = clamp01(v / 100)
			} else {
				c[i] = clamp01(v / 255)
			}
		}
		return Color{R: c[0], G: c[1], B: c[2], A: alpha}, true
	case "hsl", "hsla":
		h, err := ParseAngle(fields[0])
		if err != nil {
			return Color{}, false
		}
		sat, _, ok1 := component(fields[1])
		light, _, ok2 := component(fields[2])
		if !ok1 || !ok2 {
			return Color{}, false
		}
		c := HSL(h*180/math.Pi, clamp01(sat/100), clamp01(light/100))
		c.A = alpha
		return c, true
	}
	return Color{}, false
}

func component(s string) (v float64, percent bool, ok bool) {
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return 0, false, false
	}
	rest := s[n:]
	if rest == "%" {
		return f, true, true
	}
	return f, false, rest == ""
}

// HSL creates a color from HSL values.
// h is hue [0, 360), s is saturation [0, 1], l is lightness [0, 1].
func HSL(h, s, l float64) Color {
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

func clamp01(x float64) float64 {
	switch {
	case x < 0 || math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	}
	return x
}

func to255(x float64) int {
	return int(math.Round(clamp01(x) * 255))
}
