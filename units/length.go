// Package units converts SVG and CSS values: lengths, angles, durations
// and colors.
package units

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// Unit is a length unit.
type Unit uint8

const (
	None Unit = iota // user units, equal to px
	Px
	Percent
	Em
	Rem
	Ex
	Vw
	Vh
	Vmin
	Vmax
	Pt
	Pc
	Cm
	Mm
	In
)

var unitNames = [...]string{
	None:    "",
	Px:      "px",
	Percent: "%",
	Em:      "em",
	Rem:     "rem",
	Ex:      "ex",
	Vw:      "vw",
	Vh:      "vh",
	Vmin:    "vmin",
	Vmax:    "vmax",
	Pt:      "pt",
	Pc:      "pc",
	Cm:      "cm",
	Mm:      "mm",
	In:      "in",
}

// String returns the unit suffix.
func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return "?"
}

// DPI is the resolution used for absolute units.
const DPI = 96.0

// Axis selects the viewport dimension percentages resolve against.
type Axis uint8

const (
	// Diagonal resolves against sqrt(w^2+h^2)/sqrt(2).
	Diagonal Axis = iota
	X
	Y
	// FontSize resolves percentages against the current font size.
	FontSize
)

// Context carries what relative units resolve against.
type Context struct {
	ViewportWidth  float64
	ViewportHeight float64
	FontSize       float64 // current em size in px
	RootFontSize   float64 // root em size in px
}

// Size returns the reference dimension for the axis.
func (c Context) Size(axis Axis) float64 {
	switch axis {
	case X:
		return c.ViewportWidth
	case Y:
		return c.ViewportHeight
	case FontSize:
		return c.FontSize
	}
	return math.Sqrt(c.ViewportWidth*c.ViewportWidth+c.ViewportHeight*c.ViewportHeight) / math.Sqrt2
}

// Length is a number with a unit.
type Length struct {
	Value float64
	Unit  Unit
}

// PxLength returns a length in pixels.
func PxLength(v float64) Length { return Length{Value: v, Unit: Px} }

// String formats the length as CSS.
func (l Length) String() string {
	return fmt.Sprintf("%g%s", l.Value, l.Unit)
}

// Pixels converts the length to pixels.
func (l Length) Pixels(ctx Context, axis Axis) float64 {
	v := l.Value
	switch l.Unit {
	case None, Px:
		return v
	case Percent:
		return v / 100 * ctx.Size(axis)
	case Em:
		return v * ctx.FontSize
	case Rem:
		return v * ctx.RootFontSize
	case Ex:
		return v * ctx.FontSize / 2
	case Vw:
		return v / 100 * ctx.ViewportWidth
	case Vh:
		return v / 100 * ctx.ViewportHeight
	case Vmin:
		return v / 100 * math.Min(ctx.ViewportWidth, ctx.ViewportHeight)
	case Vmax:
		return v / 100 * math.Max(ctx.ViewportWidth, ctx.ViewportHeight)
	case Pt:
		return v * DPI / 72
	case Pc:
		return v * DPI / 6
	case Cm:
		return v * DPI / 2.54
	case Mm:
		return v * DPI / 25.4
	case In:
		return v * DPI
	}
	return v
}

// IsAbsolute reports whether the length converts to pixels without a
// context.
func (l Length) IsAbsolute() bool {
	switch l.Unit {
	case None, Px, Pt, Pc, Cm, Mm, In:
		return true
	}
	return false
}

// ParseLength parses a number followed by an optional unit suffix.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return Length{}, fmt.Errorf("units: invalid length %q", s)
	}
	suffix := strings.ToLower(strings.TrimSpace(s[n:]))
	for u, name := range unitNames {
		if name == suffix {
			return Length{Value: f, Unit: Unit(u)}, nil
		}
	}
	return Length{}, fmt.Errorf("units: unknown unit %q in %q", suffix, s)
}

// ParseNumber parses a plain number, ignoring surrounding whitespace. A
// trailing unit is accepted and dropped.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	f, n := strconv.ParseFloat([]byte(s))
	return f, n > 0
}
