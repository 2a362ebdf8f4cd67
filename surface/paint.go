// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"math"
	"sort"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/units"
)

// Paint is a fill or stroke source. ColorAt receives a point in the user
// space that was current when Fill or Stroke was called and returns a
// non-premultiplied color.
type Paint interface {
	ColorAt(x, y float64) units.Color
}

// SolidPaint paints a single color.
type SolidPaint struct {
	Color units.Color
}

// Solid returns a SolidPaint for c.
func Solid(c units.Color) SolidPaint {
	return SolidPaint{Color: c}
}

// ColorAt implements Paint.
func (p SolidPaint) ColorAt(_, _ float64) units.Color {
	return p.Color
}

// Spread defines how gradients continue beyond their end points.
type Spread uint8

const (
	// SpreadPad extends the end stop colors.
	SpreadPad Spread = iota
	// SpreadReflect mirrors the gradient back and forth.
	SpreadReflect
	// SpreadRepeat restarts the gradient.
	SpreadRepeat
)

// Stop is a gradient color stop. Offsets are in [0, 1].
type Stop struct {
	Offset float64
	Color  units.Color
}

// applySpread normalizes t to [0, 1].
func applySpread(t float64, s Spread) float64 {
	switch s {
	case SpreadRepeat:
		t -= math.Floor(t)
	case SpreadReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int64(period)%2 == 1 {
			t = 1 - t
		}
	default:
		t = math.Max(0, math.Min(1, t))
	}
	return t
}

// colorAtOffset interpolates the stops at t. Stops must be sorted.
func colorAtOffset(stops []Stop, t float64, s Spread) units.Color {
	switch len(stops) {
	case 0:
		return units.Transparent
	case 1:
		return stops[0].Color
	}
	t = applySpread(t, s)
	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset >= t
	})
	if idx == 0 {
		return stops[0].Color
	}
	if idx >= len(stops) {
		return stops[len(stops)-1].Color
	}
	a, b := stops[idx-1], stops[idx]
	if b.Offset == a.Offset {
		return b.Color
	}
	return a.Color.Lerp(b.Color, (t-a.Offset)/(b.Offset-a.Offset))
}

// NormalizeStops clamps offsets to [0, 1] and makes them monotonic: an
// offset below its predecessor is raised to it.
func NormalizeStops(stops []Stop) []Stop {
	out := make([]Stop, len(stops))
	last := 0.0
	for i, s := range stops {
		s.Offset = math.Max(last, math.Max(0, math.Min(1, s.Offset)))
		last = s.Offset
		out[i] = s
	}
	return out
}

// LinearGradient interpolates stops along the vector (X1, Y1) to (X2, Y2).
// Transform maps gradient space to the paint's user space; it must not
// change once the gradient has been sampled.
type LinearGradient struct {
	X1, Y1, X2, Y2 float64
	Stops          []Stop
	Spread         Spread
	Transform      geom.Matrix

	inverse geom.Matrix
	ready   bool
}

// NewLinearGradient creates a linear gradient with an identity transform.
// Stops are normalized.
func NewLinearGradient(x1, y1, x2, y2 float64, stops []Stop, spread Spread) *LinearGradient {
	return &LinearGradient{
		X1: x1, Y1: y1, X2: x2, Y2: y2,
		Stops:     NormalizeStops(stops),
		Spread:    spread,
		Transform: geom.Identity(),
	}
}

// ColorAt implements Paint.
func (g *LinearGradient) ColorAt(x, y float64) units.Color {
	if !g.ready {
		g.inverse, _ = g.Transform.Invert()
		g.ready = true
	}
	p := g.inverse.TransformPoint(geom.Pt(x, y))
	dx, dy := g.X2-g.X1, g.Y2-g.Y1
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return lastStop(g.Stops)
	}
	t := ((p.X-g.X1)*dx + (p.Y-g.Y1)*dy) / l2
	return colorAtOffset(g.Stops, t, g.Spread)
}

// RadialGradient interpolates stops from the focal circle (Fx, Fy, Fr)
// to the end circle (Cx, Cy, R). Transform maps gradient space to the
// paint's user space; it must not change once the gradient has been
// sampled.
type RadialGradient struct {
	Cx, Cy, R  float64
	Fx, Fy, Fr float64
	Stops      []Stop
	Spread     Spread
	Transform  geom.Matrix

	inverse geom.Matrix
	ready   bool
}

// NewRadialGradient creates a radial gradient with an identity transform.
// A focal point outside the end circle is moved onto the segment towards
// the center, just inside the circle.
func NewRadialGradient(cx, cy, r, fx, fy, fr float64, stops []Stop, spread Spread) *RadialGradient {
	dx, dy := fx-cx, fy-cy
	if d := math.Hypot(dx, dy); r > 0 && d > r*0.999 {
		k := r * 0.999 / d
		fx, fy = cx+dx*k, cy+dy*k
	}
	return &RadialGradient{
		Cx: cx, Cy: cy, R: r,
		Fx: fx, Fy: fy, Fr: math.Max(0, fr),
		Stops:     NormalizeStops(stops),
		Spread:    spread,
		Transform: geom.Identity(),
	}
}

// ColorAt implements Paint.
func (g *RadialGradient) ColorAt(x, y float64) units.Color {
	if !g.ready {
		g.inverse, _ = g.Transform.Invert()
		g.ready = true
	}
	if g.R <= 0 {
		return lastStop(g.Stops)
	}
	p := g.inverse.TransformPoint(geom.Pt(x, y))
	t, ok := g.param(p)
	if !ok {
		return units.Transparent
	}
	return colorAtOffset(g.Stops, t, g.Spread)
}

// param solves for the largest t whose interpolated circle passes
// through p: |p - c(t)| = r(t), with c(t) moving from the focal point to
// the center and r(t) from Fr to R.
func (g *RadialGradient) param(p geom.Point) (float64, bool) {
	cdx, cdy := g.Cx-g.Fx, g.Cy-g.Fy
	pdx, pdy := p.X-g.Fx, p.Y-g.Fy
	dr := g.R - g.Fr

	a := cdx*cdx + cdy*cdy - dr*dr
	b := pdx*cdx + pdy*cdy + g.Fr*dr
	c := pdx*pdx + pdy*pdy - g.Fr*g.Fr

	roots := geom.SolveQuadratic(a, -2*b, c)
	for i := len(roots) - 1; i >= 0; i-- {
		t := roots[i]
		if g.Fr+t*dr >= 0 {
			return t, true
		}
	}
	return 0, false
}

func lastStop(stops []Stop) units.Color {
	if len(stops) == 0 {
		return units.Transparent
	}
	return stops[len(stops)-1].Color
}

// PatternPaint repeats an image. Transform maps the image's pixel space
// to the paint's user space.
type PatternPaint struct {
	Image     image.Image
	Transform geom.Matrix

	inverse geom.Matrix
	ready   bool
}

// NewPatternPaint creates a repeating paint for img.
func NewPatternPaint(img image.Image, m geom.Matrix) *PatternPaint {
	return &PatternPaint{Image: img, Transform: m}
}

// ColorAt implements Paint.
func (p *PatternPaint) ColorAt(x, y float64) units.Color {
	if !p.ready {
		p.inverse, _ = p.Transform.Invert()
		p.ready = true
	}
	q := p.inverse.TransformPoint(geom.Pt(x, y))
	return sampleImage(p.Image, q.X, q.Y, true)
}

// ImageRectPaint returns a paint showing img stretched over the rectangle
// (x, y, w, h), transparent outside it.
func ImageRectPaint(img image.Image, x, y, w, h float64) Paint {
	b := img.Bounds()
	if w <= 0 || h <= 0 || b.Empty() {
		return Solid(units.Transparent)
	}
	m := geom.Scale(float64(b.Dx())/w, float64(b.Dy())/h).Multiply(geom.Translate(-x, -y))
	return imagePaint{img: img, toImage: m}
}

// imagePaint samples an image without repetition. toImage maps user
// space to image pixels.
type imagePaint struct {
	img     image.Image
	toImage geom.Matrix
}

func (p imagePaint) ColorAt(x, y float64) units.Color {
	q := p.toImage.TransformPoint(geom.Pt(x, y))
	return sampleImage(p.img, q.X, q.Y, false)
}

// sampleImage returns the nearest pixel of img at (x, y) in image pixel
// space, wrapping when repeat is set and transparent outside otherwise.
func sampleImage(img image.Image, x, y float64, repeat bool) units.Color {
	if img == nil {
		return units.Transparent
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || math.IsNaN(x+y) || math.IsInf(x+y, 0) {
		return units.Transparent
	}
	ix, iy := int(math.Floor(x)), int(math.Floor(y))
	if repeat {
		ix %= w
		if ix < 0 {
			ix += w
		}
		iy %= h
		if iy < 0 {
			iy += h
		}
	} else if ix < 0 || iy < 0 || ix >= w || iy >= h {
		return units.Transparent
	}
	return units.FromColor(img.At(b.Min.X+ix, b.Min.Y+iy))
}
