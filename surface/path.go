// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/svg/geom"
)

// Verb is a path construction operation.
type Verb uint8

const (
	VerbMoveTo Verb = iota
	VerbLineTo
	VerbQuadTo
	VerbCubicTo
	VerbClose
)

// pointCount is the number of points each verb consumes.
var pointCount = [...]int{VerbMoveTo: 1, VerbLineTo: 1, VerbQuadTo: 2, VerbCubicTo: 3, VerbClose: 0}

// Path is a device-space path as accumulated by a surface. Backends map
// user coordinates through the current matrix before appending, so a
// Path never needs the transform that built it.
//
// Example:
//
//	p := surface.NewPath()
//	p.MoveTo(100, 100)
//	p.LineTo(200, 100)
//	p.LineTo(150, 200)
//	p.Close()
type Path struct {
	verbs  []Verb
	points []geom.Point
	start  geom.Point
	cur    geom.Point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		verbs:  make([]Verb, 0, 16),
		points: make([]geom.Point, 0, 32),
	}
}

// MoveTo starts a new subpath at the given point.
func (p *Path) MoveTo(x, y float64) {
	pt := geom.Pt(x, y)
	p.verbs = append(p.verbs, VerbMoveTo)
	p.points = append(p.points, pt)
	p.start, p.cur = pt, pt
}

// LineTo adds a line from the current point to (x, y).
func (p *Path) LineTo(x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(x, y)
		return
	}
	p.verbs = append(p.verbs, VerbLineTo)
	p.cur = geom.Pt(x, y)
	p.points = append(p.points, p.cur)
}

// QuadTo adds a quadratic Bezier curve from the current point.
// (cx, cy) is the control point, (x, y) is the endpoint.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(cx, cy)
	}
	p.verbs = append(p.verbs, VerbQuadTo)
	p.cur = geom.Pt(x, y)
	p.points = append(p.points, geom.Pt(cx, cy), p.cur)
}

// CubicTo adds a cubic Bezier curve from the current point.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(c1x, c1y)
	}
	p.verbs = append(p.verbs, VerbCubicTo)
	p.cur = geom.Pt(x, y)
	p.points = append(p.points, geom.Pt(c1x, c1y), geom.Pt(c2x, c2y), p.cur)
}

// Close closes the current subpath by connecting to the start point.
func (p *Path) Close() {
	if len(p.verbs) == 0 || p.verbs[len(p.verbs)-1] == VerbClose {
		return
	}
	p.verbs = append(p.verbs, VerbClose)
	p.cur = p.start
}

// Clear removes all elements from the path.
func (p *Path) Clear() {
	p.verbs = p.verbs[:0]
	p.points = p.points[:0]
	p.start, p.cur = geom.Point{}, geom.Point{}
}

// IsEmpty returns true if the path has no elements.
func (p *Path) IsEmpty() bool {
	return len(p.verbs) == 0
}

// Verbs returns the verb slice.
func (p *Path) Verbs() []Verb {
	return p.verbs
}

// Points returns the points in verb order.
func (p *Path) Points() []geom.Point {
	return p.points
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() geom.Point {
	return p.cur
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	clone := &Path{
		verbs:  make([]Verb, len(p.verbs)),
		points: make([]geom.Point, len(p.points)),
		start:  p.start,
		cur:    p.cur,
	}
	copy(clone.verbs, p.verbs)
	copy(clone.points, p.points)
	return clone
}

// Walk calls fn for every element with that element's points.
func (p *Path) Walk(fn func(v Verb, pts []geom.Point)) {
	i := 0
	for _, v := range p.verbs {
		n := pointCount[v]
		fn(v, p.points[i:i+n])
		i += n
	}
}

// Bounds returns the control-point bounding box of the path.
func (p *Path) Bounds() geom.BoundingBox {
	b := geom.NewBoundingBox()
	for _, pt := range p.points {
		b.AddPoint(pt.X, pt.Y)
	}
	return b
}

// PathBuilder maps user coordinates through the current matrix into a
// device-space Path. Backends embed it to implement the path and
// transform methods of Surface.
type PathBuilder struct {
	path   *Path
	matrix geom.Matrix
}

// NewPathBuilder returns a builder with an empty path and identity matrix.
func NewPathBuilder() PathBuilder {
	return PathBuilder{path: NewPath(), matrix: geom.Identity()}
}

// Path returns the path built so far.
func (b *PathBuilder) Path() *Path { return b.path }

// Matrix returns the current matrix.
func (b *PathBuilder) Matrix() geom.Matrix { return b.matrix }

// SetTransform replaces the current matrix.
func (b *PathBuilder) SetTransform(m geom.Matrix) { b.matrix = m }

// Transform post-multiplies the current matrix by m.
func (b *PathBuilder) Transform(m geom.Matrix) { b.matrix = b.matrix.Multiply(m) }

func (b *PathBuilder) tp(x, y float64) geom.Point {
	return b.matrix.TransformPoint(geom.Pt(x, y))
}

func (b *PathBuilder) BeginPath() { b.path.Clear() }

func (b *PathBuilder) MoveTo(x, y float64) {
	p := b.tp(x, y)
	b.path.MoveTo(p.X, p.Y)
}

func (b *PathBuilder) LineTo(x, y float64) {
	p := b.tp(x, y)
	b.path.LineTo(p.X, p.Y)
}

func (b *PathBuilder) QuadraticTo(cx, cy, x, y float64) {
	c, p := b.tp(cx, cy), b.tp(x, y)
	b.path.QuadTo(c.X, c.Y, p.X, p.Y)
}

func (b *PathBuilder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	c1, c2, p := b.tp(c1x, c1y), b.tp(c2x, c2y), b.tp(x, y)
	b.path.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
}

func (b *PathBuilder) ClosePath() { b.path.Close() }

// Rect appends a closed rectangle subpath.
func (b *PathBuilder) Rect(x, y, w, h float64) {
	b.MoveTo(x, y)
	b.LineTo(x+w, y)
	b.LineTo(x+w, y+h)
	b.LineTo(x, y+h)
	b.ClosePath()
}

// Sub returns a builder with a fresh path and the same matrix. Text and
// image drawing build their geometry in one without touching the
// current path.
func (b *PathBuilder) Sub() *PathBuilder {
	return &PathBuilder{path: NewPath(), matrix: b.matrix}
}
