package geom

import "math"

// BoundingBox is an axis-aligned box accumulated point by point.
//
// A fresh box holds NaN in all four fields and reports IsEmpty. Once any
// point has been added, X1 <= X2 and Y1 <= Y2 hold; adding points only
// ever widens the box.
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}

// NewBoundingBox returns an empty box widened by the given points.
func NewBoundingBox(points ...Point) BoundingBox {
	b := BoundingBox{X1: math.NaN(), Y1: math.NaN(), X2: math.NaN(), Y2: math.NaN()}
	for _, p := range points {
		b.AddPoint(p.X, p.Y)
	}
	return b
}

// BoxFromRect returns the box spanning x, y, x+w, y+h.
func BoxFromRect(x, y, w, h float64) BoundingBox {
	return NewBoundingBox(Pt(x, y), Pt(x+w, y+h))
}

// X returns the left edge.
func (b BoundingBox) X() float64 { return b.X1 }

// Y returns the top edge.
func (b BoundingBox) Y() float64 { return b.Y1 }

// Width returns X2 - X1, or 0 for an empty box.
func (b BoundingBox) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.X2 - b.X1
}

// Height returns Y2 - Y1, or 0 for an empty box.
func (b BoundingBox) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Y2 - b.Y1
}

// IsEmpty reports whether no point has been added on either axis.
func (b BoundingBox) IsEmpty() bool {
	return math.IsNaN(b.X1) || math.IsNaN(b.Y1) || math.IsNaN(b.X2) || math.IsNaN(b.Y2)
}

// IsDegenerate reports whether the box is empty or has zero area.
func (b BoundingBox) IsDegenerate() bool {
	return b.IsEmpty() || b.X1 == b.X2 || b.Y1 == b.Y2
}

// AddX widens the box horizontally to include x. NaN is ignored.
func (b *BoundingBox) AddX(x float64) {
	if math.IsNaN(x) {
		return
	}
	if math.IsNaN(b.X1) || x < b.X1 {
		b.X1 = x
	}
	if math.IsNaN(b.X2) || x > b.X2 {
		b.X2 = x
	}
}

// AddY widens the box vertically to include y. NaN is ignored.
func (b *BoundingBox) AddY(y float64) {
	if math.IsNaN(y) {
		return
	}
	if math.IsNaN(b.Y1) || y < b.Y1 {
		b.Y1 = y
	}
	if math.IsNaN(b.Y2) || y > b.Y2 {
		b.Y2 = y
	}
}

// AddPoint widens the box to include (x, y).
func (b *BoundingBox) AddPoint(x, y float64) {
	b.AddX(x)
	b.AddY(y)
}

// AddBox widens the box to include other. Empty boxes add nothing.
func (b *BoundingBox) AddBox(other BoundingBox) {
	if other.IsEmpty() {
		return
	}
	b.AddPoint(other.X1, other.Y1)
	b.AddPoint(other.X2, other.Y2)
}

// AddQuadraticCurve widens the box to include the quadratic Bézier curve
// p0, p1, p2 by elevating it to a cubic.
func (b *BoundingBox) AddQuadraticCurve(p0, p1, p2 Point) {
	c1, c2 := QuadToCubic(p0, p1, p2)
	b.AddBezierCurve(p0, c1, c2, p2)
}

// AddBezierCurve widens the box to include the cubic Bézier curve p0..p3.
//
// Both endpoints are added, then dB/dt = 0 is solved per axis: the
// derivative is the quadratic a*t^2 + b*t + c with
//
//	a = 3(-p0 + 3p1 - 3p2 + p3)
//	b = 6(p0 - 2p1 + p2)
//	c = 3(p1 - p0)
//
// and every root inside (0, 1) contributes the curve coordinate at that t.
// When a vanishes the derivative is linear and solved directly.
func (b *BoundingBox) AddBezierCurve(p0, p1, p2, p3 Point) {
	b.AddPoint(p0.X, p0.Y)
	b.AddPoint(p3.X, p3.Y)

	for axis := 0; axis < 2; axis++ {
		v0, v1, v2, v3 := p0.X, p1.X, p2.X, p3.X
		if axis == 1 {
			v0, v1, v2, v3 = p0.Y, p1.Y, p2.Y, p3.Y
		}
		qa := -3*v0 + 9*v1 - 9*v2 + 3*v3
		qb := 6*v0 - 12*v1 + 6*v2
		qc := 3*v1 - 3*v0

		var roots []float64
		if qa == 0 {
			if qb == 0 {
				continue
			}
			if t := -qc / qb; t > 0 && t < 1 {
				roots = append(roots, t)
			}
		} else {
			roots = SolveQuadraticOpenUnit(qa, qb, qc)
		}

		for _, t := range roots {
			b0, b1, b2, b3 := CubicBlend(t)
			v := b0*v0 + b1*v1 + b2*v2 + b3*v3
			if axis == 0 {
				b.AddX(v)
			} else {
				b.AddY(v)
			}
		}
	}
}

// AddArc widens the box to include an elliptical arc by sampling it one
// degree at a time from theta1 through theta1+dTheta, end point included.
func (b *BoundingBox) AddArc(a Arc) {
	steps := int(math.Ceil(math.Abs(a.DTheta) / (math.Pi / 180)))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		theta := a.Theta1 + a.DTheta*float64(i)/float64(steps)
		p := EllipsePoint(a.Center, a.Rx, a.Ry, a.Rotation, theta)
		b.AddPoint(p.X, p.Y)
	}
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (b BoundingBox) Contains(x, y float64) bool {
	if b.IsEmpty() {
		return false
	}
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

// ContainsBox reports whether other lies entirely inside b.
func (b BoundingBox) ContainsBox(other BoundingBox) bool {
	if other.IsEmpty() {
		return true
	}
	return b.Contains(other.X1, other.Y1) && b.Contains(other.X2, other.Y2)
}

// Transform returns the box enclosing the four transformed corners.
func (b BoundingBox) Transform(m Matrix) BoundingBox {
	if b.IsEmpty() {
		return b
	}
	return NewBoundingBox(
		m.TransformPoint(Pt(b.X1, b.Y1)),
		m.TransformPoint(Pt(b.X2, b.Y1)),
		m.TransformPoint(Pt(b.X1, b.Y2)),
		m.TransformPoint(Pt(b.X2, b.Y2)),
	)
}
