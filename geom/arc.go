package geom

import "math"

// Arc is an elliptical arc in center parameterization.
type Arc struct {
	Center   Point
	Rx, Ry   float64
	Rotation float64 // x-axis rotation in radians
	Theta1   float64 // start angle in radians
	DTheta   float64 // signed sweep in radians
}

// EllipsePoint returns the point at angle theta on the ellipse with the
// given center, radii and x-axis rotation.
func EllipsePoint(center Point, rx, ry, rotation, theta float64) Point {
	sinT, cosT := math.Sincos(theta)
	sinR, cosR := math.Sincos(rotation)
	x := rx * cosT
	y := ry * sinT
	return Point{
		X: center.X + x*cosR - y*sinR,
		Y: center.Y + x*sinR + y*cosR,
	}
}

// ArcCenter converts the endpoint parameterization used by SVG path data
// into center parameterization.
//
// Radii are made positive and, when too small for the chord between from
// and to, scaled up uniformly by sqrt(lambda) so the arc is satisfiable.
// A NaN or negative discriminant sets the center offset term to 0 instead
// of failing. ok is false when either radius is zero or the endpoints
// coincide; such an arc is drawn as a straight line or not at all.
func ArcCenter(from Point, rx, ry, rotation float64, largeArc, sweep bool, to Point) (Arc, bool) {
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 || from == to || !isFinite(rx) || !isFinite(ry) {
		return Arc{}, false
	}

	sinR, cosR := math.Sincos(rotation)
	dx := (from.X - to.X) / 2
	dy := (from.Y - to.Y) / 2
	// Start point in the rotated, midpoint-centered frame.
	cur := Point{
		X: cosR*dx + sinR*dy,
		Y: -sinR*dx + cosR*dy,
	}

	lambda := cur.X*cur.X/(rx*rx) + cur.Y*cur.Y/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*cur.Y*cur.Y - ry*ry*cur.X*cur.X
	den := rx*rx*cur.Y*cur.Y + ry*ry*cur.X*cur.X
	s := math.Sqrt(num / den)
	if math.IsNaN(s) || !isFinite(s) {
		s = 0
	}
	if largeArc == sweep {
		s = -s
	}

	cpp := Point{X: s * rx * cur.Y / ry, Y: s * -ry * cur.X / rx}
	center := Point{
		X: (from.X+to.X)/2 + cosR*cpp.X - sinR*cpp.Y,
		Y: (from.Y+to.Y)/2 + sinR*cpp.X + cosR*cpp.Y,
	}

	u := Point{X: (cur.X - cpp.X) / rx, Y: (cur.Y - cpp.Y) / ry}
	v := Point{X: (-cur.X - cpp.X) / rx, Y: (-cur.Y - cpp.Y) / ry}
	theta1 := Angle(Pt(1, 0), u)
	dTheta := Angle(u, v)
	switch r := Ratio(u, v); {
	case r <= -1:
		dTheta = math.Pi
	case r >= 1:
		dTheta = 0
	}
	if !sweep && dTheta > 0 {
		dTheta -= 2 * math.Pi
	}
	if sweep && dTheta < 0 {
		dTheta += 2 * math.Pi
	}

	return Arc{
		Center:   center,
		Rx:       rx,
		Ry:       ry,
		Rotation: rotation,
		Theta1:   theta1,
		DTheta:   dTheta,
	}, true
}

// PointAt returns the point at the given fraction (0..1) of the sweep.
func (a Arc) PointAt(t float64) Point {
	return EllipsePoint(a.Center, a.Rx, a.Ry, a.Rotation, a.Theta1+a.DTheta*t)
}

// Tangent returns the derivative of the arc at the given fraction of the
// sweep. It points in the direction of travel.
func (a Arc) Tangent(t float64) Point {
	theta := a.Theta1 + a.DTheta*t
	sinT, cosT := math.Sincos(theta)
	sinR, cosR := math.Sincos(a.Rotation)
	dx := -a.Rx * sinT * a.DTheta
	dy := a.Ry * cosT * a.DTheta
	return Point{
		X: dx*cosR - dy*sinR,
		Y: dx*sinR + dy*cosR,
	}
}

// Cubics approximates the arc with cubic Bézier segments of at most 90
// degrees each. Every element holds the control points p1, p2 and end
// point p3; the start point is the previous segment's end.
func (a Arc) Cubics() [][3]Point {
	n := int(math.Ceil(math.Abs(a.DTheta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := a.DTheta / float64(n)
	// Tangent length for a unit circle segment of angle step.
	k := 4.0 / 3.0 * math.Tan(step/4)

	sinR, cosR := math.Sincos(a.Rotation)
	mapPt := func(x, y float64) Point {
		x *= a.Rx
		y *= a.Ry
		return Point{
			X: a.Center.X + x*cosR - y*sinR,
			Y: a.Center.Y + x*sinR + y*cosR,
		}
	}

	out := make([][3]Point, 0, n)
	theta := a.Theta1
	for i := 0; i < n; i++ {
		s1, c1 := math.Sincos(theta)
		s2, c2 := math.Sincos(theta + step)
		out = append(out, [3]Point{
			mapPt(c1-k*s1, s1+k*c1),
			mapPt(c2+k*s2, s2-k*c2),
			mapPt(c2, s2),
		})
		theta += step
	}
	return out
}
