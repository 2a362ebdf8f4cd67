package geom

// Bernstein blending functions. The cubic set weights P0..P3 and the
// quadratic set weights P0..P2 at parameter t.

// CubicBlend returns the four cubic Bernstein weights at t.
func CubicBlend(t float64) (b0, b1, b2, b3 float64) {
	mt := 1 - t
	return mt * mt * mt, 3 * mt * mt * t, 3 * mt * t * t, t * t * t
}

// QuadBlend returns the three quadratic Bernstein weights at t.
func QuadBlend(t float64) (b0, b1, b2 float64) {
	mt := 1 - t
	return mt * mt, 2 * mt * t, t * t
}

// CubicAt evaluates the cubic Bézier curve p0..p3 at t in [0, 1].
func CubicAt(t float64, p0, p1, p2, p3 Point) Point {
	b0, b1, b2, b3 := CubicBlend(t)
	return Point{
		X: b0*p0.X + b1*p1.X + b2*p2.X + b3*p3.X,
		Y: b0*p0.Y + b1*p1.Y + b2*p2.Y + b3*p3.Y,
	}
}

// QuadAt evaluates the quadratic Bézier curve p0..p2 at t in [0, 1].
func QuadAt(t float64, p0, p1, p2 Point) Point {
	b0, b1, b2 := QuadBlend(t)
	return Point{
		X: b0*p0.X + b1*p1.X + b2*p2.X,
		Y: b0*p0.Y + b1*p1.Y + b2*p2.Y,
	}
}

// CubicDerivative returns dB/dt of the cubic Bézier curve at t.
func CubicDerivative(t float64, p0, p1, p2, p3 Point) Point {
	mt := 1 - t
	d0 := p1.Sub(p0)
	d1 := p2.Sub(p1)
	d2 := p3.Sub(p2)
	return Point{
		X: 3 * (d0.X*mt*mt + 2*d1.X*mt*t + d2.X*t*t),
		Y: 3 * (d0.Y*mt*mt + 2*d1.Y*mt*t + d2.Y*t*t),
	}
}

// QuadDerivative returns dB/dt of the quadratic Bézier curve at t.
func QuadDerivative(t float64, p0, p1, p2 Point) Point {
	return Point{
		X: 2 * ((1-t)*(p1.X-p0.X) + t*(p2.X-p1.X)),
		Y: 2 * ((1-t)*(p1.Y-p0.Y) + t*(p2.Y-p1.Y)),
	}
}

// QuadToCubic elevates a quadratic curve to the equivalent cubic control
// points.
func QuadToCubic(p0, p1, p2 Point) (c1, c2 Point) {
	c1 = p0.Add(p1.Sub(p0).Mul(2.0 / 3.0))
	c2 = p2.Add(p1.Sub(p2).Mul(2.0 / 3.0))
	return c1, c2
}
