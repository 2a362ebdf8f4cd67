package pathdata

import (
	"math"

	"github.com/gogpu/svg/geom"
)

// Bounds returns the exact bounding box of p.
func Bounds(p *Path) geom.BoundingBox {
	b := geom.NewBoundingBox()
	c := NewCursor(p)
	for c.Next() {
		AddSegment(&b, c.Segment())
	}
	return b
}

// AddSegment widens b to include the segment.
func AddSegment(b *geom.BoundingBox, s Segment) {
	switch s.Kind {
	case SegMove, SegLine:
		b.AddPoint(s.To.X, s.To.Y)
	case SegCubic:
		b.AddBezierCurve(s.From, s.C1, s.C2, s.To)
	case SegQuad:
		b.AddQuadraticCurve(s.From, s.C1, s.To)
	case SegArc:
		if s.CenterOK {
			b.AddArc(s.Center)
		} else {
			b.AddPoint(s.To.X, s.To.Y)
		}
	}
}

// Polyline is a flattened subpath. Closed is set when the subpath ended
// with a close command; the closing point is then repeated at the end.
type Polyline struct {
	Points []geom.Point
	Closed bool
}

// Length returns the total length of the polyline.
func (pl Polyline) Length() float64 {
	var l float64
	for i := 1; i < len(pl.Points); i++ {
		l += pl.Points[i].Distance(pl.Points[i-1])
	}
	return l
}

// Flatten approximates p by polylines whose curve pieces are at most
// about step long. Each move starts a new polyline.
func Flatten(p *Path, step float64) []Polyline {
	if step <= 0 {
		step = 1
	}
	var (
		out []Polyline
		cur *Polyline
	)
	begin := func(pt geom.Point) {
		out = append(out, Polyline{Points: []geom.Point{pt}})
		cur = &out[len(out)-1]
	}

	c := NewCursor(p)
	for c.Next() {
		s := c.Segment()
		if s.Kind == SegMove {
			begin(s.To)
			continue
		}
		if cur == nil || cur.Closed {
			begin(s.From)
		}
		switch s.Kind {
		case SegLine:
			cur.Points = append(cur.Points, s.To)
		case SegCubic:
			n := pieces(s.From.Distance(s.C1)+s.C1.Distance(s.C2)+s.C2.Distance(s.To), step)
			for i := 1; i <= n; i++ {
				cur.Points = append(cur.Points, geom.CubicAt(float64(i)/float64(n), s.From, s.C1, s.C2, s.To))
			}
		case SegQuad:
			n := pieces(s.From.Distance(s.C1)+s.C1.Distance(s.To), step)
			for i := 1; i <= n; i++ {
				cur.Points = append(cur.Points, geom.QuadAt(float64(i)/float64(n), s.From, s.C1, s.To))
			}
		case SegArc:
			if !s.CenterOK {
				cur.Points = append(cur.Points, s.To)
				break
			}
			n := pieces(math.Max(s.Center.Rx, s.Center.Ry)*math.Abs(s.Center.DTheta), step)
			for i := 1; i < n; i++ {
				cur.Points = append(cur.Points, s.Center.PointAt(float64(i)/float64(n)))
			}
			cur.Points = append(cur.Points, s.To)
		case SegClose:
			if !s.Degenerate {
				cur.Points = append(cur.Points, s.To)
			}
			cur.Closed = true
		}
	}
	return out
}

func pieces(length, step float64) int {
	if math.IsNaN(length) || math.IsInf(length, 0) {
		return 1
	}
	return max(1, int(math.Ceil(length/step)))
}
