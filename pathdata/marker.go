package pathdata

import "github.com/gogpu/svg/geom"

// Vertex is a marker position on a path.
//
// Angle is the marker orientation in radians: the bisector of the
// incoming and outgoing directions, or whichever of the two exists.
type Vertex struct {
	Point geom.Point
	Angle float64

	in, out       geom.Point
	hasIn, hasOut bool
}

// Vertices replays p and returns every vertex a marker may be placed on,
// in path order. The first element takes marker-start, the last
// marker-end and the rest marker-mid.
func Vertices(p *Path) []Vertex {
	var (
		out          []Vertex
		subpathStart = -1
		firstOut     geom.Point
		haveFirstOut bool
	)
	leave := func(dir geom.Point) {
		if len(out) == 0 {
			return
		}
		v := &out[len(out)-1]
		v.out, v.hasOut = dir, true
		if len(out)-1 == subpathStart && !haveFirstOut {
			firstOut, haveFirstOut = dir, true
		}
	}

	c := NewCursor(p)
	for c.Next() {
		s := c.Segment()
		switch s.Kind {
		case SegMove:
			out = append(out, Vertex{Point: s.To})
			subpathStart = len(out) - 1
			haveFirstOut = false
		case SegClose:
			dir := s.To.Sub(s.From)
			if dir.X != 0 || dir.Y != 0 {
				leave(dir)
				out = append(out, Vertex{Point: s.To, in: dir, hasIn: true})
			} else if len(out) > 0 {
				dir = out[len(out)-1].in
			}
			// A closed subpath joins its end back to its start.
			if subpathStart >= 0 && subpathStart < len(out) {
				first := &out[subpathStart]
				first.in, first.hasIn = dir, true
				if haveFirstOut {
					last := &out[len(out)-1]
					last.out, last.hasOut = firstOut, true
				}
			}
		default:
			leave(s.StartTangent())
			out = append(out, Vertex{Point: s.To, in: s.EndTangent(), hasIn: true})
		}
	}

	for i := range out {
		out[i].Angle = bisector(out[i])
	}
	return out
}

func bisector(v Vertex) float64 {
	switch {
	case v.hasIn && v.hasOut:
		in, out := v.in.Normalize(), v.out.Normalize()
		sum := in.Add(out)
		if sum.Length() < 1e-12 {
			return in.Angle()
		}
		return sum.Angle()
	case v.hasIn:
		return v.in.Angle()
	case v.hasOut:
		return v.out.Angle()
	}
	return 0
}
