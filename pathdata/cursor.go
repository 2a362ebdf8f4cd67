package pathdata

import (
	"math"

	"github.com/gogpu/svg/geom"
)

// SegmentKind identifies an absolute drawing segment.
type SegmentKind uint8

const (
	SegMove SegmentKind = iota
	SegLine
	SegCubic
	SegQuad
	SegArc
	SegClose
)

// Segment is one command resolved to absolute coordinates.
//
// H and V arrive as SegLine, S as SegCubic and T as SegQuad with their
// implicit control point filled in. From is the current point before the
// segment. C1 and C2 are the cubic control points; a quadratic uses C1
// only.
type Segment struct {
	Kind     SegmentKind
	From, To geom.Point
	C1, C2   geom.Point

	// Arc parameters as written: radii, x-axis rotation in degrees, flags.
	Rx, Ry, Rotation float64
	LargeArc, Sweep  bool
	// Center is the center parameterization of an arc. CenterOK is false
	// for zero radii or coincident endpoints, in which case the arc is a
	// straight line to To.
	Center   geom.Arc
	CenterOK bool

	// Degenerate marks a close whose subpath collapsed to a single point.
	// Such a close moves the current point but draws nothing.
	Degenerate bool
}

// Cursor replays a Path as absolute segments.
//
// Current is the current point, Start the start of the current subpath
// and Control the last control point, used to reflect the implicit
// control point of smooth commands.
type Cursor struct {
	Current geom.Point
	Start   geom.Point
	Control geom.Point

	path    *Path
	index   int
	prev    Kind
	seg     Segment
	subpath geom.BoundingBox
}

// NewCursor returns a cursor positioned before the first command of p.
func NewCursor(p *Path) *Cursor {
	c := &Cursor{path: p}
	c.Reset()
	return c
}

// Reset rewinds the cursor to the beginning of the path.
func (c *Cursor) Reset() {
	c.Current = geom.Point{}
	c.Start = geom.Point{}
	c.Control = geom.Point{}
	c.index = -1
	c.prev = Close
	c.seg = Segment{}
	c.subpath = geom.NewBoundingBox()
}

// Command returns the command behind the current segment.
func (c *Cursor) Command() Command {
	return c.path.cmds[c.index]
}

// Segment returns the current segment. It is valid after Next returned
// true.
func (c *Cursor) Segment() Segment { return c.seg }

// Next advances to the next command and resolves it. It returns false at
// the end of the path.
func (c *Cursor) Next() bool {
	if c.index+1 >= c.path.Len() {
		return false
	}
	c.index++
	cmd := c.path.cmds[c.index]
	a := cmd.Args
	base := geom.Point{}
	if cmd.Relative {
		base = c.Current
	}
	pt := func(i int) geom.Point {
		return geom.Pt(a[i]+base.X, a[i+1]+base.Y)
	}

	from := c.Current
	seg := Segment{From: from}
	switch cmd.Kind {
	case Move:
		seg.Kind = SegMove
		seg.To = pt(0)
		c.Start = seg.To
		c.Control = seg.To
		c.subpath = geom.NewBoundingBox(seg.To)
	case Line:
		seg.Kind = SegLine
		seg.To = pt(0)
		c.Control = seg.To
	case HorizontalLine:
		seg.Kind = SegLine
		seg.To = geom.Pt(a[0]+base.X, from.Y)
		c.Control = seg.To
	case VerticalLine:
		seg.Kind = SegLine
		seg.To = geom.Pt(from.X, a[0]+base.Y)
		c.Control = seg.To
	case Cubic:
		seg.Kind = SegCubic
		seg.C1, seg.C2, seg.To = pt(0), pt(2), pt(4)
		c.Control = seg.C2
	case SmoothCubic:
		seg.Kind = SegCubic
		seg.C1 = from
		if c.prev == Cubic || c.prev == SmoothCubic {
			seg.C1 = c.Control.Reflect(from)
		}
		seg.C2, seg.To = pt(0), pt(2)
		c.Control = seg.C2
	case Quadratic:
		seg.Kind = SegQuad
		seg.C1, seg.To = pt(0), pt(2)
		c.Control = seg.C1
	case SmoothQuadratic:
		seg.Kind = SegQuad
		seg.C1 = from
		if c.prev == Quadratic || c.prev == SmoothQuadratic {
			seg.C1 = c.Control.Reflect(from)
		}
		seg.To = pt(0)
		c.Control = seg.C1
	case Arc:
		seg.Kind = SegArc
		seg.Rx, seg.Ry, seg.Rotation = a[0], a[1], a[2]
		seg.LargeArc, seg.Sweep = a[3] != 0, a[4] != 0
		seg.To = pt(5)
		seg.Center, seg.CenterOK = geom.ArcCenter(from, seg.Rx, seg.Ry, seg.Rotation*math.Pi/180, seg.LargeArc, seg.Sweep, seg.To)
		c.Control = seg.To
	case Close:
		seg.Kind = SegClose
		seg.To = c.Start
		seg.Degenerate = c.subpath.IsEmpty() || (c.subpath.Width() == 0 && c.subpath.Height() == 0)
		c.Control = c.Start
	}

	if seg.Kind != SegMove && seg.Kind != SegClose {
		c.subpath.AddPoint(seg.To.X, seg.To.Y)
	}
	c.Current = seg.To
	c.prev = cmd.Kind
	c.seg = seg
	return true
}

// StartTangent returns the direction the segment leaves From in.
// The zero vector is returned for segments without extent.
func (s Segment) StartTangent() geom.Point {
	switch s.Kind {
	case SegCubic:
		return firstNonZero(s.C1.Sub(s.From), s.C2.Sub(s.From), s.To.Sub(s.From))
	case SegQuad:
		return firstNonZero(s.C1.Sub(s.From), s.To.Sub(s.From))
	case SegArc:
		if s.CenterOK {
			return s.Center.Tangent(0)
		}
	case SegMove:
		return geom.Point{}
	}
	return s.To.Sub(s.From)
}

// EndTangent returns the direction the segment arrives at To in.
func (s Segment) EndTangent() geom.Point {
	switch s.Kind {
	case SegCubic:
		return firstNonZero(s.To.Sub(s.C2), s.To.Sub(s.C1), s.To.Sub(s.From))
	case SegQuad:
		return firstNonZero(s.To.Sub(s.C1), s.To.Sub(s.From))
	case SegArc:
		if s.CenterOK {
			return s.Center.Tangent(1)
		}
	case SegMove:
		return geom.Point{}
	}
	return s.To.Sub(s.From)
}

func firstNonZero(vs ...geom.Point) geom.Point {
	for _, v := range vs {
		if v.X != 0 || v.Y != 0 {
			return v
		}
	}
	return geom.Point{}
}
