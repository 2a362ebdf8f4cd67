package pathdata

import (
	"strconv"
	"strings"

	"github.com/gogpu/svg/geom"
)

// Encode serializes p as absolute path data.
//
// The output is semantically equal to the input: H and V become L, smooth
// commands are written with their resolved control points and relative
// coordinates are made absolute.
func Encode(p *Path) string {
	var b strings.Builder
	c := NewCursor(p)
	for c.Next() {
		s := c.Segment()
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		switch s.Kind {
		case SegMove:
			b.WriteByte('M')
			writePoints(&b, s.To)
		case SegLine:
			b.WriteByte('L')
			writePoints(&b, s.To)
		case SegCubic:
			b.WriteByte('C')
			writePoints(&b, s.C1, s.C2, s.To)
		case SegQuad:
			b.WriteByte('Q')
			writePoints(&b, s.C1, s.To)
		case SegArc:
			b.WriteByte('A')
			writeNumbers(&b, s.Rx, s.Ry, s.Rotation, flag(s.LargeArc), flag(s.Sweep))
			writePoints(&b, s.To)
		case SegClose:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func flag(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func writePoints(b *strings.Builder, pts ...geom.Point) {
	for _, p := range pts {
		writeNumbers(b, p.X, p.Y)
	}
}

func writeNumbers(b *strings.Builder, vs ...float64) {
	for _, v := range vs {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
}
