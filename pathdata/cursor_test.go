package pathdata

import (
	"math"
	"testing"

	"github.com/gogpu/svg/geom"
)

func segments(p *Path) []Segment {
	var out []Segment
	c := NewCursor(p)
	for c.Next() {
		out = append(out, c.Segment())
	}
	return out
}

func TestCursorRelativeResolution(t *testing.T) {
	segs := segments(MustParse("m10 10 l5 0 h5 v5 l-10 0 z m2 2 l1 1"))
	want := []struct {
		kind SegmentKind
		to   geom.Point
	}{
		{SegMove, geom.Pt(10, 10)},
		{SegLine, geom.Pt(15, 10)},
		{SegLine, geom.Pt(20, 10)},
		{SegLine, geom.Pt(20, 15)},
		{SegLine, geom.Pt(10, 15)},
		{SegClose, geom.Pt(10, 10)},
		// After a close the current point is the subpath start.
		{SegMove, geom.Pt(12, 12)},
		{SegLine, geom.Pt(13, 13)},
	}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i, w := range want {
		if segs[i].Kind != w.kind || !pointsEqual(segs[i].To, w.to, 1e-12) {
			t.Errorf("seg[%d] = %v %v, want %v %v", i, segs[i].Kind, segs[i].To, w.kind, w.to)
		}
	}
}

func TestCursorReplayIsRepeatable(t *testing.T) {
	p := MustParse("m1 1 l2 2 l3 3")
	c := NewCursor(p)
	var first []geom.Point
	for c.Next() {
		first = append(first, c.Current)
	}
	c.Reset()
	i := 0
	for c.Next() {
		if c.Current != first[i] {
			t.Errorf("replay %d: %v, want %v", i, c.Current, first[i])
		}
		i++
	}
	if i != len(first) {
		t.Errorf("second replay yielded %d segments, want %d", i, len(first))
	}
}

func TestSmoothReflection(t *testing.T) {
	tests := []struct {
		name   string
		d      string
		index  int
		wantC1 geom.Point
	}{
		{"S after C reflects", "M0 0 C10 0 20 10 30 10 S50 20 60 10", 2, geom.Pt(40, 10)},
		{"S after L uses current", "M0 0 L30 10 S50 20 60 10", 2, geom.Pt(30, 10)},
		{"S after S reflects", "M0 0 S10 10 20 0 S40 -10 50 0", 2, geom.Pt(30, -10)},
		{"T after Q reflects", "M0 0 Q10 10 20 0 T40 0", 2, geom.Pt(30, -10)},
		{"T after C uses current", "M0 0 C5 5 15 5 20 0 T40 0", 2, geom.Pt(20, 0)},
		{"T after T reflects", "M0 0 Q10 10 20 0 T40 0 T60 0", 3, geom.Pt(50, 10)},
		{"relative s", "M0 0 C10 0 20 10 30 10 s20 10 30 0", 2, geom.Pt(40, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := segments(MustParse(tt.d))
			got := segs[tt.index].C1
			if !pointsEqual(got, tt.wantC1, 1e-12) {
				t.Errorf("C1 = %v, want %v", got, tt.wantC1)
			}
		})
	}
}

func TestDegenerateClose(t *testing.T) {
	tests := []struct {
		name       string
		d          string
		degenerate bool
	}{
		{"triangle", "M0 0 L10 0 L10 10 Z", false},
		{"horizontal line", "M0 0 L10 0 Z", false},
		{"single point", "M5 5 Z", true},
		{"repeated point", "M5 5 L5 5 L5 5 Z", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := segments(MustParse(tt.d))
			last := segs[len(segs)-1]
			if last.Kind != SegClose {
				t.Fatalf("last segment is %v", last.Kind)
			}
			if last.Degenerate != tt.degenerate {
				t.Errorf("Degenerate = %v, want %v", last.Degenerate, tt.degenerate)
			}
		})
	}
}

func TestArcSegment(t *testing.T) {
	segs := segments(MustParse("M0 0 A1 1 0 0 1 20 0"))
	arc := segs[1]
	if arc.Kind != SegArc || !arc.CenterOK {
		t.Fatalf("segment = %+v", arc)
	}
	// Radius 1 is too small for the chord; it scales to 10.
	if math.Abs(arc.Center.Rx-10) > 1e-9 {
		t.Errorf("scaled rx = %v, want 10", arc.Center.Rx)
	}
	if arc.Rx != 1 {
		t.Errorf("written rx = %v, want 1", arc.Rx)
	}

	segs = segments(MustParse("M0 0 A0 5 0 0 1 20 0"))
	if segs[1].CenterOK {
		t.Error("zero radius arc should have no center parameterization")
	}
}

func TestVertices(t *testing.T) {
	vs := Vertices(MustParse("M0 0 L10 0 L10 10"))
	if len(vs) != 3 {
		t.Fatalf("got %d vertices, want 3", len(vs))
	}
	want := []float64{0, math.Pi / 4, math.Pi / 2}
	for i, w := range want {
		if math.Abs(vs[i].Angle-w) > 1e-9 {
			t.Errorf("vertex %d angle = %v, want %v", i, vs[i].Angle, w)
		}
	}
	if !pointsEqual(vs[1].Point, geom.Pt(10, 0), 1e-12) {
		t.Errorf("mid vertex = %v", vs[1].Point)
	}
}

func TestVerticesClosed(t *testing.T) {
	vs := Vertices(MustParse("M0 0 L10 0 L10 10 L0 10 Z"))
	if len(vs) != 5 {
		t.Fatalf("got %d vertices, want 5", len(vs))
	}
	// The start vertex of a closed square bisects the closing edge (up)
	// and the first edge (right).
	if math.Abs(vs[0].Angle-(-math.Pi/4)) > 1e-9 {
		t.Errorf("start angle = %v, want -pi/4", vs[0].Angle)
	}
	if !pointsEqual(vs[4].Point, geom.Pt(0, 0), 1e-12) {
		t.Errorf("closing vertex = %v, want origin", vs[4].Point)
	}
}

func TestBounds(t *testing.T) {
	b := Bounds(MustParse("M0 0 C0 100 100 100 100 0"))
	if b.X1 != 0 || b.X2 != 100 || b.Y1 != 0 || math.Abs(b.Y2-75) > 1e-9 {
		t.Errorf("Bounds = %+v", b)
	}
}

func TestFlatten(t *testing.T) {
	lines := Flatten(MustParse("M0 0 L100 0 M0 10 Q50 60 100 10 Z"), 5)
	if len(lines) != 2 {
		t.Fatalf("got %d polylines, want 2", len(lines))
	}
	if got := lines[0].Length(); math.Abs(got-100) > 1e-9 {
		t.Errorf("first length = %v, want 100", got)
	}
	if !lines[1].Closed {
		t.Error("second polyline should be closed")
	}
	pts := lines[1].Points
	if !pointsEqual(pts[len(pts)-1], geom.Pt(0, 10), 1e-12) {
		t.Errorf("closed polyline ends at %v", pts[len(pts)-1])
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	paths := []string{
		"M10 10 L20 20 Z",
		"m10 10 l5 5 h10 v-3 z m1 1 l2 2",
		"M0 0 C10 0 20 10 30 10 S50 20 60 10 s10 10 20 0",
		"M0 0 Q10 10 20 0 T40 0 t20 0",
		"M0 0 A10 20 30 1 0 40 40 a5 5 0 0 1 10 0",
		"M0-1.5.5.5L-2-2",
		"M1e2 1E-1h1e1",
	}
	for _, d := range paths {
		t.Run(d, func(t *testing.T) {
			p := MustParse(d)
			enc := Encode(p)
			q, err := ParseStrict(enc)
			if err != nil {
				t.Fatalf("re-parse of %q failed: %v", enc, err)
			}
			a, b := segments(p), segments(q)
			if len(a) != len(b) {
				t.Fatalf("segment count %d != %d (%q)", len(a), len(b), enc)
			}
			for i := range a {
				if a[i].Kind != b[i].Kind {
					t.Errorf("seg %d kind %v != %v", i, a[i].Kind, b[i].Kind)
				}
				for _, pair := range [][2]geom.Point{{a[i].To, b[i].To}, {a[i].C1, b[i].C1}, {a[i].C2, b[i].C2}} {
					if !pointsEqual(pair[0], pair[1], 1e-9) {
						t.Errorf("seg %d point %v != %v", i, pair[0], pair[1])
					}
				}
			}
		})
	}
}
