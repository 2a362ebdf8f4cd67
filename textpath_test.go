package svg

import (
	"math"
	"testing"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/pathdata"
)

func TestEquidistant(t *testing.T) {
	q := newEquidistant([]pathdata.Polyline{
		{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 5)}},
	}, 1)
	if q.length != 15 {
		t.Fatalf("length = %v, want 15", q.length)
	}
	tests := []struct {
		s      float64
		want   geom.Point
		onPath bool
	}{
		{0, geom.Pt(0, 0), true},
		{2.5, geom.Pt(2.5, 0), true},
		{12, geom.Pt(10, 2), true},
		{15, geom.Pt(10, 5), true},
		{-1, geom.Point{}, false},
		{16, geom.Point{}, false},
	}
	for _, tt := range tests {
		got, ok := q.at(tt.s)
		if ok != tt.onPath {
			t.Errorf("at(%v) ok = %v, want %v", tt.s, ok, tt.onPath)
			continue
		}
		if ok && (!near(got.X, tt.want.X, 1e-9) || !near(got.Y, tt.want.Y, 1e-9)) {
			t.Errorf("at(%v) = %v, want %v", tt.s, got, tt.want)
		}
	}
	if got := q.clampedAt(100); got != geom.Pt(10, 5) {
		t.Errorf("clampedAt(100) = %v, want end point", got)
	}
}

func textPathGlyphs(t *testing.T, d, text, attrs string) []pathGlyph {
	t.Helper()
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<path id="p" d="`+d+`"/>
		<text id="t" font-size="10"><textPath href="#p" `+attrs+`>`+text+`</textPath></text>
	</svg>`)
	l := doc.layoutText(doc.Element("t"), nil)
	if len(l.paths) != 1 {
		t.Fatalf("text paths = %d, want 1", len(l.paths))
	}
	return l.paths[0].glyphs
}

func TestTextPathPlacement(t *testing.T) {
	gs := textPathGlyphs(t, "M10 50 H500", "abc", "")
	if len(gs) != 3 {
		t.Fatalf("glyphs = %d, want 3", len(gs))
	}
	if !near(gs[0].pos.X, 10, 1e-6) || !near(gs[0].pos.Y, 50, 1e-6) || gs[0].angle != 0 {
		t.Errorf("first glyph at %v angle %v, want (10, 50) angle 0", gs[0].pos, gs[0].angle)
	}
	for i := 1; i < len(gs); i++ {
		if want := gs[i-1].pos.X + gs[i-1].width; !near(gs[i].pos.X, want, 1e-6) {
			t.Errorf("glyph %d at x %v, want %v", i, gs[i].pos.X, want)
		}
	}

	vertical := textPathGlyphs(t, "M10 10 V500", "ab", "")
	if len(vertical) != 2 || !near(vertical[0].angle, math.Pi/2, 1e-9) {
		t.Errorf("vertical glyph angle = %v, want pi/2", vertical[0].angle)
	}
}

func TestTextPathOffsets(t *testing.T) {
	full := textPathGlyphs(t, "M0 0 H400", "abcd", "")
	var total float64
	for _, g := range full {
		total += g.width
	}

	tests := []struct {
		name   string
		attrs  string
		firstX float64
	}{
		{"start offset", `startOffset="100"`, 100},
		{"percent offset", `startOffset="50%"`, 200},
		{"middle anchor", `startOffset="200" text-anchor="middle"`, 200 - total/2},
		{"end anchor", `startOffset="400" text-anchor="end"`, 400 - total},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := textPathGlyphs(t, "M0 0 H400", "abcd", tt.attrs)
			if len(gs) != 4 {
				t.Fatalf("glyphs = %d, want 4", len(gs))
			}
			// Anchors use the advance of the whole string, which may
			// differ from the per-glyph sum by kerning.
			if !near(gs[0].pos.X, tt.firstX, 0.5) {
				t.Errorf("first glyph x = %v, want %v", gs[0].pos.X, tt.firstX)
			}
		})
	}
}

func TestTextPathHidesOverflow(t *testing.T) {
	gs := textPathGlyphs(t, "M0 0 H20", "abcdefghij", "")
	if len(gs) == 0 || len(gs) >= 10 {
		t.Fatalf("glyphs = %d, want some but not all of 10", len(gs))
	}
	last := gs[len(gs)-1]
	if last.pos.X+last.width/2 > 20 {
		t.Errorf("glyph centered at %v is past the path end", last.pos.X+last.width/2)
	}

	before := textPathGlyphs(t, "M0 0 H200", "abc", `startOffset="-1000"`)
	if len(before) != 0 {
		t.Errorf("glyphs before the path start = %d, want 0", len(before))
	}
}

func TestTextPathMissingPath(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<rect id="r" width="10" height="10"/>
		<text id="t"><textPath href="#r">abc</textPath></text>
	</svg>`)
	if l := doc.layoutText(doc.Element("t"), nil); len(l.paths) != 0 {
		t.Errorf("text paths = %d, want 0 for a non-path reference", len(l.paths))
	}
}
