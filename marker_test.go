package svg

import (
	"math"
	"testing"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/pathdata"
)

func TestMarkerPlacement(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<marker id="m" markerWidth="4" markerHeight="4" refX="2" refY="2" markerUnits="userSpaceOnUse">
			<rect width="4" height="4"/>
		</marker>
		<path d="M10 10 L50 10 L50 50" fill="none" stroke="black"
			marker-start="url(#m)" marker-mid="url(#m)" marker-end="url(#m)"/>
	</svg>`)
	boxes := fillBounds(record(t, doc, 100, 100))
	want := [][4]float64{
		{8, 8, 12, 12},
		{48, 8, 52, 12},
		{48, 48, 52, 52},
	}
	if len(boxes) != len(want) {
		t.Fatalf("marker fills = %d, want %d", len(boxes), len(want))
	}
	for i, w := range want {
		if !boxNear(boxes[i], w[0], w[1], w[2], w[3]) {
			t.Errorf("marker %d bounds = %+v, want %v", i, boxes[i], w)
		}
	}
}

func TestMarkerOrientAndScale(t *testing.T) {
	tests := []struct {
		name           string
		marker         string
		shape          string
		x1, y1, x2, y2 float64
	}{
		{
			name:   "orient auto follows the last segment",
			marker: `markerWidth="4" markerHeight="2" refY="1" orient="auto" markerUnits="userSpaceOnUse" overflow="visible"`,
			shape:  `<polyline points="10 50 50 50 50 90" fill="none" stroke="black" marker-end="url(#m)"/>`,
			x1:     49, y1: 90, x2: 51, y2: 94,
		},
		{
			name:   "stroke width scales the marker",
			marker: `markerWidth="4" markerHeight="2" refY="1"`,
			shape:  `<line x1="10" y1="10" x2="40" y2="10" fill="none" stroke="black" stroke-width="3" marker-start="url(#m)"/>`,
			x1:     10, y1: 7, x2: 22, y2: 13,
		},
		{
			name:   "marker shorthand",
			marker: `markerWidth="4" markerHeight="2" refY="1" markerUnits="userSpaceOnUse"`,
			shape:  `<line x1="10" y1="10" x2="40" y2="10" fill="none" stroke="black" style="marker: url(#m)"/>`,
			x1:     10, y1: 9, x2: 14, y2: 11,
		},
		{
			name:   "reference point shifts ahead of viewBox alignment",
			marker: `markerWidth="4" markerHeight="2" viewBox="0 0 4 4" refX="2" refY="2" markerUnits="userSpaceOnUse"`,
			shape:  `<line x1="10" y1="10" x2="40" y2="10" fill="none" stroke="black" marker-start="url(#m)"/>`,
			x1:     10, y1: 9, x2: 12, y2: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
				<marker id="m" `+tt.marker+`><rect width="4" height="2"/></marker>`+tt.shape+`</svg>`)
			boxes := fillBounds(record(t, doc, 100, 100))
			if len(boxes) == 0 {
				t.Fatal("no marker drawn")
			}
			if !boxNear(boxes[0], tt.x1, tt.y1, tt.x2, tt.y2) {
				t.Errorf("bounds = %+v, want (%v, %v)-(%v, %v)", boxes[0], tt.x1, tt.y1, tt.x2, tt.y2)
			}
		})
	}
}

func TestMarkerAngle(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<marker id="none"/>
		<marker id="auto" orient="auto"/>
		<marker id="reverse" orient="auto-start-reverse"/>
		<marker id="fixed" orient="45"/>
	</svg>`)
	v := pathdata.Vertex{Point: geom.Pt(0, 0), Angle: math.Pi / 2}
	tests := []struct {
		id      string
		isStart bool
		want    float64
	}{
		{"none", true, 0},
		{"auto", true, math.Pi / 2},
		{"reverse", true, 3 * math.Pi / 2},
		{"reverse", false, math.Pi / 2},
		{"fixed", false, math.Pi / 4},
	}
	for _, tt := range tests {
		if got := markerAngle(doc.Element(tt.id), v, tt.isStart); !near(got, tt.want, 1e-12) {
			t.Errorf("markerAngle(%s, start=%v) = %v, want %v", tt.id, tt.isStart, got, tt.want)
		}
	}
}
