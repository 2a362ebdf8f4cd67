package svg

import (
	"testing"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/recording"
	"github.com/gogpu/svg/surface"
)

// fillBounds returns the device-space bounds of every fill in order.
func fillBounds(r *recording.Recording) []geom.BoundingBox {
	var out []geom.BoundingBox
	for _, f := range fills(r) {
		out = append(out, r.Resources().GetPath(f.Path).Bounds())
	}
	return out
}

func boxNear(bb geom.BoundingBox, x1, y1, x2, y2 float64) bool {
	const eps = 1e-6
	return near(bb.X1, x1, eps) && near(bb.Y1, y1, eps) && near(bb.X2, x2, eps) && near(bb.Y2, y2, eps)
}

func TestUse(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		x1, y1, x2, y2 float64
	}{
		{
			name: "offset",
			body: `<defs><rect id="r" width="10" height="10"/></defs><use href="#r" x="20" y="30"/>`,
			x1:   20, y1: 30, x2: 30, y2: 40,
		},
		{
			name: "target transform",
			body: `<defs><rect id="r" width="10" height="10" transform="scale(2)"/></defs><use href="#r" transform="translate(5 5)"/>`,
			x1:   5, y1: 5, x2: 25, y2: 25,
		},
		{
			name: "symbol viewBox",
			body: `<defs><symbol id="s" viewBox="0 0 10 10"><rect width="10" height="10"/></symbol></defs><use href="#s" width="50" height="50"/>`,
			x1:   0, y1: 0, x2: 50, y2: 50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">`+tt.body+`</svg>`)
			boxes := fillBounds(record(t, doc, 100, 100))
			if len(boxes) != 1 {
				t.Fatalf("fills = %d, want 1", len(boxes))
			}
			if !boxNear(boxes[0], tt.x1, tt.y1, tt.x2, tt.y2) {
				t.Errorf("bounds = %+v, want (%v, %v)-(%v, %v)", boxes[0], tt.x1, tt.y1, tt.x2, tt.y2)
			}
		})
	}
}

func TestUseInheritsFromUseElement(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<g fill="blue"><rect id="r" width="10" height="10"/></g>
		<use href="#r" fill="red"/>
	</svg>`)
	paints := fillPaints(record(t, doc, 100, 100))
	if len(paints) != 2 {
		t.Fatalf("fills = %d, want 2", len(paints))
	}
	want := []string{"#0000ff", "#ff0000"}
	for i, p := range paints {
		if got := p.(surface.SolidPaint).Color.Hex(); got != want[i] {
			t.Errorf("fill %d = %s, want %s", i, got, want[i])
		}
	}
	// The scope override ends with the use element.
	if got := doc.Element("r").Style("fill").String(); got != "blue" {
		t.Errorf("fill after render = %q, want blue", got)
	}
}

func TestUseCycle(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<g id="a"><rect width="1" height="1"/><use href="#a"/></g>
		<use id="self" href="#self"/>
	</svg>`)
	// Only the group's own rect: the use inside it references an ancestor.
	if n := len(fills(record(t, doc, 10, 10))); n != 1 {
		t.Errorf("fills = %d, want 1", n)
	}
	if bb := doc.Element("self").BoundingBox(); !bb.IsEmpty() {
		t.Errorf("self-referencing use bbox = %+v, want empty", bb)
	}
}

func TestUseBoundingBox(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<defs><circle id="c" cx="5" cy="5" r="5"/></defs>
		<use id="u" href="#c" x="10"/>
	</svg>`)
	if bb := doc.Element("u").BoundingBox(); !boxNear(bb, 10, 0, 20, 10) {
		t.Errorf("bbox = %+v, want (10, 0)-(20, 10)", bb)
	}
}

func TestSwitch(t *testing.T) {
	body := `<switch>
		<rect requiredExtensions="http://example.com/ext" width="1" height="1" fill="black"/>
		<rect systemLanguage="fr, de" width="1" height="1" fill="blue"/>
		<rect systemLanguage="en" width="1" height="1" fill="red"/>
		<rect width="1" height="1" fill="lime"/>
	</switch>`
	tests := []struct {
		langs []string
		want  string
	}{
		{nil, "#ff0000"},
		{[]string{"fr-CA"}, "#0000ff"},
		{[]string{"ja"}, "#00ff00"},
		{[]string{"en-GB"}, "#ff0000"},
	}
	for _, tt := range tests {
		var opts []ParseOption
		if tt.langs != nil {
			opts = append(opts, WithLanguages(tt.langs...))
		}
		doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">`+body+`</svg>`, opts...)
		paints := fillPaints(record(t, doc, 10, 10))
		if len(paints) != 1 {
			t.Fatalf("langs %v: fills = %d, want 1", tt.langs, len(paints))
		}
		if got := paints[0].(surface.SolidPaint).Color.Hex(); got != tt.want {
			t.Errorf("langs %v: fill = %s, want %s", tt.langs, got, tt.want)
		}
	}
}
