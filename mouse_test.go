package svg

import (
	"testing"
)

func TestMouseClickDispatch(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<g id="g">
			<rect id="a" width="10" height="10"/>
			<rect id="b" x="5" width="10" height="10"/>
		</g>
	</svg>`)

	var got []string
	for _, id := range []string{"a", "b", "g"} {
		el := doc.Element(id)
		el.OnClick(func(ev MouseEvent) {
			got = append(got, ev.Current.ID()+"<"+ev.Target.ID())
		})
	}

	tests := []struct {
		name string
		x, y float64
		want []string
	}{
		{"only a", 2, 2, []string{"a<a", "g<a"}},
		{"overlap picks topmost", 7, 2, []string{"b<b", "g<b"}},
		{"miss", 50, 50, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			doc.MouseClick(tt.x, tt.y)
			record(t, doc, 100, 100)
			if len(got) != len(tt.want) {
				t.Fatalf("handlers = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("handlers = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestMouseMoveCursor(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<g cursor="pointer"><rect id="a" width="10" height="10"/></g>
		<rect id="b" x="20" width="10" height="10" cursor="auto"/>
	</svg>`)

	var moves int
	doc.Element("a").OnMouseMove(func(ev MouseEvent) {
		if ev.Type != MouseMoveEvent {
			t.Errorf("event type = %v, want mousemove", ev.Type)
		}
		moves++
	})

	tests := []struct {
		x, y float64
		want string
	}{
		{5, 5, "pointer"},
		{25, 5, "default"},
		{90, 90, "default"},
	}
	for _, tt := range tests {
		doc.MouseMove(tt.x, tt.y)
		record(t, doc, 100, 100)
		if got := doc.Cursor(); got != tt.want {
			t.Errorf("Cursor() after move to (%v, %v) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
	if moves != 1 {
		t.Errorf("move handler calls = %d, want 1", moves)
	}
}

func TestMouseIgnored(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg"><rect id="a" width="10" height="10"/></svg>`)
	clicks := 0
	doc.Element("a").OnClick(func(MouseEvent) { clicks++ })

	doc.MouseClick(5, 5)
	record(t, doc, 100, 100, IgnoreMouse())
	if clicks != 0 {
		t.Errorf("clicks with IgnoreMouse = %d, want 0", clicks)
	}
	// The event stays queued for the next frame that handles the mouse.
	record(t, doc, 100, 100)
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestMouseTransformedHit(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<rect id="a" width="10" height="10" transform="translate(40 40) scale(2)"/>
	</svg>`)
	hit := false
	doc.Element("a").OnClick(func(MouseEvent) { hit = true })

	doc.MouseClick(5, 5)
	record(t, doc, 100, 100)
	if hit {
		t.Error("click at untransformed position hit the rect")
	}
	doc.MouseClick(55, 55)
	record(t, doc, 100, 100)
	if !hit {
		t.Error("click inside the transformed rect missed")
	}
}
