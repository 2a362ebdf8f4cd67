package svg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"empty", ``, ErrNoRoot},
		{"wrong root", `<g/>`, ErrNoRoot},
		{"unterminated", `<svg><rect/>`, nil},
		{"bad markup", `<svg><rect x="1></svg>`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src, WithoutExternalAssets())
			if err == nil {
				t.Fatal("ParseString() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseString() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTree(t *testing.T) {
	doc := mustParse(t, `<?xml version="1.0"?>
<!DOCTYPE svg>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
	<!-- comment -->
	<defs><circle id="c" r="2"/></defs>
	<use id="u" xlink:href="#c"/>
	<text id="t">a &amp; b &nbsp;</text>
	<foo:bar xmlns:foo="urn:x"/>
	<unknown/>
</svg>`)

	root := doc.Root()
	if root.Kind() != KindSVG {
		t.Fatalf("root kind = %v, want svg", root.Kind())
	}
	if c := doc.Element("c"); c == nil || c.Kind() != KindCircle || c.Parent().Kind() != KindDefs {
		t.Errorf("circle c not parsed under defs")
	}
	if got := doc.Element("u").Attr("href").String(); got != "#c" {
		t.Errorf("use href = %q, want #c", got)
	}
	if ref := doc.Element("u").Attr("href").Definition(); ref != doc.Element("c") {
		t.Errorf("href Definition() = %v, want circle c", ref)
	}

	txt := doc.Element("t")
	if len(txt.Children()) != 1 || txt.Children()[0].Kind() != KindTextNode {
		t.Fatalf("text children = %v, want one text node", txt.Children())
	}
	if got := txt.Children()[0].Text(); got != "a & b \u00a0" {
		t.Errorf("text = %q", got)
	}

	var unknown int
	root.Walk(func(e *Element) bool {
		if e.Kind() == KindUnknown {
			unknown++
		}
		return true
	})
	if unknown != 2 {
		t.Errorf("unknown elements = %d, want 2", unknown)
	}
}

func TestParseHrefPrecedence(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
		<rect id="a"/><rect id="b"/>
		<use id="u" xlink:href="#a" href="#b"/>
	</svg>`)
	if got := doc.Element("u").Attr("href").String(); got != "#b" {
		t.Errorf("href = %q, want #b", got)
	}
}

func TestParseDuplicateIDs(t *testing.T) {
	doc := mustParse(t, `<svg><rect id="x" width="1"/><rect id="x" width="2"/></svg>`)
	if got := doc.Element("x").Attr("width").String(); got != "1" {
		t.Errorf("Element(x) width = %q, want the first element", got)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.svg")
	if err := os.WriteFile(path, []byte(`<svg width="12" height="34"/>`), 0o600); err != nil {
		t.Fatal(err)
	}
	doc, err := ParseFile(path, WithoutExternalAssets())
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if w, h := doc.Size(); w != 12 || h != 34 {
		t.Errorf("Size() = (%v, %v), want (12, 34)", w, h)
	}
	if doc.base == nil || doc.base.Scheme != "file" {
		t.Errorf("base = %v, want a file URL", doc.base)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.svg")); err == nil {
		t.Error("ParseFile(missing) error = nil")
	}
}

func TestParsePathModes(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg"><path id="p" d="M0 0 L10 10 L"/></svg>`

	lenient := mustParse(t, src).Element("p").BoundingBox()
	if lenient.IsEmpty() || !near(lenient.X2, 10, 1e-9) {
		t.Errorf("lenient bbox = %+v, want the valid prefix", lenient)
	}
	strict := mustParse(t, src, WithStrictPaths()).Element("p").BoundingBox()
	if !strict.IsEmpty() {
		t.Errorf("strict bbox = %+v, want empty", strict)
	}
}
