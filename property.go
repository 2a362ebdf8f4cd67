package svg

import (
	"strings"

	"github.com/gogpu/svg/cascade"
	"github.com/gogpu/svg/pathdata"
	"github.com/gogpu/svg/units"
)

// Property is a named value cell: an attribute or a declared style.
// Animations mutate the cell in place, so every reader of the property
// sees the current frame's value.
type Property struct {
	name   string
	value  string
	doc    *Document
	origin cascade.Value

	parsedFor string
	parsedOK  bool
	parsed    any
}

func newProperty(doc *Document, name, value string) *Property {
	return &Property{name: name, value: value, doc: doc}
}

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// String returns the raw value.
func (p *Property) String() string { return p.value }

// HasValue reports whether the property is set to a non-empty value.
func (p *Property) HasValue() bool { return strings.TrimSpace(p.value) != "" }

// Is reports whether the trimmed value equals s.
func (p *Property) Is(s string) bool { return strings.TrimSpace(p.value) == s }

// Set replaces the value.
func (p *Property) Set(v string) { p.value = v }

// Specificity returns the specificity the value was declared with. It is
// the zero value for attributes.
func (p *Property) Specificity() cascade.Specificity { return p.origin.Specificity }

// Number returns the value as a number. Percentages become fractions, so
// "50%" is 0.5. Unparsable values are 0.
func (p *Property) Number() float64 {
	return p.NumberOr(0)
}

// NumberOr is Number with a default for unset or unparsable values.
func (p *Property) NumberOr(def float64) float64 {
	l, ok := p.Length()
	if !ok {
		return def
	}
	if l.Unit == units.Percent {
		return l.Value / 100
	}
	return l.Value
}

// Length parses the value as a length.
func (p *Property) Length() (units.Length, bool) {
	if !p.HasValue() {
		return units.Length{}, false
	}
	l, err := units.ParseLength(p.value)
	if err != nil {
		return units.Length{}, false
	}
	return l, true
}

// Units returns the unit of a length value.
func (p *Property) Units() units.Unit {
	l, _ := p.Length()
	return l.Unit
}

// Pixels converts a length to pixels against the document's current
// viewport and em size. Unset or invalid values are 0.
func (p *Property) Pixels(axis units.Axis) float64 {
	return p.PixelsOr(axis, 0)
}

// PixelsOr is Pixels with a default for unset or invalid values.
func (p *Property) PixelsOr(axis units.Axis, def float64) float64 {
	l, ok := p.Length()
	if !ok {
		return def
	}
	return l.Pixels(p.doc.unitContext(), axis)
}

// PixelsPercent converts a length to pixels, resolving percentages
// against ref instead of the viewport.
func (p *Property) PixelsPercent(axis units.Axis, ref float64) float64 {
	l, ok := p.Length()
	if !ok {
		return 0
	}
	if l.Unit == units.Percent {
		return l.Value / 100 * ref
	}
	return l.Pixels(p.doc.unitContext(), axis)
}

// Color parses the value as a color. currentColor is not resolved here;
// see Element.color.
func (p *Property) Color() (units.Color, bool) {
	return units.ParseColor(p.value)
}

// ColorWithOpacity parses the value as a color and multiplies its alpha
// by opacity.
func (p *Property) ColorWithOpacity(opacity float64) (units.Color, bool) {
	c, ok := p.Color()
	if !ok {
		return c, false
	}
	return c.WithAlpha(opacity), true
}

// Angle returns the value in radians. A bare number is in degrees.
func (p *Property) Angle() float64 {
	a, err := units.ParseAngle(p.value)
	if err != nil {
		return 0
	}
	return a
}

// Milliseconds returns a time value in milliseconds.
func (p *Property) Milliseconds() float64 {
	ms, err := units.ParseDuration(p.value)
	if err != nil {
		return 0
	}
	return ms
}

// Split returns the whitespace or comma separated items of the value.
func (p *Property) Split() []string {
	return strings.FieldsFunc(p.value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// Numbers parses the value as a number list. Parsing stops at the first
// malformed number.
func (p *Property) Numbers() []float64 {
	return parsedAs(p, func(s string) []float64 {
		n, _ := pathdata.ParseNumbers(s)
		return n
	})
}

// IsURL reports whether the value references another element, either as
// url(#id) or as a bare #id.
func (p *Property) IsURL() bool {
	return p.reference() != ""
}

// Definition returns the element referenced by url(#id) or #id, or nil
// when there is none. References into other documents are not resolved.
func (p *Property) Definition() *Element {
	id := p.reference()
	if id == "" {
		return nil
	}
	return p.doc.Element(id)
}

func (p *Property) reference() string {
	v := strings.TrimSpace(p.value)
	if u := cascade.ParseURLs(v); len(u) > 0 {
		v = u[0]
	} else if strings.HasPrefix(v, "url(") {
		return ""
	}
	if id, ok := strings.CutPrefix(v, "#"); ok {
		return strings.TrimSpace(id)
	}
	return ""
}

// parsedAs caches the result of build for the current value of p.
func parsedAs[T any](p *Property, build func(string) T) T {
	if p.parsedOK && p.parsedFor == p.value {
		if v, ok := p.parsed.(T); ok {
			return v
		}
	}
	v := build(p.value)
	p.parsed, p.parsedFor, p.parsedOK = v, p.value, true
	return v
}
