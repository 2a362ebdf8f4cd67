package svg

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/gogpu/svg/cascade"
	"github.com/gogpu/svg/units"
)

// inherited lists the properties that inherit from the parent when an
// element does not declare them.
var inherited = map[string]bool{
	"clip-rule":           true,
	"color":               true,
	"cursor":              true,
	"direction":           true,
	"dominant-baseline":   true,
	"fill":                true,
	"fill-opacity":        true,
	"fill-rule":           true,
	"font":                true,
	"font-family":         true,
	"font-size":           true,
	"font-style":          true,
	"font-variant":        true,
	"font-weight":         true,
	"letter-spacing":      true,
	"marker":              true,
	"marker-start":        true,
	"marker-mid":          true,
	"marker-end":          true,
	"paint-order":         true,
	"stroke":              true,
	"stroke-dasharray":    true,
	"stroke-dashoffset":   true,
	"stroke-linecap":      true,
	"stroke-linejoin":     true,
	"stroke-miterlimit":   true,
	"stroke-opacity":      true,
	"stroke-width":        true,
	"text-anchor":         true,
	"visibility":          true,
	"word-spacing":        true,
	"writing-mode":        true,
	"xml:space":           true,
	"color-interpolation": true,
}

// Style returns the computed value of a property.
//
// The element's own declarations are consulted first: inline style and
// matched style-sheet rules, already ordered by specificity, then the
// XML attribute of the same name. When none is set, or the value is
// inherit, inheritable properties continue with the parent. A property
// without any value is returned empty.
func (e *Element) Style(name string) *Property {
	inherits := inherited[name]
	for el := e; el != nil; el = el.effectiveParent() {
		p := el.ownStyle(name)
		if p != nil && !p.Is("inherit") {
			return p
		}
		if p == nil && !inherits {
			break
		}
	}
	return newProperty(e.doc, name, "")
}

// ownStyle returns the value the element itself declares.
func (e *Element) ownStyle(name string) *Property {
	if p, ok := e.styles[name]; ok && p.HasValue() {
		return p
	}
	if p, ok := e.attrs[name]; ok && p.HasValue() {
		return p
	}
	return nil
}

// color resolves a color-valued property, including currentColor.
func (e *Element) color(p *Property) (units.Color, bool) {
	if strings.EqualFold(strings.TrimSpace(p.String()), "currentcolor") {
		return e.Style("color").Color()
	}
	return p.Color()
}

// opacity returns a [0, 1] opacity property, 1 when unset.
func (e *Element) opacity(name string) float64 {
	p := e.Style(name)
	if !p.HasValue() {
		return 1
	}
	v := p.NumberOr(1)
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// applyStyles runs the cascade over the whole tree: style-sheet rules are
// matched against the mirror tree and recorded with their specificity,
// then style attributes are applied with inline specificity.
func (d *Document) applyStyles() {
	if d.sheet != nil && len(d.sheet.Rules) > 0 {
		err := d.sheet.Match(d.mirror, func(n *html.Node, r *cascade.Rule) {
			el := d.byMirror[n]
			if el == nil {
				return
			}
			for _, decl := range r.Declarations {
				el.setStyle(decl.Property, cascade.Value{
					Value:       decl.Value,
					Specificity: r.Specificity,
					Important:   decl.Important,
					Order:       r.Order,
				})
			}
		})
		if err != nil {
			Logger().Warn("svg: style sheet selectors skipped", "err", err)
		}
	}
	for _, el := range d.elements {
		if !el.HasAttr("style") {
			continue
		}
		decls, err := cascade.ParseDeclarations(el.Attr("style").String())
		if err != nil {
			Logger().Warn("svg: invalid style attribute", "element", el.String(), "err", err)
			continue
		}
		for _, decl := range decls {
			el.setStyle(decl.Property, cascade.Value{
				Value:       decl.Value,
				Specificity: cascade.Inline,
				Important:   decl.Important,
			})
		}
	}
}

// unitContext returns what relative lengths currently resolve against.
func (d *Document) unitContext() units.Context {
	vp := d.viewports.current()
	return units.Context{
		ViewportWidth:  vp.width,
		ViewportHeight: vp.height,
		FontSize:       d.ems.current(),
		RootFontSize:   d.ems.root(),
	}
}

// emStack tracks the font size in effect while painting nested elements.
type emStack struct {
	sizes []float64
	base  float64
}

func (s *emStack) push(px float64) { s.sizes = append(s.sizes, px) }

func (s *emStack) pop() {
	if len(s.sizes) > 0 {
		s.sizes = s.sizes[:len(s.sizes)-1]
	}
}

func (s *emStack) current() float64 {
	if len(s.sizes) == 0 {
		return s.base
	}
	return s.sizes[len(s.sizes)-1]
}

func (s *emStack) root() float64 {
	if len(s.sizes) == 0 {
		return s.base
	}
	return s.sizes[0]
}

func (s *emStack) reset() { s.sizes = s.sizes[:0] }

// pushFontSize enters the element's em scope when it declares a
// font-size. It reports whether a size was pushed, so the caller pops it
// when the element's paint scope ends.
func (d *Document) pushFontSize(e *Element) bool {
	p := e.ownStyle("font-size")
	if p == nil || p.Is("inherit") {
		return false
	}
	px := fontSizePixels(p, d.ems.current())
	if px <= 0 {
		return false
	}
	d.ems.push(px)
	return true
}

// enterFontScope pushes the font sizes declared by e and its ancestors
// when no paint is in progress, so measuring outside a render resolves
// ems as painting would. The returned func restores the stack.
func (d *Document) enterFontScope(e *Element) func() {
	if len(d.ems.sizes) > 0 {
		return func() {}
	}
	var chain []*Element
	for el := e; el != nil; el = el.parent {
		chain = append(chain, el)
	}
	n := 0
	for i := len(chain) - 1; i >= 0; i-- {
		if d.pushFontSize(chain[i]) {
			n++
		}
	}
	return func() {
		for range n {
			d.ems.pop()
		}
	}
}

// fontSizePixels resolves a font-size value against the parent size.
func fontSizePixels(p *Property, parent float64) float64 {
	switch strings.ToLower(strings.TrimSpace(p.String())) {
	case "xx-small":
		return 9
	case "x-small":
		return 10
	case "small":
		return 13
	case "medium":
		return 16
	case "large":
		return 18
	case "x-large":
		return 24
	case "xx-large":
		return 32
	case "smaller":
		return parent / 1.2
	case "larger":
		return parent * 1.2
	}
	l, ok := p.Length()
	if !ok {
		return 0
	}
	if l.Unit == units.Percent {
		return l.Value / 100 * parent
	}
	ctx := p.doc.unitContext()
	ctx.FontSize = parent
	return l.Pixels(ctx, units.FontSize)
}
