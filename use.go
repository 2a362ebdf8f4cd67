package svg

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// maxUseDepth bounds nested use resolution while measuring.
const maxUseDepth = 64

// useTarget returns the element a use references.
func (e *Element) useTarget() *Element {
	href := e.Attr("href")
	if !href.HasValue() {
		return nil
	}
	t := href.Definition()
	if t == nil {
		Logger().Warn("svg: unresolved use", "element", e.String(), "href", href.String())
	}
	return t
}

// paintUse renders the target of a use element with the use element as
// its inheritance parent.
func paintUse(e *Element, sf surface.Surface) {
	d := e.doc
	t := e.useTarget()
	if t == nil || !d.guard(e) {
		return
	}
	defer d.unguard(e)

	sf.Transform(geom.Translate(e.Attr("x").Pixels(units.X), e.Attr("y").Pixels(units.Y)))
	d.withScope(t, e, func() {
		switch t.kind {
		case KindSymbol:
			d.withUseSize(t, e, func() { d.renderSymbol(t, sf) })
		case KindSVG:
			d.withUseSize(t, e, func() { d.renderWith(t, sf, 0) })
		default:
			d.renderWith(t, sf, 0)
		}
	})
}

// withUseSize lets the width and height of use override those of the
// referenced svg or symbol while fn runs.
func (d *Document) withUseSize(t, use *Element, fn func()) {
	var sz viewport
	if p := use.Attr("width"); p.HasValue() {
		sz.width = p.Pixels(units.X)
	}
	if p := use.Attr("height"); p.HasValue() {
		sz.height = p.Pixels(units.Y)
	}
	prev, had := d.useSize[t]
	d.useSize[t] = sz
	defer func() {
		if had {
			d.useSize[t] = prev
		} else {
			delete(d.useSize, t)
		}
	}()
	fn()
}

// renderSymbol runs the render contract for a symbol instantiated by
// use. Symbols are skipped when met in the tree.
func (d *Document) renderSymbol(sym *Element, sf surface.Surface) {
	if sym.Style("display").Is("none") {
		return
	}
	sf.Save()
	defer sf.Restore()
	if d.pushFontSize(sym) {
		defer d.ems.pop()
	}
	transformOf(sym.Style("transform")).Apply(sf)
	d.renderEffects(sym, sf, 0)
}

func setSymbolContext(e *Element, sf surface.Surface) bool {
	d := e.doc
	vp := d.viewports.current()
	f := frame{
		x:      e.Attr("x").Pixels(units.X),
		y:      e.Attr("y").Pixels(units.Y),
		width:  e.Attr("width").PixelsOr(units.X, vp.width),
		height: e.Attr("height").PixelsOr(units.Y, vp.height),
		par:    ParsePreserveAspectRatio(e.Attr("preserveAspectRatio").String()),
		clip:   clipsOverflow(e),
	}
	if sz, ok := d.useSize[e]; ok {
		if sz.width > 0 {
			f.width = sz.width
		}
		if sz.height > 0 {
			f.height = sz.height
		}
	}
	f.viewBox, f.hasViewBox = parseViewBox(e.Attr("viewBox"))
	return d.enterFrame(sf, f)
}

func useBoundingBox(e *Element) geom.BoundingBox {
	d := e.doc
	t := e.useTarget()
	if t == nil || d.measureDepth >= maxUseDepth {
		return geom.NewBoundingBox()
	}
	d.measureDepth++
	defer func() { d.measureDepth-- }()

	bb := geom.NewBoundingBox()
	d.withScope(t, e, func() {
		if t.kind == KindSymbol {
			bb = childrenBoundingBox(t)
		} else {
			bb = t.BoundingBox()
			if tr := transformOf(t.Style("transform")); len(tr) > 0 {
				bb = bb.Transform(tr.Matrix())
			}
		}
	})
	return bb.Transform(geom.Translate(e.Attr("x").Pixels(units.X), e.Attr("y").Pixels(units.Y)))
}

// switchChild returns the first child of a switch whose conditional
// processing attributes pass.
func switchChild(e *Element) *Element {
	for _, c := range e.children {
		if c.kind == KindTextNode || c.kind == KindUnknown {
			continue
		}
		if c.passesConditions() {
			return c
		}
	}
	return nil
}

// passesConditions evaluates requiredExtensions and systemLanguage.
// No extensions are supported.
func (e *Element) passesConditions() bool {
	if _, ok := e.attrs["requiredExtensions"]; ok {
		return false
	}
	p, ok := e.attrs["systemLanguage"]
	if !ok {
		return true
	}
	for _, s := range strings.Split(p.String(), ",") {
		tag, err := language.Parse(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		for _, pref := range e.doc.opts.languages {
			if sameLanguage(tag, pref) {
				return true
			}
		}
	}
	return false
}

// sameLanguage reports whether tag names pref or a more specific variant
// of its language.
func sameLanguage(tag, pref language.Tag) bool {
	if tag == pref {
		return true
	}
	tb, _ := tag.Base()
	pb, _ := pref.Base()
	return tb == pb
}

func paintSwitch(e *Element, sf surface.Surface) {
	if c := switchChild(e); c != nil {
		e.doc.renderWith(c, sf, 0)
	}
}

func switchBoundingBox(e *Element) geom.BoundingBox {
	c := switchChild(e)
	if c == nil {
		return geom.NewBoundingBox()
	}
	bb := c.BoundingBox()
	if t := transformOf(c.Style("transform")); len(t) > 0 {
		bb = bb.Transform(t.Matrix())
	}
	return bb
}
