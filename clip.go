package svg

import (
	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// applyClipPath intersects the clip region of sf with the clip-path of
// e. A missing reference leaves the element unclipped. It reports false
// when the element is clipped away entirely.
func (d *Document) applyClipPath(e *Element, sf surface.Surface) bool {
	cp := e.reference("clip-path", KindClipPath)
	if cp == nil {
		return true
	}
	if !d.guard(cp) {
		return true
	}
	defer d.unguard(cp)

	// A clip-path on the clipPath element intersects with its own region.
	if !d.applyClipPath(cp, sf) {
		return false
	}

	m0 := sf.Matrix()
	defer sf.SetTransform(m0)

	sf.BeginPath()
	if cp.Attr("clipPathUnits").Is("objectBoundingBox") {
		bb := e.BoundingBox()
		if bb.IsDegenerate() {
			sf.Clip(surface.FillRuleNonZero)
			return false
		}
		sf.Transform(geom.Translate(bb.X1, bb.Y1).Multiply(geom.Scale(bb.Width(), bb.Height())))
	}
	transformOf(cp.Style("transform")).Apply(sf)

	rule := surface.FillRuleNonZero
	first := true
	for _, c := range cp.children {
		geo := d.clipGeometry(c)
		if geo == nil {
			continue
		}
		if first {
			rule = geo.fillRule("clip-rule")
			first = false
		}
		d.emitClipChild(c, geo, sf)
	}
	sf.Clip(rule)
	return true
}

// clipGeometry returns the shape whose outline a clipPath child
// contributes: the child itself or, for use, its target. Hidden and
// unsupported children contribute nothing.
func (d *Document) clipGeometry(c *Element) *Element {
	if c.Style("display").Is("none") || !c.visible() {
		return nil
	}
	switch {
	case c.kind.IsShape():
		return c
	case c.kind == KindUse:
		t := c.Attr("href").Definition()
		if t != nil && t.kind.IsShape() {
			return t
		}
	case c.kind == KindText:
		Logger().Debug("svg: text in clipPath not supported", "element", c.String())
	}
	return nil
}

// emitClipChild adds the outline of a clipPath child to the current
// path, under the child's transform.
func (d *Document) emitClipChild(c, geo *Element, sf surface.Surface) {
	m := sf.Matrix()
	defer sf.SetTransform(m)

	transformOf(c.Style("transform")).Apply(sf)
	if c != geo {
		sf.Transform(geom.Translate(c.Attr("x").Pixels(units.X), c.Attr("y").Pixels(units.Y)))
		transformOf(geo.Style("transform")).Apply(sf)
	}
	behaviors[geo.kind].path(geo, sf)
}
