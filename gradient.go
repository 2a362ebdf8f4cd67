package svg

import (
	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// hrefDepth bounds href chains of gradients and patterns.
const hrefDepth = 32

func registerPaintServers() {
	behaviors[KindLinearGradient] = behavior{render: renderNothing, paintServer: linearGradientPaint}
	behaviors[KindRadialGradient] = behavior{render: renderNothing, paintServer: radialGradientPaint}
	behaviors[KindPattern] = behavior{render: renderNothing, paintServer: patternPaint}
}

// sharedGradientAttrs are inherited through href between gradients of
// different kinds.
var sharedGradientAttrs = map[string]bool{
	"gradientUnits":     true,
	"gradientTransform": true,
	"spreadMethod":      true,
}

// hrefChain returns e followed by the elements its href chain
// references, stopping at cycles.
func hrefChain(e *Element) []*Element {
	chain := []*Element{e}
	for len(chain) < hrefDepth {
		next := chain[len(chain)-1].Attr("href").Definition()
		if next == nil {
			break
		}
		for _, c := range chain {
			if c == next {
				return chain
			}
		}
		chain = append(chain, next)
	}
	return chain
}

// gradientAttr returns the attribute from the first gradient in the
// href chain that sets it.
func gradientAttr(chain []*Element, name string) *Property {
	g := chain[0]
	for _, el := range chain {
		if el.kind != g.kind && !(sharedGradientAttrs[name] && isGradient(el.kind)) {
			continue
		}
		if el.HasAttr(name) {
			return el.Attr(name)
		}
	}
	return g.Attr(name)
}

func isGradient(k Kind) bool { return k == KindLinearGradient || k == KindRadialGradient }

// gradientStops collects the stops of the first gradient in the chain
// that has any.
func gradientStops(chain []*Element, opacity float64) []surface.Stop {
	for _, el := range chain {
		if !isGradient(el.kind) {
			continue
		}
		var stops []surface.Stop
		for _, c := range el.children {
			if c.kind != KindStop {
				continue
			}
			col, ok := c.color(c.Style("stop-color"))
			if !ok {
				col = units.Black
			}
			stops = append(stops, surface.Stop{
				Offset: c.Attr("offset").NumberOr(0),
				Color:  col.WithAlpha(c.opacity("stop-opacity") * opacity),
			})
		}
		if len(stops) > 0 {
			return stops
		}
	}
	return nil
}

func spreadOf(p *Property) surface.Spread {
	switch {
	case p.Is("reflect"):
		return surface.SpreadReflect
	case p.Is("repeat"):
		return surface.SpreadRepeat
	}
	return surface.SpreadPad
}

// gradientSpace resolves gradientUnits for target. For objectBoundingBox
// it returns the matrix mapping the unit square onto the target's
// bounding box; ok is false when that box has no area.
func gradientSpace(units string, target *Element) (m geom.Matrix, bbox bool, ok bool) {
	if units == "userSpaceOnUse" {
		return geom.Identity(), false, true
	}
	bb := target.BoundingBox()
	if bb.IsEmpty() || bb.Width() <= 0 || bb.Height() <= 0 {
		return geom.Identity(), true, false
	}
	return geom.Translate(bb.X1, bb.Y1).Multiply(geom.Scale(bb.Width(), bb.Height())), true, true
}

// coord resolves a gradient coordinate. In bounding-box units the value
// is a fraction; otherwise a length with percentages of the viewport.
func coord(p *Property, bbox bool, axis units.Axis, defPercent float64) float64 {
	if bbox {
		return p.NumberOr(defPercent / 100)
	}
	if !p.HasValue() {
		l := units.Length{Value: defPercent, Unit: units.Percent}
		return l.Pixels(p.doc.unitContext(), axis)
	}
	return p.Pixels(axis)
}

func linearGradientPaint(g, target *Element, _ surface.Surface, opacity float64) surface.Paint {
	chain := hrefChain(g)
	stops := gradientStops(chain, opacity)
	if p, done := trivialGradient(stops); done {
		return p
	}
	space, bbox, ok := gradientSpace(gradientAttr(chain, "gradientUnits").String(), target)
	if !ok {
		return surface.Solid(stops[len(stops)-1].Color)
	}
	attr := func(name string) *Property { return gradientAttr(chain, name) }
	lg := surface.NewLinearGradient(
		coord(attr("x1"), bbox, units.X, 0),
		coord(attr("y1"), bbox, units.Y, 0),
		coord(attr("x2"), bbox, units.X, 100),
		coord(attr("y2"), bbox, units.Y, 0),
		stops, spreadOf(attr("spreadMethod")),
	)
	lg.Transform = space.Multiply(transformOf(attr("gradientTransform")).Matrix())
	return lg
}

func radialGradientPaint(g, target *Element, _ surface.Surface, opacity float64) surface.Paint {
	chain := hrefChain(g)
	stops := gradientStops(chain, opacity)
	if p, done := trivialGradient(stops); done {
		return p
	}
	space, bbox, ok := gradientSpace(gradientAttr(chain, "gradientUnits").String(), target)
	if !ok {
		return surface.Solid(stops[len(stops)-1].Color)
	}
	attr := func(name string) *Property { return gradientAttr(chain, name) }
	cx := coord(attr("cx"), bbox, units.X, 50)
	cy := coord(attr("cy"), bbox, units.Y, 50)
	r := coord(attr("r"), bbox, units.Diagonal, 50)
	fx, fy := cx, cy
	if p := attr("fx"); p.HasValue() {
		fx = coord(p, bbox, units.X, 50)
	}
	if p := attr("fy"); p.HasValue() {
		fy = coord(p, bbox, units.Y, 50)
	}
	fr := coord(attr("fr"), bbox, units.Diagonal, 0)
	rg := surface.NewRadialGradient(cx, cy, r, fx, fy, fr, stops, spreadOf(attr("spreadMethod")))
	rg.Transform = space.Multiply(transformOf(attr("gradientTransform")).Matrix())
	return rg
}

// trivialGradient handles gradients without enough stops to interpolate:
// none paints nothing, a single stop paints its color.
func trivialGradient(stops []surface.Stop) (surface.Paint, bool) {
	switch len(stops) {
	case 0:
		return nil, true
	case 1:
		return surface.Solid(stops[0].Color), true
	}
	return nil, false
}
