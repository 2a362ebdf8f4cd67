package svg

import (
	"math"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// maxTileSize caps the pixel size of a rendered pattern tile.
const maxTileSize = 4096

// patternAttr returns the attribute from the first pattern in the href
// chain that sets it.
func patternAttr(chain []*Element, name string) *Property {
	for _, el := range chain {
		if el.kind == KindPattern && el.HasAttr(name) {
			return el.Attr(name)
		}
	}
	return chain[0].Attr(name)
}

// patternContent returns the first pattern in the chain with children.
func patternContent(chain []*Element) *Element {
	for _, el := range chain {
		if el.kind == KindPattern && len(el.children) > 0 {
			return el
		}
	}
	return nil
}

// patternPaint renders one tile of the pattern offscreen at the device
// resolution of sf and returns it as a repeating paint.
func patternPaint(pe, target *Element, sf surface.Surface, opacity float64) surface.Paint {
	d := pe.doc
	chain := hrefChain(pe)
	attr := func(name string) *Property { return patternAttr(chain, name) }
	content := patternContent(chain)
	if content == nil || sf == nil {
		return nil
	}

	var bb geom.BoundingBox
	needBox := !attr("patternUnits").Is("userSpaceOnUse") ||
		attr("patternContentUnits").Is("objectBoundingBox")
	if needBox {
		bb = target.BoundingBox()
		if bb.IsDegenerate() {
			return nil
		}
	}

	var x, y, w, h float64
	if attr("patternUnits").Is("userSpaceOnUse") {
		x, y = attr("x").Pixels(units.X), attr("y").Pixels(units.Y)
		w, h = attr("width").Pixels(units.X), attr("height").Pixels(units.Y)
	} else {
		x = bb.X1 + attr("x").Number()*bb.Width()
		y = bb.Y1 + attr("y").Number()*bb.Height()
		w = attr("width").Number() * bb.Width()
		h = attr("height").Number() * bb.Height()
	}
	if w <= 0 || h <= 0 {
		return nil
	}

	pt := transformOf(attr("patternTransform")).Matrix()
	scale := sf.Matrix().Multiply(pt).ScaleFactor()
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	scale = math.Min(scale, math.Min(maxTileSize/w, maxTileSize/h))
	tw, th := max(1, int(math.Ceil(w*scale))), max(1, int(math.Ceil(h*scale)))

	tile, err := sf.NewSurface(tw, th)
	if err != nil {
		Logger().Warn("svg: pattern tile", "element", pe.String(), "err", err)
		return nil
	}
	defer tile.Close()

	if !d.guard(pe) {
		return nil
	}
	tile.SetTransform(geom.Scale(float64(tw)/w, float64(th)/h))
	vb, hasVB := parseViewBox(attr("viewBox"))
	switch {
	case hasVB:
		if vb.Width <= 0 || vb.Height <= 0 {
			d.unguard(pe)
			return nil
		}
		par := ParsePreserveAspectRatio(attr("preserveAspectRatio").String())
		tile.Transform(par.Matrix(vb, w, h))
		d.viewports.push(vb.Width, vb.Height)
	case attr("patternContentUnits").Is("objectBoundingBox"):
		tile.Transform(geom.Scale(bb.Width(), bb.Height()))
		d.viewports.push(w, h)
	default:
		d.viewports.push(w, h)
	}
	d.renderChildren(content, tile)
	d.viewports.pop()
	d.unguard(pe)

	img := tile.ImageData()
	if opacity < 1 {
		fadeRGBA(img.Pix, opacity)
	}
	m := pt.Multiply(geom.Translate(x, y)).Multiply(geom.Scale(w/float64(tw), h/float64(th)))
	return surface.NewPatternPaint(img, m)
}

// fadeRGBA multiplies premultiplied pixels by a.
func fadeRGBA(pix []uint8, a float64) {
	a = math.Max(0, math.Min(1, a))
	for i := range pix {
		pix[i] = uint8(float64(pix[i])*a + 0.5)
	}
}
