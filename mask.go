package svg

import (
	"image"
	"math"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/internal/filter"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// renderMasked renders e and the mask offscreen, multiplies the content
// by the mask luminance and composites the result onto sf.
func (d *Document) renderMasked(e, m *Element, sf surface.Surface, flags renderFlags) {
	if !d.guard(m) {
		d.renderEffects(e, sf, flags)
		return
	}
	defer d.unguard(m)

	content, ok := offscreen(sf)
	if !ok {
		return
	}
	defer content.Close()
	d.renderEffects(e, content, flags)

	ms, ok := offscreen(sf)
	if !ok {
		return
	}
	defer ms.Close()

	bb := e.BoundingBox()
	region, ok := effectRegion(m, "maskUnits", bb, -0.1, -0.1, 1.2, 1.2)
	if !ok {
		return
	}
	ms.BeginPath()
	ms.Rect(region.X1, region.Y1, region.Width(), region.Height())
	ms.Clip(surface.FillRuleNonZero)
	if m.Attr("maskContentUnits").Is("objectBoundingBox") {
		if bb.IsDegenerate() {
			return
		}
		ms.Transform(geom.Translate(bb.X1, bb.Y1).Multiply(geom.Scale(bb.Width(), bb.Height())))
	}
	d.renderChildren(m, ms)

	img := content.ImageData()
	bounds := deviceBounds(region, sf.Matrix(), img.Bounds())
	if m.Style("mask-type").Is("alpha") {
		filter.AlphaMask(img, ms.ImageData(), bounds)
	} else {
		filter.LuminanceMask(img, ms.ImageData(), bounds)
	}
	clearOutside(img, bounds)

	sf.Save()
	sf.SetTransform(geom.Identity())
	if err := sf.DrawImage(img, 0, 0, float64(sf.Width()), float64(sf.Height())); err != nil {
		Logger().Warn("svg: composite mask", "element", e.String(), "err", err)
	}
	sf.Restore()
}

// effectRegion resolves the x, y, width and height of a mask or filter
// to a user-space box. unitsAttr selects objectBoundingBox (the default,
// with fractional coordinates) or userSpaceOnUse. The defaults are
// fractions of the bounding box.
func effectRegion(e *Element, unitsAttr string, bb geom.BoundingBox, dx, dy, dw, dh float64) (geom.BoundingBox, bool) {
	if e.Attr(unitsAttr).Is("userSpaceOnUse") {
		vp := e.doc.viewports.current()
		x := e.Attr("x").PixelsOr(units.X, dx*vp.width)
		y := e.Attr("y").PixelsOr(units.Y, dy*vp.height)
		w := e.Attr("width").PixelsOr(units.X, dw*vp.width)
		h := e.Attr("height").PixelsOr(units.Y, dh*vp.height)
		if w <= 0 || h <= 0 {
			return geom.BoundingBox{}, false
		}
		return geom.BoxFromRect(x, y, w, h), true
	}
	if bb.IsDegenerate() {
		return geom.BoundingBox{}, false
	}
	x := e.Attr("x").NumberOr(dx)
	y := e.Attr("y").NumberOr(dy)
	w := e.Attr("width").NumberOr(dw)
	h := e.Attr("height").NumberOr(dh)
	if w <= 0 || h <= 0 {
		return geom.BoundingBox{}, false
	}
	return geom.BoxFromRect(bb.X1+x*bb.Width(), bb.Y1+y*bb.Height(), w*bb.Width(), h*bb.Height()), true
}

// deviceBounds maps a user-space box through m to the enclosing pixel
// rectangle, limited to limit.
func deviceBounds(b geom.BoundingBox, m geom.Matrix, limit image.Rectangle) image.Rectangle {
	db := b.Transform(m)
	if db.IsEmpty() {
		return image.Rectangle{}
	}
	r := image.Rect(
		int(math.Floor(db.X1)), int(math.Floor(db.Y1)),
		int(math.Ceil(db.X2)), int(math.Ceil(db.Y2)),
	)
	return r.Intersect(limit)
}

// clearOutside zeroes every pixel of img outside keep.
func clearOutside(img *image.RGBA, keep image.Rectangle) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if image.Pt(x, y).In(keep) {
				x = keep.Max.X - 1
				continue
			}
			i := img.PixOffset(x, y)
			clear(img.Pix[i : i+4])
		}
	}
}
