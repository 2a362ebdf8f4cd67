package svg

import (
	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

func registerImage() {
	behaviors[KindImage] = behavior{paint: paintImage, boundingBox: imageBoundingBox}
}

// imageRect resolves the x, y, width and height of an image. A missing
// width or height takes the intrinsic size of the loaded content.
func (e *Element) imageRect() (x, y, w, h float64) {
	iw, ih := e.image.size()
	x = e.Attr("x").Pixels(units.X)
	y = e.Attr("y").Pixels(units.Y)
	w = e.Attr("width").PixelsOr(units.X, iw)
	h = e.Attr("height").PixelsOr(units.Y, ih)
	return x, y, w, h
}

func paintImage(e *Element, sf surface.Surface) {
	d := e.doc
	a := e.image
	if !e.visible() || a == nil || !a.loaded.Load() || a.empty() {
		return
	}
	x, y, w, h := e.imageRect()
	iw, ih := a.size()
	if iw <= 0 || ih <= 0 {
		return
	}

	f := frame{
		x:          x,
		y:          y,
		width:      w,
		height:     h,
		viewBox:    ViewBox{Width: iw, Height: ih},
		hasViewBox: true,
		par:        ParsePreserveAspectRatio(e.Attr("preserveAspectRatio").String()),
		clip:       true,
	}
	sf.Save()
	defer sf.Restore()
	if !d.enterFrame(sf, f) {
		return
	}
	defer d.leaveFrame()

	if !d.render.ignoreMouse {
		d.mouse.record(e, geom.BoxFromRect(0, 0, iw, ih).Transform(sf.Matrix()))
	}
	if a.doc != nil {
		a.doc.paintNested(sf, iw, ih)
		return
	}
	if err := sf.DrawImage(a.img, 0, 0, iw, ih); err != nil {
		Logger().Warn("svg: draw image", "element", e.String(), "err", err)
	}
}

// paintNested renders a child document at the current origin of sf into
// a w x h viewport. Animation state, mouse handling and clearing belong
// to the parent document.
func (d *Document) paintNested(sf surface.Surface, w, h float64) {
	d.paintMu.Lock()
	defer d.paintMu.Unlock()
	d.render = renderOptions{ignoreMouse: true, ignoreClear: true, frameRate: 30}
	d.paintRoot(sf, w, h)
}

func imageBoundingBox(e *Element) geom.BoundingBox {
	if e.image == nil {
		return geom.NewBoundingBox()
	}
	x, y, w, h := e.imageRect()
	if w <= 0 || h <= 0 {
		return geom.NewBoundingBox(geom.Pt(x, y))
	}
	return geom.BoxFromRect(x, y, w, h)
}
