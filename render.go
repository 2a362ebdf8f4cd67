package svg

import (
	"context"
	"image/color"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// behavior is the per-kind dispatch entry. Nil hooks fall back to the
// container defaults.
type behavior struct {
	// render replaces the whole render contract. Kinds that are never
	// painted directly (definitions, metadata) set it to renderNothing.
	render func(e *Element, sf surface.Surface)

	// setContext prepares sf after transform, clip and opacity have been
	// applied. Returning false skips the element.
	setContext func(e *Element, sf surface.Surface) bool
	// paint draws the element's content; the default renders children.
	paint func(e *Element, sf surface.Surface)
	// clearContext undoes setContext state that Restore does not cover.
	clearContext func(e *Element, sf surface.Surface)

	// path emits the element geometry to sf and returns its user-space
	// bounding box. sf may be nil to measure only.
	path func(e *Element, sf surface.Surface) geom.BoundingBox
	// boundingBox returns the user-space bounding box.
	boundingBox func(e *Element) geom.BoundingBox

	// paintServer builds the paint for target when the element is
	// referenced from fill or stroke of a shape drawn on sf.
	paintServer func(e, target *Element, sf surface.Surface, opacity float64) surface.Paint

	// apply runs a filter primitive.
	apply func(e *Element, fc *filterContext)
}

var behaviors [kindCount]behavior

func init() {
	for k := range behaviors {
		behaviors[k].render = renderNothing
	}
	container := behavior{boundingBox: childrenBoundingBox}
	behaviors[KindG] = container
	behaviors[KindA] = container
	behaviors[KindSVG] = behavior{
		setContext:   setSVGContext,
		clearContext: leaveFrameContext,
		boundingBox:  childrenBoundingBox,
	}
	behaviors[KindSwitch] = behavior{paint: paintSwitch, boundingBox: switchBoundingBox}
	behaviors[KindUse] = behavior{paint: paintUse, boundingBox: useBoundingBox}
	// Symbols render only through use, which calls renderSymbol.
	behaviors[KindSymbol] = behavior{
		render:       renderNothing,
		setContext:   setSymbolContext,
		clearContext: leaveFrameContext,
		boundingBox:  childrenBoundingBox,
	}

	registerShapes()
	registerText()
	registerImage()
	registerPaintServers()
	registerFilterPrimitives()
}

func renderNothing(*Element, surface.Surface) {}

// renderFlags select parts of the render contract to skip while an
// effect re-renders the element offscreen.
type renderFlags uint8

const (
	skipMask renderFlags = 1 << iota
	skipFilter
)

// Render paints the document onto sf.
//
// Render waits until every referenced asset has loaded or failed, or
// until ctx is done. The document is painted in its current animation
// state; use Start or Tick and Frame to advance animations.
func (d *Document) Render(ctx context.Context, sf surface.Surface, opts ...RenderOption) error {
	if sf == nil {
		return ErrNilSurface
	}
	if err := d.WaitReady(ctx); err != nil {
		return err
	}
	d.paintMu.Lock()
	defer d.paintMu.Unlock()
	d.render = newRenderOptions(opts)
	d.paint(sf)
	return nil
}

// paint draws one frame with the current render options. The caller
// holds paintMu.
func (d *Document) paint(sf surface.Surface) {
	ro := d.render
	w, h := float64(sf.Width()), float64(sf.Height())
	if ro.viewportWidth > 0 && ro.viewportHeight > 0 {
		w, h = ro.viewportWidth, ro.viewportHeight
	}
	if !ro.ignoreClear {
		sf.Clear(color.Transparent)
	}
	if !ro.ignoreMouse {
		d.mouse.beginFrame()
		defer d.dispatchMouse()
	}

	sf.Save()
	defer sf.Restore()
	sf.SetTransform(geom.Translate(ro.offsetX, ro.offsetY))
	d.paintRoot(sf, w, h)
}

// paintRoot renders the root element into a w x h viewport at the
// current origin of sf.
func (d *Document) paintRoot(sf surface.Surface, w, h float64) {
	d.viewports.reset(w, h)
	d.ems.reset()
	clear(d.active)

	sf.Save()
	defer sf.Restore()
	if !d.enterFrame(sf, d.rootFrame()) {
		return
	}
	defer d.leaveFrame()
	d.renderWith(d.root, sf, 0)
}

// rootFrame returns the viewport of the root element.
func (d *Document) rootFrame() frame {
	r := d.root
	ro := d.render
	vp := d.viewports.current()

	f := frame{width: vp.width, height: vp.height}
	f.viewBox, f.hasViewBox = parseViewBox(r.Attr("viewBox"))
	f.par = ParsePreserveAspectRatio(r.Attr("preserveAspectRatio").String())

	if !ro.ignoreDimensions {
		f.width = r.Attr("width").PixelsOr(units.X, vp.width)
		f.height = r.Attr("height").PixelsOr(units.Y, vp.height)
	}
	if ro.scaleWidth > 0 && ro.scaleHeight > 0 {
		if !f.hasViewBox {
			f.viewBox = ViewBox{Width: f.width, Height: f.height}
			f.hasViewBox = true
		}
		f.width, f.height = ro.scaleWidth, ro.scaleHeight
		f.par.Slice = false
	}
	return f
}

// renderWith runs the render contract for e.
func (d *Document) renderWith(e *Element, sf surface.Surface, flags renderFlags) {
	b := &behaviors[e.kind]
	if b.render != nil {
		b.render(e, sf)
		return
	}
	if e.Style("display").Is("none") {
		return
	}

	sf.Save()
	defer sf.Restore()
	if d.pushFontSize(e) {
		defer d.ems.pop()
	}
	transformOf(e.Style("transform")).Apply(sf)
	d.renderEffects(e, sf, flags)
}

// renderEffects applies mask and filter, which render the element
// offscreen, then paints it.
func (d *Document) renderEffects(e *Element, sf surface.Surface, flags renderFlags) {
	if flags&skipMask == 0 {
		if m := e.reference("mask", KindMask); m != nil {
			d.renderMasked(e, m, sf, flags|skipMask)
			return
		}
	}
	if flags&skipFilter == 0 {
		if f := e.reference("filter", KindFilter); f != nil {
			d.renderFiltered(e, f, sf, flags|skipFilter)
			return
		}
	}
	d.paintElement(e, sf)
}

// paintElement applies clip and opacity and draws the element content.
func (d *Document) paintElement(e *Element, sf surface.Surface) {
	if !d.applyClipPath(e, sf) {
		return
	}
	op := e.opacity("opacity")
	if op <= 0 {
		return
	}
	if op < 1 {
		sf.PushLayer(op)
		defer sf.PopLayer()
	}

	b := &behaviors[e.kind]
	if b.setContext != nil && !b.setContext(e, sf) {
		return
	}
	if b.clearContext != nil {
		defer b.clearContext(e, sf)
	}
	if b.paint != nil {
		b.paint(e, sf)
		return
	}
	d.renderChildren(e, sf)
}

func (d *Document) renderChildren(e *Element, sf surface.Surface) {
	for _, c := range e.children {
		d.renderWith(c, sf, 0)
	}
}

// reference resolves a url(#id) style property to an element of the
// given kind. Dangling references are logged and ignored.
func (e *Element) reference(name string, kind Kind) *Element {
	p := e.Style(name)
	if !p.IsURL() {
		return nil
	}
	ref := p.Definition()
	if ref == nil || ref.kind != kind {
		Logger().Warn("svg: unresolved reference", "element", e.String(), "property", name, "value", p.String())
		return nil
	}
	return ref
}

// visible reports whether the element's own geometry is drawn. Hidden
// containers still render visible descendants.
func (e *Element) visible() bool {
	v := e.Style("visibility")
	return !v.Is("hidden") && !v.Is("collapse")
}

// offscreen returns a transparent surface of the same size and matrix as
// sf.
func offscreen(sf surface.Surface) (surface.Surface, bool) {
	off, err := sf.NewSurface(sf.Width(), sf.Height())
	if err != nil {
		Logger().Warn("svg: offscreen surface", "err", err)
		return nil, false
	}
	off.SetTransform(sf.Matrix())
	return off, true
}

// drawOffscreen composites device-space pixels back onto sf.
func drawOffscreen(sf surface.Surface, img surface.Surface) {
	sf.Save()
	sf.SetTransform(geom.Identity())
	if err := sf.DrawImage(img.ImageData(), 0, 0, float64(sf.Width()), float64(sf.Height())); err != nil {
		Logger().Warn("svg: composite offscreen", "err", err)
	}
	sf.Restore()
}

func setSVGContext(e *Element, sf surface.Surface) bool {
	d := e.doc
	if e == d.root {
		// The root frame was entered by paint; push a matching viewport so
		// clearContext stays balanced.
		vp := d.viewports.current()
		d.viewports.push(vp.width, vp.height)
		return true
	}
	f := frame{
		x:      e.Attr("x").Pixels(units.X),
		y:      e.Attr("y").Pixels(units.Y),
		width:  e.Attr("width").PixelsOr(units.X, d.viewports.current().width),
		height: e.Attr("height").PixelsOr(units.Y, d.viewports.current().height),
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

func leaveFrameContext(e *Element, _ surface.Surface) { e.doc.leaveFrame() }

// clipsOverflow reports whether a viewport element clips its content.
func clipsOverflow(e *Element) bool {
	o := e.Style("overflow")
	return !o.Is("visible") && !o.Is("auto")
}

// childrenBoundingBox is the union of the children's boxes, each mapped
// through its transform.
func childrenBoundingBox(e *Element) geom.BoundingBox {
	bb := geom.NewBoundingBox()
	for _, c := range e.children {
		if behaviors[c.kind].render != nil || c.Style("display").Is("none") {
			continue
		}
		cb := c.BoundingBox()
		if cb.IsEmpty() {
			continue
		}
		if t := transformOf(c.Style("transform")); len(t) > 0 {
			cb = cb.Transform(t.Matrix())
		}
		bb.AddBox(cb)
	}
	return bb
}
