package svg

import (
	"image"
	"math"
	"strings"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/internal/filter"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

func registerFilterPrimitives() {
	prims := map[Kind]func(*Element, *filterContext){
		KindFeGaussianBlur: applyGaussianBlur,
		KindFeOffset:       applyOffset,
		KindFeColorMatrix:  applyColorMatrix,
		KindFeFlood:        applyFlood,
		KindFeMorphology:   applyMorphology,
		KindFeComposite:    applyComposite,
		KindFeMerge:        applyMerge,
		KindFeDropShadow:   applyDropShadow,
	}
	for k, fn := range prims {
		behaviors[k] = behavior{render: renderNothing, apply: fn}
	}
}

// filterContext carries the buffers of one filter evaluation. All
// buffers are device-sized; primitives work inside bounds.
type filterContext struct {
	source  *image.RGBA
	results map[string]*image.RGBA
	last    *image.RGBA
	bounds  image.Rectangle

	// m maps the filtered element's user space to device pixels.
	m geom.Matrix
	// bbox is the element bounding box, the unit square for
	// primitiveUnits="objectBoundingBox".
	bbox        geom.BoundingBox
	bboxUnits   bool
	sourceAlpha *image.RGBA
}

// input resolves an in or in2 reference. An empty or unknown name is
// the previous result, or the source graphic for the first primitive.
func (fc *filterContext) input(name string) *image.RGBA {
	switch strings.TrimSpace(name) {
	case "SourceGraphic":
		return fc.source
	case "SourceAlpha":
		if fc.sourceAlpha == nil {
			fc.sourceAlpha = image.NewRGBA(fc.source.Bounds())
			filter.NewColorMatrixFilter([20]float64{
				0, 0, 0, 0, 0,
				0, 0, 0, 0, 0,
				0, 0, 0, 0, 0,
				0, 0, 0, 1, 0,
			}).Apply(fc.source, fc.sourceAlpha, fc.bounds)
		}
		return fc.sourceAlpha
	case "":
	default:
		if r, ok := fc.results[strings.TrimSpace(name)]; ok {
			return r
		}
	}
	if fc.last != nil {
		return fc.last
	}
	return fc.source
}

// output records the result of primitive e.
func (fc *filterContext) output(e *Element, img *image.RGBA) {
	fc.last = img
	if r := strings.TrimSpace(e.Attr("result").String()); r != "" {
		fc.results[r] = img
	}
}

func (fc *filterContext) buffer() *image.RGBA {
	return image.NewRGBA(fc.source.Bounds())
}

// scale converts user-space lengths along x and y to device pixels.
func (fc *filterContext) scale(x, y float64) (float64, float64) {
	if fc.bboxUnits {
		x *= fc.bbox.Width()
		y *= fc.bbox.Height()
	}
	sx := fc.m.TransformVector(geom.Pt(1, 0)).Length()
	sy := fc.m.TransformVector(geom.Pt(0, 1)).Length()
	return x * sx, y * sy
}

// vector converts a user-space offset to a device offset.
func (fc *filterContext) vector(dx, dy float64) geom.Point {
	if fc.bboxUnits {
		dx *= fc.bbox.Width()
		dy *= fc.bbox.Height()
	}
	return fc.m.TransformVector(geom.Pt(dx, dy))
}

// renderFiltered renders e offscreen, runs the filter primitives over the
// pixels and composites the result onto sf.
func (d *Document) renderFiltered(e, f *Element, sf surface.Surface, flags renderFlags) {
	if !d.guard(f) {
		d.renderEffects(e, sf, flags)
		return
	}
	defer d.unguard(f)

	bb := e.BoundingBox()
	region, ok := effectRegion(f, "filterUnits", bb, -0.1, -0.1, 1.2, 1.2)
	if !ok {
		return
	}

	src, ok := offscreen(sf)
	if !ok {
		return
	}
	defer src.Close()
	d.renderEffects(e, src, flags)

	img := src.ImageData()
	fc := &filterContext{
		source:    img,
		results:   make(map[string]*image.RGBA),
		bounds:    deviceBounds(region, sf.Matrix(), img.Bounds()),
		m:         sf.Matrix(),
		bbox:      bb,
		bboxUnits: f.Attr("primitiveUnits").Is("objectBoundingBox"),
	}
	if fc.bboxUnits && bb.IsDegenerate() {
		return
	}
	for _, p := range f.children {
		if apply := behaviors[p.kind].apply; apply != nil {
			apply(p, fc)
			continue
		}
		if p.kind == KindUnknown || p.kind.IsFilterPrimitive() {
			Logger().Debug("svg: filter primitive skipped", "element", p.String())
			fc.output(p, fc.input(p.Attr("in").String()))
		}
	}

	out := fc.input("")
	if out == img {
		out = fc.buffer()
		copy(out.Pix, img.Pix)
	}
	clearOutside(out, fc.bounds)

	sf.Save()
	sf.SetTransform(geom.Identity())
	if err := sf.DrawImage(out, 0, 0, float64(sf.Width()), float64(sf.Height())); err != nil {
		Logger().Warn("svg: composite filter", "element", e.String(), "err", err)
	}
	sf.Restore()
}

// pair parses one or two numbers, the second defaulting to the first.
func pair(p *Property, def float64) (float64, float64) {
	n := p.Numbers()
	switch {
	case len(n) == 0:
		return def, def
	case len(n) == 1:
		return n[0], n[0]
	}
	return n[0], n[1]
}

func applyGaussianBlur(e *Element, fc *filterContext) {
	sx, sy := pair(e.Attr("stdDeviation"), 0)
	in := fc.input(e.Attr("in").String())
	dst := fc.buffer()
	if sx < 0 || sy < 0 {
		fc.output(e, dst)
		return
	}
	sx, sy = fc.scale(sx, sy)
	filter.NewBlurFilterXY(sx, sy).Apply(in, dst, fc.bounds)
	fc.output(e, dst)
}

func applyOffset(e *Element, fc *filterContext) {
	v := fc.vector(e.Attr("dx").Number(), e.Attr("dy").Number())
	dst := fc.buffer()
	filter.OffsetFilter{DX: v.X, DY: v.Y}.Apply(fc.input(e.Attr("in").String()), dst, fc.bounds)
	fc.output(e, dst)
}

func applyColorMatrix(e *Element, fc *filterContext) {
	values := e.Attr("values")
	var cm *filter.ColorMatrixFilter
	switch strings.TrimSpace(e.Attr("type").String()) {
	case "saturate":
		cm = filter.NewSaturateFilter(values.NumberOr(1))
	case "hueRotate":
		cm = filter.NewHueRotateFilter(values.NumberOr(0))
	case "luminanceToAlpha":
		cm = filter.NewLuminanceToAlphaFilter()
	default:
		n := values.Numbers()
		if len(n) != 20 {
			cm = filter.NewIdentityColorMatrix()
			break
		}
		var m [20]float64
		copy(m[:], n)
		cm = filter.NewColorMatrixFilter(m)
	}
	dst := fc.buffer()
	cm.Apply(fc.input(e.Attr("in").String()), dst, fc.bounds)
	fc.output(e, dst)
}

// floodColor returns flood-color with flood-opacity applied.
func floodColor(e *Element, def units.Color) units.Color {
	c, ok := e.color(e.Style("flood-color"))
	if !ok {
		c = def
	}
	return c.WithAlpha(e.opacity("flood-opacity"))
}

func applyFlood(e *Element, fc *filterContext) {
	dst := fc.buffer()
	filter.FloodFilter{Color: floodColor(e, units.Black)}.Apply(nil, dst, fc.bounds)
	fc.output(e, dst)
}

func applyMorphology(e *Element, fc *filterContext) {
	rx, ry := pair(e.Attr("radius"), 0)
	rx, ry = fc.scale(rx, ry)
	dst := fc.buffer()
	filter.MorphologyFilter{
		Radius: math.Max(rx, ry),
		Dilate: e.Attr("operator").Is("dilate"),
	}.Apply(fc.input(e.Attr("in").String()), dst, fc.bounds)
	fc.output(e, dst)
}

func applyComposite(e *Element, fc *filterContext) {
	a := fc.input(e.Attr("in").String())
	b := fc.input(e.Attr("in2").String())
	k := [4]float64{
		e.Attr("k1").Number(), e.Attr("k2").Number(),
		e.Attr("k3").Number(), e.Attr("k4").Number(),
	}
	dst := fc.buffer()
	filter.Composite(a, b, dst, fc.bounds, filter.ParseCompositeOp(strings.TrimSpace(e.Attr("operator").String())), k)
	fc.output(e, dst)
}

func applyMerge(e *Element, fc *filterContext) {
	dst := fc.buffer()
	for _, n := range e.children {
		if n.kind != KindFeMergeNode {
			continue
		}
		filter.Composite(fc.input(n.Attr("in").String()), dst, dst, fc.bounds, filter.CompositeOver, [4]float64{})
	}
	fc.output(e, dst)
}

func applyDropShadow(e *Element, fc *filterContext) {
	sx, sy := pair(e.Attr("stdDeviation"), 2)
	sx, sy = fc.scale(sx, sy)
	v := fc.vector(e.Attr("dx").NumberOr(2), e.Attr("dy").NumberOr(2))
	dst := fc.buffer()
	filter.DropShadowFilter{
		DX:    v.X,
		DY:    v.Y,
		Sigma: math.Sqrt(math.Max(0, sx*sy)),
		Color: floodColor(e, units.Black),
	}.Apply(fc.input(e.Attr("in").String()), dst, fc.bounds)
	fc.output(e, dst)
}
