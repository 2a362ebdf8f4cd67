// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/units"
)

// ImageSurface is a CPU surface backed by a gg.Context.
//
// The gg context only rasterizes: transforms are applied while the path
// is built, and paints, global alpha and the clip region are folded into
// a per-pixel brush at fill time. This keeps non-solid paints, clipping
// and even-odd clip rules exact under any transform.
//
// Example:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.Clear(color.White)
//	s.SetFillPaint(surface.Solid(units.RGB(1, 0, 0)))
//	s.BeginPath()
//	s.Rect(100, 100, 200, 100)
//	_ = s.Fill(surface.FillRuleNonZero)
//
//	img := s.ImageData()
type ImageSurface struct {
	PathBuilder

	ctx    *gg.Context
	width  int
	height int

	state  drawState
	stack  []drawState
	layers []layer

	faces    faceCache
	outlines *text.OutlineExtractor

	// closed tracks if Close has been called
	closed bool
}

// layer is an open PushLayer: the context it replaced and its opacity.
type layer struct {
	parent  *gg.Context
	opacity float64
}

// drawState is what Save pushes.
type drawState struct {
	matrix geom.Matrix
	fill   Paint
	stroke Paint
	style  StrokeStyle
	alpha  float64
	font   Font
	clip   *gg.Mask
}

func defaultState() drawState {
	return drawState{
		matrix: geom.Identity(),
		fill:   Solid(units.Black),
		style:  DefaultStrokeStyle(),
		alpha:  1,
		font:   Font{Family: "sans-serif", Size: 16, Weight: 400},
	}
}

// NewImageSurface creates a new CPU surface with the given dimensions.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return newImageSurface(gg.NewContext(width, height))
}

// NewImageSurfaceFromImage creates a surface initialized with the pixels
// of img.
func NewImageSurfaceFromImage(img image.Image) *ImageSurface {
	return newImageSurface(gg.NewContextForImage(img))
}

// WrapContext returns a surface drawing into an existing gg context, such
// as the one behind a ggcanvas window canvas. Closing the surface closes
// ctx.
func WrapContext(ctx *gg.Context) *ImageSurface {
	return newImageSurface(ctx)
}

func newImageSurface(ctx *gg.Context) *ImageSurface {
	return &ImageSurface{
		PathBuilder: NewPathBuilder(),
		ctx:         ctx,
		width:       ctx.Width(),
		height:      ctx.Height(),
		state:       defaultState(),
		faces:       faceCache{},
		outlines:    text.NewOutlineExtractor(),
	}
}

// Context returns the underlying gg context, for presenting the pixels
// with gg integrations.
func (s *ImageSurface) Context() *gg.Context {
	return s.ctx
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// Save implements Surface.
func (s *ImageSurface) Save() {
	s.state.matrix = s.matrix
	s.stack = append(s.stack, s.state)
}

// Restore implements Surface.
func (s *ImageSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.matrix = s.state.matrix
}

func (s *ImageSurface) SetFillPaint(p Paint) { s.state.fill = p }
func (s *ImageSurface) SetStrokePaint(p Paint) { s.state.stroke = p }
func (s *ImageSurface) SetStrokeStyle(st StrokeStyle) { s.state.style = st }
func (s *ImageSurface) SetFont(f Font) { s.state.font = f }

// SetGlobalAlpha implements Surface.
func (s *ImageSurface) SetGlobalAlpha(alpha float64) {
	s.state.alpha = max(0, min(1, alpha))
}

// Fill implements Surface.
func (s *ImageSurface) Fill(rule FillRule) error {
	return s.fill(s.path, rule, s.state.fill)
}

func (s *ImageSurface) fill(p *Path, rule FillRule, paint Paint) error {
	if s.closed || p.IsEmpty() || paint == nil {
		return nil
	}
	s.load(s.ctx, p)
	s.ctx.SetFillRule(ggFillRule(rule))
	s.ctx.SetFillBrush(s.brush(paint))
	return s.ctx.Fill()
}

// Stroke implements Surface.
func (s *ImageSurface) Stroke() error {
	return s.stroke(s.path)
}

func (s *ImageSurface) stroke(p *Path) error {
	st := s.state.style
	if s.closed || p.IsEmpty() || s.state.stroke == nil || st.Width <= 0 {
		return nil
	}
	scale := s.matrix.ScaleFactor()
	if scale == 0 {
		return nil
	}
	s.load(s.ctx, p)
	s.ctx.SetLineWidth(st.Width * scale)
	s.ctx.SetLineCap(ggLineCap(st.Cap))
	s.ctx.SetLineJoin(ggLineJoin(st.Join))
	s.ctx.SetMiterLimit(st.MiterLimit)
	if st.Dashed() {
		dash := st.Dash
		if len(dash)%2 == 1 {
			dash = append(append([]float64(nil), dash...), dash...)
		}
		scaled := make([]float64, len(dash))
		for i, d := range dash {
			scaled[i] = d * scale
		}
		s.ctx.SetDash(scaled...)
		s.ctx.SetDashOffset(st.DashOffset * scale)
	} else {
		s.ctx.ClearDash()
	}
	s.ctx.SetStrokeBrush(s.brush(s.state.stroke))
	return s.ctx.Stroke()
}

// Clip implements Surface. The clip region is kept as a coverage mask
// that the fill brush multiplies in.
func (s *ImageSurface) Clip(rule FillRule) {
	if s.closed {
		return
	}
	mask := gg.NewMask(s.width, s.height)
	if !s.path.IsEmpty() {
		mc := gg.NewContext(s.width, s.height)
		s.load(mc, s.path)
		mc.SetFillRule(ggFillRule(rule))
		mc.SetFillBrush(gg.Solid(gg.White))
		if err := mc.Fill(); err == nil {
			mask = gg.NewMaskFromAlpha(mc.Image())
		}
		_ = mc.Close()
	}
	if old := s.state.clip; old != nil {
		md, od := mask.Data(), old.Data()
		for i := range md {
			md[i] = uint8(uint16(md[i]) * uint16(od[i]) / 255)
		}
	}
	s.state.clip = mask
	s.path.Clear()
}

// PushLayer implements Surface. Drawing goes to a transparent offscreen
// context until the matching PopLayer.
func (s *ImageSurface) PushLayer(opacity float64) {
	s.layers = append(s.layers, layer{parent: s.ctx, opacity: max(0, min(1, opacity))})
	s.ctx = gg.NewContext(s.width, s.height)
}

// PopLayer implements Surface. The layer is composited source-over onto
// the context below it, scaled by its opacity. Both buffers hold
// premultiplied pixels.
func (s *ImageSurface) PopLayer() {
	if len(s.layers) == 0 {
		return
	}
	top := s.layers[len(s.layers)-1]
	s.layers = s.layers[:len(s.layers)-1]
	src := s.ctx
	s.ctx = top.parent
	defer src.Close()

	_ = src.FlushGPU()
	_ = s.ctx.FlushGPU()
	compositeOver(s.ctx.ResizeTarget().Data(), src.ResizeTarget().Data(), top.opacity)
}

// compositeOver blends premultiplied RGBA src onto dst scaled by opacity.
func compositeOver(dst, src []uint8, opacity float64) {
	op := uint32(opacity*255 + 0.5)
	if op == 0 {
		return
	}
	n := min(len(dst), len(src))
	for i := 0; i+3 < n; i += 4 {
		sa := uint32(src[i+3]) * op / 255
		if sa == 0 {
			continue
		}
		inv := 255 - sa
		for c := range 4 {
			v := uint32(src[i+c])*op/255 + (uint32(dst[i+c])*inv+127)/255
			dst[i+c] = uint8(min(v, 255))
		}
	}
}

// MeasureText implements Surface.
func (s *ImageSurface) MeasureText(str string) TextMetrics {
	face, err := s.faces.face(s.state.font)
	if err != nil {
		return TextMetrics{}
	}
	m := face.Metrics()
	return TextMetrics{Width: face.Advance(str), Ascent: m.Ascent, Descent: m.Descent}
}

// FillText implements Surface. Glyphs are drawn as outlines so the
// current transform applies to them like to any path.
func (s *ImageSurface) FillText(str string, x, y float64) error {
	p, err := s.textPath(str, x, y)
	if err != nil {
		return err
	}
	return s.fill(p, FillRuleNonZero, s.state.fill)
}

// StrokeText implements Surface.
func (s *ImageSurface) StrokeText(str string, x, y float64) error {
	p, err := s.textPath(str, x, y)
	if err != nil {
		return err
	}
	return s.stroke(p)
}

func (s *ImageSurface) textPath(str string, x, y float64) (*Path, error) {
	face, err := s.faces.face(s.state.font)
	if err != nil {
		return nil, err
	}
	b := s.Sub()
	appendText(b, face, s.outlines, str, x, y)
	return b.Path(), nil
}

// DrawImage implements Surface. The destination rectangle is filled with
// a brush that maps each pixel back into img, so any transform works.
func (s *ImageSurface) DrawImage(img image.Image, x, y, w, h float64) error {
	ib := img.Bounds()
	if s.closed || w <= 0 || h <= 0 || ib.Empty() {
		return nil
	}
	b := s.Sub()
	b.Rect(x, y, w, h)
	return s.fill(b.Path(), FillRuleNonZero, ImageRectPaint(img, x, y, w, h))
}

// ImageData implements Surface.
func (s *ImageSurface) ImageData() *image.RGBA {
	_ = s.ctx.FlushGPU()
	if img, ok := s.ctx.Image().(*image.RGBA); ok {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	src := s.ctx.Image()
	for py := 0; py < s.height; py++ {
		for px := 0; px < s.width; px++ {
			out.Set(px, py, src.At(px, py))
		}
	}
	return out
}

// PutImageData implements Surface.
func (s *ImageSurface) PutImageData(img *image.RGBA, x, y int) {
	if s.closed || img == nil {
		return
	}
	data := s.ctx.ResizeTarget().Data()
	b := img.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy()).Intersect(image.Rect(0, 0, s.width, s.height))
	for py := r.Min.Y; py < r.Max.Y; py++ {
		src := img.PixOffset(b.Min.X+r.Min.X-x, b.Min.Y+py-y)
		dst := (py*s.width + r.Min.X) * 4
		copy(data[dst:dst+r.Dx()*4], img.Pix[src:src+r.Dx()*4])
	}
}

// Clear implements Surface.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	if c == nil {
		s.ctx.ClearWithColor(gg.Transparent)
		return
	}
	s.ctx.ClearWithColor(ggColor(units.FromColor(c), 1))
}

// NewSurface implements Surface.
func (s *ImageSurface) NewSurface(width, height int) (Surface, error) {
	return NewImageSurface(width, height), nil
}

// Close releases the gg context.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for len(s.layers) > 0 {
		_ = s.ctx.Close()
		s.ctx = s.layers[len(s.layers)-1].parent
		s.layers = s.layers[:len(s.layers)-1]
	}
	return s.ctx.Close()
}

// load replaces the gg path of ctx with p. The gg matrix stays identity,
// p is already in device space.
func (s *ImageSurface) load(ctx *gg.Context, p *Path) {
	ctx.ClearPath()
	p.Walk(func(v Verb, pts []geom.Point) {
		switch v {
		case VerbMoveTo:
			ctx.MoveTo(pts[0].X, pts[0].Y)
		case VerbLineTo:
			ctx.LineTo(pts[0].X, pts[0].Y)
		case VerbQuadTo:
			ctx.QuadraticTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		case VerbCubicTo:
			ctx.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case VerbClose:
			ctx.ClosePath()
		}
	})
}

// brush folds p, the global alpha and the clip mask into a gg brush
// sampled at device pixel centers.
func (s *ImageSurface) brush(p Paint) gg.Brush {
	alpha, clip := s.state.alpha, s.state.clip
	if sp, ok := p.(SolidPaint); ok && clip == nil {
		return gg.Solid(ggColor(sp.Color, alpha))
	}
	inv, ok := s.matrix.Invert()
	if !ok {
		return gg.Solid(gg.Transparent)
	}
	return gg.NewCustomBrush(func(x, y float64) gg.RGBA {
		a := alpha
		if clip != nil {
			a *= float64(clip.At(int(x), int(y))) / 255
			if a == 0 {
				return gg.Transparent
			}
		}
		u := inv.TransformPoint(geom.Pt(x, y))
		return ggColor(p.ColorAt(u.X, u.Y), a)
	})
}

// appendText appends the glyph outlines of str, with the baseline origin
// at (x, y), to b.
func appendText(b *PathBuilder, face text.Face, ex *text.OutlineExtractor, str string, x, y float64) {
	parsed := face.Source().Parsed()
	for g := range face.Glyphs(str) {
		o, err := ex.ExtractOutline(parsed, g.GID, face.Size())
		if err != nil || o == nil {
			continue
		}
		ox, oy := x+g.X, y+g.Y
		open := false
		for _, seg := range o.Segments {
			p := seg.Points
			switch seg.Op {
			case text.OutlineOpMoveTo:
				if open {
					b.ClosePath()
				}
				b.MoveTo(ox+float64(p[0].X), oy+float64(p[0].Y))
				open = true
			case text.OutlineOpLineTo:
				b.LineTo(ox+float64(p[0].X), oy+float64(p[0].Y))
			case text.OutlineOpQuadTo:
				b.QuadraticTo(ox+float64(p[0].X), oy+float64(p[0].Y), ox+float64(p[1].X), oy+float64(p[1].Y))
			case text.OutlineOpCubicTo:
				b.CubicTo(ox+float64(p[0].X), oy+float64(p[0].Y), ox+float64(p[1].X), oy+float64(p[1].Y),
					ox+float64(p[2].X), oy+float64(p[2].Y))
			}
		}
		if open {
			b.ClosePath()
		}
	}
}

func ggColor(c units.Color, alpha float64) gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A * alpha}
}

func ggFillRule(r FillRule) gg.FillRule {
	if r == FillRuleEvenOdd {
		return gg.FillRuleEvenOdd
	}
	return gg.FillRuleNonZero
}

func ggLineCap(c LineCap) gg.LineCap {
	switch c {
	case LineCapRound:
		return gg.LineCapRound
	case LineCapSquare:
		return gg.LineCapSquare
	}
	return gg.LineCapButt
}

func ggLineJoin(j LineJoin) gg.LineJoin {
	switch j {
	case LineJoinRound:
		return gg.LineJoinRound
	case LineJoinBevel:
		return gg.LineJoinBevel
	}
	return gg.LineJoinMiter
}

var _ Surface = (*ImageSurface)(nil)
