// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster provides a surface backend built on the
// github.com/srwiley/rasterx scanline rasterizer.
//
// It is an independent second renderer for the same Surface contract,
// used for pixel comparison against the gg-backed surface.ImageSurface
// and where a pure Go rasterizer without gg is preferred.
//
// # Supported Features
//
//   - Fills with non-zero and even-odd rules
//   - Strokes with caps, joins, miter limits and dash patterns
//   - Every surface.Paint, sampled per pixel
//   - Path clipping, layers with opacity
//   - Text from the built-in Go fonts
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/svg/surface/raster"
//
//	s, _ := surface.NewSurfaceByName("rasterx", 200, 200)
package raster

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

func init() {
	surface.Register("rasterx", 5, func(opts surface.Options) (surface.Surface, error) {
		if opts.Width <= 0 || opts.Height <= 0 {
			return nil, errInvalidSize(opts.Width, opts.Height)
		}
		return NewSurface(opts.Width, opts.Height), nil
	}, nil)
}

// Surface renders with rasterx into an *image.RGBA.
type Surface struct {
	surface.PathBuilder

	width  int
	height int

	// targets[0] is the base image, the rest are open layers.
	targets []*target

	state drawState
	stack []drawState

	fonts  map[surface.Font]*sfnt.Font
	buf    sfnt.Buffer
	closed bool
}

// target is one image with its rasterizers.
type target struct {
	img     *image.RGBA
	filler  *rasterx.Filler
	dasher  *rasterx.Dasher
	opacity float64
}

type drawState struct {
	matrix geom.Matrix
	fill   surface.Paint
	stroke surface.Paint
	style  surface.StrokeStyle
	alpha  float64
	font   surface.Font
	clip   *image.Alpha
}

// NewSurface creates a transparent surface of the given size.
func NewSurface(width, height int) *Surface {
	width, height = max(width, 1), max(height, 1)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Surface{
		PathBuilder: surface.NewPathBuilder(),
		width:       width,
		height:      height,
		targets:     []*target{newTarget(img, 1)},
		state: drawState{
			matrix: geom.Identity(),
			fill:   surface.Solid(units.Black),
			style:  surface.DefaultStrokeStyle(),
			alpha:  1,
			font:   surface.Font{Family: "sans-serif", Size: 16, Weight: 400},
		},
		fonts: make(map[surface.Font]*sfnt.Font),
	}
}

func newTarget(img *image.RGBA, opacity float64) *target {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	sc := rasterx.NewScannerGV(w, h, img, img.Bounds())
	return &target{
		img:     img,
		filler:  rasterx.NewFiller(w, h, sc),
		dasher:  rasterx.NewDasher(w, h, sc),
		opacity: opacity,
	}
}

func (s *Surface) top() *target { return s.targets[len(s.targets)-1] }

// Width returns the surface width.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height.
func (s *Surface) Height() int { return s.height }

// Save saves the drawing state onto a stack.
func (s *Surface) Save() {
	s.state.matrix = s.Matrix()
	s.stack = append(s.stack, s.state)
}

// Restore restores the drawing state from the stack.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.SetTransform(s.state.matrix)
}

func (s *Surface) SetFillPaint(p surface.Paint)          { s.state.fill = p }
func (s *Surface) SetStrokePaint(p surface.Paint)        { s.state.stroke = p }
func (s *Surface) SetStrokeStyle(st surface.StrokeStyle) { s.state.style = st }
func (s *Surface) SetFont(f surface.Font)                { s.state.font = f }

// SetGlobalAlpha sets the alpha multiplied into every paint.
func (s *Surface) SetGlobalAlpha(alpha float64) {
	s.state.alpha = max(0, min(1, alpha))
}

// Fill fills the current path.
func (s *Surface) Fill(rule surface.FillRule) error {
	s.fill(s.Path(), rule, s.state.fill)
	return nil
}

func (s *Surface) fill(p *surface.Path, rule surface.FillRule, paint surface.Paint) {
	if s.closed || p.IsEmpty() || paint == nil {
		return
	}
	f := s.top().filler
	f.Clear()
	f.SetWinding(rule == surface.FillRuleNonZero)
	addPath(f, p, true)
	f.SetColor(s.color(paint))
	f.Draw()
	f.SetWinding(true)
}

// Stroke strokes the current path.
func (s *Surface) Stroke() error {
	s.stroke(s.Path())
	return nil
}

func (s *Surface) stroke(p *surface.Path) {
	st := s.state.style
	if s.closed || p.IsEmpty() || s.state.stroke == nil || st.Width <= 0 {
		return
	}
	scale := s.Matrix().ScaleFactor()
	if scale == 0 {
		return
	}
	var dash []float64
	if st.Dashed() {
		dash = st.Dash
		if len(dash)%2 == 1 {
			dash = append(append([]float64(nil), dash...), dash...)
		}
		dash = append([]float64(nil), dash...)
		for i := range dash {
			dash[i] *= scale
		}
	}
	capFn, gapFn := capFunc(st.Cap)
	d := s.top().dasher
	d.Clear()
	d.SetStroke(toFixed(st.Width*scale), toFixed(st.MiterLimit), capFn, capFn, gapFn,
		joinMode(st.Join), dash, st.DashOffset*scale)
	addPath(d, p, false)
	d.SetColor(s.color(s.state.stroke))
	d.Draw()
}

// Clip intersects the clip region with the current path and clears the
// path.
func (s *Surface) Clip(rule surface.FillRule) {
	if s.closed {
		return
	}
	mask := image.NewAlpha(image.Rect(0, 0, s.width, s.height))
	if p := s.Path(); !p.IsEmpty() {
		sc := rasterx.NewScannerGV(s.width, s.height, mask, mask.Bounds())
		f := rasterx.NewFiller(s.width, s.height, sc)
		f.SetWinding(rule == surface.FillRuleNonZero)
		addPath(f, p, true)
		f.SetColor(color.White)
		f.Draw()
	}
	if old := s.state.clip; old != nil {
		for i := range mask.Pix {
			mask.Pix[i] = uint8(uint16(mask.Pix[i]) * uint16(old.Pix[i]) / 255)
		}
	}
	s.state.clip = mask
	s.BeginPath()
}

// PushLayer redirects drawing into a new transparent layer.
func (s *Surface) PushLayer(opacity float64) {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	s.targets = append(s.targets, newTarget(img, max(0, min(1, opacity))))
}

// PopLayer composites the top layer onto the one below it.
func (s *Surface) PopLayer() {
	if len(s.targets) < 2 {
		return
	}
	layer := s.top()
	s.targets = s.targets[:len(s.targets)-1]
	dst := s.top().img
	mask := image.NewUniform(color.Alpha{A: uint8(layer.opacity*255 + 0.5)})
	draw.DrawMask(dst, dst.Bounds(), layer.img, image.Point{}, mask, image.Point{}, draw.Over)
}

// MeasureText measures str in the current font.
func (s *Surface) MeasureText(str string) surface.TextMetrics {
	f, ppem, err := s.face()
	if err != nil {
		return surface.TextMetrics{}
	}
	var w fixed.Int26_6
	s.glyphs(f, ppem, str, func(_ sfnt.GlyphIndex, x fixed.Int26_6) {}, &w)
	m, err := f.Metrics(&s.buf, ppem, font.HintingNone)
	if err != nil {
		return surface.TextMetrics{Width: fromFixed(w)}
	}
	return surface.TextMetrics{Width: fromFixed(w), Ascent: fromFixed(m.Ascent), Descent: fromFixed(m.Descent)}
}

// FillText fills str with its baseline origin at (x, y).
func (s *Surface) FillText(str string, x, y float64) error {
	p, err := s.textPath(str, x, y)
	if err != nil {
		return err
	}
	s.fill(p, surface.FillRuleNonZero, s.state.fill)
	return nil
}

// StrokeText strokes str with its baseline origin at (x, y).
func (s *Surface) StrokeText(str string, x, y float64) error {
	p, err := s.textPath(str, x, y)
	if err != nil {
		return err
	}
	s.stroke(p)
	return nil
}

func (s *Surface) textPath(str string, x, y float64) (*surface.Path, error) {
	f, ppem, err := s.face()
	if err != nil {
		return nil, err
	}
	b := s.Sub()
	s.glyphs(f, ppem, str, func(gi sfnt.GlyphIndex, pen fixed.Int26_6) {
		segs, err := f.LoadGlyph(&s.buf, gi, ppem, nil)
		if err != nil {
			return
		}
		ox := x + fromFixed(pen)
		pt := func(p fixed.Point26_6) (float64, float64) { return ox + fromFixed(p.X), y + fromFixed(p.Y) }
		open := false
		for _, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					b.ClosePath()
				}
				b.MoveTo(pt(seg.Args[0]))
				open = true
			case sfnt.SegmentOpLineTo:
				b.LineTo(pt(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				cx, cy := pt(seg.Args[0])
				px, py := pt(seg.Args[1])
				b.QuadraticTo(cx, cy, px, py)
			case sfnt.SegmentOpCubeTo:
				c1x, c1y := pt(seg.Args[0])
				c2x, c2y := pt(seg.Args[1])
				px, py := pt(seg.Args[2])
				b.CubicTo(c1x, c1y, c2x, c2y, px, py)
			}
		}
		if open {
			b.ClosePath()
		}
	}, nil)
	return b.Path(), nil
}

// glyphs walks the glyphs of str with kerning, calling fn with each
// glyph and its pen position. The final advance is stored in width when
// it is non-nil.
func (s *Surface) glyphs(f *sfnt.Font, ppem fixed.Int26_6, str string, fn func(sfnt.GlyphIndex, fixed.Int26_6), width *fixed.Int26_6) {
	var pen fixed.Int26_6
	prev, hasPrev := sfnt.GlyphIndex(0), false
	for _, r := range str {
		gi, err := f.GlyphIndex(&s.buf, r)
		if err != nil {
			continue
		}
		if hasPrev {
			if k, err := f.Kern(&s.buf, prev, gi, ppem, font.HintingNone); err == nil {
				pen += k
			}
		}
		fn(gi, pen)
		if adv, err := f.GlyphAdvance(&s.buf, gi, ppem, font.HintingNone); err == nil {
			pen += adv
		}
		prev, hasPrev = gi, true
	}
	if width != nil {
		*width = pen
	}
}

// face returns the parsed font and ppem for the current font.
func (s *Surface) face() (*sfnt.Font, fixed.Int26_6, error) {
	fnt := s.state.font
	size := fnt.Size
	if size <= 0 {
		size = 16
	}
	key := fnt
	key.Size = 0
	f, ok := s.fonts[key]
	if !ok {
		var err error
		if f, err = sfnt.Parse(surface.FontData(fnt)); err != nil {
			return nil, 0, err
		}
		s.fonts[key] = f
	}
	return f, toFixed(size), nil
}

// DrawImage draws img stretched over the rectangle (x, y, w, h) in user
// space.
func (s *Surface) DrawImage(img image.Image, x, y, w, h float64) error {
	if s.closed || img == nil || w <= 0 || h <= 0 {
		return nil
	}
	b := s.Sub()
	b.Rect(x, y, w, h)
	s.fill(b.Path(), surface.FillRuleNonZero, surface.ImageRectPaint(img, x, y, w, h))
	return nil
}

// ImageData returns a copy of the base image.
func (s *Surface) ImageData() *image.RGBA {
	src := s.targets[0].img
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}

// PutImageData copies img into the current target at (x, y), bypassing
// paints, alpha and clip.
func (s *Surface) PutImageData(img *image.RGBA, x, y int) {
	if s.closed || img == nil {
		return
	}
	draw.Draw(s.top().img, image.Rect(x, y, x+img.Bounds().Dx(), y+img.Bounds().Dy()), img, img.Bounds().Min, draw.Src)
}

// Clear fills the current target with c, or transparent when c is nil.
func (s *Surface) Clear(c color.Color) {
	if s.closed {
		return
	}
	if c == nil {
		c = color.Transparent
	}
	dst := s.top().img
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// NewSurface creates another rasterx surface.
func (s *Surface) NewSurface(width, height int) (surface.Surface, error) {
	return NewSurface(width, height), nil
}

// Close marks the surface closed. Drawing after Close is a no-op.
func (s *Surface) Close() error {
	s.closed = true
	return nil
}

// color returns the rasterx color source for p under the current alpha,
// matrix and clip.
func (s *Surface) color(p surface.Paint) any {
	alpha, clip := s.state.alpha, s.state.clip
	if sp, ok := p.(surface.SolidPaint); ok && clip == nil {
		return sp.Color.WithAlpha(alpha)
	}
	inv, ok := s.Matrix().Invert()
	if !ok {
		return color.Transparent
	}
	w := s.width
	return rasterx.ColorFunc(func(x, y int) color.Color {
		a := alpha
		if clip != nil {
			if x < 0 || y < 0 || x >= w || y >= s.height {
				return color.Transparent
			}
			a *= float64(clip.Pix[y*clip.Stride+x]) / 255
			if a == 0 {
				return color.Transparent
			}
		}
		u := inv.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
		return p.ColorAt(u.X, u.Y).WithAlpha(a)
	})
}

var _ surface.Surface = (*Surface)(nil)
