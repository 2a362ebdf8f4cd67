package filter

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"golang.org/x/image/draw"
)

// OffsetFilter shifts the image by (DX, DY) pixels, the feOffset
// primitive. Uncovered pixels become transparent.
type OffsetFilter struct {
	DX, DY float64
}

// Apply writes src shifted into dst. src and dst must differ.
func (f OffsetFilter) Apply(src, dst *image.RGBA, bounds image.Rectangle) {
	r := clip(src, dst, bounds)
	dx, dy := int(math.Round(f.DX)), int(math.Round(f.DY))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			di := dst.PixOffset(x, y)
			sx, sy := x-dx, y-dy
			if !image.Pt(sx, sy).In(r) {
				clear(dst.Pix[di : di+4])
				continue
			}
			si := src.PixOffset(sx, sy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
}

// FloodFilter fills the bounds with a color, the feFlood primitive.
type FloodFilter struct {
	Color color.Color
}

// Apply ignores src.
func (f FloodFilter) Apply(_, dst *image.RGBA, bounds image.Rectangle) {
	draw.Draw(dst, bounds.Intersect(dst.Bounds()), image.NewUniform(f.Color), image.Point{}, draw.Src)
}

// MorphologyFilter thickens or thins the image, the feMorphology
// primitive.
type MorphologyFilter struct {
	Radius float64
	// Dilate selects dilate; erode otherwise.
	Dilate bool
}

// Apply writes the dilated or eroded src into dst. A radius <= 0 copies.
func (f MorphologyFilter) Apply(src, dst *image.RGBA, bounds image.Rectangle) {
	r := clip(src, dst, bounds)
	if r.Empty() {
		return
	}
	if f.Radius <= 0 {
		draw.Draw(dst, r, src, r.Min, draw.Src)
		return
	}
	sub := src.SubImage(r)
	var out *image.RGBA
	if f.Dilate {
		out = effect.Dilate(sub, f.Radius)
	} else {
		out = effect.Erode(sub, f.Radius)
	}
	draw.Draw(dst, r, out, out.Bounds().Min, draw.Src)
}

// DropShadowFilter draws a blurred, offset, colored copy of the source
// alpha under the source, the feDropShadow primitive.
type DropShadowFilter struct {
	DX, DY float64
	Sigma  float64
	Color  color.Color
}

// Apply writes the shadowed src into dst. src and dst must differ.
func (f DropShadowFilter) Apply(src, dst *image.RGBA, bounds image.Rectangle) {
	r := clip(src, dst, bounds)
	if r.Empty() {
		return
	}
	shadow := image.NewRGBA(src.Bounds())
	OffsetFilter{DX: f.DX, DY: f.DY}.Apply(src, shadow, r)
	NewBlurFilter(f.Sigma).Apply(shadow, shadow, r)

	flood := image.NewRGBA(src.Bounds())
	FloodFilter{Color: f.Color}.Apply(nil, flood, r)
	Composite(flood, shadow, dst, r, CompositeIn, [4]float64{})

	draw.Draw(dst, r, src, r.Min, draw.Over)
}
