package filter

import (
	"image"
	"math"
)

// ColorMatrixFilter applies a 4x5 color matrix, the feColorMatrix
// primitive:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Components are unpremultiplied and in [0, 1], so the fifth column is
// an offset in that range.
type ColorMatrixFilter struct {
	// Matrix is the 4x5 matrix in row-major order.
	Matrix [20]float64
}

// NewColorMatrixFilter creates a filter from 20 row-major values.
func NewColorMatrixFilter(matrix [20]float64) *ColorMatrixFilter {
	return &ColorMatrixFilter{Matrix: matrix}
}

// NewIdentityColorMatrix creates a filter that passes colors through.
func NewIdentityColorMatrix() *ColorMatrixFilter {
	return &ColorMatrixFilter{
		Matrix: [20]float64{
			1, 0, 0, 0, 0, // R
			0, 1, 0, 0, 0, // G
			0, 0, 1, 0, 0, // B
			0, 0, 0, 1, 0, // A
		},
	}
}

// NewSaturateFilter creates the type="saturate" matrix. s = 0 is fully
// desaturated, s = 1 is unchanged.
func NewSaturateFilter(s float64) *ColorMatrixFilter {
	return &ColorMatrixFilter{
		Matrix: [20]float64{
			0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0, 0,
			0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0, 0,
			0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewHueRotateFilter creates the type="hueRotate" matrix for an angle in
// degrees.
func NewHueRotateFilter(degrees float64) *ColorMatrixFilter {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return &ColorMatrixFilter{
		Matrix: [20]float64{
			0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928, 0, 0,
			0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283, 0, 0,
			0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewLuminanceToAlphaFilter creates the type="luminanceToAlpha" matrix:
// color becomes black and alpha becomes the luminance.
func NewLuminanceToAlphaFilter() *ColorMatrixFilter {
	return &ColorMatrixFilter{
		Matrix: [20]float64{
			0, 0, 0, 0, 0,
			0, 0, 0, 0, 0,
			0, 0, 0, 0, 0,
			0.2125, 0.7154, 0.0721, 0, 0,
		},
	}
}

// NewOpacityFilter creates a filter that multiplies alpha by factor.
func NewOpacityFilter(factor float64) *ColorMatrixFilter {
	m := NewIdentityColorMatrix()
	m.Matrix[18] = factor
	return m
}

// Apply transforms every pixel in bounds. src and dst may be the same
// image.
func (f *ColorMatrixFilter) Apply(src, dst *image.RGBA, bounds image.Rectangle) {
	r := clip(src, dst, bounds)
	m := &f.Matrix
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si, di := src.PixOffset(x, y), dst.PixOffset(x, y)
			cr, cg, cb, ca := unpremultiply(src.Pix[si : si+4])
			premultiply(dst.Pix[di:di+4],
				m[0]*cr+m[1]*cg+m[2]*cb+m[3]*ca+m[4],
				m[5]*cr+m[6]*cg+m[7]*cb+m[8]*ca+m[9],
				m[10]*cr+m[11]*cg+m[12]*cb+m[13]*ca+m[14],
				m[15]*cr+m[16]*cg+m[17]*cb+m[18]*ca+m[19])
		}
	}
}
