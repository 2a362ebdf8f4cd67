package filter

import "image"

// CompositeOp is a feComposite operator.
type CompositeOp uint8

const (
	CompositeOver CompositeOp = iota
	CompositeIn
	CompositeOut
	CompositeAtop
	CompositeXor
	CompositeArithmetic
)

// ParseCompositeOp maps an operator attribute value to a CompositeOp.
// Unknown names mean over.
func ParseCompositeOp(s string) CompositeOp {
	switch s {
	case "in":
		return CompositeIn
	case "out":
		return CompositeOut
	case "atop":
		return CompositeAtop
	case "xor":
		return CompositeXor
	case "arithmetic":
		return CompositeArithmetic
	}
	return CompositeOver
}

// Composite combines a (in) with b (in2) into dst within bounds using op.
// k holds k1..k4 for the arithmetic operator. dst may alias a or b.
func Composite(a, b, dst *image.RGBA, bounds image.Rectangle, op CompositeOp, k [4]float64) {
	r := bounds.Intersect(a.Bounds()).Intersect(b.Bounds()).Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			ai, bi, di := a.PixOffset(x, y), b.PixOffset(x, y), dst.PixOffset(x, y)
			var out [4]float64
			aa, ba := float64(a.Pix[ai+3])/255, float64(b.Pix[bi+3])/255
			for c := range 4 {
				av, bv := float64(a.Pix[ai+c])/255, float64(b.Pix[bi+c])/255
				switch op {
				case CompositeOver:
					out[c] = av + bv*(1-aa)
				case CompositeIn:
					out[c] = av * ba
				case CompositeOut:
					out[c] = av * (1 - ba)
				case CompositeAtop:
					out[c] = av*ba + bv*(1-aa)
				case CompositeXor:
					out[c] = av*(1-ba) + bv*(1-aa)
				case CompositeArithmetic:
					out[c] = k[0]*av*bv + k[1]*av + k[2]*bv + k[3]
				}
			}
			alpha := clamp01(out[3])
			p := dst.Pix[di : di+4]
			p[3] = to8(alpha)
			for c := range 3 {
				p[c] = min(to8(clamp01(out[c])), p[3])
			}
		}
	}
}

// Luminance coefficients for masks.
const (
	lumR = 0.2125
	lumG = 0.7154
	lumB = 0.0721
)

// LuminanceMask multiplies content by the luminance of mask, weighted by
// the mask alpha, within bounds. Outside bounds content is left alone.
func LuminanceMask(content, mask *image.RGBA, bounds image.Rectangle) {
	applyMask(content, mask, bounds, func(p []uint8) float64 {
		// Premultiplied components already carry the alpha factor.
		return (lumR*float64(p[0]) + lumG*float64(p[1]) + lumB*float64(p[2])) / 255
	})
}

// AlphaMask multiplies content by the alpha of mask within bounds.
func AlphaMask(content, mask *image.RGBA, bounds image.Rectangle) {
	applyMask(content, mask, bounds, func(p []uint8) float64 {
		return float64(p[3]) / 255
	})
}

func applyMask(content, mask *image.RGBA, bounds image.Rectangle, coverage func([]uint8) float64) {
	r := bounds.Intersect(content.Bounds())
	mb := mask.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			ci := content.PixOffset(x, y)
			v := 0.0
			if image.Pt(x, y).In(mb) {
				mi := mask.PixOffset(x, y)
				v = clamp01(coverage(mask.Pix[mi : mi+4]))
			}
			for c := range 4 {
				content.Pix[ci+c] = uint8(float64(content.Pix[ci+c])*v + 0.5)
			}
		}
	}
}
