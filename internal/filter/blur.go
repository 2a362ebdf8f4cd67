package filter

import (
	"image"
	"sync"
)

// BlurFilter applies a separable Gaussian blur, the feGaussianBlur
// primitive. Pixels outside the bounds count as transparent black.
//
// The separable algorithm processes horizontal and vertical passes
// independently, achieving O(w*h*(rx+ry)) instead of O(w*h*rx*ry).
type BlurFilter struct {
	// SigmaX is the horizontal standard deviation in pixels.
	SigmaX float64

	// SigmaY is the vertical standard deviation in pixels.
	SigmaY float64
}

// NewBlurFilter creates a blur with equal deviation on both axes.
func NewBlurFilter(sigma float64) *BlurFilter {
	return &BlurFilter{SigmaX: sigma, SigmaY: sigma}
}

// NewBlurFilterXY creates a blur with separate deviations per axis.
func NewBlurFilterXY(sigmaX, sigmaY float64) *BlurFilter {
	return &BlurFilter{SigmaX: sigmaX, SigmaY: sigmaY}
}

// Apply blurs src into dst within bounds. src and dst may be the same
// image.
//  1. Horizontal pass: convolve each row into a float buffer
//  2. Vertical pass: convolve each column back into dst
func (f *BlurFilter) Apply(src, dst *image.RGBA, bounds image.Rectangle) {
	r := clip(src, dst, bounds)
	if r.Empty() {
		return
	}
	width, height := r.Dx(), r.Dy()

	temp := getTempBuffer(width, height)
	defer putTempBuffer(temp)

	blurHorizontal(src, temp, r, CachedGaussianKernel(f.SigmaX))
	blurVertical(temp, dst, r, CachedGaussianKernel(f.SigmaY))
}

// ExpandBounds returns the region the blur can reach from input.
func (f *BlurFilter) ExpandBounds(input image.Rectangle) image.Rectangle {
	return input.Inset(-max(KernelRadius(f.SigmaX), KernelRadius(f.SigmaY)))
}

// blurHorizontal convolves the rows of r in src into temp.
func blurHorizontal(src *image.RGBA, temp []float32, r image.Rectangle, kernel []float32) {
	half := len(kernel) / 2
	width := r.Dx()

	for y := 0; y < r.Dy(); y++ {
		row := src.Pix[src.PixOffset(r.Min.X, r.Min.Y+y):]
		for x := 0; x < width; x++ {
			var cr, cg, cb, ca float32
			for k, weight := range kernel {
				kx := x + k - half
				if kx < 0 || kx >= width {
					continue
				}
				p := row[kx*4 : kx*4+4]
				cr += float32(p[0]) * weight
				cg += float32(p[1]) * weight
				cb += float32(p[2]) * weight
				ca += float32(p[3]) * weight
			}
			i := (y*width + x) * 4
			temp[i+0] = cr
			temp[i+1] = cg
			temp[i+2] = cb
			temp[i+3] = ca
		}
	}
}

// blurVertical convolves the columns of temp into r of dst.
func blurVertical(temp []float32, dst *image.RGBA, r image.Rectangle, kernel []float32) {
	half := len(kernel) / 2
	width, height := r.Dx(), r.Dy()

	for y := 0; y < height; y++ {
		row := dst.Pix[dst.PixOffset(r.Min.X, r.Min.Y+y):]
		for x := 0; x < width; x++ {
			var cr, cg, cb, ca float32
			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 || ky >= height {
					continue
				}
				i := (ky*width + x) * 4
				cr += temp[i+0] * weight
				cg += temp[i+1] * weight
				cb += temp[i+2] * weight
				ca += temp[i+3] * weight
			}
			p := row[x*4 : x*4+4]
			p[3] = clampUint8(ca)
			// Premultiplied channels never exceed alpha.
			p[0] = min(clampUint8(cr), p[3])
			p[1] = min(clampUint8(cg), p[3])
			p[2] = min(clampUint8(cb), p[3])
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() any {
		return &floatBuffer{data: make([]float32, 512*512*4)}
	},
}

// getTempBuffer retrieves a zeroed buffer of at least width*height*4
// elements.
func getTempBuffer(width, height int) []float32 {
	size := width * height * 4
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}
	buf := wrapper.data[:size]
	clear(buf)
	return buf
}

// putTempBuffer returns a buffer to the pool.
func putTempBuffer(buf []float32) {
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}
