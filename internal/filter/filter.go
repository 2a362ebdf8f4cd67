package filter

import "image"

// Filter is a single-input effect. Apply reads src and writes dst within
// bounds; src and dst may be the same image only where noted.
type Filter interface {
	Apply(src, dst *image.RGBA, bounds image.Rectangle)
}

// clip limits r to the bounds of both images.
func clip(src, dst *image.RGBA, r image.Rectangle) image.Rectangle {
	return r.Intersect(src.Bounds()).Intersect(dst.Bounds())
}

// unpremultiply returns the straight-alpha components of a pixel in
// [0, 1].
func unpremultiply(p []uint8) (r, g, b, a float64) {
	if p[3] == 0 {
		return 0, 0, 0, 0
	}
	a = float64(p[3]) / 255
	inv := 1 / (255 * a)
	return float64(p[0]) * inv, float64(p[1]) * inv, float64(p[2]) * inv, a
}

// premultiply writes straight-alpha components in [0, 1] into p.
func premultiply(p []uint8, r, g, b, a float64) {
	a = clamp01(a)
	p[0] = to8(clamp01(r) * a)
	p[1] = to8(clamp01(g) * a)
	p[2] = to8(clamp01(b) * a)
	p[3] = to8(a)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(v*255 + 0.5)
}

// clampUint8 clamps a float32 to [0, 255] and converts to uint8.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5) // Round to nearest
}
