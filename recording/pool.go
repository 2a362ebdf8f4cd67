package recording

import (
	"image"

	"github.com/gogpu/svg/surface"
)

// table is an append-only slice addressed by index.
type table[T any] []T

func (t *table[T]) add(v T) uint32 {
	*t = append(*t, v)
	// #nosec G115 -- a recording never holds 2^32 resources
	return uint32(len(*t) - 1)
}

func (t table[T]) at(i uint32) (v T) {
	if int(i) < len(t) {
		v = t[i]
	}
	return v
}

// ResourcePool holds the paths, paints and images that commands refer to
// by index. Paths are cloned on insertion since the recorder keeps
// editing its current path. Identical solid paints and repeated gradient
// or pattern pointers share one slot.
//
// ResourcePool is not safe for concurrent use.
type ResourcePool struct {
	paths  table[*surface.Path]
	paints table[surface.Paint]
	images table[image.Image]
}

// NewResourcePool returns an empty pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{paths: make(table[*surface.Path], 0, 64)}
}

// AddPath stores a clone of path.
func (p *ResourcePool) AddPath(path *surface.Path) PathRef {
	if path != nil {
		path = path.Clone()
	}
	return PathRef(p.paths.add(path))
}

// GetPath returns the referenced path, or nil.
func (p *ResourcePool) GetPath(ref PathRef) *surface.Path { return p.paths.at(uint32(ref)) }

// PathCount returns the number of stored paths.
func (p *ResourcePool) PathCount() int { return len(p.paths) }

// AddPaint stores paint unless an equivalent one is already present.
// A nil paint yields InvalidRef.
func (p *ResourcePool) AddPaint(paint surface.Paint) PaintRef {
	if paint == nil {
		return PaintRef(InvalidRef)
	}
	for i, q := range p.paints {
		if samePaint(q, paint) {
			return PaintRef(uint32(i)) // #nosec G115
		}
	}
	return PaintRef(p.paints.add(paint))
}

func samePaint(a, b surface.Paint) bool {
	switch av := a.(type) {
	case surface.SolidPaint:
		bv, ok := b.(surface.SolidPaint)
		return ok && av == bv
	case *surface.LinearGradient, *surface.RadialGradient, *surface.PatternPaint:
		return a == b
	}
	return false
}

// GetPaint returns the referenced paint, or nil.
func (p *ResourcePool) GetPaint(ref PaintRef) surface.Paint { return p.paints.at(uint32(ref)) }

// PaintCount returns the number of distinct stored paints.
func (p *ResourcePool) PaintCount() int { return len(p.paints) }

// AddImage stores img. Images are shared, not copied.
func (p *ResourcePool) AddImage(img image.Image) ImageRef { return ImageRef(p.images.add(img)) }

// GetImage returns the referenced image, or nil.
func (p *ResourcePool) GetImage(ref ImageRef) image.Image { return p.images.at(uint32(ref)) }

// ImageCount returns the number of stored images.
func (p *ResourcePool) ImageCount() int { return len(p.images) }
