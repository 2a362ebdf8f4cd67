package recording

import (
	"image"
	"testing"

	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

func TestNewResourcePool(t *testing.T) {
	pool := NewResourcePool()
	if pool.PathCount() != 0 || pool.PaintCount() != 0 || pool.ImageCount() != 0 {
		t.Errorf("new pool not empty: %d paths, %d paints, %d images",
			pool.PathCount(), pool.PaintCount(), pool.ImageCount())
	}
}

func TestResourcePool_AddPathClones(t *testing.T) {
	pool := NewResourcePool()
	p := surface.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	ref := pool.AddPath(p)
	p.LineTo(10, 10)

	if got := len(pool.GetPath(ref).Verbs()); got != 2 {
		t.Errorf("pooled path has %d verbs, want 2", got)
	}
	if pool.GetPath(PathRef(99)) != nil {
		t.Error("GetPath out of range should be nil")
	}
}

func TestResourcePool_AddPaintDedup(t *testing.T) {
	pool := NewResourcePool()
	red := surface.Solid(units.RGB(1, 0, 0))
	grad := surface.NewLinearGradient(0, 0, 1, 0, nil, surface.SpreadPad)

	tests := []struct {
		name  string
		paint surface.Paint
		want  PaintRef
	}{
		{"first solid", red, 0},
		{"same solid", surface.Solid(units.RGB(1, 0, 0)), 0},
		{"gradient", grad, 1},
		{"same gradient", grad, 1},
		{"other solid", surface.Solid(units.Black), 2},
		{"nil", nil, PaintRef(InvalidRef)},
	}
	for _, tt := range tests {
		if got := pool.AddPaint(tt.paint); got != tt.want {
			t.Errorf("%s: AddPaint = %d, want %d", tt.name, got, tt.want)
		}
	}
	if pool.PaintCount() != 3 {
		t.Errorf("PaintCount() = %d, want 3", pool.PaintCount())
	}
}

func TestResourcePool_Images(t *testing.T) {
	pool := NewResourcePool()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	a := pool.AddImage(img)
	b := pool.AddImage(img)

	if a == b || pool.ImageCount() != 2 {
		t.Errorf("refs %d, %d with %d images, want distinct slots", a, b, pool.ImageCount())
	}
	if pool.GetImage(a) != image.Image(img) {
		t.Error("GetImage did not return the stored image")
	}
	if pool.GetImage(ImageRef(InvalidRef)) != nil {
		t.Error("GetImage(InvalidRef) should be nil")
	}
}
