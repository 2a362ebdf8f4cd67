package filter

import (
	"math"
	"testing"
)

func TestGaussianKernel(t *testing.T) {
	tests := []struct {
		sigma    float64
		wantSize int
	}{
		{0, 1},
		{-1, 1},
		{1, 7},
		{2.5, 17},
	}
	for _, tt := range tests {
		k := GaussianKernel(tt.sigma)
		if len(k) != tt.wantSize {
			t.Errorf("GaussianKernel(%v) size = %d, want %d", tt.sigma, len(k), tt.wantSize)
		}
		var sum float64
		for _, v := range k {
			sum += float64(v)
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("GaussianKernel(%v) sum = %v, want 1", tt.sigma, sum)
		}
		for i := range len(k) / 2 {
			if k[i] != k[len(k)-1-i] {
				t.Errorf("GaussianKernel(%v) not symmetric at %d", tt.sigma, i)
			}
		}
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	a := CachedGaussianKernel(1.5)
	b := CachedGaussianKernel(1.5)
	if &a[0] != &b[0] {
		t.Error("cached kernel was recomputed")
	}
	if KernelRadius(1.5) != 5 || KernelRadius(0) != 0 {
		t.Errorf("KernelRadius = %d, %d", KernelRadius(1.5), KernelRadius(0))
	}
}
