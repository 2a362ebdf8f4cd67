package filter

import (
	"math"
	"sync"
)

// KernelRadius returns how many pixels a blur with sigma reaches beyond
// its input: three standard deviations, rounded up.
func KernelRadius(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(math.Ceil(sigma * 3))
}

// GaussianKernel returns the normalized 1D Gaussian weights for sigma,
// 2*KernelRadius(sigma)+1 taps long. A non-positive sigma gives [1].
func GaussianKernel(sigma float64) []float32 {
	half := KernelRadius(sigma)
	if half == 0 {
		return []float32{1}
	}
	w := make([]float64, 2*half+1)
	var sum float64
	for i := range w {
		x := float64(i - half)
		w[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += w[i]
	}
	k := make([]float32, len(w))
	for i, v := range w {
		k[i] = float32(v / sum)
	}
	return k
}

// maxCachedKernels bounds the kernel cache. Documents rarely use more
// than a handful of distinct deviations.
const maxCachedKernels = 64

var (
	kernelMu    sync.Mutex
	kernelCache = map[int][]float32{}
)

// CachedGaussianKernel returns GaussianKernel for sigma quantized to
// 0.01, sharing the slice between callers. Callers must not modify it.
func CachedGaussianKernel(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))

	kernelMu.Lock()
	defer kernelMu.Unlock()
	if k, ok := kernelCache[key]; ok {
		return k
	}
	if len(kernelCache) >= maxCachedKernels {
		clear(kernelCache)
	}
	k := GaussianKernel(float64(key) / 100)
	kernelCache[key] = k
	return k
}
