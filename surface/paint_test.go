// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/units"
)

func colorsClose(a, b units.Color, eps float64) bool {
	return math.Abs(a.R-b.R) <= eps && math.Abs(a.G-b.G) <= eps &&
		math.Abs(a.B-b.B) <= eps && math.Abs(a.A-b.A) <= eps
}

var (
	black = units.Black
	white = units.White
	bw    = []Stop{{Offset: 0, Color: black}, {Offset: 1, Color: white}}
)

func TestApplySpread(t *testing.T) {
	tests := []struct {
		t      float64
		spread Spread
		want   float64
	}{
		{-0.5, SpreadPad, 0},
		{1.5, SpreadPad, 1},
		{0.25, SpreadPad, 0.25},
		{1.25, SpreadRepeat, 0.25},
		{-0.25, SpreadRepeat, 0.75},
		{1.25, SpreadReflect, 0.75},
		{2.25, SpreadReflect, 0.25},
		{-0.25, SpreadReflect, 0.25},
	}
	for _, tt := range tests {
		if got := applySpread(tt.t, tt.spread); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("applySpread(%v, %d) = %v, want %v", tt.t, tt.spread, got, tt.want)
		}
	}
}

func TestNormalizeStops(t *testing.T) {
	got := NormalizeStops([]Stop{{Offset: -1}, {Offset: 0.6}, {Offset: 0.4}, {Offset: 2}})
	want := []float64{0, 0.6, 0.6, 1}
	for i, s := range got {
		if s.Offset != want[i] {
			t.Errorf("stop %d offset = %v, want %v", i, s.Offset, want[i])
		}
	}
}

func TestLinearGradient(t *testing.T) {
	g := NewLinearGradient(0, 0, 100, 0, bw, SpreadPad)
	tests := []struct {
		x, y float64
		want float64
	}{
		{0, 0, 0},
		{50, 30, 0.5},
		{100, -7, 1},
		{-20, 0, 0},
		{150, 0, 1},
	}
	for _, tt := range tests {
		got := g.ColorAt(tt.x, tt.y)
		if math.Abs(got.R-tt.want) > 1e-9 {
			t.Errorf("ColorAt(%v, %v).R = %v, want %v", tt.x, tt.y, got.R, tt.want)
		}
	}
}

func TestLinearGradientTransform(t *testing.T) {
	g := NewLinearGradient(0, 0, 1, 0, bw, SpreadPad)
	g.Transform = geom.Scale(200, 1)
	if got := g.ColorAt(100, 0); math.Abs(got.R-0.5) > 1e-9 {
		t.Errorf("ColorAt(100, 0).R = %v, want 0.5", got.R)
	}
}

func TestLinearGradientDegenerate(t *testing.T) {
	g := NewLinearGradient(5, 5, 5, 5, []Stop{
		{Offset: 0, Color: black},
		{Offset: 1, Color: units.RGB(1, 0, 0)},
	}, SpreadPad)
	if got := g.ColorAt(0, 0); got != units.RGB(1, 0, 0) {
		t.Errorf("degenerate gradient = %v, want last stop", got)
	}
}

func TestRadialGradient(t *testing.T) {
	g := NewRadialGradient(50, 50, 50, 50, 50, 0, bw, SpreadPad)
	tests := []struct {
		x, y float64
		want float64
	}{
		{50, 50, 0},
		{75, 50, 0.5},
		{50, 0, 1},
		{0, 0, 1},
	}
	for _, tt := range tests {
		got := g.ColorAt(tt.x, tt.y)
		if math.Abs(got.R-tt.want) > 1e-9 {
			t.Errorf("ColorAt(%v, %v).R = %v, want %v", tt.x, tt.y, got.R, tt.want)
		}
	}
}

func TestRadialGradientFocal(t *testing.T) {
	g := NewRadialGradient(0, 0, 10, -5, 0, 0, bw, SpreadPad)
	if got := g.ColorAt(-5, 0); got.R > 1e-9 {
		t.Errorf("focal point = %v, want first stop", got.R)
	}
	// Halfway from the focus to the circle edge on either side.
	if got := g.ColorAt(2.5, 0); math.Abs(got.R-0.5) > 1e-9 {
		t.Errorf("right midpoint = %v, want 0.5", got.R)
	}
	if got := g.ColorAt(-7.5, 0); math.Abs(got.R-0.5) > 1e-9 {
		t.Errorf("left midpoint = %v, want 0.5", got.R)
	}
}

func TestRadialGradientFocalClamped(t *testing.T) {
	g := NewRadialGradient(0, 0, 10, 30, 0, 0, bw, SpreadPad)
	if d := math.Hypot(g.Fx-g.Cx, g.Fy-g.Cy); d >= g.R {
		t.Errorf("focal distance %v not inside radius %v", d, g.R)
	}
}

func TestRadialGradientZeroRadius(t *testing.T) {
	g := NewRadialGradient(0, 0, 0, 0, 0, 0, bw, SpreadPad)
	if got := g.ColorAt(3, 3); got != white {
		t.Errorf("zero radius = %v, want last stop", got)
	}
}

func TestPatternPaintWraps(t *testing.T) {
	tile := image.NewRGBA(image.Rect(0, 0, 2, 1))
	tile.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	tile.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	p := NewPatternPaint(tile, geom.Scale(10, 10))
	tests := []struct {
		x, y float64
		want units.Color
	}{
		{5, 5, units.RGB(1, 0, 0)},
		{15, 5, units.RGB(0, 0, 1)},
		{25, 15, units.RGB(1, 0, 0)},
		{-5, -5, units.RGB(0, 0, 1)},
	}
	for _, tt := range tests {
		if got := p.ColorAt(tt.x, tt.y); !colorsClose(got, tt.want, 1e-9) {
			t.Errorf("ColorAt(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSampleImageNoRepeat(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	if got := sampleImage(img, 2, 0, false); got != units.Transparent {
		t.Errorf("outside = %v, want transparent", got)
	}
	if got := sampleImage(img, math.NaN(), 0, true); got != units.Transparent {
		t.Errorf("NaN = %v, want transparent", got)
	}
}

func TestStrokeStyleDashed(t *testing.T) {
	tests := []struct {
		dash []float64
		want bool
	}{
		{nil, false},
		{[]float64{0, 0}, false},
		{[]float64{4, 2}, true},
		{[]float64{4, -2}, false},
	}
	for _, tt := range tests {
		if got := (StrokeStyle{Dash: tt.dash}).Dashed(); got != tt.want {
			t.Errorf("Dashed(%v) = %v, want %v", tt.dash, got, tt.want)
		}
	}
}
