// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

var red = units.RGB(1, 0, 0)

func isRed(c color.RGBA) bool {
	return c.R > 250 && c.G < 5 && c.B < 5 && c.A > 250
}

func fillRect(s *Surface, x, y, w, h float64) {
	s.BeginPath()
	s.Rect(x, y, w, h)
	_ = s.Fill(surface.FillRuleNonZero)
}

func TestFillRectangle(t *testing.T) {
	s := NewSurface(20, 20)
	s.SetFillPaint(surface.Solid(red))
	fillRect(s, 5, 5, 10, 10)

	img := s.ImageData()
	if !isRed(img.RGBAAt(10, 10)) {
		t.Errorf("inside = %v, want red", img.RGBAAt(10, 10))
	}
	if img.RGBAAt(2, 2).A != 0 {
		t.Errorf("outside = %v, want transparent", img.RGBAAt(2, 2))
	}
}

func TestTransform(t *testing.T) {
	s := NewSurface(20, 20)
	s.SetFillPaint(surface.Solid(red))
	s.Transform(geom.Translate(10, 0))
	s.Transform(geom.Scale(2, 2))
	fillRect(s, 0, 0, 4, 4)

	img := s.ImageData()
	if !isRed(img.RGBAAt(15, 5)) {
		t.Errorf("(15,5) = %v, want red", img.RGBAAt(15, 5))
	}
	if img.RGBAAt(5, 5).A != 0 {
		t.Errorf("(5,5) = %v, want transparent", img.RGBAAt(5, 5))
	}
}

func TestClip(t *testing.T) {
	s := NewSurface(20, 20)
	s.Save()
	s.BeginPath()
	s.Rect(0, 0, 10, 20)
	s.Clip(surface.FillRuleNonZero)
	s.SetFillPaint(surface.Solid(red))
	fillRect(s, 0, 0, 20, 20)
	s.Restore()

	img := s.ImageData()
	if !isRed(img.RGBAAt(5, 10)) {
		t.Errorf("inside clip = %v, want red", img.RGBAAt(5, 10))
	}
	if img.RGBAAt(15, 10).A != 0 {
		t.Errorf("outside clip = %v, want transparent", img.RGBAAt(15, 10))
	}
}

func TestStroke(t *testing.T) {
	s := NewSurface(20, 20)
	s.SetStrokePaint(surface.Solid(red))
	st := surface.DefaultStrokeStyle()
	st.Width = 4
	s.SetStrokeStyle(st)
	s.BeginPath()
	s.MoveTo(2, 10)
	s.LineTo(18, 10)
	_ = s.Stroke()

	img := s.ImageData()
	if !isRed(img.RGBAAt(10, 10)) {
		t.Errorf("on line = %v, want red", img.RGBAAt(10, 10))
	}
	if img.RGBAAt(10, 2).A != 0 {
		t.Errorf("off line = %v, want transparent", img.RGBAAt(10, 2))
	}
}

func TestLayerOpacity(t *testing.T) {
	s := NewSurface(10, 10)
	s.PushLayer(0.5)
	s.SetFillPaint(surface.Solid(red))
	fillRect(s, 0, 0, 10, 10)
	s.PopLayer()

	a := s.ImageData().RGBAAt(5, 5).A
	if a < 120 || a > 136 {
		t.Errorf("alpha = %d, want ~128", a)
	}
}

func TestGradient(t *testing.T) {
	s := NewSurface(100, 10)
	s.SetFillPaint(surface.NewLinearGradient(0, 0, 100, 0, []surface.Stop{
		{Offset: 0, Color: units.Black},
		{Offset: 1, Color: units.White},
	}, surface.SpreadPad))
	fillRect(s, 0, 0, 100, 10)

	img := s.ImageData()
	if l, r := img.RGBAAt(10, 5).R, img.RGBAAt(90, 5).R; l >= r {
		t.Errorf("left %d >= right %d, want increasing ramp", l, r)
	}
}

func TestText(t *testing.T) {
	s := NewSurface(100, 40)
	s.SetFont(surface.Font{Family: "sans-serif", Size: 20, Weight: 400})
	m := s.MeasureText("Hello")
	if m.Width <= 0 || m.Ascent <= 0 {
		t.Fatalf("MeasureText = %+v, want positive width and ascent", m)
	}
	if s.MeasureText("HelloHello").Width <= m.Width {
		t.Error("longer text is not wider")
	}
	if err := s.FillText("Hello", 5, 30); err != nil {
		t.Fatal(err)
	}
	img := s.ImageData()
	ink := false
	for y := 0; y < 40 && !ink; y++ {
		for x := 0; x < 100; x++ {
			if img.RGBAAt(x, y).A > 0 {
				ink = true
				break
			}
		}
	}
	if !ink {
		t.Error("FillText drew nothing")
	}
}

func TestDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	s := NewSurface(10, 10)
	if err := s.DrawImage(src, 2, 2, 6, 6); err != nil {
		t.Fatal(err)
	}
	img := s.ImageData()
	if !isRed(img.RGBAAt(5, 5)) {
		t.Errorf("inside = %v, want red", img.RGBAAt(5, 5))
	}
	if img.RGBAAt(0, 0).A != 0 {
		t.Errorf("outside = %v, want transparent", img.RGBAAt(0, 0))
	}
}

func TestRegistered(t *testing.T) {
	s, err := surface.NewSurfaceByName("rasterx", 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*Surface); !ok {
		t.Errorf("NewSurfaceByName returned %T", s)
	}
}
