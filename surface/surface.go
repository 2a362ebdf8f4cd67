// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/svg/geom"
)

// Surface is a canvas-style 2D drawing target.
//
// Path coordinates are user units: every MoveTo, LineTo and curve call
// maps its points through the current transformation matrix at the time
// of the call, as an HTML canvas does. Paints are evaluated in the user
// space that is current when Fill or Stroke runs.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine, or external synchronization must be used.
//
// Example usage:
//
//	s := surface.NewImageSurface(200, 100)
//	defer s.Close()
//
//	s.SetFillPaint(surface.Solid(units.RGB(1, 0, 0)))
//	s.BeginPath()
//	s.Rect(10, 10, 50, 50)
//	_ = s.Fill(surface.FillRuleNonZero)
//
//	img := s.ImageData()
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Save pushes the transform, clip, paints, stroke style, font and
	// global alpha.
	Save()

	// Restore pops the state pushed by the matching Save.
	// Unbalanced calls are ignored.
	Restore()

	// Transform post-multiplies the current matrix by m, so m applies to
	// coordinates before the existing transform.
	Transform(m geom.Matrix)

	// SetTransform replaces the current matrix.
	SetTransform(m geom.Matrix)

	// Matrix returns the current matrix.
	Matrix() geom.Matrix

	// BeginPath discards the current path.
	BeginPath()

	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticTo(cx, cy, x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()

	// Rect appends a closed rectangle subpath.
	Rect(x, y, w, h float64)

	// Fill fills the current path with the fill paint.
	// The path is kept so that a stroke may follow.
	Fill(rule FillRule) error

	// Stroke strokes the current path with the stroke paint and style.
	// The path is kept.
	Stroke() error

	// Clip intersects the clip region with the current path and
	// discards the path.
	Clip(rule FillRule)

	SetFillPaint(p Paint)
	SetStrokePaint(p Paint)
	SetStrokeStyle(s StrokeStyle)

	// SetGlobalAlpha multiplies the alpha of every subsequent paint.
	SetGlobalAlpha(alpha float64)

	// PushLayer redirects drawing into a transparent layer that is
	// composited with the given opacity by PopLayer.
	PushLayer(opacity float64)
	PopLayer()

	SetFont(f Font)
	MeasureText(s string) TextMetrics

	// FillText fills s with its baseline origin at (x, y).
	FillText(s string, x, y float64) error

	// StrokeText strokes the outline of s.
	StrokeText(s string, x, y float64) error

	// DrawImage draws img scaled into the user-space rectangle
	// (x, y, w, h) under the current transform.
	DrawImage(img image.Image, x, y, w, h float64) error

	// ImageData returns a copy of the pixels.
	ImageData() *image.RGBA

	// PutImageData writes img at device position (x, y), ignoring the
	// transform, clip and alpha.
	PutImageData(img *image.RGBA, x, y int)

	// Clear fills the whole surface with c, ignoring the clip.
	Clear(c color.Color)

	// NewSurface creates an off-screen surface of the same backend.
	NewSurface(width, height int) (Surface, error)

	// Close releases resources associated with the surface.
	// After Close, the surface should not be used.
	Close() error
}
