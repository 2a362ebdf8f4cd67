// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface defines the drawing target that SVG documents are
// painted onto.
//
// Surface is a canvas-2D style contract: path construction, fill and
// stroke with paint sources, a transform and clip stack, layers with
// opacity, text drawing and metrics, image drawing, and pixel buffer
// read and write. The renderer only talks to this interface, so the same
// document can be drawn by:
//
//   - ImageSurface, backed by a github.com/gogpu/gg context (default)
//   - surface/raster, backed by github.com/srwiley/rasterx
//   - recording.Recorder, which records commands for inspection
//
// # Paints
//
// SolidPaint, LinearGradient, RadialGradient and PatternPaint implement
// Paint. A paint is sampled in the user space that is current when Fill or
// Stroke is called, so gradient and pattern geometry follows the shape's
// transform.
//
// # Backend Registry
//
// Backends register under a name and priority:
//
//	surface.Register("rasterx", 5, factory, nil)
//
//	s, err := surface.NewSurface(800, 600)              // best available
//	s, err := surface.NewSurfaceByName("rasterx", 800, 600)
//
// # Thread Safety
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine. The registry itself is safe for concurrent use.
package surface
