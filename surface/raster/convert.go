// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"fmt"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
)

func errInvalidSize(w, h int) error {
	return fmt.Errorf("raster: invalid surface size %dx%d", w, h)
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func fixedPt(p geom.Point) fixed.Point26_6 {
	return rasterx.ToFixedP(p.X, p.Y)
}

// addPath feeds the device-space path p to a rasterx adder. Open
// subpaths are closed when closeAll is set, as fills require.
func addPath(a rasterx.Adder, p *surface.Path, closeAll bool) {
	open := false
	p.Walk(func(v surface.Verb, pts []geom.Point) {
		switch v {
		case surface.VerbMoveTo:
			if open {
				a.Stop(closeAll)
			}
			a.Start(fixedPt(pts[0]))
			open = true
		case surface.VerbLineTo:
			a.Line(fixedPt(pts[0]))
		case surface.VerbQuadTo:
			a.QuadBezier(fixedPt(pts[0]), fixedPt(pts[1]))
		case surface.VerbCubicTo:
			a.CubeBezier(fixedPt(pts[0]), fixedPt(pts[1]), fixedPt(pts[2]))
		case surface.VerbClose:
			if open {
				a.Stop(true)
				open = false
			}
		}
	})
	if open {
		a.Stop(closeAll)
	}
}

// capFunc maps a line cap to the rasterx cap and the gap function that
// matches it.
func capFunc(c surface.LineCap) (rasterx.CapFunc, rasterx.GapFunc) {
	switch c {
	case surface.LineCapRound:
		return rasterx.RoundCap, rasterx.RoundGap
	case surface.LineCapSquare:
		return rasterx.SquareCap, rasterx.FlatGap
	}
	return rasterx.ButtCap, rasterx.FlatGap
}

func joinMode(j surface.LineJoin) rasterx.JoinMode {
	switch j {
	case surface.LineJoinRound:
		return rasterx.Round
	case surface.LineJoinBevel:
		return rasterx.Bevel
	}
	return rasterx.Miter
}
