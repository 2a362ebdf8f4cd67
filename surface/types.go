// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image/color"
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule uint8

const (
	// FillRuleNonZero uses the non-zero winding rule.
	// A point is inside if the winding number is non-zero.
	FillRuleNonZero FillRule = iota

	// FillRuleEvenOdd uses the even-odd rule.
	// A point is inside if the winding number is odd.
	FillRuleEvenOdd
)

// String returns the SVG keyword for the rule.
func (r FillRule) String() string {
	if r == FillRuleEvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// LineCap specifies the shape of line endpoints.
type LineCap uint8

const (
	// LineCapButt ends lines exactly at the endpoint.
	LineCapButt LineCap = iota

	// LineCapRound adds a semicircle at line endpoints.
	LineCapRound

	// LineCapSquare adds a half-square at line endpoints.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin uint8

const (
	// LineJoinMiter creates sharp corners.
	LineJoinMiter LineJoin = iota

	// LineJoinRound creates rounded corners.
	LineJoinRound

	// LineJoinBevel creates beveled corners.
	LineJoinBevel
)

// StrokeStyle defines how paths are stroked. The stroke paint is set
// separately with Surface.SetStrokePaint.
type StrokeStyle struct {
	// Width is the line width in user units. Default: 1.0
	Width float64

	// Cap is the line cap style. Default: LineCapButt
	Cap LineCap

	// Join is the line join style. Default: LineJoinMiter
	Join LineJoin

	// MiterLimit limits the length of miter joins. Default: 4.0
	MiterLimit float64

	// Dash alternates dash and gap lengths. Empty means solid.
	Dash []float64

	// DashOffset shifts the start of the dash pattern.
	DashOffset float64
}

// DefaultStrokeStyle returns the SVG initial stroke properties.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}
}

// Dashed reports whether the style has a usable dash pattern: at least
// one positive length and no negative ones.
func (s StrokeStyle) Dashed() bool {
	sum := 0.0
	for _, d := range s.Dash {
		if d < 0 {
			return false
		}
		sum += d
	}
	return sum > 0
}

// Font selects a face for text operations.
type Font struct {
	// Family is a comma separated family list. Unknown families fall back
	// to the backend default.
	Family string

	// Size is the em size in user units.
	Size float64

	// Weight is the CSS numeric weight (400 normal, 700 bold).
	Weight int

	// Italic selects an italic or oblique face.
	Italic bool
}

// Bold reports whether the weight calls for a bold face.
func (f Font) Bold() bool {
	return f.Weight >= 600
}

// TextMetrics describes a measured string in user units.
type TextMetrics struct {
	// Width is the advance width of the string.
	Width float64

	// Ascent is the distance from the baseline to the top of the face.
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the
	// face, positive downwards.
	Descent float64
}

// Options configures surface creation.
type Options struct {
	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int

	// Antialias enables anti-aliasing where the backend supports
	// turning it off. Default: true
	Antialias bool

	// BackgroundColor is the initial fill color.
	// nil means transparent.
	BackgroundColor color.Color
}

// DefaultOptions returns default surface options.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:     width,
		Height:    height,
		Antialias: true,
	}
}
