// Package geom is the geometry kernel of the SVG renderer.
//
// It provides points and vectors, 2D affine matrices, Bézier evaluation,
// bounding boxes that are widened by curve extrema, and the elliptical-arc
// math used by path data, markers and text-on-path layout.
//
// # Coordinate System
//
// Same as SVG and the drawing surfaces:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians, positive angles rotate from +X towards +Y
//
// # Matrix Layout
//
// Matrix is stored row-major as
//
//	| A  B  C |
//	| D  E  F |
//
// which maps (x, y) to (A*x + B*y + C, D*x + E*y + F). SVG writes the same
// transform as matrix(a b c d e f) in column order; use FromSVG to convert.
package geom
