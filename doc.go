// Package svg parses, renders and animates SVG documents.
//
// # Overview
//
// A Document is parsed once and painted any number of times onto a
// surface.Surface, a canvas-2D style drawing target. The default surface
// is backed by github.com/gogpu/gg; surface/raster and recording provide
// alternatives.
//
// # Quick Start
//
//	doc, err := svg.ParseFile("logo.svg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sf := surface.NewImageSurface(512, 512)
//	if err := doc.Render(ctx, sf, svg.ScaleTo(512, 512)); err != nil {
//	    log.Fatal(err)
//	}
//	png.Encode(out, sf.ImageData())
//
// # Pipeline
//
// Parsing builds the element tree, resolves <style> sheets and inline
// declarations into per-element styles, registers SVG fonts and animation
// tracks and starts loading referenced images and fonts in the
// background. Painting walks the tree once per frame: every element kind
// has an entry in a dispatch table with hooks for context setup, geometry,
// bounding box, paint server and filter primitive behavior.
//
// Supported content:
//   - shapes and path data, markers, use, symbol, switch, nested svg
//   - linear and radial gradients, patterns, clip paths, masks
//   - filters: feGaussianBlur, feOffset, feColorMatrix, feComposite,
//     feFlood, feMerge
//   - text, tspan and textPath, system fonts and SVG fonts
//   - animate, animateColor, animateTransform and set
//   - image with raster content or nested SVG documents
//
// # Readiness
//
// Referenced assets load concurrently. Frames painted before every asset
// has loaded are provisional; Ready, IsReady and WaitReady expose the
// gate and Render waits on it.
//
// # Animation
//
// Start runs a frame loop on its own goroutine that repaints only when an
// animated value changed, a mouse event is pending or a redraw is forced.
// Callers owning their frame timing use Tick and Frame instead.
//
// # Logging
//
// The package logs through log/slog and is silent by default; see
// SetLogger.
package svg
