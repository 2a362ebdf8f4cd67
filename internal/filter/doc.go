// Package filter implements the pixel-buffer effects used by SVG filter
// primitives and masks.
//
// Every filter reads and writes premultiplied *image.RGBA buffers of the
// same size:
//   - Gaussian blur (separable, per-axis standard deviation)
//   - Color matrix (matrix, saturate, hueRotate, luminanceToAlpha)
//   - Offset, flood and drop shadow
//   - Morphology (dilate, erode)
//   - Porter-Duff and arithmetic compositing
//   - Luminance masking
//
// Color math runs on unpremultiplied components in sRGB space.
package filter
