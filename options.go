package svg

import (
	"context"
	"image"

	"golang.org/x/text/language"
)

// ParseOption configures a Document during parsing.
//
// Example:
//
//	doc, err := svg.ParseFile("icon.svg",
//	    svg.WithFontSize(12),
//	    svg.WithAssetConcurrency(8))
type ParseOption func(*parseOptions)

// parseOptions holds optional configuration for parsing.
type parseOptions struct {
	ctx          context.Context
	fetcher      Fetcher
	baseURL      string
	decodeImage  func([]byte) (image.Image, error)
	fontSize     float64
	eqStep       float64
	eqPrecision  float64
	concurrency  int
	strictPaths  bool
	loadExternal bool
	languages    []language.Tag

	// ancestors holds the URLs of the documents enclosing a nested one,
	// outermost first.
	ancestors []string
}

// defaultParseOptions returns the default parse options.
func defaultParseOptions() parseOptions {
	return parseOptions{
		ctx:          context.Background(),
		fetcher:      DefaultFetcher(),
		fontSize:     16,
		eqStep:       1,
		eqPrecision:  1,
		concurrency:  4,
		loadExternal: true,
		languages:    []language.Tag{language.English},
	}
}

// WithContext sets the context that bounds asset loading. Cancelling it
// marks every pending asset as loaded with no content.
func WithContext(ctx context.Context) ParseOption {
	return func(o *parseOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithFetcher replaces the fetcher used for images, fonts and nested
// documents.
func WithFetcher(f Fetcher) ParseOption {
	return func(o *parseOptions) {
		if f != nil {
			o.fetcher = f
		}
	}
}

// WithBaseURL sets the URL relative references resolve against. A plain
// directory path is accepted as well.
func WithBaseURL(base string) ParseOption {
	return func(o *parseOptions) {
		o.baseURL = base
	}
}

// WithImageDecoder replaces image.Decode for raster images.
func WithImageDecoder(decode func([]byte) (image.Image, error)) ParseOption {
	return func(o *parseOptions) {
		if decode != nil {
			o.decodeImage = decode
		}
	}
}

// WithFontSize sets the root em size in pixels. Default: 16.
func WithFontSize(px float64) ParseOption {
	return func(o *parseOptions) {
		if px > 0 {
			o.fontSize = px
		}
	}
}

// WithEquidistantCache configures text-on-path sampling. step is the
// distance between cached samples along the path and precision the
// flattening tolerance used to build them, both in user units.
// Smaller values are more accurate and slower. Default: 1, 1.
func WithEquidistantCache(step, precision float64) ParseOption {
	return func(o *parseOptions) {
		if step > 0 {
			o.eqStep = step
		}
		if precision > 0 {
			o.eqPrecision = precision
		}
	}
}

// WithAssetConcurrency bounds the number of assets fetched at once.
// Default: 4.
func WithAssetConcurrency(n int) ParseOption {
	return func(o *parseOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLanguages sets the user languages, as BCP 47 tags, that
// systemLanguage conditions inside switch are matched against. Invalid
// tags are ignored. Default: en.
func WithLanguages(tags ...string) ParseOption {
	return func(o *parseOptions) {
		var langs []language.Tag
		for _, t := range tags {
			if tag, err := language.Parse(t); err == nil {
				langs = append(langs, tag)
			}
		}
		if len(langs) > 0 {
			o.languages = langs
		}
	}
}

// WithStrictPaths makes malformed path data drop the whole path instead
// of keeping the commands before the error.
func WithStrictPaths() ParseOption {
	return func(o *parseOptions) {
		o.strictPaths = true
	}
}

// WithoutExternalAssets skips fetching images, fonts and nested
// documents. They are treated as loaded with no content.
func WithoutExternalAssets() ParseOption {
	return func(o *parseOptions) {
		o.loadExternal = false
	}
}

// RenderOption configures Render, Start and Frame.
//
// Example:
//
//	err := doc.Render(ctx, sf, svg.ScaleTo(256, 256), svg.IgnoreAnimation())
type RenderOption func(*renderOptions)

type renderOptions struct {
	ignoreAnimation  bool
	ignoreMouse      bool
	ignoreDimensions bool
	ignoreClear      bool
	scaleWidth       float64
	scaleHeight      float64
	offsetX          float64
	offsetY          float64
	enableRedraw     bool
	forceRedraw      func() bool
	frameRate        float64
	viewportWidth    float64
	viewportHeight   float64
}

func defaultRenderOptions() renderOptions {
	return renderOptions{frameRate: 30}
}

func newRenderOptions(opts []RenderOption) renderOptions {
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// IgnoreAnimation renders the document as authored, without applying
// animation values.
func IgnoreAnimation() RenderOption {
	return func(o *renderOptions) { o.ignoreAnimation = true }
}

// IgnoreMouse disables hit testing and mouse event dispatch.
func IgnoreMouse() RenderOption {
	return func(o *renderOptions) { o.ignoreMouse = true }
}

// IgnoreDimensions ignores the width and height of the root element and
// renders into the full viewport.
func IgnoreDimensions() RenderOption {
	return func(o *renderOptions) { o.ignoreDimensions = true }
}

// IgnoreClear keeps the existing surface contents instead of clearing
// to transparent before each frame.
func IgnoreClear() RenderOption {
	return func(o *renderOptions) { o.ignoreClear = true }
}

// ScaleTo fits the document into a w x h box, preserving its aspect
// ratio.
func ScaleTo(w, h float64) RenderOption {
	return func(o *renderOptions) {
		o.scaleWidth, o.scaleHeight = w, h
	}
}

// Offset translates the rendered document by (x, y) pixels.
func Offset(x, y float64) RenderOption {
	return func(o *renderOptions) {
		o.offsetX, o.offsetY = x, y
	}
}

// EnableRedraw repaints every frame of a running loop, even when nothing
// changed.
func EnableRedraw() RenderOption {
	return func(o *renderOptions) { o.enableRedraw = true }
}

// ForceRedraw installs a predicate consulted each frame; returning true
// forces a repaint.
func ForceRedraw(fn func() bool) RenderOption {
	return func(o *renderOptions) { o.forceRedraw = fn }
}

// FrameRate sets the frame loop rate in frames per second. Default: 30.
func FrameRate(fps float64) RenderOption {
	return func(o *renderOptions) {
		if fps > 0 {
			o.frameRate = fps
		}
	}
}

// ViewportSize overrides the root viewport, which otherwise equals the
// surface size.
func ViewportSize(w, h float64) RenderOption {
	return func(o *renderOptions) {
		o.viewportWidth, o.viewportHeight = w, h
	}
}
