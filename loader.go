package svg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	// Raster formats accepted by <image>.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errMalformedDataURL = errors.New("svg: malformed data URL")

// maxFetchSize limits the bytes read for one asset over HTTP.
const maxFetchSize = 64 << 20

// Fetcher retrieves referenced resources: images, fonts and nested
// documents.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// DefaultFetcher returns the fetcher used when none is configured. It
// decodes data: URIs, reads file: URLs and plain paths from disk and
// fetches http and https URLs.
func DefaultFetcher() Fetcher {
	return defaultFetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

type defaultFetcher struct {
	client *http.Client
}

func (f defaultFetcher) Fetch(ctx context.Context, raw string) ([]byte, error) {
	if strings.HasPrefix(raw, "data:") {
		return decodeDataURL(raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("svg: fetch %q: %w", raw, err)
	}
	switch u.Scheme {
	case "", "file":
		data, err := os.ReadFile(filepath.FromSlash(u.Path))
		if err != nil {
			return nil, fmt.Errorf("svg: fetch: %w", err)
		}
		return data, nil
	case "http", "https":
		return f.get(ctx, u.String())
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
}

func (f defaultFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("svg: fetch %s: %w", u, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("svg: fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetchStatus, u, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("svg: fetch %s: %w", u, err)
	}
	return data, nil
}

// decodeDataURL decodes "data:[<mediatype>][;base64],<data>".
func decodeDataURL(s string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, errMalformedDataURL
	}
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("svg: data URL: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("svg: data URL: %w", err)
	}
	return []byte(data), nil
}

// fileURL returns the file: URL of an absolute path.
func fileURL(abs string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// parseBase parses the base URL of a document. A plain path is turned
// into a file: URL; directories get a trailing slash so relative
// references resolve inside them.
func parseBase(s string) *url.URL {
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return u
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return nil
	}
	if fi, err := os.Stat(abs); err == nil && fi.IsDir() {
		abs += string(filepath.Separator)
	}
	u, err := url.Parse(fileURL(abs))
	if err != nil {
		return nil
	}
	if strings.HasSuffix(abs, string(filepath.Separator)) && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u
}

// resolve makes href absolute against the document base URL.
func (d *Document) resolve(href string) string {
	if d.base == nil || strings.HasPrefix(href, "data:") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return d.base.ResolveReference(ref).String()
}

// imageAsset is the content of an <image>: a raster image or a nested
// document. The content fields are written once before loaded is set.
type imageAsset struct {
	href   string
	loaded atomic.Bool
	img    image.Image
	doc    *Document
}

// size returns the intrinsic size of the loaded content.
func (a *imageAsset) size() (w, h float64) {
	if a == nil || !a.loaded.Load() {
		return 0, 0
	}
	switch {
	case a.img != nil:
		b := a.img.Bounds()
		return float64(b.Dx()), float64(b.Dy())
	case a.doc != nil:
		return a.doc.Size()
	}
	return 0, 0
}

func (a *imageAsset) empty() bool { return a.img == nil && a.doc == nil }

// fontAsset is an external SVG font named by an @font-face rule.
type fontAsset struct {
	family string
	href   string
	loaded atomic.Bool
	font   *svgFont
	doc    *Document
}

// startLoading queues every referenced image and external font and
// fetches them in the background. The readiness gate opens when all of
// them, and the documents nested in them, have finished.
func (d *Document) startLoading() {
	for _, e := range d.elements {
		if e.kind != KindImage || !e.HasAttr("href") {
			continue
		}
		a := &imageAsset{href: strings.TrimSpace(e.Attr("href").String())}
		e.image = a
		d.images = append(d.images, a)
	}

	d.ready = newReadiness()
	d.ready.waitFor(func() bool {
		for _, a := range d.images {
			if !a.loaded.Load() || (a.doc != nil && !a.doc.IsReady()) {
				return false
			}
		}
		return true
	})
	d.ready.waitFor(func() bool {
		for _, f := range d.faces {
			if !f.loaded.Load() {
				return false
			}
		}
		return true
	})

	if !d.opts.loadExternal {
		for _, a := range d.images {
			a.loaded.Store(true)
		}
		for _, f := range d.faces {
			f.loaded.Store(true)
		}
		d.ready.check()
		return
	}
	if len(d.images) == 0 && len(d.faces) == 0 {
		d.ready.check()
		return
	}

	ctx := d.opts.ctx
	var g errgroup.Group
	g.SetLimit(d.opts.concurrency)
	go func() {
		for _, a := range d.images {
			g.Go(func() error {
				d.loadImage(ctx, a)
				return nil
			})
		}
		for _, f := range d.faces {
			g.Go(func() error {
				d.loadFont(ctx, f)
				return nil
			})
		}
		_ = g.Wait()
		d.ready.check()
		Logger().Info("svg: assets loaded", "images", len(d.images), "fonts", len(d.faces))
	}()
}

// fetch retrieves an asset, honoring cancellation of ctx.
func (d *Document) fetch(ctx context.Context, href string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	u := d.resolve(href)
	data, err := d.opts.fetcher.Fetch(ctx, u)
	return data, u, err
}

func (d *Document) loadImage(ctx context.Context, a *imageAsset) {
	defer a.loaded.Store(true)

	if err := d.checkNesting(a.href); err != nil {
		Logger().Warn("svg: image not loaded", "href", a.href, "err", err)
		return
	}
	data, u, err := d.fetch(ctx, a.href)
	if err != nil {
		Logger().Warn("svg: image not loaded", "href", a.href, "err", err)
		return
	}
	if isSVGData(a.href, data) {
		child, err := d.parseChild(ctx, data, u)
		if err != nil {
			Logger().Warn("svg: nested document not loaded", "href", a.href, "err", err)
			return
		}
		if err := child.WaitReady(ctx); err != nil {
			Logger().Warn("svg: nested document not ready", "href", a.href, "err", err)
		}
		a.doc = child
		return
	}

	decode := d.opts.decodeImage
	if decode == nil {
		decode = func(b []byte) (image.Image, error) {
			img, _, err := image.Decode(bytes.NewReader(b))
			return img, err
		}
	}
	img, err := decode(data)
	if err != nil {
		Logger().Warn("svg: image not decoded", "href", a.href, "err", err)
		return
	}
	a.img = img
}

func (d *Document) loadFont(ctx context.Context, f *fontAsset) {
	defer f.loaded.Store(true)

	if err := d.checkNesting(f.href); err != nil {
		Logger().Warn("svg: font not loaded", "href", f.href, "err", err)
		return
	}
	data, u, err := d.fetch(ctx, f.href)
	if err != nil {
		Logger().Warn("svg: font not loaded", "href", f.href, "err", err)
		return
	}
	child, err := d.parseChild(ctx, data, u)
	if err != nil {
		Logger().Warn("svg: font document not parsed", "href", f.href, "err", err)
		return
	}
	var font *svgFont
	if _, frag, ok := strings.Cut(f.href, "#"); ok {
		if e := child.Element(frag); e != nil {
			font = e.svgFont
		}
	}
	if font == nil {
		for _, e := range child.elements {
			if e.svgFont != nil {
				font = e.svgFont
				break
			}
		}
	}
	if font == nil {
		Logger().Warn("svg: no font in document", "href", f.href)
		return
	}
	f.doc, f.font = child, font
}

// parseChild parses a nested document with the options of d and base
// URL u.
func (d *Document) parseChild(ctx context.Context, data []byte, u string) (*Document, error) {
	o := d.opts
	o.ctx = ctx
	o.baseURL = u
	o.ancestors = append(slices.Clone(d.opts.ancestors), nestingKey(d.selfURL()))
	return parse(bytes.NewReader(data), o)
}

// selfURL returns the resolved URL of d, or "" when it has none.
func (d *Document) selfURL() string {
	if d.base != nil {
		return d.base.String()
	}
	return d.opts.baseURL
}

// maxNesting bounds how deep SVG images and fonts may nest.
const maxNesting = 8

// nestingKey identifies a document URL for cycle detection. Fragments
// name elements within one document and are dropped.
func nestingKey(u string) string {
	if strings.HasPrefix(u, "data:") {
		return u
	}
	u, _, _ = strings.Cut(u, "#")
	return u
}

// checkNesting refuses href when it resolves to d itself or to a
// document d is nested in, or when d is already nested maxNesting deep.
func (d *Document) checkNesting(href string) error {
	if len(d.opts.ancestors) >= maxNesting {
		return fmt.Errorf("%w: more than %d levels", ErrNestingLimit, maxNesting)
	}
	k := nestingKey(d.resolve(href))
	if self := d.selfURL(); self != "" && k == nestingKey(self) || slices.Contains(d.opts.ancestors, k) {
		return fmt.Errorf("%w: %s encloses this document", ErrNestingLimit, k)
	}
	return nil
}

// isSVGData reports whether an asset is an SVG document, by data URL
// media type, file extension or content.
func isSVGData(href string, data []byte) bool {
	if strings.HasPrefix(href, "data:image/svg+xml") {
		return true
	}
	path := href
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		path = u.Path
	}
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return true
	}
	head := data[:min(len(data), 512)]
	return bytes.Contains(head, []byte("<svg"))
}
