package svg

import (
	"net/url"
	"sync"

	"golang.org/x/net/html"

	"github.com/gogpu/svg/cascade"
	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/units"
)

// Document is a parsed SVG document.
//
// A Document owns every registry its elements need: the id table, the
// style sheet, SVG fonts, pending assets, the em and viewport stacks and
// the animation tracks. Nested documents (an <image> referencing an SVG
// file, an external SVG font) are separate Document values.
//
// Painting and ticking are serialized by the document; Render, Frame,
// Tick and the Start loop may be called from different goroutines, but
// never paint concurrently.
type Document struct {
	root     *Element
	elements []*Element
	ids      map[string]*Element

	// Selector matching runs on an x/net/html mirror of the tree.
	mirror   *html.Node
	byMirror map[*html.Node]*Element
	sheet    *cascade.StyleSheet

	fonts  map[string]*svgFont
	images []*imageAsset
	faces  []*fontAsset
	tracks []*AnimationTrack

	opts parseOptions
	base *url.URL

	ems       emStack
	viewports viewportStack

	// scope overrides the inheritance parent while a use element renders
	// its target; active guards against reference cycles.
	scope   map[*Element]*Element
	active  map[*Element]bool
	useSize map[*Element]viewport

	measureDepth int
	eq           map[*Element]*equidistant

	ready *readiness
	mouse mouseState

	paintMu sync.Mutex
	loop    frameLoop
	render  renderOptions
}

func newDocument(o parseOptions) *Document {
	d := &Document{
		ids:      make(map[string]*Element),
		mirror:   cascade.NewDocument(),
		byMirror: make(map[*html.Node]*Element),
		sheet:    &cascade.StyleSheet{},
		fonts:    make(map[string]*svgFont),
		opts:     o,
		scope:    make(map[*Element]*Element),
		active:   make(map[*Element]bool),
		useSize:  make(map[*Element]viewport),
		eq:       make(map[*Element]*equidistant),
		render:   defaultRenderOptions(),
	}
	d.ems.base = o.fontSize
	d.viewports.root = viewport{width: 300, height: 150}
	if o.baseURL != "" {
		d.base = parseBase(o.baseURL)
	}
	return d
}

// Root returns the root <svg> element.
func (d *Document) Root() *Element { return d.root }

// Element returns the first element with the given id, or nil.
func (d *Document) Element(id string) *Element { return d.ids[id] }

// Elements returns every element in document order, text nodes included.
func (d *Document) Elements() []*Element { return d.elements }

// StyleSheet returns the rules collected from <style> elements.
func (d *Document) StyleSheet() *cascade.StyleSheet { return d.sheet }

// Tracks returns the animation tracks in document order.
func (d *Document) Tracks() []*AnimationTrack { return d.tracks }

// BoundingBox returns the user-space bounding box of the root's
// geometry, measured without a surface.
func (d *Document) BoundingBox() geom.BoundingBox {
	if d.root == nil {
		return geom.NewBoundingBox()
	}
	d.paintMu.Lock()
	defer d.paintMu.Unlock()
	return d.root.BoundingBox()
}

// Size returns the intrinsic size of the document: the root width and
// height, falling back to the viewBox and then to 300 x 150.
func (d *Document) Size() (w, h float64) {
	if d.root == nil {
		return 0, 0
	}
	d.paintMu.Lock()
	defer d.paintMu.Unlock()
	return d.intrinsicSize()
}

func (d *Document) intrinsicSize() (w, h float64) {
	vb, hasVB := parseViewBox(d.root.Attr("viewBox"))
	w, h = 300, 150
	if hasVB {
		w, h = vb.Width, vb.Height
	}
	if l, ok := d.root.Attr("width").Length(); ok && l.IsAbsolute() {
		w = l.Pixels(d.unitContext(), units.X)
	}
	if l, ok := d.root.Attr("height").Length(); ok && l.IsAbsolute() {
		h = l.Pixels(d.unitContext(), units.Y)
	}
	return w, h
}

// Resize rewrites the root dimensions so the document renders into a
// w x h viewport. When the root has no viewBox one is added from its
// current size, so the content scales instead of being cropped. An empty
// preserveAspectRatio keeps the existing one.
func (d *Document) Resize(w, h float64, preserveAspectRatio string) {
	if d.root == nil || w <= 0 || h <= 0 {
		return
	}
	d.paintMu.Lock()
	defer d.paintMu.Unlock()

	r := d.root
	if !r.HasAttr("viewBox") {
		ow, oh := d.intrinsicSize()
		r.SetAttr("viewBox", formatNumbers(0, 0, ow, oh))
	}
	r.SetAttr("width", formatNumbers(w))
	r.SetAttr("height", formatNumbers(h))
	if preserveAspectRatio != "" {
		r.SetAttr("preserveAspectRatio", preserveAspectRatio)
	}
	for _, name := range []string{"width", "height", "viewBox", "preserveAspectRatio"} {
		delete(r.styles, name)
	}
}

// register adds e to the document tables.
func (d *Document) register(e *Element) {
	d.elements = append(d.elements, e)
	if id := e.ID(); id != "" {
		if _, dup := d.ids[id]; !dup {
			d.ids[id] = e
		}
	}
}

// guard marks e as being rendered through a reference. It returns false
// when e is already active, which means the reference is cyclic.
func (d *Document) guard(e *Element) bool {
	if d.active[e] {
		Logger().Warn("svg: reference cycle", "element", e.String())
		return false
	}
	d.active[e] = true
	return true
}

func (d *Document) unguard(e *Element) { delete(d.active, e) }

// withScope renders target with parent as its inheritance parent. It
// does nothing when target already is an inheritance ancestor of parent,
// as when a use references the group containing it.
func (d *Document) withScope(target, parent *Element, fn func()) {
	for el := parent; el != nil; el = el.effectiveParent() {
		if el == target {
			Logger().Warn("svg: reference cycle", "element", parent.String())
			return
		}
	}
	prev, had := d.scope[target]
	d.scope[target] = parent
	defer func() {
		if had {
			d.scope[target] = prev
		} else {
			delete(d.scope, target)
		}
	}()
	fn()
}
