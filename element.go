package svg

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/gogpu/svg/cascade"
	"github.com/gogpu/svg/geom"
)

// Kind identifies the element type. The set is closed: markup names
// without a dedicated kind parse as KindUnknown and are not rendered.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSVG
	KindG
	KindDefs
	KindSymbol
	KindUse
	KindA
	KindSwitch
	KindPath
	KindRect
	KindCircle
	KindEllipse
	KindLine
	KindPolyline
	KindPolygon
	KindText
	KindTSpan
	KindTextPath
	KindTextNode
	KindImage
	KindLinearGradient
	KindRadialGradient
	KindStop
	KindPattern
	KindMarker
	KindClipPath
	KindMask
	KindFilter
	KindFeColorMatrix
	KindFeGaussianBlur
	KindFeOffset
	KindFeDropShadow
	KindFeMorphology
	KindFeComposite
	KindFeFlood
	KindFeMerge
	KindFeMergeNode
	KindStyle
	KindTitle
	KindDesc
	KindFont
	KindFontFace
	KindMissingGlyph
	KindGlyph
	KindAnimate
	KindAnimateColor
	KindAnimateTransform
	KindSet
	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:          "unknown",
	KindSVG:              "svg",
	KindG:                "g",
	KindDefs:             "defs",
	KindSymbol:           "symbol",
	KindUse:              "use",
	KindA:                "a",
	KindSwitch:           "switch",
	KindPath:             "path",
	KindRect:             "rect",
	KindCircle:           "circle",
	KindEllipse:          "ellipse",
	KindLine:             "line",
	KindPolyline:         "polyline",
	KindPolygon:          "polygon",
	KindText:             "text",
	KindTSpan:            "tspan",
	KindTextPath:         "textPath",
	KindTextNode:         "#text",
	KindImage:            "image",
	KindLinearGradient:   "linearGradient",
	KindRadialGradient:   "radialGradient",
	KindStop:             "stop",
	KindPattern:          "pattern",
	KindMarker:           "marker",
	KindClipPath:         "clipPath",
	KindMask:             "mask",
	KindFilter:           "filter",
	KindFeColorMatrix:    "feColorMatrix",
	KindFeGaussianBlur:   "feGaussianBlur",
	KindFeOffset:         "feOffset",
	KindFeDropShadow:     "feDropShadow",
	KindFeMorphology:     "feMorphology",
	KindFeComposite:      "feComposite",
	KindFeFlood:          "feFlood",
	KindFeMerge:          "feMerge",
	KindFeMergeNode:      "feMergeNode",
	KindStyle:            "style",
	KindTitle:            "title",
	KindDesc:             "desc",
	KindFont:             "font",
	KindFontFace:         "font-face",
	KindMissingGlyph:     "missing-glyph",
	KindGlyph:            "glyph",
	KindAnimate:          "animate",
	KindAnimateColor:     "animateColor",
	KindAnimateTransform: "animateTransform",
	KindSet:              "set",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, name := range kindNames {
		if Kind(k) != KindUnknown && Kind(k) != KindTextNode {
			m[name] = Kind(k)
		}
	}
	return m
}()

// KindOf returns the kind for a local element name.
func KindOf(name string) Kind {
	return kindByName[name]
}

// String returns the element name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// IsShape reports whether the kind is a basic shape or path.
func (k Kind) IsShape() bool {
	return k >= KindPath && k <= KindPolygon
}

// IsFilterPrimitive reports whether the kind is a filter primitive.
func (k Kind) IsFilterPrimitive() bool {
	return k >= KindFeColorMatrix && k <= KindFeMerge
}

// IsAnimation reports whether the kind animates its parent.
func (k Kind) IsAnimation() bool {
	return k >= KindAnimate && k <= KindSet
}

// Element is a node of the document tree.
//
// The parent pointer is non-owning; children are owned by their parent.
// Element values are created by parsing and belong to one Document.
type Element struct {
	kind     Kind
	name     string
	doc      *Document
	parent   *Element
	children []*Element

	// attrs holds XML attributes, styles the declared CSS values that
	// won the cascade for this element.
	attrs  map[string]*Property
	styles map[string]*Property

	// text is the character data of a text node.
	text   string
	mirror *html.Node

	// Kind specific derived state, built lazily.
	glyphs      *textPathLayout
	image       *imageAsset
	svgFont     *svgFont
	track       *AnimationTrack
	onClick     []func(MouseEvent)
	onMouseMove []func(MouseEvent)
}

func newElement(doc *Document, kind Kind, name string) *Element {
	return &Element{
		kind:   kind,
		name:   name,
		doc:    doc,
		attrs:  make(map[string]*Property),
		styles: make(map[string]*Property),
	}
}

// Kind returns the element kind.
func (e *Element) Kind() Kind { return e.kind }

// Name returns the local element name as written.
func (e *Element) Name() string { return e.name }

// ID returns the id attribute.
func (e *Element) ID() string { return e.Attr("id").String() }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Parent returns the tree parent, nil for the root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the child elements. The slice must not be modified.
func (e *Element) Children() []*Element { return e.children }

// Text returns the character data of a text node.
func (e *Element) Text() string { return e.text }

// Attr returns the named attribute. A missing attribute is returned as
// an empty property that is not stored on the element.
func (e *Element) Attr(name string) *Property {
	if p, ok := e.attrs[name]; ok {
		return p
	}
	return newProperty(e.doc, name, "")
}

// HasAttr reports whether the attribute is set to a non-empty value.
func (e *Element) HasAttr(name string) bool {
	p, ok := e.attrs[name]
	return ok && p.HasValue()
}

// SetAttr sets an attribute, creating it when missing.
func (e *Element) SetAttr(name, value string) {
	e.attrCell(name).Set(value)
}

// attrCell returns the stored attribute, creating an empty one.
func (e *Element) attrCell(name string) *Property {
	p, ok := e.attrs[name]
	if !ok {
		p = newProperty(e.doc, name, "")
		e.attrs[name] = p
	}
	return p
}

// setStyle records a declared value unless the current one beats it.
func (e *Element) setStyle(name string, v cascade.Value) {
	if p, ok := e.styles[name]; ok {
		if !v.Beats(p.origin) {
			return
		}
		p.value, p.origin = v.Value, v
		return
	}
	p := newProperty(e.doc, name, v.Value)
	p.origin = v
	e.styles[name] = p
}

// styleCell returns the declared style cell, creating one with inline
// specificity when missing. Animations of CSS properties write to it.
func (e *Element) styleCell(name string) *Property {
	if p, ok := e.styles[name]; ok {
		return p
	}
	e.setStyle(name, cascade.Value{Specificity: cascade.Inline})
	return e.styles[name]
}

// effectiveParent is the parent used for style inheritance. While a use
// element renders its target, the target inherits from the use element
// instead of its tree parent.
func (e *Element) effectiveParent() *Element {
	if p, ok := e.doc.scope[e]; ok {
		return p
	}
	return e.parent
}

// BoundingBox returns the user-space bounding box of the element's
// geometry, without markers or stroke width.
func (e *Element) BoundingBox() geom.BoundingBox {
	if fn := behaviors[e.kind].boundingBox; fn != nil {
		return fn(e)
	}
	return geom.NewBoundingBox()
}

// Walk calls fn for e and its descendants in document order. Returning
// false from fn skips the element's children.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(fn)
	}
}

// OnClick registers a handler for clicks that hit this element or one
// of its descendants.
func (e *Element) OnClick(fn func(MouseEvent)) {
	e.onClick = append(e.onClick, fn)
}

// OnMouseMove registers a handler for pointer moves over this element or
// one of its descendants.
func (e *Element) OnMouseMove(fn func(MouseEvent)) {
	e.onMouseMove = append(e.onMouseMove, fn)
}

// mirrorAttrs returns the attributes visible to selectors.
func (e *Element) mirrorAttrs() map[string]string {
	m := make(map[string]string, len(e.attrs))
	for k, p := range e.attrs {
		m[k] = p.value
	}
	return m
}

// isContainerOfText reports whether character data inside the element
// becomes text nodes.
func (k Kind) isContainerOfText() bool {
	return k == KindText || k == KindTSpan || k == KindTextPath
}

func (e *Element) String() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.name)
	if id := e.ID(); id != "" {
		b.WriteString(` id="`)
		b.WriteString(id)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}
