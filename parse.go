package svg

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/gogpu/svg/cascade"
)

const (
	nsSVG   = "http://www.w3.org/2000/svg"
	nsXLink = "http://www.w3.org/1999/xlink"
	nsXML   = "http://www.w3.org/XML/1998/namespace"
)

// Parse reads an SVG document.
//
// Markup is decoded leniently: HTML entities are accepted and mismatched
// end tags are closed automatically. A document that ends inside an
// element or has no <svg> root is an error. Loading of referenced images
// and fonts starts before Parse returns; see Document.Ready.
func Parse(r io.Reader, opts ...ParseOption) (*Document, error) {
	o := defaultParseOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return parse(r, o)
}

// ParseString parses an SVG document held in a string.
func ParseString(s string, opts ...ParseOption) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// ParseFile parses the SVG file at path. Relative references resolve
// against the file's directory unless WithBaseURL is given.
func ParseFile(path string, opts ...ParseOption) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("svg: open: %w", err)
	}
	defer f.Close()

	o := defaultParseOptions()
	if abs, err := filepath.Abs(path); err == nil {
		o.baseURL = fileURL(abs)
	}
	for _, opt := range opts {
		opt(&o)
	}
	return parse(f, o)
}

// ParseURL fetches and parses an SVG document. Relative references
// resolve against u.
func ParseURL(ctx context.Context, u string, opts ...ParseOption) (*Document, error) {
	o := defaultParseOptions()
	o.baseURL = u
	for _, opt := range opts {
		opt(&o)
	}
	data, err := o.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("svg: fetch %s: %w", u, err)
	}
	return parse(bytes.NewReader(data), o)
}

func parse(r io.Reader, o parseOptions) (*Document, error) {
	d := newDocument(o)
	if err := d.build(r); err != nil {
		return nil, err
	}
	if d.root == nil || d.root.kind != KindSVG {
		return nil, ErrNoRoot
	}

	d.collectStyleSheets()
	d.applyStyles()
	d.collectFonts()
	d.collectTracks()
	d.startLoading()
	return d, nil
}

// build decodes the markup into the element tree and its html mirror.
func (d *Document) build(r io.Reader) error {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var stack []*Element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("svg: parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e := d.newElementFrom(t)
			var parent *Element
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			d.attach(parent, e)
			stack = append(stack, e)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			switch {
			case top.kind.isContainerOfText():
				tn := newElement(d, KindTextNode, kindNames[KindTextNode])
				tn.text = string(t)
				d.attach(top, tn)
			case top.kind == KindStyle:
				top.text += string(t)
			}

		case xml.ProcInst:
			if t.Target == "xml-stylesheet" {
				if href := procInstAttr(string(t.Inst), "href"); href != "" {
					d.sheet.Imports = append(d.sheet.Imports, href)
				}
			}
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("svg: parse: unclosed element %s", stack[len(stack)-1])
	}
	return nil
}

// newElementFrom creates an element for a start tag.
func (d *Document) newElementFrom(t xml.StartElement) *Element {
	kind := KindUnknown
	name := t.Name.Local
	switch t.Name.Space {
	case "", nsSVG, "svg":
		kind = KindOf(name)
	default:
		name = t.Name.Space + ":" + name
	}
	e := newElement(d, kind, name)
	for _, a := range t.Attr {
		key, ok := attrKey(a.Name)
		if !ok {
			continue
		}
		if _, dup := e.attrs[key]; dup && key == "href" && a.Name.Space == "" {
			// SVG 2 href and xlink:href: the plain form wins.
			e.attrs[key].Set(a.Value)
			continue
		}
		e.attrCell(key).Set(a.Value)
	}
	return e
}

// attrKey maps an attribute name to the key it is stored under.
// Namespace declarations are dropped.
func attrKey(n xml.Name) (string, bool) {
	switch n.Space {
	case "":
		if n.Local == "xmlns" {
			return "", false
		}
		return n.Local, true
	case "xmlns":
		return "", false
	case nsXLink, "xlink":
		return n.Local, true
	case nsXML, "xml":
		return "xml:" + n.Local, true
	case nsSVG:
		return n.Local, true
	}
	return n.Space + ":" + n.Local, true
}

// attach links e under parent in both the element tree and the mirror.
func (d *Document) attach(parent, e *Element) {
	e.parent = parent
	if parent == nil {
		if d.root == nil {
			d.root = e
		}
	} else {
		parent.children = append(parent.children, e)
	}
	d.register(e)

	if e.kind == KindTextNode {
		return
	}
	e.mirror = cascade.NewElement(e.name, e.mirrorAttrs())
	d.byMirror[e.mirror] = e
	if parent != nil && parent.mirror != nil {
		parent.mirror.AppendChild(e.mirror)
	} else if d.mirror.FirstChild == nil {
		d.mirror.AppendChild(e.mirror)
	}
}

// collectStyleSheets parses every <style> element in document order.
func (d *Document) collectStyleSheets() {
	for _, e := range d.elements {
		if e.kind != KindStyle {
			continue
		}
		if t := e.Attr("type"); t.HasValue() && !strings.Contains(t.String(), "css") {
			continue
		}
		ss, err := cascade.ParseStyleSheet(e.text)
		if err != nil {
			Logger().Warn("svg: invalid style sheet", "err", err)
			continue
		}
		d.sheet.Append(ss)
	}
	for _, imp := range d.sheet.Imports {
		Logger().Debug("svg: style sheet import not fetched", "href", imp)
	}
}

// procInstAttr extracts a pseudo-attribute from a processing instruction.
func procInstAttr(inst, name string) string {
	i := strings.Index(inst, name+"=")
	if i < 0 {
		return ""
	}
	rest := inst[i+len(name)+1:]
	if len(rest) < 2 {
		return ""
	}
	q := rest[0]
	if q != '"' && q != '\'' {
		return ""
	}
	j := strings.IndexByte(rest[1:], q)
	if j < 0 {
		return ""
	}
	return rest[1 : j+1]
}
