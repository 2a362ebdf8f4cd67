package cascade

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	selcss "github.com/ericchiang/css"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// compiled caches selectors by source text. Style sheets of many documents
// share selectors, and compilation dominates matching for small trees.
var compiled sync.Map // string -> compileResult

type compileResult struct {
	sel *selcss.Selector
	err error
}

// TagAttr is the mirror attribute holding an element's tag name. The
// selector engine only knows HTML element names, so type selectors are
// matched against this attribute instead.
const TagAttr = "data-svg-tag"

// Compile parses a selector, reusing a cached result when the same text
// was compiled before.
func Compile(selector string) (*selcss.Selector, error) {
	if v, ok := compiled.Load(selector); ok {
		r := v.(compileResult)
		return r.sel, r.err
	}
	sel, err := selcss.Parse(typesAsAttributes(selector))
	if err != nil {
		err = fmt.Errorf("cascade: selector %q: %w", selector, err)
	}
	compiled.Store(selector, compileResult{sel: sel, err: err})
	return sel, err
}

// Match calls fn for every (node, rule) pair where the rule's selector
// matches a node under root, in rule order. Rules with selectors that do
// not compile are skipped; their errors are joined into the result.
func (ss *StyleSheet) Match(root *html.Node, fn func(n *html.Node, r *Rule)) error {
	var errs []error
	for i := range ss.Rules {
		r := &ss.Rules[i]
		sel, err := Compile(r.Selector)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, n := range sel.Select(root) {
			fn(n, r)
		}
	}
	return errors.Join(errs...)
}

// NewDocument returns the root of a mirror tree.
func NewDocument() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// NewElement returns a mirror element with the given tag and attributes.
// id, class and every other attribute are visible to selectors.
func NewElement(tag string, attrs map[string]string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     []html.Attribute{{Key: TagAttr, Val: tag}},
	}
	for k, v := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v})
	}
	return n
}

// typesAsAttributes rewrites every type selector in sel into an attribute
// selector on TagAttr: "g > rect.hot" becomes
// `[data-svg-tag="g"] > [data-svg-tag="rect"].hot`. Specificity is
// computed from the original text, so precedence is unchanged.
func typesAsAttributes(sel string) string {
	var b strings.Builder
	start := true // at the start of a compound selector
	fn := ""      // name of the last pseudo-class function seen
	for i := 0; i < len(sel); {
		c := sel[i]
		switch {
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(sel) && sel[j] != c {
				if sel[j] == '\\' {
					j++
				}
				j++
			}
			j = min(j+1, len(sel))
			b.WriteString(sel[i:j])
			i, start = j, false
		case c == '[':
			j := strings.IndexByte(sel[i:], ']')
			if j < 0 {
				b.WriteString(sel[i:])
				return b.String()
			}
			b.WriteString(sel[i : i+j+1])
			i, start = i+j+1, false
		case c == '(':
			b.WriteByte(c)
			i++
			switch fn {
			case "not", "is", "where", "has", "matches":
				start = true
				continue
			}
			j := strings.IndexByte(sel[i:], ')')
			if j < 0 {
				b.WriteString(sel[i:])
				return b.String()
			}
			b.WriteString(sel[i : i+j])
			i += j
		case c == ')':
			b.WriteByte(c)
			i, start = i+1, false
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '>' || c == '+' || c == '~' || c == ',':
			b.WriteByte(c)
			i, start = i+1, true
		case c == '.' || c == '#' || c == ':':
			j := i
			for j < len(sel) && (sel[j] == c || sel[j] == ':') {
				j++
			}
			k := identEnd(sel, j)
			if c == ':' {
				fn = strings.ToLower(sel[j:k])
			}
			b.WriteString(sel[i:k])
			i, start = k, false
		case start && isIdentStart(c):
			k := identEnd(sel, i)
			fmt.Fprintf(&b, "[%s=%q]", TagAttr, sel[i:k])
			i, start = k, false
		default:
			b.WriteByte(c)
			i, start = i+1, false
		}
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '-' || c >= 0x80 || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

func identEnd(s string, i int) int {
	for i < len(s) {
		c := s[i]
		if !isIdentStart(c) && (c < '0' || c > '9') {
			break
		}
		i++
	}
	return i
}
