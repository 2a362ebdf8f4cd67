// Package cascade parses CSS style sheets and inline declarations, scores
// selector specificity and matches selectors against a document tree.
//
// Matching runs on a golang.org/x/net/html mirror of the document, so any
// tree that can be mirrored as html.Nodes can be styled.
package cascade

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Declaration is one property: value pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule is a single selector with its declarations. Selector lists are
// split into one Rule per selector so each keeps its own specificity.
type Rule struct {
	Selector     string
	Specificity  Specificity
	Declarations []Declaration
	// Order is the position of the rule in the sheet. Equal specificity
	// is decided by order.
	Order int
}

// FontFace is an @font-face rule.
type FontFace struct {
	Family string
	URLs   []string // src url() values in preference order
}

// StyleSheet is a parsed style sheet.
type StyleSheet struct {
	Rules     []Rule
	FontFaces []FontFace
	// Imports lists @import targets. They are not fetched.
	Imports []string
}

// ParseStyleSheet parses CSS text.
//
// Conditional group rules (@media, @supports) contribute their nested
// rules unconditionally. Other at-rules besides @font-face and @import
// are ignored.
func ParseStyleSheet(text string) (*StyleSheet, error) {
	parsed, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("cascade: parse style sheet: %w", err)
	}
	ss := &StyleSheet{}
	ss.add(parsed.Rules)
	return ss, nil
}

// Append adds the rules of other after those of ss, continuing the source
// order.
func (ss *StyleSheet) Append(other *StyleSheet) {
	if other == nil {
		return
	}
	base := len(ss.Rules)
	for _, r := range other.Rules {
		r.Order += base
		ss.Rules = append(ss.Rules, r)
	}
	ss.FontFaces = append(ss.FontFaces, other.FontFaces...)
	ss.Imports = append(ss.Imports, other.Imports...)
}

func (ss *StyleSheet) add(rules []*css.Rule) {
	for _, r := range rules {
		if r.Kind == css.AtRule {
			switch strings.ToLower(r.Name) {
			case "@font-face":
				if ff, ok := fontFace(r.Declarations); ok {
					ss.FontFaces = append(ss.FontFaces, ff)
				}
			case "@import":
				if u := ParseURLs(r.Prelude); len(u) > 0 {
					ss.Imports = append(ss.Imports, u[0])
				} else {
					ss.Imports = append(ss.Imports, unquote(r.Prelude))
				}
			case "@media", "@supports":
				ss.add(r.Rules)
			}
			continue
		}
		decls := convert(r.Declarations)
		if len(decls) == 0 {
			continue
		}
		for _, sel := range r.Selectors {
			sel = strings.TrimSpace(sel)
			if sel == "" {
				continue
			}
			ss.Rules = append(ss.Rules, Rule{
				Selector:     sel,
				Specificity:  ComputeSpecificity(sel),
				Declarations: decls,
				Order:        len(ss.Rules),
			})
		}
	}
}

// ParseDeclarations parses the contents of a style attribute.
func ParseDeclarations(text string) ([]Declaration, error) {
	// douceur only stores a value once it reaches ';' or '}'.
	if t := strings.TrimSpace(text); t != "" && !strings.HasSuffix(t, ";") {
		text = t + ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil, fmt.Errorf("cascade: parse declarations: %w", err)
	}
	return convert(decls), nil
}

func convert(in []*css.Declaration) []Declaration {
	out := make([]Declaration, 0, len(in))
	for _, d := range in {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		if prop == "" {
			continue
		}
		out = append(out, Declaration{
			Property:  prop,
			Value:     strings.TrimSpace(d.Value),
			Important: d.Important,
		})
	}
	return out
}

func fontFace(decls []*css.Declaration) (FontFace, bool) {
	var ff FontFace
	for _, d := range decls {
		switch strings.ToLower(strings.TrimSpace(d.Property)) {
		case "font-family":
			ff.Family = unquote(d.Value)
		case "src":
			ff.URLs = append(ff.URLs, ParseURLs(d.Value)...)
		}
	}
	return ff, ff.Family != "" && len(ff.URLs) > 0
}

// ParseURLs returns the arguments of every url(...) in v, unquoted.
func ParseURLs(v string) []string {
	var out []string
	for {
		i := strings.Index(strings.ToLower(v), "url(")
		if i < 0 {
			return out
		}
		v = v[i+4:]
		j := strings.IndexByte(v, ')')
		if j < 0 {
			return out
		}
		out = append(out, unquote(v[:j]))
		v = v[j+1:]
	}
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
