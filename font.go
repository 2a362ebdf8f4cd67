package svg

import (
	"strings"
	"unicode/utf8"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/pathdata"
	"github.com/gogpu/svg/surface"
)

// arabicForm is the contextual form of an Arabic glyph.
type arabicForm uint8

const (
	formIsolated arabicForm = iota
	formInitial
	formMedial
	formTerminal
)

func parseArabicForm(s string) (arabicForm, bool) {
	switch strings.TrimSpace(s) {
	case "isolated":
		return formIsolated, true
	case "initial":
		return formInitial, true
	case "medial":
		return formMedial, true
	case "terminal":
		return formTerminal, true
	}
	return formIsolated, false
}

// svgGlyph is one glyph of an SVG font, in font units with y up.
type svgGlyph struct {
	unicode string
	form    arabicForm
	hasForm bool
	advance float64
	path    *pathdata.Path
}

// svgFont is a font defined with <font> and <glyph> elements.
type svgFont struct {
	family     string
	unitsPerEm float64
	ascent     float64
	descent    float64

	glyphs  map[string][]*svgGlyph
	missing *svgGlyph
	// maxRunes is the longest glyph unicode sequence, for ligatures.
	maxRunes int
}

// newSVGFont builds a font from a <font> element.
func newSVGFont(e *Element) *svgFont {
	f := &svgFont{
		family:     e.ID(),
		unitsPerEm: 1000,
		glyphs:     make(map[string][]*svgGlyph),
		maxRunes:   1,
	}
	adv := e.Attr("horiz-adv-x").Number()
	for _, c := range e.children {
		if c.kind != KindFontFace {
			continue
		}
		if fam := strings.Trim(strings.TrimSpace(c.Attr("font-family").String()), `"'`); fam != "" {
			f.family = fam
		}
		f.unitsPerEm = c.Attr("units-per-em").NumberOr(1000)
		if f.unitsPerEm <= 0 {
			f.unitsPerEm = 1000
		}
		f.ascent = c.Attr("ascent").NumberOr(f.unitsPerEm * 0.8)
		f.descent = c.Attr("descent").NumberOr(-f.unitsPerEm * 0.2)
	}
	if f.ascent == 0 {
		f.ascent = f.unitsPerEm * 0.8
		f.descent = -f.unitsPerEm * 0.2
	}
	if adv == 0 {
		adv = f.unitsPerEm / 2
	}

	for _, c := range e.children {
		switch c.kind {
		case KindGlyph:
			g := newSVGGlyph(c, adv)
			if g.unicode == "" {
				continue
			}
			f.glyphs[g.unicode] = append(f.glyphs[g.unicode], g)
			f.maxRunes = max(f.maxRunes, utf8.RuneCountInString(g.unicode))
		case KindMissingGlyph:
			f.missing = newSVGGlyph(c, adv)
		}
	}
	return f
}

func newSVGGlyph(e *Element, adv float64) *svgGlyph {
	g := &svgGlyph{
		unicode: e.Attr("unicode").String(),
		advance: e.Attr("horiz-adv-x").NumberOr(adv),
		path:    pathdata.Parse(e.Attr("d").String()),
	}
	g.form, g.hasForm = parseArabicForm(e.Attr("arabic-form").String())
	return g
}

// collectFonts registers the SVG fonts of the document by family and
// queues the external fonts named by @font-face rules.
func (d *Document) collectFonts() {
	for _, e := range d.elements {
		if e.kind != KindFont {
			continue
		}
		f := newSVGFont(e)
		e.svgFont = f
		if f.family == "" {
			continue
		}
		if _, dup := d.fonts[f.family]; !dup {
			d.fonts[f.family] = f
		}
	}
	for _, ff := range d.sheet.FontFaces {
		if _, ok := d.fonts[ff.Family]; ok {
			continue
		}
		for _, u := range ff.URLs {
			if id, ok := strings.CutPrefix(u, "#"); ok {
				if e := d.ids[id]; e != nil && e.svgFont != nil {
					d.fonts[ff.Family] = e.svgFont
					break
				}
				continue
			}
			d.faces = append(d.faces, &fontAsset{family: ff.Family, href: u})
			break
		}
	}
}

// fontFor returns the SVG font named by the element's font-family, or
// nil when text should use the surface fonts.
func (e *Element) fontFor() *svgFont {
	d := e.doc
	for _, fam := range strings.Split(e.Style("font-family").String(), ",") {
		fam = strings.Trim(strings.TrimSpace(fam), `"'`)
		if fam == "" {
			continue
		}
		if f, ok := d.fonts[fam]; ok {
			return f
		}
		for _, fa := range d.faces {
			if fa.family == fam && fa.loaded.Load() && fa.font != nil {
				return fa.font
			}
		}
	}
	return nil
}

// placedGlyph is a glyph with its pen position in font units.
type placedGlyph struct {
	glyph *svgGlyph
	x     float64
}

// layout maps s to glyphs in visual order. Right-to-left runs are
// reversed and Arabic letters take the contextual form their neighbors
// call for.
func (f *svgFont) layout(s string, rtl bool) (glyphs []placedGlyph, advance float64) {
	runes := []rune(s)
	type span struct {
		glyph *svgGlyph
		start int
	}
	var logical []span
	for i := 0; i < len(runes); {
		g, n := f.match(runes, i)
		if g != nil {
			logical = append(logical, span{g, i})
		}
		i += n
	}

	for _, r := range visualRuns(s, len(runes), rtl) {
		var run []span
		for _, sp := range logical {
			if sp.start >= r.start && sp.start <= r.end {
				run = append(run, sp)
			}
		}
		if r.rtl {
			for i, j := 0, len(run)-1; i < j; i, j = i+1, j-1 {
				run[i], run[j] = run[j], run[i]
			}
		}
		for _, sp := range run {
			glyphs = append(glyphs, placedGlyph{glyph: sp.glyph, x: advance})
			advance += sp.glyph.advance
		}
	}
	return glyphs, advance
}

// match finds the glyph for the longest unicode sequence starting at
// runes[i] and returns it with the number of runes consumed.
func (f *svgFont) match(runes []rune, i int) (*svgGlyph, int) {
	for n := min(f.maxRunes, len(runes)-i); n > 0; n-- {
		cands, ok := f.glyphs[string(runes[i:i+n])]
		if !ok {
			continue
		}
		if n == 1 && isArabic(runes[i]) {
			return pickForm(cands, contextualForm(runes, i)), 1
		}
		return cands[0], n
	}
	return f.missing, 1
}

// pickForm selects the glyph for form, falling back to the isolated
// form and then to any glyph.
func pickForm(cands []*svgGlyph, form arabicForm) *svgGlyph {
	var isolated *svgGlyph
	for _, g := range cands {
		if g.hasForm && g.form == form {
			return g
		}
		if isolated == nil && (!g.hasForm || g.form == formIsolated) {
			isolated = g
		}
	}
	if isolated != nil {
		return isolated
	}
	return cands[0]
}

// contextualForm derives the form of runes[i] from whether its
// neighbors are Arabic letters.
func contextualForm(runes []rune, i int) arabicForm {
	prev := i > 0 && isArabic(runes[i-1])
	next := i+1 < len(runes) && isArabic(runes[i+1])
	switch {
	case prev && next:
		return formMedial
	case next:
		return formInitial
	case prev:
		return formTerminal
	}
	return formIsolated
}

func isArabic(r rune) bool {
	return language.LookupScript(r) == language.Arabic
}

// bidiRun is a directional run as an inclusive rune index range.
type bidiRun struct {
	start, end int
	rtl        bool
}

// visualRuns splits s into directional runs in visual order. rtl sets
// the paragraph direction.
func visualRuns(s string, n int, rtl bool) []bidiRun {
	if n == 0 {
		return nil
	}
	whole := []bidiRun{{start: 0, end: n - 1, rtl: rtl}}
	def := bidi.LeftToRight
	if rtl {
		def = bidi.RightToLeft
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(def)); err != nil {
		return whole
	}
	ord, err := p.Order()
	if err != nil || ord.NumRuns() == 0 {
		return whole
	}
	runs := make([]bidiRun, 0, ord.NumRuns())
	for i := 0; i < ord.NumRuns(); i++ {
		r := ord.Run(i)
		start, end := r.Pos()
		runs = append(runs, bidiRun{start: start, end: end, rtl: r.Direction() == bidi.RightToLeft})
	}
	// Runs come in logical order; a right-to-left paragraph shows them
	// last to first.
	if rtl {
		for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
			runs[i], runs[j] = runs[j], runs[i]
		}
	}
	return runs
}

// scale returns the factor from font units to user units.
func (f *svgFont) scale(size float64) float64 {
	return size / f.unitsPerEm
}

// metrics measures s at the given size.
func (f *svgFont) metrics(s string, size float64, rtl bool) surface.TextMetrics {
	_, adv := f.layout(s, rtl)
	k := f.scale(size)
	return surface.TextMetrics{Width: adv * k, Ascent: f.ascent * k, Descent: -f.descent * k}
}

// emit appends the outlines of s with its baseline origin at (x, y) to
// the current path of sf.
func (f *svgFont) emit(sf surface.Surface, s string, x, y, size float64, rtl bool) {
	glyphs, _ := f.layout(s, rtl)
	k := f.scale(size)
	m := sf.Matrix()
	for _, pg := range glyphs {
		if pg.glyph.path == nil || pg.glyph.path.IsEmpty() {
			continue
		}
		sf.SetTransform(m.Multiply(geom.Translate(x+pg.x*k, y)).Multiply(geom.Scale(k, -k)))
		emitPath(pg.glyph.path, sf)
	}
	sf.SetTransform(m)
}
