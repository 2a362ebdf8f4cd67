package svg

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

func registerText() {
	behaviors[KindText] = behavior{paint: paintText, boundingBox: textBoundingBox}
	// tspan and textPath paint through their text element but are valid
	// paint server targets, so they measure.
	behaviors[KindTSpan] = behavior{render: renderNothing, boundingBox: spanBoundingBox}
	behaviors[KindTextPath] = behavior{render: renderNothing, boundingBox: spanBoundingBox}
}

// textRun is a piece of text drawn with one style at one origin.
type textRun struct {
	owner *Element
	text  string
	x, y  float64

	font    surface.Font
	svg     *svgFont
	rtl     bool
	metrics surface.TextMetrics

	letterSpacing float64
	wordSpacing   float64
	baseline      float64
}

// width is the advance of the run including letter and word spacing.
func (r *textRun) width() float64 {
	return r.metrics.Width + r.spacing(r.text)
}

func (r *textRun) spacing(s string) float64 {
	if r.letterSpacing == 0 && r.wordSpacing == 0 {
		return 0
	}
	n := utf8.RuneCountInString(s)
	return r.letterSpacing*float64(n) + r.wordSpacing*float64(strings.Count(s, " "))
}

// box is the user-space box of the run at horizontal shift dx.
func (r *textRun) box(dx float64) geom.BoundingBox {
	top := r.y + r.baseline - r.metrics.Ascent
	return geom.BoxFromRect(r.x+dx, top, r.width(), r.metrics.Ascent+r.metrics.Descent)
}

// textChunk is a sequence of runs anchored together: it starts at an
// absolute position and runs until the next one.
type textChunk struct {
	runs   []*textRun
	anchor *Element
	x0     float64
}

// shift returns the horizontal offset text-anchor applies to the chunk.
func (c *textChunk) shift() float64 {
	if len(c.runs) == 0 {
		return 0
	}
	minX, maxX := c.runs[0].x, c.runs[0].x+c.runs[0].width()
	for _, r := range c.runs[1:] {
		minX = min(minX, r.x)
		maxX = max(maxX, r.x+r.width())
	}
	anchor := strings.TrimSpace(c.anchor.Style("text-anchor").String())
	if c.anchor.Style("direction").Is("rtl") {
		switch anchor {
		case "end":
			anchor = "start"
		case "middle":
		default:
			anchor = "end"
		}
	}
	switch anchor {
	case "middle":
		return c.x0 - (minX+maxX)/2
	case "end":
		return c.x0 - maxX
	}
	return c.x0 - minX
}

// textLayout is the laid out content of a text element.
type textLayout struct {
	chunks []*textChunk
	paths  []*textPathLayout
}

// textPos holds x, y, dx and dy values waiting for the next character.
type textPos struct {
	xs, ys, dxs, dys []float64
}

func (p *textPos) empty() bool {
	return len(p.xs) == 0 && len(p.ys) == 0 && len(p.dxs) == 0 && len(p.dys) == 0
}

// merge adds the positioning attributes of e. Absolute positions of an
// inner element replace outer ones; relative shifts add up.
func (p *textPos) merge(e *Element) {
	if v := lengthList(e.Attr("x"), units.X); len(v) > 0 {
		p.xs = v
	}
	if v := lengthList(e.Attr("y"), units.Y); len(v) > 0 {
		p.ys = v
	}
	p.dxs = addLists(p.dxs, lengthList(e.Attr("dx"), units.X))
	p.dys = addLists(p.dys, lengthList(e.Attr("dy"), units.Y))
}

func addLists(a, b []float64) []float64 {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := append([]float64(nil), a...)
	for i, v := range b {
		out[i] += v
	}
	return out
}

// lengthList resolves a list of lengths. Parsing stops at the first
// invalid item.
func lengthList(p *Property, axis units.Axis) []float64 {
	if !p.HasValue() {
		return nil
	}
	var out []float64
	ctx := p.doc.unitContext()
	for _, s := range p.Split() {
		l, err := units.ParseLength(s)
		if err != nil {
			break
		}
		out = append(out, l.Pixels(ctx, axis))
	}
	return out
}

// textBuilder lays out the runs of one text element.
type textBuilder struct {
	d  *Document
	sf surface.Surface

	texts map[*Element]string
	pos   textPos
	cur   geom.Point
	chunk *textChunk
	out   *textLayout
	root  *Element
	// runs collects every run in order when laying out a textPath.
	runs []*textRun
}

// layoutText lays out the character data under the text element e. sf
// is used for measuring and may be nil.
func (d *Document) layoutText(e *Element, sf surface.Surface) *textLayout {
	b := &textBuilder{
		d:     d,
		sf:    sf,
		texts: collapseText(e),
		out:   &textLayout{},
		root:  e,
	}
	b.pos.merge(e)
	b.walk(e)
	return b.out
}

func (b *textBuilder) walk(e *Element) {
	for _, c := range e.children {
		switch c.kind {
		case KindTextNode:
			b.text(c)
		case KindTSpan, KindA, KindTextPath:
			if c.Style("display").Is("none") {
				continue
			}
			pushed := b.d.pushFontSize(c)
			if c.kind == KindTextPath {
				b.textPath(c)
			} else {
				b.pos.merge(c)
				b.walk(c)
			}
			if pushed {
				b.d.ems.pop()
			}
		}
	}
}

// text emits the runs of a text node, consuming pending positions one
// character at a time.
func (b *textBuilder) text(n *Element) {
	s := b.texts[n]
	for s != "" && !b.pos.empty() {
		r, size := utf8.DecodeRuneInString(s)
		b.applyPos()
		if b.pos.empty() {
			break
		}
		b.emit(n.parent, string(r))
		s = s[size:]
	}
	if s != "" {
		b.emit(n.parent, s)
	}
}

// applyPos moves the cursor by the first pending values. An absolute
// position starts a new chunk.
func (b *textBuilder) applyPos() {
	p := &b.pos
	newChunk := false
	if len(p.xs) > 0 {
		b.cur.X, p.xs, newChunk = p.xs[0], p.xs[1:], true
	}
	if len(p.ys) > 0 {
		b.cur.Y, p.ys, newChunk = p.ys[0], p.ys[1:], true
	}
	if len(p.dxs) > 0 {
		b.cur.X += p.dxs[0]
		p.dxs = p.dxs[1:]
	}
	if len(p.dys) > 0 {
		b.cur.Y += p.dys[0]
		p.dys = p.dys[1:]
	}
	if newChunk {
		b.chunk = nil
	}
}

func (b *textBuilder) emit(owner *Element, s string) {
	if b.chunk == nil {
		b.chunk = &textChunk{anchor: owner, x0: b.cur.X}
		b.out.chunks = append(b.out.chunks, b.chunk)
	}
	r := b.d.newTextRun(owner, s, b.cur, b.sf)
	b.chunk.runs = append(b.chunk.runs, r)
	b.runs = append(b.runs, r)
	b.cur.X += r.width()
}

// newTextRun measures s in the style of owner.
func (d *Document) newTextRun(owner *Element, s string, at geom.Point, sf surface.Surface) *textRun {
	r := &textRun{
		owner:         owner,
		text:          s,
		x:             at.X,
		y:             at.Y,
		font:          d.fontOf(owner),
		svg:           owner.fontFor(),
		rtl:           owner.Style("direction").Is("rtl"),
		letterSpacing: spacingOf(owner.Style("letter-spacing")),
		wordSpacing:   spacingOf(owner.Style("word-spacing")),
	}
	if r.svg != nil {
		r.metrics = r.svg.metrics(s, r.font.Size, r.rtl)
	} else {
		r.metrics = measureText(sf, r.font, s)
	}
	r.baseline = baselineShift(owner, r.metrics)
	return r
}

// fontOf returns the surface font for text styled by e at the current
// em size.
func (d *Document) fontOf(e *Element) surface.Font {
	f := surface.Font{
		Family: e.Style("font-family").String(),
		Size:   d.ems.current(),
		Weight: fontWeight(e.Style("font-weight")),
	}
	st := e.Style("font-style")
	f.Italic = st.Is("italic") || st.Is("oblique")
	return f
}

func fontWeight(p *Property) int {
	v := strings.TrimSpace(p.String())
	switch v {
	case "bold", "bolder":
		return 700
	case "lighter":
		return 300
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return 400
}

func spacingOf(p *Property) float64 {
	if p.Is("normal") {
		return 0
	}
	return p.Pixels(units.X)
}

// measureText measures s on sf, or with the built-in fonts when there is
// no surface.
func measureText(sf surface.Surface, f surface.Font, s string) surface.TextMetrics {
	if sf != nil {
		sf.SetFont(f)
		return sf.MeasureText(s)
	}
	src, err := surface.FontSource(f)
	if err != nil {
		return surface.TextMetrics{}
	}
	size := f.Size
	if size <= 0 {
		size = 16
	}
	face := src.Face(size)
	m := face.Metrics()
	return surface.TextMetrics{Width: face.Advance(s), Ascent: m.Ascent, Descent: m.Descent}
}

// baselineShift returns the vertical offset of the baseline for
// dominant-baseline and alignment-baseline.
func baselineShift(e *Element, m surface.TextMetrics) float64 {
	v := strings.TrimSpace(e.Style("alignment-baseline").String())
	if v == "" || v == "auto" || v == "baseline" {
		v = strings.TrimSpace(e.Style("dominant-baseline").String())
	}
	switch v {
	case "middle", "central":
		return (m.Ascent - m.Descent) / 2
	case "hanging":
		return m.Ascent * 0.8
	case "text-before-edge", "text-top", "before-edge":
		return m.Ascent
	case "text-after-edge", "text-bottom", "after-edge", "ideographic":
		return -m.Descent
	case "mathematical":
		return m.Ascent / 2
	}
	return 0
}

// collapseText applies xml:space handling to every text node under the
// text element e. Leading and trailing space of the whole element is
// removed and spaces are collapsed across node boundaries.
func collapseText(e *Element) map[*Element]string {
	out := make(map[*Element]string)
	var nodes []*Element
	e.Walk(func(n *Element) bool {
		if n.kind == KindTextNode {
			nodes = append(nodes, n)
		}
		return n == e || !n.Style("display").Is("none")
	})

	space := true
	last := -1
	for i, n := range nodes {
		s := n.text
		if n.Style("xml:space").Is("preserve") {
			s = strings.Map(func(r rune) rune {
				if r == '\n' || r == '\r' || r == '\t' {
					return ' '
				}
				return r
			}, s)
		} else {
			s = collapseSpaces(s, space)
		}
		if s != "" {
			space = strings.HasSuffix(s, " ")
			last = i
		}
		out[n] = s
	}
	if last >= 0 && !nodes[last].Style("xml:space").Is("preserve") {
		out[nodes[last]] = strings.TrimRight(out[nodes[last]], " ")
	}
	return out
}

// collapseSpaces removes newlines, turns tabs into spaces and collapses
// runs of spaces. A leading space is dropped when the text before it
// already ended with one.
func collapseSpaces(s string, afterSpace bool) string {
	var b strings.Builder
	prev := afterSpace
	for _, r := range s {
		switch r {
		case '\n', '\r':
			continue
		case '\t':
			r = ' '
		}
		if r == ' ' && prev {
			continue
		}
		prev = r == ' '
		b.WriteRune(r)
	}
	return b.String()
}

func paintText(e *Element, sf surface.Surface) {
	d := e.doc
	l := d.layoutText(e, sf)
	for _, c := range l.chunks {
		dx := c.shift()
		for _, r := range c.runs {
			d.drawRun(r, sf, r.x+dx, r.y, r.text)
			if !d.render.ignoreMouse {
				d.mouse.record(r.owner, r.box(dx).Transform(sf.Matrix()))
			}
		}
	}
	for _, tp := range l.paths {
		d.drawTextPath(tp, sf)
	}
}

// drawRun fills and strokes s with the style of r at (x, y).
func (d *Document) drawRun(r *textRun, sf surface.Surface, x, y float64, s string) {
	owner := r.owner
	if !owner.visible() || s == "" {
		return
	}
	y += r.baseline
	fill, stroke := owner.fillPaint(sf), owner.strokePaint(sf)

	doFill := func() {
		if fill == nil {
			return
		}
		sf.SetFillPaint(fill)
		d.drawGlyphs(r, sf, x, y, s, false)
	}
	doStroke := func() {
		if stroke == nil {
			return
		}
		sf.SetStrokePaint(stroke)
		sf.SetStrokeStyle(owner.strokeStyle(sf.Matrix().ScaleFactor()))
		d.drawGlyphs(r, sf, x, y, s, true)
	}
	if owner.strokeFirst() {
		doStroke()
		doFill()
	} else {
		doFill()
		doStroke()
	}
	d.decorate(r, sf, x, y, s, fill)
}

// drawGlyphs draws s with the current fill or stroke paint. Spaced text
// is drawn one character at a time.
func (d *Document) drawGlyphs(r *textRun, sf surface.Surface, x, y float64, s string, stroke bool) {
	draw := func(str string, x float64) {
		if r.svg != nil {
			sf.BeginPath()
			r.svg.emit(sf, str, x, y, r.font.Size, r.rtl)
			var err error
			if stroke {
				err = sf.Stroke()
			} else {
				err = sf.Fill(surface.FillRuleNonZero)
			}
			if err != nil {
				Logger().Warn("svg: draw glyphs", "element", r.owner.String(), "err", err)
			}
			return
		}
		sf.SetFont(r.font)
		var err error
		if stroke {
			err = sf.StrokeText(str, x, y)
		} else {
			err = sf.FillText(str, x, y)
		}
		if err != nil {
			Logger().Warn("svg: draw text", "element", r.owner.String(), "err", err)
		}
	}

	if r.letterSpacing == 0 && r.wordSpacing == 0 {
		draw(s, x)
		return
	}
	for _, c := range s {
		ch := string(c)
		draw(ch, x)
		x += r.advance(sf, ch)
	}
}

// advance measures one character of the run including spacing.
func (r *textRun) advance(sf surface.Surface, ch string) float64 {
	var w float64
	if r.svg != nil {
		w = r.svg.metrics(ch, r.font.Size, r.rtl).Width
	} else {
		w = measureText(sf, r.font, ch).Width
	}
	return w + r.spacing(ch)
}

// decorate draws the text-decoration lines declared on the run's owner
// or its text ancestors.
func (d *Document) decorate(r *textRun, sf surface.Surface, x, y float64, s string, fill surface.Paint) {
	if fill == nil {
		return
	}
	var deco string
	for el := r.owner; el != nil; el = el.parent {
		if p := el.ownStyle("text-decoration"); p != nil {
			deco = p.String()
			break
		}
		if el.kind == KindText {
			break
		}
	}
	if deco == "" || strings.Contains(deco, "none") {
		return
	}
	w := r.width()
	if s != r.text {
		w = r.advance(sf, s)
	}
	th := r.font.Size / 15
	sf.SetFillPaint(fill)
	for _, f := range strings.FieldsFunc(deco, unicode.IsSpace) {
		var ly float64
		switch f {
		case "underline":
			ly = y + th
		case "overline":
			ly = y - r.metrics.Ascent
		case "line-through":
			ly = y - r.metrics.Ascent*0.35
		default:
			continue
		}
		sf.BeginPath()
		sf.Rect(x, ly, w, th)
		if err := sf.Fill(surface.FillRuleNonZero); err != nil {
			Logger().Warn("svg: text decoration", "element", r.owner.String(), "err", err)
		}
	}
}

// textBoundingBox measures the laid out runs without a surface.
func textBoundingBox(e *Element) geom.BoundingBox {
	return e.doc.textBox(e, nil)
}

// textBox is the union of the boxes of runs owned by within or its
// descendants.
func (d *Document) textBox(e, within *Element) geom.BoundingBox {
	defer d.enterFontScope(e)()
	l := d.layoutText(e, nil)
	bb := geom.NewBoundingBox()
	for _, c := range l.chunks {
		dx := c.shift()
		for _, r := range c.runs {
			if within == nil || isDescendant(r.owner, within) {
				bb.AddBox(r.box(dx))
			}
		}
	}
	for _, tp := range l.paths {
		if within != nil && !isDescendant(tp.owner, within) {
			continue
		}
		for _, g := range tp.glyphs {
			bb.AddBox(g.box())
		}
	}
	return bb
}

// spanBoundingBox measures a tspan or textPath within its text element.
func spanBoundingBox(e *Element) geom.BoundingBox {
	for t := e.parent; t != nil; t = t.parent {
		if t.kind == KindText {
			return e.doc.textBox(t, e)
		}
	}
	return geom.NewBoundingBox()
}

func isDescendant(e, of *Element) bool {
	for ; e != nil; e = e.parent {
		if e == of {
			return true
		}
	}
	return false
}
