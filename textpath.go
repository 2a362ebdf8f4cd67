package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/pathdata"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// equidistant samples a path at a fixed arc-length step, so a point at
// any distance along the path is found by indexing.
type equidistant struct {
	key    string
	step   float64
	points []geom.Point
	length float64
}

// newEquidistant samples the polylines every step units. Subpaths are
// joined end to start.
func newEquidistant(polys []pathdata.Polyline, step float64) *equidistant {
	q := &equidistant{step: step}
	var acc, next float64
	var last geom.Point
	for _, pl := range polys {
		for i := 1; i < len(pl.Points); i++ {
			a, b := pl.Points[i-1], pl.Points[i]
			seg := a.Distance(b)
			for next <= acc+seg {
				t := 0.0
				if seg > 0 {
					t = (next - acc) / seg
				}
				q.points = append(q.points, a.Lerp(b, t))
				next += step
			}
			acc += seg
			last = b
		}
	}
	q.length = acc
	if len(q.points) > 0 && float64(len(q.points)-1)*step < acc {
		q.points = append(q.points, last)
	}
	return q
}

// at returns the point at distance s along the path. It reports false
// when s is off the path.
func (q *equidistant) at(s float64) (geom.Point, bool) {
	if len(q.points) == 0 || s < 0 || s > q.length {
		return geom.Point{}, false
	}
	i := int(s / q.step)
	if i >= len(q.points)-1 {
		return q.points[len(q.points)-1], true
	}
	span := math.Min(q.step, q.length-float64(i)*q.step)
	t := 0.0
	if span > 0 {
		t = (s - float64(i)*q.step) / span
	}
	return q.points[i].Lerp(q.points[i+1], t), true
}

// clampedAt is at with s limited to the path.
func (q *equidistant) clampedAt(s float64) geom.Point {
	p, _ := q.at(math.Max(0, math.Min(s, q.length)))
	return p
}

// pathGlyph is one character placed on a path.
type pathGlyph struct {
	run   *textRun
	text  string
	pos   geom.Point
	angle float64
	width float64
}

func (g pathGlyph) matrix() geom.Matrix {
	return geom.Translate(g.pos.X, g.pos.Y).Multiply(geom.Rotate(g.angle))
}

func (g pathGlyph) box() geom.BoundingBox {
	m := g.run.metrics
	top := g.run.y + g.run.baseline - m.Ascent
	return geom.BoxFromRect(0, top, g.width, m.Ascent+m.Descent).Transform(g.matrix())
}

// textPathLayout is the cached glyph placement of a textPath.
type textPathLayout struct {
	owner  *Element
	key    string
	glyphs []pathGlyph
	end    geom.Point
}

// textPath lays out the content of tp relative to its path and moves
// the cursor to the end of the placed text.
func (b *textBuilder) textPath(tp *Element) {
	sub := &textBuilder{
		d:     b.d,
		sf:    b.sf,
		texts: b.texts,
		out:   &textLayout{},
		root:  b.root,
	}
	sub.pos.dxs, sub.pos.dys = b.pos.dxs, b.pos.dys
	b.pos = textPos{}
	sub.walk(tp)

	l := b.d.pathLayout(tp, sub.runs, sub.cur.X, b.sf)
	if l == nil {
		return
	}
	b.out.paths = append(b.out.paths, l)
	b.cur = l.end
	b.chunk = nil
}

// pathLayout places runs along the path tp references. total is the
// advance of all runs. The result is cached on tp until the text, the
// path or the styles involved change.
func (d *Document) pathLayout(tp *Element, runs []*textRun, total float64, sf surface.Surface) *textPathLayout {
	path := tp.Attr("href").Definition()
	if path == nil || path.kind != KindPath {
		Logger().Warn("svg: textPath without path", "element", tp.String(), "href", tp.Attr("href").String())
		return nil
	}
	q := d.equidistantOf(path)
	if q.length == 0 {
		return nil
	}

	anchor := strings.TrimSpace(tp.Style("text-anchor").String())
	start := tp.Attr("startOffset").PixelsPercent(units.X, q.length)
	key := pathLayoutKey(q, runs, anchor, start, total)
	if tp.glyphs != nil && tp.glyphs.key == key {
		return tp.glyphs
	}

	off := start
	switch anchor {
	case "middle":
		off -= total / 2
	case "end":
		off -= total
	}
	var stretch float64
	if anchor == "justify" {
		spaces := 0
		for _, r := range runs {
			spaces += strings.Count(r.text, " ")
		}
		if spaces > 0 {
			stretch = (q.length - start - total) / float64(spaces)
		}
	}

	l := &textPathLayout{owner: tp, key: key}
	var extra float64
	for _, r := range runs {
		x := r.x + extra
		for _, c := range r.text {
			ch := string(c)
			w := r.advance(sf, ch)
			if c == ' ' {
				w += stretch
				extra += stretch
			}
			s := off + x
			if _, ok := q.at(s + w/2); ok {
				p1, p2 := q.clampedAt(s), q.clampedAt(s+w)
				angle := 0.0
				if p1 != p2 {
					angle = p2.Sub(p1).Angle()
				}
				l.glyphs = append(l.glyphs, pathGlyph{run: r, text: ch, pos: p1, angle: angle, width: w})
			}
			x += w
		}
	}
	l.end = q.clampedAt(off + total + extra)
	tp.glyphs = l
	return l
}

// equidistantOf returns the sample cache of a path element, rebuilt when
// its data or transform changes.
func (d *Document) equidistantOf(path *Element) *equidistant {
	tr := path.Style("transform").String()
	key := path.Attr("d").String() + "|" + tr
	if q, ok := d.eq[path]; ok && q.key == key {
		return q
	}
	polys := pathdata.Flatten(path.pathData(), d.opts.eqPrecision)
	if t := transformOf(path.Style("transform")); len(t) > 0 {
		m := t.Matrix()
		for _, pl := range polys {
			for i, p := range pl.Points {
				pl.Points[i] = m.TransformPoint(p)
			}
		}
	}
	q := newEquidistant(polys, d.opts.eqStep)
	q.key = key
	d.eq[path] = q
	return q
}

func pathLayoutKey(q *equidistant, runs []*textRun, anchor string, start, total float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%g|%g", q.key, anchor, start, total)
	for _, r := range runs {
		fmt.Fprintf(&b, "|%q@%g,%g:%v:%g,%g", r.text, r.x, r.y, r.font, r.letterSpacing, r.wordSpacing)
	}
	return b.String()
}

// drawTextPath draws the glyphs of a textPath, each rotated to follow
// the path.
func (d *Document) drawTextPath(l *textPathLayout, sf surface.Surface) {
	for _, g := range l.glyphs {
		sf.Save()
		sf.Transform(g.matrix())
		d.drawRun(g.run, sf, 0, g.run.y, g.text)
		sf.Restore()
		if !d.render.ignoreMouse {
			d.mouse.record(g.run.owner, g.box().Transform(sf.Matrix()))
		}
	}
}
