package svg

import (
	"math"
	"strings"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/pathdata"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// marker returns the marker referenced by one of the marker-start,
// marker-mid or marker-end properties, falling back to the marker
// shorthand.
func (e *Element) marker(name string) *Element {
	if p := e.Style(name); p.HasValue() {
		return e.reference(name, KindMarker)
	}
	return e.reference("marker", KindMarker)
}

// markerPath returns the geometry markers are placed on, nil for shapes
// that take no markers.
func (e *Element) markerPath() *pathdata.Path {
	switch e.kind {
	case KindPath:
		return e.pathData()
	case KindLine:
		p1, p2 := linePoints(e)
		return pathdata.Parse("M" + formatNumbers(p1.X, p1.Y) + " L" + formatNumbers(p2.X, p2.Y))
	case KindPolyline, KindPolygon:
		pts := polyPoints(e)
		if len(pts) == 0 {
			return nil
		}
		var b strings.Builder
		for i, p := range pts {
			if i == 0 {
				b.WriteString("M")
			} else {
				b.WriteString(" L")
			}
			b.WriteString(formatNumbers(p.X, p.Y))
		}
		if e.kind == KindPolygon {
			b.WriteString(" Z")
		}
		return pathdata.Parse(b.String())
	}
	return nil
}

// renderMarkers draws marker-start on the first vertex, marker-end on
// the last and marker-mid on every other.
func (d *Document) renderMarkers(e *Element, sf surface.Surface) {
	start, mid, end := e.marker("marker-start"), e.marker("marker-mid"), e.marker("marker-end")
	if start == nil && mid == nil && end == nil {
		return
	}
	p := e.markerPath()
	if p == nil {
		return
	}
	vs := pathdata.Vertices(p)
	sw := e.strokeWidth()
	last := len(vs) - 1
	for i, v := range vs {
		if i == 0 && start != nil {
			d.renderMarker(start, sf, v, true, sw)
		}
		if i > 0 && i < last && mid != nil {
			d.renderMarker(mid, sf, v, false, sw)
		}
		if i == last && end != nil {
			d.renderMarker(end, sf, v, false, sw)
		}
	}
}

// renderMarker draws one marker instance at v.
func (d *Document) renderMarker(m *Element, sf surface.Surface, v pathdata.Vertex, isStart bool, strokeWidth float64) {
	if !d.guard(m) {
		return
	}
	defer d.unguard(m)

	sf.Save()
	defer sf.Restore()

	sf.Transform(geom.Translate(v.Point.X, v.Point.Y))
	sf.Transform(geom.Rotate(markerAngle(m, v, isStart)))
	if !m.Attr("markerUnits").Is("userSpaceOnUse") {
		sf.Transform(geom.Scale(strokeWidth, strokeWidth))
	}

	f := frame{
		width:  m.Attr("markerWidth").PixelsOr(units.X, 3),
		height: m.Attr("markerHeight").PixelsOr(units.Y, 3),
		par:    ParsePreserveAspectRatio(m.Attr("preserveAspectRatio").String()),
		ref: geom.Pt(
			m.Attr("refX").Pixels(units.X),
			m.Attr("refY").Pixels(units.Y),
		),
		hasRef: true,
		clip:   clipsOverflow(m),
	}
	f.viewBox, f.hasViewBox = parseViewBox(m.Attr("viewBox"))
	if !d.enterFrame(sf, f) {
		return
	}
	defer d.leaveFrame()
	d.renderChildren(m, sf)
}

// markerAngle returns the marker rotation in radians.
func markerAngle(m *Element, v pathdata.Vertex, isStart bool) float64 {
	o := m.Attr("orient")
	switch {
	case o.Is("auto"):
		return v.Angle
	case o.Is("auto-start-reverse"):
		if isStart {
			return v.Angle + math.Pi
		}
		return v.Angle
	case o.HasValue():
		return o.Angle()
	}
	return 0
}
