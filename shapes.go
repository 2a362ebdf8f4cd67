package svg

import (
	"math"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/pathdata"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// kappa is the control point distance of a quarter circle Bézier
// approximation.
var kappa = 4 * (math.Sqrt2 - 1) / 3

func registerShapes() {
	paths := map[Kind]func(*Element, surface.Surface) geom.BoundingBox{
		KindPath:     pathPath,
		KindRect:     rectPath,
		KindCircle:   circlePath,
		KindEllipse:  ellipsePath,
		KindLine:     linePath,
		KindPolyline: polyPath,
		KindPolygon:  polyPath,
	}
	for k, fn := range paths {
		behaviors[k] = behavior{
			path:        fn,
			paint:       paintShape,
			boundingBox: shapeBoundingBox,
		}
	}
}

func shapeBoundingBox(e *Element) geom.BoundingBox {
	return behaviors[e.kind].path(e, nil)
}

// paintShape emits the geometry of a shape and fills, strokes and marks
// it.
func paintShape(e *Element, sf surface.Surface) {
	d := e.doc
	if !e.visible() {
		return
	}
	sf.BeginPath()
	bb := behaviors[e.kind].path(e, sf)
	if bb.IsEmpty() {
		return
	}
	if !d.render.ignoreMouse {
		d.mouse.record(e, bb.Transform(sf.Matrix()))
	}

	fill, stroke := e.fillPaint(sf), e.strokePaint(sf)
	doFill := func() {
		if fill == nil {
			return
		}
		sf.SetFillPaint(fill)
		if err := sf.Fill(e.fillRule("fill-rule")); err != nil {
			Logger().Warn("svg: fill", "element", e.String(), "err", err)
		}
	}
	doStroke := func() {
		if stroke == nil {
			return
		}
		sf.SetStrokePaint(stroke)
		sf.SetStrokeStyle(e.strokeStyle(sf.Matrix().ScaleFactor()))
		if err := sf.Stroke(); err != nil {
			Logger().Warn("svg: stroke", "element", e.String(), "err", err)
		}
	}
	if e.strokeFirst() {
		doStroke()
		doFill()
	} else {
		doFill()
		doStroke()
	}
	d.renderMarkers(e, sf)
}

// pathData returns the parsed d attribute. In strict mode malformed data
// yields an empty path.
func (e *Element) pathData() *pathdata.Path {
	strict := e.doc.opts.strictPaths
	return parsedAs(e.Attr("d"), func(s string) *pathdata.Path {
		if strict {
			p, err := pathdata.ParseStrict(s)
			if err != nil {
				Logger().Warn("svg: malformed path data", "element", e.String(), "err", err)
				return pathdata.Parse("")
			}
			return p
		}
		p := pathdata.Parse(s)
		if p.Recovered() {
			Logger().Warn("svg: malformed path data recovered", "element", e.String())
		}
		return p
	})
}

func pathPath(e *Element, sf surface.Surface) geom.BoundingBox {
	return emitPath(e.pathData(), sf)
}

// emitPath replays p onto sf, when given, and returns its bounding box.
// Arcs are emitted as cubic Béziers.
func emitPath(p *pathdata.Path, sf surface.Surface) geom.BoundingBox {
	bb := geom.NewBoundingBox()
	c := pathdata.NewCursor(p)
	for c.Next() {
		s := c.Segment()
		pathdata.AddSegment(&bb, s)
		if sf == nil {
			continue
		}
		switch s.Kind {
		case pathdata.SegMove:
			sf.MoveTo(s.To.X, s.To.Y)
		case pathdata.SegLine:
			sf.LineTo(s.To.X, s.To.Y)
		case pathdata.SegCubic:
			sf.CubicTo(s.C1.X, s.C1.Y, s.C2.X, s.C2.Y, s.To.X, s.To.Y)
		case pathdata.SegQuad:
			sf.QuadraticTo(s.C1.X, s.C1.Y, s.To.X, s.To.Y)
		case pathdata.SegArc:
			if !s.CenterOK {
				sf.LineTo(s.To.X, s.To.Y)
				continue
			}
			for _, cb := range s.Center.Cubics() {
				sf.CubicTo(cb[0].X, cb[0].Y, cb[1].X, cb[1].Y, cb[2].X, cb[2].Y)
			}
		case pathdata.SegClose:
			if s.Degenerate {
				sf.MoveTo(s.To.X, s.To.Y)
			} else {
				sf.ClosePath()
			}
		}
	}
	return bb
}

func rectPath(e *Element, sf surface.Surface) geom.BoundingBox {
	x := e.Style("x").Pixels(units.X)
	y := e.Style("y").Pixels(units.Y)
	w := e.Style("width").Pixels(units.X)
	h := e.Style("height").Pixels(units.Y)
	if w <= 0 || h <= 0 {
		return geom.NewBoundingBox(geom.Pt(x, y))
	}

	rxp, ryp := e.Style("rx"), e.Style("ry")
	rx, ry := rxp.Pixels(units.X), ryp.Pixels(units.Y)
	switch {
	case rxp.HasValue() && !ryp.HasValue():
		ry = rx
	case ryp.HasValue() && !rxp.HasValue():
		rx = ry
	}
	rx = math.Max(0, math.Min(rx, w/2))
	ry = math.Max(0, math.Min(ry, h/2))

	if sf != nil {
		if rx == 0 || ry == 0 {
			sf.Rect(x, y, w, h)
		} else {
			kx, ky := rx*kappa, ry*kappa
			sf.MoveTo(x+rx, y)
			sf.LineTo(x+w-rx, y)
			sf.CubicTo(x+w-rx+kx, y, x+w, y+ry-ky, x+w, y+ry)
			sf.LineTo(x+w, y+h-ry)
			sf.CubicTo(x+w, y+h-ry+ky, x+w-rx+kx, y+h, x+w-rx, y+h)
			sf.LineTo(x+rx, y+h)
			sf.CubicTo(x+rx-kx, y+h, x, y+h-ry+ky, x, y+h-ry)
			sf.LineTo(x, y+ry)
			sf.CubicTo(x, y+ry-ky, x+rx-kx, y, x+rx, y)
			sf.ClosePath()
		}
	}
	return geom.BoxFromRect(x, y, w, h)
}

func circlePath(e *Element, sf surface.Surface) geom.BoundingBox {
	cx := e.Style("cx").Pixels(units.X)
	cy := e.Style("cy").Pixels(units.Y)
	r := e.Style("r").Pixels(units.Diagonal)
	return ellipseTo(sf, cx, cy, r, r)
}

func ellipsePath(e *Element, sf surface.Surface) geom.BoundingBox {
	cx := e.Style("cx").Pixels(units.X)
	cy := e.Style("cy").Pixels(units.Y)
	rxp, ryp := e.Style("rx"), e.Style("ry")
	rx, ry := rxp.Pixels(units.X), ryp.Pixels(units.Y)
	switch {
	case rxp.HasValue() && !ryp.HasValue():
		ry = rx
	case ryp.HasValue() && !rxp.HasValue():
		rx = ry
	}
	return ellipseTo(sf, cx, cy, rx, ry)
}

// ellipseTo emits an axis-aligned ellipse as four cubic arcs. A radius
// of zero or less draws nothing and bounds the center point.
func ellipseTo(sf surface.Surface, cx, cy, rx, ry float64) geom.BoundingBox {
	if rx <= 0 || ry <= 0 {
		return geom.NewBoundingBox(geom.Pt(cx, cy))
	}
	if sf != nil {
		kx, ky := rx*kappa, ry*kappa
		sf.MoveTo(cx+rx, cy)
		sf.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
		sf.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
		sf.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
		sf.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
		sf.ClosePath()
	}
	return geom.BoxFromRect(cx-rx, cy-ry, 2*rx, 2*ry)
}

func linePath(e *Element, sf surface.Surface) geom.BoundingBox {
	p1, p2 := linePoints(e)
	if sf != nil {
		sf.MoveTo(p1.X, p1.Y)
		sf.LineTo(p2.X, p2.Y)
	}
	return geom.NewBoundingBox(p1, p2)
}

func linePoints(e *Element) (geom.Point, geom.Point) {
	return geom.Pt(e.Style("x1").Pixels(units.X), e.Style("y1").Pixels(units.Y)),
		geom.Pt(e.Style("x2").Pixels(units.X), e.Style("y2").Pixels(units.Y))
}

func polyPath(e *Element, sf surface.Surface) geom.BoundingBox {
	pts := polyPoints(e)
	bb := geom.NewBoundingBox(pts...)
	if sf == nil || len(pts) == 0 {
		return bb
	}
	sf.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		sf.LineTo(p.X, p.Y)
	}
	if e.kind == KindPolygon {
		sf.ClosePath()
	}
	return bb
}

// polyPoints returns the points list. An odd trailing coordinate is
// dropped.
func polyPoints(e *Element) []geom.Point {
	n := e.Attr("points").Numbers()
	pts := make([]geom.Point, 0, len(n)/2)
	for i := 0; i+1 < len(n); i += 2 {
		pts = append(pts, geom.Pt(n[i], n[i+1]))
	}
	return pts
}
