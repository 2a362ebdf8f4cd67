package svg

import (
	"math"
	"strings"

	"github.com/gogpu/svg/cascade"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

// fillPaint returns the fill paint of e, nil when it is not filled.
func (e *Element) fillPaint(sf surface.Surface) surface.Paint {
	return e.paintOf(sf, "fill", e.opacity("fill-opacity"), units.Black)
}

// strokePaint returns the stroke paint of e, nil when it is not stroked.
func (e *Element) strokePaint(sf surface.Surface) surface.Paint {
	if sw := e.strokeWidth(); sw <= 0 {
		return nil
	}
	return e.paintOf(sf, "stroke", e.opacity("stroke-opacity"), units.Transparent)
}

// paintOf resolves a <paint> property: none, a color, currentColor or
// url(#id) with an optional fallback. def is used when the property is
// unset; a transparent default means no paint. Paint servers size their
// rasters for sf.
func (e *Element) paintOf(sf surface.Surface, name string, opacity float64, def units.Color) surface.Paint {
	p := e.Style(name)
	if !p.HasValue() {
		if def.IsTransparent() {
			return nil
		}
		return surface.Solid(def.WithAlpha(opacity))
	}
	v := strings.TrimSpace(p.String())
	if v == "none" {
		return nil
	}

	if urls := cascade.ParseURLs(v); len(urls) > 0 {
		id, _ := strings.CutPrefix(urls[0], "#")
		if ref := e.doc.Element(id); ref != nil {
			if ps := behaviors[ref.kind].paintServer; ps != nil {
				if paint := ps(ref, e, sf, opacity); paint != nil {
					return paint
				}
				return nil
			}
		}
		fallback := ""
		if i := strings.LastIndexByte(v, ')'); i >= 0 {
			fallback = strings.TrimSpace(v[i+1:])
		}
		if fallback == "" {
			Logger().Warn("svg: unresolved paint server", "element", e.String(), "property", name, "value", v)
			return nil
		}
		if fallback == "none" {
			return nil
		}
		v = fallback
	}

	c, ok := e.color(newProperty(e.doc, name, v))
	if !ok {
		Logger().Warn("svg: invalid paint", "element", e.String(), "property", name, "value", v)
		return nil
	}
	if c.IsTransparent() {
		return nil
	}
	return surface.Solid(c.WithAlpha(opacity))
}

// strokeWidth returns the stroke width in user units.
func (e *Element) strokeWidth() float64 {
	return e.Style("stroke-width").PixelsOr(units.Diagonal, 1)
}

// strokeStyle builds the stroke parameters of e. scale is the surface
// scale factor, used by vector-effect: non-scaling-stroke.
func (e *Element) strokeStyle(scale float64) surface.StrokeStyle {
	st := surface.DefaultStrokeStyle()
	st.Width = e.strokeWidth()
	if e.Style("vector-effect").Is("non-scaling-stroke") && scale > 0 {
		st.Width /= scale
	}

	switch strings.TrimSpace(e.Style("stroke-linecap").String()) {
	case "round":
		st.Cap = surface.LineCapRound
	case "square":
		st.Cap = surface.LineCapSquare
	}
	switch strings.TrimSpace(e.Style("stroke-linejoin").String()) {
	case "round":
		st.Join = surface.LineJoinRound
	case "bevel":
		st.Join = surface.LineJoinBevel
	}
	if ml := e.Style("stroke-miterlimit"); ml.HasValue() {
		if v := ml.NumberOr(4); v >= 1 {
			st.MiterLimit = v
		}
	}

	st.Dash = e.dashArray()
	if len(st.Dash) > 0 {
		st.DashOffset = e.Style("stroke-dashoffset").Pixels(units.Diagonal)
	}
	return st
}

// dashArray returns the resolved stroke-dasharray. Odd lists are
// repeated; lists with a negative entry or a zero sum disable dashing.
func (e *Element) dashArray() []float64 {
	p := e.Style("stroke-dasharray")
	if !p.HasValue() || p.Is("none") {
		return nil
	}
	items := p.Split()
	dash := make([]float64, 0, len(items)*2)
	sum := 0.0
	for _, it := range items {
		v := newProperty(e.doc, "stroke-dasharray", it).PixelsOr(units.Diagonal, math.NaN())
		if math.IsNaN(v) || v < 0 {
			return nil
		}
		dash = append(dash, v)
		sum += v
	}
	if sum <= 0 {
		return nil
	}
	if len(dash)%2 == 1 {
		dash = append(dash, dash...)
	}
	return dash
}

// fillRule returns the named fill rule property.
func (e *Element) fillRule(name string) surface.FillRule {
	if e.Style(name).Is("evenodd") {
		return surface.FillRuleEvenOdd
	}
	return surface.FillRuleNonZero
}

// strokeFirst reports whether paint-order puts the stroke before the
// fill.
func (e *Element) strokeFirst() bool {
	f := strings.Fields(e.Style("paint-order").String())
	for _, s := range f {
		switch s {
		case "stroke":
			return true
		case "fill":
			return false
		}
	}
	return false
}
