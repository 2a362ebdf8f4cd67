package svg

import (
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
)

// viewport is a size percentages resolve against.
type viewport struct {
	width, height float64
}

// viewportStack tracks nested viewports established by svg, symbol,
// marker and pattern elements while painting.
type viewportStack struct {
	frames []viewport
	root   viewport
}

func (s *viewportStack) push(w, h float64) {
	s.frames = append(s.frames, viewport{width: w, height: h})
}

func (s *viewportStack) pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *viewportStack) current() viewport {
	if len(s.frames) == 0 {
		return s.root
	}
	return s.frames[len(s.frames)-1]
}

func (s *viewportStack) reset(w, h float64) {
	s.frames = s.frames[:0]
	s.root = viewport{width: w, height: h}
}

// Align is the alignment part of preserveAspectRatio.
type Align uint8

const (
	AlignNone Align = iota
	AlignXMinYMin
	AlignXMidYMin
	AlignXMaxYMin
	AlignXMinYMid
	AlignXMidYMid
	AlignXMaxYMid
	AlignXMinYMax
	AlignXMidYMax
	AlignXMaxYMax
)

var alignNames = [...]string{
	AlignNone:     "none",
	AlignXMinYMin: "xMinYMin",
	AlignXMidYMin: "xMidYMin",
	AlignXMaxYMin: "xMaxYMin",
	AlignXMinYMid: "xMinYMid",
	AlignXMidYMid: "xMidYMid",
	AlignXMaxYMid: "xMaxYMid",
	AlignXMinYMax: "xMinYMax",
	AlignXMidYMax: "xMidYMax",
	AlignXMaxYMax: "xMaxYMax",
}

// factors returns the x and y alignment as 0, 0.5 or 1.
func (a Align) factors() (fx, fy float64) {
	if a == AlignNone {
		return 0, 0
	}
	i := int(a - AlignXMinYMin)
	return float64(i%3) / 2, float64(i/3) / 2
}

// PreserveAspectRatio controls how a viewBox is fitted into a viewport.
type PreserveAspectRatio struct {
	Align Align
	// Slice scales to cover the viewport; otherwise the viewBox is scaled
	// to fit inside it (meet).
	Slice bool
}

// ParsePreserveAspectRatio parses "[defer] <align> [meet|slice]".
// Invalid values yield the default xMidYMid meet.
func ParsePreserveAspectRatio(s string) PreserveAspectRatio {
	par := PreserveAspectRatio{Align: AlignXMidYMid}
	fields := strings.Fields(s)
	if len(fields) > 0 && fields[0] == "defer" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return par
	}
	found := false
	for a, name := range alignNames {
		if fields[0] == name {
			par.Align, found = Align(a), true
			break
		}
	}
	if !found {
		return PreserveAspectRatio{Align: AlignXMidYMid}
	}
	if len(fields) > 1 && fields[1] == "slice" {
		par.Slice = true
	}
	return par
}

func (p PreserveAspectRatio) String() string {
	s := alignNames[p.Align]
	if p.Slice {
		s += " slice"
	}
	return s
}

// Matrix returns the transform that maps the viewBox onto a viewport of
// the given size at the origin.
func (p PreserveAspectRatio) Matrix(vb ViewBox, width, height float64) geom.Matrix {
	sx, sy := width/vb.Width, height/vb.Height
	if p.Align == AlignNone {
		return geom.Scale(sx, sy).Multiply(geom.Translate(-vb.MinX, -vb.MinY))
	}
	s := math.Min(sx, sy)
	if p.Slice {
		s = math.Max(sx, sy)
	}
	fx, fy := p.Align.factors()
	tx := (width - vb.Width*s) * fx
	ty := (height - vb.Height*s) * fy
	return geom.Translate(tx, ty).
		Multiply(geom.Scale(s, s)).
		Multiply(geom.Translate(-vb.MinX, -vb.MinY))
}

// ViewBox is the user-space rectangle mapped onto a viewport.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// parseViewBox parses a viewBox attribute. It reports false for missing
// or malformed values, and for negative sizes.
func parseViewBox(p *Property) (ViewBox, bool) {
	if !p.HasValue() {
		return ViewBox{}, false
	}
	n := p.Numbers()
	if len(n) != 4 || n[2] < 0 || n[3] < 0 {
		return ViewBox{}, false
	}
	return ViewBox{MinX: n[0], MinY: n[1], Width: n[2], Height: n[3]}, true
}

// formatNumbers joins numbers with spaces, in shortest form.
func formatNumbers(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}

// frame describes a new viewport: its position and size in the parent's
// user space and how its own user space is set up.
type frame struct {
	x, y, width, height float64

	viewBox    ViewBox
	hasViewBox bool
	par        PreserveAspectRatio

	// ref is a reference point (refX, refY of a marker) placed at the
	// frame origin instead of aligning the viewBox.
	ref    geom.Point
	hasRef bool

	clip bool
}

// enterFrame moves sf into the frame's user space and pushes its
// viewport. It reports false when the frame is empty and nothing inside
// it should be drawn; the surface is unchanged in that case. The caller
// brackets the call with Save and Restore and calls leaveFrame after a
// successful enter.
func (d *Document) enterFrame(sf surface.Surface, f frame) bool {
	if f.width <= 0 || f.height <= 0 {
		return false
	}
	if f.hasViewBox && (f.viewBox.Width <= 0 || f.viewBox.Height <= 0) {
		return false
	}

	sf.Transform(geom.Translate(f.x, f.y))

	m := geom.Identity()
	var minX, minY float64
	if f.hasViewBox {
		m = f.par.Matrix(f.viewBox, f.width, f.height)
		minX, minY = f.viewBox.MinX, f.viewBox.MinY
	}

	// The reference point, scaled into viewport units, is translated away
	// ahead of the alignment translate. The clip rectangle moves with it.
	var off geom.Point
	if f.hasRef {
		off = geom.Pt(-m.A*(f.ref.X-minX), -m.E*(f.ref.Y-minY))
		m = geom.Translate(off.X, off.Y).Multiply(m)
	}

	if f.clip {
		cx, cy := off.X, off.Y
		sf.BeginPath()
		sf.Rect(cx, cy, f.width, f.height)
		sf.Clip(surface.FillRuleNonZero)
	}

	sf.Transform(m)
	if f.hasViewBox {
		d.viewports.push(f.viewBox.Width, f.viewBox.Height)
	} else {
		d.viewports.push(f.width, f.height)
	}
	return true
}

func (d *Document) leaveFrame() { d.viewports.pop() }
