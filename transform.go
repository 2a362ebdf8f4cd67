package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/pathdata"
	"github.com/gogpu/svg/surface"
)

// TransformKind names an atomic transform function.
type TransformKind uint8

const (
	TransformMatrix TransformKind = iota
	TransformTranslate
	TransformScale
	TransformRotate
	TransformSkewX
	TransformSkewY
)

var transformNames = [...]string{
	TransformMatrix:    "matrix",
	TransformTranslate: "translate",
	TransformScale:     "scale",
	TransformRotate:    "rotate",
	TransformSkewX:     "skewX",
	TransformSkewY:     "skewY",
}

// String returns the transform function name.
func (k TransformKind) String() string {
	if int(k) < len(transformNames) {
		return transformNames[k]
	}
	return "unknown"
}

// AtomicTransform is one function of a transform list.
type AtomicTransform struct {
	Kind TransformKind
	Args []float64
	m    geom.Matrix
	inv  geom.Matrix
	ok   bool
}

func newAtomicTransform(kind TransformKind, args []float64) (AtomicTransform, error) {
	arg := func(i int, def float64) float64 {
		if i < len(args) {
			return args[i]
		}
		return def
	}
	var m geom.Matrix
	switch kind {
	case TransformMatrix:
		if len(args) != 6 {
			return AtomicTransform{}, fmt.Errorf("matrix needs 6 arguments, got %d", len(args))
		}
		m = geom.FromSVG(args[0], args[1], args[2], args[3], args[4], args[5])
	case TransformTranslate:
		if len(args) < 1 || len(args) > 2 {
			return AtomicTransform{}, fmt.Errorf("translate needs 1 or 2 arguments, got %d", len(args))
		}
		m = geom.Translate(args[0], arg(1, 0))
	case TransformScale:
		if len(args) < 1 || len(args) > 2 {
			return AtomicTransform{}, fmt.Errorf("scale needs 1 or 2 arguments, got %d", len(args))
		}
		m = geom.Scale(args[0], arg(1, args[0]))
	case TransformRotate:
		if len(args) != 1 && len(args) != 3 {
			return AtomicTransform{}, fmt.Errorf("rotate needs 1 or 3 arguments, got %d", len(args))
		}
		m = geom.RotateAbout(args[0]*math.Pi/180, arg(1, 0), arg(2, 0))
	case TransformSkewX:
		if len(args) != 1 {
			return AtomicTransform{}, fmt.Errorf("skewX needs 1 argument, got %d", len(args))
		}
		m = geom.SkewX(args[0] * math.Pi / 180)
	case TransformSkewY:
		if len(args) != 1 {
			return AtomicTransform{}, fmt.Errorf("skewY needs 1 argument, got %d", len(args))
		}
		m = geom.SkewY(args[0] * math.Pi / 180)
	}
	if !m.IsFinite() {
		return AtomicTransform{}, fmt.Errorf("%s has non-finite arguments", kind)
	}
	t := AtomicTransform{Kind: kind, Args: args, m: m}
	t.inv, t.ok = m.Invert()
	return t, nil
}

// Matrix returns the transform as a matrix.
func (t AtomicTransform) Matrix() geom.Matrix { return t.m }

// Apply post-multiplies the surface transform by t.
func (t AtomicTransform) Apply(sf surface.Surface) { sf.Transform(t.m) }

// Unapply undoes Apply. Singular transforms cannot be undone and leave
// the surface unchanged; callers restore a saved state instead.
func (t AtomicTransform) Unapply(sf surface.Surface) {
	if t.ok {
		sf.Transform(t.inv)
	}
}

// ApplyToPoint maps p through t.
func (t AtomicTransform) ApplyToPoint(p geom.Point) geom.Point {
	return t.m.TransformPoint(p)
}

// Transform is an ordered transform list, applied left to right the way
// SVG nests them.
type Transform []AtomicTransform

// ParseTransform parses a transform attribute such as
// "translate(10 20) rotate(45, 5, 5)".
func ParseTransform(s string) (Transform, error) {
	var out Transform
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			return out, fmt.Errorf("svg: transform %q: missing '('", s)
		}
		name := strings.TrimSpace(strings.TrimLeft(rest[:open], ", \t\r\n"))
		closing := strings.IndexByte(rest[open:], ')')
		if closing < 0 {
			return out, fmt.Errorf("svg: transform %q: missing ')'", s)
		}
		closing += open
		kind, ok := transformKind(name)
		if !ok {
			return out, fmt.Errorf("svg: transform %q: unknown function %q", s, name)
		}
		args, err := pathdata.ParseNumbers(rest[open+1 : closing])
		if err != nil {
			return out, fmt.Errorf("svg: transform %q: %w", s, err)
		}
		t, err := newAtomicTransform(kind, args)
		if err != nil {
			return out, fmt.Errorf("svg: transform %q: %w", s, err)
		}
		out = append(out, t)
		rest = strings.TrimLeft(rest[closing+1:], ", \t\r\n")
	}
	return out, nil
}

func transformKind(name string) (TransformKind, bool) {
	for k, n := range transformNames {
		if n == name {
			return TransformKind(k), true
		}
	}
	return 0, false
}

// Matrix returns the combined matrix of the list.
func (t Transform) Matrix() geom.Matrix {
	m := geom.Identity()
	for _, a := range t {
		m = m.Multiply(a.m)
	}
	return m
}

// Apply applies every transform in order.
func (t Transform) Apply(sf surface.Surface) {
	for _, a := range t {
		a.Apply(sf)
	}
}

// Unapply undoes Apply, in reverse order.
func (t Transform) Unapply(sf surface.Surface) {
	for i := len(t) - 1; i >= 0; i-- {
		t[i].Unapply(sf)
	}
}

// ApplyToPoint maps p through the whole list.
func (t Transform) ApplyToPoint(p geom.Point) geom.Point {
	for i := len(t) - 1; i >= 0; i-- {
		p = t[i].ApplyToPoint(p)
	}
	return p
}

// transformOf returns the parsed transform of a property, logging and
// keeping the valid prefix when it is malformed.
func transformOf(p *Property) Transform {
	return parsedAs(p, func(s string) Transform {
		t, err := ParseTransform(s)
		if err != nil {
			Logger().Warn("svg: malformed transform", "value", s, "err", err)
		}
		return t
	})
}
