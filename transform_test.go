package svg

import (
	"testing"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/recording"
)

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name string
		in   string
		p    geom.Point
		want geom.Point
	}{
		{"translate", "translate(10 20)", geom.Pt(1, 1), geom.Pt(11, 21)},
		{"translate x only", "translate(5)", geom.Pt(1, 1), geom.Pt(6, 1)},
		{"scale uniform", "scale(2)", geom.Pt(3, 4), geom.Pt(6, 8)},
		{"list applies right to left", "translate(10 20) scale(2)", geom.Pt(1, 1), geom.Pt(12, 22)},
		{"rotate about point", "rotate(90 10 10)", geom.Pt(20, 10), geom.Pt(10, 20)},
		{"matrix", "matrix(1 0 0 1 3 4)", geom.Pt(0, 0), geom.Pt(3, 4)},
		{"commas", "translate(1,2),scale(3,3)", geom.Pt(1, 1), geom.Pt(4, 5)},
		{"empty", "", geom.Pt(7, 8), geom.Pt(7, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := ParseTransform(tt.in)
			if err != nil {
				t.Fatalf("ParseTransform(%q) error = %v", tt.in, err)
			}
			got := tr.ApplyToPoint(tt.p)
			if !near(got.X, tt.want.X, 1e-9) || !near(got.Y, tt.want.Y, 1e-9) {
				t.Errorf("ApplyToPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
			m := tr.Matrix().TransformPoint(tt.p)
			if !near(m.X, got.X, 1e-9) || !near(m.Y, got.Y, 1e-9) {
				t.Errorf("Matrix().TransformPoint = %v, ApplyToPoint = %v", m, got)
			}
		})
	}
}

func TestParseTransformErrors(t *testing.T) {
	for _, in := range []string{
		"translate(1 2",
		"shear(1)",
		"matrix(1 2 3)",
		"rotate(1 2)",
		"scale()",
	} {
		if _, err := ParseTransform(in); err == nil {
			t.Errorf("ParseTransform(%q) error = nil, want error", in)
		}
	}
}

func TestTransformApplyUnapply(t *testing.T) {
	tr, err := ParseTransform("translate(10 5) rotate(30) scale(2 3)")
	if err != nil {
		t.Fatal(err)
	}
	rec := recording.NewRecorder(10, 10)
	tr.Apply(rec)
	if !rec.Matrix().ApproxEqual(tr.Matrix(), 1e-9) {
		t.Errorf("after Apply matrix = %v, want %v", rec.Matrix(), tr.Matrix())
	}
	tr.Unapply(rec)
	if !rec.Matrix().ApproxEqual(geom.Identity(), 1e-9) {
		t.Errorf("after Unapply matrix = %v, want identity", rec.Matrix())
	}
}
