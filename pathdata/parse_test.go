package pathdata

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/svg/geom"
)

func pointsEqual(p1, p2 geom.Point, eps float64) bool {
	return math.Abs(p1.X-p2.X) < eps && math.Abs(p1.Y-p2.Y) < eps
}

func kinds(p *Path) []Kind {
	var out []Kind
	for _, c := range p.Commands() {
		out = append(out, c.Kind)
	}
	return out
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name  string
		d     string
		kinds []Kind
	}{
		{"empty", "", nil},
		{"move line close", "M0 0 L10 10 Z", []Kind{Move, Line, Close}},
		{"implicit lineto after move", "M0 0 10 10 20 0", []Kind{Move, Line, Line}},
		{"repeated cubic", "M0,0 C1,1 2,2 3,3 4,4 5,5 6,6", []Kind{Move, Cubic, Cubic}},
		{"compact numbers", "M0-1.5.5.5L-2-2", []Kind{Move, Line, Line}},
		{"exponent", "M1e2 1E-1h1e1", []Kind{Move, HorizontalLine}},
		{"compact arc flags", "M0 0a1 1 0 0010 10", []Kind{Move, Arc}},
		{"all kinds", "M0 0 H1 V1 C1 1 2 2 3 3 S4 4 5 5 Q6 6 7 7 T8 8 A1 1 0 0 1 9 9 z",
			[]Kind{Move, HorizontalLine, VerticalLine, Cubic, SmoothCubic, Quadratic, SmoothQuadratic, Arc, Close}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseStrict(tt.d)
			if err != nil {
				t.Fatalf("ParseStrict(%q) error: %v", tt.d, err)
			}
			got := kinds(p)
			if len(got) != len(tt.kinds) {
				t.Fatalf("kinds = %v, want %v", got, tt.kinds)
			}
			for i := range got {
				if got[i] != tt.kinds[i] {
					t.Errorf("kind[%d] = %v, want %v", i, got[i], tt.kinds[i])
				}
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	p := MustParse("m1-2.5.5.25 a5 6 30 1 0 7 8")
	cmds := p.Commands()
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	if !cmds[0].Relative || cmds[0].Args[0] != 1 || cmds[0].Args[1] != -2.5 {
		t.Errorf("move = %+v", cmds[0])
	}
	// Implicit lineto keeps the relative flag of the moveto.
	if cmds[1].Kind != Line || !cmds[1].Relative || cmds[1].Args[0] != 0.5 {
		t.Errorf("implicit line = %+v", cmds[1])
	}
	want := []float64{5, 6, 30, 1, 0, 7, 8}
	for i, v := range want {
		if cmds[2].Args[i] != v {
			t.Errorf("arc arg[%d] = %v, want %v", i, cmds[2].Args[i], v)
		}
	}
}

func TestParseStrictErrors(t *testing.T) {
	tests := []struct {
		name   string
		d      string
		offset int
	}{
		{"no moveto", "L10 10", 0},
		{"junk", "M0 0 L10 10 #", 12},
		{"missing args", "M0 0 L10", 8},
		{"bad flag", "M0 0 A1 1 0 2 0 5 5", 12},
		{"number after close", "M0 0 L1 1 Z 5", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStrict(tt.d)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error %v does not wrap ErrSyntax", err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not *SyntaxError", err)
			}
			if se.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", se.Offset, tt.offset)
			}
		})
	}
}

func TestParseLenient(t *testing.T) {
	tests := []struct {
		name      string
		d         string
		n         int
		recovered bool
	}{
		{"valid", "M0 0 L10 10", 2, false},
		{"trailing junk", "M0 0 L10 10 foo", 2, true},
		{"incomplete command dropped", "M0 0 L10 10 L5", 2, true},
		{"junk mid-path", "M0 0 L10 10 ! L20 20", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.d)
			if p.Len() != tt.n {
				t.Errorf("Len() = %d, want %d", p.Len(), tt.n)
			}
			if p.Recovered() != tt.recovered {
				t.Errorf("Recovered() = %v, want %v", p.Recovered(), tt.recovered)
			}
		})
	}
}

func TestParseNumbers(t *testing.T) {
	got, err := ParseNumbers(" 0,0 10 -5.5e1,.5")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0, 10, -55, 0.5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if _, err := ParseNumbers("1 2 x"); err == nil {
		t.Error("expected error for invalid list")
	}
}

func BenchmarkParse(b *testing.B) {
	d := "M10 10 C20 20 40 20 50 10 S80 0 90 10 Q100 20 110 10 T130 10 A10 10 0 0 1 150 10 L150 50 H10 V10 Z"
	for i := 0; i < b.N; i++ {
		_ = Parse(d)
	}
}
