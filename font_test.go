package svg

import (
	"testing"
)

const beh = 'ب'

func arabicFont(forms ...arabicForm) *svgFont {
	f := &svgFont{unitsPerEm: 1000, glyphs: make(map[string][]*svgGlyph), maxRunes: 1}
	for _, form := range forms {
		g := &svgGlyph{unicode: string(beh), form: form, hasForm: true, advance: float64(100 * (int(form) + 1))}
		f.glyphs[g.unicode] = append(f.glyphs[g.unicode], g)
	}
	for _, r := range "ab" {
		f.glyphs[string(r)] = []*svgGlyph{{unicode: string(r), advance: 10}}
	}
	f.glyphs["ab"] = []*svgGlyph{{unicode: "ab", advance: 15}}
	f.maxRunes = 2
	return f
}

func advances(gs []placedGlyph) []float64 {
	out := make([]float64, len(gs))
	for i, g := range gs {
		out[i] = g.glyph.advance
	}
	return out
}

func TestSVGFontArabicForms(t *testing.T) {
	all := arabicFont(formIsolated, formInitial, formMedial, formTerminal)
	onlyIsolated := arabicFont(formIsolated)

	tests := []struct {
		name string
		font *svgFont
		text string
		rtl  bool
		want []float64
	}{
		{"isolated", all, string(beh), true, []float64{100}},
		{"pair", all, string([]rune{beh, beh}), true, []float64{400, 200}},
		{"three letters", all, string([]rune{beh, beh, beh}), true, []float64{400, 300, 200}},
		{"fallback to isolated", onlyIsolated, string([]rune{beh, beh}), true, []float64{100, 100}},
		{"ligature", all, "aab", false, []float64{10, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, total := tt.font.layout(tt.text, tt.rtl)
			got := advances(gs)
			if len(got) != len(tt.want) {
				t.Fatalf("advances = %v, want %v", got, tt.want)
			}
			var sum float64
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("advances = %v, want %v", got, tt.want)
					break
				}
				if !near(gs[i].x, sum, 1e-9) {
					t.Errorf("glyph %d at %v, want %v", i, gs[i].x, sum)
				}
				sum += got[i]
			}
			if !near(total, sum, 1e-9) {
				t.Errorf("total advance = %v, want %v", total, sum)
			}
		})
	}
}

func TestContextualForm(t *testing.T) {
	word := []rune{'x', beh, beh, beh, 'y'}
	want := []arabicForm{formIsolated, formInitial, formMedial, formTerminal, formIsolated}
	for i := range word {
		if !isArabic(word[i]) {
			continue
		}
		if got := contextualForm(word, i); got != want[i] {
			t.Errorf("contextualForm(%d) = %v, want %v", i, got, want[i])
		}
	}
}

func TestVisualRuns(t *testing.T) {
	if runs := visualRuns("", 0, false); runs != nil {
		t.Errorf("visualRuns(empty) = %v, want nil", runs)
	}
	runs := visualRuns("abc", 3, false)
	if len(runs) != 1 || runs[0].start != 0 || runs[0].end != 2 || runs[0].rtl {
		t.Errorf("visualRuns(abc) = %+v, want one LTR run over 0..2", runs)
	}
	runs = visualRuns(string([]rune{beh, beh}), 2, true)
	if len(runs) != 1 || !runs[0].rtl {
		t.Errorf("visualRuns(arabic) = %+v, want one RTL run", runs)
	}
}

func TestParseArabicForm(t *testing.T) {
	tests := []struct {
		in   string
		want arabicForm
		ok   bool
	}{
		{"initial", formInitial, true},
		{" medial ", formMedial, true},
		{"terminal", formTerminal, true},
		{"isolated", formIsolated, true},
		{"", formIsolated, false},
		{"bogus", formIsolated, false},
	}
	for _, tt := range tests {
		got, ok := parseArabicForm(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseArabicForm(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
