package recording

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

func TestNewRecorder(t *testing.T) {
	rec := NewRecorder(800, 600)
	if rec.Width() != 800 || rec.Height() != 600 {
		t.Errorf("size = %dx%d, want 800x600", rec.Width(), rec.Height())
	}
	if len(rec.FinishRecording().Commands()) != 0 {
		t.Error("new recorder has commands")
	}
}

func TestRecorderFill(t *testing.T) {
	rec := NewRecorder(100, 100)
	rec.SetFillPaint(surface.Solid(units.RGB(1, 0, 0)))
	rec.Transform(geom.Translate(10, 20))
	rec.BeginPath()
	rec.Rect(0, 0, 5, 5)
	if err := rec.Fill(surface.FillRuleEvenOdd); err != nil {
		t.Fatal(err)
	}

	r := rec.FinishRecording()
	if r.Count(CmdFillPath) != 1 {
		t.Fatalf("FillPath count = %d, want 1", r.Count(CmdFillPath))
	}
	c := r.Commands()[0].(FillPathCommand)
	if c.Rule != surface.FillRuleEvenOdd {
		t.Errorf("rule = %v, want evenodd", c.Rule)
	}
	b := r.Resources().GetPath(c.Path).Bounds()
	if b.X1 != 10 || b.Y1 != 20 || b.X2 != 15 || b.Y2 != 25 {
		t.Errorf("device bounds = %+v, want [10,20]-[15,25]", b)
	}
	if c.Matrix != geom.Translate(10, 20) {
		t.Errorf("matrix = %v, want translate(10,20)", c.Matrix)
	}
}

func TestRecorderSkipsEmpty(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.BeginPath()
	_ = rec.Fill(surface.FillRuleNonZero)
	rec.Rect(0, 0, 1, 1)
	_ = rec.Stroke() // no stroke paint
	rec.SetFillPaint(nil)
	_ = rec.Fill(surface.FillRuleNonZero)

	if n := len(rec.FinishRecording().Commands()); n != 0 {
		t.Errorf("recorded %d commands, want 0", n)
	}
}

func TestRecorderSaveRestore(t *testing.T) {
	rec := NewRecorder(100, 100)
	rec.SetGlobalAlpha(0.5)
	rec.Save()
	rec.SetGlobalAlpha(1)
	rec.Transform(geom.Scale(2, 2))
	rec.Restore()

	if rec.Matrix() != geom.Identity() {
		t.Errorf("matrix after Restore = %v, want identity", rec.Matrix())
	}
	if rec.state.alpha != 0.5 {
		t.Errorf("alpha after Restore = %v, want 0.5", rec.state.alpha)
	}
	rec.Restore() // unbalanced, ignored

	r := rec.FinishRecording()
	if r.Count(CmdSave) != 1 || r.Count(CmdRestore) != 1 {
		t.Errorf("save/restore = %d/%d, want 1/1", r.Count(CmdSave), r.Count(CmdRestore))
	}
}

func TestRecorderLayersAndText(t *testing.T) {
	rec := NewRecorder(100, 100)
	rec.PushLayer(0.5)
	_ = rec.FillText("abc", 0, 10)
	rec.SetStrokePaint(surface.Solid(units.Black))
	_ = rec.StrokeText("abc", 0, 10)
	rec.PopLayer()
	rec.PopLayer() // unbalanced, ignored

	r := rec.FinishRecording()
	want := []CommandType{CmdPushLayer, CmdFillText, CmdStrokeText, CmdPopLayer}
	if len(r.Commands()) != len(want) {
		t.Fatalf("got %d commands, want %d", len(r.Commands()), len(want))
	}
	for i, c := range r.Commands() {
		if c.Type() != want[i] {
			t.Errorf("command %d = %v, want %v", i, c.Type(), want[i])
		}
	}
	if m := rec.MeasureText("abc"); m.Width <= 0 {
		t.Errorf("MeasureText width = %v, want > 0", m.Width)
	}
}

func TestRecordingPlayback(t *testing.T) {
	rec := NewRecorder(20, 20)
	rec.Clear(color.White)
	rec.Save()
	rec.BeginPath()
	rec.Rect(0, 0, 10, 20)
	rec.Clip(surface.FillRuleNonZero)
	rec.SetFillPaint(surface.Solid(units.RGB(1, 0, 0)))
	rec.BeginPath()
	rec.Rect(0, 0, 20, 20)
	_ = rec.Fill(surface.FillRuleNonZero)
	rec.Restore()

	img := rec.ImageData()
	if c := img.RGBAAt(5, 5); c.R != 255 || c.G != 0 {
		t.Errorf("inside clip = %v, want red", c)
	}
	if c := img.RGBAAt(15, 5); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside clip = %v, want white", c)
	}
}

func TestRecorderPutImageDataCopies(t *testing.T) {
	rec := NewRecorder(4, 4)
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	rec.PutImageData(src, 1, 1)
	src.SetRGBA(0, 0, color.RGBA{B: 255, A: 255})

	if c := rec.ImageData().RGBAAt(1, 1); c.G != 255 || c.B != 0 {
		t.Errorf("pixel = %v, want the green recorded at call time", c)
	}
}

func TestRegisteredBackend(t *testing.T) {
	s, err := surface.NewSurfaceByName("recording", 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Recorder); !ok {
		t.Errorf("backend type = %T, want *Recorder", s)
	}
}
