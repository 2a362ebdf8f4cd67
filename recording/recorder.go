package recording

import (
	"image"
	"image/color"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
	"github.com/gogpu/svg/units"
)

func init() {
	surface.Register("recording", 0, func(opts surface.Options) (surface.Surface, error) {
		return NewRecorder(opts.Width, opts.Height), nil
	}, nil)
}

// Recorder is a surface.Surface that captures drawing operations as
// commands instead of rasterizing them. Use FinishRecording to obtain a
// Recording that can be inspected or replayed onto any surface.
//
// Example:
//
//	rec := recording.NewRecorder(800, 600)
//	rec.SetFillPaint(surface.Solid(units.RGB(1, 0, 0)))
//	rec.BeginPath()
//	rec.Rect(10, 10, 100, 100)
//	_ = rec.Fill(surface.FillRuleNonZero)
//	r := rec.FinishRecording()
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	surface.PathBuilder

	width, height int
	commands      []Command
	resources     *ResourcePool

	state      recorderState
	stateStack []recorderState
	layers     int
}

// recorderState stores the graphics state for Save/Restore.
type recorderState struct {
	matrix geom.Matrix
	fill   surface.Paint
	stroke surface.Paint
	style  surface.StrokeStyle
	alpha  float64
	font   surface.Font
}

// NewRecorder creates a new Recorder for the given dimensions.
// The Recorder starts with a black fill, no stroke, the default stroke
// style and an identity transform.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		PathBuilder: surface.NewPathBuilder(),
		width:       max(width, 1),
		height:      max(height, 1),
		commands:    make([]Command, 0, 256),
		resources:   NewResourcePool(),
		state: recorderState{
			matrix: geom.Identity(),
			fill:   surface.Solid(units.Black),
			style:  surface.DefaultStrokeStyle(),
			alpha:  1,
			font:   surface.Font{Family: "sans-serif", Size: 16, Weight: 400},
		},
		stateStack: make([]recorderState, 0, 8),
	}
}

// FinishRecording returns a Recording of the commands so far. The
// Recorder keeps recording into the same command list afterwards.
func (r *Recorder) FinishRecording() *Recording {
	return &Recording{
		width:     r.width,
		height:    r.height,
		commands:  r.commands[:len(r.commands):len(r.commands)],
		resources: r.resources,
	}
}

// Recording is an immutable container for recorded drawing commands.
type Recording struct {
	width, height int
	commands      []Command
	resources     *ResourcePool
}

// Width returns the width of the recording canvas.
func (r *Recording) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recording) Height() int {
	return r.height
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Resources returns the resource pool.
func (r *Recording) Resources() *ResourcePool {
	return r.resources
}

// Count returns the number of commands of type t.
func (r *Recording) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Playback replays the recording onto dst.
func (r *Recording) Playback(dst surface.Surface) error {
	for _, cmd := range r.commands {
		if err := r.playCommand(dst, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recording) playCommand(dst surface.Surface, cmd Command) error {
	switch c := cmd.(type) {
	case SaveCommand:
		dst.Save()
	case RestoreCommand:
		dst.Restore()
	case ClipCommand:
		loadPath(dst, r.resources.GetPath(c.Path))
		dst.Clip(c.Rule)
	case PushLayerCommand:
		dst.PushLayer(c.Opacity)
	case PopLayerCommand:
		dst.PopLayer()
	case FillPathCommand:
		loadPath(dst, r.resources.GetPath(c.Path))
		applyDraw(dst, c.Draw)
		dst.SetFillPaint(r.resources.GetPaint(c.Paint))
		return dst.Fill(c.Rule)
	case StrokePathCommand:
		loadPath(dst, r.resources.GetPath(c.Path))
		applyDraw(dst, c.Draw)
		dst.SetStrokePaint(r.resources.GetPaint(c.Paint))
		dst.SetStrokeStyle(c.Style)
		return dst.Stroke()
	case TextCommand:
		applyDraw(dst, c.Draw)
		dst.SetFont(c.Font)
		if c.Stroked {
			dst.SetStrokePaint(r.resources.GetPaint(c.Paint))
			dst.SetStrokeStyle(c.Style)
			return dst.StrokeText(c.Text, c.X, c.Y)
		}
		dst.SetFillPaint(r.resources.GetPaint(c.Paint))
		return dst.FillText(c.Text, c.X, c.Y)
	case DrawImageCommand:
		applyDraw(dst, c.Draw)
		return dst.DrawImage(r.resources.GetImage(c.Image), c.X, c.Y, c.W, c.H)
	case PutImageDataCommand:
		if img, ok := r.resources.GetImage(c.Image).(*image.RGBA); ok {
			dst.PutImageData(img, c.X, c.Y)
		}
	case ClearCommand:
		dst.Clear(c.Color)
	}
	return nil
}

// loadPath rebuilds a device-space path on dst under identity.
func loadPath(dst surface.Surface, p *surface.Path) {
	dst.SetTransform(geom.Identity())
	dst.BeginPath()
	if p == nil {
		return
	}
	p.Walk(func(v surface.Verb, pts []geom.Point) {
		switch v {
		case surface.VerbMoveTo:
			dst.MoveTo(pts[0].X, pts[0].Y)
		case surface.VerbLineTo:
			dst.LineTo(pts[0].X, pts[0].Y)
		case surface.VerbQuadTo:
			dst.QuadraticTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		case surface.VerbCubicTo:
			dst.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case surface.VerbClose:
			dst.ClosePath()
		}
	})
}

func applyDraw(dst surface.Surface, d Draw) {
	dst.SetTransform(d.Matrix)
	dst.SetGlobalAlpha(d.Alpha)
}

// --------------------------------------------------------------------------
// Surface implementation
// --------------------------------------------------------------------------

// Width returns the canvas width.
func (r *Recorder) Width() int {
	return r.width
}

// Height returns the canvas height.
func (r *Recorder) Height() int {
	return r.height
}

func (r *Recorder) record(c Command) {
	r.commands = append(r.commands, c)
}

func (r *Recorder) draw() Draw {
	return Draw{Matrix: r.Matrix(), Alpha: r.state.alpha}
}

// Save saves the current graphics state onto a stack.
func (r *Recorder) Save() {
	r.state.matrix = r.Matrix()
	r.stateStack = append(r.stateStack, r.state)
	r.record(SaveCommand{})
}

// Restore restores the graphics state from the stack.
func (r *Recorder) Restore() {
	if len(r.stateStack) == 0 {
		return
	}
	r.state = r.stateStack[len(r.stateStack)-1]
	r.stateStack = r.stateStack[:len(r.stateStack)-1]
	r.SetTransform(r.state.matrix)
	r.record(RestoreCommand{})
}

func (r *Recorder) SetFillPaint(p surface.Paint)          { r.state.fill = p }
func (r *Recorder) SetStrokePaint(p surface.Paint)        { r.state.stroke = p }
func (r *Recorder) SetStrokeStyle(st surface.StrokeStyle) { r.state.style = st }
func (r *Recorder) SetFont(f surface.Font)                { r.state.font = f }

// SetGlobalAlpha sets the alpha recorded with later drawing commands.
func (r *Recorder) SetGlobalAlpha(alpha float64) {
	r.state.alpha = max(0, min(1, alpha))
}

// Fill records a fill of the current path. Empty paths and a nil paint
// record nothing.
func (r *Recorder) Fill(rule surface.FillRule) error {
	if r.Path().IsEmpty() || r.state.fill == nil {
		return nil
	}
	r.record(FillPathCommand{
		Draw:  r.draw(),
		Path:  r.resources.AddPath(r.Path()),
		Paint: r.resources.AddPaint(r.state.fill),
		Rule:  rule,
	})
	return nil
}

// Stroke records a stroke of the current path.
func (r *Recorder) Stroke() error {
	if r.Path().IsEmpty() || r.state.stroke == nil || r.state.style.Width <= 0 {
		return nil
	}
	r.record(StrokePathCommand{
		Draw:  r.draw(),
		Path:  r.resources.AddPath(r.Path()),
		Paint: r.resources.AddPaint(r.state.stroke),
		Style: r.state.style,
	})
	return nil
}

// Clip records a clip by the current path and clears the path.
func (r *Recorder) Clip(rule surface.FillRule) {
	r.record(ClipCommand{Path: r.resources.AddPath(r.Path()), Rule: rule})
	r.BeginPath()
}

// PushLayer records the start of an opacity layer.
func (r *Recorder) PushLayer(opacity float64) {
	r.layers++
	r.record(PushLayerCommand{Opacity: opacity})
}

// PopLayer records the end of the innermost layer.
func (r *Recorder) PopLayer() {
	if r.layers == 0 {
		return
	}
	r.layers--
	r.record(PopLayerCommand{})
}

// MeasureText measures with the built-in fonts.
func (r *Recorder) MeasureText(s string) surface.TextMetrics {
	src, err := surface.FontSource(r.state.font)
	if err != nil {
		return surface.TextMetrics{}
	}
	size := r.state.font.Size
	if size <= 0 {
		size = 16
	}
	face := src.Face(size)
	m := face.Metrics()
	return surface.TextMetrics{Width: face.Advance(s), Ascent: m.Ascent, Descent: m.Descent}
}

// FillText records filled text.
func (r *Recorder) FillText(s string, x, y float64) error {
	if r.state.fill == nil {
		return nil
	}
	r.record(TextCommand{
		Draw: r.draw(), Text: s, X: x, Y: y, Font: r.state.font,
		Paint: r.resources.AddPaint(r.state.fill),
	})
	return nil
}

// StrokeText records stroked text.
func (r *Recorder) StrokeText(s string, x, y float64) error {
	if r.state.stroke == nil {
		return nil
	}
	r.record(TextCommand{
		Draw: r.draw(), Text: s, X: x, Y: y, Font: r.state.font,
		Paint: r.resources.AddPaint(r.state.stroke), Style: r.state.style, Stroked: true,
	})
	return nil
}

// DrawImage records an image draw.
func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) error {
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	r.record(DrawImageCommand{Draw: r.draw(), Image: r.resources.AddImage(img), X: x, Y: y, W: w, H: h})
	return nil
}

// ImageData plays the recording onto a fresh ImageSurface and returns
// its pixels.
func (r *Recorder) ImageData() *image.RGBA {
	s := surface.NewImageSurface(r.width, r.height)
	defer s.Close()
	_ = r.FinishRecording().Playback(s)
	return s.ImageData()
}

// PutImageData records a pixel copy. The pixels are copied.
func (r *Recorder) PutImageData(img *image.RGBA, x, y int) {
	if img == nil {
		return
	}
	c := image.NewRGBA(img.Bounds())
	copy(c.Pix, img.Pix)
	r.record(PutImageDataCommand{Image: r.resources.AddImage(c), X: x, Y: y})
}

// Clear records a clear.
func (r *Recorder) Clear(c color.Color) {
	r.record(ClearCommand{Color: c})
}

// NewSurface returns a new Recorder.
func (r *Recorder) NewSurface(width, height int) (surface.Surface, error) {
	return NewRecorder(width, height), nil
}

// Close is a no-op.
func (r *Recorder) Close() error {
	return nil
}

var _ surface.Surface = (*Recorder)(nil)
