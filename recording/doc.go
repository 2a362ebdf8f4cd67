// Package recording provides a command-recording drawing surface.
//
// Recorder implements surface.Surface but stores typed commands instead
// of rasterizing. Rendering a document onto a Recorder shows exactly
// which fills, strokes, clips and layers the renderer issued, which is
// how renderer behavior is tested without comparing pixels.
//
// # Architecture
//
//   - Recorder: captures drawing operations as commands
//   - Recording: stores commands and resources for playback
//   - ResourcePool: paths, paints and images referenced by commands
//
// Paths are recorded in device space, the way every surface builds them.
// Drawing commands also carry the matrix and global alpha current when
// they were issued, so paints, text and images replay in the right user
// space.
//
// # Basic Usage
//
//	rec := recording.NewRecorder(800, 600)
//	rec.SetFillPaint(surface.Solid(units.RGB(1, 0, 0)))
//	rec.BeginPath()
//	rec.Rect(100, 100, 200, 150)
//	_ = rec.Fill(surface.FillRuleNonZero)
//
//	r := rec.FinishRecording()
//	fmt.Println(r.Count(recording.CmdFillPath)) // 1
//
// # Playback
//
// A Recording replays onto any surface:
//
//	img := surface.NewImageSurface(800, 600)
//	if err := r.Playback(img); err != nil {
//	    return err
//	}
//
// The Recorder is also registered as the "recording" surface backend.
//
// # Thread Safety
//
// Recorder and ResourcePool are not safe for concurrent use. A finished
// Recording may be played back from several goroutines onto different
// surfaces.
package recording
