package svg

import (
	"context"
	"sync"
	"time"

	"github.com/gogpu/svg/surface"
)

// frameLoop is the state of the goroutine started by Start.
type frameLoop struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// Guarded by paintMu.
	clock    float64
	painted  bool
	wasReady bool
}

// Tick advances every animation track by elapsed and reports whether any
// animated value changed.
func (d *Document) Tick(elapsed time.Duration) bool {
	d.paintMu.Lock()
	defer d.paintMu.Unlock()
	return d.tick(elapsed)
}

func (d *Document) tick(elapsed time.Duration) bool {
	if elapsed > 0 {
		d.loop.clock += float64(elapsed) / float64(time.Millisecond)
	}
	changed := false
	for _, t := range d.tracks {
		if t.update(d.loop.clock) {
			changed = true
		}
	}
	return changed
}

// Frame advances the animation by elapsed and repaints sf when something
// changed: an animated value, a pending mouse event, the document
// becoming ready, or a redraw forced by the options. It reports whether
// it painted.
//
// Frame drives the same steps as the Start loop for callers that own
// their frame timing, such as a window's draw callback.
func (d *Document) Frame(sf surface.Surface, elapsed time.Duration, opts ...RenderOption) (bool, error) {
	if sf == nil {
		return false, ErrNilSurface
	}
	d.paintMu.Lock()
	defer d.paintMu.Unlock()
	d.render = newRenderOptions(opts)
	return d.frame(sf, elapsed), nil
}

// frame runs one tick and paints when needed. The caller holds paintMu.
func (d *Document) frame(sf surface.Surface, elapsed time.Duration) bool {
	ro := d.render
	redraw := !d.loop.painted || ro.enableRedraw
	if !ro.ignoreAnimation && d.tick(elapsed) {
		redraw = true
	}
	if !ro.ignoreMouse && d.mouse.hasPending() {
		redraw = true
	}
	if ro.forceRedraw != nil && ro.forceRedraw() {
		redraw = true
	}
	if ready := d.ready.check(); ready && !d.loop.wasReady {
		d.loop.wasReady = true
		redraw = true
		Logger().Info("svg: document ready")
	}
	if !redraw {
		return false
	}
	d.paint(sf)
	d.loop.painted = true
	return true
}

// resetTimeline rewinds the clock and restores every animated value.
// The caller holds paintMu.
func (d *Document) resetTimeline() {
	d.loop.clock = 0
	d.loop.painted = false
	d.loop.wasReady = false
	for _, t := range d.tracks {
		t.reset()
	}
}

// Start runs a frame loop painting onto sf at the configured frame rate
// until Stop is called. Each start begins the timeline from zero.
//
// Frames painted before the document is ready are provisional; the loop
// repaints once every asset has loaded.
func (d *Document) Start(sf surface.Surface, opts ...RenderOption) error {
	if sf == nil {
		return ErrNilSurface
	}
	l := &d.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return ErrAlreadyRunning
	}

	ro := newRenderOptions(opts)
	d.paintMu.Lock()
	d.render = ro
	d.resetTimeline()
	d.paintMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	l.cancel, l.done = cancel, done

	interval := time.Duration(float64(time.Second) / ro.frameRate)
	go d.run(ctx, sf, interval, done)
	Logger().Info("svg: frame loop started", "fps", ro.frameRate, "tracks", len(d.tracks))
	return nil
}

func (d *Document) run(ctx context.Context, sf surface.Surface, interval time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	d.paintMu.Lock()
	d.frame(sf, 0)
	d.paintMu.Unlock()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			d.paintMu.Lock()
			if ctx.Err() == nil {
				d.frame(sf, elapsed)
			}
			d.paintMu.Unlock()
		}
	}
}

// Stop cancels the frame loop started by Start. It returns without
// waiting for a frame in progress; no frame starts after Stop returns.
// Stop returns ErrNotRunning when no loop is running.
func (d *Document) Stop() error {
	l := &d.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel == nil {
		return ErrNotRunning
	}
	l.cancel()
	l.cancel, l.done = nil, nil
	Logger().Info("svg: frame loop stopped")
	return nil
}

// Running reports whether a frame loop is running.
func (d *Document) Running() bool {
	d.loop.mu.Lock()
	defer d.loop.mu.Unlock()
	return d.loop.cancel != nil
}
