// Command svgview shows an SVG document in a window, plays its
// animations and reloads it when the file changes on disk.
//
// Space pauses and resumes the animation clock.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/svg"
	"github.com/gogpu/svg/surface"
)

// The window context is presented through its ggcanvas adapter.
var _ ggcanvas.RenderTarget = (*gogpu.ContextRenderTarget)(nil)

// viewer owns the document shown in the window. The watcher goroutine
// swaps the document while the draw callback paints it.
type viewer struct {
	path string

	mu     sync.Mutex
	doc    *svg.Document
	reload bool
	paused bool
}

func (v *viewer) load() error {
	doc, err := svg.ParseFile(v.path)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.doc = doc
	v.reload = true
	v.mu.Unlock()
	return nil
}

// watch reloads the document when its file is written or replaced.
// Editors often save by renaming, so the directory is watched.
func (v *viewer) watch(w *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != v.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := v.load(); err != nil {
				log.Printf("svgview: reload: %v", err)
				continue
			}
			log.Printf("svgview: reloaded %s", v.path)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("svgview: watch: %v", err)
		}
	}
}

func main() {
	var (
		width   = flag.Int("width", 0, "window width (0: document width)")
		height  = flag.Int("height", 0, "window height (0: document height)")
		verbose = flag.Bool("v", false, "log warnings and progress to stderr")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: svgview [flags] file.svg")
	}
	if *verbose {
		svg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	path, err := filepath.Abs(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	v := &viewer{path: path}
	if err := v.load(); err != nil {
		log.Fatalf("svgview: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("svgview: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		log.Fatalf("svgview: watch %s: %v", path, err)
	}
	go v.watch(watcher)

	w, h := *width, *height
	if w <= 0 || h <= 0 {
		dw, dh := v.doc.Size()
		w, h = int(dw), int(dh)
	}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("svgview: " + filepath.Base(path)).
		WithSize(max(w, 64), max(h, 64)).
		WithContinuousRender(true))

	var (
		canvas *ggcanvas.Canvas
		sf     *surface.ImageSurface
		last   time.Time
	)
	app.OnDraw(func(dc *gogpu.Context) {
		cw, ch := dc.Width(), dc.Height()
		if cw <= 0 || ch <= 0 {
			return
		}
		if canvas == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			var err error
			if canvas, err = ggcanvas.New(provider, cw, ch); err != nil {
				log.Fatalf("svgview: canvas: %v", err)
			}
		}
		if pw, ph := canvas.Size(); pw != cw || ph != ch {
			if err := canvas.Resize(cw, ch); err != nil {
				log.Printf("svgview: resize: %v", err)
			}
			sf = nil
		}
		fresh := sf == nil
		if fresh {
			sf = surface.WrapContext(canvas.Context())
		}

		now := time.Now()
		var elapsed time.Duration
		if !last.IsZero() {
			elapsed = now.Sub(last)
		}
		last = now

		v.mu.Lock()
		doc, force := v.doc, v.reload || fresh
		v.reload = false
		if v.paused {
			elapsed = 0
		}
		v.mu.Unlock()

		painted, err := doc.Frame(sf, elapsed,
			svg.ScaleTo(float64(cw), float64(ch)),
			svg.ForceRedraw(func() bool { return force }))
		if err != nil {
			log.Printf("svgview: frame: %v", err)
			return
		}
		if painted {
			canvas.MarkDirty()
		}
		if err := canvas.Render(dc.RenderTarget()); err != nil {
			log.Printf("svgview: present: %v", err)
		}
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key != gpucontext.KeySpace {
			return
		}
		v.mu.Lock()
		v.paused = !v.paused
		paused := v.paused
		v.mu.Unlock()
		if paused {
			log.Printf("svgview: paused")
		} else {
			log.Printf("svgview: resumed")
		}
	})

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
