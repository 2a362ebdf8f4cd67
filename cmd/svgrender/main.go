// Command svgrender renders an SVG document to a PNG file.
//
// Defaults come from SVGRENDER_* environment variables and are
// overridden by flags:
//
//	svgrender -width 512 -at 1.5s -o frame.png drawing.svg
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/gogpu/svg"
	"github.com/gogpu/svg/surface"
	_ "github.com/gogpu/svg/surface/raster" // registers the rasterx backend
)

// config holds the settings that may come from the environment.
type config struct {
	Width    int           `envconfig:"WIDTH" default:"0"`
	Height   int           `envconfig:"HEIGHT" default:"0"`
	Output   string        `envconfig:"OUTPUT" default:"out.png"`
	Backend  string        `envconfig:"BACKEND" default:"image"`
	BaseURL  string        `envconfig:"BASE_URL"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"30s"`
	FontSize float64       `envconfig:"FONT_SIZE" default:"16"`
	Offline  bool          `envconfig:"OFFLINE" default:"false"`
	Verbose  bool          `envconfig:"VERBOSE" default:"false"`
}

func loadConfig() (*config, error) {
	var cfg config
	if err := envconfig.Process("svgrender", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("svgrender: environment: %v", err)
	}

	var (
		width    = flag.Int("width", cfg.Width, "output width in pixels (0: document width)")
		height   = flag.Int("height", cfg.Height, "output height in pixels (0: document height)")
		output   = flag.String("o", cfg.Output, "output PNG file")
		backend  = flag.String("backend", cfg.Backend, "surface backend: "+strings.Join(surface.Available(), ", "))
		baseURL  = flag.String("base", cfg.BaseURL, "base URL for relative references")
		timeout  = flag.Duration("timeout", cfg.Timeout, "time to wait for images and fonts")
		fontSize = flag.Float64("font-size", cfg.FontSize, "default font size in pixels")
		offline  = flag.Bool("offline", cfg.Offline, "do not fetch external images and fonts")
		verbose  = flag.Bool("v", cfg.Verbose, "log warnings and progress to stderr")
		at       = flag.Duration("at", 0, "advance animations to this time before rendering")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: svgrender [flags] file.svg|URL\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		svg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts := []svg.ParseOption{svg.WithContext(ctx), svg.WithFontSize(*fontSize)}
	if *baseURL != "" {
		opts = append(opts, svg.WithBaseURL(*baseURL))
	}
	if *offline {
		opts = append(opts, svg.WithoutExternalAssets())
	}

	doc, err := parse(ctx, flag.Arg(0), opts)
	if err != nil {
		log.Fatalf("svgrender: %v", err)
	}
	if *at > 0 {
		doc.Tick(*at)
	}

	w, h := outputSize(doc, *width, *height)
	sf, err := surface.NewSurfaceByName(*backend, w, h)
	if err != nil {
		log.Fatalf("svgrender: %v", err)
	}
	defer sf.Close()

	if err := doc.Render(ctx, sf, svg.ScaleTo(float64(w), float64(h)), svg.IgnoreMouse()); err != nil {
		log.Fatalf("svgrender: render: %v", err)
	}
	if err := writePNG(*output, sf); err != nil {
		log.Fatalf("svgrender: %v", err)
	}
	if *verbose {
		log.Printf("rendered %s to %s (%dx%d)", flag.Arg(0), *output, w, h)
	}
}

func parse(ctx context.Context, src string, opts []svg.ParseOption) (*svg.Document, error) {
	if strings.Contains(src, "://") {
		return svg.ParseURL(ctx, src, opts...)
	}
	return svg.ParseFile(src, opts...)
}

// outputSize fills in a missing dimension from the document, keeping
// its aspect ratio.
func outputSize(doc *svg.Document, w, h int) (int, int) {
	dw, dh := doc.Size()
	switch {
	case w > 0 && h > 0:
	case w > 0 && dw > 0:
		h = int(math.Round(float64(w) * dh / dw))
	case h > 0 && dh > 0:
		w = int(math.Round(float64(h) * dw / dh))
	default:
		w, h = int(math.Ceil(dw)), int(math.Ceil(dh))
	}
	return max(w, 1), max(h, 1)
}

func writePNG(path string, sf surface.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, sf.ImageData()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
