package main

import (
	"testing"

	"github.com/gogpu/svg"
)

func TestOutputSize(t *testing.T) {
	doc, err := svg.ParseString(`<svg width="200" height="100"/>`, svg.WithoutExternalAssets())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"document size", 0, 0, 200, 100},
		{"width only", 50, 0, 50, 25},
		{"height only", 0, 50, 100, 50},
		{"both", 30, 40, 30, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := outputSize(doc, tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("outputSize(%d, %d) = (%d, %d), want (%d, %d)", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SVGRENDER_WIDTH", "640")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Width != 640 || cfg.Output != "out.png" || cfg.Backend != "image" {
		t.Errorf("config = %+v", cfg)
	}
}
