// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image/color"
	"slices"
	"testing"
)

func imageFactory(opts Options) (Surface, error) {
	return NewImageSurface(opts.Width, opts.Height), nil
}

func failingFactory(Options) (Surface, error) {
	return nil, errors.New("boom")
}

func never() bool { return false }

func TestRegistryNames(t *testing.T) {
	var r Registry
	r.Register("low", 1, imageFactory, nil)
	r.Register("high", 20, imageFactory, nil)
	r.Register("b", 5, imageFactory, nil)
	r.Register("a", 5, imageFactory, nil)
	r.Register("off", 100, imageFactory, never)

	tests := []struct {
		usable bool
		want   []string
	}{
		{false, []string{"off", "high", "a", "b", "low"}},
		{true, []string{"high", "a", "b", "low"}},
	}
	for _, tt := range tests {
		if got := r.Names(tt.usable); !slices.Equal(got, tt.want) {
			t.Errorf("Names(%v) = %v, want %v", tt.usable, got, tt.want)
		}
	}

	r.Unregister("high")
	if _, ok := r.Lookup("high"); ok {
		t.Error("Lookup found an unregistered backend")
	}
	r.Register("a", 50, imageFactory, nil)
	if b, _ := r.Lookup("a"); b.Priority != 50 {
		t.Errorf("re-registered priority = %d, want 50", b.Priority)
	}
}

func TestRegistryNew(t *testing.T) {
	var r Registry
	r.Register("ok", 1, imageFactory, nil)
	r.Register("broken", 10, failingFactory, nil)
	r.Register("off", 100, imageFactory, never)

	tests := []struct {
		name    string
		backend string
		wantErr error
	}{
		{"falls back past failing factory", "", nil},
		{"named", "ok", nil},
		{"not registered", "vulkan", ErrBackendNotFound},
		{"unavailable", "off", ErrBackendUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := r.New(tt.backend, Options{Width: 4, Height: 3})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New(%q) error = %v, want %v", tt.backend, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error = %v", tt.backend, err)
			}
			defer s.Close()
			if s.Width() != 4 || s.Height() != 3 {
				t.Errorf("size = %dx%d, want 4x3", s.Width(), s.Height())
			}
		})
	}

	if _, err := r.New("broken", Options{Width: 1, Height: 1}); err == nil || err.Error() != "boom" {
		t.Errorf("factory error = %v, want boom", err)
	}
}

func TestRegistryEmpty(t *testing.T) {
	var r Registry
	if _, err := r.New("", Options{Width: 1, Height: 1}); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("New on empty registry error = %v, want ErrNoBackendAvailable", err)
	}
	r.Register("off", 1, imageFactory, never)
	if _, err := r.New("", Options{Width: 1, Height: 1}); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("New with no usable backend error = %v, want ErrNoBackendAvailable", err)
	}
}

func TestRegistryBackgroundColor(t *testing.T) {
	var r Registry
	r.Register("test", 1, imageFactory, nil)

	opts := DefaultOptions(4, 4)
	opts.BackgroundColor = color.RGBA{B: 255, A: 255}
	s, err := r.New("test", opts)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got := s.ImageData().RGBAAt(2, 2); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel = %v, want opaque blue", got)
	}
}

func TestDefaultRegistry(t *testing.T) {
	if !slices.Contains(Available(), "image") {
		t.Fatalf("Available() = %v, want image", Available())
	}
	s, err := NewSurface(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	if _, err := NewSurfaceByName("image", 0, 10); err == nil {
		t.Error("image backend accepted zero width")
	}

	Register("scratch", -1, imageFactory, nil)
	defer Unregister("scratch")
	if b, ok := Lookup("scratch"); !ok || b.Priority != -1 {
		t.Errorf("Lookup(scratch) = %+v, %v", b, ok)
	}
	s, err = NewSurfaceWithOptions("scratch", Options{Width: 2, Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
}
