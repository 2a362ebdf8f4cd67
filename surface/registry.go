// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Factory creates a surface for the given options.
type Factory func(opts Options) (Surface, error)

// Backend describes a registered surface implementation.
type Backend struct {
	// Name identifies the backend, e.g. "image" or "rasterx".
	Name string

	// Priority orders automatic selection, higher first. The built-in
	// backends are "image" (10), "rasterx" (5) and "recording" (0).
	Priority int

	// New creates surfaces.
	New Factory

	// Available reports whether the backend can be used on this system.
	Available func() bool
}

// Registry maps backend names to factories. The zero value is ready to
// use and safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// Registry errors.
var (
	// ErrNoBackendAvailable is returned when no registered backend is usable.
	ErrNoBackendAvailable = errors.New("surface: no backend available")

	// ErrBackendNotFound is wrapped when a named backend is not registered.
	ErrBackendNotFound = errors.New("surface: backend not found")

	// ErrBackendUnavailable is wrapped when a named backend reports that it
	// cannot run here.
	ErrBackendUnavailable = errors.New("surface: backend unavailable")
)

var backends Registry

// Register adds a backend to the default registry, replacing any backend
// of the same name. A nil available means always available.
//
//	func init() {
//	    surface.Register("rasterx", 5, newRasterSurface, nil)
//	}
func Register(name string, priority int, f Factory, available func() bool) {
	backends.Register(name, priority, f, available)
}

// Unregister removes a backend from the default registry.
func Unregister(name string) { backends.Unregister(name) }

// Available returns the usable backend names, best first.
func Available() []string { return backends.Names(true) }

// Lookup returns the named backend of the default registry.
func Lookup(name string) (Backend, bool) { return backends.Lookup(name) }

// NewSurface creates a width x height surface on the best usable backend.
func NewSurface(width, height int) (Surface, error) {
	return backends.New("", Options{Width: width, Height: height})
}

// NewSurfaceByName creates a width x height surface on the named backend.
func NewSurfaceByName(name string, width, height int) (Surface, error) {
	return backends.New(name, Options{Width: width, Height: height})
}

// NewSurfaceWithOptions creates a surface on the named backend, or on the
// best usable one when name is empty.
func NewSurfaceWithOptions(name string, opts Options) (Surface, error) {
	return backends.New(name, opts)
}

// Register adds or replaces a backend.
func (r *Registry) Register(name string, priority int, f Factory, available func() bool) {
	if available == nil {
		available = func() bool { return true }
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backends == nil {
		r.backends = make(map[string]Backend)
	}
	r.backends[name] = Backend{Name: name, Priority: priority, New: f, Available: available}
}

// Unregister removes a backend.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.backends, name)
}

// Lookup returns a copy of the named backend.
func (r *Registry) Lookup(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Names returns backend names by descending priority, ties broken by
// name. With usable set, backends that are not available are left out.
func (r *Registry) Names(usable bool) []string {
	r.mu.RLock()
	list := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		list = append(list, b)
	}
	r.mu.RUnlock()

	slices.SortFunc(list, func(a, b Backend) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	var names []string
	for _, b := range list {
		if usable && !b.Available() {
			continue
		}
		names = append(names, b.Name)
	}
	return names
}

// New creates a surface on the named backend and clears it to
// opts.BackgroundColor when set. An empty name tries the usable backends
// in priority order and returns the first success.
func (r *Registry) New(name string, opts Options) (Surface, error) {
	if name != "" {
		return r.create(name, opts)
	}
	err := ErrNoBackendAvailable
	for _, n := range r.Names(true) {
		s, e := r.create(n, opts)
		if e == nil {
			return s, nil
		}
		err = e
	}
	return nil, err
}

func (r *Registry) create(name string, opts Options) (Surface, error) {
	b, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotFound, name)
	}
	if !b.Available() {
		return nil, fmt.Errorf("%w: %q", ErrBackendUnavailable, name)
	}
	s, err := b.New(opts)
	if err != nil {
		return nil, err
	}
	if opts.BackgroundColor != nil {
		s.Clear(opts.BackgroundColor)
	}
	return s, nil
}

func init() {
	Register("image", 10, func(opts Options) (Surface, error) {
		if opts.Width <= 0 || opts.Height <= 0 {
			return nil, fmt.Errorf("surface: invalid size %dx%d", opts.Width, opts.Height)
		}
		return NewImageSurface(opts.Width, opts.Height), nil
	}, nil)
}
