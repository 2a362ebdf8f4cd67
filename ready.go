package svg

import (
	"context"
	"sync"
)

// readiness is the gate that opens when every wait predicate holds.
// Predicates are checked whenever an asset finishes loading.
type readiness struct {
	mu         sync.Mutex
	predicates []func() bool
	done       chan struct{}
	closed     bool
}

func newReadiness() *readiness {
	return &readiness{done: make(chan struct{})}
}

// waitFor adds a predicate that must hold before the gate opens.
func (r *readiness) waitFor(fn func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predicates = append(r.predicates, fn)
}

// check opens the gate when every predicate holds.
func (r *readiness) check() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return true
	}
	for _, p := range r.predicates {
		if !p() {
			return false
		}
	}
	r.closed = true
	close(r.done)
	return true
}

// Ready returns a channel closed once every referenced image, external
// font and nested document has loaded or failed.
func (d *Document) Ready() <-chan struct{} {
	return d.ready.done
}

// IsReady reports whether the document is ready. Frames painted before
// that are provisional: images and fonts still loading are missing.
func (d *Document) IsReady() bool {
	return d.ready.check()
}

// WaitReady blocks until the document is ready or ctx is done.
func (d *Document) WaitReady(ctx context.Context) error {
	if d.ready.check() {
		return nil
	}
	select {
	case <-d.ready.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
