package svg

import "errors"

var (
	// ErrNoRoot is returned when a document has no <svg> root element.
	ErrNoRoot = errors.New("svg: document has no svg root element")

	// ErrNotRunning is returned by Stop when no frame loop is running.
	ErrNotRunning = errors.New("svg: frame loop not running")

	// ErrAlreadyRunning is returned by Start when a frame loop is
	// already running for the document.
	ErrAlreadyRunning = errors.New("svg: frame loop already running")

	// ErrNilSurface is returned when a render is requested without a
	// target surface.
	ErrNilSurface = errors.New("svg: nil surface")
)

var (
	// ErrUnsupportedScheme is returned by the default fetcher for URL
	// schemes other than data, file, http and https.
	ErrUnsupportedScheme = errors.New("svg: unsupported URL scheme")

	// ErrFetchStatus is returned by the default fetcher when an HTTP
	// request does not succeed.
	ErrFetchStatus = errors.New("svg: fetch failed")

	// ErrNestingLimit is wrapped when a nested SVG image or font would
	// reload an enclosing document or nest deeper than the loader allows.
	ErrNestingLimit = errors.New("svg: nested document refused")
)
