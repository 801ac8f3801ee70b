package helmsman

import "errors"

var (
	// ErrNoResolver is returned by New when no module resolver was
	// configured; without one no hook module can be loaded.
	ErrNoResolver = errors.New("helmsman: no module resolver configured")
)
