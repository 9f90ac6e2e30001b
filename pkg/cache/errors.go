package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBackend is returned when a cache backend (filesystem, Redis)
	// fails for a reason other than a plain miss. Callers treat backend
	// failures as misses and regenerate the artifact.
	ErrBackend = errors.New("cache backend error")
)
