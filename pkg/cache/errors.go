package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned when a backend cannot be reached.
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss is returned by callers that require a hit.
	ErrCacheMiss = errors.New("cache miss")
)
