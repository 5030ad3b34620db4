package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when no event was recorded for a request.
	ErrNotFound = errors.New("request not found")

	// ErrClosed is returned by operations on a closed store or journal.
	ErrClosed = errors.New("store closed")
)
