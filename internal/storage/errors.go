package storage

import "errors"

// Sentinel errors for the storage layer.
var (
	// ErrNotFound indicates the requested player or round does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPageOutOfRange indicates a page number outside the available pages.
	ErrPageOutOfRange = errors.New("page out of range")
)
