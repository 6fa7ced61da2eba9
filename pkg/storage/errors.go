package storage

import "errors"

var (
	// ErrStoreClosed is returned when using a closed store or persister.
	ErrStoreClosed = errors.New("store is closed")

	// ErrEmptyPath is returned when no database path is configured.
	ErrEmptyPath = errors.New("database path is empty")
)
