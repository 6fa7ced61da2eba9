package ledger

import "errors"

// Errors returned by administrative writes.
var (
	// ErrMissingField is returned when member, seat or start is empty.
	ErrMissingField = errors.New("session requires member, seat and start")

	// ErrInvalidRange is returned when end is not after start.
	ErrInvalidRange = errors.New("session end must be after start")

	// ErrSessionNotFound is returned by Update for an unknown id.
	ErrSessionNotFound = errors.New("session not found")
)
