package httpapi

import "errors"

var (
	// errBadBody is returned for request bodies that are not valid JSON.
	errBadBody = errors.New("invalid request body")

	// errNotFound is returned when a path id matches nothing.
	errNotFound = errors.New("not found")

	// errInternal marks failures of the server rather than the request.
	errInternal = errors.New("internal error")
)
