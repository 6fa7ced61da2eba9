package roster

import "errors"

var (
	// ErrEmptyName is returned when adding a member without a name.
	ErrEmptyName = errors.New("member name is empty")

	// ErrMemberNotFound is returned when no member matches an id or name.
	ErrMemberNotFound = errors.New("member not found")

	// ErrAmbiguousName is returned when a name lookup matches several members.
	ErrAmbiguousName = errors.New("member name is ambiguous")
)
