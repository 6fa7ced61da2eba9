package exchange

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedJSON is returned when a document cannot be parsed.
	ErrMalformedJSON = errors.New("malformed JSON")

	// ErrInvalidDocument is returned when a document is not a JSON object.
	ErrInvalidDocument = errors.New("document is not a JSON object")

	// ErrNotObject marks a record that is not a JSON object.
	ErrNotObject = errors.New("record is not an object")

	// ErrFieldType marks a record with a missing or mistyped field.
	ErrFieldType = errors.New("missing or mistyped field")
)

// RecordError describes a dropped record.
type RecordError struct {
	Kind  string // sessions, members or seats
	Key   string // index or seat id
	Field string // offending field, empty for shape errors
	Err   error  // underlying error
}

func (e *RecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s[%s].%s: %v", e.Kind, e.Key, e.Field, e.Err)
	}
	return fmt.Sprintf("%s[%s]: %v", e.Kind, e.Key, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
