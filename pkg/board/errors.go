package board

import "errors"

var (
	// ErrNoSeats is returned by New when the layout has no seats.
	ErrNoSeats = errors.New("board has no seats")

	// ErrUnknownMember is returned when a member id is not on the roster.
	ErrUnknownMember = errors.New("unknown member")

	// ErrMemberSeated is returned when assigning a member who already
	// occupies another seat.
	ErrMemberSeated = errors.New("member already has a seat")

	// ErrUnknownPreset is returned for an unrecognized heatmap preset.
	ErrUnknownPreset = errors.New("unknown heatmap preset")

	// ErrInvalidDate is returned for a malformed date key.
	ErrInvalidDate = errors.New("invalid date")
)
