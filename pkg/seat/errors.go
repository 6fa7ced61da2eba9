package seat

import "errors"

var (
	// ErrUnknownSeat is returned for a seat id outside the grid.
	ErrUnknownSeat = errors.New("unknown seat")

	// ErrSeatOccupied is returned when assigning to an occupied seat.
	ErrSeatOccupied = errors.New("seat is occupied")

	// ErrSeatEmpty is returned when an operation needs an occupant.
	ErrSeatEmpty = errors.New("seat is empty")

	// ErrSameSeat is returned when moving a seat onto itself.
	ErrSameSeat = errors.New("source and target seat are the same")

	// ErrNoEmptySeat is returned when every seat is taken.
	ErrNoEmptySeat = errors.New("no empty seat")
)
