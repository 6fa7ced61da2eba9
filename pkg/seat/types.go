// Package seat holds the live state of every physical seat.
//
// The set of seats is fixed when the grid is created. Seats are never
// removed, only cleared back to empty.
package seat

import "time"

// Status is the presence status of a seat's occupant.
type Status string

// Presence statuses.
const (
	StatusPresent Status = "present"
	StatusAway    Status = "away"
)

// State is the live state of one seat.
type State struct {
	// SeatID identifies the seat.
	SeatID string `json:"seatId"`

	// OccupantID is the seated member, empty when the seat is free.
	OccupantID string `json:"occupantId,omitempty"`

	// Status is present or away. Empty seats are present.
	Status Status `json:"status"`

	// OccupiedSince is when the current occupancy (or the current week's
	// part of it) began.
	OccupiedSince *time.Time `json:"occupiedSince,omitempty"`
}

// Occupied reports whether someone sits on the seat.
func (s State) Occupied() bool {
	return s.OccupantID != ""
}

// Away reports whether the seat is occupied and marked away.
func (s State) Away() bool {
	return s.Occupied() && s.Status == StatusAway
}

// Empty returns the cleared state of seatID.
func Empty(seatID string) State {
	return State{SeatID: seatID, Status: StatusPresent}
}

func (s State) clone() State {
	if s.OccupiedSince != nil {
		since := *s.OccupiedSince
		s.OccupiedSince = &since
	}
	return s
}
