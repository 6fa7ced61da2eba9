package seat

import (
	"time"
)

// Grid is the fixed set of seats and their live state. It is not safe for
// concurrent use; the board serializes access.
type Grid struct {
	order  []string
	states map[string]State
}

// Swap describes the outcome of a Move.
type Swap struct {
	// From and To are the seats involved.
	From string
	To   string

	// Mover is the member that left From for To.
	Mover string

	// Displaced is the member that moved from To to From; empty when To was
	// free.
	Displaced string
}

// NewGrid creates a grid of empty seats. Duplicate and empty ids are
// ignored; the order of first appearance is kept.
func NewGrid(seatIDs []string) *Grid {
	g := &Grid{states: make(map[string]State, len(seatIDs))}
	for _, id := range seatIDs {
		if id == "" {
			continue
		}
		if _, dup := g.states[id]; dup {
			continue
		}
		g.order = append(g.order, id)
		g.states[id] = Empty(id)
	}
	return g
}

// IDs returns the seat ids in grid order.
func (g *Grid) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Has reports whether seatID belongs to the grid.
func (g *Grid) Has(seatID string) bool {
	_, ok := g.states[seatID]
	return ok
}

// Get returns the state of one seat.
func (g *Grid) Get(seatID string) (State, error) {
	st, ok := g.states[seatID]
	if !ok {
		return State{}, ErrUnknownSeat
	}
	return st.clone(), nil
}

// Assign seats memberID on an empty seat, present since at.
func (g *Grid) Assign(seatID, memberID string, at time.Time) error {
	st, ok := g.states[seatID]
	if !ok {
		return ErrUnknownSeat
	}
	if st.Occupied() {
		return ErrSeatOccupied
	}
	g.states[seatID] = occupied(seatID, memberID, StatusPresent, at)
	return nil
}

// Leave clears a seat and returns the member who was sitting there.
func (g *Grid) Leave(seatID string) (string, error) {
	st, ok := g.states[seatID]
	if !ok {
		return "", ErrUnknownSeat
	}
	if !st.Occupied() {
		return "", ErrSeatEmpty
	}
	g.states[seatID] = Empty(seatID)
	return st.OccupantID, nil
}

// ToggleAway flips an occupied seat between present and away and returns
// the new status.
func (g *Grid) ToggleAway(seatID string) (Status, error) {
	st, ok := g.states[seatID]
	if !ok {
		return "", ErrUnknownSeat
	}
	if !st.Occupied() {
		return "", ErrSeatEmpty
	}
	if st.Status == StatusAway {
		st.Status = StatusPresent
	} else {
		st.Status = StatusAway
	}
	g.states[seatID] = st
	return st.Status, nil
}

// Move relocates the occupant of from onto to. When to is occupied the two
// occupants swap. Each member keeps their presence status and both
// occupancies restart at at.
func (g *Grid) Move(from, to string, at time.Time) (Swap, error) {
	src, ok := g.states[from]
	if !ok {
		return Swap{}, ErrUnknownSeat
	}
	dst, ok := g.states[to]
	if !ok {
		return Swap{}, ErrUnknownSeat
	}
	if from == to {
		return Swap{}, ErrSameSeat
	}
	if !src.Occupied() {
		return Swap{}, ErrSeatEmpty
	}

	swap := Swap{From: from, To: to, Mover: src.OccupantID}
	if dst.Occupied() {
		swap.Displaced = dst.OccupantID
		g.states[from] = occupied(from, dst.OccupantID, statusOr(dst.Status), at)
	} else {
		g.states[from] = Empty(from)
	}
	g.states[to] = occupied(to, src.OccupantID, statusOr(src.Status), at)
	return swap, nil
}

// SeatOf returns the seat memberID occupies.
func (g *Grid) SeatOf(memberID string) (string, bool) {
	for _, id := range g.order {
		if g.states[id].OccupantID == memberID && memberID != "" {
			return id, true
		}
	}
	return "", false
}

// Vacate clears every seat occupied by memberID and returns their ids.
func (g *Grid) Vacate(memberID string) []string {
	var cleared []string
	for _, id := range g.order {
		if memberID != "" && g.states[id].OccupantID == memberID {
			g.states[id] = Empty(id)
			cleared = append(cleared, id)
		}
	}
	return cleared
}

// EmptySeats returns the free seats in grid order.
func (g *Grid) EmptySeats() []string {
	var out []string
	for _, id := range g.order {
		if !g.states[id].Occupied() {
			out = append(out, id)
		}
	}
	return out
}

// Occupants returns seat id to member id for every occupied seat.
func (g *Grid) Occupants() map[string]string {
	out := make(map[string]string)
	for id, st := range g.states {
		if st.Occupied() {
			out[id] = st.OccupantID
		}
	}
	return out
}

// Restamp moves OccupiedSince of every occupied seat to at.
func (g *Grid) Restamp(at time.Time) {
	for id, st := range g.states {
		if !st.Occupied() {
			continue
		}
		since := at
		st.OccupiedSince = &since
		st.Status = statusOr(st.Status)
		g.states[id] = st
	}
}

// Clear empties every seat.
func (g *Grid) Clear() {
	for _, id := range g.order {
		g.states[id] = Empty(id)
	}
}

// Snapshot returns copies of every seat in grid order.
func (g *Grid) Snapshot() []State {
	out := make([]State, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.states[id].clone())
	}
	return out
}

// Load replaces the live state. Seats outside the grid are ignored and
// grid seats missing from states become empty. Occupied seats with an
// unknown status become present.
func (g *Grid) Load(states []State) {
	g.Clear()
	for _, st := range states {
		if _, ok := g.states[st.SeatID]; !ok {
			continue
		}
		if !st.Occupied() {
			continue
		}
		st = st.clone()
		st.Status = statusOr(st.Status)
		g.states[st.SeatID] = st
	}
}

func occupied(seatID, memberID string, status Status, at time.Time) State {
	since := at
	return State{
		SeatID:        seatID,
		OccupantID:    memberID,
		Status:        status,
		OccupiedSince: &since,
	}
}

func statusOr(s Status) Status {
	if s == StatusAway {
		return StatusAway
	}
	return StatusPresent
}
