package board

import (
	"time"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/seat"
)

// Seats returns the live state of every seat in grid order.
func (b *Board) Seats() []seat.State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.grid.Snapshot()
}

// Assign seats a member on an empty seat, raises the arrival greetings and
// opens a session.
func (b *Board) Assign(seatID, memberID string) (Assignment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, err := b.grid.Get(seatID)
	if err != nil {
		return Assignment{}, err
	}
	if st.Occupied() {
		return Assignment{}, seat.ErrSeatOccupied
	}
	member, ok := b.members.Get(memberID)
	if !ok {
		return Assignment{}, ErrUnknownMember
	}
	if _, seated := b.grid.SeatOf(memberID); seated {
		return Assignment{}, ErrMemberSeated
	}

	now := b.now()
	return b.seatLocked(seatID, member.ID, member.Name, now), nil
}

// AssignRandom ends the member's current stay, if any, and seats them on a
// random empty seat. Their previous seat is a candidate too.
func (b *Board) AssignRandom(memberID string) (Assignment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	member, ok := b.members.Get(memberID)
	if !ok {
		return Assignment{}, ErrUnknownMember
	}

	var candidates []string
	for _, st := range b.grid.Snapshot() {
		if !st.Occupied() || st.OccupantID == memberID {
			candidates = append(candidates, st.SeatID)
		}
	}
	if len(candidates) == 0 {
		return Assignment{}, seat.ErrNoEmptySeat
	}

	now := b.now()
	if current, seated := b.grid.SeatOf(memberID); seated {
		b.ledger.End(memberID, current, now)
	}
	b.grid.Vacate(memberID)

	chosen := candidates[b.intn(len(candidates))]
	return b.seatLocked(chosen, member.ID, member.Name, now), nil
}

func (b *Board) seatLocked(seatID, memberID, name string, now time.Time) Assignment {
	week := b.cal.WeekKey(now)
	hadSession := aggregator.MembersWithSessionIn(b.cal, b.ledger.Snapshot(), week)[memberID]

	// The seat was checked by the caller.
	_ = b.grid.Assign(seatID, memberID, now)

	greetings := b.greeter.Arrival(memberID, name, now, hadSession)
	b.ledger.Start(memberID, seatID, now)
	b.persistLocked()

	b.logger.Info("seat assigned", "seat", seatID, "member", memberID)

	return Assignment{
		SeatID:        seatID,
		MemberID:      memberID,
		At:            now,
		Notifications: greetings,
	}
}

// Leave empties a seat, closes the occupant's session and raises the
// weekend farewell on Fridays to Sundays.
func (b *Board) Leave(seatID string) (Assignment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	memberID, err := b.grid.Leave(seatID)
	if err != nil {
		return Assignment{}, err
	}

	now := b.now()
	b.ledger.End(memberID, seatID, now)

	name := ""
	if m, ok := b.members.Get(memberID); ok {
		name = m.Name
	}
	farewells := b.greeter.Departure(memberID, name, now)
	b.persistLocked()

	b.logger.Info("seat left", "seat", seatID, "member", memberID)

	return Assignment{
		SeatID:        seatID,
		MemberID:      memberID,
		At:            now,
		Notifications: farewells,
	}, nil
}

// ToggleAway flips an occupied seat between present and away. Sessions are
// not affected.
func (b *Board) ToggleAway(seatID string) (seat.Status, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	status, err := b.grid.ToggleAway(seatID)
	if err != nil {
		return "", err
	}
	b.persistLocked()

	b.logger.Debug("seat status changed", "seat", seatID, "status", status)
	return status, nil
}

// Move relocates the occupant of from onto to, swapping with the occupant
// of to when there is one. The sessions of both members end and restart on
// their new seats.
func (b *Board) Move(from, to string) (seat.Swap, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	swap, err := b.grid.Move(from, to, now)
	if err != nil {
		return seat.Swap{}, err
	}

	b.ledger.End(swap.Mover, from, now)
	if swap.Displaced != "" {
		b.ledger.End(swap.Displaced, to, now)
	}
	b.ledger.Start(swap.Mover, to, now)
	if swap.Displaced != "" {
		b.ledger.Start(swap.Displaced, from, now)
	}
	b.persistLocked()

	b.logger.Info("seat moved", "from", from, "to", to, "member", swap.Mover, "displaced", swap.Displaced)
	return swap, nil
}

// ResetSeats closes the session of every occupant and empties every seat.
// It returns how many seats were cleared.
func (b *Board) ResetSeats() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	cleared := 0
	for _, st := range b.grid.Snapshot() {
		if !st.Occupied() {
			continue
		}
		b.ledger.End(st.OccupantID, st.SeatID, now)
		cleared++
	}
	b.grid.Clear()
	b.persistLocked()

	b.logger.Info("seats reset", "cleared", cleared)
	return cleared
}
