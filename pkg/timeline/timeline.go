// Package timeline reconstructs a seat's occupancy over one day as fixed
// width buckets.
//
// Buckets cover [dayStart, dayStart+24h). A bucket is present when any
// session overlaps it. Away status is not recorded historically, so it only
// ever colours the single bucket containing the current instant.
package timeline

import (
	"time"

	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/seat"
)

// DefaultBucket is the default bucket width.
const DefaultBucket = 30 * time.Minute

// Day is the length of a timeline.
const Day = 24 * time.Hour

// State is the occupancy of one bucket.
type State string

// Bucket states.
const (
	StateEmpty   State = "empty"
	StatePresent State = "present"
	StateAway    State = "away"
)

// Slice is one bucket of a timeline.
type Slice struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	State State     `json:"state"`
}

// Build returns the buckets of one seat for the day starting at dayStart.
// sessions may contain other seats; they are ignored. live is the seat's
// current state and now the current instant. A non-positive bucket width
// selects DefaultBucket.
func Build(dayStart time.Time, seatID string, sessions []ledger.Session, live seat.State, now time.Time, bucket time.Duration) []Slice {
	if bucket <= 0 {
		bucket = DefaultBucket
	}
	count := int((Day + bucket - 1) / bucket)
	dayEnd := dayStart.Add(Day)

	slices := make([]Slice, count)
	for i := range slices {
		start := dayStart.Add(time.Duration(i) * bucket)
		end := start.Add(bucket)
		if end.After(dayEnd) {
			end = dayEnd
		}
		slices[i] = Slice{Start: start, End: end, State: StateEmpty}
	}

	for _, s := range sessions {
		if s.SeatID != seatID {
			continue
		}
		start := s.Start
		if start.Before(dayStart) {
			start = dayStart
		}
		end := s.EndOr(now)
		if end.After(dayEnd) {
			end = dayEnd
		}
		if !end.After(start) {
			continue
		}

		first := int(start.Sub(dayStart) / bucket)
		last := int((end.Sub(dayStart) + bucket - 1) / bucket) - 1
		if last >= count {
			last = count - 1
		}
		for i := first; i <= last; i++ {
			if slices[i].State == StateEmpty {
				slices[i].State = StatePresent
			}
		}
	}

	if live.SeatID == seatID && live.Away() && !now.Before(dayStart) && now.Before(dayEnd) {
		idx := int(now.Sub(dayStart) / bucket)
		if idx < count {
			slices[idx].State = StateAway
		}
	}

	return slices
}

// BuildAll returns the timeline of every seat in states.
func BuildAll(dayStart time.Time, sessions []ledger.Session, states []seat.State, now time.Time, bucket time.Duration) map[string][]Slice {
	out := make(map[string][]Slice, len(states))
	for _, st := range states {
		out[st.SeatID] = Build(dayStart, st.SeatID, sessions, st, now, bucket)
	}
	return out
}

// Count returns how many slices are in state.
func Count(slices []Slice, state State) int {
	n := 0
	for _, s := range slices {
		if s.State == state {
			n++
		}
	}
	return n
}
