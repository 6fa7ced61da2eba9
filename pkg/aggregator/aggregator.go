package aggregator

import (
	"sort"
	"time"

	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/ledger"
)

// Aggregate computes per-week, per-member stay seconds. Open sessions are
// valued up to now. A session is attributed entirely to the week its start
// falls in.
func Aggregate(cal calendar.Calendar, sessions []ledger.Session, now time.Time) Totals {
	return aggregate(cal, sessions, now, time.Time{})
}

// AggregateUntil is Aggregate with every session end additionally clamped
// to until.
func AggregateUntil(cal calendar.Calendar, sessions []ledger.Session, now, until time.Time) Totals {
	return aggregate(cal, sessions, now, until)
}

func aggregate(cal calendar.Calendar, sessions []ledger.Session, now, until time.Time) Totals {
	totals := make(Totals)

	for _, s := range sessions {
		if s.Start.IsZero() {
			continue
		}

		end := s.EndOr(now)
		if !until.IsZero() && end.After(until) {
			end = until
		}

		seconds := elapsedSeconds(s.Start, end)
		if seconds <= 0 {
			continue
		}

		week := cal.WeekKey(s.Start)
		members, ok := totals[week]
		if !ok {
			members = make(MemberTotals)
			totals[week] = members
		}
		members[s.MemberID] += seconds
	}

	return totals
}

// elapsedSeconds returns whole seconds between start and end, truncated.
func elapsedSeconds(start, end time.Time) int64 {
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Second)
}

// Member returns the member totals of one week. The result is never nil.
func (t Totals) Member(week calendar.WeekKey) MemberTotals {
	if members, ok := t[week]; ok {
		return members
	}
	return MemberTotals{}
}

// WeekTotal returns the summed seconds of all members in week.
func (t Totals) WeekTotal(week calendar.WeekKey) int64 {
	var sum int64
	for _, seconds := range t[week] {
		sum += seconds
	}
	return sum
}

// WeeksWithData returns the weeks whose total is strictly positive, oldest
// first.
func (t Totals) WeeksWithData() []calendar.WeekKey {
	weeks := make([]calendar.WeekKey, 0, len(t))
	for week := range t {
		if t.WeekTotal(week) > 0 {
			weeks = append(weeks, week)
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })
	return weeks
}

// HasData reports whether week has a positive total.
func (t Totals) HasData(week calendar.WeekKey) bool {
	return t.WeekTotal(week) > 0
}

// Series returns one histogram point per week with data, oldest first.
func (t Totals) Series() []WeekPoint {
	weeks := t.WeeksWithData()
	points := make([]WeekPoint, 0, len(weeks))
	for _, week := range weeks {
		points = append(points, WeekPoint{
			Week:    week,
			Label:   week.Label(),
			Seconds: t.WeekTotal(week),
		})
	}
	return points
}

// MembersWithSessionIn returns the members that started at least one
// session in week, regardless of its length.
func MembersWithSessionIn(cal calendar.Calendar, sessions []ledger.Session, week calendar.WeekKey) map[string]bool {
	seen := make(map[string]bool)
	for _, s := range sessions {
		if s.Start.IsZero() {
			continue
		}
		if cal.WeekKey(s.Start) == week {
			seen[s.MemberID] = true
		}
	}
	return seen
}

// SeatTotals clips each session to r and sums the remaining stay per seat.
// Open sessions are valued up to now. Sessions with nothing left after
// clipping are not counted.
func SeatTotals(sessions []ledger.Session, r Range, now time.Time) map[string]SeatTotal {
	totals := make(map[string]SeatTotal)

	for _, s := range sessions {
		start := s.Start
		if start.Before(r.From) {
			start = r.From
		}
		end := s.EndOr(now)
		if end.After(r.To) {
			end = r.To
		}
		if !end.After(start) {
			continue
		}

		cur := totals[s.SeatID]
		cur.Seconds += elapsedSeconds(start, end)
		cur.Count++
		totals[s.SeatID] = cur
	}

	return totals
}
