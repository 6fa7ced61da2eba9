package notify

import (
	"fmt"
	"time"

	"github.com/0xmhha/labseat/pkg/calendar"
)

// Greeter decides which greetings an arrival or departure triggers. It
// remembers the date of the first arrival of the day across the whole
// board.
type Greeter struct {
	cal              calendar.Calendar
	sink             Sink
	firstArrivalDate string
}

// NewGreeter creates a greeter that pushes to sink.
func NewGreeter(cal calendar.Calendar, sink Sink) *Greeter {
	return &Greeter{cal: cal, sink: sink}
}

// FirstArrivalDate returns the date the first-arrival greeting last fired.
func (g *Greeter) FirstArrivalDate() string {
	return g.firstArrivalDate
}

// SetFirstArrivalDate restores the persisted first-arrival date.
func (g *Greeter) SetFirstArrivalDate(date string) {
	g.firstArrivalDate = date
}

// Arrival raises greetings for a member sitting down at the given instant.
// hadSessionThisWeek must reflect the ledger before the new session. The
// first arrival of the day and the member's first stay of the week are
// merged into one combined greeting when both apply.
func (g *Greeter) Arrival(memberID, name string, at time.Time, hadSessionThisWeek bool) []Notification {
	today := g.cal.DateKey(at)
	first := g.firstArrivalDate != today
	weekly := !hadSessionThisWeek

	out := make([]Notification, 0, 2)
	switch {
	case first && weekly:
		g.firstArrivalDate = today
		out = append(out, g.push(KindFirstWeekly, fmt.Sprintf("Good morning %s, first in today and welcome back this week", name), memberID, today, at))
	case first:
		g.firstArrivalDate = today
		out = append(out, g.push(KindFirstArrival, fmt.Sprintf("Good morning %s, first in today", name), memberID, today, at))
	case weekly:
		out = append(out, g.push(KindWeeklyGreeting, fmt.Sprintf("Welcome back %s, have a good week", name), memberID, today, at))
	}
	return out
}

// Departure raises the weekend farewell when a member leaves on a Friday,
// Saturday or Sunday.
func (g *Greeter) Departure(memberID, name string, at time.Time) []Notification {
	if !IsWeekendDay(g.cal.In(at)) {
		return nil
	}
	today := g.cal.DateKey(at)
	return []Notification{
		g.push(KindWeekendFarewell, fmt.Sprintf("Have a good weekend %s", name), memberID, today, at),
	}
}

func (g *Greeter) push(kind Kind, text, memberID, date string, at time.Time) Notification {
	return g.sink.Push(Notification{
		Kind:      kind,
		Text:      text,
		MemberID:  memberID,
		Date:      date,
		CreatedAt: at,
	})
}

// IsWeekendDay reports whether t falls on Friday, Saturday or Sunday.
func IsWeekendDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}
