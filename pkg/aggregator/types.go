// Package aggregator folds the session ledger into week-bucketed stay totals.
//
// Every function here is pure: it takes a ledger snapshot and a clock value
// and recomputes from scratch, so results never go stale when the ledger
// changes. Open sessions are valued up to the supplied clock, which makes the
// current week's totals grow without any write to the ledger.
//
// Example usage:
//
//	totals := aggregator.Aggregate(cal, store.Snapshot(), time.Now())
//	for _, week := range totals.WeeksWithData() {
//	    fmt.Printf("%s: %ds\n", week.Label(), totals.WeekTotal(week))
//	}
package aggregator

import (
	"time"

	"github.com/0xmhha/labseat/pkg/calendar"
)

// MemberTotals maps member id to stay seconds.
type MemberTotals map[string]int64

// Totals maps a week to the stay seconds of each member in it.
type Totals map[calendar.WeekKey]MemberTotals

// WeekPoint is one bar of the weekly histogram.
type WeekPoint struct {
	// Week is the week the point describes.
	Week calendar.WeekKey `json:"week"`

	// Label is Week rendered as "M/D - M/D".
	Label string `json:"label"`

	// Seconds is the summed stay time of all members.
	Seconds int64 `json:"seconds"`
}

// SeatTotal is the stay time recorded on one seat over a range.
type SeatTotal struct {
	// Seconds is the clipped stay time.
	Seconds int64 `json:"seconds"`

	// Count is the number of sessions that contributed.
	Count int `json:"count"`
}

// Range is a half-open time interval [From, To).
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}
