// Package board is the single mutator of the lab board.
//
// A Board composes the seat grid, the member roster, the session ledger,
// the streak detector and the notification queue. Every mutation runs under
// one lock as a single read-modify-write step, after which a snapshot of the
// state is handed to the configured StateSink. Read models (standings,
// timelines, heatmaps) are computed from copies taken under the same lock.
//
// Example usage:
//
//	b, err := board.New(board.Config{
//	    Seats:    []string{"R11", "R12", "R13"},
//	    Calendar: cal,
//	    Sink:     persister,
//	    Logger:   log,
//	})
//	if err != nil {
//	    return err
//	}
//	b.Restore(state)
//
//	member, _ := b.AddMember("Kim", "D")
//	if _, err := b.Assign("R11", member.ID); err != nil {
//	    return err
//	}
//	standings := b.Leaderboard("")
package board

import (
	"time"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/leaderboard"
	"github.com/0xmhha/labseat/pkg/logger"
	"github.com/0xmhha/labseat/pkg/notify"
	"github.com/0xmhha/labseat/pkg/scheduler"
	"github.com/0xmhha/labseat/pkg/storage"
)

// StateSink receives a snapshot of the board after every mutation.
// storage.Persister implements it.
type StateSink interface {
	Submit(st storage.State)
}

// Config configures a Board.
type Config struct {
	// Seats is the fixed seat layout. Required.
	Seats []string

	// Calendar sets the time zone dates and weeks are derived in.
	// Default: calendar.New(time.Local).
	Calendar calendar.Calendar

	// ResetWindow is the nightly reset window. The zero window selects
	// scheduler.DefaultResetWindow.
	ResetWindow scheduler.ResetWindow

	// TimelineBucket is the width of one timeline slice. Default: 30m.
	TimelineBucket time.Duration

	// Clock returns the current instant. Default: time.Now.
	Clock func() time.Time

	// Intn picks a random index below n for random seat assignment.
	// Default: math/rand.Intn.
	Intn func(n int) int

	// NewID generates session ids. Default: uuid.NewString.
	NewID func() string

	// Sink receives state snapshots. Optional.
	Sink StateSink

	// Logger is the board logger. Default: logger.Noop().
	Logger logger.Logger
}

// Assignment describes a seat change and the greetings it raised.
type Assignment struct {
	SeatID        string                `json:"seatId"`
	MemberID      string                `json:"memberId"`
	At            time.Time             `json:"at"`
	Notifications []notify.Notification `json:"notifications"`
}

// Standings is the leaderboard of one week together with the navigation
// around it.
type Standings struct {
	// Week is the week shown. It falls back to the latest week with data
	// when the requested week has none.
	Week  calendar.WeekKey `json:"week"`
	Label string           `json:"label"`

	// CurrentWeek is the week containing the present instant.
	CurrentWeek calendar.WeekKey `json:"currentWeek"`

	Rows         []leaderboard.Row `json:"rows"`
	TotalSeconds int64             `json:"totalSeconds"`
	Total        string            `json:"total"`

	// Prev and Next are the neighbouring weeks with data; empty when
	// there is none.
	Prev calendar.WeekKey `json:"prev,omitempty"`
	Next calendar.WeekKey `json:"next,omitempty"`

	// HasThisWeek is set when the current week has data.
	HasThisWeek bool `json:"hasThisWeek"`
}

// Preset names a heatmap range relative to the present instant.
type Preset string

// Heatmap presets.
const (
	PresetToday     Preset = "today"
	PresetYesterday Preset = "yesterday"
	PresetThisWeek  Preset = "this_week"
	PresetLastWeek  Preset = "last_week"
)

// Presets lists the heatmap presets in display order.
var Presets = []Preset{PresetToday, PresetYesterday, PresetThisWeek, PresetLastWeek}

// SeatUsage is the heatmap value of one seat.
type SeatUsage struct {
	SeatID  string `json:"seatId"`
	Seconds int64  `json:"seconds"`
	Count   int    `json:"count"`
}

// Heatmap is per-seat usage over a range, in grid order. Seats without
// usage are included with zero.
type Heatmap struct {
	Range aggregator.Range `json:"range"`
	Seats []SeatUsage      `json:"seats"`
}
