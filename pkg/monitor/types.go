// Package monitor polls the board and publishes live updates of seat
// occupancy and the current week's stay totals.
//
// The monitor only observes. Nightly rollover and reset are driven by the
// scheduler runner; the monitor reports what changed between two polls so
// a terminal view can redraw and call out arrivals and departures.
//
// Example usage:
//
//	mon, err := monitor.New(monitor.Config{RefreshInterval: time.Second}, b, log)
//	if err != nil {
//	    return err
//	}
//	if err := mon.Start(ctx); err != nil {
//	    return err
//	}
//	defer mon.Close()
//	for u := range mon.Updates() {
//	    render(u)
//	}
package monitor

import (
	"context"
	"time"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/seat"
)

// Config holds the configuration for the live monitor.
type Config struct {
	// RefreshInterval is the interval between polls. Defaults to one second.
	RefreshInterval time.Duration

	// Buffer is the capacity of the updates channel. Defaults to 10.
	Buffer int
}

// Source is the read side of the board the monitor polls.
type Source interface {
	Now() time.Time
	Seats() []seat.State
	CurrentWeekStays() aggregator.MemberTotals
}

// LiveMonitor publishes periodic board updates.
type LiveMonitor interface {
	// Start takes the first snapshot and begins polling in the background.
	Start(ctx context.Context) error

	// Stop stops polling. The monitor cannot be restarted.
	Stop() error

	// Updates returns the channel updates are published on. It is closed
	// by Close.
	Updates() <-chan Update

	// Close stops the monitor and closes the updates channel.
	Close() error
}

// Update is one poll of the board.
type Update struct {
	// Timestamp is the board clock at the time of the poll.
	Timestamp time.Time

	// Seats is the seat grid in display order.
	Seats []seat.State

	// Stays holds the stay seconds of each member for the current week.
	Stays aggregator.MemberTotals

	// Delta lists what changed since the previous update.
	Delta Delta
}

// Delta describes the seat changes between two consecutive polls.
type Delta struct {
	// Arrived lists the seats that gained an occupant.
	Arrived []string

	// Left lists the seats that lost their occupant.
	Left []string

	// StatusChanged lists seats whose occupant stayed but whose status
	// flipped between present and away.
	StatusChanged []string
}

// Empty reports whether nothing changed.
func (d Delta) Empty() bool {
	return len(d.Arrived) == 0 && len(d.Left) == 0 && len(d.StatusChanged) == 0
}
