// Package scheduler decides when the board rolls over to a new week and
// when it performs the nightly reset, and drives those checks on a timer.
//
// Decide is a pure function of the clock and the board's markers, so one
// tick can be reproduced in tests with a fixed instant. Runner only supplies
// the instants.
//
// Example usage:
//
//	runner, err := scheduler.NewRunner(scheduler.RunnerConfig{
//	    Interval: time.Minute,
//	}, board, log)
//	if err != nil {
//	    return err
//	}
//	if err := runner.Start(ctx); err != nil {
//	    return err
//	}
//	defer runner.Close()
package scheduler

import (
	"time"

	"github.com/0xmhha/labseat/pkg/calendar"
)

// Decision lists the actions one tick must apply.
type Decision struct {
	// Rollover is set when the week changed since the last observation.
	Rollover bool

	// Week is the week containing the tick.
	Week calendar.WeekKey

	// Reset is set when the tick is inside the reset window and no reset
	// was recorded for its reset date yet.
	Reset bool

	// ResetDate is the date the reset is recorded against.
	ResetDate string
}

// Outcome reports what a tick changed.
type Outcome struct {
	// At is the instant the tick ran for.
	At time.Time

	// Decision is the decision that was applied.
	Decision Decision

	// Closed counts sessions closed by rollover and reset.
	Closed int

	// Reopened counts sessions reopened by rollover.
	Reopened int

	// Cleared counts seats emptied by reset.
	Cleared int
}

// Changed reports whether the tick did anything.
func (o Outcome) Changed() bool {
	return o.Decision.Rollover || o.Decision.Reset
}

// Ticker applies one tick at the given instant.
type Ticker interface {
	Tick(now time.Time) Outcome
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Interval between ticks. Default: one minute.
	Interval time.Duration

	// Clock returns the current instant. Default: time.Now.
	Clock func() time.Time
}
