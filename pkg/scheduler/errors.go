package scheduler

import "errors"

var (
	// ErrRunnerClosed is returned when operations are attempted on a closed runner.
	ErrRunnerClosed = errors.New("runner is closed")

	// ErrRunnerRunning is returned when starting an already running runner.
	ErrRunnerRunning = errors.New("runner is already running")

	// ErrRunnerNotRunning is returned when stopping a runner that is not running.
	ErrRunnerNotRunning = errors.New("runner is not running")

	// ErrInvalidClock is returned for a malformed "HH:MM" value.
	ErrInvalidClock = errors.New("invalid clock time")

	// ErrNilTicker is returned when the runner has nothing to tick.
	ErrNilTicker = errors.New("ticker is nil")
)
