package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/0xmhha/labseat/pkg/logger"
)

// Runner calls a Ticker once on start and then on every interval.
type Runner struct {
	config RunnerConfig
	target Ticker
	logger logger.Logger

	mu       sync.Mutex
	running  bool
	closed   bool
	stopChan chan struct{}
	done     chan struct{}

	outcomes chan Outcome
}

// NewRunner creates a runner for target.
//
// Parameters:
//   - cfg: Tick interval and clock
//   - target: Board the ticks are applied to
//   - log: Logger instance
//
// Returns:
//   - Runner, not yet started
//   - Error if target is nil
func NewRunner(cfg RunnerConfig, target Ticker, log logger.Logger) (*Runner, error) {
	if target == nil {
		return nil, ErrNilTicker
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if log == nil {
		log = logger.Noop()
	}

	return &Runner{
		config:   cfg,
		target:   target,
		logger:   log.Component("scheduler"),
		outcomes: make(chan Outcome, 10),
	}, nil
}

// Start begins ticking in a background goroutine. The first tick runs
// immediately so a board that was offline catches up on missed resets.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}
	if r.running {
		return ErrRunnerRunning
	}

	r.running = true
	r.stopChan = make(chan struct{})
	r.done = make(chan struct{})

	go r.loop(ctx, r.stopChan, r.done)

	r.logger.Info("scheduler started", "interval", r.config.Interval)
	return nil
}

// Stop halts ticking and waits for the loop to exit.
func (r *Runner) Stop() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRunnerClosed
	}
	if !r.running {
		r.mu.Unlock()
		return ErrRunnerNotRunning
	}
	close(r.stopChan)
	r.running = false
	done := r.done
	r.mu.Unlock()

	<-done
	r.logger.Info("scheduler stopped")
	return nil
}

// Outcomes delivers the outcome of every tick that changed something.
// Outcomes are dropped when nobody reads them.
func (r *Runner) Outcomes() <-chan Outcome {
	return r.outcomes
}

// IsRunning reports whether the loop is active.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.running
}

// Close stops the runner if needed and releases resources.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true

	var done chan struct{}
	if r.running {
		close(r.stopChan)
		r.running = false
		done = r.done
	}
	r.mu.Unlock()

	if done != nil {
		<-done
	}
	close(r.outcomes)

	r.logger.Info("scheduler closed")
	return nil
}

func (r *Runner) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	r.tick()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			if r.running && r.stopChan == stop {
				r.running = false
			}
			r.mu.Unlock()
			return

		case <-stop:
			return

		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Runner) tick() {
	out := r.target.Tick(r.config.Clock())
	if !out.Changed() {
		return
	}

	r.logger.Info("tick applied",
		"rollover", out.Decision.Rollover,
		"week", out.Decision.Week,
		"reset", out.Decision.Reset,
		"reset_date", out.Decision.ResetDate,
		"closed", out.Closed,
		"reopened", out.Reopened)

	select {
	case r.outcomes <- out:
	default:
		r.logger.Debug("outcome channel full, dropping outcome")
	}
}
