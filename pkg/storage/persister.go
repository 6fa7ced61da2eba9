package storage

import (
	"sync"
	"time"

	"github.com/0xmhha/labseat/pkg/logger"
)

// Persister saves submitted states without making the caller wait on
// errors. The latest state submitted within the window is written once the
// window elapses. A zero window saves on every Submit, blocking the caller;
// configuration only allows it in tests.
//
// Saves never overlap and run in submission order, so an older state cannot
// overwrite a newer one.
type Persister struct {
	store  Store
	window time.Duration
	logger logger.Logger

	mu      sync.Mutex
	pending *State
	timer   *time.Timer
	closed  bool

	// saveMu is held from taking the pending state until its save returns.
	saveMu sync.Mutex
}

// NewPersister creates a persister writing to store.
//
// Parameters:
//   - store: Destination of the saved states
//   - window: Batching window; zero saves inline on every Submit
//   - log: Logger instance, nil for none
//
// Returns:
//   - Persister ready to accept states
func NewPersister(store Store, window time.Duration, log logger.Logger) *Persister {
	if log == nil {
		log = logger.Noop()
	}
	return &Persister{
		store:  store,
		window: window,
		logger: log.Component("persister"),
	}
}

// Submit queues st for saving. Save errors are logged, never returned.
func (p *Persister) Submit(st State) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("state submitted after close, dropping")
		return
	}

	if p.window <= 0 {
		p.pending = &st
		p.mu.Unlock()
		p.flushPending()
		return
	}

	p.pending = &st
	if p.timer == nil {
		p.timer = time.AfterFunc(p.window, p.flushPending)
	}
	p.mu.Unlock()
}

// Flush writes the pending state, if any, right away. It waits for a save
// already in progress.
func (p *Persister) Flush() {
	p.mu.Lock()
	p.stopTimerLocked()
	p.mu.Unlock()

	p.flushPending()
}

// Close stops accepting states, writes the pending one and returns once
// no save is in progress. The store itself stays open.
func (p *Persister) Close() error {
	p.mu.Lock()
	p.closed = true
	p.stopTimerLocked()
	p.mu.Unlock()

	p.flushPending()
	return nil
}

func (p *Persister) stopTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Persister) flushPending() {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	st := p.pending
	p.pending = nil
	p.timer = nil
	p.mu.Unlock()

	if st != nil {
		p.save(*st)
	}
}

func (p *Persister) save(st State) {
	if err := p.store.Save(st); err != nil {
		p.logger.Error("failed to persist board state", "error", err)
		return
	}
	p.logger.Debug("board state persisted", "sessions", len(st.Sessions))
}
