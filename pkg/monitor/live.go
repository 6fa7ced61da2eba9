package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/0xmhha/labseat/pkg/logger"
	"github.com/0xmhha/labseat/pkg/seat"
)

const (
	defaultRefreshInterval = time.Second
	defaultBuffer          = 10
)

// liveMonitor implements the LiveMonitor interface.
type liveMonitor struct {
	config Config
	source Source
	logger logger.Logger

	mu       sync.Mutex
	running  bool
	stopped  bool
	closed   bool
	stopChan chan struct{}
	done     chan struct{}

	// Seats seen by the previous poll, keyed by seat id.
	last map[string]seat.State

	updates chan Update
}

// New creates a live monitor over src.
//
// Parameters:
//   - cfg: Monitor configuration
//   - src: Board to poll
//   - log: Logger instance
//
// Returns:
//   - Configured LiveMonitor
//   - Error if configuration is invalid
func New(cfg Config, src Source, log logger.Logger) (LiveMonitor, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: source is required", ErrInvalidConfig)
	}
	if cfg.RefreshInterval < 0 || cfg.Buffer < 0 {
		return nil, fmt.Errorf("%w: negative interval or buffer", ErrInvalidConfig)
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.Buffer == 0 {
		cfg.Buffer = defaultBuffer
	}

	m := &liveMonitor{
		config:   cfg,
		source:   src,
		logger:   log.Component("monitor"),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		updates:  make(chan Update, cfg.Buffer),
	}

	m.logger.Debug("live monitor created", "refresh_interval", cfg.RefreshInterval)
	return m, nil
}

// Start implements LiveMonitor.Start.
func (m *liveMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMonitorClosed
	}
	if m.running || m.stopped {
		return ErrMonitorRunning
	}
	if len(m.source.Seats()) == 0 {
		return ErrNoSeats
	}
	m.running = true

	// The first update carries the full board with an empty delta.
	m.publishLocked()

	go m.loop(ctx)

	m.logger.Info("live monitor started", "refresh_interval", m.config.RefreshInterval)
	return nil
}

// Stop implements LiveMonitor.Stop.
func (m *liveMonitor) Stop() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	if !m.running {
		m.mu.Unlock()
		return ErrMonitorNotRunning
	}
	m.running = false
	m.stopped = true
	close(m.stopChan)
	m.mu.Unlock()

	<-m.done
	m.logger.Info("live monitor stopped")
	return nil
}

// Updates implements LiveMonitor.Updates.
func (m *liveMonitor) Updates() <-chan Update {
	return m.updates
}

// Close implements LiveMonitor.Close.
func (m *liveMonitor) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	running := m.running
	if running {
		m.running = false
		m.stopped = true
		close(m.stopChan)
	}
	m.closed = true
	m.mu.Unlock()

	if running {
		<-m.done
	}

	m.mu.Lock()
	close(m.updates)
	m.mu.Unlock()

	m.logger.Debug("live monitor closed")
	return nil
}

// loop polls the source until stopped or ctx is cancelled.
func (m *liveMonitor) loop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			if m.running {
				m.running = false
				m.stopped = true
				close(m.stopChan)
			}
			m.mu.Unlock()
			return

		case <-m.stopChan:
			return

		case <-ticker.C:
			m.mu.Lock()
			if m.running {
				m.publishLocked()
			}
			m.mu.Unlock()
		}
	}
}

// publishLocked polls the source and sends an update without blocking.
func (m *liveMonitor) publishLocked() {
	seats := m.source.Seats()
	update := Update{
		Timestamp: m.source.Now(),
		Seats:     seats,
		Stays:     m.source.CurrentWeekStays(),
	}
	if m.last != nil {
		update.Delta = diff(m.last, seats)
	}

	m.last = make(map[string]seat.State, len(seats))
	for _, s := range seats {
		m.last[s.SeatID] = s
	}

	select {
	case m.updates <- update:
	default:
		m.logger.Warn("updates channel full, dropping update")
	}
}

// diff compares the previous poll with the current seats. A seat whose
// occupant was replaced counts as both a departure and an arrival.
func diff(prev map[string]seat.State, seats []seat.State) Delta {
	var d Delta
	for _, cur := range seats {
		old, ok := prev[cur.SeatID]
		if !ok {
			old = seat.State{SeatID: cur.SeatID}
		}

		switch {
		case old.OccupantID == cur.OccupantID:
			if cur.Occupied() && old.Status != cur.Status {
				d.StatusChanged = append(d.StatusChanged, cur.SeatID)
			}
		default:
			if old.Occupied() {
				d.Left = append(d.Left, cur.SeatID)
			}
			if cur.Occupied() {
				d.Arrived = append(d.Arrived, cur.SeatID)
			}
		}
	}
	return d
}
