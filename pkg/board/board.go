package board

import (
	"math/rand"
	"sync"
	"time"

	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/exchange"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/logger"
	"github.com/0xmhha/labseat/pkg/notify"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/scheduler"
	"github.com/0xmhha/labseat/pkg/seat"
	"github.com/0xmhha/labseat/pkg/storage"
	"github.com/0xmhha/labseat/pkg/streak"
	"github.com/0xmhha/labseat/pkg/timeline"
)

// Board owns the live state of one lab.
type Board struct {
	mu sync.Mutex

	cal    calendar.Calendar
	window scheduler.ResetWindow
	bucket time.Duration
	clock  func() time.Time
	intn   func(n int) int
	sink   StateSink
	logger logger.Logger

	grid    *seat.Grid
	members *roster.Roster
	ledger  *ledger.Store
	queue   *notify.Queue
	greeter *notify.Greeter
	streaks *streak.Detector

	observedWeek  calendar.WeekKey
	lastResetDate string
	telemetry     exchange.TelemetryConfig
}

// New creates a board with empty seats, no members and an empty ledger.
//
// Parameters:
//   - cfg: Seat layout, calendar, reset window, sink and logger
//
// Returns:
//   - Board ready for Restore or direct use
//   - Error if the seat layout is empty
func New(cfg Config) (*Board, error) {
	if cfg.Calendar.Location() == nil {
		cfg.Calendar = calendar.New(time.Local)
	}
	if cfg.ResetWindow == (scheduler.ResetWindow{}) {
		cfg.ResetWindow = scheduler.DefaultResetWindow
	}
	if cfg.TimelineBucket <= 0 {
		cfg.TimelineBucket = timeline.DefaultBucket
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Intn == nil {
		cfg.Intn = rand.Intn
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Noop()
	}

	grid := seat.NewGrid(cfg.Seats)
	if len(grid.IDs()) == 0 {
		return nil, ErrNoSeats
	}

	b := &Board{
		cal:     cfg.Calendar,
		window:  cfg.ResetWindow,
		bucket:  cfg.TimelineBucket,
		clock:   cfg.Clock,
		intn:    cfg.Intn,
		sink:    cfg.Sink,
		logger:  cfg.Logger.Component("board"),
		grid:    grid,
		members: roster.New(),
		queue:   notify.NewQueue(),
	}
	b.greeter = notify.NewGreeter(b.cal, b.queue)
	b.streaks = streak.New(b.cal, b.queue, cfg.Logger)
	b.ledger = ledger.New(ledger.Options{
		OnStart: b.streaks.OnStart,
		NewID:   cfg.NewID,
		Logger:  cfg.Logger,
	})
	b.observedWeek = b.cal.WeekKey(b.now())

	b.logger.Info("board created",
		"seats", len(grid.IDs()),
		"timezone", b.cal.Location().String(),
		"reset_window", b.window.Start.String()+"-"+b.window.End.String())

	return b, nil
}

// Restore installs persisted state. Seats outside the layout are ignored.
// Nothing is submitted to the sink.
func (b *Board) Restore(st storage.State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.members.Replace(st.Members)
	b.grid.Load(st.Seats)
	b.ledger.Replace(st.Sessions)
	b.streaks.Load(st.Streaks)
	b.greeter.SetFirstArrivalDate(st.FirstArrivalDate)
	b.lastResetDate = st.LastResetDate
	b.telemetry = st.Telemetry
	b.observeWeekLocked(b.now())

	b.logger.Info("board restored",
		"members", b.members.Len(),
		"sessions", b.ledger.Len(),
		"observed_week", b.observedWeek,
		"last_reset_date", b.lastResetDate)
}

// State returns a snapshot of everything the board persists.
func (b *Board) State() storage.State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.stateLocked()
}

// Calendar returns the board's calendar.
func (b *Board) Calendar() calendar.Calendar {
	return b.cal
}

// Now returns the board clock truncated to milliseconds, the precision
// sessions are persisted with.
func (b *Board) Now() time.Time {
	return b.now()
}

func (b *Board) now() time.Time {
	return b.clock().Truncate(time.Millisecond)
}

// observeWeekLocked sets the observed week to the week of the oldest open
// session, so a rollover missed while the board was down happens on the
// next tick.
func (b *Board) observeWeekLocked(now time.Time) {
	week := b.cal.WeekKey(now)
	for _, s := range b.ledger.Open() {
		if w := b.cal.WeekKey(s.Start); w < week {
			week = w
		}
	}
	b.observedWeek = week
}

func (b *Board) stateLocked() storage.State {
	return storage.State{
		Sessions:         b.ledger.Snapshot(),
		Seats:            b.grid.Snapshot(),
		Streaks:          b.streaks.Records(),
		LastResetDate:    b.lastResetDate,
		Members:          b.members.List(),
		FirstArrivalDate: b.greeter.FirstArrivalDate(),
		Telemetry:        b.telemetry,
	}
}

func (b *Board) persistLocked() {
	if b.sink == nil {
		return
	}
	b.sink.Submit(b.stateLocked())
}

// Telemetry returns the stored sensor feed settings.
func (b *Board) Telemetry() exchange.TelemetryConfig {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.telemetry
}

// SetTelemetry replaces the stored sensor feed settings.
func (b *Board) SetTelemetry(cfg exchange.TelemetryConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.telemetry = cfg
	b.persistLocked()
}

// LastResetDate returns the date of the last nightly reset.
func (b *Board) LastResetDate() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.lastResetDate
}

// Notifications returns the pending notifications without clearing them.
func (b *Board) Notifications() []notify.Notification {
	return b.queue.Pending()
}

// ConsumeNotifications drains the pending notifications.
func (b *Board) ConsumeNotifications() []notify.Notification {
	return b.queue.Consume()
}
