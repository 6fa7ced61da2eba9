// Package streak tracks consecutive-day attendance per member.
//
// A streak grows by one when a member starts a session on the calendar day
// right after their last active day, provided both days are in the same
// week. Any gap, or crossing into a new week, starts over at one. Members are
// congratulated at most once per day once a streak reaches two days.
package streak

import (
	"fmt"
	"time"

	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/logger"
	"github.com/0xmhha/labseat/pkg/notify"
)

// MinCongratulated is the smallest streak that raises a notification.
const MinCongratulated = 2

// Record is the streak state of one member.
type Record struct {
	LastActiveDate        string `json:"lastActiveDate,omitempty"`
	StreakCount           int    `json:"streakCount"`
	LastCongratulatedDate string `json:"lastCongratulatedDate,omitempty"`
}

// Detector updates streak records from session starts. It is not safe for
// concurrent use; the board serializes access.
type Detector struct {
	cal     calendar.Calendar
	sink    notify.Sink
	records map[string]Record
	logger  logger.Logger
}

// New creates a detector that pushes congratulations to sink.
func New(cal calendar.Calendar, sink notify.Sink, log logger.Logger) *Detector {
	if log == nil {
		log = logger.Noop()
	}
	return &Detector{
		cal:     cal,
		sink:    sink,
		records: make(map[string]Record),
		logger:  log.Component("streak"),
	}
}

// Observe records a session start. It returns the notification raised, if
// any.
func (d *Detector) Observe(memberID string, startedAt time.Time) (notify.Notification, bool) {
	today := d.cal.DateKey(startedAt)
	rec := d.records[memberID]

	if rec.LastActiveDate == today {
		return notify.Notification{}, false
	}

	if rec.LastActiveDate != "" &&
		d.cal.IsNextDay(rec.LastActiveDate, today) &&
		d.cal.SameWeek(rec.LastActiveDate, today) {
		rec.StreakCount++
	} else {
		rec.StreakCount = 1
	}
	rec.LastActiveDate = today

	var (
		note   notify.Notification
		raised bool
	)
	if rec.StreakCount >= MinCongratulated && rec.LastCongratulatedDate != today {
		rec.LastCongratulatedDate = today
		note = d.sink.Push(notify.Notification{
			Kind:      notify.KindStreak,
			Text:      Text(rec.StreakCount),
			MemberID:  memberID,
			Date:      today,
			CreatedAt: startedAt,
		})
		raised = true
		d.logger.Info("streak reached", "member", memberID, "days", rec.StreakCount)
	}

	d.records[memberID] = rec
	return note, raised
}

// OnStart adapts Observe to the ledger's start listener.
func (d *Detector) OnStart(memberID string, startedAt time.Time) {
	d.Observe(memberID, startedAt)
}

// Get returns the record of one member.
func (d *Detector) Get(memberID string) (Record, bool) {
	rec, ok := d.records[memberID]
	return rec, ok
}

// Records returns a copy of all records.
func (d *Detector) Records() map[string]Record {
	out := make(map[string]Record, len(d.records))
	for id, rec := range d.records {
		out[id] = rec
	}
	return out
}

// Load replaces all records.
func (d *Detector) Load(records map[string]Record) {
	d.records = make(map[string]Record, len(records))
	for id, rec := range records {
		d.records[id] = rec
	}
}

// Text renders the congratulation for an n-day streak.
func Text(n int) string {
	return fmt.Sprintf("%d-day streak", n)
}
