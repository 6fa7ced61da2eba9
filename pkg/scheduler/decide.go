package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/0xmhha/labseat/pkg/calendar"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// String renders the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// ResetWindow is the nightly span during which the board is cleared. When
// End is earlier than Start the window wraps past midnight.
type ResetWindow struct {
	Start Clock
	End   Clock
}

// DefaultResetWindow runs from 22:30 to 06:00 the next morning.
var DefaultResetWindow = ResetWindow{
	Start: Clock{Hour: 22, Minute: 30},
	End:   Clock{Hour: 6, Minute: 0},
}

// ParseResetWindow builds a window from two "HH:MM" values.
func ParseResetWindow(start, end string) (ResetWindow, error) {
	s, err := ParseClock(start)
	if err != nil {
		return ResetWindow{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return ResetWindow{}, err
	}
	return ResetWindow{Start: s, End: e}, nil
}

// Key returns the reset date for a local time t and whether t is inside the
// window. The evening part belongs to its own date, the part after midnight
// to the previous date.
func (w ResetWindow) Key(cal calendar.Calendar, t time.Time) (string, bool) {
	local := cal.In(t)
	m := local.Hour()*60 + local.Minute()
	start, end := w.Start.minutes(), w.End.minutes()

	if start <= end {
		if m >= start && m < end {
			return cal.DateKey(local), true
		}
		return "", false
	}

	if m >= start {
		return cal.DateKey(local), true
	}
	if m < end {
		return cal.DateKey(local.AddDate(0, 0, -1)), true
	}
	return "", false
}

// Contains reports whether t falls inside the window.
func (w ResetWindow) Contains(cal calendar.Calendar, t time.Time) bool {
	_, ok := w.Key(cal, t)
	return ok
}

// Decide computes the actions for one tick at now. observedWeek is the week
// the board last rolled over into and lastResetDate the date of the last
// nightly reset. Repeating a tick after its actions were applied yields an
// empty decision.
func Decide(cal calendar.Calendar, w ResetWindow, now time.Time, observedWeek calendar.WeekKey, lastResetDate string) Decision {
	d := Decision{Week: cal.WeekKey(now)}
	d.Rollover = d.Week != observedWeek

	if key, ok := w.Key(cal, now); ok && key != lastResetDate {
		d.Reset = true
		d.ResetDate = key
	}
	return d
}
