// Package calendar derives the date and week identifiers the board buckets
// its ledger by.
//
// All derivations happen in the board's configured location, so a session
// that starts at 23:30 local time belongs to that local date even when the
// UTC date has already rolled over.
package calendar

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// DateLayout is the layout of date keys ("2024-01-02").
const DateLayout = "2006-01-02"

// WeekKey identifies a Monday-anchored seven-day window by the date of its
// Monday, e.g. "2024-01-01".
type WeekKey string

// String implements fmt.Stringer.
func (k WeekKey) String() string {
	return string(k)
}

// Label renders the week as "M/D - M/D" (Monday to Sunday). Invalid keys
// are returned unchanged.
func (k WeekKey) Label() string {
	start, err := time.Parse(DateLayout, string(k))
	if err != nil {
		return string(k)
	}
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("%d/%d - %d/%d", start.Month(), start.Day(), end.Month(), end.Day())
}

// Calendar performs date arithmetic in a fixed location.
type Calendar struct {
	loc *time.Location
	cfg *now.Config
}

// New returns a calendar for loc. A nil location means time.Local.
func New(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{
		loc: loc,
		cfg: &now.Config{
			WeekStartDay: time.Monday,
			TimeLocation: loc,
		},
	}
}

// Load returns a calendar for the named IANA zone. Empty and "Local" select
// the process-local zone.
func Load(name string) (Calendar, error) {
	if name == "" || name == "Local" {
		return New(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("failed to load time zone %q: %w", name, err)
	}
	return New(loc), nil
}

// Location returns the calendar's location.
func (c Calendar) Location() *time.Location {
	return c.loc
}

// In converts t to the calendar's location.
func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// DateKey returns the local calendar date of t.
func (c Calendar) DateKey(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// DayStart returns local midnight of the day containing t.
func (c Calendar) DayStart(t time.Time) time.Time {
	return c.cfg.With(t.In(c.loc)).BeginningOfDay()
}

// WeekStart returns local midnight of the Monday starting t's week.
func (c Calendar) WeekStart(t time.Time) time.Time {
	return c.cfg.With(t.In(c.loc)).BeginningOfWeek()
}

// WeekKey returns the week containing t.
func (c Calendar) WeekKey(t time.Time) WeekKey {
	return WeekKey(c.WeekStart(t).Format(DateLayout))
}

// ParseDate parses a date key into local midnight of that date.
func (c Calendar) ParseDate(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, key, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// AddDays shifts a date key by n calendar days.
func (c Calendar) AddDays(key string, n int) (string, error) {
	t, err := c.ParseDate(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// IsNextDay reports whether next is the calendar day right after prev.
func (c Calendar) IsNextDay(prev, next string) bool {
	following, err := c.AddDays(prev, 1)
	if err != nil {
		return false
	}
	return following == next
}

// SameWeek reports whether two date keys fall in the same WeekKey.
func (c Calendar) SameWeek(a, b string) bool {
	ta, err := c.ParseDate(a)
	if err != nil {
		return false
	}
	tb, err := c.ParseDate(b)
	if err != nil {
		return false
	}
	return c.WeekKey(ta) == c.WeekKey(tb)
}

// WeekStartOf returns local midnight of the Monday named by key.
func (c Calendar) WeekStartOf(key WeekKey) (time.Time, error) {
	return c.ParseDate(string(key))
}
