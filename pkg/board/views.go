package board

import (
	"fmt"
	"time"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/leaderboard"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
	"github.com/0xmhha/labseat/pkg/timeline"
)

// snapshot is a consistent copy of what the read models need.
type snapshot struct {
	now      time.Time
	sessions []ledger.Session
	members  []roster.Member
	seats    []seat.State
}

func (b *Board) snapshot() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return snapshot{
		now:      b.now(),
		sessions: b.ledger.Snapshot(),
		members:  b.members.List(),
		seats:    b.grid.Snapshot(),
	}
}

// Leaderboard ranks the members for week. An empty week, or one without
// data, selects the latest week with data.
func (b *Board) Leaderboard(week calendar.WeekKey) Standings {
	snap := b.snapshot()

	totals := aggregator.Aggregate(b.cal, snap.sessions, snap.now)
	current := b.cal.WeekKey(snap.now)
	nav := aggregator.NewNavigator(totals, current)
	selected := nav.Resolve(week)

	st := Standings{
		Week:         selected,
		Label:        selected.Label(),
		CurrentWeek:  current,
		Rows:         leaderboard.Rank(totals.Member(selected), snap.members),
		TotalSeconds: totals.WeekTotal(selected),
		HasThisWeek:  nav.HasThis(),
	}
	st.Total = leaderboard.FormatSeconds(st.TotalSeconds)
	if nav.HasPrev(selected) {
		st.Prev = nav.Prev(selected)
	}
	if nav.HasNext(selected) {
		st.Next = nav.Next(selected)
	}
	return st
}

// Weeks returns the weeks with recorded stay time, oldest first.
func (b *Board) Weeks() []calendar.WeekKey {
	snap := b.snapshot()
	return aggregator.Aggregate(b.cal, snap.sessions, snap.now).WeeksWithData()
}

// Histogram returns the total stay time of every week with data.
func (b *Board) Histogram() []aggregator.WeekPoint {
	snap := b.snapshot()
	return aggregator.Aggregate(b.cal, snap.sessions, snap.now).Series()
}

// CurrentWeekStays returns the stay seconds of every member in the current
// week, open sessions included.
func (b *Board) CurrentWeekStays() aggregator.MemberTotals {
	snap := b.snapshot()
	totals := aggregator.Aggregate(b.cal, snap.sessions, snap.now)
	return totals.Member(b.cal.WeekKey(snap.now))
}

// Timeline returns the occupancy buckets of every seat for date
// ("YYYY-MM-DD"). An empty date selects today.
func (b *Board) Timeline(date string) (map[string][]timeline.Slice, error) {
	snap := b.snapshot()

	dayStart := b.cal.DayStart(snap.now)
	if date != "" {
		t, err := b.cal.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		dayStart = t
	}

	return timeline.BuildAll(dayStart, snap.sessions, snap.seats, snap.now, b.bucket), nil
}

// PresetRange resolves a heatmap preset against the board clock. Today and
// yesterday cover whole days, this week runs from Monday to now and last
// week covers the previous Monday to Sunday.
func (b *Board) PresetRange(p Preset) (aggregator.Range, error) {
	now := b.now()
	today := b.cal.DayStart(now)
	monday := b.cal.WeekStart(now)

	switch p {
	case PresetToday:
		return aggregator.Range{From: today, To: today.AddDate(0, 0, 1)}, nil
	case PresetYesterday:
		return aggregator.Range{From: today.AddDate(0, 0, -1), To: today}, nil
	case PresetThisWeek:
		return aggregator.Range{From: monday, To: now}, nil
	case PresetLastWeek:
		return aggregator.Range{From: monday.AddDate(0, 0, -7), To: monday}, nil
	default:
		return aggregator.Range{}, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
}

// DateRange covers the days from through to, both inclusive. An empty to
// selects the single day from.
func (b *Board) DateRange(from, to string) (aggregator.Range, error) {
	if to == "" {
		to = from
	}
	start, err := b.cal.ParseDate(from)
	if err != nil {
		return aggregator.Range{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	last, err := b.cal.ParseDate(to)
	if err != nil {
		return aggregator.Range{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if last.Before(start) {
		return aggregator.Range{}, fmt.Errorf("%w: %s is before %s", ErrInvalidDate, to, from)
	}
	return aggregator.Range{From: start, To: last.AddDate(0, 0, 1)}, nil
}

// Heatmap sums the stay time per seat over r.
func (b *Board) Heatmap(r aggregator.Range) Heatmap {
	snap := b.snapshot()
	totals := aggregator.SeatTotals(snap.sessions, r, snap.now)

	hm := Heatmap{Range: r, Seats: make([]SeatUsage, 0, len(snap.seats))}
	for _, st := range snap.seats {
		t := totals[st.SeatID]
		hm.Seats = append(hm.Seats, SeatUsage{
			SeatID:  st.SeatID,
			Seconds: t.Seconds,
			Count:   t.Count,
		})
	}
	return hm
}
