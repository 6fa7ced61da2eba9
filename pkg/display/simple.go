package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/board"
	"github.com/0xmhha/labseat/pkg/leaderboard"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/notify"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
	"github.com/0xmhha/labseat/pkg/timeline"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatSeats implements Formatter.FormatSeats.
func (f *simpleFormatter) FormatSeats(w io.Writer, seats []seat.State, names Names) error {
	for _, s := range seats {
		var err error
		if s.OccupantID == "" {
			_, err = fmt.Fprintf(w, "%s: empty\n", s.SeatID)
		} else {
			_, err = fmt.Fprintf(w, "%s: %s (%s since %s)\n",
				s.SeatID, names.Of(s.OccupantID), s.Status, formatTime(s.OccupiedSince, f.config.Location))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatMembers implements Formatter.FormatMembers.
func (f *simpleFormatter) FormatMembers(w io.Writer, members []roster.Member) error {
	for _, m := range members {
		if _, err := fmt.Fprintf(w, "%s [%s] %s\n", m.Name, m.Category, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// FormatSessions implements Formatter.FormatSessions.
func (f *simpleFormatter) FormatSessions(w io.Writer, sessions []ledger.Session, names Names) error {
	for _, s := range sessions {
		start := s.Start
		if _, err := fmt.Fprintf(w, "%s: %s @ %s %s -> %s\n",
			s.ID, names.Of(s.MemberID), s.SeatID,
			formatTime(&start, f.config.Location),
			formatTime(s.End, f.config.Location)); err != nil {
			return err
		}
	}
	return nil
}

// FormatStandings implements Formatter.FormatStandings.
func (f *simpleFormatter) FormatStandings(w io.Writer, standings board.Standings) error {
	if len(standings.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}
	if _, err := fmt.Fprintf(w, "%s | total %s\n", standings.Label, standings.Total); err != nil {
		return err
	}
	for _, r := range standings.Rows {
		if _, err := fmt.Fprintf(w, "#%d %s %s\n", r.Rank, r.Name, r.Formatted); err != nil {
			return err
		}
	}
	return nil
}

// FormatWeeks implements Formatter.FormatWeeks.
func (f *simpleFormatter) FormatWeeks(w io.Writer, points []aggregator.WeekPoint) error {
	for _, p := range points {
		if _, err := fmt.Fprintf(w, "%s: %s\n", p.Label, leaderboard.FormatSeconds(p.Seconds)); err != nil {
			return err
		}
	}
	return nil
}

// FormatTimeline implements Formatter.FormatTimeline.
func (f *simpleFormatter) FormatTimeline(w io.Writer, _ string, order []string, slices map[string][]timeline.Slice) error {
	bars := barRenderer{}
	for _, id := range order {
		if _, err := fmt.Fprintf(w, "%s %s\n", id, bars.render(slices[id])); err != nil {
			return err
		}
	}
	return nil
}

// FormatHeatmap implements Formatter.FormatHeatmap.
func (f *simpleFormatter) FormatHeatmap(w io.Writer, heatmap board.Heatmap) error {
	for _, s := range heatmap.Seats {
		if _, err := fmt.Fprintf(w, "%s: %sh in %d sessions\n", s.SeatID, formatHours(s.Seconds), s.Count); err != nil {
			return err
		}
	}
	return nil
}

// FormatNotifications implements Formatter.FormatNotifications.
func (f *simpleFormatter) FormatNotifications(w io.Writer, notes []notify.Notification) error {
	for _, n := range notes {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", n.Date, n.Text); err != nil {
			return err
		}
	}
	return nil
}
