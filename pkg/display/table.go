package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/board"
	"github.com/0xmhha/labseat/pkg/leaderboard"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/notify"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
	"github.com/0xmhha/labseat/pkg/timeline"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatSeats implements Formatter.FormatSeats.
func (f *tableFormatter) FormatSeats(w io.Writer, seats []seat.State, names Names) error {
	if err := writeHeader(w, "Seats", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(seats))
	for i, s := range seats {
		if s.OccupantID == "" {
			rows[i] = []string{s.SeatID, "-", "empty", "-"}
			continue
		}
		rows[i] = []string{s.SeatID, names.Of(s.OccupantID), string(s.Status), formatTime(s.OccupiedSince, f.config.Location)}
	}

	return f.writeTable(w, []string{"Seat", "Member", "Status", "Since"}, rows)
}

// FormatMembers implements Formatter.FormatMembers.
func (f *tableFormatter) FormatMembers(w io.Writer, members []roster.Member) error {
	if err := writeHeader(w, "Members", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(members))
	for i, m := range members {
		rows[i] = []string{m.ID, m.Name, string(m.Category)}
	}

	return f.writeTable(w, []string{"ID", "Name", "Category"}, rows)
}

// FormatSessions implements Formatter.FormatSessions.
func (f *tableFormatter) FormatSessions(w io.Writer, sessions []ledger.Session, names Names) error {
	if err := writeHeader(w, "Sessions", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(sessions))
	for i, s := range sessions {
		start := s.Start
		duration := "open"
		if s.End != nil {
			duration = leaderboard.FormatSeconds(int64(s.End.Sub(s.Start).Seconds()))
		}
		rows[i] = []string{
			s.ID,
			names.Of(s.MemberID),
			s.SeatID,
			formatTime(&start, f.config.Location),
			formatTime(s.End, f.config.Location),
			duration,
		}
	}

	return f.writeTable(w, []string{"ID", "Member", "Seat", "Start", "End", "Duration"}, rows)
}

// FormatStandings implements Formatter.FormatStandings.
func (f *tableFormatter) FormatStandings(w io.Writer, standings board.Standings) error {
	title := "Leaderboard"
	if standings.Label != "" {
		title = fmt.Sprintf("Leaderboard %s", standings.Label)
	}
	if err := writeHeader(w, title, f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(standings.Rows))
	for i, r := range standings.Rows {
		rows[i] = []string{fmt.Sprintf("#%d", r.Rank), r.Name, r.Formatted}
	}
	if err := f.writeTable(w, []string{"Rank", "Member", "Time"}, rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "Total: %s\n", standings.Total); err != nil {
		return err
	}
	return writeNavigation(w, standings)
}

// FormatWeeks implements Formatter.FormatWeeks.
func (f *tableFormatter) FormatWeeks(w io.Writer, points []aggregator.WeekPoint) error {
	if err := writeHeader(w, "Weekly Stay Time", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{string(p.Week), p.Label, leaderboard.FormatSeconds(p.Seconds)}
	}

	return f.writeTable(w, []string{"Week", "Range", "Total"}, rows)
}

// FormatTimeline implements Formatter.FormatTimeline.
func (f *tableFormatter) FormatTimeline(w io.Writer, date string, order []string, slices map[string][]timeline.Slice) error {
	if err := writeHeader(w, fmt.Sprintf("Timeline %s", date), f.config.Compact); err != nil {
		return err
	}

	bars := newBarRenderer(w, f.config.ColorEnabled)
	rows := make([][]string, 0, len(order))
	for _, id := range order {
		s := slices[id]
		rows = append(rows, []string{
			id,
			bars.render(s),
			fmt.Sprintf("%d", timeline.Count(s, timeline.StatePresent)),
			fmt.Sprintf("%d", timeline.Count(s, timeline.StateAway)),
		})
	}

	return f.writeTable(w, []string{"Seat", "Occupancy", "Present", "Away"}, rows)
}

// FormatHeatmap implements Formatter.FormatHeatmap.
func (f *tableFormatter) FormatHeatmap(w io.Writer, heatmap board.Heatmap) error {
	title := fmt.Sprintf("Seat Usage %s - %s",
		heatmap.Range.From.In(f.config.Location).Format("2006-01-02 15:04"),
		heatmap.Range.To.In(f.config.Location).Format("2006-01-02 15:04"))
	if err := writeHeader(w, title, f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(heatmap.Seats))
	for i, s := range heatmap.Seats {
		rows[i] = []string{s.SeatID, formatHours(s.Seconds), fmt.Sprintf("%d", s.Count)}
	}

	return f.writeTable(w, []string{"Seat", "Hours", "Sessions"}, rows)
}

// FormatNotifications implements Formatter.FormatNotifications.
func (f *tableFormatter) FormatNotifications(w io.Writer, notes []notify.Notification) error {
	if err := writeHeader(w, "Notifications", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(notes))
	for i, n := range notes {
		rows[i] = []string{n.Date, string(n.Kind), n.Text}
	}

	return f.writeTable(w, []string{"Date", "Kind", "Message"}, rows)
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = cellWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && cellWidth(cell) > widths[i] {
				widths[i] = cellWidth(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	sep := "  "
	if f.config.Compact {
		sep = " "
	}

	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-cellWidth(cell)))
		}
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// writeNavigation prints the neighbouring weeks with data.
func writeNavigation(w io.Writer, s board.Standings) error {
	var parts []string
	if s.Prev != "" {
		parts = append(parts, "prev: "+string(s.Prev))
	}
	if s.Next != "" {
		parts = append(parts, "next: "+string(s.Next))
	}
	if s.Week != s.CurrentWeek && s.HasThisWeek {
		parts = append(parts, "this week: "+string(s.CurrentWeek))
	}
	if len(parts) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "  "))
	return err
}
