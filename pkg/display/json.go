package display

import (
	"encoding/json"
	"io"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/board"
	"github.com/0xmhha/labseat/pkg/exchange"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/notify"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
	"github.com/0xmhha/labseat/pkg/timeline"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// FormatSeats implements Formatter.FormatSeats.
func (f *jsonFormatter) FormatSeats(w io.Writer, seats []seat.State, _ Names) error {
	return f.encode(w, seats)
}

// FormatMembers implements Formatter.FormatMembers.
func (f *jsonFormatter) FormatMembers(w io.Writer, members []roster.Member) error {
	return f.encode(w, members)
}

// FormatSessions implements Formatter.FormatSessions. Sessions use the
// export record shape with millisecond times.
func (f *jsonFormatter) FormatSessions(w io.Writer, sessions []ledger.Session, _ Names) error {
	return f.encode(w, exchange.EncodeSessions(sessions))
}

// FormatStandings implements Formatter.FormatStandings.
func (f *jsonFormatter) FormatStandings(w io.Writer, standings board.Standings) error {
	return f.encode(w, standings)
}

// FormatWeeks implements Formatter.FormatWeeks.
func (f *jsonFormatter) FormatWeeks(w io.Writer, points []aggregator.WeekPoint) error {
	return f.encode(w, points)
}

// FormatTimeline implements Formatter.FormatTimeline.
func (f *jsonFormatter) FormatTimeline(w io.Writer, date string, _ []string, slices map[string][]timeline.Slice) error {
	return f.encode(w, struct {
		Date  string                      `json:"date"`
		Seats map[string][]timeline.Slice `json:"seats"`
	}{Date: date, Seats: slices})
}

// FormatHeatmap implements Formatter.FormatHeatmap.
func (f *jsonFormatter) FormatHeatmap(w io.Writer, heatmap board.Heatmap) error {
	return f.encode(w, heatmap)
}

// FormatNotifications implements Formatter.FormatNotifications.
func (f *jsonFormatter) FormatNotifications(w io.Writer, notes []notify.Notification) error {
	if notes == nil {
		notes = []notify.Notification{}
	}
	return f.encode(w, notes)
}

func (f *jsonFormatter) encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
