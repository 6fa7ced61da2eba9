// Package display renders board state for the labseat CLI.
//
// It supports three output formats: aligned tables (with coloured
// timeline bars when the output is a terminal), one-line simple text and
// JSON. Heatmaps can also be written as CSV.
package display

import (
	"io"
	"time"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/board"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/notify"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
	"github.com/0xmhha/labseat/pkg/timeline"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays aligned tables.
	FormatTable Format = "table"

	// FormatJSON displays JSON documents.
	FormatJSON Format = "json"

	// FormatSimple displays one line per item.
	FormatSimple Format = "simple"
)

// Formatter renders board views.
type Formatter interface {
	// FormatSeats renders the seat grid. names resolves member ids.
	FormatSeats(w io.Writer, seats []seat.State, names Names) error

	// FormatMembers renders the roster.
	FormatMembers(w io.Writer, members []roster.Member) error

	// FormatSessions renders ledger sessions.
	FormatSessions(w io.Writer, sessions []ledger.Session, names Names) error

	// FormatStandings renders one week of the leaderboard.
	FormatStandings(w io.Writer, standings board.Standings) error

	// FormatWeeks renders the weekly histogram series.
	FormatWeeks(w io.Writer, points []aggregator.WeekPoint) error

	// FormatTimeline renders the day timeline of every seat in order.
	FormatTimeline(w io.Writer, date string, order []string, slices map[string][]timeline.Slice) error

	// FormatHeatmap renders per-seat usage over a range.
	FormatHeatmap(w io.Writer, heatmap board.Heatmap) error

	// FormatNotifications renders pending notifications.
	FormatNotifications(w io.Writer, notes []notify.Notification) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// ColorEnabled styles timeline bars. Styling is still dropped when
	// the writer is not a terminal.
	ColorEnabled bool

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool

	// Location is the zone times are shown in. Default: time.Local.
	Location *time.Location
}

// Names maps member ids to display names.
type Names map[string]string
