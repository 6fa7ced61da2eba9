package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/0xmhha/labseat/pkg/roster"
)

// New creates a new formatter based on configuration.
func New(cfg Config) Formatter {
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return &tableFormatter{config: cfg}
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatSimple:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// NamesOf indexes members by id.
func NamesOf(members []roster.Member) Names {
	names := make(Names, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names
}

// Of returns the name of id, or id itself when unknown.
func (n Names) Of(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return id
}

// formatHours renders seconds as hours with two decimals.
func formatHours(seconds int64) string {
	return fmt.Sprintf("%.2f", float64(seconds)/3600)
}

// formatTime renders t in loc, or "-" for nil.
func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// writeHeader writes a section header.
func writeHeader(w io.Writer, title string, compact bool) error {
	if compact {
		_, err := fmt.Fprintf(w, "%s\n", title)
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	return err
}
