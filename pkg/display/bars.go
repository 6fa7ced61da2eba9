package display

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xmhha/labseat/pkg/timeline"
)

// Bucket glyphs of a timeline bar.
const (
	glyphPresent = "█"
	glyphAway    = "▒"
	glyphEmpty   = "·"
)

// Bar colours.
const (
	colorPresent = "#22C55E"
	colorAway    = "#F59E0B"
	colorEmpty   = "#4B5563"
)

// barRenderer draws one glyph per timeline bucket.
type barRenderer struct {
	styled  bool
	present lipgloss.Style
	away    lipgloss.Style
	empty   lipgloss.Style
}

// newBarRenderer styles bars for w's colour profile. A writer that is not
// a terminal gets plain glyphs.
func newBarRenderer(w io.Writer, color bool) barRenderer {
	r := lipgloss.NewRenderer(w)
	return barRenderer{
		styled:  color,
		present: r.NewStyle().Foreground(lipgloss.Color(colorPresent)),
		away:    r.NewStyle().Foreground(lipgloss.Color(colorAway)),
		empty:   r.NewStyle().Foreground(lipgloss.Color(colorEmpty)),
	}
}

func (b barRenderer) render(slices []timeline.Slice) string {
	var sb strings.Builder
	for _, s := range slices {
		glyph, style := glyphEmpty, b.empty
		switch s.State {
		case timeline.StatePresent:
			glyph, style = glyphPresent, b.present
		case timeline.StateAway:
			glyph, style = glyphAway, b.away
		}
		if b.styled {
			glyph = style.Render(glyph)
		}
		sb.WriteString(glyph)
	}
	return sb.String()
}

// cellWidth is the printed width of s, ignoring ANSI sequences.
func cellWidth(s string) int {
	return lipgloss.Width(s)
}
