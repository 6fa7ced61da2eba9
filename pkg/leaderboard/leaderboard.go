// Package leaderboard ranks members by their stay time in one week.
//
// Seconds are rounded up to whole minutes before comparison, so the order
// only changes when a member crosses a minute boundary. Ties share a rank and
// the next distinct value gets the following rank (1, 1, 2).
package leaderboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/roster"
)

// Row is one ranked member.
type Row struct {
	MemberID  string `json:"memberId"`
	Name      string `json:"name"`
	Seconds   int64  `json:"seconds"`
	Minutes   int64  `json:"minutes"`
	Formatted string `json:"formatted"`
	Rank      int    `json:"rank"`
}

// Rank builds one row per roster member from the totals of a single week.
// Members without stay time are included with zero.
func Rank(week aggregator.MemberTotals, members []roster.Member) []Row {
	rows := make([]Row, 0, len(members))
	for _, m := range members {
		seconds := week[m.ID]
		minutes := CeilMinutes(seconds)
		rows = append(rows, Row{
			MemberID:  m.ID,
			Name:      m.Name,
			Seconds:   seconds,
			Minutes:   minutes,
			Formatted: FormatMinutes(minutes),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Minutes != rows[j].Minutes {
			return rows[i].Minutes > rows[j].Minutes
		}
		if c := strings.Compare(rows[i].Name, rows[j].Name); c != 0 {
			return c < 0
		}
		return rows[i].MemberID < rows[j].MemberID
	})

	for i := range rows {
		switch {
		case i == 0:
			rows[i].Rank = 1
		case rows[i].Minutes == rows[i-1].Minutes:
			rows[i].Rank = rows[i-1].Rank
		default:
			rows[i].Rank = rows[i-1].Rank + 1
		}
	}

	return rows
}

// CeilMinutes rounds seconds up to whole minutes. Negative input yields 0.
func CeilMinutes(seconds int64) int64 {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}

// FormatMinutes renders minutes as "{h}h{m}m", or "{m}m" under an hour.
func FormatMinutes(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// FormatSeconds is FormatMinutes(CeilMinutes(seconds)).
func FormatSeconds(seconds int64) string {
	return FormatMinutes(CeilMinutes(seconds))
}
