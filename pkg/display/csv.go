package display

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/0xmhha/labseat/pkg/board"
)

// WriteHeatmapCSV writes "seatId,hours,count" rows with hours to two
// decimals.
func WriteHeatmapCSV(w io.Writer, heatmap board.Heatmap) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"seatId", "hours", "count"}); err != nil {
		return err
	}
	for _, s := range heatmap.Seats {
		if err := cw.Write([]string{s.SeatID, formatHours(s.Seconds), fmt.Sprintf("%d", s.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
