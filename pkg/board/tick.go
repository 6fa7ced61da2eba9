package board

import (
	"time"

	"github.com/0xmhha/labseat/pkg/scheduler"
)

// Tick applies the week rollover and the nightly reset due at now. It
// implements scheduler.Ticker. Repeating a tick at the same instant
// changes nothing.
//
// On rollover every open session is closed at now and a fresh one opened
// for each occupied seat, so no session spans two weeks. On reset every
// open session is closed and every seat emptied; sessions are not reopened
// when both happen in the same tick.
func (b *Board) Tick(now time.Time) scheduler.Outcome {
	now = now.Truncate(time.Millisecond)

	b.mu.Lock()
	defer b.mu.Unlock()

	d := scheduler.Decide(b.cal, b.window, now, b.observedWeek, b.lastResetDate)
	out := scheduler.Outcome{At: now, Decision: d}
	if !out.Changed() {
		return out
	}

	if d.Rollover {
		out.Closed += b.ledger.CloseOpen(now)
		if !d.Reset {
			for _, st := range b.grid.Snapshot() {
				if !st.Occupied() {
					continue
				}
				b.ledger.Continue(st.OccupantID, st.SeatID, now)
				out.Reopened++
			}
			b.grid.Restamp(now)
		}
		b.observedWeek = d.Week
		b.logger.Info("week rolled over", "week", d.Week, "closed", out.Closed, "reopened", out.Reopened)
	}

	if d.Reset {
		out.Closed += b.ledger.CloseOpen(now)
		out.Cleared = len(b.grid.Occupants())
		b.grid.Clear()
		b.lastResetDate = d.ResetDate
		b.logger.Info("nightly reset", "reset_date", d.ResetDate, "cleared", out.Cleared)
	}

	b.persistLocked()
	return out
}
