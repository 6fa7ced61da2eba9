package board

import (
	"github.com/0xmhha/labseat/pkg/exchange"
)

// Export renders the board as an export document.
func (b *Board) Export() ([]byte, error) {
	b.mu.Lock()
	payload := exchange.Payload{
		Members:       b.members.List(),
		Seats:         b.grid.Snapshot(),
		Sessions:      b.ledger.Snapshot(),
		LastResetDate: b.lastResetDate,
		Telemetry:     b.telemetry,
	}
	b.mu.Unlock()

	return exchange.Export(payload)
}

// Import replaces the board state with an export document. The roster is
// kept when the document has no member list. Seats missing from the
// document become empty and malformed records are dropped. Streaks and
// pending notifications are not touched.
func (b *Board) Import(raw []byte) exchange.Result {
	imp, err := exchange.Parse(raw)
	if err != nil {
		b.logger.Warn("import rejected", "error", err)
		return exchange.Failure(err)
	}
	for _, dropped := range imp.Dropped {
		b.logger.Debug("import record dropped", "error", dropped)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if imp.HasMembers {
		b.members.Replace(imp.Members)
	}
	b.grid.Load(imp.Seats)
	b.ledger.Replace(imp.Sessions)
	b.lastResetDate = imp.LastResetDate
	b.telemetry = imp.Telemetry
	b.observeWeekLocked(b.now())
	b.persistLocked()

	b.logger.Info("board imported",
		"members", b.members.Len(),
		"sessions", b.ledger.Len(),
		"dropped", len(imp.Dropped))

	return exchange.Success(imp)
}
