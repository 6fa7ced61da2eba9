package board

import (
	"time"

	"github.com/0xmhha/labseat/pkg/ledger"
)

// Sessions returns a copy of the ledger.
func (b *Board) Sessions() []ledger.Session {
	return b.ledger.Snapshot()
}

// StartSession opens a session directly, bypassing the seat grid. The
// start is forwarded to the streak detector.
func (b *Board) StartSession(memberID, seatID string) (ledger.Session, error) {
	if memberID == "" || seatID == "" {
		return ledger.Session{}, ledger.ErrMissingField
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.ledger.Start(memberID, seatID, b.now())
	b.persistLocked()
	return s, nil
}

// EndSession closes the open session of the member on the seat. It reports
// whether one was closed; a missing session is a no-op.
func (b *Board) EndSession(memberID, seatID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ledger.End(memberID, seatID, b.now()) {
		return false
	}
	b.persistLocked()
	return true
}

// AddSession records a session entered by an administrator. A nil end
// records an open session.
func (b *Board) AddSession(memberID, seatID string, start time.Time, end *time.Time) (ledger.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.ledger.AddManual(memberID, seatID, start, end)
	if err != nil {
		return ledger.Session{}, err
	}
	b.persistLocked()
	return s, nil
}

// UpdateSession replaces the fields of an existing session.
func (b *Board) UpdateSession(id string, patch ledger.Patch) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ledger.Update(id, patch); err != nil {
		return err
	}
	b.persistLocked()
	return nil
}

// RemoveSession deletes a session. Unknown ids are ignored.
func (b *Board) RemoveSession(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ledger.Remove(id) {
		return false
	}
	b.persistLocked()
	return true
}
