package board

import (
	"github.com/0xmhha/labseat/pkg/roster"
)

// Members returns the roster in insertion order.
func (b *Board) Members() []roster.Member {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.members.List()
}

// AvailableMembers returns the members that do not occupy a seat.
func (b *Board) AvailableMembers() []roster.Member {
	b.mu.Lock()
	defer b.mu.Unlock()

	seated := make(map[string]bool)
	for _, memberID := range b.grid.Occupants() {
		seated[memberID] = true
	}

	var out []roster.Member
	for _, m := range b.members.List() {
		if !seated[m.ID] {
			out = append(out, m)
		}
	}
	return out
}

// LookupMember resolves a member by id or exact name.
func (b *Board) LookupMember(idOrName string) (roster.Member, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.members.Lookup(idOrName)
}

// AddMember adds a member with a fresh id.
func (b *Board) AddMember(name, category string) (roster.Member, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, err := b.members.Add(name, category)
	if err != nil {
		return roster.Member{}, err
	}
	b.persistLocked()

	b.logger.Info("member added", "member", m.ID, "category", m.Category)
	return m, nil
}

// RemoveMember closes the member's open sessions, frees their seat and
// removes them from the roster. Past sessions are kept.
func (b *Board) RemoveMember(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.members.Get(id); !ok {
		return roster.ErrMemberNotFound
	}

	closed := b.ledger.CloseMember(id, b.now())
	cleared := b.grid.Vacate(id)
	b.members.Remove(id)
	b.persistLocked()

	b.logger.Info("member removed", "member", id, "closed_sessions", closed, "cleared_seats", len(cleared))
	return nil
}
