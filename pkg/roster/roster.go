package roster

import (
	"strings"

	"github.com/google/uuid"
)

// Roster is an ordered member list. It is not safe for concurrent use; the
// board serializes access.
type Roster struct {
	members []Member
	newID   func() string
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{newID: uuid.NewString}
}

// Add appends a member with a fresh id. The name is trimmed and the
// category normalized.
func (r *Roster) Add(name string, category string) (Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Member{}, ErrEmptyName
	}

	m := Member{
		ID:       r.newID(),
		Name:     name,
		Category: NormalizeCategory(category),
	}
	r.members = append(r.members, m)
	return m, nil
}

// Remove deletes the member with id and reports whether it existed.
func (r *Roster) Remove(id string) bool {
	for i, m := range r.members {
		if m.ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the member with id.
func (r *Roster) Get(id string) (Member, bool) {
	for _, m := range r.members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// Lookup resolves an id first, then an exact name.
func (r *Roster) Lookup(idOrName string) (Member, error) {
	if m, ok := r.Get(idOrName); ok {
		return m, nil
	}

	var found []Member
	for _, m := range r.members {
		if m.Name == idOrName {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return Member{}, ErrMemberNotFound
	case 1:
		return found[0], nil
	default:
		return Member{}, ErrAmbiguousName
	}
}

// List returns a copy of the members in insertion order.
func (r *Roster) List() []Member {
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Replace installs a whole roster. Members without an id get one, members
// without a name are dropped and categories are normalized.
func (r *Roster) Replace(members []Member) {
	next := make([]Member, 0, len(members))
	for _, m := range members {
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			continue
		}
		if m.ID == "" {
			m.ID = r.newID()
		}
		m.Category = NormalizeCategory(string(m.Category))
		next = append(next, m)
	}
	r.members = next
}

// Len returns the number of members.
func (r *Roster) Len() int {
	return len(r.members)
}
