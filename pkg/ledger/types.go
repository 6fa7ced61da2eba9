// Package ledger owns the append-only record of stay sessions.
//
// A session is one continuous occupancy of a seat by a member. Sessions are
// opened when a member sits down and closed when they leave, at a week
// rollover, or at the nightly reset. They are never removed except through
// Remove, which exists for administrative correction.
//
// Example usage:
//
//	store := ledger.New(ledger.Options{
//	    OnStart: detector.Observe,
//	    Logger:  log,
//	})
//	store.Start("member-1", "R11", time.Now())
//	store.End("member-1", "R11", time.Now())
//	sessions := store.Snapshot()
package ledger

import (
	"time"

	"github.com/0xmhha/labseat/pkg/logger"
)

// Session is a single stay of a member on a seat.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	// MemberID is the occupying member.
	MemberID string

	// SeatID is the occupied seat.
	SeatID string

	// Start is when the stay began.
	Start time.Time

	// End is when the stay ended; nil while the member is still seated.
	End *time.Time
}

// IsOpen reports whether the session has not ended yet.
func (s Session) IsOpen() bool {
	return s.End == nil
}

// EndOr returns End, or fallback when the session is open.
func (s Session) EndOr(fallback time.Time) time.Time {
	if s.End == nil {
		return fallback
	}
	return *s.End
}

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	if s.End != nil {
		end := *s.End
		s.End = &end
	}
	return s
}

// Patch carries the replacement values for Update.
type Patch struct {
	MemberID string
	SeatID   string
	Start    time.Time
	End      *time.Time
}

// StartFunc receives every session start recorded through Start.
type StartFunc func(memberID string, startedAt time.Time)

// ChangeFunc receives a snapshot of the ledger after every mutation.
type ChangeFunc func(sessions []Session)

// Options configures a Store.
type Options struct {
	// OnStart is called after Start appends a session.
	OnStart StartFunc

	// OnChange is called after any mutation with a fresh snapshot.
	OnChange ChangeFunc

	// NewID generates session ids. Default: uuid.NewString.
	NewID func() string

	// Logger receives debug events. Default: logger.Noop().
	Logger logger.Logger
}
