package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0xmhha/labseat/pkg/logger"
)

// Store holds the session ledger in memory. Every method is one atomic
// read-modify-write step; hooks run after the lock is released.
type Store struct {
	mu       sync.RWMutex
	sessions []Session

	onStart  StartFunc
	onChange ChangeFunc
	newID    func() string
	logger   logger.Logger
}

// New creates an empty store.
//
// Parameters:
//   - opts: Start and change callbacks, id generator and logger; all optional
//
// Returns:
//   - Store with no sessions
func New(opts Options) *Store {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	return &Store{
		sessions: make([]Session, 0),
		onStart:  opts.OnStart,
		onChange: opts.OnChange,
		newID:    opts.NewID,
		logger:   opts.Logger.Component("ledger"),
	}
}

// Start appends an open session and notifies the start listener. Seat
// exclusivity is the caller's concern.
func (s *Store) Start(memberID, seatID string, startedAt time.Time) Session {
	session := s.appendOpen(memberID, seatID, startedAt)

	s.logger.Debug("session started",
		"session", session.ID,
		"member", memberID,
		"seat", seatID)

	if s.onStart != nil {
		s.onStart(memberID, startedAt)
	}
	return session
}

// Continue appends an open session without notifying the start listener.
// Week rollover uses it to split a stay that is still in progress.
func (s *Store) Continue(memberID, seatID string, at time.Time) Session {
	return s.appendOpen(memberID, seatID, at)
}

func (s *Store) appendOpen(memberID, seatID string, at time.Time) Session {
	s.mu.Lock()
	session := Session{
		ID:       s.newID(),
		MemberID: memberID,
		SeatID:   seatID,
		Start:    at,
	}
	s.sessions = append(s.sessions, session)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed(snapshot)
	return session
}

// End closes the most recent open session for the member on the seat. It
// reports whether a session was closed; a missing session is not an error.
func (s *Store) End(memberID, seatID string, endedAt time.Time) bool {
	s.mu.Lock()
	idx := -1
	for i := len(s.sessions) - 1; i >= 0; i-- {
		sess := s.sessions[i]
		if sess.End == nil && sess.MemberID == memberID && sess.SeatID == seatID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	end := endedAt
	s.sessions[idx].End = &end
	id := s.sessions[idx].ID
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("session ended", "session", id, "member", memberID, "seat", seatID)
	s.changed(snapshot)
	return true
}

// CloseOpen ends every open session at the given instant and returns how
// many were closed.
func (s *Store) CloseOpen(at time.Time) int {
	return s.closeWhere(at, func(Session) bool { return true })
}

// CloseMember ends every open session of one member.
func (s *Store) CloseMember(memberID string, at time.Time) int {
	return s.closeWhere(at, func(sess Session) bool { return sess.MemberID == memberID })
}

func (s *Store) closeWhere(at time.Time, match func(Session) bool) int {
	s.mu.Lock()
	closed := 0
	for i := range s.sessions {
		if s.sessions[i].End != nil || !match(s.sessions[i]) {
			continue
		}
		end := at
		s.sessions[i].End = &end
		closed++
	}
	if closed == 0 {
		s.mu.Unlock()
		return 0
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed(snapshot)
	return closed
}

// AddManual appends a historical (or open, when end is nil) session.
func (s *Store) AddManual(memberID, seatID string, start time.Time, end *time.Time) (Session, error) {
	if err := validate(memberID, seatID, start, end); err != nil {
		return Session{}, err
	}

	session := Session{
		ID:       s.newID(),
		MemberID: memberID,
		SeatID:   seatID,
		Start:    start,
	}
	if end != nil {
		e := *end
		session.End = &e
	}

	s.mu.Lock()
	s.sessions = append(s.sessions, session)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("session added", "session", session.ID, "member", memberID, "seat", seatID)
	s.changed(snapshot)
	return session.Clone(), nil
}

// Update replaces member, seat, start and end of an existing session.
func (s *Store) Update(id string, patch Patch) error {
	if id == "" {
		return ErrMissingField
	}
	if err := validate(patch.MemberID, patch.SeatID, patch.Start, patch.End); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrSessionNotFound
	}

	updated := Session{
		ID:       id,
		MemberID: patch.MemberID,
		SeatID:   patch.SeatID,
		Start:    patch.Start,
	}
	if patch.End != nil {
		e := *patch.End
		updated.End = &e
	}
	s.sessions[idx] = updated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("session updated", "session", id)
	s.changed(snapshot)
	return nil
}

// Remove deletes a session. Unknown ids are ignored.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("session removed", "session", id)
	s.changed(snapshot)
	return true
}

// Replace installs a whole ledger, e.g. after load or import. Sessions
// without an id get a fresh one.
func (s *Store) Replace(sessions []Session) {
	next := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		sess = sess.Clone()
		if sess.ID == "" {
			sess.ID = s.newID()
		}
		next = append(next, sess)
	}

	s.mu.Lock()
	s.sessions = next
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed(snapshot)
}

// Snapshot returns a deep copy of the ledger in insertion order.
func (s *Store) Snapshot() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// Open returns copies of the sessions that have not ended.
func (s *Store) Open() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	open := make([]Session, 0)
	for _, sess := range s.sessions {
		if sess.End == nil {
			open = append(open, sess.Clone())
		}
	}
	return open
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Session{}, false
	}
	return s.sessions[idx].Clone(), true
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []Session {
	out := make([]Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

func (s *Store) changed(snapshot []Session) {
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

func validate(memberID, seatID string, start time.Time, end *time.Time) error {
	if memberID == "" || seatID == "" || start.IsZero() {
		return ErrMissingField
	}
	if end != nil && !end.After(start) {
		return ErrInvalidRange
	}
	return nil
}
