package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func newTestStore(opts Options) *Store {
	if opts.NewID == nil {
		opts.NewID = sequentialIDs()
	}
	return New(opts)
}

func TestStartAndEnd(t *testing.T) {
	var started []string
	store := newTestStore(Options{
		OnStart: func(memberID string, _ time.Time) { started = append(started, memberID) },
	})

	sess := store.Start("alice", "R11", base)
	assert.Equal(t, "s1", sess.ID)
	assert.True(t, sess.IsOpen())
	assert.Equal(t, []string{"alice"}, started)

	require.True(t, store.End("alice", "R11", base.Add(2*time.Hour)))

	got, ok := store.Get("s1")
	require.True(t, ok)
	require.NotNil(t, got.End)
	assert.Equal(t, base.Add(2*time.Hour), *got.End)
	assert.Empty(t, store.Open())
}

func TestEndWithoutOpenSessionIsNoop(t *testing.T) {
	changes := 0
	store := newTestStore(Options{OnChange: func([]Session) { changes++ }})

	assert.False(t, store.End("alice", "R11", base))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, changes)

	store.Start("alice", "R11", base)
	assert.False(t, store.End("alice", "R12", base), "different seat")
	assert.False(t, store.End("bob", "R11", base), "different member")
	assert.Len(t, store.Open(), 1)
}

func TestEndClosesMostRecentOpenMatch(t *testing.T) {
	store := newTestStore(Options{})

	store.Start("alice", "R11", base)
	store.Start("alice", "R11", base.Add(time.Hour))

	require.True(t, store.End("alice", "R11", base.Add(2*time.Hour)))

	sessions := store.Snapshot()
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].IsOpen(), "older session stays open")
	assert.False(t, sessions[1].IsOpen())
}

func TestContinueDoesNotNotifyStart(t *testing.T) {
	starts := 0
	store := newTestStore(Options{OnStart: func(string, time.Time) { starts++ }})

	store.Continue("alice", "R11", base)

	assert.Equal(t, 0, starts)
	assert.Len(t, store.Open(), 1)
}

func TestCloseOpen(t *testing.T) {
	store := newTestStore(Options{})
	store.Start("alice", "R11", base)
	store.Start("bob", "R12", base)
	store.End("bob", "R12", base.Add(time.Hour))

	closeAt := base.Add(3 * time.Hour)
	assert.Equal(t, 1, store.CloseOpen(closeAt))
	assert.Equal(t, 0, store.CloseOpen(closeAt.Add(time.Hour)), "second call finds nothing open")

	for _, sess := range store.Snapshot() {
		require.NotNil(t, sess.End)
	}
	alice, _ := store.Get("s1")
	assert.Equal(t, closeAt, *alice.End)
}

func TestCloseMember(t *testing.T) {
	store := newTestStore(Options{})
	store.Start("alice", "R11", base)
	store.Start("bob", "R12", base)

	assert.Equal(t, 1, store.CloseMember("alice", base.Add(time.Hour)))

	open := store.Open()
	require.Len(t, open, 1)
	assert.Equal(t, "bob", open[0].MemberID)
}

func TestAddManual(t *testing.T) {
	end := base.Add(time.Hour)
	before := base.Add(-time.Minute)

	tests := []struct {
		name     string
		memberID string
		seatID   string
		start    time.Time
		end      *time.Time
		wantErr  error
	}{
		{name: "closed session", memberID: "alice", seatID: "R11", start: base, end: &end},
		{name: "open session", memberID: "alice", seatID: "R11", start: base},
		{name: "missing member", seatID: "R11", start: base, wantErr: ErrMissingField},
		{name: "missing seat", memberID: "alice", start: base, wantErr: ErrMissingField},
		{name: "missing start", memberID: "alice", seatID: "R11", wantErr: ErrMissingField},
		{name: "end before start", memberID: "alice", seatID: "R11", start: base, end: &before, wantErr: ErrInvalidRange},
		{name: "end equals start", memberID: "alice", seatID: "R11", start: base, end: &base, wantErr: ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(Options{})
			sess, err := store.AddManual(tt.memberID, tt.seatID, tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, store.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, store.Len())
			assert.Equal(t, tt.end == nil, sess.IsOpen())
		})
	}
}

func TestAddManualDoesNotAliasEnd(t *testing.T) {
	store := newTestStore(Options{})
	end := base.Add(time.Hour)

	sess, err := store.AddManual("alice", "R11", base, &end)
	require.NoError(t, err)

	end = end.Add(time.Hour)
	got, _ := store.Get(sess.ID)
	assert.Equal(t, base.Add(time.Hour), *got.End)
}

func TestUpdate(t *testing.T) {
	store := newTestStore(Options{})
	store.Start("alice", "R11", base)

	end := base.Add(90 * time.Minute)
	require.NoError(t, store.Update("s1", Patch{MemberID: "bob", SeatID: "R12", Start: base, End: &end}))

	got, _ := store.Get("s1")
	assert.Equal(t, "bob", got.MemberID)
	assert.Equal(t, "R12", got.SeatID)
	assert.Equal(t, end, *got.End)

	assert.ErrorIs(t, store.Update("missing", Patch{MemberID: "bob", SeatID: "R12", Start: base}), ErrSessionNotFound)
	assert.ErrorIs(t, store.Update("s1", Patch{MemberID: "bob", Start: base}), ErrMissingField)
	assert.ErrorIs(t, store.Update("s1", Patch{MemberID: "bob", SeatID: "R12", Start: end, End: &base}), ErrInvalidRange)
}

func TestRemove(t *testing.T) {
	store := newTestStore(Options{})
	store.Start("alice", "R11", base)
	store.Start("bob", "R12", base)

	assert.True(t, store.Remove("s1"))
	assert.False(t, store.Remove("s1"))
	assert.False(t, store.Remove("unknown"))

	sessions := store.Snapshot()
	require.Len(t, sessions, 1)
	assert.Equal(t, "s2", sessions[0].ID)
}

func TestReplaceAssignsMissingIDs(t *testing.T) {
	store := newTestStore(Options{})

	store.Replace([]Session{
		{ID: "keep", MemberID: "alice", SeatID: "R11", Start: base},
		{MemberID: "bob", SeatID: "R12", Start: base},
	})

	sessions := store.Snapshot()
	require.Len(t, sessions, 2)
	assert.Equal(t, "keep", sessions[0].ID)
	assert.NotEmpty(t, sessions[1].ID)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	store := newTestStore(Options{})
	store.Start("alice", "R11", base)
	store.End("alice", "R11", base.Add(time.Hour))

	snap := store.Snapshot()
	*snap[0].End = base.Add(10 * time.Hour)
	snap[0].MemberID = "mallory"

	got, _ := store.Get("s1")
	assert.Equal(t, "alice", got.MemberID)
	assert.Equal(t, base.Add(time.Hour), *got.End)
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	var sizes []int
	store := newTestStore(Options{OnChange: func(s []Session) { sizes = append(sizes, len(s)) }})

	store.Start("alice", "R11", base)
	store.End("alice", "R11", base.Add(time.Hour))
	store.Remove("s1")
	store.Remove("s1")

	assert.Equal(t, []int{1, 1, 0}, sizes)
}

func TestSessionEndOr(t *testing.T) {
	open := Session{Start: base}
	assert.Equal(t, base.Add(time.Hour), open.EndOr(base.Add(time.Hour)))

	end := base.Add(time.Minute)
	closed := Session{Start: base, End: &end}
	assert.Equal(t, end, closed.EndOr(base.Add(time.Hour)))
}
