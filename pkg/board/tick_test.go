package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/storage"
	"github.com/0xmhha/labseat/pkg/timeline"
)

func seatMember(t *testing.T, f *fixture, seatID string, since time.Time, lastReset string) roster.Member {
	t.Helper()

	f.clock.Set(since)
	f.board.Restore(storage.State{
		Members:       []roster.Member{{ID: "u1", Name: "Kim", Category: roster.CategoryD}},
		LastResetDate: lastReset,
	})
	_, err := f.board.Assign(seatID, "u1")
	require.NoError(t, err)

	m, err := f.board.LookupMember("u1")
	require.NoError(t, err)
	return m
}

func TestTickNightlyReset(t *testing.T) {
	f := newFixture(t, at(time.January, 2, 9, 0))
	seatMember(t, f, "R11", at(time.January, 2, 9, 0), "2024-01-01")

	now := at(time.January, 2, 22, 30)
	out := f.board.Tick(now)

	assert.True(t, out.Decision.Reset)
	assert.False(t, out.Decision.Rollover)
	assert.Equal(t, 1, out.Closed)
	assert.Equal(t, 1, out.Cleared)
	assert.Equal(t, "2024-01-02", f.board.LastResetDate())

	for _, s := range f.board.Sessions() {
		require.NotNil(t, s.End)
		assert.True(t, s.End.Equal(now))
	}
	for _, st := range f.board.Seats() {
		assert.False(t, st.Occupied())
	}

	again := f.board.Tick(now.Add(time.Minute))
	assert.False(t, again.Changed())
}

func TestTickCatchUpResetAfterMidnight(t *testing.T) {
	f := newFixture(t, at(time.January, 2, 9, 0))
	seatMember(t, f, "R11", at(time.January, 2, 9, 0), "2024-01-01")

	out := f.board.Tick(at(time.January, 3, 5, 30))

	assert.True(t, out.Decision.Reset)
	assert.Equal(t, "2024-01-02", out.Decision.ResetDate)
	assert.Equal(t, "2024-01-02", f.board.LastResetDate())
	assert.False(t, f.board.Seats()[0].Occupied())
}

func TestTickOutsideWindowDoesNothing(t *testing.T) {
	f := newFixture(t, at(time.January, 2, 9, 0))
	seatMember(t, f, "R11", at(time.January, 2, 9, 0), "2024-01-01")
	saves := f.store.Saves()

	out := f.board.Tick(at(time.January, 2, 15, 0))

	assert.False(t, out.Changed())
	assert.Equal(t, saves, f.store.Saves())
	assert.True(t, f.board.Seats()[0].Occupied())
}

func TestTickWeekRollover(t *testing.T) {
	f := newFixture(t, at(time.January, 7, 20, 0))
	m := seatMember(t, f, "R11", at(time.January, 7, 20, 0), "2024-01-06")

	// Monday morning, after the reset window.
	now := at(time.January, 8, 8, 0)
	f.clock.Set(now)

	out := f.board.Tick(now)
	assert.True(t, out.Decision.Rollover)
	assert.Equal(t, calendar.WeekKey("2024-01-08"), out.Decision.Week)
	assert.Equal(t, 1, out.Closed)
	assert.Equal(t, 1, out.Reopened)

	once := f.board.Sessions()
	require.Len(t, once, 2)
	require.NotNil(t, once[0].End)
	assert.True(t, once[0].End.Equal(now))
	assert.True(t, once[1].IsOpen())
	assert.True(t, once[1].Start.Equal(now))
	assert.Equal(t, m.ID, once[1].MemberID)

	seats := f.board.Seats()
	require.NotNil(t, seats[0].OccupiedSince)
	assert.True(t, seats[0].OccupiedSince.Equal(now))

	again := f.board.Tick(now)
	assert.False(t, again.Changed())
	assert.Equal(t, once, f.board.Sessions())

	// The previous week keeps the Sunday stay; the new week starts at the
	// rollover instant.
	f.clock.Set(at(time.January, 8, 9, 0))
	previous := f.board.Leaderboard("2024-01-01")
	require.Len(t, previous.Rows, 1)
	assert.Equal(t, int64(12*3600), previous.Rows[0].Seconds)
	assert.Equal(t, calendar.WeekKey("2024-01-08"), previous.Next)
}

func TestTickRolloverInsideResetWindow(t *testing.T) {
	f := newFixture(t, at(time.January, 7, 20, 0))
	seatMember(t, f, "R11", at(time.January, 7, 20, 0), "2024-01-06")

	// Sunday's reset never ran; Monday 01:00 applies both.
	out := f.board.Tick(at(time.January, 8, 1, 0))

	assert.True(t, out.Decision.Rollover)
	assert.True(t, out.Decision.Reset)
	assert.Equal(t, "2024-01-07", f.board.LastResetDate())
	assert.Equal(t, 0, out.Reopened)
	assert.Len(t, f.board.Sessions(), 1)
	for _, s := range f.board.Sessions() {
		assert.False(t, s.IsOpen())
	}
}

func TestRestoreCatchesMissedRollover(t *testing.T) {
	f := newFixture(t, at(time.January, 3, 12, 0))
	seatMember(t, f, "R11", at(time.January, 3, 12, 0), "2024-01-02")

	st := f.board.State()

	g := newFixture(t, at(time.January, 10, 12, 0))
	g.board.Restore(st)

	out := g.board.Tick(at(time.January, 10, 12, 0))
	assert.True(t, out.Decision.Rollover)
	assert.Equal(t, 1, out.Reopened)
}

func TestTimelineIgnoresZeroLengthSessions(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 20, 0))

	nine := at(time.January, 1, 9, 0)
	eleven := at(time.January, 1, 11, 0)
	f.board.Restore(storage.State{
		Sessions: []ledger.Session{
			{ID: "a", MemberID: "u1", SeatID: "R11", Start: nine, End: &eleven},
			{ID: "b", MemberID: "u1", SeatID: "R11", Start: eleven, End: &eleven},
		},
	})

	slices, err := f.board.Timeline("2024-01-01")
	require.NoError(t, err)
	require.Len(t, slices["R11"], 48)
	assert.Equal(t, 4, timeline.Count(slices["R11"], timeline.StatePresent))
	assert.Equal(t, timeline.StatePresent, slices["R11"][18].State)
	assert.Equal(t, timeline.StateEmpty, slices["R11"][22].State)
	assert.Equal(t, 0, timeline.Count(slices["R12"], timeline.StatePresent))

	_, err = f.board.Timeline("01/01/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestTimelineMarksAwayNow(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	seatMember(t, f, "R11", at(time.January, 1, 9, 0), "")
	_, err := f.board.ToggleAway("R11")
	require.NoError(t, err)

	f.clock.Set(at(time.January, 1, 10, 15))
	slices, err := f.board.Timeline("")
	require.NoError(t, err)

	assert.Equal(t, timeline.StateAway, slices["R11"][20].State)
	assert.Equal(t, timeline.StatePresent, slices["R11"][19].State)
}
