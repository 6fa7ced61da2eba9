package board

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/notify"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
	"github.com/0xmhha/labseat/pkg/storage"
)

var lab = time.FixedZone("KST", 9*60*60)

// at builds a local instant; 2024-01-01 is a Monday.
func at(month time.Month, day, hour, min int) time.Time {
	return time.Date(2024, month, day, hour, min, 0, 0, lab)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	clock *fakeClock
	store *storage.MemoryStore
	board *Board
}

func newFixture(t *testing.T, start time.Time) *fixture {
	t.Helper()

	clock := &fakeClock{t: start}
	store := storage.NewMemoryStore()

	seq := 0
	b, err := New(Config{
		Seats:    []string{"R11", "R12", "R13"},
		Calendar: calendar.New(lab),
		Clock:    clock.Now,
		Intn:     func(n int) int { return n - 1 },
		NewID: func() string {
			seq++
			return fmt.Sprintf("s%d", seq)
		},
		Sink: storage.NewPersister(store, 0, nil),
	})
	require.NoError(t, err)

	return &fixture{clock: clock, store: store, board: b}
}

func (f *fixture) member(t *testing.T, name string) roster.Member {
	t.Helper()
	m, err := f.board.AddMember(name, "D")
	require.NoError(t, err)
	return m
}

func kinds(ns []notify.Notification) []notify.Kind {
	out := make([]notify.Kind, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Kind)
	}
	return out
}

func TestNewRequiresSeats(t *testing.T) {
	_, err := New(Config{Seats: []string{"", ""}})
	assert.ErrorIs(t, err, ErrNoSeats)
}

func TestStayOfTwoHours(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	f.clock.Set(at(time.January, 1, 11, 0))
	_, err = f.board.Leave("R11")
	require.NoError(t, err)

	standings := f.board.Leaderboard("")
	assert.Equal(t, calendar.WeekKey("2024-01-01"), standings.Week)
	assert.Equal(t, "1/1 - 1/7", standings.Label)
	require.Len(t, standings.Rows, 1)
	assert.Equal(t, int64(7200), standings.Rows[0].Seconds)
	assert.Equal(t, "2h0m", standings.Rows[0].Formatted)
	assert.Equal(t, 1, standings.Rows[0].Rank)
	assert.Equal(t, "2h0m", standings.Total)
}

func TestLiveStayOfOpenSession(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	f.clock.Set(at(time.January, 1, 11, 0))

	standings := f.board.Leaderboard("")
	require.Len(t, standings.Rows, 1)
	assert.Equal(t, int64(7200), standings.Rows[0].Seconds)
	assert.Equal(t, int64(7200), f.board.CurrentWeekStays()[kim.ID])
}

func TestEndSessionWithoutOpenSessionIsNoop(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	before := f.board.Sessions()
	saves := f.store.Saves()

	assert.False(t, f.board.EndSession(kim.ID, "R12"))
	assert.False(t, f.board.EndSession("nobody", "R11"))

	assert.Equal(t, before, f.board.Sessions())
	assert.Equal(t, saves, f.store.Saves())
}

func TestAssignErrors(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")
	lee := f.member(t, "Lee")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		seat    string
		member  string
		wantErr error
	}{
		{name: "unknown seat", seat: "X99", member: lee.ID, wantErr: seat.ErrUnknownSeat},
		{name: "occupied seat", seat: "R11", member: lee.ID, wantErr: seat.ErrSeatOccupied},
		{name: "unknown member", seat: "R12", member: "ghost", wantErr: ErrUnknownMember},
		{name: "already seated", seat: "R12", member: kim.ID, wantErr: ErrMemberSeated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.board.Assign(tt.seat, tt.member)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Len(t, f.board.Sessions(), 1)
}

func TestArrivalGreetings(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")
	lee := f.member(t, "Lee")

	first, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)
	assert.Equal(t, []notify.Kind{notify.KindFirstWeekly}, kinds(first.Notifications))

	second, err := f.board.Assign("R12", lee.ID)
	require.NoError(t, err)
	assert.Equal(t, []notify.Kind{notify.KindWeeklyGreeting}, kinds(second.Notifications))

	_, err = f.board.Leave("R11")
	require.NoError(t, err)
	again, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Notifications)

	// Next day: first arrival, already seen this week, and a 2-day streak.
	_, err = f.board.Leave("R11")
	require.NoError(t, err)
	f.clock.Set(at(time.January, 2, 9, 0))
	f.board.ConsumeNotifications()

	next, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)
	assert.Equal(t, []notify.Kind{notify.KindFirstArrival}, kinds(next.Notifications))
	assert.Equal(t, []notify.Kind{notify.KindFirstArrival, notify.KindStreak}, kinds(f.board.Notifications()))
}

func TestWeekendFarewell(t *testing.T) {
	f := newFixture(t, at(time.January, 5, 9, 0)) // Friday
	kim := f.member(t, "Kim")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	left, err := f.board.Leave("R11")
	require.NoError(t, err)
	assert.Equal(t, kim.ID, left.MemberID)
	assert.Equal(t, []notify.Kind{notify.KindWeekendFarewell}, kinds(left.Notifications))
	assert.Contains(t, left.Notifications[0].Text, "Kim")

	_, err = f.board.Leave("R11")
	assert.ErrorIs(t, err, seat.ErrSeatEmpty)
}

func TestNotificationsStayUntilConsumed(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	assert.Len(t, f.board.Notifications(), 1)
	assert.Len(t, f.board.Notifications(), 1)
	assert.Len(t, f.board.ConsumeNotifications(), 1)
	assert.Empty(t, f.board.Notifications())
}

func TestToggleAway(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")

	_, err := f.board.ToggleAway("R11")
	assert.ErrorIs(t, err, seat.ErrSeatEmpty)

	_, err = f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	status, err := f.board.ToggleAway("R11")
	require.NoError(t, err)
	assert.Equal(t, seat.StatusAway, status)

	status, err = f.board.ToggleAway("R11")
	require.NoError(t, err)
	assert.Equal(t, seat.StatusPresent, status)

	assert.Len(t, f.board.Sessions(), 1)
}

func TestMoveToEmptySeat(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	f.clock.Set(at(time.January, 1, 10, 0))
	swap, err := f.board.Move("R11", "R12")
	require.NoError(t, err)
	assert.Equal(t, kim.ID, swap.Mover)
	assert.Empty(t, swap.Displaced)

	sessions := f.board.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "R11", sessions[0].SeatID)
	require.NotNil(t, sessions[0].End)
	assert.True(t, sessions[0].End.Equal(at(time.January, 1, 10, 0)))
	assert.Equal(t, "R12", sessions[1].SeatID)
	assert.True(t, sessions[1].IsOpen())

	seats := f.board.Seats()
	assert.False(t, seats[0].Occupied())
	assert.Equal(t, kim.ID, seats[1].OccupantID)
}

func TestMoveSwapsOccupants(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")
	lee := f.member(t, "Lee")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)
	_, err = f.board.Assign("R12", lee.ID)
	require.NoError(t, err)
	_, err = f.board.ToggleAway("R12")
	require.NoError(t, err)

	f.clock.Set(at(time.January, 1, 10, 0))
	swap, err := f.board.Move("R11", "R12")
	require.NoError(t, err)
	assert.Equal(t, lee.ID, swap.Displaced)

	seats := f.board.Seats()
	assert.Equal(t, lee.ID, seats[0].OccupantID)
	assert.Equal(t, seat.StatusAway, seats[0].Status)
	assert.Equal(t, kim.ID, seats[1].OccupantID)

	var open []ledger.Session
	for _, s := range f.board.Sessions() {
		if s.IsOpen() {
			open = append(open, s)
		}
	}
	require.Len(t, open, 2)
	assert.Equal(t, kim.ID, open[0].MemberID)
	assert.Equal(t, "R12", open[0].SeatID)
	assert.Equal(t, lee.ID, open[1].MemberID)
	assert.Equal(t, "R11", open[1].SeatID)

	_, err = f.board.Move("R11", "R11")
	assert.ErrorIs(t, err, seat.ErrSameSeat)
	_, err = f.board.Move("R13", "R11")
	assert.ErrorIs(t, err, seat.ErrSeatEmpty)
}

func TestAssignRandom(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")
	lee := f.member(t, "Lee")
	park := f.member(t, "Park")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	// Intn picks the last candidate: R11 (own seat) and R12, R13 are free.
	f.clock.Set(at(time.January, 1, 10, 0))
	got, err := f.board.AssignRandom(kim.ID)
	require.NoError(t, err)
	assert.Equal(t, "R13", got.SeatID)
	assert.Empty(t, got.Notifications)

	seats := f.board.Seats()
	assert.False(t, seats[0].Occupied())
	assert.Equal(t, kim.ID, seats[2].OccupantID)

	sessions := f.board.Sessions()
	require.Len(t, sessions, 2)
	assert.False(t, sessions[0].IsOpen())
	assert.Equal(t, "R13", sessions[1].SeatID)

	_, err = f.board.Assign("R11", lee.ID)
	require.NoError(t, err)
	_, err = f.board.Assign("R12", park.ID)
	require.NoError(t, err)

	other, err := f.board.AddMember("Choi", "M")
	require.NoError(t, err)
	_, err = f.board.AssignRandom(other.ID)
	assert.ErrorIs(t, err, seat.ErrNoEmptySeat)

	_, err = f.board.AssignRandom("ghost")
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestAvailableMembers(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")
	lee := f.member(t, "Lee")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	available := f.board.AvailableMembers()
	require.Len(t, available, 1)
	assert.Equal(t, lee.ID, available[0].ID)
}

func TestRemoveMemberCascades(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	f.clock.Set(at(time.January, 1, 10, 0))
	require.NoError(t, f.board.RemoveMember(kim.ID))

	assert.Empty(t, f.board.Members())
	assert.False(t, f.board.Seats()[0].Occupied())

	sessions := f.board.Sessions()
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].End)
	assert.True(t, sessions[0].End.Equal(at(time.January, 1, 10, 0)))

	assert.ErrorIs(t, f.board.RemoveMember(kim.ID), roster.ErrMemberNotFound)
}

func TestAddMemberValidation(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))

	_, err := f.board.AddMember("   ", "D")
	assert.ErrorIs(t, err, roster.ErrEmptyName)

	m, err := f.board.AddMember("Kim", "postdoc")
	require.NoError(t, err)
	assert.Equal(t, roster.CategoryOther, m.Category)

	found, err := f.board.LookupMember("Kim")
	require.NoError(t, err)
	assert.Equal(t, m.ID, found.ID)
}

func TestResetSeats(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")
	lee := f.member(t, "Lee")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)
	_, err = f.board.Assign("R12", lee.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, f.board.ResetSeats())
	for _, st := range f.board.Seats() {
		assert.False(t, st.Occupied())
	}
	for _, s := range f.board.Sessions() {
		assert.False(t, s.IsOpen())
	}
}

func TestSessionAdministration(t *testing.T) {
	f := newFixture(t, at(time.January, 3, 12, 0))
	start := at(time.January, 1, 9, 0)
	end := at(time.January, 1, 10, 0)

	s, err := f.board.AddSession("u1", "R11", start, &end)
	require.NoError(t, err)

	_, err = f.board.AddSession("u1", "R11", end, &start)
	assert.ErrorIs(t, err, ledger.ErrInvalidRange)
	_, err = f.board.AddSession("", "R11", start, &end)
	assert.ErrorIs(t, err, ledger.ErrMissingField)

	later := at(time.January, 1, 11, 0)
	require.NoError(t, f.board.UpdateSession(s.ID, ledger.Patch{MemberID: "u1", SeatID: "R12", Start: start, End: &later}))
	assert.ErrorIs(t, f.board.UpdateSession("missing", ledger.Patch{MemberID: "u1", SeatID: "R12", Start: start, End: &later}), ledger.ErrSessionNotFound)

	sessions := f.board.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "R12", sessions[0].SeatID)

	assert.True(t, f.board.RemoveSession(s.ID))
	assert.False(t, f.board.RemoveSession(s.ID))
	assert.Empty(t, f.board.Sessions())

	_, err = f.board.StartSession("", "R11")
	assert.ErrorIs(t, err, ledger.ErrMissingField)
	opened, err := f.board.StartSession("u1", "R11")
	require.NoError(t, err)
	assert.True(t, opened.IsOpen())
	assert.True(t, f.board.EndSession("u1", "R11"))
}

func TestMutationsArePersisted(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")

	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	st, err := f.store.Load()
	require.NoError(t, err)
	require.Len(t, st.Sessions, 1)
	assert.Equal(t, kim.ID, st.Sessions[0].MemberID)
	require.Len(t, st.Members, 1)
	assert.Equal(t, "2024-01-01", st.FirstArrivalDate)
	assert.Equal(t, 1, st.Streaks[kim.ID].StreakCount)
	assert.Equal(t, 2, f.store.Saves())
}

func TestRestoreRoundTrip(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")
	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	st, err := f.store.Load()
	require.NoError(t, err)

	g := newFixture(t, at(time.January, 1, 10, 0))
	g.board.Restore(st)

	assert.Equal(t, f.board.Members(), g.board.Members())
	assert.Equal(t, kim.ID, g.board.Seats()[0].OccupantID)
	assert.Equal(t, int64(3600), g.board.CurrentWeekStays()[kim.ID])
	assert.Equal(t, 0, g.store.Saves())
}

func TestConcurrentMutations(t *testing.T) {
	f := newFixture(t, at(time.January, 1, 9, 0))
	kim := f.member(t, "Kim")
	_, err := f.board.Assign("R11", kim.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = f.board.ToggleAway("R11")
		}()
		go func() {
			defer wg.Done()
			f.board.Tick(at(time.January, 1, 12, 0))
		}()
		go func() {
			defer wg.Done()
			_ = f.board.Leaderboard("")
		}()
	}
	wg.Wait()

	assert.Len(t, f.board.Sessions(), 1)
}
