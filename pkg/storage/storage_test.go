package storage

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/labseat/pkg/exchange"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/logger"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
	"github.com/0xmhha/labseat/pkg/streak"
)

func sampleState() State {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	since := start.Add(2 * time.Hour)

	return State{
		Sessions: []ledger.Session{
			{ID: "s1", MemberID: "u1", SeatID: "R11", Start: start, End: &end},
			{ID: "s2", MemberID: "u1", SeatID: "R11", Start: since},
		},
		Seats: []seat.State{
			{SeatID: "R11", OccupantID: "u1", Status: seat.StatusPresent, OccupiedSince: &since},
			seat.Empty("R12"),
		},
		Streaks: map[string]streak.Record{
			"u1": {LastActiveDate: "2024-03-04", StreakCount: 3, LastCongratulatedDate: "2024-03-04"},
		},
		LastResetDate: "2024-03-03",
		Members: []roster.Member{
			{ID: "u1", Name: "Kim", Category: roster.CategoryD},
		},
		FirstArrivalDate: "2024-03-04",
		Telemetry:        exchange.TelemetryConfig{ServerURL: "wss://broker", ClientName: "lab"},
	}
}

func TestBoltStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "board.db")

	store, err := NewBoltStore(BoltConfig{DBPath: dbPath}, logger.Noop())
	require.NoError(t, err)

	want := sampleState()
	require.NoError(t, store.Save(want))
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(BoltConfig{DBPath: dbPath}, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load()
	require.NoError(t, err)

	assert.Equal(t, want.Sessions, got.Sessions)
	assert.Equal(t, want.Seats, got.Seats)
	assert.Equal(t, want.Streaks, got.Streaks)
	assert.Equal(t, want.LastResetDate, got.LastResetDate)
	assert.Equal(t, want.Members, got.Members)
	assert.Equal(t, want.FirstArrivalDate, got.FirstArrivalDate)
	assert.Equal(t, want.Telemetry, got.Telemetry)
}

func TestBoltStoreEmpty(t *testing.T) {
	store, err := NewBoltStore(BoltConfig{DBPath: filepath.Join(t.TempDir(), "board.db")}, nil)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Load()
	require.NoError(t, err)

	assert.Empty(t, got.Sessions)
	assert.Empty(t, got.Seats)
	assert.Empty(t, got.Streaks)
	assert.Nil(t, got.Members)
	assert.Equal(t, "", got.LastResetDate)
}

func TestNewBoltStoreEmptyPath(t *testing.T) {
	_, err := NewBoltStore(BoltConfig{}, nil)
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestBoltStoreCloseTwice(t *testing.T) {
	store, err := NewBoltStore(BoltConfig{DBPath: filepath.Join(t.TempDir(), "board.db")}, nil)
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestLoadDropsMalformedRecords(t *testing.T) {
	store := NewMemoryStore()
	store.Put("sessions", []byte(`[
		{"id":"ok","userId":"u1","seatId":"R11","start":1709542800000,"end":null},
		{"id":"bad","userId":7,"seatId":"R11","start":1709542800000},
		"garbage"
	]`))
	store.Put("seats", []byte(`{"R11":{"userId":"u1","status":"away","startedAt":1709542800000},"R12":{"userId":3}}`))
	store.Put("streaks", []byte(`not json`))
	store.Put("members", []byte(`{"not":"an array"}`))

	got, err := store.Load()
	require.NoError(t, err)

	require.Len(t, got.Sessions, 1)
	assert.Equal(t, "ok", got.Sessions[0].ID)
	assert.True(t, got.Sessions[0].IsOpen())

	require.Len(t, got.Seats, 1)
	assert.Equal(t, "R11", got.Seats[0].SeatID)
	assert.Equal(t, seat.StatusAway, got.Seats[0].Status)

	assert.Empty(t, got.Streaks)
	assert.Nil(t, got.Members)
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Save(State{}), ErrStoreClosed)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/tmp/board.db", ExpandHome("/tmp/board.db"))
	assert.Equal(t, "relative.db", ExpandHome("relative.db"))

	expanded := ExpandHome("~/.config/labseat/board.db")
	assert.NotContains(t, expanded, "~")
	assert.True(t, filepath.IsAbs(expanded))
}

func TestPersisterInline(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersister(store, 0, nil)

	p.Submit(sampleState())
	p.Submit(sampleState())

	assert.Equal(t, 2, store.Saves())
}

func TestPersisterCoalesces(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersister(store, time.Hour, nil)

	first := sampleState()
	second := sampleState()
	second.LastResetDate = "2024-03-05"

	p.Submit(first)
	p.Submit(second)
	assert.Equal(t, 0, store.Saves())

	p.Flush()
	assert.Equal(t, 1, store.Saves())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", got.LastResetDate)
}

func TestPersisterWindowElapses(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersister(store, 10*time.Millisecond, nil)

	p.Submit(sampleState())

	assert.Eventually(t, func() bool {
		return store.Saves() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPersisterCloseFlushes(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersister(store, time.Hour, nil)

	p.Submit(sampleState())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, store.Saves())

	p.Submit(sampleState())
	p.Flush()
	assert.Equal(t, 1, store.Saves(), "submissions after close are dropped")
}

func TestPersisterSaveErrorIsSwallowed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	p := NewPersister(store, 0, nil)
	assert.NotPanics(t, func() { p.Submit(sampleState()) })
}

func TestPersisterConcurrentSubmit(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersister(store, time.Millisecond, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Submit(sampleState())
		}()
	}
	wg.Wait()
	require.NoError(t, p.Close())

	assert.GreaterOrEqual(t, store.Saves(), 1)
}

// gatedStore blocks the first Save until release is closed.
type gatedStore struct {
	*MemoryStore
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		MemoryStore: NewMemoryStore(),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (g *gatedStore) Save(st State) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.started)
		<-g.release
	}
	return g.MemoryStore.Save(st)
}

func TestPersisterCloseWaitsForInFlightSave(t *testing.T) {
	store := newGatedStore()
	p := NewPersister(store, 10*time.Millisecond, nil)

	older := sampleState()
	older.LastResetDate = "2024-03-03"
	newer := sampleState()
	newer.LastResetDate = "2024-03-04"

	p.Submit(older)
	select {
	case <-store.started:
	case <-time.After(time.Second):
		t.Fatal("batched save did not start")
	}
	p.Submit(newer)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		assert.NoError(t, p.Close())
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a save was in progress")
	case <-time.After(20 * time.Millisecond):
	}

	close(store.release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the save finished")
	}

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", got.LastResetDate)
	assert.Equal(t, 2, store.Saves())
}
