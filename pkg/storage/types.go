// Package storage persists the board state.
//
// Each concern (sessions, seats, streaks, members, markers) is stored as its
// own JSON value so a malformed value only loses that concern, and malformed
// records inside a value are dropped one by one through the exchange
// codecs. The bbolt store is used in production and the memory store in
// tests.
//
// Example usage:
//
//	store, err := storage.NewBoltStore(storage.BoltConfig{
//	    DBPath: "~/.config/labseat/board.db",
//	}, log)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	persister := storage.NewPersister(store, 200*time.Millisecond, log)
//	defer persister.Close()
package storage

import (
	"time"

	"github.com/0xmhha/labseat/pkg/exchange"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
	"github.com/0xmhha/labseat/pkg/streak"
)

// State is everything the board persists.
type State struct {
	Sessions         []ledger.Session
	Seats            []seat.State
	Streaks          map[string]streak.Record
	LastResetDate    string
	Members          []roster.Member
	FirstArrivalDate string
	Telemetry        exchange.TelemetryConfig
}

// Store loads and saves board state.
type Store interface {
	// Load returns the saved state. A store that was never written returns
	// the zero State.
	Load() (State, error)

	// Save replaces the saved state.
	Save(st State) error

	// Close releases the store.
	Close() error
}

// BoltConfig configures a BoltStore.
type BoltConfig struct {
	// DBPath is the database file. A leading "~" is expanded.
	DBPath string

	// Timeout bounds waiting for the file lock. Default: one second.
	Timeout time.Duration
}
