package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/0xmhha/labseat/pkg/exchange"
	"github.com/0xmhha/labseat/pkg/logger"
	"github.com/0xmhha/labseat/pkg/streak"
)

var bucketBoard = []byte("board")

// Keys inside the board bucket.
var (
	keySessions         = []byte("sessions")
	keySeats            = []byte("seats")
	keyStreaks          = []byte("streaks")
	keyLastResetDate    = []byte("last_reset_date")
	keyMembers          = []byte("members")
	keyFirstArrivalDate = []byte("first_arrival_date")
	keyTelemetry        = []byte("telemetry")
)

// BoltStore keeps the board state in a bbolt database.
type BoltStore struct {
	db     *bolt.DB
	path   string
	logger logger.Logger
}

// NewBoltStore opens (creating when needed) the database at cfg.DBPath.
//
// Parameters:
//   - cfg: Database path and lock timeout
//   - log: Logger instance
//
// Returns:
//   - Open BoltStore
//   - Error if the path is empty or the database cannot be opened
func NewBoltStore(cfg BoltConfig, log logger.Logger) (*BoltStore, error) {
	if cfg.DBPath == "" {
		return nil, ErrEmptyPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	if log == nil {
		log = logger.Noop()
	}
	log = log.Component("storage")

	dbPath := ExpandHome(cfg.DBPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, createErr := tx.CreateBucketIfNotExists(bucketBoard); createErr != nil {
			return fmt.Errorf("failed to create board bucket: %w", createErr)
		}
		return nil
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database after initialization error", "error", closeErr)
		}
		return nil, err
	}

	log.Info("board store opened", "db_path", dbPath)

	return &BoltStore{db: db, path: dbPath, logger: log}, nil
}

// Path returns the expanded database path.
func (s *BoltStore) Path() string {
	return s.path
}

// Load implements Store.Load.
func (s *BoltStore) Load() (State, error) {
	var st State

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBoard)
		if b == nil {
			return nil
		}

		st = decodeState(func(key []byte) []byte {
			if v := b.Get(key); v != nil {
				return append([]byte(nil), v...)
			}
			return nil
		}, s.logger)
		return nil
	})
	if err != nil {
		return State{}, fmt.Errorf("failed to load board state: %w", err)
	}

	s.logger.Debug("board state loaded",
		"sessions", len(st.Sessions),
		"members", len(st.Members),
		"last_reset_date", st.LastResetDate)
	return st, nil
}

// Save implements Store.Save.
func (s *BoltStore) Save(st State) error {
	values, err := encodeState(st)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBoard)
		for _, kv := range values {
			if putErr := b.Put(kv.key, kv.value); putErr != nil {
				return fmt.Errorf("failed to store %s: %w", kv.key, putErr)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save board state: %w", err)
	}
	return nil
}

// Close implements Store.Close.
func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	s.logger.Debug("board store closed")
	return nil
}

type keyValue struct {
	key   []byte
	value []byte
}

func encodeState(st State) ([]keyValue, error) {
	streaks := st.Streaks
	if streaks == nil {
		streaks = map[string]streak.Record{}
	}

	docs := []struct {
		key []byte
		v   interface{}
	}{
		{keySessions, exchange.EncodeSessions(st.Sessions)},
		{keySeats, exchange.EncodeSeats(st.Seats)},
		{keyStreaks, streaks},
		{keyMembers, exchange.EncodeMembers(st.Members)},
		{keyTelemetry, st.Telemetry},
	}

	out := make([]keyValue, 0, len(docs)+2)
	for _, d := range docs {
		data, err := json.Marshal(d.v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", d.key, err)
		}
		out = append(out, keyValue{key: d.key, value: data})
	}
	out = append(out,
		keyValue{key: keyLastResetDate, value: []byte(st.LastResetDate)},
		keyValue{key: keyFirstArrivalDate, value: []byte(st.FirstArrivalDate)},
	)
	return out, nil
}

// decodeState rebuilds a State from per-key values. Unreadable values are
// logged and treated as absent.
func decodeState(get func(key []byte) []byte, log logger.Logger) State {
	var st State

	sessions, dropped := exchange.DecodeSessions(get(keySessions))
	st.Sessions = sessions
	logDropped(log, dropped)

	seats, dropped := exchange.DecodeSeats(get(keySeats))
	st.Seats = seats
	logDropped(log, dropped)

	if members, ok, dropped := exchange.DecodeMembers(get(keyMembers)); ok {
		st.Members = members
		logDropped(log, dropped)
	}

	st.Streaks = map[string]streak.Record{}
	if raw := get(keyStreaks); len(raw) > 0 {
		if err := json.Unmarshal(raw, &st.Streaks); err != nil {
			log.Warn("discarding unreadable streak records", "error", err)
			st.Streaks = map[string]streak.Record{}
		}
	}

	st.Telemetry = exchange.DecodeTelemetry(get(keyTelemetry))
	st.LastResetDate = string(get(keyLastResetDate))
	st.FirstArrivalDate = string(get(keyFirstArrivalDate))
	return st
}

func logDropped(log logger.Logger, dropped []error) {
	for _, err := range dropped {
		log.Warn("dropping malformed record", "error", err)
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
