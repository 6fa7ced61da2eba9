package storage

import (
	"sync"

	"github.com/0xmhha/labseat/pkg/logger"
)

// MemoryStore keeps the board state in memory. Values go through the same
// encoding as BoltStore so tests observe identical load behavior.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	saves  int
	closed bool
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Load implements Store.Load.
func (s *MemoryStore) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return State{}, ErrStoreClosed
	}
	return decodeState(func(key []byte) []byte {
		return s.values[string(key)]
	}, logger.Noop()), nil
}

// Save implements Store.Save.
func (s *MemoryStore) Save(st State) error {
	values, err := encodeState(st)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	for _, kv := range values {
		s.values[string(kv.key)] = kv.value
	}
	s.saves++
	return nil
}

// Close implements Store.Close.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saves
}

// Put stores a raw value, e.g. to simulate corrupted data in tests.
func (s *MemoryStore) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}
