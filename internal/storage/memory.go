package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
)

// MemoryKV implements KV using in-process storage. It is the fallback when
// no durable store is configured: state lives for the life of the process
// and every operation always succeeds, which keeps the rest of the
// application working when durability is unavailable.
type MemoryKV struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// NewMemory creates a new in-memory KV store
func NewMemory() *MemoryKV {
	return &MemoryKV{
		store: make(map[string][]byte),
	}
}

var _ KV = (*MemoryKV)(nil)

// Save serializes value to JSON and stores it under key
func (s *MemoryKV) Save(_ context.Context, key string, value any) error {
	if key == "" {
		return errors.InvalidArgument("key cannot be empty")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal value for key %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[key] = data
	return nil
}

// Load reads the value stored under key into dest
func (s *MemoryKV) Load(_ context.Context, key string, dest any) (bool, error) {
	if key == "" {
		return false, errors.InvalidArgument("key cannot be empty")
	}

	s.mu.RLock()
	data, exists := s.store[key]
	s.mu.RUnlock()

	if !exists {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode persisted value").
			WithMeta("key", key)
	}

	return true, nil
}

// Delete removes the value stored under key
func (s *MemoryKV) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.InvalidArgument("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.store, key)
	return nil
}

// Corrupt overwrites the raw bytes stored under key, bypassing JSON
// serialization. Only useful in tests that exercise corruption tolerance.
func (s *MemoryKV) Corrupt(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[key] = raw
}
