package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Keys of the collections kept in the store.
const (
	KeyProducts     = "products"
	KeyTransactions = "transactions"
	KeyCredentials  = "userCredentials"
)

// Backend persists whole blobs by key. Put must apply every entry or none.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, entries map[string][]byte) error
}

// Store serializes every read-modify-write over a Backend.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Tx stages writes in memory until the transaction function returns.
type Tx struct {
	ctx     context.Context
	backend Backend
	pending map[string][]byte
}

// Get decodes the blob stored under key into v. It reports false when the
// key has never been written.
func (tx *Tx) Get(key string, v any) (bool, error) {
	b, ok := tx.pending[key]
	if !ok {
		var err error
		b, ok, err = tx.backend.Get(tx.ctx, key)
		if err != nil {
			return false, fmt.Errorf("reading %s: %w", key, err)
		}
		if !ok {
			return false, nil
		}
	}

	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Put replaces the whole blob stored under key.
func (tx *Tx) Put(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	tx.pending[key] = b
	return nil
}

// Transaction runs fn with exclusive access to the store. Writes staged with
// Put are flushed in a single backend call when fn returns nil and dropped
// otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		ctx:     ctx,
		backend: s.backend,
		pending: make(map[string][]byte),
	}

	if err := fn(tx); err != nil {
		return err
	}

	if len(tx.pending) == 0 {
		return nil
	}

	if err := s.backend.Put(ctx, tx.pending); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}
