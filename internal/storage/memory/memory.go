package memory

import (
	"context"
	"sync"

	"github.com/ekoelbar/barclient/internal/storage"
)

// Store keeps values in process memory. Used for tests and for ephemeral
// sessions where the cart should not outlive the process.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ storage.Storage = (*Store)(nil)

func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}
