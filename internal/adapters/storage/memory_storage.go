package storage

import (
	"context"
	"sync"

	"github.com/inventra/core/internal/ports"
)

// MemoryStorage keeps a collection document in process memory.
// Used by the "memory" storage driver and by tests.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

var _ ports.CollectionStorage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an in-memory storage, optionally seeded with a document
func NewMemoryStorage(seed []byte) *MemoryStorage {
	s := &MemoryStorage{}
	if seed != nil {
		s.data = append([]byte(nil), seed...)
	}
	return s
}

func (s *MemoryStorage) Read(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = append([]byte(nil), emptyCollection...)
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStorage) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append([]byte(nil), data...)
	return nil
}

// Bytes returns a copy of the current document
func (s *MemoryStorage) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]byte(nil), s.data...)
}
