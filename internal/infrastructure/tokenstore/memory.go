package tokenstore

import (
	"context"
	"sync"

	"github.com/tasklio/tasklio-go/internal/core/ports"
)

var _ ports.TokenStore = (*MemoryStore)(nil)

// MemoryStore keeps the token in process memory. Sessions do not survive a
// restart; intended for tests and deliberately ephemeral clients.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore builds a MemoryStore, optionally pre-seeded with a token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Load(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
