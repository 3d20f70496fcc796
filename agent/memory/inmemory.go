package memory

import (
	"context"
	"sync"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

var _ contractx.MemoryStore = (*InMemoryStore)(nil)

// InMemoryStore keeps each user's log in a map for the process lifetime.
type InMemoryStore struct {
	mu   sync.RWMutex
	logs map[string][]contractx.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{logs: make(map[string][]contractx.Record)}
}

func (s *InMemoryStore) Append(_ context.Context, user string, rec contractx.Record) error {
	rec = stamp(rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[user] = append(s.logs[user], rec)
	return nil
}

// Lookup returns a copy of the user's log, oldest first.
func (s *InMemoryStore) Lookup(_ context.Context, user string) ([]contractx.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contractx.Record, len(s.logs[user]))
	copy(out, s.logs[user])
	return out, nil
}

func (s *InMemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = make(map[string][]contractx.Record)
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
