package db

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore implements SessionStore in process memory.
// Used when no Redis address is configured, and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
}

type memorySession struct {
	snapshot []byte
	expires  time.Time
}

// NewMemoryStore creates an empty MemoryStore. A ttl <= 0 uses the default.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memorySession),
	}
}

func (s *MemoryStore) SaveSession(_ context.Context, id string, snapshot []byte) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	buf := append([]byte(nil), snapshot...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memorySession{snapshot: buf, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) LoadSession(_ context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if s.now().After(sess.expires) {
		delete(s.sessions, id)
		return nil, nil
	}
	return append([]byte(nil), sess.snapshot...), nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) CountSessions(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	now := s.now()
	for _, sess := range s.sessions {
		if !now.After(sess.expires) {
			n++
		}
	}
	return n, nil
}
