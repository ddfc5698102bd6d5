package session

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore is the in-process TokenStore used by tests and local
// development without Redis.
type MemoryTokenStore struct {
	mu       sync.Mutex
	links    map[string]expiringLink
	sessions map[uint]expiringSession
}

type expiringLink struct {
	rec     LinkRecord
	expires time.Time
}

type expiringSession struct {
	rec     SessionRecord
	expires time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		links:    make(map[string]expiringLink),
		sessions: make(map[uint]expiringSession),
	}
}

func (s *MemoryTokenStore) SaveLink(_ context.Context, id string, rec LinkRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[id] = expiringLink{rec: rec, expires: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) TakeLink(_ context.Context, id string) (*LinkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.links[id]
	if !ok {
		return nil, nil
	}
	delete(s.links, id) // Single use, gone even when expired
	if time.Now().After(e.expires) {
		return nil, nil
	}
	rec := e.rec
	return &rec, nil
}

func (s *MemoryTokenStore) SaveSession(_ context.Context, userID uint, rec SessionRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = expiringSession{rec: rec, expires: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) GetSession(_ context.Context, userID uint) (*SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[userID]
	if !ok || time.Now().After(e.expires) {
		return nil, nil
	}
	rec := e.rec
	return &rec, nil
}

func (s *MemoryTokenStore) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
