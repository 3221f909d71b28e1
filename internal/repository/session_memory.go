package repository

import (
	"context"
	"sync"
	"time"

	"carfinder/internal/model"
	"carfinder/pkg/metrics"
)

// MemorySessionStore keeps sessions in process memory. Sessions idle longer
// than ttl are treated as missing and swept on write.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]model.ConversationSession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates an in-memory session store. A ttl of zero
// keeps sessions forever.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]model.ConversationSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load returns a copy of the stored session
func (s *MemorySessionStore) Load(ctx context.Context, id string) (*model.ConversationSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(session) {
		return nil, model.ErrSessionNotFound
	}

	session.Context = session.Context.Clone()
	return &session, nil
}

// Save stores a copy of the session
func (s *MemorySessionStore) Save(ctx context.Context, session *model.ConversationSession) error {
	stored := *session
	stored.Context = session.Context.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = stored
	s.sweepLocked()
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return nil
}

// Delete removes a session
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return model.ErrSessionNotFound
	}
	delete(s.sessions, id)
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) expired(session model.ConversationSession) bool {
	return s.ttl > 0 && s.now().Sub(session.UpdatedAt) > s.ttl
}

func (s *MemorySessionStore) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
		}
	}
}
