// Package session keeps logged-in users in process memory, keyed by an
// opaque token handed to the browser as a cookie.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
	"github.com/kailas-cloud/pfin/internal/metrics"
)

// DefaultTTL applies when the configured TTL is not positive.
const DefaultTTL = 12 * time.Hour

type entry struct {
	user      domuser.User
	expiresAt time.Time
}

// Store is a concurrency-safe token to user map. Sessions do not survive
// a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{sessions: make(map[string]entry), ttl: ttl, now: time.Now}
}

// TTL returns the session lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores u under a fresh token.
func (s *Store) Create(u domuser.User) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[token] = entry{user: u, expiresAt: s.now().Add(s.ttl)}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return token
}

// Get returns the user for a live token.
func (s *Store) Get(token string) (domuser.User, bool) {
	s.mu.RLock()
	e, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return domuser.User{}, false
	}
	if !s.now().Before(e.expiresAt) {
		s.Delete(token)
		return domuser.User{}, false
	}
	return e.user, true
}

// Delete removes a token. Unknown tokens are ignored.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}

// Len counts stored sessions, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Ping reports the store as available while ctx is live.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) sweepLocked() {
	now := s.now()
	for token, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, token)
		}
	}
}
