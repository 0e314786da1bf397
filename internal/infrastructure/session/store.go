// Package session implements the in-process session store. Sessions are
// cache entries with a sliding TTL; the non-goal of distributed session
// storage keeps this a single-node map.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

const (
	defaultTTL    = 30 * time.Minute
	tokenBytes    = 32
	sweepInterval = time.Minute
)

// Store keeps sessions keyed by opaque tokens. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	ttl      time.Duration

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewStore creates a Store with the given idle TTL (defaultTTL when <= 0).
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a session for the user and returns its opaque token. The
// session snapshots the user's identity and role as of now.
func (s *Store) Create(user *domain.User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Resolve returns the session behind the token, or nil when the token is
// unknown or expired. A successful resolve renews the TTL (sliding expiry).
func (s *Store) Resolve(token string) *domain.Session {
	if token == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil
	}
	now := s.now()
	if sess.Expired(now) {
		delete(s.sessions, token)
		return nil
	}

	sess.ExpiresAt = now.Add(s.ttl)
	snapshot := *sess
	return &snapshot
}

// Destroy removes the session. Idempotent: unknown tokens are a no-op.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Active returns the number of live (possibly expired-but-unswept) sessions.
func (s *Store) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor launches a goroutine that evicts expired sessions until ctx is
// cancelled. Resolve already drops expired entries lazily; the janitor keeps
// abandoned sessions from accumulating.
func (s *Store) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
