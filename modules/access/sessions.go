package access

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an issued token stays valid.
const DefaultSessionTTL = 12 * time.Hour

type session struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// SessionStore issues and resolves opaque bearer tokens. Tokens are held
// in memory; restarting the server logs everyone out.
type SessionStore struct {
	mu     sync.RWMutex
	tokens map[string]session
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionStore creates a store with the given token lifetime. A
// non-positive ttl falls back to DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		tokens: make(map[string]session),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a token for the user.
func (s *SessionStore) Issue(userID uuid.UUID) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	s.mu.Lock()
	s.tokens[token] = session{userID: userID, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// Resolve returns the user behind a token. Expired tokens are removed on
// the way out.
func (s *SessionStore) Resolve(token string) (uuid.UUID, bool) {
	s.mu.RLock()
	sess, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return uuid.Nil, false
	}
	if s.now().After(sess.expiresAt) {
		s.Revoke(token)
		return uuid.Nil, false
	}
	return sess.userID, true
}

// Revoke invalidates a token.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
