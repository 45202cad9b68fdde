package kitchen

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"
)

// DefaultSessionTTL is the sliding expiry applied when no TTL is
// configured.
const DefaultSessionTTL = 8 * time.Hour

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
)

// SessionToken represents a temporary kitchen session issued after a
// successful password check.
type SessionToken struct {
	Token        string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	LastActivity time.Time
}

// TokenStore manages kitchen session tokens in memory with a sliding
// TTL: each successful validation pushes the expiry forward.
type TokenStore struct {
	tokens map[string]*SessionToken
	mu     sync.RWMutex
	ttl    time.Duration
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore(ttl time.Duration) *TokenStore {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenStore{
		tokens: make(map[string]*SessionToken),
		ttl:    ttl,
	}
}

// Create issues a new session token.
func (s *TokenStore) Create() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	st := &SessionToken{
		Token:        token,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.ttl),
		LastActivity: now,
	}

	s.mu.Lock()
	s.tokens[token] = st
	s.mu.Unlock()

	return token, nil
}

// Validate checks that a token exists and is unexpired, and pushes its
// expiry forward.
func (s *TokenStore) Validate(token string) error {
	s.mu.RLock()
	st, exists := s.tokens[token]
	s.mu.RUnlock()

	if !exists {
		return ErrTokenNotFound
	}

	now := time.Now()
	if now.After(st.ExpiresAt) {
		s.Invalidate(token)
		return ErrTokenExpired
	}

	s.mu.Lock()
	st.LastActivity = now
	st.ExpiresAt = now.Add(s.ttl)
	s.mu.Unlock()

	return nil
}

// Invalidate removes a token from the store.
func (s *TokenStore) Invalidate(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// CleanupExpired removes all expired tokens from the store.
func (s *TokenStore) CleanupExpired() int {
	now := time.Now()
	count := 0

	s.mu.Lock()
	for token, st := range s.tokens {
		if now.After(st.ExpiresAt) {
			delete(s.tokens, token)
			count++
		}
	}
	s.mu.Unlock()

	return count
}

// Count returns the number of active tokens.
func (s *TokenStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// StartCleanup starts a background goroutine that periodically removes
// expired tokens until the context is cancelled.
func (s *TokenStore) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired()
			}
		}
	}()
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
