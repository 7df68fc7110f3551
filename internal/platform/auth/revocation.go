package auth

import (
	"sync"
	"time"
)

// TokenRevocationStore tracks revoked session token ids in memory so that
// logout takes effect before the token's natural expiry. Thread-safe.
type TokenRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time // token id -> natural expiry
	done    chan struct{}
}

// NewTokenRevocationStore creates a store and starts a background goroutine
// that drops naturally expired entries every 5 minutes.
func NewTokenRevocationStore() *TokenRevocationStore {
	s := &TokenRevocationStore{
		entries: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Revoke marks a token id as revoked until expiresAt, after which the entry
// is dropped since the token would be rejected anyway.
func (s *TokenRevocationStore) Revoke(tokenID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tokenID] = expiresAt
}

// IsRevoked reports whether a token id has been revoked.
func (s *TokenRevocationStore) IsRevoked(tokenID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[tokenID]
	return ok
}

// Close stops the cleanup goroutine.
func (s *TokenRevocationStore) Close() {
	close(s.done)
}

func (s *TokenRevocationStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanup(time.Now())
		case <-s.done:
			return
		}
	}
}

func (s *TokenRevocationStore) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, expiresAt := range s.entries {
		if now.After(expiresAt) {
			delete(s.entries, id)
		}
	}
}
