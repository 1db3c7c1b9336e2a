package auth

import (
	"sync"
	"time"
)

// TokenRevocationStore tracks logged-out tokens by JTI and per-user cutoffs
// ("every token issued before T"). Entries are dropped once the token they
// refer to would have expired anyway.
type TokenRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time // JTI -> token expiry
	cutoffs map[string]cutoff    // user id -> revoke-before time
	maxTTL  time.Duration
	done    chan struct{}
}

type cutoff struct {
	before  time.Time
	expires time.Time
}

// NewTokenRevocationStore creates a store and starts a background goroutine
// that removes expired entries every 5 minutes. maxTTL bounds how long a
// per-user cutoff must be kept.
func NewTokenRevocationStore(maxTTL time.Duration) *TokenRevocationStore {
	s := &TokenRevocationStore{
		entries: make(map[string]time.Time),
		cutoffs: make(map[string]cutoff),
		maxTTL:  maxTTL,
		done:    make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Revoke invalidates a single token until its natural expiry.
func (s *TokenRevocationStore) Revoke(jti string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = expiresAt
}

// RevokeAllForUser invalidates every token issued to userID up to now.
func (s *TokenRevocationStore) RevokeAllForUser(userID string) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs[userID] = cutoff{before: now, expires: now.Add(s.maxTTL)}
}

// IsRevoked checks a token by JTI and by its subject's cutoff.
func (s *TokenRevocationStore) IsRevoked(jti, userID string, issuedAt time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.entries[jti]; ok {
		return true
	}
	if c, ok := s.cutoffs[userID]; ok && !issuedAt.After(c.before) {
		return true
	}
	return false
}

// Count returns the number of revoked JTIs.
func (s *TokenRevocationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the background cleanup goroutine. It is safe to call
// multiple times but only the first call has effect.
func (s *TokenRevocationStore) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *TokenRevocationStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.cleanup(time.Now())
		}
	}
}

func (s *TokenRevocationStore) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for jti, exp := range s.entries {
		if now.After(exp) {
			delete(s.entries, jti)
		}
	}
	for user, c := range s.cutoffs {
		if now.After(c.expires) {
			delete(s.cutoffs, user)
		}
	}
}
