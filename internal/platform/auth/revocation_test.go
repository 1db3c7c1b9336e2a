package auth

import (
	"sync"
	"testing"
	"time"
)

func TestRevoke_and_IsRevoked(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour)
	defer store.Close()

	store.Revoke("token-abc-123", time.Now().Add(1*time.Hour))

	if !store.IsRevoked("token-abc-123", "1", time.Now()) {
		t.Error("expected JTI to be revoked")
	}
	if store.IsRevoked("unknown-jti", "1", time.Now()) {
		t.Error("expected unknown JTI to not be revoked")
	}
}

func TestRevokeAllForUser(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour)
	defer store.Close()

	before := time.Now().Add(-time.Minute)
	store.RevokeAllForUser("42")

	if !store.IsRevoked("jti-1", "42", before) {
		t.Error("expected token issued before cutoff to be revoked")
	}
	if store.IsRevoked("jti-2", "42", time.Now().Add(time.Minute)) {
		t.Error("expected token issued after cutoff to be valid")
	}
	if store.IsRevoked("jti-3", "99", before) {
		t.Error("other users must be unaffected")
	}
}

func TestCleanup(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour)
	defer store.Close()

	now := time.Now()
	store.Revoke("expired", now.Add(-time.Minute))
	store.Revoke("live", now.Add(time.Hour))
	store.RevokeAllForUser("7")

	store.cleanup(now)
	if store.Count() != 1 {
		t.Errorf("expected 1 entry after cleanup, got %d", store.Count())
	}
	if !store.IsRevoked("live", "", now) {
		t.Error("expected live entry to survive cleanup")
	}

	store.cleanup(now.Add(2 * time.Hour))
	if store.IsRevoked("x", "7", now.Add(-time.Hour)) {
		t.Error("expected user cutoff to be dropped after max TTL")
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour)
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Revoke(string(rune('a'+i%26)), time.Now().Add(time.Hour))
		}(i)
		go func() {
			defer wg.Done()
			store.IsRevoked("a", "1", time.Now())
		}()
	}
	wg.Wait()
}

func TestClose_Idempotent(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour)
	store.Close()
	store.Close()
}
