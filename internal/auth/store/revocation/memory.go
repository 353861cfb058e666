package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemory is a single-process revocation list used when Redis is not
// configured and in tests. Expired entries are dropped lazily on read.
type InMemory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	clock   func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		revoked: make(map[string]time.Time),
		clock:   time.Now,
	}
}

func (t *InMemory) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[jti] = t.clock().Add(ttl)
	return nil
}

func (t *InMemory) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	expiresAt, ok := t.revoked[jti]
	if !ok {
		return false, nil
	}
	if t.clock().After(expiresAt) {
		delete(t.revoked, jti)
		return false, nil
	}
	return true, nil
}
