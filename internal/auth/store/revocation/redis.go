// Package revocation tracks logged-out token IDs until their natural expiry.
package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for revoked tokens
const revokedTokenKeyPrefix = "trl:jti:"

// Redis is the production revocation list: instances share state, and TTLs
// make entries disappear exactly when the token would have expired anyway.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Revoke adds a token ID with the given TTL. Zero or negative TTL is a no-op:
// the token is already expired.
func (t *Redis) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	// Store "1" as a simple marker; the key existence is what matters
	return t.client.Set(ctx, revokedTokenKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked checks if a token is in the revocation list.
func (t *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, err := t.client.Get(ctx, revokedTokenKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
