package redisstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "auth:blacklist:"

// Blacklist marks otherwise-valid bearer tokens as revoked before their
// natural expiry. Entries carry a TTL equal to the token's remaining
// lifetime, so the set is bounded by the number of live tokens and needs
// no explicit cleanup.
type Blacklist struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewBlacklist(rdb *redis.Client, timeout time.Duration) *Blacklist {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Blacklist{rdb: rdb, timeout: timeout}
}

// Key stores a hash of the raw token, not the token itself: the token is a
// bearer credential, and keeping it verbatim at rest would widen exposure
// if the store were compromised.
func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistPrefix + hex.EncodeToString(sum[:])
}

// Revoke records the token as revoked until its original expiry. Revoking
// an already-expired token is a no-op. A store failure is returned to the
// caller: a logout that silently fails to record the revocation would
// leave the token valid.
func (b *Blacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.rdb.Set(ctx, key(token), "revoked", ttl).Err()
}

// IsRevoked reports whether the token has been revoked. On a store error
// it returns the error; callers treat that case as revoked (fail closed).
func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	n, err := b.rdb.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
