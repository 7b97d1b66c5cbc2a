package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// Revocations stores revoked bearer tokens in Redis so every replica sees a
// logout. Key format: revoked:<sha256(token)>. Tokens are hashed so raw
// credentials never land in Redis.
type Revocations struct {
	client *redis.Client
}

var (
	_ ports.TokenRevoker = (*Revocations)(nil)
	_ ports.Pinger       = (*Revocations)(nil)
)

// NewRevocations creates a Revocations wrapping the given Redis client.
func NewRevocations(client *redis.Client) *Revocations {
	return &Revocations{client: client}
}

// Revoke marks token as revoked until ttl elapses.
func (r *Revocations) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether token has been revoked and not yet expired.
func (r *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *Revocations) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Revocations) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(sum[:])
}
