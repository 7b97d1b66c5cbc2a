package memory

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

const defaultRevocationEntries = 10000

// Revocations is an in-process revocation list. Every entry lives for the
// TTL the list was built with; the oldest entries are evicted once size is
// reached.
type Revocations struct {
	cache *lru.LRU[string, struct{}]
}

var _ ports.TokenRevoker = (*Revocations)(nil)

// NewRevocations returns a list holding at most size tokens for ttl each.
// A non-positive size uses a default.
func NewRevocations(size int, ttl time.Duration) *Revocations {
	if size <= 0 {
		size = defaultRevocationEntries
	}
	return &Revocations{cache: lru.NewLRU[string, struct{}](size, nil, ttl)}
}

// Revoke adds token to the list. The per-call ttl is ignored in favour of
// the list-wide one.
func (r *Revocations) Revoke(_ context.Context, token string, _ time.Duration) error {
	r.cache.Add(token, struct{}{})
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := r.cache.Get(token)
	return ok, nil
}
