package ports

import (
	"context"
	"time"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// TokenManager issues bearer tokens at login and validates their shape on
// every protected request. claimedUserID comes from the x-user-id header.
type TokenManager interface {
	Issue(user domain.User) (string, error)
	Verify(token string, claimedUserID int64) error
}

// TokenRevoker keeps the tokens invalidated by logout or refresh.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
