package ports

import (
	"context"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// AuthService authenticates credentials and manages issued tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.Principal, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, principal *domain.Principal, token string) (string, error)
}

// PrincipalResolver turns a bearer token and the claimed identity header into
// an authenticated Principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token, claimedUserID string) (*domain.Principal, error)
}
