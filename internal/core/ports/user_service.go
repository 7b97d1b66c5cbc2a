package ports

import (
	"context"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// CreateUserInput carries a new account. IsSuperAdmin is nil when the caller
// did not ask for it.
type CreateUserInput struct {
	Username     string
	Password     string
	FullName     string
	Email        string
	RoleID       int64
	IsSuperAdmin *bool
}

// UpdateUserInput carries a partial update; nil fields are left unchanged.
// Username and id are not updatable.
type UpdateUserInput struct {
	FullName     *string
	Email        *string
	Password     *string
	RoleID       *int64
	IsActive     *bool
	IsSuperAdmin *bool
}

// UserService defines the user use cases. The authorization gate has already
// run when these are called; mutation rules run inside the service.
type UserService interface {
	List(ctx context.Context, actor *domain.Principal) ([]UserView, error)
	Get(ctx context.Context, actor *domain.Principal, id int64) (*UserView, error)
	Create(ctx context.Context, actor *domain.Principal, in CreateUserInput) (*UserView, error)
	Update(ctx context.Context, actor *domain.Principal, id int64, in UpdateUserInput) (*UserView, error)
	Delete(ctx context.Context, actor *domain.Principal, id int64) error
	UsernameAvailable(ctx context.Context, username string) bool
}
