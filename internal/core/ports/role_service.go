package ports

import (
	"context"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// CreateRoleInput carries a new role.
type CreateRoleInput struct {
	Name          string
	Description   string
	Priority      domain.Priority
	PermissionIDs []int64
}

// UpdateRoleInput carries a partial update. A nil PermissionIDs leaves the
// permission set unchanged; an empty non-nil slice clears it.
type UpdateRoleInput struct {
	Name          *string
	Description   *string
	Priority      *domain.Priority
	PermissionIDs []int64
}

// RoleService defines the role and permission use cases.
type RoleService interface {
	List(ctx context.Context, actor *domain.Principal) ([]RoleView, error)
	Get(ctx context.Context, actor *domain.Principal, id int64) (*RoleView, error)
	Create(ctx context.Context, actor *domain.Principal, in CreateRoleInput) (*RoleView, error)
	Update(ctx context.Context, actor *domain.Principal, id int64, in UpdateRoleInput) (*RoleView, error)
	Delete(ctx context.Context, actor *domain.Principal, id int64) error
	Permissions(ctx context.Context) []domain.Permission
}
