package ports

import "github.com/rbac-admin/rbac-api/internal/core/domain"

// UserView is the enriched user shape shared by every user endpoint.
// Role is nil when the user references a role that no longer exists.
type UserView struct {
	User        domain.User
	Role        *domain.Role
	Permissions []domain.Permission
}

// RoleView is the enriched role shape shared by every role endpoint.
type RoleView struct {
	Role        domain.Role
	UserCount   int
	Permissions []domain.Permission
}
