package service

import (
	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// ProjectUser builds the enriched user view used by every user endpoint.
func ProjectUser(doc *domain.Document, u domain.User) ports.UserView {
	view := ports.UserView{User: u, Permissions: []domain.Permission{}}
	if r, ok := doc.FindRole(u.RoleID); ok {
		view.Role = &r
		view.Permissions = doc.ResolvePermissions(r)
	}
	return view
}

// ProjectRole builds the enriched role view used by every role endpoint.
func ProjectRole(doc *domain.Document, r domain.Role) ports.RoleView {
	return ports.RoleView{
		Role:        r,
		UserCount:   doc.CountUsersWithRole(r.ID),
		Permissions: doc.ResolvePermissions(r),
	}
}

// BuildPrincipal joins a user with its role and permissions. A user whose
// role cannot be resolved points at a data integrity problem.
func BuildPrincipal(doc *domain.Document, u domain.User) (*domain.Principal, error) {
	role, ok := doc.FindRole(u.RoleID)
	if !ok {
		return nil, domain.Deny(domain.ErrInconsistent, "", "user references a role that does not exist")
	}
	return &domain.Principal{
		User:        u,
		Role:        role,
		Permissions: doc.ResolvePermissions(role),
	}, nil
}
