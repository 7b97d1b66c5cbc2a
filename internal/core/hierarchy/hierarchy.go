// Package hierarchy decides priority-based reachability between a principal
// and a target user or role. The functions are pure: every value they need is
// passed in, nothing is looked up.
package hierarchy

import "github.com/rbac-admin/rbac-api/internal/core/domain"

// CanAccessUser reports whether actor may act on target.
//
// Super admins reach everyone. Nobody else reaches a super admin. Otherwise
// the actor's role must be at least as strong as the target's role; peers of
// equal priority may act on each other. A nil targetRole denies.
func CanAccessUser(actor *domain.Principal, target domain.User, targetRole *domain.Role) bool {
	if actor == nil {
		return false
	}
	if actor.IsSuperAdmin() {
		return true
	}
	if target.IsSuperAdmin || targetRole == nil {
		return false
	}
	return actor.Priority().IsAtLeastAsStrongAs(targetRole.Priority)
}

// CanAccessRole applies the same rule to a role directly.
func CanAccessRole(actor *domain.Principal, target domain.Role) bool {
	if actor == nil {
		return false
	}
	if actor.IsSuperAdmin() {
		return true
	}
	return actor.Priority().IsAtLeastAsStrongAs(target.Priority)
}

// CanAccessUserIn resolves the target's role from doc before deciding.
func CanAccessUserIn(doc *domain.Document, actor *domain.Principal, target domain.User) bool {
	var role *domain.Role
	if r, ok := doc.FindRole(target.RoleID); ok {
		role = &r
	}
	return CanAccessUser(actor, target, role)
}
