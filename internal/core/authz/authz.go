// Package authz holds the composable guards of the authorization gate.
// Guards only read; they run left to right and stop at the first failure.
package authz

import (
	"fmt"
	"strings"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/hierarchy"
)

// Guard inspects a principal and returns nil to let the request through.
type Guard func(p *domain.Principal) error

// Authenticated requires a resolved principal.
func Authenticated(p *domain.Principal) error {
	if p == nil {
		return domain.Unauthenticated("Authentication required")
	}
	return nil
}

// RequireRole lets through super admins and principals whose role name is in
// roles, compared case-insensitively.
func RequireRole(roles ...string) Guard {
	required := strings.Join(roles, ", ")
	return func(p *domain.Principal) error {
		if err := Authenticated(p); err != nil {
			return err
		}
		if p.IsSuperAdmin() {
			return nil
		}
		for _, r := range roles {
			if p.HasRole(r) {
				return nil
			}
		}
		return domain.Deny(domain.ErrForbidden, domain.RuleRoleMembership,
			fmt.Sprintf("Access denied. Required role(s): %s. Your role: %s", required, p.Role.Name))
	}
}

// RequirePermission lets through super admins and principals holding at
// least one of perms.
func RequirePermission(perms ...string) Guard {
	required := strings.Join(perms, ", ")
	return func(p *domain.Principal) error {
		if err := Authenticated(p); err != nil {
			return err
		}
		if p.IsSuperAdmin() {
			return nil
		}
		for _, name := range perms {
			if p.HasPermission(name) {
				return nil
			}
		}
		return domain.Deny(domain.ErrForbidden, domain.RulePermissionMembership,
			fmt.Sprintf("Access denied. Required permission(s): %s", required))
	}
}

// Chain runs guards in order and returns the first failure.
func Chain(guards ...Guard) Guard {
	return func(p *domain.Principal) error {
		for _, g := range guards {
			if err := g(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// CheckUserAccess is the resource-hierarchy guard for routes addressing a
// user by id. A missing target is reported before the hierarchy decision;
// principals always reach themselves.
func CheckUserAccess(p *domain.Principal, doc *domain.Document, targetID int64) error {
	if err := Authenticated(p); err != nil {
		return err
	}
	target, ok := doc.FindUser(targetID)
	if !ok {
		return domain.UserNotFound()
	}
	if target.ID == p.ID() || hierarchy.CanAccessUserIn(doc, p, target) {
		return nil
	}
	return domain.Deny(domain.ErrForbidden, domain.RuleHierarchy,
		"Access denied. You can only access users within your role hierarchy or your own resources.")
}
