package rules

import (
	"fmt"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/hierarchy"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// CreateRole appends a new non-system role.
func (e *Engine) CreateRole(doc *domain.Document, actor *domain.Principal, in ports.CreateRoleInput) (domain.Role, error) {
	if !in.Priority.Valid() {
		return domain.Role{}, domain.Deny(domain.ErrInvalidInput, "", "priority must be a positive integer")
	}
	if !actor.IsSuperAdmin() {
		if in.Priority.IsTop() {
			return domain.Role{}, domain.Deny(domain.ErrForbidden, domain.RuleTopPriorityRole,
				"Only super admins can create roles with priority 1 (which is itself)")
		}
		if in.Priority.IsStrongerThan(actor.Priority()) {
			return domain.Role{}, domain.Deny(domain.ErrForbidden, domain.RulePriorityAboveCaller,
				"You can only create roles at your level or below in the hierarchy")
		}
	}

	if _, taken := doc.FindRoleByName(in.Name); taken {
		return domain.Role{}, duplicateRoleName(in.Name)
	}
	perms, err := resolvePermissions(doc, in.PermissionIDs)
	if err != nil {
		return domain.Role{}, err
	}

	role := domain.Role{
		ID:          doc.NextRoleID(),
		Name:        in.Name,
		Description: in.Description,
		Priority:    in.Priority,
		Permissions: perms,
		IsSystem:    false,
		CreatedAt:   e.now(),
	}
	doc.Roles = append(doc.Roles, role)
	return role, nil
}

// UpdateRole applies a partial update. The id never changes.
func (e *Engine) UpdateRole(doc *domain.Document, actor *domain.Principal, id int64, in ports.UpdateRoleInput) (domain.Role, error) {
	idx := doc.RoleIndex(id)
	if idx < 0 {
		return domain.Role{}, domain.RoleNotFound()
	}
	target := doc.Roles[idx]

	if in.Priority != nil && !in.Priority.Valid() {
		return domain.Role{}, domain.Deny(domain.ErrInvalidInput, "", "priority must be a positive integer")
	}
	requestsTop := in.Priority != nil && in.Priority.IsTop()

	if target.IsSystem && requestsTop && !actor.IsSuperAdmin() {
		return domain.Role{}, domain.Deny(domain.ErrForbidden, domain.RuleSystemRoleProtected,
			"Only super admins can modify super admin roles")
	}
	if !hierarchy.CanAccessRole(actor, target) {
		return domain.Role{}, domain.Deny(domain.ErrForbidden, domain.RuleHierarchy,
			fmt.Sprintf("You can only modify roles within your role hierarchy. Your role: %s", actor.Role.Name))
	}
	if in.Priority != nil && target.ID == actor.Role.ID && in.Priority.IsStrongerThan(actor.Priority()) {
		return domain.Role{}, domain.Deny(domain.ErrForbidden, domain.RuleSelfEscalation, "You cannot elevate your own role")
	}
	if in.Priority != nil && !actor.IsSuperAdmin() && in.Priority.IsStrongerThan(actor.Priority()) {
		return domain.Role{}, domain.Deny(domain.ErrForbidden, domain.RulePriorityAboveCaller,
			"You can only set role priorities at your level or below in the hierarchy")
	}

	updated := target
	if in.Name != nil {
		if other, taken := doc.FindRoleByName(*in.Name); taken && other.ID != target.ID {
			return domain.Role{}, duplicateRoleName(*in.Name)
		}
		updated.Name = *in.Name
	}
	if in.Description != nil {
		updated.Description = *in.Description
	}
	if in.Priority != nil {
		updated.Priority = *in.Priority
	}
	if in.PermissionIDs != nil {
		perms, err := resolvePermissions(doc, in.PermissionIDs)
		if err != nil {
			return domain.Role{}, err
		}
		updated.Permissions = perms
	}
	now := e.now()
	updated.UpdatedAt = &now

	doc.Roles[idx] = updated
	return updated, nil
}

// DeleteRole removes a role nobody references.
func (e *Engine) DeleteRole(doc *domain.Document, actor *domain.Principal, id int64) (domain.Role, error) {
	idx := doc.RoleIndex(id)
	if idx < 0 {
		return domain.Role{}, domain.RoleNotFound()
	}
	target := doc.Roles[idx]

	if target.HasName(e.superAdminRole) {
		return domain.Role{}, domain.Deny(domain.ErrRuleViolation, domain.RuleSuperAdminRole,
			fmt.Sprintf("Cannot delete %s role", e.superAdminRole))
	}
	if n := doc.CountUsersWithRole(target.ID); n > 0 {
		return domain.Role{}, domain.RoleInUse(n)
	}
	if target.IsSystem {
		return domain.Role{}, domain.Deny(domain.ErrRuleViolation, domain.RuleSystemRoleProtected,
			"Cannot delete system role")
	}
	if !hierarchy.CanAccessRole(actor, target) {
		return domain.Role{}, domain.Deny(domain.ErrForbidden, domain.RuleHierarchy,
			"You can only delete roles within your role hierarchy")
	}

	doc.Roles = append(doc.Roles[:idx], doc.Roles[idx+1:]...)
	return target, nil
}

func duplicateRoleName(name string) error {
	return domain.Deny(domain.ErrConflict, domain.RuleDuplicateRoleName,
		fmt.Sprintf("Role name '%s' is already in use.", name))
}

// resolvePermissions maps ids onto the global permission list, keeping the
// global order and dropping duplicates.
func resolvePermissions(doc *domain.Document, ids []int64) ([]domain.Permission, error) {
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := doc.FindPermission(id); !ok {
			return nil, domain.Deny(domain.ErrInvalidInput, domain.RuleUnknownPermission,
				fmt.Sprintf("Permission %d does not exist", id))
		}
		wanted[id] = struct{}{}
	}
	out := make([]domain.Permission, 0, len(wanted))
	for _, p := range doc.Permissions {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
