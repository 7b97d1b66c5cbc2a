// Package rules enforces the per-operation invariants checked before any
// write. Every method receives the working copy of the document held under
// the store's write lock, mutates it only after all checks pass, and returns
// the affected entity.
package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/hierarchy"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

const defaultSuperAdminRole = "Super Admin"

// Engine evaluates mutation rules.
type Engine struct {
	superAdminRole string
	now            func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an Engine that protects the role named superAdminRole
// from deletion.
func NewEngine(superAdminRole string, opts ...Option) *Engine {
	if strings.TrimSpace(superAdminRole) == "" {
		superAdminRole = defaultSuperAdminRole
	}
	e := &Engine{
		superAdminRole: superAdminRole,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateUser appends a new user after checking, in order: super-admin grant,
// target role reachability, username uniqueness.
func (e *Engine) CreateUser(doc *domain.Document, actor *domain.Principal, in ports.CreateUserInput) (domain.User, error) {
	wantsSuperAdmin := in.IsSuperAdmin != nil && *in.IsSuperAdmin
	if wantsSuperAdmin && !actor.IsSuperAdmin() {
		return domain.User{}, domain.Deny(domain.ErrForbidden, domain.RuleSuperAdminGrant,
			"Only super admins can create super admin users")
	}

	if in.RoleID == 0 {
		return domain.User{}, domain.Deny(domain.ErrInvalidInput, "", "roleId is required")
	}
	role, ok := doc.FindRole(in.RoleID)
	if !ok {
		return domain.User{}, domain.RoleNotFound()
	}
	if !hierarchy.CanAccessRole(actor, role) {
		return domain.User{}, domain.Deny(domain.ErrForbidden, domain.RuleRoleAboveCaller,
			fmt.Sprintf("You cannot create users with %s role. You can only create users with roles at your level or below.", role.Name))
	}

	if _, taken := doc.FindUserByUsername(in.Username); taken {
		return domain.User{}, domain.Deny(domain.ErrConflict, domain.RuleDuplicateUsername,
			fmt.Sprintf("Username '%s' is already in use.", in.Username))
	}

	user := domain.User{
		ID:           doc.NextUserID(),
		Username:     in.Username,
		Password:     in.Password,
		FullName:     in.FullName,
		Email:        in.Email,
		RoleID:       role.ID,
		IsActive:     true,
		IsSuperAdmin: wantsSuperAdmin,
		CreatedBy:    actor.User.Ref(),
		CreatedAt:    e.now(),
	}
	doc.Users = append(doc.Users, user)
	return user, nil
}

// UpdateUser applies a partial update. Username and id never change.
func (e *Engine) UpdateUser(doc *domain.Document, actor *domain.Principal, id int64, in ports.UpdateUserInput) (domain.User, error) {
	idx := doc.UserIndex(id)
	if idx < 0 {
		return domain.User{}, domain.UserNotFound()
	}
	current := doc.Users[idx]

	if in.IsSuperAdmin != nil && *in.IsSuperAdmin != current.IsSuperAdmin && !actor.IsSuperAdmin() {
		return domain.User{}, domain.Deny(domain.ErrForbidden, domain.RuleSuperAdminGrant,
			"Only super admins can modify super admin status")
	}

	if in.RoleID != nil && *in.RoleID != current.RoleID {
		if err := e.checkRoleChange(doc, actor, current, *in.RoleID); err != nil {
			return domain.User{}, err
		}
	}

	updated := current
	if in.FullName != nil {
		updated.FullName = *in.FullName
	}
	if in.Email != nil {
		updated.Email = *in.Email
	}
	if in.Password != nil && *in.Password != "" {
		updated.Password = *in.Password
	}
	if in.IsActive != nil {
		updated.IsActive = *in.IsActive
	}
	if in.RoleID != nil {
		updated.RoleID = *in.RoleID
	}
	if in.IsSuperAdmin != nil {
		updated.IsSuperAdmin = *in.IsSuperAdmin
	}
	now := e.now()
	updated.UpdatedAt = &now

	doc.Users[idx] = updated
	return updated, nil
}

func (e *Engine) checkRoleChange(doc *domain.Document, actor *domain.Principal, target domain.User, newRoleID int64) error {
	newRole, ok := doc.FindRole(newRoleID)
	if !ok {
		return domain.RoleNotFound()
	}

	if !actor.IsSuperAdmin() {
		if !hierarchy.CanAccessRole(actor, newRole) {
			return domain.Deny(domain.ErrForbidden, domain.RuleRoleAboveCaller,
				fmt.Sprintf("You cannot assign %s role. You can only assign roles at your level or below.", newRole.Name))
		}
		currentRole, ok := doc.FindRole(target.RoleID)
		if !ok {
			return domain.Deny(domain.ErrInconsistent, "",
				fmt.Sprintf("role %d of user %d cannot be resolved", target.RoleID, target.ID))
		}
		if !hierarchy.CanAccessRole(actor, currentRole) {
			return domain.Deny(domain.ErrForbidden, domain.RuleHierarchy,
				fmt.Sprintf("You cannot modify users with %s role.", currentRole.Name))
		}
	}

	if target.ID == actor.ID() && newRole.Priority.IsStrongerThan(actor.Priority()) {
		return domain.Deny(domain.ErrForbidden, domain.RuleSelfEscalation, "You cannot elevate your own role")
	}
	return nil
}

// DeleteUser removes a user. Super admins and the caller's own account are
// never deletable.
func (e *Engine) DeleteUser(doc *domain.Document, actor *domain.Principal, id int64) (domain.User, error) {
	idx := doc.UserIndex(id)
	if idx < 0 {
		return domain.User{}, domain.UserNotFound()
	}
	target := doc.Users[idx]

	if target.IsSuperAdmin {
		return domain.User{}, domain.Deny(domain.ErrRuleViolation, domain.RuleSuperAdminProtected,
			"Cannot delete super admin user")
	}
	if target.ID == actor.ID() {
		return domain.User{}, domain.Deny(domain.ErrRuleViolation, domain.RuleSelfDeletion,
			"You cannot delete your own account")
	}
	if !hierarchy.CanAccessUserIn(doc, actor, target) {
		return domain.User{}, domain.Deny(domain.ErrForbidden, domain.RuleHierarchy,
			"You can only delete users within your role hierarchy")
	}

	doc.Users = append(doc.Users[:idx], doc.Users[idx+1:]...)
	return target, nil
}
