package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Each maps to exactly one HTTP status in the API layer.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRuleViolation   = errors.New("rule violation")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInconsistent    = errors.New("internal inconsistency")
)

// ErrInvalidCredentials is returned by login for an unknown user, a wrong
// password or an inactive account alike.
var ErrInvalidCredentials = &RuleError{Kind: ErrUnauthenticated, Message: "Invalid username or password"}

// Rule names reported on denials.
const (
	RuleRoleMembership       = "role_membership"
	RulePermissionMembership = "permission_membership"
	RuleHierarchy            = "hierarchy"
	RuleSuperAdminGrant      = "super_admin_grant"
	RuleRoleAboveCaller      = "role_above_caller"
	RuleDuplicateUsername    = "duplicate_username"
	RuleDuplicateRoleName    = "duplicate_role_name"
	RuleSelfEscalation       = "self_escalation"
	RuleSuperAdminProtected  = "super_admin_protected"
	RuleSelfDeletion         = "self_deletion"
	RuleTopPriorityRole      = "top_priority_role"
	RulePriorityAboveCaller  = "priority_above_caller"
	RuleSystemRoleProtected  = "system_role_protected"
	RuleSuperAdminRole       = "super_admin_role"
	RuleRoleInUse            = "role_in_use"
	RuleRoleNotFound         = "role_not_found"
	RuleUserNotFound         = "user_not_found"
	RuleUnknownPermission    = "unknown_permission"
)

// RuleError is a denial that names the rule it enforces. Kind is one of the
// sentinel errors above and is what errors.Is matches against.
type RuleError struct {
	Kind      error
	Rule      string
	Message   string
	UserCount *int
}

func (e *RuleError) Error() string {
	if e.Rule == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

func (e *RuleError) Unwrap() error { return e.Kind }

// Deny builds a RuleError.
func Deny(kind error, rule, message string) *RuleError {
	return &RuleError{Kind: kind, Rule: rule, Message: message}
}

// Unauthenticated builds a 401-class error without a rule name.
func Unauthenticated(message string) *RuleError {
	return &RuleError{Kind: ErrUnauthenticated, Message: message}
}

// RoleInUse reports the number of users still assigned to a role.
func RoleInUse(count int) *RuleError {
	return &RuleError{
		Kind:      ErrConflict,
		Rule:      RuleRoleInUse,
		Message:   "Cannot delete role. Users are assigned to this role.",
		UserCount: &count,
	}
}

// UserNotFound and RoleNotFound are shared by the gate and the rules engine.
func UserNotFound() *RuleError {
	return Deny(ErrNotFound, RuleUserNotFound, "User not found")
}

func RoleNotFound() *RuleError {
	return Deny(ErrNotFound, RuleRoleNotFound, "Role not found")
}
