package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

func employee() *domain.Principal {
	return &domain.Principal{
		User: domain.User{ID: 4, Username: "emp", IsActive: true, RoleID: 4},
		Role: domain.Role{ID: 4, Name: "Employee", Priority: 3},
		Permissions: []domain.Permission{
			{ID: 7, Name: "MANAGE_PROFILE"},
		},
	}
}

func TestAuthenticated(t *testing.T) {
	err := Authenticated(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
	assert.NoError(t, Authenticated(employee()))
}

func TestRequireRole(t *testing.T) {
	guard := RequireRole("Manager", "Admin")

	err := guard(employee())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	var re *domain.RuleError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, domain.RuleRoleMembership, re.Rule)
	assert.Equal(t, "Access denied. Required role(s): Manager, Admin. Your role: Employee", re.Message)

	manager := employee()
	manager.Role.Name = "manager"
	assert.NoError(t, guard(manager), "role names compare case-insensitively")

	super := employee()
	super.User.IsSuperAdmin = true
	assert.NoError(t, guard(super))
}

func TestRequirePermission_IsLogicalOr(t *testing.T) {
	assert.NoError(t, RequirePermission("VIEW_USERS", "manage_profile")(employee()))

	err := RequirePermission("VIEW_USERS", "CREATE_USERS")(employee())
	require.Error(t, err)
	var re *domain.RuleError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Access denied. Required permission(s): VIEW_USERS, CREATE_USERS", re.Message)

	super := employee()
	super.User.IsSuperAdmin = true
	assert.NoError(t, RequirePermission("VIEW_USERS")(super))
}

func TestChain_ShortCircuits(t *testing.T) {
	calls := 0
	counting := func(*domain.Principal) error {
		calls++
		return nil
	}

	err := Chain(Authenticated, RequireRole("Admin"), counting)(employee())
	require.Error(t, err)
	assert.Equal(t, 0, calls)

	err = Chain(Authenticated, counting)(nil)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
	assert.Equal(t, 0, calls)

	assert.NoError(t, Chain(Authenticated, counting)(employee()))
	assert.Equal(t, 1, calls)
}

func TestCheckUserAccess(t *testing.T) {
	doc := &domain.Document{
		Roles: []domain.Role{
			{ID: 1, Name: "Admin", Priority: 1},
			{ID: 4, Name: "Employee", Priority: 3},
			{ID: 5, Name: "Viewer", Priority: 4},
		},
		Users: []domain.User{
			{ID: 1, Username: "root", RoleID: 1, IsSuperAdmin: true},
			{ID: 2, Username: "admin", RoleID: 1},
			{ID: 4, Username: "emp", RoleID: 4},
			{ID: 5, Username: "viewer", RoleID: 5},
		},
	}

	tests := []struct {
		name   string
		target int64
		kind   error
	}{
		{"self", 4, nil},
		{"weaker", 5, nil},
		{"stronger", 2, domain.ErrForbidden},
		{"super admin", 1, domain.ErrForbidden},
		{"missing", 99, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUserAccess(employee(), doc, tt.target)
			if tt.kind == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestCheckUserAccess_SelfEvenWhenHierarchyDenies(t *testing.T) {
	doc := &domain.Document{
		Roles: []domain.Role{{ID: 4, Name: "Employee", Priority: 3}},
		Users: []domain.User{{ID: 4, Username: "emp", RoleID: 4, IsSuperAdmin: true}},
	}
	p := employee()
	p.Role.Priority = 9
	assert.NoError(t, CheckUserAccess(p, doc, 4))
}
