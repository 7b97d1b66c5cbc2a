package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

func TestDocument(t *testing.T) {
	doc, err := Document()
	require.NoError(t, err)

	assert.Len(t, doc.Permissions, 10)
	assert.Len(t, doc.Roles, 5)
	assert.Len(t, doc.Users, 5)

	superAdmin, ok := doc.FindUserByUsername("superadmin")
	require.True(t, ok)
	assert.True(t, superAdmin.IsSuperAdmin)
	assert.Nil(t, superAdmin.CreatedBy)

	employee, ok := doc.FindUserByUsername("employee")
	require.True(t, ok)
	require.NotNil(t, employee.CreatedBy)
	assert.Equal(t, "manager", employee.CreatedBy.Username)
	assert.True(t, employee.IsActive)

	manager, ok := doc.FindRoleByName("manager")
	require.True(t, ok)
	assert.Equal(t, domain.Priority(2), manager.Priority)
	assert.False(t, manager.IsSystem)
	assert.Len(t, doc.ResolvePermissions(manager), 9)
}

func TestDocument_FreshCopy(t *testing.T) {
	a, err := Document()
	require.NoError(t, err)
	b, err := Document()
	require.NoError(t, err)

	a.Users[0].Username = "changed"
	assert.Equal(t, "superadmin", b.Users[0].Username)
}

func TestParse_RejectsDanglingReferences(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown permission",
			yaml: "roles:\n  - {id: 1, name: A, priority: 1, permissions: [42]}\n",
		},
		{
			name: "unknown role",
			yaml: "roles:\n  - {id: 1, name: A, priority: 1}\nusers:\n  - {id: 1, username: a, role: 9}\n",
		},
		{
			name: "unknown creator",
			yaml: "roles:\n  - {id: 1, name: A, priority: 1}\nusers:\n  - {id: 1, username: a, role: 1, createdBy: 7}\n",
		},
		{
			name: "invalid priority",
			yaml: "roles:\n  - {id: 1, name: A, priority: 0}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
