package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestPriority_Direction(t *testing.T) {
	if !Priority(1).IsStrongerThan(2) {
		t.Fatalf("1 must be stronger than 2")
	}
	if Priority(3).IsStrongerThan(3) {
		t.Fatalf("equal priorities are not stronger")
	}
	if !Priority(3).IsAtLeastAsStrongAs(3) || Priority(4).IsAtLeastAsStrongAs(3) {
		t.Fatalf("IsAtLeastAsStrongAs inverted")
	}
	if !TopPriority.IsTop() || Priority(0).Valid() {
		t.Fatalf("top/valid mismatch")
	}
}

func TestPermission_UnmarshalBareIDs(t *testing.T) {
	var r Role
	if err := json.Unmarshal([]byte(`{"id":3,"name":"Manager","priority":2,"permissions":[1,{"id":2,"name":"CREATE_USERS"}]}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(r.Permissions) != 2 || r.Permissions[0].ID != 1 || r.Permissions[1].Name != "CREATE_USERS" {
		t.Fatalf("unexpected permissions: %+v", r.Permissions)
	}
}

func TestUserRef_UnmarshalBareID(t *testing.T) {
	var users []User
	body := `[{"id":2,"username":"admin","createdBy":1},{"id":3,"username":"manager","createdBy":{"id":2,"username":"admin"}},{"id":4,"username":"root"}]`
	if err := json.Unmarshal([]byte(body), &users); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if users[0].CreatedByID() != 1 || users[0].CreatedBy.Username != "" {
		t.Fatalf("unexpected bare creator: %+v", users[0].CreatedBy)
	}
	if users[1].CreatedByID() != 2 || users[1].CreatedBy.Username != "admin" {
		t.Fatalf("unexpected object creator: %+v", users[1].CreatedBy)
	}
	if users[2].CreatedBy != nil {
		t.Fatalf("expected no creator, got %+v", users[2].CreatedBy)
	}
}

func TestDocument_CloneIsDeep(t *testing.T) {
	now := time.Now()
	doc := &Document{
		Users: []User{{ID: 1, CreatedBy: &UserRef{ID: 9}, UpdatedAt: &now}},
		Roles: []Role{{ID: 1, Permissions: []Permission{{ID: 1}}}},
	}
	cp := doc.Clone()
	cp.Users[0].CreatedBy.ID = 2
	cp.Roles[0].Permissions[0].ID = 5

	if doc.Users[0].CreatedBy.ID != 9 || doc.Roles[0].Permissions[0].ID != 1 {
		t.Fatalf("clone shares memory with the original")
	}
}

func TestDocument_ResolvePermissionsKeepsGlobalOrder(t *testing.T) {
	doc := &Document{Permissions: []Permission{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}}
	got := doc.ResolvePermissions(Role{Permissions: []Permission{{ID: 3}, {ID: 1}, {ID: 99}}})
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "C" {
		t.Fatalf("unexpected resolution: %+v", got)
	}
}

func TestDocument_NextIDs(t *testing.T) {
	doc := &Document{Users: []User{{ID: 3}, {ID: 10}}, Roles: []Role{{ID: 4}}}
	if doc.NextUserID() != 11 || doc.NextRoleID() != 5 {
		t.Fatalf("next ids must be max+1")
	}
	if (&Document{}).NextUserID() != 1 {
		t.Fatalf("empty document starts at 1")
	}
}

func TestRuleError_UnwrapsKind(t *testing.T) {
	err := Deny(ErrForbidden, RuleHierarchy, "nope")
	if !errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected kind matching")
	}
	if err.Error() != "hierarchy: nope" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if RoleInUse(3).UserCount == nil || *RoleInUse(3).UserCount != 3 {
		t.Fatalf("role in use must report count")
	}
}

func TestPrincipal_Matching(t *testing.T) {
	p := &Principal{
		Role:        Role{Name: "Manager"},
		Permissions: []Permission{{Name: "VIEW_USERS"}},
	}
	if !p.HasRole("MANAGER") || p.HasRole("Admin") {
		t.Fatalf("role matching is case-insensitive and exact")
	}
	if !p.HasPermission("view_users") || p.HasPermission("EDIT_USER") {
		t.Fatalf("permission matching is case-insensitive and exact")
	}
}
