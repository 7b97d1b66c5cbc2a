package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
	"github.com/rbac-admin/rbac-api/internal/core/rules"
)

func newUserService(doc *domain.Document) (ports.UserService, *stubState, *captureRecorder) {
	state := &stubState{doc: doc}
	rec := &captureRecorder{}
	return NewUserService(state, rules.NewEngine("Super Admin"), rec, zerolog.Nop()), state, rec
}

func TestUserService_List_FiltersByCreator(t *testing.T) {
	doc := fixtureDoc()
	svc, _, _ := newUserService(doc)

	views, err := svc.List(context.Background(), principalFor(doc, 3))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 users created by manny, got %d", len(views))
	}
	for _, v := range views {
		if v.User.CreatedByID() != 3 {
			t.Fatalf("unexpected user %d in list", v.User.ID)
		}
		if v.Role == nil || v.Role.Name != "Employee" {
			t.Fatalf("expected enriched role, got %+v", v.Role)
		}
	}
}

func TestUserService_List_SuperAdminSeesAll(t *testing.T) {
	doc := fixtureDoc()
	svc, _, _ := newUserService(doc)

	views, _ := svc.List(context.Background(), principalFor(doc, 1))
	if len(views) != len(doc.Users) {
		t.Fatalf("expected %d users, got %d", len(doc.Users), len(views))
	}
}

func TestUserService_Get(t *testing.T) {
	doc := fixtureDoc()
	svc, _, _ := newUserService(doc)

	view, err := svc.Get(context.Background(), principalFor(doc, 3), 4)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if view.Role.Name != "Employee" || len(view.Permissions) != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}

	if _, err := svc.Get(context.Background(), principalFor(doc, 4), 3); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), principalFor(doc, 4), 4); err != nil {
		t.Fatalf("self access must be allowed: %v", err)
	}
	if _, err := svc.Get(context.Background(), principalFor(doc, 3), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserService_Create_PersistsAndAudits(t *testing.T) {
	doc := fixtureDoc()
	svc, state, rec := newUserService(doc)

	view, err := svc.Create(context.Background(), principalFor(doc, 3), ports.CreateUserInput{
		Username: "fresh_user",
		Password: "password1",
		FullName: "Fresh User",
		Email:    "fresh@example.com",
		RoleID:   4,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if view.User.ID != 6 {
		t.Fatalf("expected id 6, got %d", view.User.ID)
	}
	if _, ok := state.Snapshot().FindUser(6); !ok {
		t.Fatalf("user not persisted")
	}
	if len(rec.events) != 1 || rec.events[0].Outcome != domain.OutcomeAllowed || rec.events[0].Action != ActionCreateUser {
		t.Fatalf("unexpected audit events: %+v", rec.events)
	}
}

func TestUserService_Create_DeniedIsAuditedWithRule(t *testing.T) {
	doc := fixtureDoc()
	svc, state, rec := newUserService(doc)

	_, err := svc.Create(context.Background(), principalFor(doc, 3), ports.CreateUserInput{Username: "x_user", RoleID: 2})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(state.Snapshot().Users) != 5 {
		t.Fatalf("document must not change on denial")
	}
	if len(rec.events) != 1 || rec.events[0].Rule != domain.RuleRoleAboveCaller {
		t.Fatalf("unexpected audit events: %+v", rec.events)
	}
}

func TestUserService_Create_ConcurrentRequestsGetDistinctIDs(t *testing.T) {
	doc := fixtureDoc()
	svc, state, _ := newUserService(doc)
	actor := principalFor(doc, 1)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = svc.Create(context.Background(), actor, ports.CreateUserInput{
				Username: "user_" + string(rune('a'+i)),
				RoleID:   4,
			})
		}(i)
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, u := range state.Snapshot().Users {
		if seen[u.ID] {
			t.Fatalf("duplicate id %d", u.ID)
		}
		seen[u.ID] = true
	}
	if len(seen) != 5+n {
		t.Fatalf("expected %d users, got %d", 5+n, len(seen))
	}
}

func TestUserService_Update_RechecksHierarchy(t *testing.T) {
	doc := fixtureDoc()
	svc, _, _ := newUserService(doc)
	name := "Nope"

	_, err := svc.Update(context.Background(), principalFor(doc, 4), 3, ports.UpdateUserInput{FullName: &name})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUserService_Update_SelfProfile(t *testing.T) {
	doc := fixtureDoc()
	svc, _, _ := newUserService(doc)
	email := "emma@example.com"

	view, err := svc.Update(context.Background(), principalFor(doc, 4), 4, ports.UpdateUserInput{Email: &email})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if view.User.Email != email || view.User.Username != "emma" {
		t.Fatalf("unexpected user: %+v", view.User)
	}
}

func TestUserService_Delete(t *testing.T) {
	doc := fixtureDoc()
	svc, state, _ := newUserService(doc)

	if err := svc.Delete(context.Background(), principalFor(doc, 2), 1); !errors.Is(err, domain.ErrRuleViolation) {
		t.Fatalf("expected super admin protection, got %v", err)
	}
	if err := svc.Delete(context.Background(), principalFor(doc, 3), 4); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := state.Snapshot().FindUser(4); ok {
		t.Fatalf("user still present")
	}
}

func TestUserService_UsernameAvailable(t *testing.T) {
	svc, _, _ := newUserService(fixtureDoc())

	if svc.UsernameAvailable(context.Background(), "amy") {
		t.Fatalf("amy is taken")
	}
	if !svc.UsernameAvailable(context.Background(), "zoe") {
		t.Fatalf("zoe is free")
	}
}
