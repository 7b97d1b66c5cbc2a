package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubState struct {
	mu      sync.Mutex
	doc     *domain.Document
	saveErr error
}

func (s *stubState) Snapshot() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *stubState) Update(_ context.Context, fn func(doc *domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	working := s.doc.Clone()
	if err := fn(working); err != nil {
		return err
	}
	if s.saveErr != nil {
		return s.saveErr
	}
	s.doc = working
	return nil
}

type stubTokens struct {
	issued int
}

func (t *stubTokens) Issue(u domain.User) (string, error) {
	t.issued++
	return fmt.Sprintf("tok-%d-%d", u.ID, t.issued), nil
}

func (t *stubTokens) Verify(token string, _ int64) error {
	if !strings.HasPrefix(token, "tok-") {
		return domain.Unauthenticated("Invalid token format")
	}
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[token] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[token]
	return ok, nil
}

type captureRecorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (c *captureRecorder) Record(e domain.AuditEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

func fixtureDoc() *domain.Document {
	perms := []domain.Permission{
		{ID: 1, Name: "VIEW_USERS"},
		{ID: 2, Name: "CREATE_USERS"},
		{ID: 3, Name: "VIEW_ROLES"},
	}
	return &domain.Document{
		Permissions: perms,
		Roles: []domain.Role{
			{ID: 1, Name: "Super Admin", Priority: 1, IsSystem: true, Permissions: perms},
			{ID: 2, Name: "Admin", Priority: 1, IsSystem: true, Permissions: perms},
			{ID: 3, Name: "Manager", Priority: 2, Permissions: perms[:2]},
			{ID: 4, Name: "Employee", Priority: 3, Permissions: []domain.Permission{{ID: 3}}},
		},
		Users: []domain.User{
			{ID: 1, Username: "root", Password: "rootpass", RoleID: 1, IsActive: true, IsSuperAdmin: true},
			{ID: 2, Username: "amy", Password: "amypass1", RoleID: 2, IsActive: true},
			{ID: 3, Username: "manny", Password: "manny123", RoleID: 3, IsActive: true, CreatedBy: &domain.UserRef{ID: 2}},
			{ID: 4, Username: "emma", Password: "emma1234", RoleID: 4, IsActive: true, CreatedBy: &domain.UserRef{ID: 3}},
			{ID: 5, Username: "gone", Password: "gonepass", RoleID: 4, IsActive: false, CreatedBy: &domain.UserRef{ID: 3}},
		},
	}
}

func principalFor(doc *domain.Document, id int64) *domain.Principal {
	u, _ := doc.FindUser(id)
	p, err := BuildPrincipal(doc, u)
	if err != nil {
		panic(err)
	}
	return p
}
