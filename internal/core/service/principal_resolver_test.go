package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

func TestPrincipalResolver_Resolve(t *testing.T) {
	doc := fixtureDoc()
	doc.Users = append(doc.Users, domain.User{ID: 6, Username: "orphan", RoleID: 77, IsActive: true})
	rev := newStubRevoker()
	rev.revoked["tok-revoked"] = 0
	resolver := NewPrincipalResolver(&stubState{doc: doc}, &stubTokens{}, rev, zerolog.Nop())

	tests := []struct {
		name    string
		token   string
		claimed string
		kind    error
	}{
		{"valid", "tok-3-1", "3", nil},
		{"missing token", "", "3", domain.ErrUnauthenticated},
		{"malformed token", "garbage", "3", domain.ErrUnauthenticated},
		{"revoked token", "tok-revoked", "3", domain.ErrUnauthenticated},
		{"missing identity", "tok-3-1", "", domain.ErrUnauthenticated},
		{"non numeric identity", "tok-3-1", "abc", domain.ErrUnauthenticated},
		{"unknown user", "tok-3-1", "42", domain.ErrUnauthenticated},
		{"inactive user", "tok-3-1", "5", domain.ErrUnauthenticated},
		{"dangling role", "tok-3-1", "6", domain.ErrInconsistent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolver.Resolve(context.Background(), tt.token, tt.claimed)
			if tt.kind == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.ID() != 3 || p.Role.Name != "Manager" {
					t.Fatalf("unexpected principal: %+v", p)
				}
				return
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestPrincipalResolver_RevocationBackendDownAcceptsToken(t *testing.T) {
	rev := newStubRevoker()
	rev.err = errors.New("redis unavailable")
	resolver := NewPrincipalResolver(&stubState{doc: fixtureDoc()}, &stubTokens{}, rev, zerolog.Nop())

	if _, err := resolver.Resolve(context.Background(), "tok-2-1", "2"); err != nil {
		t.Fatalf("expected token accepted, got %v", err)
	}
}
