// Package seed provides the initial RBAC document written by `rbac-api seed`
// and loaded when the configured store is empty.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

//go:embed seed.yaml
var raw []byte

type seedFile struct {
	CreatedAt   time.Time        `yaml:"createdAt"`
	Permissions []seedPermission `yaml:"permissions"`
	Roles       []seedRole       `yaml:"roles"`
	Users       []seedUser       `yaml:"users"`
}

type seedPermission struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Resource    string `yaml:"resource"`
	Action      string `yaml:"action"`
}

type seedRole struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Priority    int     `yaml:"priority"`
	System      bool    `yaml:"system"`
	Permissions []int64 `yaml:"permissions"`
}

type seedUser struct {
	ID         int64  `yaml:"id"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	FullName   string `yaml:"fullName"`
	Email      string `yaml:"email"`
	Role       int64  `yaml:"role"`
	SuperAdmin bool   `yaml:"superAdmin"`
	CreatedBy  int64  `yaml:"createdBy"`
	Inactive   bool   `yaml:"inactive"`
}

// Document decodes the embedded seed. Every call returns a fresh copy.
func Document() (*domain.Document, error) {
	return Parse(raw)
}

// Parse decodes a seed in the embedded format and checks its references.
func Parse(b []byte) (*domain.Document, error) {
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	doc := &domain.Document{
		Permissions: make([]domain.Permission, 0, len(f.Permissions)),
		Roles:       make([]domain.Role, 0, len(f.Roles)),
		Users:       make([]domain.User, 0, len(f.Users)),
	}
	for _, p := range f.Permissions {
		doc.Permissions = append(doc.Permissions, domain.Permission{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Resource:    p.Resource,
			Action:      p.Action,
		})
	}

	for _, r := range f.Roles {
		role := domain.Role{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Priority:    domain.Priority(r.Priority),
			IsSystem:    r.System,
			Permissions: make([]domain.Permission, 0, len(r.Permissions)),
			CreatedAt:   f.CreatedAt,
		}
		if !role.Priority.Valid() {
			return nil, fmt.Errorf("seed role %q: invalid priority %d", r.Name, r.Priority)
		}
		for _, id := range r.Permissions {
			p, ok := doc.FindPermission(id)
			if !ok {
				return nil, fmt.Errorf("seed role %q: unknown permission %d", r.Name, id)
			}
			role.Permissions = append(role.Permissions, p)
		}
		doc.Roles = append(doc.Roles, role)
	}

	for _, u := range f.Users {
		if _, ok := doc.FindRole(u.Role); !ok {
			return nil, fmt.Errorf("seed user %q: unknown role %d", u.Username, u.Role)
		}
		doc.Users = append(doc.Users, domain.User{
			ID:           u.ID,
			Username:     u.Username,
			Password:     u.Password,
			FullName:     u.FullName,
			Email:        u.Email,
			RoleID:       u.Role,
			IsActive:     !u.Inactive,
			IsSuperAdmin: u.SuperAdmin,
			CreatedAt:    f.CreatedAt,
		})
	}

	// Creator references are resolved once every user is known.
	for i := range doc.Users {
		creatorID := f.Users[i].CreatedBy
		if creatorID == 0 {
			continue
		}
		creator, ok := doc.FindUser(creatorID)
		if !ok {
			return nil, fmt.Errorf("seed user %q: unknown creator %d", doc.Users[i].Username, creatorID)
		}
		doc.Users[i].CreatedBy = creator.Ref()
	}
	return doc, nil
}
