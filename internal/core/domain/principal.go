package domain

import "strings"

// Principal is the authenticated actor of a single request: the user joined
// with its role and the role's resolved permissions. It is built fresh per
// request and never persisted.
type Principal struct {
	User        User
	Role        Role
	Permissions []Permission
}

func (p *Principal) ID() int64 { return p.User.ID }

func (p *Principal) IsSuperAdmin() bool { return p.User.IsSuperAdmin }

func (p *Principal) Priority() Priority { return p.Role.Priority }

// HasRole matches the principal's role name case-insensitively.
func (p *Principal) HasRole(name string) bool {
	return p.Role.HasName(name)
}

// HasPermission matches permission names case-insensitively.
func (p *Principal) HasPermission(name string) bool {
	for _, perm := range p.Permissions {
		if strings.EqualFold(perm.Name, name) {
			return true
		}
	}
	return false
}
