package domain

import (
	"strings"
	"time"
)

// Priority ranks a role inside the hierarchy. 1 is the strongest authority;
// larger numbers carry less authority. Compare priorities only through the
// methods below so the direction of the comparison is never inverted.
type Priority int

// TopPriority is the super-admin tier.
const TopPriority Priority = 1

// IsAtLeastAsStrongAs reports whether p carries equal or more authority than other.
func (p Priority) IsAtLeastAsStrongAs(other Priority) bool {
	return p <= other
}

// IsStrongerThan reports whether p carries strictly more authority than other.
func (p Priority) IsStrongerThan(other Priority) bool {
	return p < other
}

// IsTop reports whether p is the super-admin tier.
func (p Priority) IsTop() bool {
	return p == TopPriority
}

// Valid reports whether p is a usable priority (positive).
func (p Priority) Valid() bool {
	return p >= TopPriority
}

// Role groups permissions under a position in the priority hierarchy.
type Role struct {
	ID          int64        `json:"id" bson:"id"`
	Name        string       `json:"name" bson:"name"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Priority    Priority     `json:"priority" bson:"priority"`
	Permissions []Permission `json:"permissions" bson:"permissions"`
	IsSystem    bool         `json:"isSystem" bson:"isSystem"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt   *time.Time   `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// HasName compares the role name case-insensitively.
func (r Role) HasName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(name))
}

// PermissionIDs returns the set of permission ids the role references.
func (r Role) PermissionIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(r.Permissions))
	for _, p := range r.Permissions {
		ids[p.ID] = struct{}{}
	}
	return ids
}

func (r Role) clone() Role {
	out := r
	out.Permissions = append([]Permission(nil), r.Permissions...)
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
