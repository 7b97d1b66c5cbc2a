package handler

import (
	"time"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// userResponse is the enriched user shape. The stored password is never
// copied into it.
type userResponse struct {
	ID           int64               `json:"id"`
	Username     string              `json:"username"`
	FullName     string              `json:"fullName"`
	Email        string              `json:"email"`
	RoleID       int64               `json:"roleId"`
	IsActive     bool                `json:"isActive"`
	IsSuperAdmin bool                `json:"isSuperAdmin"`
	CreatedBy    *domain.UserRef     `json:"createdBy,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    *time.Time          `json:"updatedAt,omitempty"`
	Role         *domain.Role        `json:"role"`
	Permissions  []domain.Permission `json:"permissions"`
}

// sessionUserBlock is the user block returned by login.
type sessionUserBlock struct {
	ID           int64               `json:"id"`
	Username     string              `json:"username"`
	FullName     string              `json:"fullName"`
	Email        string              `json:"email"`
	IsSuperAdmin bool                `json:"isSuperAdmin"`
	Role         domain.Role         `json:"role"`
	Permissions  []domain.Permission `json:"permissions"`
}

// roleResponse flattens the role and adds its usage counters.
type roleResponse struct {
	domain.Role
	UserCount         int                 `json:"userCount"`
	PermissionCount   int                 `json:"permissionCount"`
	PermissionDetails []domain.Permission `json:"permissionDetails"`
}

func toUserResponse(v ports.UserView) userResponse {
	u := v.User
	perms := v.Permissions
	if perms == nil {
		perms = []domain.Permission{}
	}
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		RoleID:       u.RoleID,
		IsActive:     u.IsActive,
		IsSuperAdmin: u.IsSuperAdmin,
		CreatedBy:    u.CreatedBy,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		Role:         v.Role,
		Permissions:  perms,
	}
}

func toUserResponses(views []ports.UserView) []userResponse {
	out := make([]userResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toUserResponse(v))
	}
	return out
}

func principalResponse(p *domain.Principal) userResponse {
	role := p.Role
	return toUserResponse(ports.UserView{User: p.User, Role: &role, Permissions: p.Permissions})
}

func toSessionUser(p *domain.Principal) sessionUserBlock {
	perms := p.Permissions
	if perms == nil {
		perms = []domain.Permission{}
	}
	return sessionUserBlock{
		ID:           p.User.ID,
		Username:     p.User.Username,
		FullName:     p.User.FullName,
		Email:        p.User.Email,
		IsSuperAdmin: p.User.IsSuperAdmin,
		Role:         p.Role,
		Permissions:  perms,
	}
}

func toRoleResponse(v ports.RoleView) roleResponse {
	perms := v.Permissions
	if perms == nil {
		perms = []domain.Permission{}
	}
	return roleResponse{
		Role:              v.Role,
		UserCount:         v.UserCount,
		PermissionCount:   len(perms),
		PermissionDetails: perms,
	}
}

func toRoleResponses(views []ports.RoleView) []roleResponse {
	out := make([]roleResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toRoleResponse(v))
	}
	return out
}

func permissionIDs(perms []domain.Permission) []int64 {
	if perms == nil {
		return nil
	}
	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return ids
}
