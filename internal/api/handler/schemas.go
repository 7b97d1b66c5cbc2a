package handler

import "github.com/rbac-admin/rbac-api/internal/core/domain"

// --- Request types ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=50,username"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"fullName" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	RoleID       int64  `json:"roleId" validate:"required,gt=0"`
	IsSuperAdmin *bool  `json:"isSuperAdmin,omitempty"`
}

// updateUserRequest leaves absent fields untouched.
type updateUserRequest struct {
	FullName     *string `json:"fullName,omitempty" validate:"omitempty,min=2,max=100"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Password     *string `json:"password,omitempty" validate:"omitempty,min=8"`
	RoleID       *int64  `json:"roleId,omitempty" validate:"omitempty,gt=0"`
	IsActive     *bool   `json:"isActive,omitempty"`
	IsSuperAdmin *bool   `json:"isSuperAdmin,omitempty"`
}

type createRoleRequest struct {
	Name        string              `json:"name" validate:"required,max=100"`
	Description string              `json:"description" validate:"max=500"`
	Priority    int                 `json:"priority" validate:"required,min=1,max=100"`
	Permissions []domain.Permission `json:"permissions"`
}

// updateRoleRequest leaves absent fields untouched. A present but empty
// permissions list clears the role's permissions.
type updateRoleRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=500"`
	Priority    *int                `json:"priority,omitempty" validate:"omitempty,min=1,max=100"`
	Permissions []domain.Permission `json:"permissions"`
}

// --- Response types ---

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Success bool             `json:"success"`
	Token   string           `json:"token"`
	User    sessionUserBlock `json:"user"`
}

type logoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type refreshResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type profileResponse struct {
	User userResponse `json:"user"`
}

type usernameAvailabilityResponse struct {
	Available bool   `json:"available"`
	Username  string `json:"username"`
}

type rootResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
	Hierarchy string   `json:"hierarchy"`
}
