package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
	"github.com/rbac-admin/rbac-api/internal/core/service"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Description  Super admins see every user; everybody else sees the users they created.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Success      200        {array}   userResponse
// @Failure      401        {object}  messageResponse
// @Failure      403        {object}  messageResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	views, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(views))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Param        id         path      int     true  "User id"
// @Success      200        {object}  userResponse
// @Failure      403        {object}  messageResponse
// @Failure      404        {object}  messageResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.UserNotFound)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*view))
}

// Create handles POST /users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string             true  "Authenticated user id"
// @Param        body       body      createUserRequest  true  "New user"
// @Success      201        {object}  userResponse
// @Failure      400        {object}  messageResponse
// @Failure      403        {object}  messageResponse
// @Failure      404        {object}  messageResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.Create(c.Request().Context(), p, ports.CreateUserInput{
		Username:     req.Username,
		Password:     req.Password,
		FullName:     req.FullName,
		Email:        req.Email,
		RoleID:       req.RoleID,
		IsSuperAdmin: req.IsSuperAdmin,
	})
	observeMutation(service.ActionCreateUser, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(*view))
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user
// @Description  Username and id cannot be changed.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string             true  "Authenticated user id"
// @Param        id         path      int                true  "User id"
// @Param        body       body      updateUserRequest  true  "Fields to change"
// @Success      200        {object}  userResponse
// @Failure      400        {object}  messageResponse
// @Failure      403        {object}  messageResponse
// @Failure      404        {object}  messageResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.UserNotFound)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.Update(c.Request().Context(), p, id, ports.UpdateUserInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Password:     req.Password,
		RoleID:       req.RoleID,
		IsActive:     req.IsActive,
		IsSuperAdmin: req.IsSuperAdmin,
	})
	observeMutation(service.ActionUpdateUser, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*view))
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Param        id         path      int     true  "User id"
// @Success      200        {object}  messageResponse
// @Failure      400        {object}  messageResponse
// @Failure      403        {object}  messageResponse
// @Failure      404        {object}  messageResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.UserNotFound)
	if err != nil {
		return err
	}
	err = h.service.Delete(c.Request().Context(), p, id)
	observeMutation(service.ActionDeleteUser, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// CheckUsername handles GET /users/check-username/:username.
//
// @Summary      Check username availability
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Param        username   path      string  true  "Candidate username"
// @Success      200        {object}  usernameAvailabilityResponse
// @Router       /users/check-username/{username} [get]
func (h *UserHandler) CheckUsername(c echo.Context) error {
	username := c.Param("username")
	return c.JSON(http.StatusOK, usernameAvailabilityResponse{
		Available: h.service.UsernameAvailable(c.Request().Context(), username),
		Username:  username,
	})
}
