package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
	"github.com/rbac-admin/rbac-api/internal/core/service"
)

// RoleHandler handles HTTP requests for roles and the permission catalogue.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List handles GET /roles.
//
// @Summary      List roles
// @Description  Returns the roles at or below the caller's level.
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Success      200        {array}   roleResponse
// @Failure      401        {object}  messageResponse
// @Failure      403        {object}  messageResponse
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	views, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponses(views))
}

// Get handles GET /roles/:id.
//
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Param        id         path      int     true  "Role id"
// @Success      200        {object}  roleResponse
// @Failure      403        {object}  messageResponse
// @Failure      404        {object}  messageResponse
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.RoleNotFound)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(*view))
}

// Create handles POST /roles.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string             true  "Authenticated user id"
// @Param        body       body      createRoleRequest  true  "New role"
// @Success      201        {object}  roleResponse
// @Failure      400        {object}  messageResponse
// @Failure      403        {object}  messageResponse
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req createRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.Create(c.Request().Context(), p, ports.CreateRoleInput{
		Name:          req.Name,
		Description:   req.Description,
		Priority:      domain.Priority(req.Priority),
		PermissionIDs: permissionIDs(req.Permissions),
	})
	observeMutation(service.ActionCreateRole, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRoleResponse(*view))
}

// Update handles PUT /roles/:id.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string             true  "Authenticated user id"
// @Param        id         path      int                true  "Role id"
// @Param        body       body      updateRoleRequest  true  "Fields to change"
// @Success      200        {object}  roleResponse
// @Failure      400        {object}  messageResponse
// @Failure      403        {object}  messageResponse
// @Failure      404        {object}  messageResponse
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.RoleNotFound)
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.UpdateRoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: permissionIDs(req.Permissions),
	}
	if req.Priority != nil {
		pr := domain.Priority(*req.Priority)
		in.Priority = &pr
	}

	view, err := h.service.Update(c.Request().Context(), p, id, in)
	observeMutation(service.ActionUpdateRole, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(*view))
}

// Delete handles DELETE /roles/:id.
//
// @Summary      Delete a role
// @Description  Fails while users are still assigned to the role.
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Param        id         path      int     true  "Role id"
// @Success      200        {object}  messageResponse
// @Failure      400        {object}  messageResponse
// @Failure      403        {object}  messageResponse
// @Failure      404        {object}  messageResponse
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.RoleNotFound)
	if err != nil {
		return err
	}
	err = h.service.Delete(c.Request().Context(), p, id)
	observeMutation(service.ActionDeleteRole, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Role deleted successfully"})
}

// Permissions handles GET /permissions.
//
// @Summary      List permissions
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Success      200        {array}   domain.Permission
// @Failure      401        {object}  messageResponse
// @Router       /permissions [get]
func (h *RoleHandler) Permissions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Permissions(c.Request().Context()))
}
