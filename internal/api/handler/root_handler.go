package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var rootEndpoints = []string{
	"POST /auth/login",
	"POST /auth/logout (requires auth)",
	"POST /auth/refresh (requires auth)",
	"GET /users (requires Manager/Admin role, filtered by hierarchy)",
	"GET /users/:id (requires auth, hierarchy check)",
	"POST /users (requires Manager/Admin role)",
	"PUT /users/:id (requires auth, hierarchy check)",
	"DELETE /users/:id (requires Manager/Admin role)",
	"GET /roles (requires Manager/Admin role, filtered by hierarchy)",
	"POST /roles (requires Manager/Admin role)",
	"PUT /roles/:id (requires Manager/Admin role)",
	"DELETE /roles/:id (requires Manager/Admin role)",
	"GET /permissions (requires auth)",
	"GET /profile (requires auth)",
}

// Root describes the service.
//
// @Summary      Service description
// @Tags         meta
// @Produce      json
// @Success      200  {object}  rootResponse
// @Router       / [get]
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, rootResponse{
		Message:   "Mock RBAC API Server with Role Hierarchy",
		Endpoints: rootEndpoints,
		Hierarchy: "Users can only see and manage users/roles at their level or below in the hierarchy",
	})
}
