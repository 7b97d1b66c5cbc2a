package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbac-admin/rbac-api/internal/api/metrics"
	"github.com/rbac-admin/rbac-api/internal/api/middleware"
	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return domain.ErrInvalidCredentials
	}

	token, principal, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		User:    toSessionUser(principal),
	})
}

// Logout revokes the presented token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Success      200        {object}  logoutResponse
// @Failure      401        {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), middleware.TokenFrom(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logoutResponse{Success: true, Message: "Logged out successfully"})
}

// Refresh swaps the presented token for a new one.
//
// @Summary      Refresh token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Success      200        {object}  refreshResponse
// @Failure      401        {object}  messageResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	token, err := h.authService.Refresh(c.Request().Context(), p, middleware.TokenFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Success: true, Token: token})
}

// Profile returns the authenticated principal.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        x-user-id  header    string  true  "Authenticated user id"
// @Success      200        {object}  profileResponse
// @Failure      401        {object}  messageResponse
// @Router       /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{User: principalResponse(p)})
}
