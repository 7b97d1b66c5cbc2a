package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// Context keys set by Auth.
const (
	PrincipalKey = "principal"
	TokenKey     = "token"
)

// PrincipalFrom returns the principal resolved by Auth, or nil.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(PrincipalKey).(*domain.Principal)
	return p
}

// TokenFrom returns the bearer token accepted by Auth.
func TokenFrom(c echo.Context) string {
	t, _ := c.Get(TokenKey).(string)
	return t
}
