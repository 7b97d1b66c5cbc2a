package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rbac-admin/rbac-api/internal/api/metrics"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// HeaderUserID carries the identity claim on every protected request.
const HeaderUserID = "x-user-id"

// Auth resolves the bearer token and x-user-id header into a principal and
// stores it in the context.
func Auth(resolver ports.PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthzDecisionsTotal.WithLabelValues("authenticate", "denied").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
				metrics.AuthzDecisionsTotal.WithLabelValues("authenticate", "denied").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}
			if !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthzDecisionsTotal.WithLabelValues("authenticate", "denied").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}
			token := strings.TrimSpace(parts[1])

			principal, err := resolver.Resolve(c.Request().Context(), token, c.Request().Header.Get(HeaderUserID))
			if err != nil {
				metrics.AuthzDecisionsTotal.WithLabelValues("authenticate", "denied").Inc()
				return err
			}
			metrics.AuthzDecisionsTotal.WithLabelValues("authenticate", "allowed").Inc()

			c.Set(PrincipalKey, principal)
			c.Set(TokenKey, token)
			return next(c)
		}
	}
}
