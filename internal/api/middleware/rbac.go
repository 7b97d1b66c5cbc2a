package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rbac-admin/rbac-api/internal/api/metrics"
	"github.com/rbac-admin/rbac-api/internal/core/authz"
	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// Guard adapts an authz.Guard to echo. name labels the decision metric.
func Guard(name string, g authz.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := g(PrincipalFrom(c)); err != nil {
				metrics.AuthzDecisionsTotal.WithLabelValues(name, "denied").Inc()
				return err
			}
			metrics.AuthzDecisionsTotal.WithLabelValues(name, "allowed").Inc()
			return next(c)
		}
	}
}

// RequireRole enforces a role allow-list.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return Guard("role", authz.RequireRole(roles...))
}

// RequirePermission enforces a permission allow-list (any one suffices).
func RequirePermission(perms ...string) echo.MiddlewareFunc {
	return Guard("permission", authz.RequirePermission(perms...))
}

// RequireUserAccess enforces the resource-hierarchy guard on routes that
// address a user through the :id path parameter.
func RequireUserAccess(state ports.DocumentState) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				return domain.UserNotFound()
			}
			if err := authz.CheckUserAccess(PrincipalFrom(c), state.Snapshot(), id); err != nil {
				metrics.AuthzDecisionsTotal.WithLabelValues("user_access", "denied").Inc()
				return err
			}
			metrics.AuthzDecisionsTotal.WithLabelValues("user_access", "allowed").Inc()
			return next(c)
		}
	}
}
