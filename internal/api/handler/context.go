package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rbac-admin/rbac-api/internal/api/metrics"
	"github.com/rbac-admin/rbac-api/internal/api/middleware"
	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// ctxPrincipal returns the principal injected by the Auth middleware. Its
// absence means the route was mounted without Auth, which is a wiring error
// answered like any unauthenticated request.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return p, nil
}

// pathID parses the :id parameter. Ids that are not numbers cannot exist.
func pathID(c echo.Context, notFound func() *domain.RuleError) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound()
	}
	return id, nil
}

// bindAndValidate decodes the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// observeMutation records the mutation counter for action.
func observeMutation(action string, err error) {
	outcome := "allowed"
	if err != nil {
		outcome = "error"
		var re *domain.RuleError
		if errors.As(err, &re) && !errors.Is(err, domain.ErrInconsistent) {
			outcome = "denied"
		}
	}
	metrics.MutationsTotal.WithLabelValues(action, outcome).Inc()
}
