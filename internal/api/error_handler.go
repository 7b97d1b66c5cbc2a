package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message   string `json:"message"`
	Rule      string `json:"rule,omitempty"`
	UserCount *int   `json:"userCount,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps rule denials to the status of their kind.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, rate limiting, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, errorResponse{Message: msg}
	}

	var re *domain.RuleError
	if errors.As(err, &re) {
		code := statusFor(re.Kind)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("internal inconsistency")
			return code, errorResponse{Message: "Internal server error"}
		}
		return code, errorResponse{Message: re.Message, Rule: re.Rule, UserCount: re.UserCount}
	}

	if errors.Is(err, domain.ErrInconsistent) {
		log.Error().Err(err).Str("path", c.Path()).Msg("internal inconsistency")
		return http.StatusInternalServerError, errorResponse{Message: "Internal server error"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Message: "Something went wrong!"}
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(kind, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, domain.ErrConflict),
		errors.Is(kind, domain.ErrRuleViolation),
		errors.Is(kind, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
