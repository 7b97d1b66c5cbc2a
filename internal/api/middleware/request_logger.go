package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/api/metrics"
)

// RequestLogger writes one structured line per request and records the
// request duration histogram. It must run after RequestID and before Auth so
// the principal, when one is resolved, is visible once next returns.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the central handler write the response so the status is final.
				c.Error(err)
			}
			elapsed := time.Since(start)

			req, res := c.Request(), c.Response()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := res.Status
			metrics.HTTPRequestDuration.
				WithLabelValues(req.Method, route, strconv.Itoa(status)).
				Observe(elapsed.Seconds())

			evt := log.Info()
			switch {
			case status >= 500:
				evt = log.Error()
			case status >= 400:
				evt = log.Warn()
			}
			evt = evt.
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", elapsed)
			if p := PrincipalFrom(c); p != nil {
				evt = evt.Int64("user_id", p.ID())
			}
			evt.Msg("request")
			return nil
		}
	}
}
