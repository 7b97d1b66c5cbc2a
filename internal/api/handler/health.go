package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health (liveness) and GET /health/ready
// (readiness). Readiness pings every registered dependency in parallel.
type HealthHandler struct {
	deps map[string]ports.Pinger
}

// NewHealthHandler takes the dependencies to probe, keyed by the name reported
// in the readiness body. Nil pingers are skipped.
func NewHealthHandler(deps map[string]ports.Pinger) *HealthHandler {
	clean := make(map[string]ports.Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			clean[name] = p
		}
	}
	return &HealthHandler{deps: clean}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness confirms the process is alive.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readiness checks the store and revocation backends.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		deps    = make(map[string]dependencyStatus, len(h.deps))
		healthy = true
	)

	// Probe failures are collected, not propagated, so every dependency reports.
	var g errgroup.Group
	for name, p := range h.deps {
		g.Go(func() error {
			status := dependencyStatus{Status: "ok"}
			if err := p.Ping(ctx); err != nil {
				status = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			}
			mu.Lock()
			deps[name] = status
			if status.Status != "ok" {
				healthy = false
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
