package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger checks one dependency.
type Pinger func(ctx context.Context) error

// HealthHandler serves the liveness and readiness checks.
type HealthHandler struct {
	remote  Pinger
	local   Pinger
	backend string
}

func NewHealthHandler(backend string, remote, local Pinger) *HealthHandler {
	return &HealthHandler{remote: remote, local: local, backend: backend}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready. A missing remote store only degrades
// the agent, since requests are then served from the local store; a missing
// local store makes it unready.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, 2)
	status, code := "ok", http.StatusOK

	if err := h.remote(ctx); err != nil {
		deps[h.backend] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		status = "degraded"
	} else {
		deps[h.backend] = dependencyStatus{Status: "ok"}
	}

	if err := h.local(ctx); err != nil {
		deps["local"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		status, code = "unavailable", http.StatusServiceUnavailable
	} else {
		deps["local"] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}
