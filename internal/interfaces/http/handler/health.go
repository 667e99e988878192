package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contacthub/backend/internal/interfaces/http/dto"
)

// HealthCheckFunc probes a single dependency.
type HealthCheckFunc func(ctx context.Context) error

// HealthHandler handles liveness and dependency health endpoints
type HealthHandler struct {
	BaseHandler
	startTime time.Time
	checks    map[string]HealthCheckFunc
}

// NewHealthHandler creates a new HealthHandler. Registered checks are
// probed on every healthcheck request.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		checks:    make(map[string]HealthCheckFunc),
	}
}

// AddCheck registers a named dependency probe
func (h *HealthHandler) AddCheck(name string, check HealthCheckFunc) *HealthHandler {
	h.checks[name] = check
	return h
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse represents the healthcheck response
type HealthResponse struct {
	Status       string                      `json:"status" example:"ok"`
	Version      string                      `json:"version" example:"1.0.0"`
	GoVersion    string                      `json:"go_version" example:"go1.25.5"`
	Uptime       string                      `json:"uptime" example:"1h30m45s"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// Healthcheck godoc
// @ID           healthcheck
// @Summary      Service health
// @Description  Liveness plus dependency health (database and Redis pings)
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /healthcheck [get]
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:       "ok",
		Version:      "1.0.0",
		GoVersion:    runtime.Version(),
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Dependencies: make(map[string]DependencyStatus, len(h.checks)),
	}

	for name, check := range h.checks {
		status := DependencyStatus{Status: "ok"}
		if err := check(ctx); err != nil {
			status.Status = "unavailable"
			status.Error = err.Error()
			response.Status = "degraded"
		}
		response.Dependencies[name] = status
	}

	code := http.StatusOK
	if response.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, dto.NewSuccessResponse(response))
}
