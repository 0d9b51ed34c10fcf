package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// HealthCheck is one named dependency probe
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthResponse reports the service and dependency state
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthHandler reports liveness and dependency health
type HealthHandler struct {
	BaseHandler
	version string
	timeout time.Duration
	checks  []HealthCheck
}

// NewHealthHandler creates a HealthHandler running checks with a 2s budget
func NewHealthHandler(version string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		version: version,
		timeout: 2 * time.Second,
		checks:  checks,
	}
}

// Health runs every check. Any failure answers 503.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Checks:  make(map[string]string, len(h.checks)),
	}
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			logger.L(ctx).Warn("health check failed", zap.String("check", check.Name), zap.Error(err))
			resp.Checks[check.Name] = "unhealthy"
			resp.Status = "unhealthy"
			continue
		}
		resp.Checks[check.Name] = "healthy"
	}

	if resp.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    resp,
			Error:   dto.NewErrorResponseWithRequestID(dto.ErrCodeUnavailable, "Service unhealthy", getRequestID(c)).Error,
		})
		return
	}
	h.Success(c, resp)
}
