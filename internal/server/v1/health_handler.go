package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/cache-gateway-api/internal/cache"
	"github.com/nulzo/cache-gateway-api/internal/version"
	"github.com/nulzo/cache-gateway-api/pkg/api"
)

type HealthHandler struct {
	service *cache.Service
}

func NewHealthHandler(service *cache.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health pings the backing store and reports degraded status with 200.
// Liveness probes must be able to tell "service up, dependency down" from
// "service down", so this endpoint never fails.
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	resp := api.HealthResponse{
		Status:    "healthy",
		Redis:     "connected",
		Version:   version.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.service.Ping(c.Request.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Redis = "disconnected"
		resp.Error = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}
