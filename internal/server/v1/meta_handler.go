package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/cache-gateway-api/internal/version"
	"github.com/nulzo/cache-gateway-api/pkg/api"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Root returns service metadata and available API versions.
//
// GET /
func (h *MetaHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, api.MetaResponse{
		Service:           "Cache Gateway API",
		Version:           version.Version,
		Status:            "running",
		AvailableVersions: []string{"v1"},
		Endpoints: map[string]string{
			"v1":     "/api/v1",
			"health": "/api/v1/health",
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
