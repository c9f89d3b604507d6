package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/cache-gateway-api/internal/analytics"
	"github.com/nulzo/cache-gateway-api/pkg/api"
)

type StatsHandler struct {
	service analytics.Service
}

func NewStatsHandler(service analytics.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

// Overview returns daily aggregates from the operation log.
//
// GET /stats?days=7
func (h *StatsHandler) Overview(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	stats, err := h.service.GetUsageOverview(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(api.NewError(http.StatusInternalServerError, "Failed to load usage stats", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":  days,
		"stats": stats,
	})
}

// Recent returns the latest raw operation logs.
//
// GET /stats/recent?limit=50
func (h *StatsHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	ops, err := h.service.GetRecent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(api.NewError(http.StatusInternalServerError, "Failed to load recent operations", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(ops),
		"operations": ops,
	})
}
