package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nulzo/cache-gateway-api/internal/analytics"
	"github.com/nulzo/cache-gateway-api/internal/store/model"
)

// Audit feeds every completed cache operation to the async ingestor. The
// named op comes from the route, the key from the path parameter; payloads
// are never recorded.
func Audit(ingestor analytics.Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		op := opName(c)
		if op == "" {
			return
		}

		ingestor.Log(&model.OperationLog{
			ID:         uuid.New().String(),
			Op:         op,
			Key:        c.Param("key"),
			Status:     c.Writer.Status(),
			DurationMs: time.Since(start).Milliseconds(),
			CreatedAt:  time.Now().UTC(),
		})
	}
}

func opName(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case path == "/api/v1/cache" && c.Request.Method == "POST":
		return "store"
	case path == "/api/v1/cache" && c.Request.Method == "GET":
		return "list"
	case path == "/api/v1/cache/bulk":
		return "bulk"
	case path == "/api/v1/cache/:key" && c.Request.Method == "GET":
		return "get"
	case path == "/api/v1/cache/:key" && c.Request.Method == "DELETE":
		return "delete"
	case path == "/api/v1/cache/:key/exists":
		return "exists"
	default:
		return ""
	}
}
