package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nulzo/cache-gateway-api/internal/cache"
	"github.com/nulzo/cache-gateway-api/pkg/api"
)

// ErrorHandler maps errors recorded on the context to HTTP responses.
// Handlers attach domain errors with c.Error and return; the mapping from
// the error taxonomy to status codes lives only here. Internal detail is
// logged, never echoed to clients.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			if apiErr.Log != nil {
				logger.Error("request failed", zap.Int("status", apiErr.Code), zap.Error(apiErr.Log))
			}
			c.AbortWithStatusJSON(apiErr.Code, apiErr)
			return
		}

		switch {
		case errors.Is(err, cache.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, api.NewError(http.StatusNotFound, err.Error(), nil))
		case errors.Is(err, cache.ErrInvalidArgument):
			c.AbortWithStatusJSON(http.StatusBadRequest, api.NewError(http.StatusBadRequest, err.Error(), nil))
		case errors.Is(err, cache.ErrCorruptEntry):
			logger.Error("corrupt cache entry", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				api.NewError(http.StatusInternalServerError, "Cache entry could not be decoded", nil))
		case errors.Is(err, cache.ErrStoreUnavailable):
			logger.Error("backing store unavailable", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				api.NewError(http.StatusInternalServerError, "Cache store unavailable", nil))
		default:
			logger.Error("unhandled error", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				api.NewError(http.StatusInternalServerError, "An unexpected error occurred", nil))
		}
	}
}
