package server

import (
	"github.com/nulzo/cache-gateway-api/internal/server/middleware"
	"github.com/nulzo/cache-gateway-api/internal/server/validator"
	v1 "github.com/nulzo/cache-gateway-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	// Global middleware
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Tracing("cache-gateway-api"))
	s.router.Use(middleware.ErrorHandler(s.logger))

	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)

	// Root metadata (public, unversioned)
	metaHandler := v1.NewMetaHandler()
	s.router.GET("/", metaHandler.Root)

	// API v1 group
	api := s.router.Group("/api/v1")
	api.Use(limiter.Middleware())
	{
		healthHandler := v1.NewHealthHandler(s.cache)
		api.GET("/health", healthHandler.Health)

		cacheHandler := v1.NewCacheHandler(s.cache, validator.New())
		cacheGroup := api.Group("/cache")
		cacheGroup.Use(middleware.Audit(s.ingestor))
		{
			cacheGroup.POST("", cacheHandler.Store)
			cacheGroup.GET("", cacheHandler.List)
			cacheGroup.POST("/bulk", cacheHandler.StoreBulk)
			cacheGroup.GET("/:key", cacheHandler.Get)
			cacheGroup.DELETE("/:key", cacheHandler.Delete)
			cacheGroup.GET("/:key/exists", cacheHandler.Exists)
		}

		statsHandler := v1.NewStatsHandler(s.stats)
		api.GET("/stats", statsHandler.Overview)
		api.GET("/stats/recent", statsHandler.Recent)
	}
}
