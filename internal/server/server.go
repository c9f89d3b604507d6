package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nulzo/cache-gateway-api/internal/analytics"
	"github.com/nulzo/cache-gateway-api/internal/cache"
	"github.com/nulzo/cache-gateway-api/internal/config"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   *zap.Logger
	cache    *cache.Service
	stats    analytics.Service
	ingestor analytics.Ingestor
}

func New(cfg *config.Config, logger *zap.Logger, cacheSvc *cache.Service, stats analytics.Service, ingestor analytics.Ingestor) *Server {

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(logger, true))

	s := &Server{
		router:   engine,
		config:   cfg,
		logger:   logger,
		cache:    cacheSvc,
		stats:    stats,
		ingestor: ingestor,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
