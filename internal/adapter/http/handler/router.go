package handler

import (
	"banking-core/internal/adapter/http/middleware"
	"banking-core/internal/core/ports"
	"banking-core/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Outbox         ports.OutboxRepository
	HealthCheckers []ports.HealthChecker
	Mode           string // gin mode: debug, release, test
	Logger         zerolog.Logger
}

// SetupRouter initialises the ops Gin engine.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	outboxHandler := NewOutboxHandler(deps.Outbox)
	ops := r.Group("/ops")
	{
		ops.GET("/outbox/failed", outboxHandler.ListFailed)
	}

	return r
}
