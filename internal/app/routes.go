package app

import (
	"github.com/gin-gonic/gin"

	"github.com/second-brain/core/internal/middleware"
	"github.com/second-brain/core/internal/modules/capture"
	"github.com/second-brain/core/internal/modules/chat"
	"github.com/second-brain/core/internal/modules/content/note"
	"github.com/second-brain/core/internal/modules/processing/ai"
	"github.com/second-brain/core/internal/modules/system/health"
	"github.com/second-brain/core/internal/pkg/metrics"
	"github.com/second-brain/core/internal/pkg/response"
)

const apiPrefix = "/api"

func (a *App) registerRoutes() {
	r := a.router
	cfg := a.cfg
	log := a.logger

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	health.RegisterRoutes(r, a.resources.checks)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	gateway := ai.New(ai.Options{
		Provider: cfg.AI.ActiveProvider(),
		Timeout:  cfg.AI.RequestTimeout(),
		Logger:   log.Named("AIGateway"),
	})
	fetcher := capture.NewHTTPFetcher(capture.FetcherOptions{
		Timeout:   cfg.Extract.FetchTimeout(),
		MaxBytes:  cfg.Extract.MaxBodyBytes,
		UserAgent: cfg.Extract.UserAgent,
	})
	store := a.resources.store

	// AI-backed routes share one per-IP budget.
	limited := middleware.RateLimit(a.resources.counter, cfg.RateLimit.PerMinute, log)

	api := r.Group(apiPrefix)
	capture.NewHandler(capture.NewService(fetcher, gateway, log.Named("Capture")), log).RegisterRoutes(api, limited)
	ai.NewHandler(gateway, log).RegisterRoutes(api, limited)
	chat.NewHandler(chat.NewService(store, gateway, log.Named("Chat")), log).RegisterRoutes(api, limited)
	note.NewHandler(note.NewService(store), log).RegisterRoutes(api, note.RouteMiddleware{
		Write:      []gin.HandlerFunc{middleware.Idempotence(a.resources.rdb)},
		PublicRead: []gin.HandlerFunc{middleware.HTTPCache(a.resources.rdb, middleware.HTTPCacheOptions{}, log)},
	})
}
