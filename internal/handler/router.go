package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sharebin-api/internal/middleware"
	"github.com/noah-isme/sharebin-api/internal/models"
)

// RouteConfig bundles what RegisterRoutes mounts.
type RouteConfig struct {
	APIPrefix     string
	Shares        *ShareHandler
	Metrics       *MetricsHandler
	ExposeMetrics bool
	Callers       interface {
		ResolveCaller(ctx context.Context, header string) (*models.Caller, error)
	}
	Limiter interface {
		CheckAndConsume(ctx context.Context, keyHash string, now time.Time) models.RateLimitDecision
		Nominal(now time.Time) models.RateLimitDecision
	}
}

// RegisterRoutes mounts the share API, the direct links and the health endpoints.
func RegisterRoutes(r *gin.Engine, cfg RouteConfig) {
	auth := middleware.APIKeyAuth(cfg.Callers)
	limit := middleware.RateLimit(cfg.Limiter)
	quota := middleware.RateLimitHeaders(cfg.Limiter)

	if cfg.Metrics != nil {
		r.GET("/health", cfg.Metrics.Health)
		r.GET("/ready", cfg.Metrics.Ready)
		if cfg.ExposeMetrics {
			r.GET("/metrics", cfg.Metrics.Prometheus)
		}
	}

	api := r.Group(cfg.APIPrefix, quota, middleware.ResolveAction(), auth, limit)
	api.Any("", cfg.Shares.Handle)
	api.Any("/:action", cfg.Shares.Handle)

	r.GET("/p/:id", cfg.Shares.Page)
	r.GET("/raw/:id", quota, middleware.WithAction(models.ActionRaw), auth, limit, cfg.Shares.Handle)
	r.GET("/i/:id", quota, middleware.WithAction(models.ActionImg), auth, limit, cfg.Shares.Handle)
	r.GET("/embed/:id", cfg.Shares.Embed)
}
