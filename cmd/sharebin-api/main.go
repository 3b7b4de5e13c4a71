package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sharebin-api/api/swagger"
	"github.com/noah-isme/sharebin-api/internal/handler"
	"github.com/noah-isme/sharebin-api/internal/middleware"
	"github.com/noah-isme/sharebin-api/internal/repository"
	"github.com/noah-isme/sharebin-api/internal/service"
	"github.com/noah-isme/sharebin-api/pkg/cache"
	"github.com/noah-isme/sharebin-api/pkg/config"
	"github.com/noah-isme/sharebin-api/pkg/database"
	"github.com/noah-isme/sharebin-api/pkg/jobs"
	"github.com/noah-isme/sharebin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sharebin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sharebin-api/pkg/middleware/requestid"
	"github.com/noah-isme/sharebin-api/pkg/storage"
)

// @title Sharebin API
// @version 1.0.0
// @description Paste and file sharing with password gates, burn-after-read and per-key rate limits.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init blob storage: %w", err)
	}
	janitor := service.NewBlobJanitor(blobs, metricsSvc, logr, jobs.QueueConfig{
		Workers:    cfg.Blobs.Workers,
		BufferSize: cfg.Blobs.BufferSize,
		MaxRetries: cfg.Blobs.MaxRetries,
		RetryDelay: cfg.Blobs.RetryDelay,
	})
	// Outlives the signal context so deletions scheduled while the server drains
	// still run; the deferred Stop fires after Shutdown returns.
	janitor.Start(context.Background())
	defer janitor.Stop()

	counters, closeCounters, err := newCounterStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeCounters()

	auditRepo := repository.NewAuditRepository(db)
	apiKeys := service.NewAPIKeyService(repository.NewAPIKeyRepository(db), auditRepo, logr, service.APIKeyServiceConfig{
		Prefix:           cfg.APIKeys.Prefix,
		AcceptedPrefixes: cfg.APIKeys.AcceptedPrefixes(),
	})
	limiter := service.NewRateLimiter(counters, logr, metricsSvc, service.RateLimiterConfig{
		PerMinute:        cfg.RateLimit.PerMinute,
		PerHour:          cfg.RateLimit.PerHour,
		Retention:        cfg.RateLimit.Retention,
		PurgeProbability: cfg.RateLimit.PurgeProbability,
	})
	shares := service.NewShareService(repository.NewShareRepository(db), blobs, janitor, auditRepo, metricsSvc, validator.New(), logr, service.ShareServiceConfig{
		BaseURL:      cfg.PublicBaseURL,
		MaxFileSize:  cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Uploads.AllowedMIMEs,
		ListLimit:    cfg.Shares.ListLimit,
	})
	go shares.RunReaper(ctx, cfg.Shares.ReaperInterval)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedHeaders))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, handler.RouteConfig{
		APIPrefix:     cfg.APIPrefix,
		Shares:        handler.NewShareHandler(shares, cfg.APIPrefix, cfg.Uploads.MaxFileSizeBytes),
		Metrics:       handler.NewMetricsHandler(metricsSvc, db),
		ExposeMetrics: cfg.Metrics.Enabled,
		Callers:       apiKeys,
		Limiter:       limiter,
	})
	if cfg.Docs.Enabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrors := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		_ = server.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

type counterStore interface {
	MinuteCount(ctx context.Context, keyHash string, windowStart time.Time) (int, error)
	HourTotal(ctx context.Context, keyHash string, since time.Time) (int, error)
	Increment(ctx context.Context, keyHash string, windowStart time.Time) (int, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func newCounterStore(ctx context.Context, cfg *config.Config, db *sqlx.DB) (counterStore, func(), error) {
	switch cfg.RateLimit.Backend {
	case "", config.RateLimitBackendPostgres:
		return repository.NewRateLimitRepository(db), func() {}, nil
	case config.RateLimitBackendRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return repository.NewRedisRateLimitRepository(client, cfg.RateLimit.Retention), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown rate limit backend %q", cfg.RateLimit.Backend)
	}
}
