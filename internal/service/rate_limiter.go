package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sharebin-api/internal/models"
)

type rateLimitStore interface {
	MinuteCount(ctx context.Context, keyHash string, windowStart time.Time) (int, error)
	HourTotal(ctx context.Context, keyHash string, since time.Time) (int, error)
	Increment(ctx context.Context, keyHash string, windowStart time.Time) (int, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RateLimiterConfig holds the quotas and housekeeping knobs.
type RateLimiterConfig struct {
	PerMinute        int
	PerHour          int
	Retention        time.Duration
	PurgeProbability float64
	PurgeTimeout     time.Duration
}

// RateLimiter admits requests per API key digest under minute and hour quotas.
// Counter store failures admit the request.
//
// The read-compare-increment sequence is not serialized, so concurrent
// requests on one key can overshoot the minute quota by a few calls.
type RateLimiter struct {
	store   rateLimitStore
	cfg     RateLimiterConfig
	logger  *zap.Logger
	metrics *MetricsService
	random  func() float64

	purges sync.WaitGroup
}

// NewRateLimiter constructs the limiter with defaults.
func NewRateLimiter(store rateLimitStore, logger *zap.Logger, metrics *MetricsService, cfg RateLimiterConfig) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 60
	}
	if cfg.PerHour <= 0 {
		cfg.PerHour = 1000
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 2 * time.Hour
	}
	if cfg.PurgeProbability < 0 {
		cfg.PurgeProbability = 0
	}
	if cfg.PurgeTimeout <= 0 {
		cfg.PurgeTimeout = 10 * time.Second
	}
	return &RateLimiter{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		random:  rand.Float64,
	}
}

// CheckAndConsume decides whether keyHash may make a request at now and, if so, counts it.
func (l *RateLimiter) CheckAndConsume(ctx context.Context, keyHash string, now time.Time) models.RateLimitDecision {
	now = now.UTC()
	l.maybePurge(now)

	windowStart := now.Truncate(time.Minute)
	minuteReset := 60 - now.Second()

	count, err := l.store.MinuteCount(ctx, keyHash, windowStart)
	if err != nil {
		return l.failOpen(err, minuteReset)
	}
	if count >= l.cfg.PerMinute {
		l.metrics.RecordRateLimit("denied")
		return models.RateLimitDecision{Allowed: false, Limit: l.cfg.PerMinute, Remaining: 0, ResetSeconds: minuteReset}
	}

	total, err := l.store.HourTotal(ctx, keyHash, now.Truncate(time.Hour))
	if err != nil {
		return l.failOpen(err, minuteReset)
	}
	if total >= l.cfg.PerHour {
		l.metrics.RecordRateLimit("denied")
		return models.RateLimitDecision{Allowed: false, Limit: l.cfg.PerHour, Remaining: 0, ResetSeconds: (60 - now.Minute()) * 60}
	}

	newCount, err := l.store.Increment(ctx, keyHash, windowStart)
	if err != nil {
		return l.failOpen(err, minuteReset)
	}
	remaining := l.cfg.PerMinute - newCount
	if remaining < 0 {
		remaining = 0
	}
	l.metrics.RecordRateLimit("allowed")
	return models.RateLimitDecision{Allowed: true, Limit: l.cfg.PerMinute, Remaining: remaining, ResetSeconds: minuteReset}
}

// Nominal describes the per-minute policy at now without consulting or
// touching any counter. It backs the headers on calls made without a key.
func (l *RateLimiter) Nominal(now time.Time) models.RateLimitDecision {
	return models.RateLimitDecision{Allowed: true, Limit: l.cfg.PerMinute, Remaining: l.cfg.PerMinute, ResetSeconds: 60 - now.UTC().Second()}
}

func (l *RateLimiter) failOpen(err error, reset int) models.RateLimitDecision {
	l.logger.Error("rate limit store unavailable, admitting request", zap.Error(err))
	l.metrics.RecordRateLimit("fail_open")
	return models.RateLimitDecision{Allowed: true, Limit: l.cfg.PerMinute, Remaining: l.cfg.PerMinute, ResetSeconds: reset}
}

// maybePurge occasionally drops stale counters in the background. It never blocks the caller.
func (l *RateLimiter) maybePurge(now time.Time) {
	if l.cfg.PurgeProbability == 0 || l.random() >= l.cfg.PurgeProbability {
		return
	}
	cutoff := now.Add(-l.cfg.Retention)
	l.purges.Add(1)
	go func() {
		defer l.purges.Done()
		ctx, cancel := context.WithTimeout(context.Background(), l.cfg.PurgeTimeout)
		defer cancel()
		removed, err := l.store.PurgeBefore(ctx, cutoff)
		if err != nil {
			l.logger.Warn("rate limit purge failed", zap.Error(err))
			return
		}
		l.logger.Debug("rate limit counters purged", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
	}()
}
