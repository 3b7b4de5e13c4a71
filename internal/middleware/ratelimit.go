package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sharebin-api/internal/models"
	appErrors "github.com/noah-isme/sharebin-api/pkg/errors"
	"github.com/noah-isme/sharebin-api/pkg/response"
)

// Rate limit response headers.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

type requestLimiter interface {
	CheckAndConsume(ctx context.Context, keyHash string, now time.Time) models.RateLimitDecision
	Nominal(now time.Time) models.RateLimitDecision
}

// RateLimitHeaders writes the nominal quota headers before anything else runs,
// so anonymous calls and early rejections (401, 404, 405) carry them too.
// RateLimit replaces them with the caller's real counters.
func RateLimitHeaders(limiter requestLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil {
			writeRateLimitHeaders(c, limiter.Nominal(time.Now()))
		}
		c.Next()
	}
}

// RateLimit enforces the per-key quota for authenticated callers and reports it in headers.
func RateLimit(limiter requestLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFromContext(c)
		if caller == nil || limiter == nil {
			c.Next()
			return
		}
		decision := limiter.CheckAndConsume(c.Request.Context(), caller.KeyHash, time.Now())
		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(decision.ResetSeconds))
			response.Abort(c, appErrors.RateLimited(decision.ResetSeconds))
			return
		}
		c.Next()
	}
}

func writeRateLimitHeaders(c *gin.Context, decision models.RateLimitDecision) {
	c.Header(HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
	c.Header(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
	c.Header(HeaderRateLimitReset, strconv.Itoa(decision.ResetSeconds))
}
