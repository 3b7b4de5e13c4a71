package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sharebin-api/internal/models"
	"github.com/noah-isme/sharebin-api/pkg/response"
)

type callerResolver interface {
	ResolveCaller(ctx context.Context, header string) (*models.Caller, error)
}

// APIKeyAuth resolves the bearer API key. Actions that require a key are
// rejected without one; other actions attach the caller only when the key is valid.
func APIKeyAuth(resolver callerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !ActionFromContext(c).RequiresAuth() {
			if header != "" {
				if caller, err := resolver.ResolveCaller(c.Request.Context(), header); err == nil {
					c.Set(ContextCallerKey, caller)
				}
			}
			c.Next()
			return
		}

		caller, err := resolver.ResolveCaller(c.Request.Context(), header)
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(ContextCallerKey, caller)
		c.Next()
	}
}
