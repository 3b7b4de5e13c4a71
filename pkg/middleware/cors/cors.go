package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var defaultHeaders = []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"}

// New returns a CORS middleware that permits any origin with an explicit
// request header allow-list. Preflight requests end with 204.
func New(allowedHeaders []string) gin.HandlerFunc {
	if len(allowedHeaders) == 0 {
		allowedHeaders = defaultHeaders
	}
	headers := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Expose-Headers", "X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, X-Request-ID")
		h.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
