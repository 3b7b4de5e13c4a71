package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sharebin-api/internal/models"
	"github.com/noah-isme/sharebin-api/internal/service"
)

// Metrics returns middleware that captures request metrics using the provided service.
// API calls are labelled by action so the path label stays bounded.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if action := ActionFromContext(c); action != models.ActionUnknown {
			path = path + "#" + action.String()
		}
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
