package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sharebin-api/internal/middleware"
	"github.com/noah-isme/sharebin-api/internal/models"
)

func callerFromContext(c *gin.Context) *models.Caller {
	return middleware.CallerFromContext(c)
}

// shareID reads the id from the direct-link path or the ?id= query.
func shareID(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return strings.TrimSpace(id)
	}
	return strings.TrimSpace(c.Query("id"))
}
