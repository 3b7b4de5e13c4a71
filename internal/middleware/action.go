package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sharebin-api/internal/models"
	appErrors "github.com/noah-isme/sharebin-api/pkg/errors"
	"github.com/noah-isme/sharebin-api/pkg/logger"
	"github.com/noah-isme/sharebin-api/pkg/response"
)

// Gin context keys set by the API middleware chain.
const (
	ContextActionKey = "share.action"
	ContextCallerKey = "share.caller"
)

// ResolveAction maps the request onto a models.Action from the :action path
// parameter (or ?action=) and rejects unknown actions and wrong methods.
func ResolveAction() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("action")
		if name == "" {
			name = c.Query("action")
		}
		verify := c.Query("verify")
		action, allowed := models.ResolveAction(c.Request.Method, strings.ToLower(strings.TrimSpace(name)),
			verify == "1" || strings.EqualFold(verify, "true"))
		if action == models.ActionUnknown {
			response.Abort(c, appErrors.Clone(appErrors.ErrNotFound, "unknown action"))
			return
		}
		if !allowed {
			c.Header("Allow", allowedMethods(action))
			response.Abort(c, appErrors.ErrMethodNotAllowed)
			return
		}
		setAction(c, action)
		c.Next()
	}
}

// WithAction pins the action for direct-link routes.
func WithAction(action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAction(c, action)
		c.Next()
	}
}

// ActionFromContext returns the resolved action or ActionUnknown.
func ActionFromContext(c *gin.Context) models.Action {
	value, exists := c.Get(ContextActionKey)
	if !exists {
		return models.ActionUnknown
	}
	action, ok := value.(models.Action)
	if !ok {
		return models.ActionUnknown
	}
	return action
}

// CallerFromContext returns the authenticated caller, if any.
func CallerFromContext(c *gin.Context) *models.Caller {
	value, exists := c.Get(ContextCallerKey)
	if !exists {
		return nil
	}
	caller, ok := value.(*models.Caller)
	if !ok {
		return nil
	}
	return caller
}

func setAction(c *gin.Context, action models.Action) {
	c.Set(ContextActionKey, action)
	c.Set(logger.ActionKey, action.String())
}

func allowedMethods(action models.Action) string {
	switch action {
	case models.ActionCreate, models.ActionUpload:
		return "POST"
	case models.ActionGet, models.ActionVerifyGet:
		return "GET, POST"
	case models.ActionDelete:
		return "DELETE"
	default:
		return "GET"
	}
}
