package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/sharebin-api/internal/models"
)

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// emitAudit records an audit entry. Failures are logged and never surface to the caller.
func emitAudit(ctx context.Context, audit auditLogger, logger *zap.Logger, userID *string, action, resource, resourceID string, values map[string]interface{}) {
	if audit == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
	}
	if len(values) > 0 {
		if payload, err := json.Marshal(values); err == nil {
			entry.NewValues = payload
		}
	}
	if err := audit.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("failed to create audit log", zap.String("action", action), zap.String("resource_id", resourceID), zap.Error(err))
	}
}
