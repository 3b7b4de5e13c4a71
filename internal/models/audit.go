package models

import "time"

// Audit actions recorded for share mutations.
const (
	AuditActionShareCreate = "SHARE_CREATE"
	AuditActionShareUpload = "SHARE_UPLOAD"
	AuditActionShareDelete = "SHARE_DELETE"
	AuditActionShareBurn   = "SHARE_BURN"
	AuditActionKeyIssue    = "API_KEY_ISSUE"
	AuditActionKeyRevoke   = "API_KEY_REVOKE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
