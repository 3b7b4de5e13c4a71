package models

import "time"

// APIKey is a caller credential for the programmatic interface. Only the digest is stored.
type APIKey struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	Name       string     `db:"name" json:"name"`
	KeyHash    string     `db:"key_hash" json:"-"`
	KeyPrefix  string     `db:"key_prefix" json:"key_prefix"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	LastUsedAt *time.Time `db:"last_used_at" json:"last_used_at,omitempty"`
	IsActive   bool       `db:"is_active" json:"is_active"`
}

// Caller is the identity resolved from a bearer API key.
type Caller struct {
	UserID  string
	KeyID   string
	KeyHash string
}
