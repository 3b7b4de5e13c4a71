package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sharebin-api/internal/models"
)

// APIKeyRepository persists API key digests.
type APIKeyRepository struct {
	db *sqlx.DB
}

// NewAPIKeyRepository constructs the repository.
func NewAPIKeyRepository(db *sqlx.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores a key digest. The plaintext never reaches this layer.
func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	if key.ID == "" {
		key.ID = uuid.NewString()
	}
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO api_keys (id, user_id, name, key_hash, key_prefix, created_at, last_used_at, is_active)
	VALUES (:id, :user_id, :name, :key_hash, :key_prefix, :created_at, :last_used_at, :is_active)`
	if _, err := r.db.NamedExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

// FindActiveByHash looks up an active key by digest.
func (r *APIKeyRepository) FindActiveByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	const query = `SELECT id, user_id, name, key_hash, key_prefix, created_at, last_used_at, is_active
	FROM api_keys WHERE key_hash = $1 AND is_active = TRUE`
	var key models.APIKey
	if err := r.db.GetContext(ctx, &key, query, keyHash); err != nil {
		return nil, err
	}
	return &key, nil
}

// TouchLastUsed records the time a key was last presented.
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE api_keys SET last_used_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}

// ListByUser returns the user's keys, newest first.
func (r *APIKeyRepository) ListByUser(ctx context.Context, userID string) ([]models.APIKey, error) {
	const query = `SELECT id, user_id, name, key_hash, key_prefix, created_at, last_used_at, is_active
	FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`
	keys := make([]models.APIKey, 0)
	if err := r.db.SelectContext(ctx, &keys, query, userID); err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return keys, nil
}

// Deactivate disables a key owned by userID.
func (r *APIKeyRepository) Deactivate(ctx context.Context, id, userID string) error {
	const query = `UPDATE api_keys SET is_active = FALSE WHERE id = $1 AND user_id = $2 AND is_active = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deactivate api key: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check api key rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
