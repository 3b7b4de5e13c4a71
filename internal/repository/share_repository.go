package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sharebin-api/internal/models"
)

// ErrDuplicateShareID is returned when an insert collides with an existing share id.
var ErrDuplicateShareID = errors.New("duplicate share id")

const uniqueViolation = "23505"

const shareColumns = `id, content, title, syntax, content_type, file_path, file_name, file_size, file_type,
       password_hash, burn_after_read, views, expires_at, created_at, user_id`

// ShareRepository handles share persistence. Every state transition is a single
// conditional statement so concurrent readers never observe partial updates.
type ShareRepository struct {
	db *sqlx.DB
}

// NewShareRepository constructs the repository.
func NewShareRepository(db *sqlx.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create inserts a new share with zero views.
func (r *ShareRepository) Create(ctx context.Context, share *models.Share) error {
	if share.CreatedAt.IsZero() {
		share.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO shares
	(id, content, title, syntax, content_type, file_path, file_name, file_size, file_type, password_hash, burn_after_read, views, expires_at, created_at, user_id)
	VALUES (:id, :content, :title, :syntax, :content_type, :file_path, :file_name, :file_size, :file_type, :password_hash, :burn_after_read, 0, :expires_at, :created_at, :user_id)`
	if _, err := r.db.NamedExecContext(ctx, query, share); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateShareID
		}
		return fmt.Errorf("create share: %w", err)
	}
	share.Views = 0
	return nil
}

// GetByID retrieves one share row regardless of expiry.
func (r *ShareRepository) GetByID(ctx context.Context, id string) (*models.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM shares WHERE id = $1`
	var share models.Share
	if err := r.db.GetContext(ctx, &share, query, id); err != nil {
		return nil, err
	}
	return &share, nil
}

// IncrementViews bumps the view counter of a live share and returns the new count.
// It returns sql.ErrNoRows when the share is gone or expired at now.
func (r *ShareRepository) IncrementViews(ctx context.Context, id string, now time.Time) (int64, error) {
	const query = `UPDATE shares SET views = views + 1
	WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)
	RETURNING views`
	var views int64
	if err := r.db.GetContext(ctx, &views, query, id, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sql.ErrNoRows
		}
		return 0, fmt.Errorf("increment share views: %w", err)
	}
	return views, nil
}

// ClaimForBurn deletes a live burn-after-read share and returns the deleted row.
// Only one of any number of concurrent callers receives the row; the others get sql.ErrNoRows.
func (r *ShareRepository) ClaimForBurn(ctx context.Context, id string, now time.Time) (*models.Share, error) {
	query := `DELETE FROM shares
	WHERE id = $1 AND burn_after_read AND (expires_at IS NULL OR expires_at > $2)
	RETURNING ` + shareColumns
	var share models.Share
	if err := r.db.GetContext(ctx, &share, query, id, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("claim share for burn: %w", err)
	}
	return &share, nil
}

// Delete removes a share owned by userID and returns the removed row.
// It returns sql.ErrNoRows when nothing matched.
func (r *ShareRepository) Delete(ctx context.Context, id, userID string) (*models.Share, error) {
	query := `DELETE FROM shares WHERE id = $1 AND user_id = $2 RETURNING ` + shareColumns
	var share models.Share
	if err := r.db.GetContext(ctx, &share, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("delete share: %w", err)
	}
	return &share, nil
}

// ListByOwner returns metadata of the owner's live shares, newest first.
func (r *ShareRepository) ListByOwner(ctx context.Context, userID string, now time.Time, limit int) ([]models.ShareSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `SELECT id, title, syntax, content_type, file_name, file_size,
       (password_hash IS NOT NULL AND password_hash <> '') AS protected,
       burn_after_read, views, expires_at, created_at
	FROM shares
	WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > $2)
	ORDER BY created_at DESC
	LIMIT $3`
	records := make([]models.ShareSummary, 0)
	if err := r.db.SelectContext(ctx, &records, query, userID, now, limit); err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	return records, nil
}

// DeleteExpired removes up to limit rows whose expiry is at or before now.
func (r *ShareRepository) DeleteExpired(ctx context.Context, now time.Time, limit int) ([]models.ExpiredShare, error) {
	if limit <= 0 {
		limit = 500
	}
	const query = `DELETE FROM shares WHERE id IN (
		SELECT id FROM shares WHERE expires_at IS NOT NULL AND expires_at <= $1 LIMIT $2
	) RETURNING id, file_path`
	records := make([]models.ExpiredShare, 0)
	if err := r.db.SelectContext(ctx, &records, query, now, limit); err != nil {
		return nil, fmt.Errorf("delete expired shares: %w", err)
	}
	return records, nil
}
