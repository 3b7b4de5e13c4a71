package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// RateLimitRepository keeps per-minute request counters in Postgres.
type RateLimitRepository struct {
	db *sqlx.DB
}

// NewRateLimitRepository constructs the repository.
func NewRateLimitRepository(db *sqlx.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// MinuteCount returns the count for the window, zero when no row exists.
func (r *RateLimitRepository) MinuteCount(ctx context.Context, keyHash string, windowStart time.Time) (int, error) {
	const query = `SELECT request_count FROM rate_limit_counters WHERE api_key_hash = $1 AND window_start = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, keyHash, windowStart); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get minute counter: %w", err)
	}
	return count, nil
}

// HourTotal sums the counters at or after since.
func (r *RateLimitRepository) HourTotal(ctx context.Context, keyHash string, since time.Time) (int, error) {
	const query = `SELECT COALESCE(SUM(request_count), 0) FROM rate_limit_counters WHERE api_key_hash = $1 AND window_start >= $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, keyHash, since); err != nil {
		return 0, fmt.Errorf("sum hour counters: %w", err)
	}
	return total, nil
}

// Increment adds one to the window counter in a single upsert and returns the new count.
func (r *RateLimitRepository) Increment(ctx context.Context, keyHash string, windowStart time.Time) (int, error) {
	const query = `INSERT INTO rate_limit_counters (api_key_hash, window_start, request_count)
	VALUES ($1, $2, 1)
	ON CONFLICT (api_key_hash, window_start)
	DO UPDATE SET request_count = rate_limit_counters.request_count + 1
	RETURNING request_count`
	var count int
	if err := r.db.GetContext(ctx, &count, query, keyHash, windowStart); err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	return count, nil
}

// PurgeBefore deletes counters whose window started before cutoff.
func (r *RateLimitRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM rate_limit_counters WHERE window_start < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge counters: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check purge rows: %w", err)
	}
	return affected, nil
}
