package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sharebin-api/internal/models"
)

func newAPIKeyRepoMock(t *testing.T) (*APIKeyRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewAPIKeyRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestAPIKeyRepositoryCreateAndFind(t *testing.T) {
	repo, mock, cleanup := newAPIKeyRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO api_keys")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	key := &models.APIKey{UserID: "user-1", Name: "ci", KeyHash: "hash", KeyPrefix: "sb_abcdefgh", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), key))
	assert.NotEmpty(t, key.ID)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "key_hash", "key_prefix", "created_at", "last_used_at", "is_active"}).
		AddRow(key.ID, "user-1", "ci", "hash", "sb_abcdefgh", time.Now(), nil, true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, key_hash")).
		WithArgs("hash").
		WillReturnRows(rows)

	found, err := repo.FindActiveByHash(context.Background(), "hash")
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIKeyRepositoryTouchAndDeactivate(t *testing.T) {
	repo, mock, cleanup := newAPIKeyRepoMock(t)
	defer cleanup()

	at := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE api_keys SET last_used_at = $2 WHERE id = $1")).
		WithArgs("key-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.TouchLastUsed(context.Background(), "key-1", at))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE api_keys SET is_active = FALSE")).
		WithArgs("key-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Deactivate(context.Background(), "key-1", "user-1"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE api_keys SET is_active = FALSE")).
		WithArgs("key-1", "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Deactivate(context.Background(), "key-1", "user-2"), sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
