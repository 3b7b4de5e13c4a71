package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sharebin-api/internal/dto"
	"github.com/noah-isme/sharebin-api/internal/models"
	appErrors "github.com/noah-isme/sharebin-api/pkg/errors"
	"github.com/noah-isme/sharebin-api/pkg/secret"
)

type apiKeyStore interface {
	Create(ctx context.Context, key *models.APIKey) error
	FindActiveByHash(ctx context.Context, keyHash string) (*models.APIKey, error)
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
	ListByUser(ctx context.Context, userID string) ([]models.APIKey, error)
	Deactivate(ctx context.Context, id, userID string) error
}

// APIKeyServiceConfig holds the prefix new keys are issued with and every
// prefix the guard accepts.
type APIKeyServiceConfig struct {
	Prefix           string
	AcceptedPrefixes []string
	TouchTimeout     time.Duration
}

// APIKeyService resolves bearer API keys to callers and manages key issuance.
type APIKeyService struct {
	repo     apiKeyStore
	audit    auditLogger
	logger   *zap.Logger
	cfg      APIKeyServiceConfig
	prefixes []string
	now      func() time.Time

	touches sync.WaitGroup
}

// NewAPIKeyService constructs the service with defaults.
func NewAPIKeyService(repo apiKeyStore, audit auditLogger, logger *zap.Logger, cfg APIKeyServiceConfig) *APIKeyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "sb"
	}
	if cfg.TouchTimeout <= 0 {
		cfg.TouchTimeout = 2 * time.Second
	}
	prefixes := cfg.AcceptedPrefixes
	if len(prefixes) == 0 {
		prefixes = []string{cfg.Prefix}
	}
	return &APIKeyService{
		repo:     repo,
		audit:    audit,
		logger:   logger,
		cfg:      cfg,
		prefixes: prefixes,
		now:      time.Now,
	}
}

var errMissingKey = appErrors.Clone(appErrors.ErrUnauthorized,
	"API key required: create one from your dashboard and send it as 'Authorization: Bearer <key>'")

// ResolveCaller maps an Authorization header value onto the owning caller.
func (s *APIKeyService) ResolveCaller(ctx context.Context, header string) (*models.Caller, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, errMissingKey
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	token = strings.TrimSpace(token)
	if !secret.HasAcceptedPrefix(token, s.prefixes) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid API key format")
	}

	keyHash := secret.Digest(token)
	key, err := s.repo.FindActiveByHash(ctx, keyHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or revoked API key")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify API key")
	}

	s.touch(ctx, key.ID)
	return &models.Caller{UserID: key.UserID, KeyID: key.ID, KeyHash: keyHash}, nil
}

// touch records last use without holding up the request.
func (s *APIKeyService) touch(ctx context.Context, keyID string) {
	at := s.now().UTC()
	s.touches.Add(1)
	go func() {
		defer s.touches.Done()
		touchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.TouchTimeout)
		defer cancel()
		if err := s.repo.TouchLastUsed(touchCtx, keyID, at); err != nil {
			s.logger.Warn("failed to update api key last use", zap.String("key_id", keyID), zap.Error(err))
		}
	}()
}

// Issue creates a key for userID and returns its plaintext once.
func (s *APIKeyService) Issue(ctx context.Context, userID, name string) (*dto.IssuedAPIKey, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	generated, err := secret.NewAPIKey(s.cfg.Prefix)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate API key")
	}
	key := &models.APIKey{
		UserID:    userID,
		Name:      name,
		KeyHash:   generated.Hash,
		KeyPrefix: generated.Display,
		CreatedAt: s.now().UTC(),
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store API key")
	}
	emitAudit(ctx, s.audit, s.logger, &userID, models.AuditActionKeyIssue, "api_key", key.ID, map[string]interface{}{"name": name, "key_prefix": key.KeyPrefix})
	return &dto.IssuedAPIKey{
		ID:        key.ID,
		Name:      key.Name,
		Key:       generated.Plaintext,
		KeyPrefix: key.KeyPrefix,
		CreatedAt: key.CreatedAt,
	}, nil
}

// List returns the user's keys without secrets.
func (s *APIKeyService) List(ctx context.Context, userID string) ([]models.APIKey, error) {
	keys, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list API keys")
	}
	return keys, nil
}

// Revoke deactivates a key owned by userID.
func (s *APIKeyService) Revoke(ctx context.Context, userID, keyID string) error {
	if err := s.repo.Deactivate(ctx, keyID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "API key not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke API key")
	}
	emitAudit(ctx, s.audit, s.logger, &userID, models.AuditActionKeyRevoke, "api_key", keyID, nil)
	return nil
}
