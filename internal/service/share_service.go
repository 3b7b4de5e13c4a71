package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sharebin-api/internal/dto"
	"github.com/noah-isme/sharebin-api/internal/models"
	"github.com/noah-isme/sharebin-api/internal/repository"
	appErrors "github.com/noah-isme/sharebin-api/pkg/errors"
	"github.com/noah-isme/sharebin-api/pkg/secret"
	"github.com/noah-isme/sharebin-api/pkg/storage"
)

const (
	maxIDAttempts = 3
	reapBatchSize = 500
	textMIME      = "text/plain; charset=utf-8"
)

// defaultUploadMIMEs applies when no allow-list is configured. Types a browser
// would render as active content (html, svg, xml) are left out.
var defaultUploadMIMEs = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/bmp",
	"application/pdf",
	"text/plain",
	"application/zip",
	"application/x-zip-compressed",
	"application/x-tar",
	"application/gzip",
	"application/x-gzip",
	"application/x-7z-compressed",
	"application/vnd.rar",
	"application/x-rar-compressed",
}

type shareStore interface {
	Create(ctx context.Context, share *models.Share) error
	GetByID(ctx context.Context, id string) (*models.Share, error)
	IncrementViews(ctx context.Context, id string, now time.Time) (int64, error)
	ClaimForBurn(ctx context.Context, id string, now time.Time) (*models.Share, error)
	Delete(ctx context.Context, id, userID string) (*models.Share, error)
	ListByOwner(ctx context.Context, userID string, now time.Time, limit int) ([]models.ShareSummary, error)
	DeleteExpired(ctx context.Context, now time.Time, limit int) ([]models.ExpiredShare, error)
}

type shareBlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

type blobScheduler interface {
	ScheduleDelete(shareID, path string)
}

// ShareUpload carries an uploaded file stream and its declared metadata.
type ShareUpload struct {
	FileName string
	Size     int64
	MimeType string
	Content  io.ReadSeeker
}

// ShareServiceConfig holds URL and upload settings.
type ShareServiceConfig struct {
	BaseURL      string
	MaxFileSize  int64
	AllowedMIMEs []string
	ListLimit    int
}

// ShareService is the share lifecycle engine: create, disclose, consume, delete and expire.
type ShareService struct {
	repo      shareStore
	blobs     shareBlobStore
	janitor   blobScheduler
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ShareServiceConfig
	mimeSet   map[string]struct{}

	now   func() time.Time
	newID func() (string, error)
}

// NewShareService constructs the service with defaults.
func NewShareService(repo shareStore, blobs shareBlobStore, janitor blobScheduler, audit auditLogger, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ShareServiceConfig) *ShareService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 100
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = defaultUploadMIMEs
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &ShareService{
		repo:      repo,
		blobs:     blobs,
		janitor:   janitor,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		mimeSet:   mimeSet,
		now:       time.Now,
		newID:     secret.NewShareID,
	}
}

// Create stores a text paste owned by the caller.
func (s *ShareService) Create(ctx context.Context, req dto.CreateShareRequest, caller *models.Caller) (*dto.CreateShareResponse, error) {
	if caller == nil {
		return nil, errMissingKey
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "content is required")
	}

	now := s.now().UTC()
	share, err := s.insert(ctx, func(id string) (*models.Share, error) {
		return &models.Share{
			ID:            id,
			Content:       req.Content,
			Title:         trimmedOrNil(req.Title),
			Syntax:        models.NormalizeSyntax(strings.ToLower(strings.TrimSpace(req.Syntax))),
			ContentType:   models.ContentTypeText,
			PasswordHash:  passwordDigest(req.Password),
			BurnAfterRead: req.BurnAfterRead,
			ExpiresAt:     ResolveExpiration(req.Expiration, now),
			CreatedAt:     now,
			UserID:        &caller.UserID,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordShareCreated(string(share.ContentType))
	emitAudit(ctx, s.audit, s.logger, &caller.UserID, models.AuditActionShareCreate, "share", share.ID, map[string]interface{}{
		"protected":       share.IsProtected(),
		"burn_after_read": share.BurnAfterRead,
	})
	return &dto.CreateShareResponse{
		PasteID:       share.ID,
		URL:           s.shareURL(share.ID),
		Protected:     share.IsProtected(),
		BurnAfterRead: share.BurnAfterRead,
	}, nil
}

// Upload stores a file in the blob store and records a share pointing at it.
func (s *ShareService) Upload(ctx context.Context, form dto.UploadShareForm, upload ShareUpload, caller *models.Caller) (*dto.UploadShareResponse, error) {
	if caller == nil {
		return nil, errMissingKey
	}
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	mimeType, err := s.detectMime(upload)
	if err != nil {
		return nil, err
	}
	if _, allowed := s.mimeSet[baseMIME(mimeType)]; !allowed {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mime type not allowed")
	}

	now := s.now().UTC()
	fileName := sanitizeFileName(upload.FileName)
	contentType := classifyMIME(mimeType)
	size := upload.Size
	share, err := s.insert(ctx, func(id string) (*models.Share, error) {
		key := fmt.Sprintf("shares/%s/%s", id, fileName)
		if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
		}
		if err := s.blobs.Put(ctx, key, upload.Content, size, mimeType); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
		}
		return &models.Share{
			ID:            id,
			Title:         trimmedOrNil(form.Title),
			Syntax:        models.DefaultSyntax,
			ContentType:   contentType,
			FilePath:      &key,
			FileName:      &fileName,
			FileSize:      &size,
			FileType:      &mimeType,
			PasswordHash:  passwordDigest(form.Password),
			BurnAfterRead: form.BurnAfterRead,
			ExpiresAt:     ResolveExpiration(form.Expiration, now),
			CreatedAt:     now,
			UserID:        &caller.UserID,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordShareCreated(string(share.ContentType))
	emitAudit(ctx, s.audit, s.logger, &caller.UserID, models.AuditActionShareUpload, "share", share.ID, map[string]interface{}{
		"file_name":       fileName,
		"file_size":       size,
		"file_type":       mimeType,
		"protected":       share.IsProtected(),
		"burn_after_read": share.BurnAfterRead,
	})
	return &dto.UploadShareResponse{
		CreateShareResponse: dto.CreateShareResponse{
			PasteID:       share.ID,
			URL:           s.shareURL(share.ID),
			Protected:     share.IsProtected(),
			BurnAfterRead: share.BurnAfterRead,
		},
		DirectURL:   s.directURL(share),
		FileName:    fileName,
		FileSize:    size,
		ContentType: contentType,
	}, nil
}

// insert persists the share produced by build, retrying with a fresh id on collision.
// A blob written by build is handed to the janitor when its row cannot be stored.
func (s *ShareService) insert(ctx context.Context, build func(id string) (*models.Share, error)) (*models.Share, error) {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate share id")
		}
		share, err := build(id)
		if err != nil {
			return nil, err
		}
		err = s.repo.Create(ctx, share)
		if err == nil {
			return share, nil
		}
		s.discardBlob(share)
		if !errors.Is(err, repository.ErrDuplicateShareID) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create share")
		}
		s.logger.Warn("share id collision", zap.String("share_id", id), zap.Int("attempt", attempt))
	}
	return nil, appErrors.Clone(appErrors.ErrInternal, "failed to allocate share id")
}

// Disclose reads a share. Gated shares without a password yield metadata only;
// otherwise the read is consumed (view increment or burn).
func (s *ShareService) Disclose(ctx context.Context, id string, password *string) (*dto.Disclosure, error) {
	share, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if share.IsProtected() {
		if password == nil {
			s.metrics.RecordDisclosure(OutcomeGated)
			return &dto.Disclosure{Metadata: metadataOf(share)}, nil
		}
		if !secret.Matches(*password, *share.PasswordHash) {
			s.metrics.RecordDisclosure(OutcomeInvalidPassword)
			return nil, appErrors.ErrInvalidPassword
		}
	}
	if share.BurnAfterRead && share.ContentType.IsFile() {
		return s.discloseBurnFile(ctx, share)
	}
	view, err := s.consume(ctx, share)
	if err != nil {
		return nil, err
	}
	return &dto.Disclosure{View: view}, nil
}

// discloseBurnFile hands the file bytes back inside the view. The direct link
// is dropped since the blob is scheduled for deletion by the claim.
func (s *ShareService) discloseBurnFile(ctx context.Context, share *models.Share) (*dto.Disclosure, error) {
	body, err := s.readBlob(ctx, share.BlobPath())
	if err != nil {
		return nil, err
	}
	view, err := s.consume(ctx, share)
	if err != nil {
		return nil, err
	}
	view.FileData = body
	view.DirectURL = ""
	return &dto.Disclosure{View: view}, nil
}

// Raw returns the share payload as bytes. Password-protected shares are refused.
func (s *ShareService) Raw(ctx context.Context, id string) (*dto.RawContent, error) {
	share, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if share.IsProtected() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "password-protected shares cannot be accessed raw")
	}
	if !share.ContentType.IsFile() {
		view, err := s.consume(ctx, share)
		if err != nil {
			return nil, err
		}
		return &dto.RawContent{ContentType: textMIME, Body: []byte(view.Content), Burned: view.Burned}, nil
	}
	return s.fileContent(ctx, share)
}

// Image returns an uploaded file's bytes with its stored content type.
func (s *ShareService) Image(ctx context.Context, id string) (*dto.RawContent, error) {
	share, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if share.IsProtected() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "password-protected shares cannot be embedded")
	}
	if !share.ContentType.IsFile() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "share is not a file")
	}
	return s.fileContent(ctx, share)
}

// Embed discloses a share for read-only embedding. Gated and burn shares are refused.
func (s *ShareService) Embed(ctx context.Context, id string) (*dto.ShareView, error) {
	share, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if share.IsProtected() || share.BurnAfterRead {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "share cannot be embedded")
	}
	return s.consume(ctx, share)
}

// Delete removes a share owned by the caller.
func (s *ShareService) Delete(ctx context.Context, id string, caller *models.Caller) error {
	if caller == nil {
		return errMissingKey
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	share, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load share")
	}
	if !share.OwnedBy(caller.UserID) {
		return appErrors.Clone(appErrors.ErrForbidden, "only the owner can delete this share")
	}
	deleted, err := s.repo.Delete(ctx, id, caller.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete share")
	}
	s.discardBlob(deleted)
	emitAudit(ctx, s.audit, s.logger, &caller.UserID, models.AuditActionShareDelete, "share", id, nil)
	return nil
}

// List returns the caller's live shares, newest first, capped at the configured limit.
func (s *ShareService) List(ctx context.Context, caller *models.Caller) (*dto.ListSharesResponse, error) {
	if caller == nil {
		return nil, errMissingKey
	}
	items, err := s.repo.ListByOwner(ctx, caller.UserID, s.now().UTC(), s.cfg.ListLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shares")
	}
	if items == nil {
		items = []models.ShareSummary{}
	}
	return &dto.ListSharesResponse{Pastes: items, Count: len(items)}, nil
}

// ReapExpired deletes soft-expired rows in batches and queues their blobs for removal.
func (s *ShareService) ReapExpired(ctx context.Context) (int, error) {
	total := 0
	for {
		batch, err := s.repo.DeleteExpired(ctx, s.now().UTC(), reapBatchSize)
		if err != nil {
			s.metrics.AddReaped(total)
			return total, fmt.Errorf("reap expired shares: %w", err)
		}
		for _, expired := range batch {
			if expired.FilePath != nil && s.janitor != nil {
				s.janitor.ScheduleDelete(expired.ID, *expired.FilePath)
			}
		}
		total += len(batch)
		if len(batch) < reapBatchSize {
			break
		}
	}
	s.metrics.AddReaped(total)
	return total, nil
}

// RunReaper calls ReapExpired every interval until ctx is done. A non-positive interval disables it.
func (s *ShareService) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.ReapExpired(ctx)
			if err != nil {
				s.logger.Warn("reaper run failed", zap.Int("reaped", n), zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("reaped expired shares", zap.Int("count", n))
			}
		}
	}
}

// load fetches a live share, mapping absence and expiry onto typed errors.
func (s *ShareService) load(ctx context.Context, id string) (*models.Share, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	share, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordDisclosure(OutcomeNotFound)
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load share")
	}
	if share.IsExpired(s.now()) {
		s.metrics.RecordDisclosure(OutcomeExpired)
		return nil, appErrors.ErrExpired
	}
	return share, nil
}

// consume performs the counted disclosure. For burn shares only the caller whose
// conditional delete removed the row gets a view; everyone else sees NotFound.
func (s *ShareService) consume(ctx context.Context, share *models.Share) (*dto.ShareView, error) {
	now := s.now().UTC()
	if share.BurnAfterRead {
		claimed, err := s.repo.ClaimForBurn(ctx, share.ID, now)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.metrics.RecordDisclosure(OutcomeNotFound)
				return nil, appErrors.ErrNotFound
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to consume share")
		}
		view := s.viewOf(claimed)
		view.Views = claimed.Views + 1
		view.Burned = true
		s.discardBlob(claimed)
		s.metrics.RecordDisclosure(OutcomeBurned)
		emitAudit(ctx, s.audit, s.logger, claimed.UserID, models.AuditActionShareBurn, "share", claimed.ID, nil)
		return view, nil
	}

	views, err := s.repo.IncrementViews(ctx, share.ID, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordDisclosure(OutcomeNotFound)
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record view")
	}
	view := s.viewOf(share)
	view.Views = views
	s.metrics.RecordDisclosure(OutcomeDisclosed)
	return view, nil
}

// fileContent reads the blob before consuming so a claimed burn row always yields bytes.
func (s *ShareService) fileContent(ctx context.Context, share *models.Share) (*dto.RawContent, error) {
	body, err := s.readBlob(ctx, share.BlobPath())
	if err != nil {
		return nil, err
	}
	view, err := s.consume(ctx, share)
	if err != nil {
		return nil, err
	}
	contentType := "application/octet-stream"
	if share.FileType != nil && *share.FileType != "" {
		contentType = *share.FileType
	}
	fileName := ""
	if share.FileName != nil {
		fileName = *share.FileName
	}
	return &dto.RawContent{ContentType: contentType, FileName: fileName, Body: body, Burned: view.Burned}, nil
}

func (s *ShareService) readBlob(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file")
	}
	defer rc.Close()
	body, err := io.ReadAll(io.LimitReader(rc, s.cfg.MaxFileSize+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file")
	}
	return body, nil
}

func (s *ShareService) discardBlob(share *models.Share) {
	if s.janitor == nil || share == nil {
		return
	}
	if path := share.BlobPath(); path != "" {
		s.janitor.ScheduleDelete(share.ID, path)
	}
}

// detectMime sniffs the stored type from the leading bytes. The declared type is
// only used for archives the sniffer reports as octet-stream (tar, 7z).
func (s *ShareService) detectMime(upload ShareUpload) (string, error) {
	header := make([]byte, 512)
	n, err := io.ReadFull(upload.Content, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect file")
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	if n == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "empty file")
	}
	sniffed := http.DetectContentType(header[:n])
	if baseMIME(sniffed) == "application/octet-stream" {
		if declared := baseMIME(upload.MimeType); declared != "" {
			if _, ok := archiveMIMEs[declared]; ok {
				return declared, nil
			}
		}
	}
	return sniffed, nil
}

func (s *ShareService) viewOf(share *models.Share) *dto.ShareView {
	return &dto.ShareView{
		ID:            share.ID,
		Content:       share.Content,
		Syntax:        share.Syntax,
		Title:         share.Title,
		ExpiresAt:     share.ExpiresAt,
		CreatedAt:     share.CreatedAt,
		Views:         share.Views,
		Protected:     share.IsProtected(),
		BurnAfterRead: share.BurnAfterRead,
		ContentType:   share.ContentType,
		FilePath:      share.FilePath,
		FileName:      share.FileName,
		FileSize:      share.FileSize,
		FileType:      share.FileType,
		DirectURL:     s.directURL(share),
	}
}

func metadataOf(share *models.Share) *dto.ShareMetadata {
	return &dto.ShareMetadata{
		ID:            share.ID,
		Title:         share.Title,
		Syntax:        share.Syntax,
		ExpiresAt:     share.ExpiresAt,
		CreatedAt:     share.CreatedAt,
		Protected:     share.IsProtected(),
		BurnAfterRead: share.BurnAfterRead,
	}
}

func (s *ShareService) shareURL(id string) string {
	return s.cfg.BaseURL + "/p/" + id
}

func (s *ShareService) directURL(share *models.Share) string {
	switch {
	case share.ContentType == models.ContentTypeImage:
		return s.cfg.BaseURL + "/i/" + share.ID
	case share.ContentType.IsFile():
		return s.cfg.BaseURL + "/raw/" + share.ID
	default:
		return ""
	}
}

func passwordDigest(password *string) *string {
	if password == nil || *password == "" {
		return nil
	}
	digest := secret.Digest(*password)
	return &digest
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func baseMIME(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

var archiveMIMEs = map[string]struct{}{
	"application/zip":              {},
	"application/x-zip-compressed": {},
	"application/x-tar":            {},
	"application/gzip":             {},
	"application/x-gzip":           {},
	"application/x-7z-compressed":  {},
	"application/vnd.rar":          {},
	"application/x-rar-compressed": {},
}

func classifyMIME(mimeType string) models.ContentType {
	base := baseMIME(mimeType)
	if strings.HasPrefix(base, "image/") {
		return models.ContentTypeImage
	}
	if _, ok := archiveMIMEs[base]; ok {
		return models.ContentTypeArchive
	}
	return models.ContentTypeDocument
}

func sanitizeFileName(raw string) string {
	name := filepath.Base(strings.ReplaceAll(raw, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "file"
	}
	if len(cleaned) > 100 {
		cleaned = cleaned[len(cleaned)-100:]
	}
	return cleaned
}
