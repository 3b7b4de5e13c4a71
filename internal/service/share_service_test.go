package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sharebin-api/internal/dto"
	"github.com/noah-isme/sharebin-api/internal/models"
	"github.com/noah-isme/sharebin-api/internal/repository"
	appErrors "github.com/noah-isme/sharebin-api/pkg/errors"
	"github.com/noah-isme/sharebin-api/pkg/storage"
)

type shareRepoStub struct {
	mu        sync.Mutex
	rows      map[string]models.Share
	createErr error
	dupes     int
}

func newShareRepoStub() *shareRepoStub {
	return &shareRepoStub{rows: make(map[string]models.Share)}
}

func (r *shareRepoStub) Create(ctx context.Context, share *models.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.rows[share.ID]; exists || r.dupes > 0 {
		if r.dupes > 0 {
			r.dupes--
		}
		return repository.ErrDuplicateShareID
	}
	share.Views = 0
	r.rows[share.ID] = *share
	return nil
}

func (r *shareRepoStub) GetByID(ctx context.Context, id string) (*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (r *shareRepoStub) IncrementViews(ctx context.Context, id string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.IsExpired(now) {
		return 0, sql.ErrNoRows
	}
	row.Views++
	r.rows[id] = row
	return row.Views, nil
}

func (r *shareRepoStub) ClaimForBurn(ctx context.Context, id string, now time.Time) (*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || !row.BurnAfterRead || row.IsExpired(now) {
		return nil, sql.ErrNoRows
	}
	delete(r.rows, id)
	return &row, nil
}

func (r *shareRepoStub) Delete(ctx context.Context, id, userID string) (*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || !row.OwnedBy(userID) {
		return nil, sql.ErrNoRows
	}
	delete(r.rows, id)
	return &row, nil
}

func (r *shareRepoStub) ListByOwner(ctx context.Context, userID string, now time.Time, limit int) ([]models.ShareSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ShareSummary
	for _, row := range r.rows {
		if !row.OwnedBy(userID) || row.IsExpired(now) {
			continue
		}
		out = append(out, models.ShareSummary{
			ID:            row.ID,
			Title:         row.Title,
			Syntax:        row.Syntax,
			ContentType:   row.ContentType,
			Protected:     row.IsProtected(),
			BurnAfterRead: row.BurnAfterRead,
			Views:         row.Views,
			ExpiresAt:     row.ExpiresAt,
			CreatedAt:     row.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *shareRepoStub) DeleteExpired(ctx context.Context, now time.Time, limit int) ([]models.ExpiredShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ExpiredShare
	for id, row := range r.rows {
		if len(out) == limit {
			break
		}
		if row.IsExpired(now) {
			out = append(out, models.ExpiredShare{ID: id, FilePath: row.FilePath})
			delete(r.rows, id)
		}
	}
	return out, nil
}

func (r *shareRepoStub) put(share models.Share) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[share.ID] = share
}

func (r *shareRepoStub) views(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id].Views
}

type blobStoreStub struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newBlobStoreStub() *blobStoreStub {
	return &blobStoreStub{blobs: make(map[string][]byte)}
}

func (b *blobStoreStub) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = data
	return nil
}

func (b *blobStoreStub) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type janitorStub struct {
	mu    sync.Mutex
	paths []string
}

func (j *janitorStub) ScheduleDelete(shareID, path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.paths = append(j.paths, path)
}

func (j *janitorStub) scheduled() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.paths...)
}

type auditStub struct {
	mu      sync.Mutex
	entries []models.AuditLog
	err     error
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, *log)
	return a.err
}

func (a *auditStub) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type shareFixture struct {
	svc     *ShareService
	repo    *shareRepoStub
	blobs   *blobStoreStub
	janitor *janitorStub
	audit   *auditStub
	now     time.Time
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()
	f := &shareFixture{
		repo:    newShareRepoStub(),
		blobs:   newBlobStoreStub(),
		janitor: &janitorStub{},
		audit:   &auditStub{},
		now:     time.Date(2026, 3, 1, 10, 15, 30, 0, time.UTC),
	}
	f.svc = NewShareService(f.repo, f.blobs, f.janitor, f.audit, nil, nil, nil, ShareServiceConfig{
		BaseURL:     "https://share.example.com/",
		MaxFileSize: 1024,
		ListLimit:   2,
	})
	f.svc.now = func() time.Time { return f.now }
	var seq int64
	f.svc.newID = func() (string, error) {
		n := atomic.AddInt64(&seq, 1)
		return "id" + strings.Repeat("0", 5) + string(rune('a'+n-1)), nil
	}
	return f
}

var owner = &models.Caller{UserID: "user-a", KeyID: "key-a", KeyHash: "hash-a"}

func strPtr(s string) *string { return &s }

func requireCode(t *testing.T, err error, expected *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected app error, got %T", err)
	assert.Equal(t, expected.Code, appErr.Code)
	assert.Equal(t, expected.Status, appErr.Status)
}

func TestShareServiceRoundTrip(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "hello", Syntax: "plaintext"}, owner)
	require.NoError(t, err)
	assert.Equal(t, "https://share.example.com/p/"+created.PasteID, created.URL)
	assert.False(t, created.Protected)
	assert.False(t, created.BurnAfterRead)

	disclosure, err := f.svc.Disclose(ctx, created.PasteID, nil)
	require.NoError(t, err)
	require.False(t, disclosure.Gated())
	assert.Equal(t, "hello", disclosure.View.Content)
	assert.Equal(t, "plaintext", disclosure.View.Syntax)
	assert.Equal(t, int64(1), disclosure.View.Views)
	assert.False(t, disclosure.View.Burned)
	assert.Equal(t, []string{models.AuditActionShareCreate}, f.audit.actions())
}

func TestShareServiceCreateValidation(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "hi"}, nil)
	requireCode(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.Create(ctx, dto.CreateShareRequest{Content: "   \n\t"}, owner)
	requireCode(t, err, appErrors.ErrValidation)

	_, err = f.svc.Create(ctx, dto.CreateShareRequest{Content: "x", Title: strPtr(strings.Repeat("t", 201))}, owner)
	requireCode(t, err, appErrors.ErrValidation)
}

func TestShareServiceCreateNormalizesInput(t *testing.T) {
	f := newShareFixture(t)
	created, err := f.svc.Create(context.Background(), dto.CreateShareRequest{
		Content:    "body",
		Title:      strPtr("  "),
		Syntax:     "Klingon",
		Expiration: "1h",
		Password:   strPtr(""),
	}, owner)
	require.NoError(t, err)
	assert.False(t, created.Protected)

	row, err := f.repo.GetByID(context.Background(), created.PasteID)
	require.NoError(t, err)
	assert.Nil(t, row.Title)
	assert.Equal(t, models.DefaultSyntax, row.Syntax)
	assert.Nil(t, row.PasswordHash)
	require.NotNil(t, row.ExpiresAt)
	assert.Equal(t, f.now.Add(time.Hour), *row.ExpiresAt)
	assert.Equal(t, "user-a", *row.UserID)
}

func TestShareServiceCreateRetriesOnCollision(t *testing.T) {
	f := newShareFixture(t)
	f.repo.dupes = 2

	created, err := f.svc.Create(context.Background(), dto.CreateShareRequest{Content: "x"}, owner)
	require.NoError(t, err)
	assert.Equal(t, "id00000c", created.PasteID)

	f.repo.dupes = 3
	_, err = f.svc.Create(context.Background(), dto.CreateShareRequest{Content: "x"}, owner)
	requireCode(t, err, appErrors.ErrInternal)
}

func TestShareServicePasswordGate(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "top secret", Title: strPtr("notes"), Password: strPtr("hunter2")}, owner)
	require.NoError(t, err)
	require.True(t, created.Protected)

	for i := 0; i < 3; i++ {
		disclosure, err := f.svc.Disclose(ctx, created.PasteID, nil)
		require.NoError(t, err)
		require.True(t, disclosure.Gated())
		assert.True(t, disclosure.Metadata.Protected)
		assert.Equal(t, "notes", *disclosure.Metadata.Title)

		payload, err := json.Marshal(disclosure.Payload())
		require.NoError(t, err)
		for _, field := range []string{`"content"`, `"file_path"`, `"file_name"`, `"file_size"`, `"file_type"`, `"file_data"`, "top secret"} {
			assert.NotContains(t, string(payload), field)
		}
	}
	assert.Equal(t, int64(0), f.repo.views(created.PasteID))

	_, err = f.svc.Disclose(ctx, created.PasteID, strPtr("wrong"))
	requireCode(t, err, appErrors.ErrInvalidPassword)
	assert.Equal(t, int64(0), f.repo.views(created.PasteID))

	disclosure, err := f.svc.Disclose(ctx, created.PasteID, strPtr("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, "top secret", disclosure.View.Content)
	assert.Equal(t, int64(1), disclosure.View.Views)
	assert.True(t, disclosure.View.Protected)
}

func TestShareServiceBurnExactlyOnce(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "once", BurnAfterRead: true}, owner)
	require.NoError(t, err)

	const readers = 32
	var (
		wg        sync.WaitGroup
		winners   int64
		notFounds int64
	)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			disclosure, err := f.svc.Disclose(ctx, created.PasteID, nil)
			if err == nil {
				atomic.AddInt64(&winners, 1)
				assert.True(t, disclosure.View.Burned)
				assert.Equal(t, "once", disclosure.View.Content)
				assert.Equal(t, int64(1), disclosure.View.Views)
				return
			}
			if errors.Is(err, appErrors.ErrNotFound) {
				atomic.AddInt64(&notFounds, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), winners)
	assert.Equal(t, int64(readers-1), notFounds)

	_, err = f.svc.Disclose(ctx, created.PasteID, nil)
	requireCode(t, err, appErrors.ErrNotFound)
	assert.Contains(t, f.audit.actions(), models.AuditActionShareBurn)
}

func TestShareServiceProtectedBurnRequiresPasswordBeforeClaim(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "x", BurnAfterRead: true, Password: strPtr("pw")}, owner)
	require.NoError(t, err)

	disclosure, err := f.svc.Disclose(ctx, created.PasteID, nil)
	require.NoError(t, err)
	assert.True(t, disclosure.Gated())

	_, err = f.svc.Disclose(ctx, created.PasteID, strPtr("nope"))
	requireCode(t, err, appErrors.ErrInvalidPassword)

	disclosure, err = f.svc.Disclose(ctx, created.PasteID, strPtr("pw"))
	require.NoError(t, err)
	assert.True(t, disclosure.View.Burned)

	_, err = f.svc.Disclose(ctx, created.PasteID, strPtr("pw"))
	requireCode(t, err, appErrors.ErrNotFound)
}

func TestShareServiceViewMonotonicity(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "count me"}, owner)
	require.NoError(t, err)

	const readers = 25
	var wg sync.WaitGroup
	seen := make(chan int64, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			disclosure, err := f.svc.Disclose(ctx, created.PasteID, nil)
			if assert.NoError(t, err) {
				seen <- disclosure.View.Views
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]struct{})
	for v := range seen {
		unique[v] = struct{}{}
	}
	assert.Len(t, unique, readers)
	assert.Equal(t, int64(readers), f.repo.views(created.PasteID))
}

func TestShareServiceExpiryIsAbsolute(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "ephemeral", Expiration: "1h"}, owner)
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	_, err = f.svc.Disclose(ctx, created.PasteID, nil)
	requireCode(t, err, appErrors.ErrExpired)

	f.now = f.now.Add(time.Nanosecond)
	_, err = f.svc.Disclose(ctx, created.PasteID, nil)
	requireCode(t, err, appErrors.ErrExpired)

	_, err = f.svc.Raw(ctx, created.PasteID)
	requireCode(t, err, appErrors.ErrExpired)

	_, err = f.svc.Disclose(ctx, "missing", nil)
	requireCode(t, err, appErrors.ErrNotFound)
}

func TestShareServiceDeleteOwnership(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "mine"}, owner)
	require.NoError(t, err)
	_, err = f.svc.Disclose(ctx, created.PasteID, nil)
	require.NoError(t, err)

	intruder := &models.Caller{UserID: "user-b"}
	err = f.svc.Delete(ctx, created.PasteID, intruder)
	requireCode(t, err, appErrors.ErrForbidden)
	assert.Equal(t, int64(1), f.repo.views(created.PasteID))

	err = f.svc.Delete(ctx, "missing", owner)
	requireCode(t, err, appErrors.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, created.PasteID, owner))
	_, err = f.svc.Disclose(ctx, created.PasteID, nil)
	requireCode(t, err, appErrors.ErrNotFound)
	assert.Contains(t, f.audit.actions(), models.AuditActionShareDelete)
}

func TestShareServiceUploadAndImage(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	uploaded, err := f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{
		FileName: "../../cat picture.png",
		Size:     int64(len(png)),
		Content:  bytes.NewReader(png),
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeImage, uploaded.ContentType)
	assert.Equal(t, "cat_picture.png", uploaded.FileName)
	assert.Equal(t, "https://share.example.com/i/"+uploaded.PasteID, uploaded.DirectURL)

	key := "shares/" + uploaded.PasteID + "/cat_picture.png"
	require.Contains(t, f.blobs.blobs, key)

	img, err := f.svc.Image(ctx, uploaded.PasteID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, png, img.Body)
	assert.Equal(t, int64(1), f.repo.views(uploaded.PasteID))

	disclosure, err := f.svc.Disclose(ctx, uploaded.PasteID, nil)
	require.NoError(t, err)
	assert.Equal(t, key, *disclosure.View.FilePath)
	assert.Equal(t, int64(2), disclosure.View.Views)
}

func TestShareServiceUploadLimits(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	big := bytes.Repeat([]byte("a"), 2048)
	_, err := f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{FileName: "big.txt", Size: int64(len(big)), Content: bytes.NewReader(big)}, owner)
	requireCode(t, err, appErrors.ErrPayloadTooLarge)

	_, err = f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{FileName: "none.txt"}, owner)
	requireCode(t, err, appErrors.ErrValidation)

	f.svc.mimeSet = map[string]struct{}{"image/png": {}}
	text := []byte("plain words")
	_, err = f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{FileName: "a.txt", Size: int64(len(text)), Content: bytes.NewReader(text)}, owner)
	requireCode(t, err, appErrors.ErrValidation)
}

func TestShareServiceUploadDefaultAllowList(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	assert.Contains(t, f.svc.mimeSet, "image/png")
	assert.Contains(t, f.svc.mimeSet, "application/pdf")
	assert.Contains(t, f.svc.mimeSet, "text/plain")
	assert.Contains(t, f.svc.mimeSet, "application/x-tar")
	assert.NotContains(t, f.svc.mimeSet, "text/html")
	assert.NotContains(t, f.svc.mimeSet, "image/svg+xml")

	page := []byte("<html><script>alert(document.cookie)</script></html>")
	_, err := f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{FileName: "x.html", Size: int64(len(page)), MimeType: "text/html", Content: bytes.NewReader(page)}, owner)
	requireCode(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.blobs.blobs)
}

func TestShareServiceUploadIgnoresDeclaredType(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()
	page := []byte("<html><script>alert(document.cookie)</script></html>")

	_, err := f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{FileName: "cat.png", Size: int64(len(page)), MimeType: "image/png", Content: bytes.NewReader(page)}, owner)
	requireCode(t, err, appErrors.ErrValidation)

	f.svc.mimeSet = map[string]struct{}{"image/png": {}}
	_, err = f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{FileName: "cat.png", Size: int64(len(page)), MimeType: "image/png", Content: bytes.NewReader(page)}, owner)
	requireCode(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.blobs.blobs)

	f.svc.mimeSet = map[string]struct{}{"text/plain": {}, "application/x-tar": {}}
	notes := []byte("just some notes")
	uploaded, err := f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{FileName: "notes.txt", Size: int64(len(notes)), MimeType: "text/html", Content: bytes.NewReader(notes)}, owner)
	require.NoError(t, err)
	raw, err := f.svc.Raw(ctx, uploaded.PasteID)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", raw.ContentType)

	tarball := append([]byte("notes.txt"), bytes.Repeat([]byte{0}, 300)...)
	archived, err := f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{FileName: "notes.tar", Size: int64(len(tarball)), MimeType: "application/x-tar", Content: bytes.NewReader(tarball)}, owner)
	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeArchive, archived.ContentType)
}

func TestShareServiceUploadInsertFailureSchedulesBlobCleanup(t *testing.T) {
	f := newShareFixture(t)
	f.repo.createErr = errors.New("db down")
	data := []byte("%PDF-1.4 body")

	_, err := f.svc.Upload(context.Background(), dto.UploadShareForm{}, ShareUpload{FileName: "doc.pdf", Size: int64(len(data)), Content: bytes.NewReader(data)}, owner)
	requireCode(t, err, appErrors.ErrInternal)
	assert.Equal(t, []string{"shares/id00000a/doc.pdf"}, f.janitor.scheduled())
}

func TestShareServiceBurnFileSchedulesBlobDeletion(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()
	data := []byte("PK\x03\x04 zipped")

	uploaded, err := f.svc.Upload(ctx, dto.UploadShareForm{BurnAfterRead: true}, ShareUpload{
		FileName: "bundle.zip",
		Size:     int64(len(data)),
		MimeType: "application/zip",
		Content:  bytes.NewReader(data),
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeArchive, uploaded.ContentType)
	assert.Equal(t, "https://share.example.com/raw/"+uploaded.PasteID, uploaded.DirectURL)

	raw, err := f.svc.Raw(ctx, uploaded.PasteID)
	require.NoError(t, err)
	assert.True(t, raw.Burned)
	assert.Equal(t, data, raw.Body)
	assert.Equal(t, []string{"shares/" + uploaded.PasteID + "/bundle.zip"}, f.janitor.scheduled())

	_, err = f.svc.Raw(ctx, uploaded.PasteID)
	requireCode(t, err, appErrors.ErrNotFound)
}

func TestShareServiceBurnFileDisclosureCarriesBytes(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()
	data := []byte("%PDF-1.4 one time only")

	uploaded, err := f.svc.Upload(ctx, dto.UploadShareForm{BurnAfterRead: true, Password: strPtr("pw")}, ShareUpload{
		FileName: "secret.pdf",
		Size:     int64(len(data)),
		Content:  bytes.NewReader(data),
	}, owner)
	require.NoError(t, err)

	gated, err := f.svc.Disclose(ctx, uploaded.PasteID, nil)
	require.NoError(t, err)
	require.NotNil(t, gated.Metadata)
	assert.Empty(t, f.janitor.scheduled())

	disclosure, err := f.svc.Disclose(ctx, uploaded.PasteID, strPtr("pw"))
	require.NoError(t, err)
	require.NotNil(t, disclosure.View)
	assert.True(t, disclosure.View.Burned)
	assert.Equal(t, data, disclosure.View.FileData)
	assert.Empty(t, disclosure.View.DirectURL)
	assert.Equal(t, []string{"shares/" + uploaded.PasteID + "/secret.pdf"}, f.janitor.scheduled())

	_, err = f.svc.Disclose(ctx, uploaded.PasteID, strPtr("pw"))
	requireCode(t, err, appErrors.ErrNotFound)

	plain, err := f.svc.Upload(ctx, dto.UploadShareForm{}, ShareUpload{FileName: "keep.pdf", Size: int64(len(data)), Content: bytes.NewReader(data)}, owner)
	require.NoError(t, err)
	kept, err := f.svc.Disclose(ctx, plain.PasteID, nil)
	require.NoError(t, err)
	assert.Nil(t, kept.View.FileData)
	assert.Equal(t, "https://share.example.com/raw/"+plain.PasteID, kept.View.DirectURL)
}

func TestShareServiceRawAndEmbedRefusals(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	gated, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "x", Password: strPtr("pw")}, owner)
	require.NoError(t, err)
	burn, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "y", BurnAfterRead: true}, owner)
	require.NoError(t, err)
	plain, err := f.svc.Create(ctx, dto.CreateShareRequest{Content: "z"}, owner)
	require.NoError(t, err)

	_, err = f.svc.Raw(ctx, gated.PasteID)
	requireCode(t, err, appErrors.ErrForbidden)
	_, err = f.svc.Image(ctx, gated.PasteID)
	requireCode(t, err, appErrors.ErrForbidden)
	_, err = f.svc.Image(ctx, plain.PasteID)
	requireCode(t, err, appErrors.ErrValidation)
	_, err = f.svc.Embed(ctx, gated.PasteID)
	requireCode(t, err, appErrors.ErrForbidden)
	_, err = f.svc.Embed(ctx, burn.PasteID)
	requireCode(t, err, appErrors.ErrForbidden)

	raw, err := f.svc.Raw(ctx, plain.PasteID)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", raw.ContentType)
	assert.Equal(t, []byte("z"), raw.Body)

	view, err := f.svc.Embed(ctx, plain.PasteID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.Views)
	assert.Equal(t, int64(0), f.repo.views(gated.PasteID))
}

func TestShareServiceListAndReap(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	f.repo.put(models.Share{ID: "old", Syntax: "go", UserID: strPtr("user-a"), CreatedAt: f.now.Add(-3 * time.Hour)})
	f.repo.put(models.Share{ID: "mid", Syntax: "go", UserID: strPtr("user-a"), CreatedAt: f.now.Add(-2 * time.Hour)})
	f.repo.put(models.Share{ID: "new", Syntax: "go", UserID: strPtr("user-a"), CreatedAt: f.now.Add(-time.Hour)})
	expired := f.now.Add(-time.Minute)
	f.repo.put(models.Share{
		ID: "gone", ContentType: models.ContentTypeImage, FilePath: strPtr("shares/gone/a.png"),
		UserID: strPtr("user-a"), ExpiresAt: &expired, CreatedAt: f.now,
	})
	f.repo.put(models.Share{ID: "other", UserID: strPtr("user-b"), CreatedAt: f.now})

	list, err := f.svc.List(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "new", list.Pastes[0].ID)
	assert.Equal(t, "mid", list.Pastes[1].ID)

	_, err = f.svc.List(ctx, nil)
	requireCode(t, err, appErrors.ErrUnauthorized)

	reaped, err := f.svc.ReapExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reaped)
	assert.Equal(t, []string{"shares/gone/a.png"}, f.janitor.scheduled())

	reaped, err = f.svc.ReapExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, reaped)
}

func TestShareServiceAuditFailureDoesNotFailCreate(t *testing.T) {
	f := newShareFixture(t)
	f.audit.err = errors.New("audit down")

	_, err := f.svc.Create(context.Background(), dto.CreateShareRequest{Content: "still fine"}, owner)
	require.NoError(t, err)
}

func TestSanitizeFileNameAndClassify(t *testing.T) {
	assert.Equal(t, "report_2026.pdf", sanitizeFileName(`C:\Users\me\report 2026.pdf`))
	assert.Equal(t, "file", sanitizeFileName("..."))
	assert.Equal(t, models.ContentTypeImage, classifyMIME("image/webp"))
	assert.Equal(t, models.ContentTypeArchive, classifyMIME("application/x-gzip"))
	assert.Equal(t, models.ContentTypeDocument, classifyMIME("text/plain; charset=utf-8"))
}
