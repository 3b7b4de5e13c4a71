package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sharebin-api/pkg/jobs"
	"github.com/noah-isme/sharebin-api/pkg/storage"
)

const blobDeleteJob = "blob.delete"

type blobDeleter interface {
	Delete(ctx context.Context, key string) error
}

type blobDeletePayload struct {
	ShareID string
	Path    string
}

// BlobJanitor deletes orphaned blobs in the background with retries.
type BlobJanitor struct {
	queue   *jobs.Queue
	store   blobDeleter
	metrics *MetricsService
	logger  *zap.Logger
}

// NewBlobJanitor wires a deletion queue over the blob store.
func NewBlobJanitor(store blobDeleter, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *BlobJanitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &BlobJanitor{store: store, metrics: metrics, logger: logger}
	cfg.Logger = logger
	cfg.OnDrop = func(job jobs.Job, err error) {
		j.metrics.RecordBlobDeletion("dropped")
	}
	j.queue = jobs.NewQueue("blob-janitor", j.handle, cfg)
	return j
}

// Start launches the workers.
func (j *BlobJanitor) Start(ctx context.Context) {
	j.queue.Start(ctx)
}

// Stop refuses new deletions and finishes the ones already buffered.
func (j *BlobJanitor) Stop() {
	j.queue.Stop()
}

// ScheduleDelete queues removal of path. It never blocks; when the queue is
// full or stopped the blob is left behind and a warning is logged.
func (j *BlobJanitor) ScheduleDelete(shareID, path string) {
	if path == "" {
		return
	}
	err := j.queue.TryEnqueue(jobs.Job{
		ID:      shareID,
		Type:    blobDeleteJob,
		Payload: blobDeletePayload{ShareID: shareID, Path: path},
	})
	if err != nil {
		j.metrics.RecordBlobDeletion("skipped")
		j.logger.Warn("blob deletion not scheduled", zap.String("share_id", shareID), zap.String("path", path), zap.Error(err))
	}
}

func (j *BlobJanitor) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(blobDeletePayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	if err := j.store.Delete(ctx, payload.Path); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			j.metrics.RecordBlobDeletion("missing")
			return nil
		}
		j.metrics.RecordBlobDeletion("failed")
		return err
	}
	j.metrics.RecordBlobDeletion("deleted")
	j.logger.Debug("blob deleted", zap.String("share_id", payload.ShareID), zap.String("path", payload.Path))
	return nil
}
