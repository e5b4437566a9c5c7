package cleanup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"job-board-api/config"
	"job-board-api/internal/storage"
)

const (
	baseBackoff = time.Minute
	maxBackoff  = 6 * time.Hour
)

// Reconciler repairs what request handlers leave behind: file rows that were never
// written, blob deletions that failed, and uploads nobody attached.
type Reconciler struct {
	files   storage.ApplicationFileRepository
	uploads storage.UploadRepository
	queue   storage.BlobCleanupRepository
	blobs   storage.BlobStore
	cfg     config.CleanupConfig
	logger  *slog.Logger
	now     func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Report counts what one pass did.
type Report struct {
	RepairedFiles  int64
	DeletedBlobs   int
	RetriedBlobs   int
	AbandonedBlobs int
	OrphanUploads  int
}

// NewReconciler creates a reconciler. Zero config values fall back to usable defaults.
func NewReconciler(
	files storage.ApplicationFileRepository,
	uploads storage.UploadRepository,
	queue storage.BlobCleanupRepository,
	blobs storage.BlobStore,
	cfg config.CleanupConfig,
) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 8
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.OrphanUploadAge <= 0 {
		cfg.OrphanUploadAge = 24 * time.Hour
	}
	return &Reconciler{
		files:    files,
		uploads:  uploads,
		queue:    queue,
		blobs:    blobs,
		cfg:      cfg,
		logger:   slog.Default().With("component", "cleanup"),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start runs a pass immediately and then once per interval in a separate goroutine.
func (r *Reconciler) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.loop(ctx)
	r.logger.Info("reconciler started", "interval", r.cfg.Interval)
}

// Stop signals the loop to shut down and waits for the running pass to finish.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
	r.wg.Wait()
	r.logger.Info("reconciler stopped")
}

func (r *Reconciler) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		report, err := r.RunOnce(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "reconcile pass failed", "error", err)
		} else if report != (Report{}) {
			r.logger.InfoContext(ctx, "reconcile pass finished",
				"repaired_files", report.RepairedFiles,
				"deleted_blobs", report.DeletedBlobs,
				"retried_blobs", report.RetriedBlobs,
				"abandoned_blobs", report.AbandonedBlobs,
				"orphan_uploads", report.OrphanUploads)
		}

		select {
		case <-r.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs one full pass. Steps are independent; the first error is returned
// after every step has had its turn.
func (r *Reconciler) RunOnce(ctx context.Context) (Report, error) {
	var report Report
	var errs []error

	repaired, err := r.files.RepairFromFormData(ctx, r.cfg.BatchSize)
	if err != nil {
		errs = append(errs, err)
	}
	report.RepairedFiles = repaired

	if err := r.drainQueue(ctx, &report); err != nil {
		errs = append(errs, err)
	}
	if err := r.removeOrphans(ctx, &report); err != nil {
		errs = append(errs, err)
	}
	return report, errors.Join(errs...)
}

func (r *Reconciler) drainQueue(ctx context.Context, report *Report) error {
	now := r.now()
	due, err := r.queue.Due(ctx, now, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range due {
		err := r.blobs.Delete(ctx, item.StorageID)
		if err == nil || errors.Is(err, storage.ErrNotFound) {
			if err := r.queue.Complete(ctx, item.StorageID); err != nil {
				return err
			}
			report.DeletedBlobs++
			continue
		}

		attempts := item.Attempts + 1
		if attempts >= r.cfg.MaxAttempts {
			r.logger.ErrorContext(ctx, "giving up on blob deletion",
				"storage_id", item.StorageID, "attempts", attempts, "error", err)
			if err := r.queue.Complete(ctx, item.StorageID); err != nil {
				return err
			}
			report.AbandonedBlobs++
			continue
		}

		next := now.Add(Backoff(attempts))
		r.logger.WarnContext(ctx, "blob deletion failed, retrying later",
			"storage_id", item.StorageID, "attempts", attempts, "next_attempt_at", next, "error", err)
		if err := r.queue.Retry(ctx, item.StorageID, err.Error(), next); err != nil {
			return err
		}
		report.RetriedBlobs++
	}
	return nil
}

func (r *Reconciler) removeOrphans(ctx context.Context, report *Report) error {
	orphans, err := r.uploads.ListOrphans(ctx, r.now().Add(-r.cfg.OrphanUploadAge), r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, u := range orphans {
		if err := r.blobs.Delete(ctx, u.StorageID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			// the upload row stays, so the next pass tries again
			r.logger.WarnContext(ctx, "failed to delete orphaned upload", "storage_id", u.StorageID, "error", err)
			continue
		}
		if err := r.uploads.Delete(ctx, u.StorageID); err != nil {
			return err
		}
		report.OrphanUploads++
	}
	return nil
}

// Backoff is the delay before retry number attempts: one minute doubled per attempt, capped at six hours.
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := baseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
