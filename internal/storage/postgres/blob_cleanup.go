package postgres

import (
	"context"
	"fmt"
	"time"

	"job-board-api/internal/models"
	"job-board-api/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BlobCleanupRepo implements storage.BlobCleanupRepository.
type BlobCleanupRepo struct {
	db Querier
}

// NewBlobCleanupRepo creates a new BlobCleanupRepo.
func NewBlobCleanupRepo(db *pgxpool.Pool) *BlobCleanupRepo {
	return &BlobCleanupRepo{db: db}
}

var _ storage.BlobCleanupRepository = (*BlobCleanupRepo)(nil)

// Enqueue schedules deletions for immediate retry. Ids already queued keep their attempt count.
func (r *BlobCleanupRepo) Enqueue(ctx context.Context, storageIDs []string, reason string) error {
	if len(storageIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO blob_cleanup (storage_id, attempts, last_error, enqueued_at, next_attempt_at)
		SELECT sid, 0, $2, NOW(), NOW() FROM unnest($1::text[]) AS sid
		ON CONFLICT (storage_id) DO UPDATE SET last_error = EXCLUDED.last_error`,
		storageIDs, reason)
	return mapPgError("enqueue blob cleanup", err)
}

// Due returns queued deletions whose next attempt is at or before now.
func (r *BlobCleanupRepo) Due(ctx context.Context, now time.Time, limit int) ([]models.BlobCleanup, error) {
	rows, err := r.db.Query(ctx, `
		SELECT storage_id, attempts, last_error, enqueued_at, next_attempt_at
		FROM blob_cleanup
		WHERE next_attempt_at <= $1
		ORDER BY next_attempt_at
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, mapPgError("list due blob cleanups", err)
	}
	defer rows.Close()

	due := []models.BlobCleanup{}
	for rows.Next() {
		var c models.BlobCleanup
		if err := rows.Scan(&c.StorageID, &c.Attempts, &c.LastError, &c.EnqueuedAt, &c.NextAttemptAt); err != nil {
			return nil, mapPgError("scan blob cleanup", err)
		}
		due = append(due, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("list due blob cleanups", err)
	}
	return due, nil
}

// Complete drops the entry once the blob is gone or the reconciler gives up on it.
func (r *BlobCleanupRepo) Complete(ctx context.Context, storageID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM blob_cleanup WHERE storage_id = $1`, storageID)
	return mapPgError(fmt.Sprintf("complete blob cleanup %s", storageID), err)
}

// Retry records a failed attempt and when to try again.
func (r *BlobCleanupRepo) Retry(ctx context.Context, storageID, reason string, next time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE blob_cleanup SET attempts = attempts + 1, last_error = $2, next_attempt_at = $3
		WHERE storage_id = $1`, storageID, reason, next)
	return mapPgError(fmt.Sprintf("retry blob cleanup %s", storageID), err)
}
