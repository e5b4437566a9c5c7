package postgres

import (
	"context"
	"fmt"
	"time"

	"job-board-api/internal/models"
	"job-board-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uploadColumns = `storage_id, file_name, file_type, file_size, uploaded_by, uploaded_at`

// UploadRepo implements storage.UploadRepository.
type UploadRepo struct {
	db Querier
}

// NewUploadRepo creates a new UploadRepo.
func NewUploadRepo(db *pgxpool.Pool) *UploadRepo {
	return &UploadRepo{db: db}
}

var _ storage.UploadRepository = (*UploadRepo)(nil)

func scanUpload(row pgx.Row) (*models.Upload, error) {
	var u models.Upload
	if err := row.Scan(&u.StorageID, &u.FileName, &u.FileType, &u.FileSize, &u.UploadedBy, &u.UploadedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create records a finished upload.
func (r *UploadRepo) Create(ctx context.Context, upload *models.Upload) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO uploads (storage_id, file_name, file_type, file_size, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`,
		upload.StorageID, upload.FileName, upload.FileType, upload.FileSize, upload.UploadedBy)
	return mapPgError(fmt.Sprintf("record upload %s", upload.StorageID), err)
}

// GetByStorageID retrieves the upload record of a blob.
func (r *UploadRepo) GetByStorageID(ctx context.Context, storageID string) (*models.Upload, error) {
	u, err := scanUpload(r.db.QueryRow(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE storage_id = $1`, storageID))
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("get upload %s", storageID), err)
	}
	return u, nil
}

// ListOrphans returns uploads older than the cutoff that neither a file row nor a
// form_data value references.
func (r *UploadRepo) ListOrphans(ctx context.Context, olderThan time.Time, limit int) ([]models.Upload, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+uploadColumns+` FROM uploads u
		WHERE u.uploaded_at < $1
		  AND NOT EXISTS (SELECT 1 FROM application_files f WHERE f.storage_id = u.storage_id)
		  AND NOT EXISTS (
			SELECT 1 FROM applications a
			WHERE jsonb_path_exists(a.form_data, '$.* ? (@.kind == "file" && @.storageId == $sid)',
				jsonb_build_object('sid', u.storage_id))
		  )
		ORDER BY u.uploaded_at
		LIMIT $2`, olderThan, limit)
	if err != nil {
		return nil, mapPgError("list orphaned uploads", err)
	}
	defer rows.Close()

	uploads := []models.Upload{}
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, mapPgError("scan upload", err)
		}
		uploads = append(uploads, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("list orphaned uploads", err)
	}
	return uploads, nil
}

// Delete removes the upload record.
func (r *UploadRepo) Delete(ctx context.Context, storageID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM uploads WHERE storage_id = $1`, storageID)
	return mapPgError(fmt.Sprintf("delete upload %s", storageID), err)
}
