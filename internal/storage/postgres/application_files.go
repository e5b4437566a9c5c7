package postgres

import (
	"context"
	"fmt"

	"job-board-api/internal/models"
	"job-board-api/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationFileColumns = `id, storage_id, file_name, file_type, file_size, application_id, field_name, uploaded_at`

// ApplicationFileRepo implements storage.ApplicationFileRepository.
type ApplicationFileRepo struct {
	db Querier
}

// NewApplicationFileRepo creates a new ApplicationFileRepo.
func NewApplicationFileRepo(db *pgxpool.Pool) *ApplicationFileRepo {
	return &ApplicationFileRepo{db: db}
}

// WithTx creates a new ApplicationFileRepo with the transaction.
func (r *ApplicationFileRepo) WithTx(tx pgx.Tx) storage.ApplicationFileRepository {
	return &ApplicationFileRepo{db: tx}
}

var _ storage.ApplicationFileRepository = (*ApplicationFileRepo)(nil)

func scanApplicationFile(row pgx.Row) (*models.ApplicationFile, error) {
	var f models.ApplicationFile
	err := row.Scan(&f.ID, &f.StorageID, &f.FileName, &f.FileType, &f.FileSize, &f.ApplicationID, &f.FieldName, &f.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Upsert writes the file row for (application, field). A later attachment for the same
// field replaces the earlier one. A missing application yields storage.ErrReferenced.
func (r *ApplicationFileRepo) Upsert(ctx context.Context, file *models.ApplicationFile) (*models.ApplicationFile, error) {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	query := `
		INSERT INTO application_files (id, storage_id, file_name, file_type, file_size, application_id, field_name, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (application_id, field_name) DO UPDATE
		SET storage_id = EXCLUDED.storage_id,
			file_name = EXCLUDED.file_name,
			file_type = EXCLUDED.file_type,
			file_size = EXCLUDED.file_size,
			uploaded_at = EXCLUDED.uploaded_at
		RETURNING ` + applicationFileColumns

	saved, err := scanApplicationFile(r.db.QueryRow(ctx, query,
		file.ID, file.StorageID, file.FileName, file.FileType, file.FileSize, file.ApplicationID, file.FieldName))
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("save file %s for application %s", file.FieldName, file.ApplicationID), err)
	}
	return saved, nil
}

// ListByApplication retrieves the application's files ordered by field name.
func (r *ApplicationFileRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.ApplicationFile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationFileColumns+` FROM application_files WHERE application_id = $1 ORDER BY field_name`, applicationID)
	if err != nil {
		return nil, mapPgError("list application files", err)
	}
	defer rows.Close()

	files := []models.ApplicationFile{}
	for rows.Next() {
		f, err := scanApplicationFile(rows)
		if err != nil {
			return nil, mapPgError("scan application file", err)
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("list application files", err)
	}
	return files, nil
}

// RepairFromFormData creates the file rows that a submission stored in form_data but never
// got written, up to limit rows per call.
func (r *ApplicationFileRepo) RepairFromFormData(ctx context.Context, limit int) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO application_files (id, storage_id, file_name, file_type, file_size, application_id, field_name, uploaded_at)
		SELECT gen_random_uuid(), missing.storage_id, missing.file_name, missing.file_type, missing.file_size,
			missing.application_id, missing.field_name, missing.uploaded_at
		FROM (
			SELECT e.value->>'storageId' AS storage_id,
				COALESCE(e.value->>'fileName', '') AS file_name,
				COALESCE(e.value->>'fileType', '') AS file_type,
				COALESCE((e.value->>'fileSize')::bigint, 0) AS file_size,
				a.id AS application_id,
				e.key AS field_name,
				a.created_at AS uploaded_at
			FROM applications a
			CROSS JOIN LATERAL jsonb_each(a.form_data) AS e
			WHERE e.value->>'kind' = 'file'
			  AND COALESCE(e.value->>'storageId', '') <> ''
			  AND NOT EXISTS (
				SELECT 1 FROM application_files f WHERE f.application_id = a.id AND f.field_name = e.key
			  )
			ORDER BY a.created_at
			LIMIT $1
		) AS missing
		ON CONFLICT (application_id, field_name) DO NOTHING`, limit)
	if err != nil {
		return 0, mapPgError("repair application files", err)
	}
	return tag.RowsAffected(), nil
}
