package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"job-board-api/internal/models"
	"job-board-api/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `id, job_id, user_id, form_id, full_name, email, phone, address,
	resume_url, cover_letter, skills, salary, availability, status, form_data, created_at, updated_at`

// ApplicationRepo implements storage.ApplicationRepository.
// form_data is a jsonb object of tagged values keyed by field name.
type ApplicationRepo struct {
	db Querier
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

// WithTx creates a new ApplicationRepo with the transaction.
func (r *ApplicationRepo) WithTx(tx pgx.Tx) storage.ApplicationRepository {
	return &ApplicationRepo{db: tx}
}

var _ storage.ApplicationRepository = (*ApplicationRepo)(nil)

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID,
		&a.JobID,
		&a.UserID,
		&a.FormID,
		&a.FullName,
		&a.Email,
		&a.Phone,
		&a.Address,
		&a.ResumeURL,
		&a.CoverLetter,
		&a.Skills,
		&a.Salary,
		&a.Availability,
		&a.Status,
		&a.FormData,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.FormData == nil {
		a.FormData = map[string]models.FormValue{}
	}
	return &a, nil
}

func (r *ApplicationRepo) list(ctx context.Context, op, where string, arg any) ([]models.Application, error) {
	rows, err := r.db.Query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, mapPgError(op, err)
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, mapPgError(op, err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(op, err)
	}
	return apps, nil
}

// Create writes the complete application, form_data included, in a single INSERT.
func (r *ApplicationRepo) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	if app.FormData == nil {
		app.FormData = map[string]models.FormValue{}
	}

	query := `
		INSERT INTO applications (id, job_id, user_id, form_id, full_name, email, phone, address,
			resume_url, cover_letter, skills, salary, availability, status, form_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING ` + applicationColumns

	created, err := scanApplication(r.db.QueryRow(ctx, query,
		app.ID,
		app.JobID,
		app.UserID,
		app.FormID,
		app.FullName,
		app.Email,
		app.Phone,
		app.Address,
		app.ResumeURL,
		app.CoverLetter,
		app.Skills,
		app.Salary,
		app.Availability,
		app.Status,
		app.FormData,
	))
	if err != nil {
		return nil, mapPgError("create application", err)
	}

	slog.InfoContext(ctx, "application created", "application_id", created.ID, "job_id", created.JobID)
	return created, nil
}

// GetByID retrieves one application.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("get application %s", id), err)
	}
	return app, nil
}

// ListByUser retrieves an applicant's applications, newest first.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Application, error) {
	return r.list(ctx, "list applications by user", "user_id = $1", userID)
}

// ListByJob retrieves the applications received for a job, newest first.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	return r.list(ctx, "list applications by job", "job_id = $1", jobID)
}

// UpdateStatus moves the application to status.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx,
		`UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+applicationColumns,
		id, status))
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("update status of application %s", id), err)
	}
	return app, nil
}

// DeleteWithFiles removes the application and its file rows together. It returns the storage
// ids the application referenced that no other application still points at.
func (r *ApplicationRepo) DeleteWithFiles(ctx context.Context, id uuid.UUID) ([]string, error) {
	var released []string
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT storage_id FROM application_files WHERE application_id = $1
			UNION
			SELECT e.value->>'storageId' FROM applications a
			CROSS JOIN LATERAL jsonb_each(a.form_data) AS e
			WHERE a.id = $1 AND e.value->>'kind' = 'file' AND COALESCE(e.value->>'storageId', '') <> ''`, id)
		if err != nil {
			return err
		}
		candidates, err := collectStrings(rows)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM application_files WHERE application_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		released, err = releaseStorageIDs(ctx, tx, candidates)
		return err
	})
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("delete application %s", id), err)
	}

	slog.InfoContext(ctx, "application deleted", "application_id", id, "released_files", len(released))
	return released, nil
}
