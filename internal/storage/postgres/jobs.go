package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"job-board-api/internal/models"
	"job-board-api/internal/storage"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobColumns = `id, title, company, location, employment_type, salary, description, requirements,
	form_id, posted_by, created_at, updated_at`

// JobRepo implements the storage.JobRepository interface using PostgreSQL.
type JobRepo struct {
	db Querier
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *pgxpool.Pool) *JobRepo {
	return &JobRepo{db: db}
}

// WithTx creates a new JobRepo with the transaction.
func (r *JobRepo) WithTx(tx pgx.Tx) storage.JobRepository {
	return &JobRepo{db: tx}
}

// Compile-time check to ensure JobRepo implements JobRepository
var _ storage.JobRepository = (*JobRepo)(nil)

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	err := row.Scan(
		&j.ID,
		&j.Title,
		&j.Company,
		&j.Location,
		&j.EmploymentType,
		&j.Salary,
		&j.Description,
		&j.Requirements,
		&j.FormID,
		&j.PostedBy,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	return &j, nil
}

// Create saves a new job posting. An unknown form reference yields storage.ErrReferenced.
func (r *JobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Requirements == nil {
		job.Requirements = []string{}
	}

	query := `
		INSERT INTO jobs (id, title, company, location, employment_type, salary, description, requirements,
			form_id, posted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING ` + jobColumns

	created, err := scanJob(r.db.QueryRow(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.EmploymentType,
		job.Salary,
		job.Description,
		job.Requirements,
		job.FormID,
		job.PostedBy,
	))
	if err != nil {
		return nil, mapPgError("create job", err)
	}

	slog.InfoContext(ctx, "job created", "job_id", created.ID)
	return created, nil
}

// GetByID retrieves a specific job by its ID.
func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("get job %s", id), err)
	}
	return job, nil
}

// List retrieves job postings, newest first.
func (r *JobRepo) List(ctx context.Context, req *dto.ListJobsRequest) ([]models.Job, error) {
	var conditions []string
	var args []any

	if req.Query != "" {
		args = append(args, "%"+req.Query+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR company ILIKE $%d)", len(args), len(args)))
	}
	if req.EmploymentType != "" {
		args = append(args, req.EmploymentType)
		conditions = append(conditions, fmt.Sprintf("employment_type = $%d", len(args)))
	}

	query := buildListQuery(`SELECT `+jobColumns+` FROM jobs`, conditions, &args, "created_at DESC", req.Offset, req.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError("list jobs", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, mapPgError("scan job", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("list jobs", err)
	}
	return jobs, nil
}

// Update writes every mutable column of the job.
func (r *JobRepo) Update(ctx context.Context, job *models.Job) (*models.Job, error) {
	query := `
		UPDATE jobs
		SET title = $2, company = $3, location = $4, employment_type = $5, salary = $6,
			description = $7, requirements = $8, form_id = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + jobColumns

	updated, err := scanJob(r.db.QueryRow(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.EmploymentType,
		job.Salary,
		job.Description,
		job.Requirements,
		job.FormID,
	))
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("update job %s", job.ID), err)
	}
	return updated, nil
}

// Delete removes the job. Its applications and their file rows cascade; the storage ids
// they held and nothing else references are returned for blob cleanup.
func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var released []string
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT f.storage_id FROM application_files f
			JOIN applications a ON a.id = f.application_id
			WHERE a.job_id = $1
			UNION
			SELECT e.value->>'storageId' FROM applications a
			CROSS JOIN LATERAL jsonb_each(a.form_data) AS e
			WHERE a.job_id = $1 AND e.value->>'kind' = 'file' AND COALESCE(e.value->>'storageId', '') <> ''`, id)
		if err != nil {
			return err
		}
		candidates, err := collectStrings(rows)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
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
		return nil, mapPgError(fmt.Sprintf("delete job %s", id), err)
	}

	slog.InfoContext(ctx, "job deleted", "job_id", id, "released_files", len(released))
	return released, nil
}

// releaseStorageIDs filters candidates down to unreferenced ids and drops their upload records.
func releaseStorageIDs(ctx context.Context, tx pgx.Tx, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return []string{}, nil
	}
	rows, err := tx.Query(ctx, unreferencedStorageIDs, candidates)
	if err != nil {
		return nil, err
	}
	released, err := collectStrings(rows)
	if err != nil {
		return nil, err
	}
	if len(released) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM uploads WHERE storage_id = ANY($1)`, released); err != nil {
			return nil, err
		}
	}
	return released, nil
}
