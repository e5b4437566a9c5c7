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

const formSelect = `
	SELECT f.id, f.title, f.description, f.job_id, (d.form_id IS NOT NULL) AS is_default,
		f.created_at, f.updated_at
	FROM forms f
	LEFT JOIN default_form d ON d.form_id = f.id`

const fieldColumns = `id, form_id, field_type, label, name, required, placeholder, options, validation, sort_order`

// FormRepo implements storage.FormRepository. Field definitions live in form_fields;
// the default form is the single row of default_form.
type FormRepo struct {
	db Querier
}

// NewFormRepo creates a new FormRepo.
func NewFormRepo(db *pgxpool.Pool) *FormRepo {
	return &FormRepo{db: db}
}

// WithTx creates a new FormRepo with the transaction.
func (r *FormRepo) WithTx(tx pgx.Tx) storage.FormRepository {
	return &FormRepo{db: tx}
}

var _ storage.FormRepository = (*FormRepo)(nil)

func scanForm(row pgx.Row) (*models.Form, error) {
	var f models.Form
	if err := row.Scan(&f.ID, &f.Title, &f.Description, &f.JobID, &f.IsDefault, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Fields = []models.FieldDefinition{}
	return &f, nil
}

func scanField(row pgx.Row) (*models.FieldDefinition, error) {
	var f models.FieldDefinition
	err := row.Scan(&f.ID, &f.FormID, &f.FieldType, &f.Label, &f.Name, &f.Required,
		&f.Placeholder, &f.Options, &f.Validation, &f.Order)
	if err != nil {
		return nil, err
	}
	if f.Options == nil {
		f.Options = []string{}
	}
	return &f, nil
}

func insertField(ctx context.Context, q Querier, formID uuid.UUID, f models.FieldDefinition) (*models.FieldDefinition, error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Options == nil {
		f.Options = []string{}
	}
	return scanField(q.QueryRow(ctx, `
		INSERT INTO form_fields (id, form_id, field_type, label, name, required, placeholder, options, validation, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+fieldColumns,
		f.ID, formID, f.FieldType, f.Label, f.Name, f.Required, f.Placeholder, f.Options, f.Validation, f.Order))
}

func insertFields(ctx context.Context, q Querier, formID uuid.UUID, fields []models.FieldDefinition) ([]models.FieldDefinition, error) {
	out := make([]models.FieldDefinition, 0, len(fields))
	for _, f := range fields {
		inserted, err := insertField(ctx, q, formID, f)
		if err != nil {
			return nil, err
		}
		out = append(out, *inserted)
	}
	return out, nil
}

const upsertDefault = `
	INSERT INTO default_form (singleton, form_id, updated_at) VALUES (TRUE, $1, NOW())
	ON CONFLICT (singleton) DO UPDATE SET form_id = EXCLUDED.form_id, updated_at = NOW()`

// Create inserts the form and its fields, and makes it the default when IsDefault is set,
// all in one transaction.
func (r *FormRepo) Create(ctx context.Context, form *models.Form) (*models.Form, error) {
	if form.ID == uuid.Nil {
		form.ID = uuid.New()
	}

	var created *models.Form
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO forms (id, title, description, job_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())`,
			form.ID, form.Title, form.Description, form.JobID)
		if err != nil {
			return err
		}

		fields, err := insertFields(ctx, tx, form.ID, form.Fields)
		if err != nil {
			return err
		}

		if form.IsDefault {
			if _, err := tx.Exec(ctx, upsertDefault, form.ID); err != nil {
				return err
			}
		}

		created, err = scanForm(tx.QueryRow(ctx, formSelect+` WHERE f.id = $1`, form.ID))
		if err != nil {
			return err
		}
		created.Fields = fields
		return nil
	})
	if err != nil {
		return nil, mapPgError("create form", err)
	}

	slog.InfoContext(ctx, "form created", "form_id", created.ID, "fields", len(created.Fields), "default", created.IsDefault)
	return created, nil
}

func (r *FormRepo) withFields(ctx context.Context, form *models.Form) (*models.Form, error) {
	fields, err := r.ListFields(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	form.Fields = fields
	return form, nil
}

// GetByID retrieves the form with its ordered fields.
func (r *FormRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Form, error) {
	form, err := scanForm(r.db.QueryRow(ctx, formSelect+` WHERE f.id = $1`, id))
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("get form %s", id), err)
	}
	return r.withFields(ctx, form)
}

// GetByJobID retrieves the most recently updated form bound to the job.
func (r *FormRepo) GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Form, error) {
	form, err := scanForm(r.db.QueryRow(ctx,
		formSelect+` WHERE f.job_id = $1 ORDER BY f.updated_at DESC LIMIT 1`, jobID))
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("get form for job %s", jobID), err)
	}
	return r.withFields(ctx, form)
}

// GetDefault retrieves the default form, or storage.ErrNotFound when none is set.
func (r *FormRepo) GetDefault(ctx context.Context) (*models.Form, error) {
	form, err := scanForm(r.db.QueryRow(ctx, `
		SELECT f.id, f.title, f.description, f.job_id, TRUE, f.created_at, f.updated_at
		FROM default_form d
		JOIN forms f ON f.id = d.form_id`))
	if err != nil {
		return nil, mapPgError("get default form", err)
	}
	return r.withFields(ctx, form)
}

// List retrieves every form with its fields, newest first.
func (r *FormRepo) List(ctx context.Context) ([]models.Form, error) {
	rows, err := r.db.Query(ctx, formSelect+` ORDER BY f.created_at DESC`)
	if err != nil {
		return nil, mapPgError("list forms", err)
	}
	forms := []models.Form{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			rows.Close()
			return nil, mapPgError("scan form", err)
		}
		index[form.ID] = len(forms)
		forms = append(forms, *form)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapPgError("list forms", err)
	}
	if len(forms) == 0 {
		return forms, nil
	}

	fieldRows, err := r.db.Query(ctx, `SELECT `+fieldColumns+` FROM form_fields ORDER BY form_id, sort_order, name`)
	if err != nil {
		return nil, mapPgError("list form fields", err)
	}
	defer fieldRows.Close()
	for fieldRows.Next() {
		f, err := scanField(fieldRows)
		if err != nil {
			return nil, mapPgError("scan form field", err)
		}
		if i, ok := index[f.FormID]; ok {
			forms[i].Fields = append(forms[i].Fields, *f)
		}
	}
	if err := fieldRows.Err(); err != nil {
		return nil, mapPgError("list form fields", err)
	}
	return forms, nil
}

// Update writes title, description and job binding. The default flag is handled by SetDefault/ClearDefault.
func (r *FormRepo) Update(ctx context.Context, form *models.Form) (*models.Form, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE forms SET title = $2, description = $3, job_id = $4, updated_at = NOW()
		WHERE id = $1`,
		form.ID, form.Title, form.Description, form.JobID)
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("update form %s", form.ID), err)
	}
	if tag.RowsAffected() == 0 {
		return nil, mapPgError(fmt.Sprintf("update form %s", form.ID), pgx.ErrNoRows)
	}
	return r.GetByID(ctx, form.ID)
}

// Delete removes the form. Fields cascade; job references and the default pointer are nulled.
func (r *FormRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return mapPgError(fmt.Sprintf("delete form %s", id), err)
	}
	if tag.RowsAffected() == 0 {
		return mapPgError(fmt.Sprintf("delete form %s", id), pgx.ErrNoRows)
	}
	slog.InfoContext(ctx, "form deleted", "form_id", id)
	return nil
}

// SetDefault points the singleton default row at id. Whatever was default before stops
// being default in the same statement, so two forms can never both be default.
func (r *FormRepo) SetDefault(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, upsertDefault, id); err != nil {
		err = mapPgError(fmt.Sprintf("set default form %s", id), err)
		if isReferenced(err) {
			return fmt.Errorf("set default form %s: %w", id, storage.ErrNotFound)
		}
		return err
	}
	slog.InfoContext(ctx, "default form set", "form_id", id)
	return nil
}

// ClearDefault unsets the default only when id holds it, so a stale request cannot
// clear a default another admin just chose.
func (r *FormRepo) ClearDefault(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE default_form SET form_id = NULL, updated_at = NOW() WHERE form_id = $1`, id)
	return mapPgError(fmt.Sprintf("clear default form %s", id), err)
}

// ListFields retrieves the form's fields in render order.
func (r *FormRepo) ListFields(ctx context.Context, formID uuid.UUID) ([]models.FieldDefinition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+fieldColumns+` FROM form_fields WHERE form_id = $1 ORDER BY sort_order, name`, formID)
	if err != nil {
		return nil, mapPgError("list form fields", err)
	}
	defer rows.Close()

	fields := []models.FieldDefinition{}
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, mapPgError("scan form field", err)
		}
		fields = append(fields, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("list form fields", err)
	}
	return fields, nil
}

// ReplaceFields deletes every field of the form and inserts the new list in one transaction.
func (r *FormRepo) ReplaceFields(ctx context.Context, formID uuid.UUID, fields []models.FieldDefinition) ([]models.FieldDefinition, error) {
	var inserted []models.FieldDefinition
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE forms SET updated_at = NOW() WHERE id = $1`, formID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		if _, err := tx.Exec(ctx, `DELETE FROM form_fields WHERE form_id = $1`, formID); err != nil {
			return err
		}
		inserted, err = insertFields(ctx, tx, formID, fields)
		return err
	})
	if err != nil {
		return nil, mapPgError(fmt.Sprintf("replace fields of form %s", formID), err)
	}
	slog.InfoContext(ctx, "form fields replaced", "form_id", formID, "fields", len(inserted))
	return inserted, nil
}

// UpdateFieldOrder persists the Order of each given field.
func (r *FormRepo) UpdateFieldOrder(ctx context.Context, formID uuid.UUID, fields []models.FieldDefinition) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, f := range fields {
			tag, err := tx.Exec(ctx,
				`UPDATE form_fields SET sort_order = $1 WHERE id = $2 AND form_id = $3`, f.Order, f.ID, formID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return pgx.ErrNoRows
			}
		}
		_, err := tx.Exec(ctx, `UPDATE forms SET updated_at = NOW() WHERE id = $1`, formID)
		return err
	})
	return mapPgError(fmt.Sprintf("reorder fields of form %s", formID), err)
}
