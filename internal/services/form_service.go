package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"job-board-api/internal/forms"
	"job-board-api/internal/models"
	"job-board-api/internal/storage"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
)

type formService struct {
	formRepo storage.FormRepository
	jobRepo  storage.JobRepository
	admins   adminGate
}

// NewFormService creates a new instance of FormService.
func NewFormService(formRepo storage.FormRepository, jobRepo storage.JobRepository, userRepo storage.UserRepository) FormService {
	return &formService{
		formRepo: formRepo,
		jobRepo:  jobRepo,
		admins:   adminGate{users: userRepo},
	}
}

func (s *formService) CreateForm(ctx context.Context, req *dto.CreateFormRequest) (*models.Form, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	fields, err := fieldsFromInput(req.Fields)
	if err != nil {
		return nil, err
	}

	form, err := s.formRepo.Create(ctx, &models.Form{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		JobID:       req.JobID,
		IsDefault:   req.IsDefault,
		Fields:      fields,
	})
	if err != nil {
		return nil, MapRepoError(err, "creating form")
	}
	return form, nil
}

func (s *formService) GetForm(ctx context.Context, req *dto.FormRequest) (*models.Form, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}
	form, err := s.formRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "getting form")
	}
	return form, nil
}

func (s *formService) ListForms(ctx context.Context, req *dto.ListFormsRequest) ([]models.Form, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}
	list, err := s.formRepo.List(ctx)
	if err != nil {
		return nil, MapRepoError(err, "listing forms")
	}
	return list, nil
}

// UpdateForm patches metadata and, when asked, moves the default flag onto or off this form.
func (s *formService) UpdateForm(ctx context.Context, req *dto.UpdateFormRequest) (*models.Form, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	form, err := s.formRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "fetching form for update")
	}

	if req.Title != nil {
		form.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		form.Description = req.Description
	}
	switch {
	case req.UnbindJob:
		form.JobID = nil
	case req.JobID != nil:
		form.JobID = req.JobID
	}

	if _, err := s.formRepo.Update(ctx, form); err != nil {
		return nil, MapRepoError(err, "updating form")
	}

	if req.IsDefault != nil {
		if *req.IsDefault {
			err = s.formRepo.SetDefault(ctx, form.ID)
		} else {
			err = s.formRepo.ClearDefault(ctx, form.ID)
		}
		if err != nil {
			return nil, MapRepoError(err, "changing default form")
		}
	}

	updated, err := s.formRepo.GetByID(ctx, form.ID)
	if err != nil {
		return nil, MapRepoError(err, "reloading form")
	}
	return updated, nil
}

// DeleteForm removes the form and its fields. Jobs pointing at it fall back to the next
// resolution rule; applications keep their captured form data.
func (s *formService) DeleteForm(ctx context.Context, req *dto.FormRequest) error {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return err
	}
	if err := s.formRepo.Delete(ctx, req.ID); err != nil {
		return MapRepoError(err, "deleting form")
	}
	slog.InfoContext(ctx, "form deleted", "form_id", req.ID, "actor_id", req.ActorID)
	return nil
}

// SetDefault makes the form the single system-wide default.
func (s *formService) SetDefault(ctx context.Context, req *dto.FormRequest) (*models.Form, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}
	if err := s.formRepo.SetDefault(ctx, req.ID); err != nil {
		return nil, MapRepoError(err, "setting default form")
	}
	form, err := s.formRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "reloading form")
	}
	return form, nil
}

func (s *formService) ReplaceFields(ctx context.Context, req *dto.ReplaceFieldsRequest) (*models.Form, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	fields, err := fieldsFromInput(req.Fields)
	if err != nil {
		return nil, err
	}
	if _, err := s.formRepo.ReplaceFields(ctx, req.ID, fields); err != nil {
		return nil, MapRepoError(err, "replacing form fields")
	}
	return s.reload(ctx, req.ID)
}

func (s *formService) ReorderFields(ctx context.Context, req *dto.ReorderFieldsRequest) (*models.Form, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	current, err := s.formRepo.ListFields(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "listing form fields")
	}
	reordered, err := forms.Reorder(current, req.FieldIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return s.saveOrder(ctx, req.ID, reordered)
}

func (s *formService) MoveField(ctx context.Context, req *dto.MoveFieldRequest) (*models.Form, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	current, err := s.formRepo.ListFields(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "listing form fields")
	}
	moved, err := forms.Move(current, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return s.saveOrder(ctx, req.ID, moved)
}

func (s *formService) saveOrder(ctx context.Context, formID uuid.UUID, fields []models.FieldDefinition) (*models.Form, error) {
	if err := s.formRepo.UpdateFieldOrder(ctx, formID, fields); err != nil {
		return nil, MapRepoError(err, "saving field order")
	}
	return s.reload(ctx, formID)
}

func (s *formService) reload(ctx context.Context, formID uuid.UUID) (*models.Form, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, MapRepoError(err, "reloading form")
	}
	return form, nil
}

// ExportForm encodes a form definition for transfer to another installation.
func (s *formService) ExportForm(ctx context.Context, req *dto.ExportFormRequest) ([]byte, forms.Format, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, "", err
	}

	format, err := forms.ParseFormat(req.Format)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	form, err := s.formRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, "", MapRepoError(err, "fetching form for export")
	}

	data, err := forms.ExportForm(form).Encode(format)
	if err != nil {
		return nil, "", fmt.Errorf("exporting form %s: %w", form.ID, err)
	}
	return data, format, nil
}

// ImportForm creates a new, non-default form from an export document.
func (s *formService) ImportForm(ctx context.Context, req *dto.ImportFormRequest) (*models.Form, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	format, err := forms.ParseFormat(req.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	doc, err := forms.DecodeExport(req.Data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if strings.TrimSpace(doc.Title) == "" {
		return nil, fmt.Errorf("%w: imported form has no title", ErrValidation)
	}

	fields, err := prepareFields(doc.Definitions())
	if err != nil {
		return nil, err
	}

	form, err := s.formRepo.Create(ctx, &models.Form{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(doc.Title),
		Description: doc.Description,
		JobID:       req.JobID,
		Fields:      fields,
	})
	if err != nil {
		return nil, MapRepoError(err, "importing form")
	}
	slog.InfoContext(ctx, "form imported", "form_id", form.ID, "fields", len(form.Fields), "actor_id", req.ActorID)
	return form, nil
}

// ResolveForJob applies the resolution rules in order: the job's own form reference,
// then a form bound to the job, then the default form. A job reference to a form that
// no longer exists is skipped.
func (s *formService) ResolveForJob(ctx context.Context, jobID uuid.UUID) (forms.Resolution, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return forms.Resolution{}, MapRepoError(err, "fetching job for form resolution")
	}

	if job.FormID != nil {
		form, err := s.formRepo.GetByID(ctx, *job.FormID)
		switch {
		case err == nil:
			return forms.Resolution{Form: form, Source: forms.SourceJob}, nil
		case errors.Is(err, storage.ErrNotFound):
			slog.WarnContext(ctx, "job references a missing form, falling back", "job_id", job.ID, "form_id", *job.FormID)
		default:
			return forms.Resolution{}, MapRepoError(err, "fetching job form")
		}
	}

	form, err := s.formRepo.GetByJobID(ctx, job.ID)
	switch {
	case err == nil:
		return forms.Resolution{Form: form, Source: forms.SourceBound}, nil
	case !errors.Is(err, storage.ErrNotFound):
		return forms.Resolution{}, MapRepoError(err, "fetching form bound to job")
	}

	form, err = s.formRepo.GetDefault(ctx)
	switch {
	case err == nil:
		return forms.Resolution{Form: form, Source: forms.SourceDefault}, nil
	case !errors.Is(err, storage.ErrNotFound):
		return forms.Resolution{}, MapRepoError(err, "fetching default form")
	}

	return forms.Resolution{Source: forms.SourceNone}, nil
}
