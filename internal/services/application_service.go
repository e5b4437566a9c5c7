package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"job-board-api/internal/forms"
	"job-board-api/internal/models"
	"job-board-api/internal/storage"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
)

// ApplicationDeps bundles what the application service talks to.
type ApplicationDeps struct {
	Applications storage.ApplicationRepository
	Files        storage.ApplicationFileRepository
	Uploads      storage.UploadRepository
	Users        storage.UserRepository
	Cleanup      storage.BlobCleanupRepository
	Blobs        storage.BlobStore
	Forms        FormService
	// StrictValidation rejects submissions that break field constraints instead of storing them as sent.
	StrictValidation bool
}

type applicationService struct {
	apps     storage.ApplicationRepository
	files    storage.ApplicationFileRepository
	uploads  storage.UploadRepository
	users    storage.UserRepository
	blobs    storage.BlobStore
	forms    FormService
	admins   adminGate
	releaser blobReleaser
	strict   bool
}

// NewApplicationService creates a new instance of ApplicationService.
func NewApplicationService(deps ApplicationDeps) ApplicationService {
	return &applicationService{
		apps:     deps.Applications,
		files:    deps.Files,
		uploads:  deps.Uploads,
		users:    deps.Users,
		blobs:    deps.Blobs,
		forms:    deps.Forms,
		admins:   adminGate{users: deps.Users},
		releaser: blobReleaser{blobs: deps.Blobs, cleanup: deps.Cleanup},
		strict:   deps.StrictValidation,
	}
}

// ResolveForm returns the form and render plan an applicant sees for a job.
// A job without any form is not an error: the response says no form is available.
func (s *applicationService) ResolveForm(ctx context.Context, req *dto.ResolveFormRequest) (*dto.FormResolutionResponse, error) {
	res, err := s.forms.ResolveForJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	resp := &dto.FormResolutionResponse{
		JobID:     req.JobID,
		Available: res.Available(),
		Source:    res.Source,
	}
	if !res.Available() {
		resp.Message = forms.NoFormMessage
		return resp, nil
	}
	plan := forms.BuildRenderPlan(res.Form)
	resp.Form = res.Form
	resp.Plan = &plan
	return resp, nil
}

// ValidateSubmission checks a filled form against its field constraints without saving anything.
func (s *applicationService) ValidateSubmission(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.ValidateSubmissionResponse, error) {
	res, err := s.forms.ResolveForJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if !res.Available() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, forms.NoFormMessage)
	}
	plan := forms.BuildRenderPlan(res.Form)
	sub := forms.Capture(plan, withBaseline(plan, req))

	if err := forms.ValidateSubmission(plan, sub); err != nil {
		var fieldErrs forms.FieldErrors
		if errors.As(err, &fieldErrs) {
			return &dto.ValidateSubmissionResponse{Valid: false, Errors: fieldErrs.Map()}, nil
		}
		return nil, err
	}
	return &dto.ValidateSubmissionResponse{Valid: true}, nil
}

// Submit captures a filled form and stores it as one application row, then links every
// uploaded file to it. Each call creates a new application.
func (s *applicationService) Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error) {
	applicant, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown applicant", ErrForbidden)
		}
		return nil, MapRepoError(err, "fetching applicant")
	}

	res, err := s.forms.ResolveForJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if !res.Available() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, forms.NoFormMessage)
	}
	plan := forms.BuildRenderPlan(res.Form)
	sub := forms.Capture(plan, withBaseline(plan, req))

	if s.strict {
		if err := forms.ValidateSubmission(plan, sub); err != nil {
			return nil, validationError(err)
		}
	}

	var warnings []string
	sub, warnings = s.checkFiles(ctx, applicant.ID, sub)

	identity := forms.ExtractIdentity(sub)
	app := &models.Application{
		ID:           uuid.New(),
		JobID:        req.JobID,
		UserID:       applicant.ID,
		FullName:     firstNonBlank(identity.FullName, req.FullName, applicant.Name),
		Email:        firstNonBlank(identity.Email, req.Email, applicant.Email),
		Phone:        firstNonBlank(identity.Phone, req.Phone),
		Address:      firstNonBlank(identity.Address, req.Address),
		ResumeURL:    req.ResumeURL,
		CoverLetter:  req.CoverLetter,
		Skills:       req.Skills,
		Salary:       req.Salary,
		Availability: req.Availability,
		Status:       models.ApplicationStatusPending,
		FormData:     sub.FormData,
	}
	app.FormID = &res.Form.ID

	created, err := s.apps.Create(ctx, app)
	if err != nil {
		if errors.Is(err, storage.ErrReferenced) {
			return nil, fmt.Errorf("%w: job no longer exists", ErrNotFound)
		}
		return nil, MapRepoError(err, "creating application")
	}

	files := make([]models.ApplicationFile, 0, len(sub.Files))
	for _, ref := range sub.Files {
		row, err := s.files.Upsert(ctx, &models.ApplicationFile{
			ID:            uuid.New(),
			StorageID:     ref.Value.StorageID,
			FileName:      ref.Value.FileName,
			FileType:      ref.Value.FileType,
			FileSize:      ref.Value.FileSize,
			ApplicationID: created.ID,
			FieldName:     ref.FieldName,
		})
		if err != nil {
			slog.WarnContext(ctx, "linking application file failed, leaving it to the reconciler",
				"application_id", created.ID, "field", ref.FieldName, "storage_id", ref.Value.StorageID, "error", err)
			warnings = append(warnings, fmt.Sprintf("file for %q is saved but not yet linked", ref.FieldName))
			continue
		}
		files = append(files, *row)
	}

	slog.InfoContext(ctx, "application submitted",
		"application_id", created.ID, "job_id", created.JobID, "user_id", created.UserID,
		"form_source", res.Source, "files", len(files), "dropped", len(sub.Dropped))

	return &dto.SubmitApplicationResponse{
		Application: created,
		Files:       files,
		Dropped:     sub.Dropped,
		Warnings:    warnings,
	}, nil
}

// checkFiles fills in file metadata and removes file values that do not point at a blob
// this applicant uploaded. Removed fields stay unset, as if nothing had been uploaded.
func (s *applicationService) checkFiles(ctx context.Context, applicantID uuid.UUID, sub forms.Submission) (forms.Submission, []string) {
	var warnings []string
	kept := sub.Files[:0]
	for _, ref := range sub.Files {
		value, err := s.describeFile(ctx, applicantID, ref.Value)
		if err != nil {
			slog.WarnContext(ctx, "dropping file value", "field", ref.FieldName, "storage_id", ref.Value.StorageID, "error", err)
			warnings = append(warnings, fmt.Sprintf("file for %q was not accepted: %v", ref.FieldName, err))
			delete(sub.FormData, ref.FieldName)
			continue
		}
		sub.FormData[ref.FieldName] = value
		kept = append(kept, forms.FileRef{FieldName: ref.FieldName, Value: value})
	}
	sub.Files = kept
	return sub, warnings
}

var (
	errUnknownBlob = errors.New("no such upload")
	errForeignBlob = errors.New("upload belongs to another user")
)

// describeFile completes a file value from its upload record, or from the blob itself
// when the upload predates upload records.
func (s *applicationService) describeFile(ctx context.Context, ownerID uuid.UUID, v models.FormValue) (models.FormValue, error) {
	if !validStorageID(v.StorageID) {
		return v, errUnknownBlob
	}
	id := strings.TrimSpace(v.StorageID)

	upload, err := s.uploads.GetByStorageID(ctx, id)
	switch {
	case err == nil:
		if upload.UploadedBy != nil && *upload.UploadedBy != ownerID {
			return v, errForeignBlob
		}
		return models.FileValue(id,
			firstNonBlank(upload.FileName, v.FileName),
			firstNonBlank(upload.FileType, v.FileType),
			upload.FileSize), nil
	case !errors.Is(err, storage.ErrNotFound):
		return v, err
	}

	info, err := s.blobs.Stat(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return v, errUnknownBlob
		}
		return v, err
	}
	return models.FileValue(id, v.FileName, firstNonBlank(v.FileType, info.ContentType), info.Size), nil
}

func (s *applicationService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Application, error) {
	apps, err := s.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, MapRepoError(err, "listing own applications")
	}
	return apps, nil
}

func (s *applicationService) ListByJob(ctx context.Context, req *dto.ListApplicationsByJobRequest) ([]models.Application, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByJob(ctx, req.JobID)
	if err != nil {
		return nil, MapRepoError(err, "listing job applications")
	}
	return apps, nil
}

// GetApplication returns an application with download URLs for every file it references.
// Only values tagged as files get a URL.
func (s *applicationService) GetApplication(ctx context.Context, req *dto.ApplicationRequest) (*dto.ApplicationDetailResponse, error) {
	app, err := s.apps.GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "getting application")
	}
	if app.UserID != req.ActorID {
		if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
			return nil, err
		}
	}

	rows, err := s.files.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, MapRepoError(err, "listing application files")
	}

	resp := &dto.ApplicationDetailResponse{
		Application: app,
		Files:       make([]dto.ApplicationFileResponse, 0, len(rows)),
		FormData:    make(map[string]dto.ResolvedValue, len(app.FormData)),
	}
	for _, row := range rows {
		resp.Files = append(resp.Files, dto.ApplicationFileResponse{
			ApplicationFile: row,
			URL:             s.downloadURL(ctx, row.StorageID, row.FileName),
		})
	}
	for name, v := range app.FormData {
		rv := dto.ResolvedValue{FormValue: v}
		if v.IsFile() && v.StorageID != "" {
			rv.URL = s.downloadURL(ctx, v.StorageID, v.FileName)
		}
		resp.FormData[name] = rv
	}
	return resp, nil
}

func (s *applicationService) downloadURL(ctx context.Context, storageID, fileName string) string {
	url, err := s.blobs.PresignGet(ctx, storageID, fileName)
	if err != nil {
		slog.WarnContext(ctx, "presigning file URL failed", "storage_id", storageID, "error", err)
		return ""
	}
	return url
}

func (s *applicationService) UpdateStatus(ctx context.Context, req *dto.UpdateApplicationStatusRequest) (*models.Application, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}
	app, err := s.apps.UpdateStatus(ctx, req.ID, req.Status)
	if err != nil {
		return nil, MapRepoError(err, "updating application status")
	}
	slog.InfoContext(ctx, "application status changed", "application_id", app.ID, "status", app.Status, "actor_id", req.ActorID)
	return app, nil
}

// DeleteApplication removes the application and its file rows together, then deletes the
// blobs nothing else references. Blobs that cannot be deleted now are retried later.
func (s *applicationService) DeleteApplication(ctx context.Context, req *dto.ApplicationRequest) (*dto.DeleteResponse, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	released, err := s.apps.DeleteWithFiles(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "deleting application")
	}

	deleted, pending := s.releaser.release(ctx, released, fmt.Sprintf("application %s deleted", req.ID))
	slog.InfoContext(ctx, "application deleted", "application_id", req.ID, "actor_id", req.ActorID,
		"deleted_files", deleted, "pending_files", pending)
	return &dto.DeleteResponse{DeletedFiles: deleted, PendingFiles: pending, DeletedAt: time.Now().UTC()}, nil
}

// AttachFile links an uploaded blob to one field of an existing application, replacing
// any earlier file for that field.
func (s *applicationService) AttachFile(ctx context.Context, req *dto.AttachFileRequest) (*models.ApplicationFile, error) {
	app, err := s.apps.GetByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, MapRepoError(err, "fetching application for attachment")
	}
	if app.UserID != req.ActorID {
		if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
			return nil, err
		}
	}

	value, err := s.describeFile(ctx, app.UserID, models.FileValue(req.StorageID, req.FileName, req.FileType, req.FileSize))
	if err != nil {
		switch {
		case errors.Is(err, errUnknownBlob):
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		case errors.Is(err, errForeignBlob):
			return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
		}
		return nil, fmt.Errorf("checking upload %s: %w", req.StorageID, err)
	}

	row, err := s.files.Upsert(ctx, &models.ApplicationFile{
		ID:            uuid.New(),
		StorageID:     value.StorageID,
		FileName:      firstNonBlank(req.FileName, value.FileName),
		FileType:      value.FileType,
		FileSize:      value.FileSize,
		ApplicationID: app.ID,
		FieldName:     strings.TrimSpace(req.FieldName),
	})
	if err != nil {
		return nil, MapRepoError(err, "linking application file")
	}
	return row, nil
}

// withBaseline hands the top-level identity fields to the injected controls when the
// client sent them outside form_data.
func withBaseline(plan forms.RenderPlan, req *dto.SubmitApplicationRequest) map[string]models.FormValue {
	merged := make(map[string]models.FormValue, len(req.FormData)+2)
	for k, v := range req.FormData {
		merged[k] = v
	}
	for name, value := range map[string]string{forms.InjectedFullName: req.FullName, forms.InjectedAddress: req.Address} {
		c, ok := plan.Control(name)
		if !ok || !c.Injected || strings.TrimSpace(value) == "" {
			continue
		}
		if _, sent := merged[name]; !sent {
			merged[name] = models.ScalarValue(value)
		}
	}
	return merged
}

func firstNonBlank(values ...string) string {
	i := slices.IndexFunc(values, func(v string) bool { return strings.TrimSpace(v) != "" })
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(values[i])
}
