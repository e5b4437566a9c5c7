package dto

import (
	"time"

	"job-board-api/internal/forms"
	"job-board-api/internal/models"

	"github.com/google/uuid"
)

// ResolveFormRequest asks which form applies to a job.
type ResolveFormRequest struct {
	JobID uuid.UUID `json:"-" validate:"required"`
}

// FormResolutionResponse is what the applicant page renders from.
type FormResolutionResponse struct {
	JobID     uuid.UUID         `json:"job_id"`
	Available bool              `json:"available"`
	Source    forms.Source      `json:"source"`
	Message   string            `json:"message,omitempty"`
	Form      *models.Form      `json:"form,omitempty"`
	Plan      *forms.RenderPlan `json:"plan,omitempty"`
}

// SubmitApplicationRequest is a filled form plus the optional baseline fields.
// FormData values may be tagged objects or bare scalars.
type SubmitApplicationRequest struct {
	JobID        uuid.UUID                   `json:"-" validate:"required"`
	UserID       uuid.UUID                   `json:"-"`
	FullName     string                      `json:"full_name" validate:"omitempty,max=200"`
	Email        string                      `json:"email" validate:"omitempty,email"`
	Phone        string                      `json:"phone" validate:"omitempty,max=50"`
	Address      string                      `json:"address" validate:"omitempty,max=500"`
	ResumeURL    *string                     `json:"resume_url,omitempty" validate:"omitempty,url"`
	CoverLetter  *string                     `json:"cover_letter,omitempty" validate:"omitempty,max=20000"`
	Skills       *string                     `json:"skills,omitempty" validate:"omitempty,max=2000"`
	Salary       *string                     `json:"salary,omitempty" validate:"omitempty,max=100"`
	Availability *string                     `json:"availability,omitempty" validate:"omitempty,max=200"`
	FormData     map[string]models.FormValue `json:"form_data"`
}

// SubmitApplicationResponse returns the created application.
// Warnings list follow-up writes that failed and will be repaired in the background.
type SubmitApplicationResponse struct {
	Application *models.Application      `json:"application"`
	Files       []models.ApplicationFile `json:"files"`
	Dropped     []string                 `json:"dropped,omitempty"`
	Warnings    []string                 `json:"warnings,omitempty"`
}

// ValidateSubmissionResponse reports per-field problems without creating anything.
type ValidateSubmissionResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ApplicationRequest addresses one application on behalf of an actor.
type ApplicationRequest struct {
	ID      uuid.UUID `json:"-" validate:"required"`
	ActorID uuid.UUID `json:"-"`
}

// ListApplicationsByJobRequest is the admin review list for one job.
type ListApplicationsByJobRequest struct {
	JobID   uuid.UUID `json:"-" validate:"required"`
	ActorID uuid.UUID `json:"-"`
}

// UpdateApplicationStatusRequest moves an application through review.
type UpdateApplicationStatusRequest struct {
	ID      uuid.UUID                `json:"-" validate:"required"`
	Status  models.ApplicationStatus `json:"status" validate:"required,oneof=pending reviewed accepted rejected"`
	ActorID uuid.UUID                `json:"-"`
}

// ResolvedValue is a formData entry as an admin sees it; files carry a download URL.
type ResolvedValue struct {
	models.FormValue
	URL string `json:"url,omitempty"`
}

// ApplicationDetailResponse is the admin view of one application.
type ApplicationDetailResponse struct {
	Application *models.Application       `json:"application"`
	Files       []ApplicationFileResponse `json:"files"`
	FormData    map[string]ResolvedValue  `json:"resolved_form_data"`
}

// ApplicationFileResponse is a file row plus a short-lived download URL.
type ApplicationFileResponse struct {
	models.ApplicationFile
	URL string `json:"url,omitempty"`
}

// AttachFileRequest links an uploaded blob to a field of an application.
type AttachFileRequest struct {
	ApplicationID uuid.UUID `json:"-" validate:"required"`
	StorageID     string    `json:"storage_id" validate:"required,max=200"`
	FieldName     string    `json:"field_name" validate:"required,max=100"`
	FileName      string    `json:"file_name" validate:"omitempty,max=255"`
	FileType      string    `json:"file_type" validate:"omitempty,max=255"`
	FileSize      int64     `json:"file_size" validate:"omitempty,gte=0"`
	ActorID       uuid.UUID `json:"-"`
}

// DeleteResponse tells the admin whether storage cleanup finished inline.
type DeleteResponse struct {
	DeletedFiles int       `json:"deleted_files"`
	PendingFiles int       `json:"pending_files"`
	DeletedAt    time.Time `json:"deleted_at"`
}
