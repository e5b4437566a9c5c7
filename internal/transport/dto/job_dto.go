package dto

import (
	"github.com/google/uuid"
)

// --- Job Request DTOs ---

// CreateJobRequest defines the structure for creating a new job posting.
type CreateJobRequest struct {
	Title          string     `json:"title" validate:"required,min=2,max=200"`
	Company        string     `json:"company" validate:"required,max=200"`
	Location       string     `json:"location" validate:"omitempty,max=200"`
	EmploymentType string     `json:"employment_type" validate:"omitempty,oneof=full-time part-time contract internship temporary"`
	Salary         *string    `json:"salary,omitempty" validate:"omitempty,max=100"`
	Description    string     `json:"description" validate:"omitempty,max=20000"`
	Requirements   []string   `json:"requirements" validate:"omitempty,dive,max=500"`
	FormID         *uuid.UUID `json:"form_id,omitempty"`
	ActorID        uuid.UUID  `json:"-"` // Set internally by handler from auth context
}

// GetJobByIDRequest defines the structure for getting a job by ID.
type GetJobByIDRequest struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

// ListJobsRequest defines parameters for listing job postings.
type ListJobsRequest struct {
	Limit          int    `form:"limit,default=20" validate:"omitempty,gte=0,lte=100"`
	Offset         int    `form:"offset,default=0" validate:"omitempty,gte=0"`
	Query          string `form:"q" validate:"omitempty,max=100"`
	EmploymentType string `form:"employment_type" validate:"omitempty,oneof=full-time part-time contract internship temporary"`
}

// UpdateJobRequest defines the structure for updating a job. Nil fields are left unchanged.
type UpdateJobRequest struct {
	ID             uuid.UUID  `json:"-" validate:"required"` // From URL path
	Title          *string    `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Company        *string    `json:"company,omitempty" validate:"omitempty,max=200"`
	Location       *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	EmploymentType *string    `json:"employment_type,omitempty" validate:"omitempty,oneof=full-time part-time contract internship temporary"`
	Salary         *string    `json:"salary,omitempty" validate:"omitempty,max=100"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=20000"`
	Requirements   []string   `json:"requirements,omitempty" validate:"omitempty,dive,max=500"`
	FormID         *uuid.UUID `json:"form_id,omitempty"`
	ClearForm      bool       `json:"clear_form,omitempty"` // unpins the job's form
	ActorID        uuid.UUID  `json:"-"`
}

// DeleteJobRequest defines the structure for deleting a job.
type DeleteJobRequest struct {
	ID      uuid.UUID `json:"-" validate:"required"`
	ActorID uuid.UUID `json:"-"`
}
