package services

import (
	"context"

	"job-board-api/internal/forms"
	"job-board-api/internal/models"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
)

// UserService defines the interface for account and authentication logic.
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetByID(ctx context.Context, req *dto.GetUserByIDRequest) (*models.User, error)
}

// JobService defines the interface for job posting logic.
type JobService interface {
	CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error)
	GetJobByID(ctx context.Context, req *dto.GetJobByIDRequest) (*models.Job, error)
	ListJobs(ctx context.Context, req *dto.ListJobsRequest) ([]models.Job, error)
	UpdateJob(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error)
	DeleteJob(ctx context.Context, req *dto.DeleteJobRequest) (*dto.DeleteResponse, error)
}

// FormService defines the interface for the admin form builder and form resolution.
type FormService interface {
	CreateForm(ctx context.Context, req *dto.CreateFormRequest) (*models.Form, error)
	GetForm(ctx context.Context, req *dto.FormRequest) (*models.Form, error)
	ListForms(ctx context.Context, req *dto.ListFormsRequest) ([]models.Form, error)
	UpdateForm(ctx context.Context, req *dto.UpdateFormRequest) (*models.Form, error)
	DeleteForm(ctx context.Context, req *dto.FormRequest) error
	SetDefault(ctx context.Context, req *dto.FormRequest) (*models.Form, error)
	ReplaceFields(ctx context.Context, req *dto.ReplaceFieldsRequest) (*models.Form, error)
	ReorderFields(ctx context.Context, req *dto.ReorderFieldsRequest) (*models.Form, error)
	MoveField(ctx context.Context, req *dto.MoveFieldRequest) (*models.Form, error)
	ExportForm(ctx context.Context, req *dto.ExportFormRequest) ([]byte, forms.Format, error)
	ImportForm(ctx context.Context, req *dto.ImportFormRequest) (*models.Form, error)
	// ResolveForJob picks the form that applies to a job. It never fails for a job that exists.
	ResolveForJob(ctx context.Context, jobID uuid.UUID) (forms.Resolution, error)
}

// ApplicationService defines the interface for submitting and reviewing applications.
type ApplicationService interface {
	ResolveForm(ctx context.Context, req *dto.ResolveFormRequest) (*dto.FormResolutionResponse, error)
	ValidateSubmission(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.ValidateSubmissionResponse, error)
	Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Application, error)
	ListByJob(ctx context.Context, req *dto.ListApplicationsByJobRequest) ([]models.Application, error)
	GetApplication(ctx context.Context, req *dto.ApplicationRequest) (*dto.ApplicationDetailResponse, error)
	UpdateStatus(ctx context.Context, req *dto.UpdateApplicationStatusRequest) (*models.Application, error)
	DeleteApplication(ctx context.Context, req *dto.ApplicationRequest) (*dto.DeleteResponse, error)
	AttachFile(ctx context.Context, req *dto.AttachFileRequest) (*models.ApplicationFile, error)
}

// UploadService defines the interface for ticketed uploads and admin file access.
type UploadService interface {
	CreateTicket(ctx context.Context, req *dto.CreateUploadTicketRequest) (*dto.UploadTicketResponse, error)
	Upload(ctx context.Context, req *dto.UploadFileRequest) (*dto.UploadResponse, error)
	FileURL(ctx context.Context, req *dto.FileRequest) (*dto.FileURLResponse, error)
	OpenFile(ctx context.Context, req *dto.FileRequest) (*dto.FileContent, error)
}
