//go:generate mockgen -source=storage.go -destination=../mocks/mock_storage.go -package=mock_storage

package storage

import (
	"context"
	"io"
	"time"

	"job-board-api/internal/models"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// JobRepository defines the interface for job posting operations.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, req *dto.ListJobsRequest) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) (*models.Job, error)
	// Delete removes the job with its applications and returns the storage ids
	// those applications referenced, so the caller can release the blobs.
	Delete(ctx context.Context, id uuid.UUID) ([]string, error)
}

// FormRepository persists forms, their field definitions and the default form pointer.
type FormRepository interface {
	Create(ctx context.Context, form *models.Form) (*models.Form, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Form, error)
	// GetByJobID returns the most recently updated form bound to the job.
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Form, error)
	// GetDefault returns ErrNotFound when no default form is set.
	GetDefault(ctx context.Context) (*models.Form, error)
	List(ctx context.Context) ([]models.Form, error)
	Update(ctx context.Context, form *models.Form) (*models.Form, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SetDefault makes id the single default form in one statement.
	SetDefault(ctx context.Context, id uuid.UUID) error
	// ClearDefault unsets the default only if id is currently the default.
	ClearDefault(ctx context.Context, id uuid.UUID) error

	ListFields(ctx context.Context, formID uuid.UUID) ([]models.FieldDefinition, error)
	// ReplaceFields swaps the whole field set of a form atomically.
	ReplaceFields(ctx context.Context, formID uuid.UUID, fields []models.FieldDefinition) ([]models.FieldDefinition, error)
	UpdateFieldOrder(ctx context.Context, formID uuid.UUID, fields []models.FieldDefinition) error
}

// ApplicationRepository persists submitted applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error)
	// DeleteWithFiles removes the application and its file rows in one transaction
	// and returns every storage id the application referenced.
	DeleteWithFiles(ctx context.Context, id uuid.UUID) ([]string, error)
}

// ApplicationFileRepository links stored blobs to applications.
type ApplicationFileRepository interface {
	// Upsert writes the row for (application, field), replacing an earlier attachment.
	Upsert(ctx context.Context, file *models.ApplicationFile) (*models.ApplicationFile, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.ApplicationFile, error)
	// RepairFromFormData inserts rows missing for file values already stored in form_data.
	RepairFromFormData(ctx context.Context, limit int) (int64, error)
}

// UploadRepository tracks blobs that arrived through upload tickets.
type UploadRepository interface {
	Create(ctx context.Context, upload *models.Upload) error
	GetByStorageID(ctx context.Context, storageID string) (*models.Upload, error)
	// ListOrphans returns uploads older than the cutoff that no application references.
	ListOrphans(ctx context.Context, olderThan time.Time, limit int) ([]models.Upload, error)
	Delete(ctx context.Context, storageID string) error
}

// BlobCleanupRepository is the retry queue for storage deletions that failed.
type BlobCleanupRepository interface {
	Enqueue(ctx context.Context, storageIDs []string, reason string) error
	Due(ctx context.Context, now time.Time, limit int) ([]models.BlobCleanup, error)
	Complete(ctx context.Context, storageID string) error
	Retry(ctx context.Context, storageID string, reason string, next time.Time) error
}

// ObjectInfo describes a stored blob.
type ObjectInfo struct {
	StorageID   string
	ContentType string
	Size        int64
}

// BlobStore is the binary storage service behind file fields.
type BlobStore interface {
	Put(ctx context.Context, storageID string, body io.ReadSeeker, size int64, contentType string) error
	Stat(ctx context.Context, storageID string) (*ObjectInfo, error)
	Open(ctx context.Context, storageID string) (io.ReadCloser, *ObjectInfo, error)
	PresignGet(ctx context.Context, storageID, fileName string) (string, error)
	Delete(ctx context.Context, storageID string) error
}

// UploadTicket authorizes exactly one upload.
type UploadTicket struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	FileName  string    `json:"file_name"`
	FileType  string    `json:"file_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadTicketStore issues and redeems one-time upload tickets.
type UploadTicketStore interface {
	Issue(ctx context.Context, ticket *UploadTicket, ttl time.Duration) error
	// Consume returns ErrNotFound when the ticket is unknown, expired or already used.
	Consume(ctx context.Context, token string) (*UploadTicket, error)
}
