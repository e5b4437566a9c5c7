package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// CreateUploadTicketRequest asks for a one-time upload target.
type CreateUploadTicketRequest struct {
	FileName string    `json:"file_name" validate:"omitempty,max=255"`
	FileType string    `json:"file_type" validate:"omitempty,max=255"`
	UserID   uuid.UUID `json:"-"`
}

// UploadTicketResponse tells the client where to POST the file bytes.
type UploadTicketResponse struct {
	Ticket    string    `json:"ticket"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadFileRequest is the raw body of a ticketed upload.
type UploadFileRequest struct {
	Ticket   string
	FileName string
	FileType string
	Size     int64
	Body     io.Reader
}

// UploadResponse is the storage reference the client keeps as the field value.
type UploadResponse struct {
	Kind      string `json:"kind"`
	StorageID string `json:"storageId"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	FileSize  int64  `json:"fileSize"`
}

// FileRequest addresses a stored blob on behalf of an actor.
type FileRequest struct {
	StorageID string    `json:"-" validate:"required"`
	ActorID   uuid.UUID `json:"-"`
}

// FileURLResponse is a short-lived download URL.
type FileURLResponse struct {
	StorageID string    `json:"storage_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileContent is an open blob ready to be streamed. The caller closes Body.
type FileContent struct {
	Body        io.ReadCloser
	FileName    string
	ContentType string
	Size        int64
}
