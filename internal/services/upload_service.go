package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"job-board-api/config"
	"job-board-api/internal/models"
	"job-board-api/internal/storage"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
)

// UploadPath is where ticketed uploads are posted, relative to the public URL.
const UploadPath = "/api/v1/uploads/"

type uploadService struct {
	tickets   storage.UploadTicketStore
	uploads   storage.UploadRepository
	blobs     storage.BlobStore
	admins    adminGate
	publicURL string
	ticketTTL time.Duration
	maxBytes  int64
	urlTTL    time.Duration
}

// NewUploadService creates a new instance of UploadService.
func NewUploadService(tickets storage.UploadTicketStore, uploads storage.UploadRepository, blobs storage.BlobStore, userRepo storage.UserRepository, publicURL string, cfg config.StorageConfig) UploadService {
	return &uploadService{
		tickets:   tickets,
		uploads:   uploads,
		blobs:     blobs,
		admins:    adminGate{users: userRepo},
		publicURL: strings.TrimRight(publicURL, "/"),
		ticketTTL: cfg.UploadTicketTTL,
		maxBytes:  cfg.MaxUploadBytes,
		urlTTL:    cfg.PresignExpiry,
	}
}

// CreateTicket issues a one-time upload target for an authenticated user.
func (s *uploadService) CreateTicket(ctx context.Context, req *dto.CreateUploadTicketRequest) (*dto.UploadTicketResponse, error) {
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: login required to upload", ErrForbidden)
	}

	ticket := &storage.UploadTicket{
		Token:     uuid.NewString(),
		UserID:    req.UserID,
		FileName:  strings.TrimSpace(req.FileName),
		FileType:  strings.TrimSpace(req.FileType),
		ExpiresAt: time.Now().UTC().Add(s.ticketTTL),
	}
	if err := s.tickets.Issue(ctx, ticket, s.ticketTTL); err != nil {
		slog.ErrorContext(ctx, "issuing upload ticket failed", "user_id", req.UserID, "error", err)
		return nil, fmt.Errorf("issuing upload ticket: %w", err)
	}

	return &dto.UploadTicketResponse{
		Ticket:    ticket.Token,
		UploadURL: s.publicURL + UploadPath + ticket.Token,
		ExpiresAt: ticket.ExpiresAt,
	}, nil
}

// Upload stores the body under a fresh storage id and records the upload. The ticket is
// redeemed only once the body is known to be acceptable, so a rejected body can be retried.
func (s *uploadService) Upload(ctx context.Context, req *dto.UploadFileRequest) (*dto.UploadResponse, error) {
	data, err := io.ReadAll(io.LimitReader(req.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: upload is empty", ErrValidation)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", ErrValidation, s.maxBytes)
	}

	ticket, err := s.tickets.Consume(ctx, req.Ticket)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: upload ticket is invalid or expired", ErrNotFound)
		}
		return nil, fmt.Errorf("redeeming upload ticket: %w", err)
	}

	fileName := firstNonBlank(req.FileName, ticket.FileName)
	fileType := firstNonBlank(req.FileType, ticket.FileType)
	if fileType == "" || fileType == "application/octet-stream" {
		fileType = http.DetectContentType(data)
	}

	storageID := uuid.NewString()
	size := int64(len(data))
	if err := s.blobs.Put(ctx, storageID, bytes.NewReader(data), size, fileType); err != nil {
		slog.ErrorContext(ctx, "storing upload failed", "user_id", ticket.UserID, "error", err)
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	uploader := ticket.UserID
	if err := s.uploads.Create(ctx, &models.Upload{
		StorageID:  storageID,
		FileName:   fileName,
		FileType:   fileType,
		FileSize:   size,
		UploadedBy: &uploader,
	}); err != nil {
		if delErr := s.blobs.Delete(ctx, storageID); delErr != nil {
			slog.ErrorContext(ctx, "deleting unrecorded upload failed", "storage_id", storageID, "error", delErr)
		}
		return nil, MapRepoError(err, "recording upload")
	}

	slog.InfoContext(ctx, "file uploaded", "storage_id", storageID, "user_id", uploader, "size", size, "type", fileType)
	return &dto.UploadResponse{
		Kind:      string(models.ValueKindFile),
		StorageID: storageID,
		FileName:  fileName,
		FileType:  fileType,
		FileSize:  size,
	}, nil
}

// FileURL returns a short-lived download URL for a stored blob.
func (s *uploadService) FileURL(ctx context.Context, req *dto.FileRequest) (*dto.FileURLResponse, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}
	if !validStorageID(req.StorageID) {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, req.StorageID)
	}

	if _, err := s.blobs.Stat(ctx, req.StorageID); err != nil {
		return nil, MapRepoError(err, "locating file")
	}
	url, err := s.blobs.PresignGet(ctx, req.StorageID, s.fileName(ctx, req.StorageID))
	if err != nil {
		return nil, fmt.Errorf("presigning file %s: %w", req.StorageID, err)
	}
	return &dto.FileURLResponse{
		StorageID: req.StorageID,
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(s.urlTTL),
	}, nil
}

// OpenFile streams a stored blob through the API for clients that cannot follow presigned URLs.
func (s *uploadService) OpenFile(ctx context.Context, req *dto.FileRequest) (*dto.FileContent, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}
	if !validStorageID(req.StorageID) {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, req.StorageID)
	}

	body, info, err := s.blobs.Open(ctx, req.StorageID)
	if err != nil {
		return nil, MapRepoError(err, "opening file")
	}
	return &dto.FileContent{
		Body:        body,
		FileName:    s.fileName(ctx, req.StorageID),
		ContentType: info.ContentType,
		Size:        info.Size,
	}, nil
}

func (s *uploadService) fileName(ctx context.Context, storageID string) string {
	upload, err := s.uploads.GetByStorageID(ctx, storageID)
	if err != nil {
		return storageID
	}
	return firstNonBlank(upload.FileName, storageID)
}
