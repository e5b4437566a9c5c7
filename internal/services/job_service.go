package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"job-board-api/internal/models"
	"job-board-api/internal/storage"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
)

type jobService struct {
	jobRepo storage.JobRepository
	admins  adminGate
	blobs   blobReleaser
}

// NewJobService creates a new instance of JobService.
func NewJobService(jobRepo storage.JobRepository, userRepo storage.UserRepository, blobs storage.BlobStore, cleanup storage.BlobCleanupRepository) JobService {
	return &jobService{
		jobRepo: jobRepo,
		admins:  adminGate{users: userRepo},
		blobs:   blobReleaser{blobs: blobs, cleanup: cleanup},
	}
}

func (s *jobService) CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	actor := req.ActorID
	job, err := s.jobRepo.Create(ctx, &models.Job{
		ID:             uuid.New(),
		Title:          strings.TrimSpace(req.Title),
		Company:        strings.TrimSpace(req.Company),
		Location:       strings.TrimSpace(req.Location),
		EmploymentType: req.EmploymentType,
		Salary:         req.Salary,
		Description:    req.Description,
		Requirements:   req.Requirements,
		FormID:         req.FormID,
		PostedBy:       &actor,
	})
	if err != nil {
		return nil, MapRepoError(err, "creating job")
	}
	return job, nil
}

func (s *jobService) GetJobByID(ctx context.Context, req *dto.GetJobByIDRequest) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "getting job by ID")
	}
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, req *dto.ListJobsRequest) ([]models.Job, error) {
	jobs, err := s.jobRepo.List(ctx, req)
	if err != nil {
		return nil, MapRepoError(err, "listing jobs")
	}
	return jobs, nil
}

func (s *jobService) UpdateJob(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "fetching job for update")
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Company != nil {
		job.Company = strings.TrimSpace(*req.Company)
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.EmploymentType != nil {
		job.EmploymentType = *req.EmploymentType
	}
	if req.Salary != nil {
		job.Salary = req.Salary
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = req.Requirements
	}
	switch {
	case req.ClearForm:
		job.FormID = nil
	case req.FormID != nil:
		job.FormID = req.FormID
	}

	updated, err := s.jobRepo.Update(ctx, job)
	if err != nil {
		return nil, MapRepoError(err, "updating job")
	}
	return updated, nil
}

// DeleteJob removes the job with all of its applications and releases the files they held.
func (s *jobService) DeleteJob(ctx context.Context, req *dto.DeleteJobRequest) (*dto.DeleteResponse, error) {
	if _, err := s.admins.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	released, err := s.jobRepo.Delete(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "deleting job")
	}

	deleted, pending := s.blobs.release(ctx, released, fmt.Sprintf("job %s deleted", req.ID))
	slog.InfoContext(ctx, "job deleted", "job_id", req.ID, "actor_id", req.ActorID, "deleted_files", deleted, "pending_files", pending)
	return &dto.DeleteResponse{DeletedFiles: deleted, PendingFiles: pending, DeletedAt: time.Now().UTC()}, nil
}
