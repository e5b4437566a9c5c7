package services_test

import (
	"context"
	"errors"
	"testing"

	mock_storage "job-board-api/internal/mocks"
	"job-board-api/internal/models"
	"job-board-api/internal/services"
	"job-board-api/internal/storage"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type jobServiceMocks struct {
	jobs    *mock_storage.MockJobRepository
	users   *mock_storage.MockUserRepository
	blobs   *mock_storage.MockBlobStore
	cleanup *mock_storage.MockBlobCleanupRepository
}

func setupJobServiceTest(t *testing.T) (context.Context, services.JobService, jobServiceMocks) {
	ctrl := newController(t)
	m := jobServiceMocks{
		jobs:    mock_storage.NewMockJobRepository(ctrl),
		users:   mock_storage.NewMockUserRepository(ctrl),
		blobs:   mock_storage.NewMockBlobStore(ctrl),
		cleanup: mock_storage.NewMockBlobCleanupRepository(ctrl),
	}
	expectUsers(m.users)
	return context.Background(), services.NewJobService(m.jobs, m.users, m.blobs, m.cleanup), m
}

func TestJobService_CreateJob_Success(t *testing.T) {
	ctx, svc, m := setupJobServiceTest(t)

	req := &dto.CreateJobRequest{
		Title:          " Backend Engineer ",
		Company:        "Acme",
		EmploymentType: "full-time",
		Requirements:   []string{"Go"},
		ActorID:        adminID,
	}
	m.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job *models.Job) (*models.Job, error) {
			assert.Equal(t, "Backend Engineer", job.Title)
			require.NotNil(t, job.PostedBy)
			assert.Equal(t, adminID, *job.PostedBy)
			return job, nil
		}).Times(1)

	job, err := svc.CreateJob(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "Acme", job.Company)
}

func TestJobService_CreateJob_RequiresAdmin(t *testing.T) {
	for name, actor := range map[string]uuid.UUID{
		"non-admin":       applicantID,
		"unknown user":    uuid.New(),
		"unauthenticated": uuid.Nil,
	} {
		t.Run(name, func(t *testing.T) {
			ctx, svc, _ := setupJobServiceTest(t)

			_, err := svc.CreateJob(ctx, &dto.CreateJobRequest{Title: "x", Company: "y", ActorID: actor})

			assert.ErrorIs(t, err, services.ErrForbidden)
		})
	}
}

func TestJobService_AdminCheckFailsClosed(t *testing.T) {
	ctrl := newController(t)
	users := mock_storage.NewMockUserRepository(ctrl)
	users.EXPECT().GetByID(gomock.Any(), adminID).Return(nil, errors.New("connection reset")).Times(1)
	svc := services.NewJobService(mock_storage.NewMockJobRepository(ctrl), users,
		mock_storage.NewMockBlobStore(ctrl), mock_storage.NewMockBlobCleanupRepository(ctrl))

	_, err := svc.DeleteJob(context.Background(), &dto.DeleteJobRequest{ID: uuid.New(), ActorID: adminID})

	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestJobService_GetJobByID_NotFound(t *testing.T) {
	ctx, svc, m := setupJobServiceTest(t)
	id := uuid.New()
	m.jobs.EXPECT().GetByID(gomock.Any(), id).Return(nil, storage.ErrNotFound).Times(1)

	_, err := svc.GetJobByID(ctx, &dto.GetJobByIDRequest{ID: id})

	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestJobService_UpdateJob_PinsAndClearsForm(t *testing.T) {
	jobID := uuid.New()
	formID := uuid.New()

	t.Run("pin", func(t *testing.T) {
		ctx, svc, m := setupJobServiceTest(t)
		m.jobs.EXPECT().GetByID(gomock.Any(), jobID).Return(&models.Job{ID: jobID, Title: "Old"}, nil)
		m.jobs.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, job *models.Job) (*models.Job, error) { return job, nil })

		job, err := svc.UpdateJob(ctx, &dto.UpdateJobRequest{ID: jobID, Title: ptr("New"), FormID: ptrUUID(formID), ActorID: adminID})

		require.NoError(t, err)
		assert.Equal(t, "New", job.Title)
		assert.Equal(t, &formID, job.FormID)
	})

	t.Run("clear", func(t *testing.T) {
		ctx, svc, m := setupJobServiceTest(t)
		m.jobs.EXPECT().GetByID(gomock.Any(), jobID).Return(&models.Job{ID: jobID, FormID: ptrUUID(formID)}, nil)
		m.jobs.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, job *models.Job) (*models.Job, error) { return job, nil })

		job, err := svc.UpdateJob(ctx, &dto.UpdateJobRequest{ID: jobID, ClearForm: true, ActorID: adminID})

		require.NoError(t, err)
		assert.Nil(t, job.FormID)
	})

	t.Run("unknown form", func(t *testing.T) {
		ctx, svc, m := setupJobServiceTest(t)
		m.jobs.EXPECT().GetByID(gomock.Any(), jobID).Return(&models.Job{ID: jobID}, nil)
		m.jobs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil, storage.ErrReferenced)

		_, err := svc.UpdateJob(ctx, &dto.UpdateJobRequest{ID: jobID, FormID: ptrUUID(formID), ActorID: adminID})

		assert.ErrorIs(t, err, services.ErrValidation)
	})
}

func TestJobService_DeleteJob_ReleasesFiles(t *testing.T) {
	ctx, svc, m := setupJobServiceTest(t)
	jobID := uuid.New()

	m.jobs.EXPECT().Delete(gomock.Any(), jobID).Return([]string{"a", "b"}, nil).Times(1)
	m.blobs.EXPECT().Delete(gomock.Any(), "a").Return(nil)
	m.blobs.EXPECT().Delete(gomock.Any(), "b").Return(errors.New("throttled"))
	m.cleanup.EXPECT().Enqueue(gomock.Any(), []string{"b"}, gomock.Any()).Return(nil).Times(1)

	resp, err := svc.DeleteJob(ctx, &dto.DeleteJobRequest{ID: jobID, ActorID: adminID})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.DeletedFiles)
	assert.Equal(t, 1, resp.PendingFiles)
}

func TestJobService_DeleteJob_NotFound(t *testing.T) {
	ctx, svc, m := setupJobServiceTest(t)
	jobID := uuid.New()
	m.jobs.EXPECT().Delete(gomock.Any(), jobID).Return(nil, storage.ErrNotFound)

	_, err := svc.DeleteJob(ctx, &dto.DeleteJobRequest{ID: jobID, ActorID: adminID})

	assert.ErrorIs(t, err, services.ErrNotFound)
}
