package integration_tests

import (
	"testing"
	"time"

	"job-board-api/internal/models"
	"job-board-api/internal/storage/postgres"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityFormRequest(actor dto.CreateFormRequest) *dto.CreateFormRequest {
	actor.Title = "Identity"
	actor.Fields = []dto.FieldInput{
		{FieldType: "text", Label: "Full name", Name: "fullName", Required: true},
		{FieldType: "email", Label: "Email", Name: "email", Required: true},
		{FieldType: "file", Label: "Resume", Name: "resume"},
		{FieldType: "file", Label: "ID card (front)", Name: "idCardFront", Required: true},
	}
	return &actor
}

func TestApplicationFlow_SubmitReviewDelete(t *testing.T) {
	ctx, env := setupEnv(t)

	form, err := env.forms.CreateForm(ctx, identityFormRequest(dto.CreateFormRequest{ActorID: env.admin.ID}))
	require.NoError(t, err)
	job := createTestJob(t, ctx, env.pool, env.admin.ID, &form.ID)
	idCard := env.uploadAs(t, ctx, env.applicant.ID, "front.png")

	submitted, err := env.applications.Submit(ctx, &dto.SubmitApplicationRequest{
		JobID:   job.ID,
		UserID:  env.applicant.ID,
		Address: "1 Analytical Way",
		FormData: map[string]models.FormValue{
			"fullName":    models.ScalarValue("Ada Lovelace"),
			"email":       models.ScalarValue("ada@engine.org"),
			"idCardFront": models.FileValue(idCard, "", "", 0),
		},
	})
	require.NoError(t, err)
	assert.Empty(t, submitted.Warnings)
	require.Len(t, submitted.Files, 1)
	assert.Equal(t, submitted.Application.ID, submitted.Files[0].ApplicationID)
	assert.Equal(t, "idCardFront", submitted.Files[0].FieldName)
	assert.NotContains(t, submitted.Application.FormData, "resume")

	detail, err := env.applications.GetApplication(ctx, &dto.ApplicationRequest{ID: submitted.Application.ID, ActorID: env.admin.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", detail.Application.FullName)
	assert.Equal(t, "1 Analytical Way", detail.Application.Address)
	assert.Equal(t, "front.png", detail.FormData["idCardFront"].FileName)
	assert.NotEmpty(t, detail.FormData["idCardFront"].URL)

	// a second submission is a second application
	again, err := env.applications.Submit(ctx, &dto.SubmitApplicationRequest{
		JobID:  job.ID,
		UserID: env.applicant.ID,
		FormData: map[string]models.FormValue{
			"fullName": models.ScalarValue("Ada Lovelace"),
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, submitted.Application.ID, again.Application.ID)

	deleted, err := env.applications.DeleteApplication(ctx, &dto.ApplicationRequest{ID: submitted.Application.ID, ActorID: env.admin.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted.DeletedFiles)
	assert.False(t, env.blobs.has(idCard))

	rows, err := postgres.NewApplicationFileRepo(env.pool).ListByApplication(ctx, submitted.Application.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestApplicationFlow_SharedBlobSurvivesFirstDelete(t *testing.T) {
	ctx, env := setupEnv(t)

	form, err := env.forms.CreateForm(ctx, identityFormRequest(dto.CreateFormRequest{ActorID: env.admin.ID}))
	require.NoError(t, err)
	job := createTestJob(t, ctx, env.pool, env.admin.ID, &form.ID)
	cv := env.uploadAs(t, ctx, env.applicant.ID, "cv.pdf")

	var ids []uuid.UUID
	for range 2 {
		resp, err := env.applications.Submit(ctx, &dto.SubmitApplicationRequest{
			JobID:    job.ID,
			UserID:   env.applicant.ID,
			FormData: map[string]models.FormValue{"resume": models.FileValue(cv, "", "", 0)},
		})
		require.NoError(t, err)
		ids = append(ids, resp.Application.ID)
	}

	first, err := env.applications.DeleteApplication(ctx, &dto.ApplicationRequest{ID: ids[0], ActorID: env.admin.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, first.DeletedFiles)
	assert.True(t, env.blobs.has(cv))

	second, err := env.applications.DeleteApplication(ctx, &dto.ApplicationRequest{ID: ids[1], ActorID: env.admin.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, second.DeletedFiles)
	assert.False(t, env.blobs.has(cv))
}

func TestApplicationFlow_DeleteJobCascades(t *testing.T) {
	ctx, env := setupEnv(t)

	form, err := env.forms.CreateForm(ctx, identityFormRequest(dto.CreateFormRequest{ActorID: env.admin.ID}))
	require.NoError(t, err)
	job := createTestJob(t, ctx, env.pool, env.admin.ID, &form.ID)
	cv := env.uploadAs(t, ctx, env.applicant.ID, "cv.pdf")
	env.blobs.failing[cv] = true

	_, err = env.applications.Submit(ctx, &dto.SubmitApplicationRequest{
		JobID:    job.ID,
		UserID:   env.applicant.ID,
		FormData: map[string]models.FormValue{"resume": models.FileValue(cv, "", "", 0)},
	})
	require.NoError(t, err)

	resp, err := env.jobs.DeleteJob(ctx, &dto.DeleteJobRequest{ID: job.ID, ActorID: env.admin.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.PendingFiles)

	mine, err := env.applications.ListMine(ctx, env.applicant.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	queued, err := postgres.NewBlobCleanupRepo(env.pool).Due(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, cv, queued[0].StorageID)
}
