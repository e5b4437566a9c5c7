package services_test

import (
	"context"
	"testing"

	mock_storage "job-board-api/internal/mocks"
	"job-board-api/internal/models"
	"job-board-api/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

var (
	adminID     = uuid.New()
	applicantID = uuid.New()
	strangerID  = uuid.New()
)

// Helper to create a pointer to a string
func ptr(s string) *string { return &s }

// Helper to create a pointer to a UUID
func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func adminUser() *models.User {
	return &models.User{ID: adminID, Name: "Admin", Email: "admin@example.com", IsAdmin: true}
}

func applicantUser() *models.User {
	return &models.User{ID: applicantID, Name: "Ada Lovelace", Email: "ada@example.com"}
}

// expectUsers answers user lookups for the fixed test accounts. Unknown ids are not found.
func expectUsers(repo *mock_storage.MockUserRepository) {
	repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id uuid.UUID) (*models.User, error) {
			switch id {
			case adminID:
				return adminUser(), nil
			case applicantID:
				return applicantUser(), nil
			case strangerID:
				return &models.User{ID: strangerID, Name: "Eve", Email: "eve@example.com"}, nil
			default:
				return nil, storage.ErrNotFound
			}
		}).AnyTimes()
}

func newController(t *testing.T) *gomock.Controller {
	t.Helper()
	return gomock.NewController(t)
}
