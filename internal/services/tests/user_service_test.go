package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-board-api/config"
	mock_storage "job-board-api/internal/mocks"
	"job-board-api/internal/models"
	"job-board-api/internal/services"
	"job-board-api/internal/storage"
	"job-board-api/internal/transport/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtSecret   = "test-secret-key"
	jwtDuration = 15 * time.Minute
)

var testJWT = config.JWTConfig{Secret: jwtSecret, Expiration: jwtDuration, Issuer: "job-board-test"}

func setupUserServiceTest(t *testing.T) (context.Context, services.UserService, *mock_storage.MockUserRepository) {
	ctrl := newController(t)
	repo := mock_storage.NewMockUserRepository(ctrl)
	return context.Background(), services.NewUserService(repo, testJWT), repo
}

func TestUserService_Register(t *testing.T) {
	repoErrDbConnectionLost := errors.New("database connection lost")

	tests := []struct {
		name          string
		mockSetup     func(repo *mock_storage.MockUserRepository)
		expectedError error
		errorContains string
	}{
		{
			name: "Success",
			mockSetup: func(repo *mock_storage.MockUserRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, u *models.User) (*models.User, error) {
						assert.Equal(t, "ada@example.com", u.Email)
						assert.Equal(t, "Ada Lovelace", u.Name)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
						assert.False(t, u.IsAdmin)
						return u, nil
					}).Times(1)
			},
		},
		{
			name: "Conflict - Duplicate Email",
			mockSetup: func(repo *mock_storage.MockUserRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, storage.ErrConflict).Times(1)
			},
			expectedError: services.ErrConflict,
		},
		{
			name: "Repository Error",
			mockSetup: func(repo *mock_storage.MockUserRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, repoErrDbConnectionLost).Times(1)
			},
			expectedError: repoErrDbConnectionLost,
			errorContains: "internal error during creating user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, svc, repo := setupUserServiceTest(t)
			tt.mockSetup(repo)

			user, err := svc.Register(ctx, &dto.RegisterRequest{
				Name:     " Ada Lovelace ",
				Email:    "Ada@Example.com",
				Password: "password123",
			})

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ada@example.com", user.Email)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: applicantID, Name: "Ada", Email: "ada@example.com", PasswordHash: string(hash)}

	t.Run("Success", func(t *testing.T) {
		ctx, svc, repo := setupUserServiceTest(t)
		repo.EXPECT().GetByEmail(gomock.Any(), "ada@example.com").Return(stored, nil).Times(1)

		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "ADA@example.com", Password: "password123"})

		require.NoError(t, err)
		assert.Equal(t, applicantID, resp.User.ID)
		assert.WithinDuration(t, time.Now().Add(jwtDuration), resp.ExpiresAt, 5*time.Second)

		claims := &services.AuthClaims{}
		token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) {
			return []byte(jwtSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, applicantID.String(), claims.Subject)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.Equal(t, "job-board-test", claims.Issuer)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		ctx, svc, repo := setupUserServiceTest(t)
		repo.EXPECT().GetByEmail(gomock.Any(), "ada@example.com").Return(stored, nil).Times(1)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "nope"})

		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		ctx, svc, repo := setupUserServiceTest(t)
		repo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, storage.ErrNotFound).Times(1)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "password123"})

		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	ctx, svc, repo := setupUserServiceTest(t)
	id := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, storage.ErrNotFound).Times(1)

	_, err := svc.GetByID(ctx, &dto.GetUserByIDRequest{ID: id})

	assert.ErrorIs(t, err, services.ErrNotFound)
}
