package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"job-board-api/internal/models"
	"job-board-api/internal/services"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRegister(t *testing.T) {
	api := setupAPI(t)
	userID := uuid.New()

	api.users.On("Register", mock.Anything, mock.MatchedBy(func(r *dto.RegisterRequest) bool {
		return r.Email == "ada@example.com" && r.Name == "Ada"
	})).Return(&models.User{ID: userID, Name: "Ada", Email: "ada@example.com"}, nil)

	w := api.do(t, request{
		method: http.MethodPost,
		path:   "/api/v1/users/register",
		body:   jsonBody(t, obj{"name": "Ada", "email": "ada@example.com", "password": "analytical"}),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode[dto.UserResponse](t, w)
	assert.Equal(t, userID, resp.ID)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_ValidationFails(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, request{
		method: http.MethodPost,
		path:   "/api/v1/users/register",
		body:   jsonBody(t, obj{"name": "Ada", "email": "not-an-email", "password": "short"}),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[errorBody](t, w)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Contains(t, resp.Details, "Email")
	assert.Contains(t, resp.Details, "Password")
	api.users.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	api := setupAPI(t)
	api.users.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrConflict)

	w := api.do(t, request{
		method: http.MethodPost,
		path:   "/api/v1/users/register",
		body:   jsonBody(t, obj{"name": "Ada", "email": "ada@example.com", "password": "analytical"}),
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	api := setupAPI(t)
	api.users.On("Login", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidCredentials)

	w := api.do(t, request{
		method: http.MethodPost,
		path:   "/api/v1/users/login",
		body:   jsonBody(t, obj{"email": "ada@example.com", "password": "wrong"}),
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decode[errorBody](t, w).Error)
}

func TestMe(t *testing.T) {
	api := setupAPI(t)
	userID := uuid.New()

	api.users.On("GetByID", mock.Anything, &dto.GetUserByIDRequest{ID: userID}).
		Return(&models.User{ID: userID, Name: "Ada", IsAdmin: true}, nil)

	w := api.do(t, request{method: http.MethodGet, path: "/api/v1/users/me", user: userID})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.UserResponse](t, w).IsAdmin)
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{"missing header", "", "Authorization header required"},
		{"wrong scheme", "Basic abc", "Invalid Authorization header format"},
		{"garbage token", "Bearer not.a.token", "Invalid token"},
		{"expired token", "Bearer " + generateTestToken(t, userID, -time.Minute), "Token has expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := setupAPI(t)
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}

			w := api.do(t, request{method: http.MethodGet, path: "/api/v1/users/me", headers: headers})

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantMsg, decode[errorBody](t, w).Error)
		})
	}
}

func TestHealthAndOpenAPIDocument(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, request{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	w = api.do(t, request{method: http.MethodGet, path: "/openapi.yaml"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/admin/forms")
}
