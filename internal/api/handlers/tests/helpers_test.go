package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"job-board-api/config"
	"job-board-api/internal/api/middleware"
	"job-board-api/internal/api/openapi"
	"job-board-api/internal/api/routes"
	"job-board-api/internal/app"
	"job-board-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "job-board-test"
)

type testAPI struct {
	router       *gin.Engine
	users        *MockUserService
	jobs         *MockJobService
	forms        *MockFormService
	applications *MockApplicationService
	uploads      *MockUploadService
}

// setupAPI registers every route against mocked services, with the openapi validator enabled.
func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	spec, err := middleware.LoadOpenAPI(context.Background(), openapi.Spec)
	require.NoError(t, err)

	api := &testAPI{
		router:       gin.New(),
		users:        new(MockUserService),
		jobs:         new(MockJobService),
		forms:        new(MockFormService),
		applications: new(MockApplicationService),
		uploads:      new(MockUploadService),
	}
	routes.RegisterRoutes(api.router, &app.Application{
		Config:       &config.Config{JWT: config.JWTConfig{Secret: testSecret, Issuer: testIssuer}},
		Validator:    validator.New(),
		OpenAPI:      spec,
		Users:        api.users,
		Jobs:         api.jobs,
		Forms:        api.forms,
		Applications: api.applications,
		Uploads:      api.uploads,
	})

	t.Cleanup(func() {
		api.users.AssertExpectations(t)
		api.jobs.AssertExpectations(t)
		api.forms.AssertExpectations(t)
		api.applications.AssertExpectations(t)
		api.uploads.AssertExpectations(t)
	})
	return api
}

func generateTestToken(t *testing.T, userID uuid.UUID, expiration time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := &services.AuthClaims{
		Email: "someone@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

type request struct {
	method  string
	path    string
	body    io.Reader
	user    uuid.UUID
	headers map[string]string
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func (api *testAPI) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.user != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+generateTestToken(t, r.user, time.Hour))
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// obj is a short alias for JSON request bodies.
type obj = map[string]any

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}
