package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petDoc = `
openapi: 3.0.3
info: {title: test, version: "1"}
servers: [{url: "https://api.example.com"}]
paths:
  /pets:
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name: {type: string, minLength: 2}
      responses:
        "201": {description: created}
`

func TestLogger_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			userID := uuid.New()
			r := gin.New()
			r.Use(Logger(slog.New(slog.NewJSONHandler(&buf, nil))))
			r.GET("/things/:id", func(c *gin.Context) {
				SetUserID(c, userID)
				c.Status(tt.status)
			})

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/1", nil))

			var rec map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
			assert.Equal(t, tt.level, rec["level"])
			assert.Equal(t, "/things/:id", rec["route"])
			assert.Equal(t, float64(tt.status), rec["status"])
			assert.Equal(t, userID.String(), rec["user_id"])
		})
	}
}

func TestLoadOpenAPI_ClearsServers(t *testing.T) {
	doc, err := LoadOpenAPI(context.Background(), []byte(petDoc))

	require.NoError(t, err)
	assert.Nil(t, doc.Servers)
	assert.NotNil(t, doc.Paths.Find("/pets"))
}

func TestLoadOpenAPI_RejectsGarbage(t *testing.T) {
	_, err := LoadOpenAPI(context.Background(), []byte("openapi: [nope"))

	assert.Error(t, err)
}

func TestOpenAPIValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	doc, err := LoadOpenAPI(context.Background(), []byte(petDoc))
	require.NoError(t, err)

	r := gin.New()
	r.Use(OpenAPIValidator(doc))
	r.POST("/pets", func(c *gin.Context) { c.Status(http.StatusCreated) })

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"name":"Rex"}`, http.StatusCreated},
		{"missing name", `{}`, http.StatusBadRequest},
		{"too short", `{"name":"R"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusBadRequest {
				assert.Contains(t, w.Body.String(), "Request does not match the API schema")
			}
		})
	}
}
