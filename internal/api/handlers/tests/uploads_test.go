package handlers_test

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"job-board-api/internal/services"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateTicket_EmptyBody(t *testing.T) {
	api := setupAPI(t)
	userID := uuid.New()
	api.uploads.On("CreateTicket", mock.Anything, &dto.CreateUploadTicketRequest{UserID: userID}).
		Return(&dto.UploadTicketResponse{Ticket: "tkt", UploadURL: "/api/v1/uploads/tkt", ExpiresAt: time.Now().Add(time.Minute)}, nil)

	w := api.do(t, request{method: http.MethodPost, path: "/api/v1/uploads", user: userID})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tkt", decode[dto.UploadTicketResponse](t, w).Ticket)
}

func TestUpload_RawBody(t *testing.T) {
	api := setupAPI(t)
	api.uploads.On("Upload", mock.Anything, mock.MatchedBy(func(r *dto.UploadFileRequest) bool {
		return r.Ticket == "tkt" && r.FileName == "cv.pdf" && r.FileType == "application/pdf" && r.Size == 8
	})).Return(&dto.UploadResponse{Kind: "file", StorageID: "blob-1", FileName: "cv.pdf", FileType: "application/pdf", FileSize: 8}, nil)

	w := api.do(t, request{
		method:  http.MethodPost,
		path:    "/api/v1/uploads/tkt",
		body:    strings.NewReader("%PDF-1.7"),
		headers: map[string]string{"Content-Type": "application/pdf", "X-File-Name": "cv.pdf"},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "blob-1", decode[dto.UploadResponse](t, w).StorageID)
}

func TestUpload_UsedTicket(t *testing.T) {
	api := setupAPI(t)
	api.uploads.On("Upload", mock.Anything, mock.Anything).Return(nil, services.ErrNotFound)

	w := api.do(t, request{method: http.MethodPost, path: "/api/v1/uploads/used", body: strings.NewReader("x")})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileContent_Streams(t *testing.T) {
	api := setupAPI(t)
	actorID := uuid.New()
	api.uploads.On("OpenFile", mock.Anything, &dto.FileRequest{StorageID: "blob-1", ActorID: actorID}).
		Return(&dto.FileContent{
			Body:        io.NopCloser(strings.NewReader("resume bytes")),
			FileName:    "cv.pdf",
			ContentType: "application/pdf",
			Size:        12,
		}, nil)

	w := api.do(t, request{method: http.MethodGet, path: "/api/v1/files/blob-1/content", user: actorID})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "resume bytes", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cv.pdf")
}

func TestFileURL_Forbidden(t *testing.T) {
	api := setupAPI(t)
	api.uploads.On("FileURL", mock.Anything, mock.Anything).Return(nil, services.ErrForbidden)

	w := api.do(t, request{method: http.MethodGet, path: "/api/v1/files/blob-1", user: uuid.New()})

	assert.Equal(t, http.StatusForbidden, w.Code)
}
