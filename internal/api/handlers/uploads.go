package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"job-board-api/internal/services"
	"job-board-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FileNameHeader carries the original file name of a raw upload body.
const FileNameHeader = "X-File-Name"

// UploadHandler serves ticketed uploads and admin file access.
type UploadHandler struct {
	service   services.UploadService
	validator *validator.Validate
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service services.UploadService, validate *validator.Validate) *UploadHandler {
	return &UploadHandler{service: service, validator: validate}
}

// CreateTicket godoc
// @Summary      Request a one-time upload target
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        upload body dto.CreateUploadTicketRequest false "Expected file"
// @Success      201  {object}  dto.UploadTicketResponse
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Router       /uploads [post]
// @Security     BearerAuth
func (h *UploadHandler) CreateTicket(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateUploadTicketRequest
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.UserID = userID
	if !validate(c, h.validator, &req) {
		return
	}

	resp, err := h.service.CreateTicket(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create upload ticket")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Upload godoc
// @Summary      Upload file bytes with a ticket
// @Description  The raw request body is the file. The ticket can be used once.
// @Tags         uploads
// @Accept       application/octet-stream
// @Produce      json
// @Param        ticket      path   string true  "Upload ticket"
// @Param        X-File-Name header string false "Original file name"
// @Success      201  {object}  dto.UploadResponse
// @Failure      400  {object}  map[string]string "Empty or oversized body"
// @Failure      404  {object}  map[string]string "Unknown or used ticket"
// @Router       /uploads/{ticket} [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	req := dto.UploadFileRequest{
		Ticket:   c.Param("ticket"),
		FileName: c.GetHeader(FileNameHeader),
		FileType: c.ContentType(),
		Size:     c.Request.ContentLength,
		Body:     c.Request.Body,
	}

	resp, err := h.service.Upload(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to store upload")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// FileURL godoc
// @Summary      Get a short-lived download URL for a stored file
// @Tags         files
// @Produce      json
// @Param        storageId path string true "Storage ID"
// @Success      200  {object}  dto.FileURLResponse
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "File Not Found"
// @Router       /files/{storageId} [get]
// @Security     BearerAuth
func (h *UploadHandler) FileURL(c *gin.Context) {
	req, ok := h.fileRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.FileURL(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to resolve file")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FileContent godoc
// @Summary      Stream a stored file
// @Tags         files
// @Produce      octet-stream
// @Param        storageId path string true "Storage ID"
// @Success      200  {file}    file
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "File Not Found"
// @Router       /files/{storageId}/content [get]
// @Security     BearerAuth
func (h *UploadHandler) FileContent(c *gin.Context) {
	req, ok := h.fileRequest(c)
	if !ok {
		return
	}

	content, err := h.service.OpenFile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to open file")
		return
	}
	defer content.Body.Close()

	headers := map[string]string{}
	if content.FileName != "" {
		headers["Content-Disposition"] = fmt.Sprintf(`attachment; filename="%s"`, content.FileName)
	}
	c.DataFromReader(http.StatusOK, content.Size, content.ContentType, content.Body, headers)
}

func (h *UploadHandler) fileRequest(c *gin.Context) (*dto.FileRequest, bool) {
	actorID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	req := dto.FileRequest{StorageID: c.Param("storageId"), ActorID: actorID}
	if !validate(c, h.validator, &req) {
		return nil, false
	}
	return &req, true
}
