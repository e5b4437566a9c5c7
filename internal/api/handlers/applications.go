package handlers

import (
	"net/http"

	"job-board-api/internal/services"
	"job-board-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ApplicationHandler serves form resolution, submission and application review.
type ApplicationHandler struct {
	service   services.ApplicationService
	validator *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(service services.ApplicationService, validate *validator.Validate) *ApplicationHandler {
	return &ApplicationHandler{service: service, validator: validate}
}

// GetJobForm godoc
// @Summary      Resolve the application form of a job
// @Description  Returns the form that applies to the job with its render plan. available=false means no form applies.
// @Tags         applications
// @Produce      json
// @Param        id path string true "Job ID" Format(uuid)
// @Success      200  {object}  dto.FormResolutionResponse
// @Failure      404  {object}  map[string]string "Job Not Found"
// @Router       /jobs/{id}/form [get]
func (h *ApplicationHandler) GetJobForm(c *gin.Context) {
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	resp, err := h.service.ResolveForm(c.Request.Context(), &dto.ResolveFormRequest{JobID: jobID})
	if err != nil {
		respondError(c, err, "Failed to resolve form")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ValidateSubmission godoc
// @Summary      Check a filled form without submitting it
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id          path string                       true "Job ID" Format(uuid)
// @Param        application body dto.SubmitApplicationRequest true "Filled form"
// @Success      200  {object}  dto.ValidateSubmissionResponse
// @Failure      404  {object}  map[string]string "Job Not Found"
// @Failure      422  {object}  map[string]string "No form applies"
// @Router       /jobs/{id}/form/validate [post]
// @Security     BearerAuth
func (h *ApplicationHandler) ValidateSubmission(c *gin.Context) {
	req, ok := h.submission(c)
	if !ok {
		return
	}

	resp, err := h.service.ValidateSubmission(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to validate submission")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Submit godoc
// @Summary      Apply to a job
// @Description  Captures the filled form. Each call creates a new application.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id          path string                       true "Job ID" Format(uuid)
// @Param        application body dto.SubmitApplicationRequest true "Filled form"
// @Success      201  {object}  dto.SubmitApplicationResponse
// @Failure      400  {object}  map[string]string "Invalid submission"
// @Failure      403  {object}  map[string]string "File belongs to another user"
// @Failure      404  {object}  map[string]string "Job Not Found"
// @Failure      422  {object}  map[string]string "No form applies"
// @Router       /jobs/{id}/applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Submit(c *gin.Context) {
	req, ok := h.submission(c)
	if !ok {
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to submit application")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMine godoc
// @Summary      List my applications
// @Tags         applications
// @Produce      json
// @Success      200  {array}   models.Application
// @Router       /applications/mine [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	apps, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

// ListByJob godoc
// @Summary      List the applications of a job
// @Tags         applications
// @Produce      json
// @Param        id path string true "Job ID" Format(uuid)
// @Success      200  {array}   models.Application
// @Failure      403  {object}  map[string]string "Forbidden"
// @Router       /jobs/{id}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	apps, err := h.service.ListByJob(c.Request.Context(), &dto.ListApplicationsByJobRequest{JobID: jobID, ActorID: actorID})
	if err != nil {
		respondError(c, err, "Failed to list applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

// GetApplication godoc
// @Summary      Get an application with download links for its files
// @Tags         applications
// @Produce      json
// @Param        id path string true "Application ID" Format(uuid)
// @Success      200  {object}  dto.ApplicationDetailResponse
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "Application Not Found"
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	req, ok := h.applicationRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.GetApplication(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to retrieve application")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Move an application through review
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id     path string                              true "Application ID" Format(uuid)
// @Param        status body dto.UpdateApplicationStatusRequest true "New status"
// @Success      200  {object}  models.Application
// @Failure      400  {object}  map[string]string "Unknown status"
// @Failure      403  {object}  map[string]string "Forbidden"
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	base, ok := h.applicationRequest(c)
	if !ok {
		return
	}
	var req dto.UpdateApplicationStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID, req.ActorID = base.ID, base.ActorID
	if !validate(c, h.validator, &req) {
		return
	}

	app, err := h.service.UpdateStatus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to update application status")
		return
	}
	c.JSON(http.StatusOK, app)
}

// DeleteApplication godoc
// @Summary      Delete an application and its files
// @Tags         applications
// @Produce      json
// @Param        id path string true "Application ID" Format(uuid)
// @Success      200  {object}  dto.DeleteResponse
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "Application Not Found"
// @Router       /applications/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	req, ok := h.applicationRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.DeleteApplication(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to delete application")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AttachFile godoc
// @Summary      Attach an uploaded file to an application field
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id   path string                true "Application ID" Format(uuid)
// @Param        file body dto.AttachFileRequest true "Storage reference"
// @Success      201  {object}  models.ApplicationFile
// @Failure      400  {object}  map[string]string "Unknown storage id"
// @Failure      403  {object}  map[string]string "Forbidden"
// @Router       /applications/{id}/files [post]
// @Security     BearerAuth
func (h *ApplicationHandler) AttachFile(c *gin.Context) {
	base, ok := h.applicationRequest(c)
	if !ok {
		return
	}
	var req dto.AttachFileRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ApplicationID, req.ActorID = base.ID, base.ActorID
	if !validate(c, h.validator, &req) {
		return
	}

	file, err := h.service.AttachFile(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to attach file")
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (h *ApplicationHandler) submission(c *gin.Context) (*dto.SubmitApplicationRequest, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return nil, false
	}
	var req dto.SubmitApplicationRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	req.JobID, req.UserID = jobID, userID
	if !validate(c, h.validator, &req) {
		return nil, false
	}
	return &req, true
}

func (h *ApplicationHandler) applicationRequest(c *gin.Context) (*dto.ApplicationRequest, bool) {
	actorID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	appID, ok := pathUUID(c, "id", "application")
	if !ok {
		return nil, false
	}
	return &dto.ApplicationRequest{ID: appID, ActorID: actorID}, true
}
