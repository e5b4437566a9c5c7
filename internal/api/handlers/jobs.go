package handlers

import (
	"net/http"

	"job-board-api/internal/services"
	"job-board-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// JobHandler holds dependencies for job operations.
type JobHandler struct {
	service   services.JobService
	validator *validator.Validate
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(service services.JobService, validate *validator.Validate) *JobHandler {
	return &JobHandler{
		service:   service,
		validator: validate,
	}
}

// CreateJob godoc
// @Summary      Create a new job posting
// @Description  Admin only. A job may pin the form applicants fill in.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job body      dto.CreateJobRequest true  "Job details"
// @Success      201 {object}  models.Job
// @Failure      400 {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) CreateJob(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ActorID = actorID
	if !validate(c, h.validator, &req) {
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create job")
		return
	}
	c.JSON(http.StatusCreated, job)
}

// GetJobByID godoc
// @Summary      Get a job by ID
// @Tags         jobs
// @Produce      json
// @Param        id path      string true  "Job ID" Format(uuid)
// @Success      200 {object}  models.Job
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJobByID(c *gin.Context) {
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.service.GetJobByID(c.Request.Context(), &dto.GetJobByIDRequest{ID: jobID})
	if err != nil {
		respondError(c, err, "Failed to retrieve job")
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobs godoc
// @Summary      List job postings
// @Tags         jobs
// @Produce      json
// @Param        limit query int false "Pagination limit" default(20)
// @Param        offset query int false "Pagination offset" default(0)
// @Param        q query string false "Search in title and company"
// @Param        employment_type query string false "Employment type filter"
// @Success      200 {array}   models.Job
// @Failure      400 {object}  map[string]string "Invalid query parameters"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if !validate(c, h.validator, &req) {
		return
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to list jobs")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// UpdateJob godoc
// @Summary      Update a job posting
// @Description  Admin only. Nil fields are left unchanged; clear_form unpins the form.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id  path      string               true "Job ID" Format(uuid)
// @Param        job body      dto.UpdateJobRequest true "Fields to update"
// @Success      200 {object}  models.Job
// @Failure      400 {object}  map[string]string "Bad Request - Invalid input"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id} [patch]
// @Security     BearerAuth
func (h *JobHandler) UpdateJob(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID = jobID
	req.ActorID = actorID
	if !validate(c, h.validator, &req) {
		return
	}

	job, err := h.service.UpdateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to update job")
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob godoc
// @Summary      Delete a job posting
// @Description  Admin only. Removes the job's applications and their stored files.
// @Tags         jobs
// @Produce      json
// @Param        id path      string true  "Job ID" Format(uuid)
// @Success      200 {object}  dto.DeleteResponse
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) DeleteJob(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	resp, err := h.service.DeleteJob(c.Request.Context(), &dto.DeleteJobRequest{ID: jobID, ActorID: actorID})
	if err != nil {
		respondError(c, err, "Failed to delete job")
		return
	}
	c.JSON(http.StatusOK, resp)
}
