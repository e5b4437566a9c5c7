package routes

import (
	"job-board-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes registers job postings plus the applicant side of a job:
// its resolved form, the pre-submit check and submission.
func RegisterJobRoutes(
	rg *gin.RouterGroup,
	jobHandler handlers.JobHandlerInterface,
	appHandler handlers.ApplicationHandlerInterface,
	authMiddleware gin.HandlerFunc,
) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", jobHandler.ListJobs)
		jobs.GET("/:id", jobHandler.GetJobByID)
		jobs.GET("/:id/form", appHandler.GetJobForm)
	}

	authed := jobs.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("", jobHandler.CreateJob)
		authed.PATCH("/:id", jobHandler.UpdateJob)
		authed.DELETE("/:id", jobHandler.DeleteJob)
		authed.POST("/:id/form/validate", appHandler.ValidateSubmission)
		authed.POST("/:id/applications", appHandler.Submit)
		authed.GET("/:id/applications", appHandler.ListByJob)
	}
}
