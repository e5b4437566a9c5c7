package routes

import (
	"job-board-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterApplicationRoutes registers application review and file attachment.
func RegisterApplicationRoutes(rg *gin.RouterGroup, appHandler handlers.ApplicationHandlerInterface, authMiddleware gin.HandlerFunc) {
	apps := rg.Group("/applications")
	apps.Use(authMiddleware)
	{
		apps.GET("/mine", appHandler.ListMine)
		apps.GET("/:id", appHandler.GetApplication)
		apps.PATCH("/:id/status", appHandler.UpdateStatus)
		apps.DELETE("/:id", appHandler.DeleteApplication)
		apps.POST("/:id/files", appHandler.AttachFile)
	}
}
