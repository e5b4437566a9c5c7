package routes

import (
	"job-board-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterUploadRoutes registers ticketed uploads and admin file access.
// The upload itself is authorized by its one-time ticket, not by a token.
func RegisterUploadRoutes(rg *gin.RouterGroup, uploadHandler handlers.UploadHandlerInterface, authMiddleware gin.HandlerFunc) {
	rg.POST("/uploads", authMiddleware, uploadHandler.CreateTicket)
	rg.POST("/uploads/:ticket", uploadHandler.Upload)

	files := rg.Group("/files")
	files.Use(authMiddleware)
	{
		files.GET("/:storageId", uploadHandler.FileURL)
		files.GET("/:storageId/content", uploadHandler.FileContent)
	}
}
