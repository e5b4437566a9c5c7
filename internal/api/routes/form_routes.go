package routes

import (
	"job-board-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterFormRoutes registers the admin form builder. Every route needs a token;
// the admin check itself happens in the form service.
func RegisterFormRoutes(rg *gin.RouterGroup, formHandler handlers.FormHandlerInterface, middlewares ...gin.HandlerFunc) {
	admin := rg.Group("/admin/forms")
	admin.Use(middlewares...)
	{
		admin.GET("", formHandler.ListForms)
		admin.POST("", formHandler.CreateForm)
		admin.POST("/import", formHandler.ImportForm)
		admin.GET("/:id", formHandler.GetForm)
		admin.PATCH("/:id", formHandler.UpdateForm)
		admin.DELETE("/:id", formHandler.DeleteForm)
		admin.PUT("/:id/default", formHandler.SetDefault)
		admin.PUT("/:id/fields", formHandler.ReplaceFields)
		admin.PUT("/:id/fields/order", formHandler.ReorderFields)
		admin.POST("/:id/fields/move", formHandler.MoveField)
		admin.GET("/:id/export", formHandler.ExportForm)
	}
}
