package routes

import (
	"log/slog"
	"net/http"

	"job-board-api/internal/api/handlers"
	"job-board-api/internal/api/middleware"
	"job-board-api/internal/api/openapi"
	"job-board-api/internal/app"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(router *gin.Engine, app *app.Application) {
	apiV1 := router.Group("/api/v1")

	userHandler := handlers.NewUserHandler(app.Users, app.Validator)
	jobHandler := handlers.NewJobHandler(app.Jobs, app.Validator)
	formHandler := handlers.NewFormHandler(app.Forms, app.Validator)
	appHandler := handlers.NewApplicationHandler(app.Applications, app.Validator)
	uploadHandler := handlers.NewUploadHandler(app.Uploads, app.Validator)

	authMiddleware := middleware.JWTAuthMiddleware(app.Config.JWT.Secret, app.Config.JWT.Issuer)

	formMiddlewares := []gin.HandlerFunc{authMiddleware}
	if app.OpenAPI != nil {
		formMiddlewares = append(formMiddlewares, middleware.OpenAPIValidator(app.OpenAPI))
	}

	RegisterUserRoutes(apiV1, userHandler, authMiddleware)
	RegisterJobRoutes(apiV1, jobHandler, appHandler, authMiddleware)
	RegisterFormRoutes(apiV1, formHandler, formMiddlewares...)
	RegisterApplicationRoutes(apiV1, appHandler, authMiddleware)
	RegisterUploadRoutes(apiV1, uploadHandler, authMiddleware)

	router.GET("/health", handlers.NewHealthHandler(app.HealthChecks).HealthCheck)

	router.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openapi.Spec)
	})
	slog.Debug("configuring swagger ui handler")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.yaml")))
}
