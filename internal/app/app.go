package app

import (
	"job-board-api/config"
	"job-board-api/internal/api/handlers"
	"job-board-api/internal/services"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-playground/validator/v10"
)

// Application holds core application dependencies.
type Application struct {
	Config    *config.Config
	Validator *validator.Validate
	// OpenAPI, when set, validates admin form requests before they reach a handler.
	OpenAPI      *openapi3.T
	HealthChecks map[string]handlers.Pinger

	Users        services.UserService
	Jobs         services.JobService
	Forms        services.FormService
	Applications services.ApplicationService
	Uploads      services.UploadService
}
