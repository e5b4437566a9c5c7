package handlers

import "github.com/gin-gonic/gin"

// UserHandlerInterface defines the methods needed by the user routes.
type UserHandlerInterface interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Me(c *gin.Context)
}

// JobHandlerInterface defines the methods needed by the job routes.
type JobHandlerInterface interface {
	CreateJob(c *gin.Context)
	GetJobByID(c *gin.Context)
	ListJobs(c *gin.Context)
	UpdateJob(c *gin.Context)
	DeleteJob(c *gin.Context)
}

// FormHandlerInterface defines the methods needed by the admin form routes.
type FormHandlerInterface interface {
	CreateForm(c *gin.Context)
	ListForms(c *gin.Context)
	GetForm(c *gin.Context)
	UpdateForm(c *gin.Context)
	DeleteForm(c *gin.Context)
	SetDefault(c *gin.Context)
	ReplaceFields(c *gin.Context)
	ReorderFields(c *gin.Context)
	MoveField(c *gin.Context)
	ExportForm(c *gin.Context)
	ImportForm(c *gin.Context)
}

// ApplicationHandlerInterface defines the methods needed by the application routes.
type ApplicationHandlerInterface interface {
	GetJobForm(c *gin.Context)
	ValidateSubmission(c *gin.Context)
	Submit(c *gin.Context)
	ListMine(c *gin.Context)
	ListByJob(c *gin.Context)
	GetApplication(c *gin.Context)
	UpdateStatus(c *gin.Context)
	DeleteApplication(c *gin.Context)
	AttachFile(c *gin.Context)
}

// UploadHandlerInterface defines the methods needed by the upload and file routes.
type UploadHandlerInterface interface {
	CreateTicket(c *gin.Context)
	Upload(c *gin.Context)
	FileURL(c *gin.Context)
	FileContent(c *gin.Context)
}

// Ensure handlers implement the interfaces (compile-time check)
var (
	_ UserHandlerInterface        = (*UserHandler)(nil)
	_ JobHandlerInterface         = (*JobHandler)(nil)
	_ FormHandlerInterface        = (*FormHandler)(nil)
	_ ApplicationHandlerInterface = (*ApplicationHandler)(nil)
	_ UploadHandlerInterface      = (*UploadHandler)(nil)
)
