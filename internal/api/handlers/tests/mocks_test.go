package handlers_test

import (
	"context"

	"job-board-api/internal/forms"
	"job-board-api/internal/models"
	"job-board-api/internal/services"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ret0 returns the first mocked value as T, treating an explicit nil as the zero value.
func ret0[T any](args mock.Arguments) T {
	var zero T
	if v, ok := args.Get(0).(T); ok {
		return v
	}
	return zero
}

// MockUserService is a mock type for services.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	return ret0[*models.User](args), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.LoginResponse](args), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, req *dto.GetUserByIDRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	return ret0[*models.User](args), args.Error(1)
}

// MockJobService is a mock type for services.JobService
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Job](args), args.Error(1)
}

func (m *MockJobService) GetJobByID(ctx context.Context, req *dto.GetJobByIDRequest) (*models.Job, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Job](args), args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context, req *dto.ListJobsRequest) ([]models.Job, error) {
	args := m.Called(ctx, req)
	return ret0[[]models.Job](args), args.Error(1)
}

func (m *MockJobService) UpdateJob(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Job](args), args.Error(1)
}

func (m *MockJobService) DeleteJob(ctx context.Context, req *dto.DeleteJobRequest) (*dto.DeleteResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.DeleteResponse](args), args.Error(1)
}

// MockFormService is a mock type for services.FormService
type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) CreateForm(ctx context.Context, req *dto.CreateFormRequest) (*models.Form, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Form](args), args.Error(1)
}

func (m *MockFormService) GetForm(ctx context.Context, req *dto.FormRequest) (*models.Form, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Form](args), args.Error(1)
}

func (m *MockFormService) ListForms(ctx context.Context, req *dto.ListFormsRequest) ([]models.Form, error) {
	args := m.Called(ctx, req)
	return ret0[[]models.Form](args), args.Error(1)
}

func (m *MockFormService) UpdateForm(ctx context.Context, req *dto.UpdateFormRequest) (*models.Form, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Form](args), args.Error(1)
}

func (m *MockFormService) DeleteForm(ctx context.Context, req *dto.FormRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockFormService) SetDefault(ctx context.Context, req *dto.FormRequest) (*models.Form, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Form](args), args.Error(1)
}

func (m *MockFormService) ReplaceFields(ctx context.Context, req *dto.ReplaceFieldsRequest) (*models.Form, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Form](args), args.Error(1)
}

func (m *MockFormService) ReorderFields(ctx context.Context, req *dto.ReorderFieldsRequest) (*models.Form, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Form](args), args.Error(1)
}

func (m *MockFormService) MoveField(ctx context.Context, req *dto.MoveFieldRequest) (*models.Form, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Form](args), args.Error(1)
}

func (m *MockFormService) ExportForm(ctx context.Context, req *dto.ExportFormRequest) ([]byte, forms.Format, error) {
	args := m.Called(ctx, req)
	return ret0[[]byte](args), args.Get(1).(forms.Format), args.Error(2)
}

func (m *MockFormService) ImportForm(ctx context.Context, req *dto.ImportFormRequest) (*models.Form, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Form](args), args.Error(1)
}

func (m *MockFormService) ResolveForJob(ctx context.Context, jobID uuid.UUID) (forms.Resolution, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(forms.Resolution), args.Error(1)
}

// MockApplicationService is a mock type for services.ApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) ResolveForm(ctx context.Context, req *dto.ResolveFormRequest) (*dto.FormResolutionResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.FormResolutionResponse](args), args.Error(1)
}

func (m *MockApplicationService) ValidateSubmission(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.ValidateSubmissionResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.ValidateSubmissionResponse](args), args.Error(1)
}

func (m *MockApplicationService) Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.SubmitApplicationResponse](args), args.Error(1)
}

func (m *MockApplicationService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Application, error) {
	args := m.Called(ctx, userID)
	return ret0[[]models.Application](args), args.Error(1)
}

func (m *MockApplicationService) ListByJob(ctx context.Context, req *dto.ListApplicationsByJobRequest) ([]models.Application, error) {
	args := m.Called(ctx, req)
	return ret0[[]models.Application](args), args.Error(1)
}

func (m *MockApplicationService) GetApplication(ctx context.Context, req *dto.ApplicationRequest) (*dto.ApplicationDetailResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.ApplicationDetailResponse](args), args.Error(1)
}

func (m *MockApplicationService) UpdateStatus(ctx context.Context, req *dto.UpdateApplicationStatusRequest) (*models.Application, error) {
	args := m.Called(ctx, req)
	return ret0[*models.Application](args), args.Error(1)
}

func (m *MockApplicationService) DeleteApplication(ctx context.Context, req *dto.ApplicationRequest) (*dto.DeleteResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.DeleteResponse](args), args.Error(1)
}

func (m *MockApplicationService) AttachFile(ctx context.Context, req *dto.AttachFileRequest) (*models.ApplicationFile, error) {
	args := m.Called(ctx, req)
	return ret0[*models.ApplicationFile](args), args.Error(1)
}

// MockUploadService is a mock type for services.UploadService
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) CreateTicket(ctx context.Context, req *dto.CreateUploadTicketRequest) (*dto.UploadTicketResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.UploadTicketResponse](args), args.Error(1)
}

func (m *MockUploadService) Upload(ctx context.Context, req *dto.UploadFileRequest) (*dto.UploadResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.UploadResponse](args), args.Error(1)
}

func (m *MockUploadService) FileURL(ctx context.Context, req *dto.FileRequest) (*dto.FileURLResponse, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.FileURLResponse](args), args.Error(1)
}

func (m *MockUploadService) OpenFile(ctx context.Context, req *dto.FileRequest) (*dto.FileContent, error) {
	args := m.Called(ctx, req)
	return ret0[*dto.FileContent](args), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ services.UserService        = (*MockUserService)(nil)
	_ services.JobService         = (*MockJobService)(nil)
	_ services.FormService        = (*MockFormService)(nil)
	_ services.ApplicationService = (*MockApplicationService)(nil)
	_ services.UploadService      = (*MockUploadService)(nil)
)
