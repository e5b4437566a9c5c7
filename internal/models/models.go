package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// --- Field Type Enum ---
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "phone"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeFile     FieldType = "file"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeURL      FieldType = "url"
)

// FieldTypes lists every accepted field type in the order the builder offers them.
var FieldTypes = []FieldType{
	FieldTypeText, FieldTypeEmail, FieldTypePhone, FieldTypeTextarea, FieldTypeSelect,
	FieldTypeCheckbox, FieldTypeRadio, FieldTypeFile, FieldTypeNumber, FieldTypeDate, FieldTypeURL,
}

// Valid reports whether ft is a known field type.
func (ft FieldType) Valid() bool {
	for _, known := range FieldTypes {
		if ft == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether the type draws its value from Options.
func (ft FieldType) HasOptions() bool {
	return ft == FieldTypeSelect || ft == FieldTypeRadio
}

// Scan implements the sql.Scanner interface for FieldType
func (ft *FieldType) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan FieldType: value is not string or []byte")
		}
	}
	v := FieldType(strVal)
	if !v.Valid() {
		return fmt.Errorf("invalid FieldType value: %s", strVal)
	}
	*ft = v
	return nil
}

// Value implements the driver.Valuer interface for FieldType
func (ft FieldType) Value() (driver.Value, error) {
	return string(ft), nil
}

// --- Application Status Enum ---
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Scan implements the sql.Scanner interface for ApplicationStatus
func (s *ApplicationStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan ApplicationStatus: value is not string or []byte")
		}
	}
	v := ApplicationStatus(strVal)
	switch v {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected:
		*s = v
		return nil
	default:
		return fmt.Errorf("invalid ApplicationStatus value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for ApplicationStatus
func (s ApplicationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// User represents an account. Admins manage jobs, forms and applications.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Job is a posting applicants can apply to. FormID optionally pins the application form.
type Job struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Company        string     `json:"company" db:"company"`
	Location       string     `json:"location" db:"location"`
	EmploymentType string     `json:"employment_type" db:"employment_type"`
	Salary         *string    `json:"salary,omitempty" db:"salary"`
	Description    string     `json:"description" db:"description"`
	Requirements   []string   `json:"requirements" db:"requirements"`
	FormID         *uuid.UUID `json:"form_id,omitempty" db:"form_id"`
	PostedBy       *uuid.UUID `json:"posted_by,omitempty" db:"posted_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// FieldDefinition is one configurable input of a Form. Name is the submission key.
type FieldDefinition struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FormID      uuid.UUID `json:"form_id" db:"form_id"`
	FieldType   FieldType `json:"field_type" db:"field_type"`
	Label       string    `json:"label" db:"label"`
	Name        string    `json:"name" db:"name"`
	Required    bool      `json:"required" db:"required"`
	Placeholder *string   `json:"placeholder,omitempty" db:"placeholder"`
	Options     []string  `json:"options" db:"options"`
	Validation  *string   `json:"validation,omitempty" db:"validation"`
	Order       int       `json:"order" db:"sort_order"`
}

// Form is a named, ordered collection of field definitions.
// IsDefault is derived from the default_form pointer row, never stored on the form itself.
type Form struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	Title       string            `json:"title" db:"title"`
	Description *string           `json:"description,omitempty" db:"description"`
	JobID       *uuid.UUID        `json:"job_id,omitempty" db:"job_id"`
	IsDefault   bool              `json:"is_default" db:"is_default"`
	Fields      []FieldDefinition `json:"fields" db:"-"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// Application is one applicant's submission against one job.
type Application struct {
	ID           uuid.UUID            `json:"id" db:"id"`
	JobID        uuid.UUID            `json:"job_id" db:"job_id"`
	UserID       uuid.UUID            `json:"user_id" db:"user_id"`
	FormID       *uuid.UUID           `json:"form_id,omitempty" db:"form_id"`
	FullName     string               `json:"full_name" db:"full_name"`
	Email        string               `json:"email" db:"email"`
	Phone        string               `json:"phone" db:"phone"`
	Address      string               `json:"address" db:"address"`
	ResumeURL    *string              `json:"resume_url,omitempty" db:"resume_url"`
	CoverLetter  *string              `json:"cover_letter,omitempty" db:"cover_letter"`
	Skills       *string              `json:"skills,omitempty" db:"skills"`
	Salary       *string              `json:"salary,omitempty" db:"salary"`
	Availability *string              `json:"availability,omitempty" db:"availability"`
	Status       ApplicationStatus    `json:"status" db:"status"`
	FormData     map[string]FormValue `json:"form_data" db:"form_data"`
	CreatedAt    time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" db:"updated_at"`
}

// ApplicationFile links an uploaded blob to the application and form field that produced it.
type ApplicationFile struct {
	ID            uuid.UUID `json:"id" db:"id"`
	StorageID     string    `json:"storage_id" db:"storage_id"`
	FileName      string    `json:"file_name" db:"file_name"`
	FileType      string    `json:"file_type" db:"file_type"`
	FileSize      int64     `json:"file_size" db:"file_size"`
	ApplicationID uuid.UUID `json:"application_id" db:"application_id"`
	FieldName     string    `json:"field_name" db:"field_name"`
	UploadedAt    time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// Upload records a blob that reached storage through an upload ticket.
// Uploads never referenced by an application are reaped by the reconciler.
type Upload struct {
	StorageID  string     `json:"storage_id" db:"storage_id"`
	FileName   string     `json:"file_name" db:"file_name"`
	FileType   string     `json:"file_type" db:"file_type"`
	FileSize   int64      `json:"file_size" db:"file_size"`
	UploadedBy *uuid.UUID `json:"uploaded_by,omitempty" db:"uploaded_by"`
	UploadedAt time.Time  `json:"uploaded_at" db:"uploaded_at"`
}

// BlobCleanup is a queued storage deletion that has not succeeded yet.
type BlobCleanup struct {
	StorageID     string    `db:"storage_id"`
	Attempts      int       `db:"attempts"`
	LastError     *string   `db:"last_error"`
	EnqueuedAt    time.Time `db:"enqueued_at"`
	NextAttemptAt time.Time `db:"next_attempt_at"`
}
