package dto

import (
	"github.com/google/uuid"
)

// FieldInput is one field definition as sent by the form builder.
type FieldInput struct {
	FieldType   string   `json:"field_type" validate:"required"`
	Label       string   `json:"label" validate:"required,max=200"`
	Name        string   `json:"name" validate:"required,max=100"`
	Required    bool     `json:"required"`
	Placeholder *string  `json:"placeholder,omitempty" validate:"omitempty,max=200"`
	Options     []string `json:"options,omitempty" validate:"omitempty,dive,max=200"`
	Validation  *string  `json:"validation,omitempty" validate:"omitempty,max=500"`
	Order       *int     `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// CreateFormRequest defines the structure for creating a form with its fields.
type CreateFormRequest struct {
	Title       string       `json:"title" validate:"required,min=2,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	JobID       *uuid.UUID   `json:"job_id,omitempty"`
	IsDefault   bool         `json:"is_default"`
	Fields      []FieldInput `json:"fields" validate:"omitempty,dive"`
	ActorID     uuid.UUID    `json:"-"`
}

// FormRequest addresses one form on behalf of an actor.
type FormRequest struct {
	ID      uuid.UUID `json:"-" validate:"required"`
	ActorID uuid.UUID `json:"-"`
}

// ListFormsRequest is sent by the admin console form list.
type ListFormsRequest struct {
	ActorID uuid.UUID `json:"-"`
}

// UpdateFormRequest patches form metadata. Nil fields are left unchanged.
type UpdateFormRequest struct {
	ID          uuid.UUID  `json:"-" validate:"required"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	JobID       *uuid.UUID `json:"job_id,omitempty"`
	UnbindJob   bool       `json:"unbind_job,omitempty"`
	IsDefault   *bool      `json:"is_default,omitempty"`
	ActorID     uuid.UUID  `json:"-"`
}

// ReplaceFieldsRequest replaces every field of a form.
type ReplaceFieldsRequest struct {
	ID      uuid.UUID    `json:"-" validate:"required"`
	Fields  []FieldInput `json:"fields" validate:"omitempty,dive"`
	ActorID uuid.UUID    `json:"-"`
}

// ReorderFieldsRequest lists the form's field ids in their new order.
type ReorderFieldsRequest struct {
	ID       uuid.UUID   `json:"-" validate:"required"`
	FieldIDs []uuid.UUID `json:"field_ids" validate:"required"`
	ActorID  uuid.UUID   `json:"-"`
}

// MoveFieldRequest moves one field, as a drag and drop in the builder does.
type MoveFieldRequest struct {
	ID      uuid.UUID `json:"-" validate:"required"`
	From    int       `json:"from" validate:"gte=0"`
	To      int       `json:"to" validate:"gte=0"`
	ActorID uuid.UUID `json:"-"`
}

// ExportFormRequest selects the form and encoding of an export.
type ExportFormRequest struct {
	ID      uuid.UUID `json:"-" validate:"required"`
	Format  string    `form:"format" validate:"omitempty,oneof=json yaml yml"`
	ActorID uuid.UUID `json:"-"`
}

// ImportFormRequest carries an export document to be created as a new form.
type ImportFormRequest struct {
	Data    []byte     `json:"-"`
	Format  string     `json:"-"`
	JobID   *uuid.UUID `json:"-"`
	ActorID uuid.UUID  `json:"-"`
}
