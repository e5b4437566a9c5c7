package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"job-board-api/internal/services"
	"job-board-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxImportBytes = 1 << 20

// FormHandler serves the admin form builder.
type FormHandler struct {
	service   services.FormService
	validator *validator.Validate
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(service services.FormService, validate *validator.Validate) *FormHandler {
	return &FormHandler{service: service, validator: validate}
}

// CreateForm godoc
// @Summary      Create a form
// @Description  Creates a form with its fields. Setting is_default makes it the single default form.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        form body      dto.CreateFormRequest true "Form and field definitions"
// @Success      201  {object}  models.Form
// @Failure      400  {object}  map[string]string "Invalid definitions"
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      409  {object}  map[string]string "Conflict"
// @Router       /admin/forms [post]
// @Security     BearerAuth
func (h *FormHandler) CreateForm(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateFormRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ActorID = actorID
	if !validate(c, h.validator, &req) {
		return
	}

	form, err := h.service.CreateForm(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create form")
		return
	}
	c.JSON(http.StatusCreated, form)
}

// ListForms godoc
// @Summary      List forms
// @Tags         forms
// @Produce      json
// @Success      200  {array}   models.Form
// @Failure      403  {object}  map[string]string "Forbidden"
// @Router       /admin/forms [get]
// @Security     BearerAuth
func (h *FormHandler) ListForms(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.service.ListForms(c.Request.Context(), &dto.ListFormsRequest{ActorID: actorID})
	if err != nil {
		respondError(c, err, "Failed to list forms")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetForm godoc
// @Summary      Get a form with its fields
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID" Format(uuid)
// @Success      200  {object}  models.Form
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "Form Not Found"
// @Router       /admin/forms/{id} [get]
// @Security     BearerAuth
func (h *FormHandler) GetForm(c *gin.Context) {
	req, ok := h.formRequest(c)
	if !ok {
		return
	}

	form, err := h.service.GetForm(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to retrieve form")
		return
	}
	c.JSON(http.StatusOK, form)
}

// UpdateForm godoc
// @Summary      Update form metadata
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id   path string                true "Form ID" Format(uuid)
// @Param        form body dto.UpdateFormRequest true "Fields to update"
// @Success      200  {object}  models.Form
// @Failure      400  {object}  map[string]string "Bad Request"
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "Form Not Found"
// @Router       /admin/forms/{id} [patch]
// @Security     BearerAuth
func (h *FormHandler) UpdateForm(c *gin.Context) {
	base, ok := h.formRequest(c)
	if !ok {
		return
	}
	var req dto.UpdateFormRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID, req.ActorID = base.ID, base.ActorID
	if !validate(c, h.validator, &req) {
		return
	}

	form, err := h.service.UpdateForm(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to update form")
		return
	}
	c.JSON(http.StatusOK, form)
}

// DeleteForm godoc
// @Summary      Delete a form
// @Description  Jobs that pinned the form fall back to the next resolution step.
// @Tags         forms
// @Param        id path string true "Form ID" Format(uuid)
// @Success      204
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "Form Not Found"
// @Router       /admin/forms/{id} [delete]
// @Security     BearerAuth
func (h *FormHandler) DeleteForm(c *gin.Context) {
	req, ok := h.formRequest(c)
	if !ok {
		return
	}

	if err := h.service.DeleteForm(c.Request.Context(), req); err != nil {
		respondError(c, err, "Failed to delete form")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetDefault godoc
// @Summary      Make a form the default
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID" Format(uuid)
// @Success      200  {object}  models.Form
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "Form Not Found"
// @Router       /admin/forms/{id}/default [put]
// @Security     BearerAuth
func (h *FormHandler) SetDefault(c *gin.Context) {
	req, ok := h.formRequest(c)
	if !ok {
		return
	}

	form, err := h.service.SetDefault(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to set default form")
		return
	}
	c.JSON(http.StatusOK, form)
}

// ReplaceFields godoc
// @Summary      Replace every field of a form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id     path string                   true "Form ID" Format(uuid)
// @Param        fields body dto.ReplaceFieldsRequest true "New field list"
// @Success      200  {object}  models.Form
// @Failure      400  {object}  map[string]string "Invalid definitions"
// @Failure      403  {object}  map[string]string "Forbidden"
// @Router       /admin/forms/{id}/fields [put]
// @Security     BearerAuth
func (h *FormHandler) ReplaceFields(c *gin.Context) {
	base, ok := h.formRequest(c)
	if !ok {
		return
	}
	var req dto.ReplaceFieldsRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID, req.ActorID = base.ID, base.ActorID
	if !validate(c, h.validator, &req) {
		return
	}

	form, err := h.service.ReplaceFields(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to replace fields")
		return
	}
	c.JSON(http.StatusOK, form)
}

// ReorderFields godoc
// @Summary      Reorder the fields of a form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id    path string                   true "Form ID" Format(uuid)
// @Param        order body dto.ReorderFieldsRequest true "Every field id in its new position"
// @Success      200  {object}  models.Form
// @Failure      400  {object}  map[string]string "Order does not match the form"
// @Router       /admin/forms/{id}/fields/order [put]
// @Security     BearerAuth
func (h *FormHandler) ReorderFields(c *gin.Context) {
	base, ok := h.formRequest(c)
	if !ok {
		return
	}
	var req dto.ReorderFieldsRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID, req.ActorID = base.ID, base.ActorID
	if !validate(c, h.validator, &req) {
		return
	}

	form, err := h.service.ReorderFields(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to reorder fields")
		return
	}
	c.JSON(http.StatusOK, form)
}

// MoveField godoc
// @Summary      Move one field to a new position
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id   path string               true "Form ID" Format(uuid)
// @Param        move body dto.MoveFieldRequest true "Source and target positions"
// @Success      200  {object}  models.Form
// @Failure      400  {object}  map[string]string "Position out of range"
// @Router       /admin/forms/{id}/fields/move [post]
// @Security     BearerAuth
func (h *FormHandler) MoveField(c *gin.Context) {
	base, ok := h.formRequest(c)
	if !ok {
		return
	}
	var req dto.MoveFieldRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID, req.ActorID = base.ID, base.ActorID
	if !validate(c, h.validator, &req) {
		return
	}

	form, err := h.service.MoveField(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to move field")
		return
	}
	c.JSON(http.StatusOK, form)
}

// ExportForm godoc
// @Summary      Export a form definition
// @Tags         forms
// @Produce      json
// @Produce      application/yaml
// @Param        id     path  string true  "Form ID" Format(uuid)
// @Param        format query string false "json or yaml" default(json)
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string "Unknown format"
// @Failure      404  {object}  map[string]string "Form Not Found"
// @Router       /admin/forms/{id}/export [get]
// @Security     BearerAuth
func (h *FormHandler) ExportForm(c *gin.Context) {
	base, ok := h.formRequest(c)
	if !ok {
		return
	}
	req := dto.ExportFormRequest{ID: base.ID, ActorID: base.ActorID, Format: strings.ToLower(c.Query("format"))}
	if !validate(c, h.validator, &req) {
		return
	}

	data, format, err := h.service.ExportForm(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to export form")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="form-%s.%s"`, req.ID, format))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// ImportForm godoc
// @Summary      Import a form definition
// @Description  Creates a new, non-default form from an export document. The format comes from ?format= or the Content-Type.
// @Tags         forms
// @Accept       json
// @Accept       application/yaml
// @Produce      json
// @Param        format query string false "json or yaml"
// @Param        job_id query string false "Bind the imported form to this job" Format(uuid)
// @Success      201  {object}  models.Form
// @Failure      400  {object}  map[string]string "Invalid document"
// @Router       /admin/forms/import [post]
// @Security     BearerAuth
func (h *FormHandler) ImportForm(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}

	req := dto.ImportFormRequest{ActorID: actorID, Format: importFormat(c)}
	if raw := c.Query("job_id"); raw != "" {
		jobID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
			return
		}
		req.JobID = &jobID
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if len(data) > maxImportBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Import document too large"})
		return
	}
	req.Data = data

	form, err := h.service.ImportForm(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to import form")
		return
	}
	c.JSON(http.StatusCreated, form)
}

func importFormat(c *gin.Context) string {
	if f := c.Query("format"); f != "" {
		return f
	}
	if strings.Contains(c.ContentType(), "yaml") {
		return "yaml"
	}
	return "json"
}

func (h *FormHandler) formRequest(c *gin.Context) (*dto.FormRequest, bool) {
	actorID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	formID, ok := pathUUID(c, "id", "form")
	if !ok {
		return nil, false
	}
	return &dto.FormRequest{ID: formID, ActorID: actorID}, true
}
