package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"job-board-api/internal/models"
)

// ExportVersion is written into every export and is the only version Import accepts.
const ExportVersion = 1

// Format selects the encoding of an export document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a query value to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the response media type for the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Export is the portable form of a form definition. Ids are left out so it can be
// imported anywhere as a new form.
type Export struct {
	Version     int           `json:"version" yaml:"version"`
	Title       string        `json:"title" yaml:"title"`
	Description *string       `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []ExportField `json:"fields" yaml:"fields"`
}

type ExportField struct {
	FieldType   models.FieldType `json:"fieldType" yaml:"fieldType"`
	Label       string           `json:"label" yaml:"label"`
	Name        string           `json:"name" yaml:"name"`
	Required    bool             `json:"required" yaml:"required"`
	Placeholder *string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string         `json:"options" yaml:"options"`
	Validation  *string          `json:"validation,omitempty" yaml:"validation,omitempty"`
	Order       int              `json:"order" yaml:"order"`
}

// ExportForm snapshots a form with its fields in render order.
func ExportForm(form *models.Form) Export {
	fields := SortFields(form.Fields)
	out := Export{
		Version:     ExportVersion,
		Title:       form.Title,
		Description: form.Description,
		Fields:      make([]ExportField, 0, len(fields)),
	}
	for _, f := range fields {
		options := f.Options
		if options == nil {
			options = []string{}
		}
		out.Fields = append(out.Fields, ExportField{
			FieldType:   f.FieldType,
			Label:       f.Label,
			Name:        f.Name,
			Required:    f.Required,
			Placeholder: f.Placeholder,
			Options:     options,
			Validation:  f.Validation,
			Order:       f.Order,
		})
	}
	return out
}

// Definitions turns the export back into field definitions without ids.
func (e Export) Definitions() []models.FieldDefinition {
	defs := make([]models.FieldDefinition, 0, len(e.Fields))
	for _, f := range e.Fields {
		options := f.Options
		if options == nil {
			options = []string{}
		}
		defs = append(defs, models.FieldDefinition{
			FieldType:   f.FieldType,
			Label:       f.Label,
			Name:        f.Name,
			Required:    f.Required,
			Placeholder: f.Placeholder,
			Options:     options,
			Validation:  f.Validation,
			Order:       f.Order,
		})
	}
	return defs
}

// Encode writes the export in the requested format.
func (e Export) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(e); err != nil {
			return nil, fmt.Errorf("encode form export as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode form export as yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode form export as json: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// DecodeExport parses an export document and checks its version.
func DecodeExport(data []byte, format Format) (Export, error) {
	var e Export
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&e); err != nil {
			return Export{}, fmt.Errorf("decode form export: %w", err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&e); err != nil {
			return Export{}, fmt.Errorf("decode form export: %w", err)
		}
	default:
		return Export{}, fmt.Errorf("unsupported export format %q", format)
	}
	if e.Version != ExportVersion {
		return Export{}, fmt.Errorf("unsupported export version %d", e.Version)
	}
	return e, nil
}
