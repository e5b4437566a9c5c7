// Package forms holds the dynamic application-form engine: field definition rules,
// the render plan handed to clients, submission capture and validation, export and
// import of form definitions, and drag-and-drop reordering. Nothing here touches
// storage; services feed it models and persist what it returns.
package forms

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"job-board-api/internal/models"
)

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// NormalizeDefinitions trims text attributes and drops options on types that never read them.
// It returns a new slice and leaves the input untouched.
func NormalizeDefinitions(fields []models.FieldDefinition) []models.FieldDefinition {
	out := make([]models.FieldDefinition, len(fields))
	for i, f := range fields {
		f.Label = strings.TrimSpace(f.Label)
		f.Name = strings.TrimSpace(f.Name)
		f.FieldType = models.FieldType(strings.ToLower(strings.TrimSpace(string(f.FieldType))))
		f.Placeholder = trimOptional(f.Placeholder)
		f.Validation = trimOptional(f.Validation)

		options := make([]string, 0, len(f.Options))
		for _, opt := range f.Options {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		if !f.FieldType.HasOptions() && f.FieldType != models.FieldTypeCheckbox {
			options = []string{}
		}
		f.Options = options
		out[i] = f
	}
	return out
}

// ValidateDefinitions checks a complete field set for one form.
// Names must be unique: they key both client state and the persisted formData,
// so two fields sharing a name would overwrite each other's answers.
func ValidateDefinitions(fields []models.FieldDefinition) error {
	var errs FieldErrors
	seen := make(map[string]int, len(fields))

	for i, f := range fields {
		prefix := fmt.Sprintf("fields[%d]", i)

		if !f.FieldType.Valid() {
			errs.add(prefix+".field_type", "unknown field type %q", f.FieldType)
		}
		if f.Label == "" {
			errs.add(prefix+".label", "label is required")
		}
		switch {
		case f.Name == "":
			errs.add(prefix+".name", "name is required")
		case !fieldNamePattern.MatchString(f.Name):
			errs.add(prefix+".name", "name %q must start with a letter and contain only letters, digits or underscores", f.Name)
		default:
			if first, dup := seen[f.Name]; dup {
				errs.add(prefix+".name", "name %q is already used by fields[%d]", f.Name, first)
			} else {
				seen[f.Name] = i
			}
		}

		if f.FieldType.HasOptions() && len(f.Options) == 0 {
			errs.add(prefix+".options", "%s fields need at least one option", f.FieldType)
		}
		if dupOpt := firstDuplicate(f.Options); dupOpt != "" {
			errs.add(prefix+".options", "option %q is listed more than once", dupOpt)
		}
		if f.Validation != nil && *f.Validation != "" {
			if _, err := compilePattern(*f.Validation); err != nil {
				errs.add(prefix+".validation", "invalid pattern: %v", err)
			}
		}
	}
	return errs.orNil()
}

// SortFields returns the fields in render order: ascending Order, ties kept in input order.
func SortFields(fields []models.FieldDefinition) []models.FieldDefinition {
	out := slices.Clone(fields)
	slices.SortStableFunc(out, func(a, b models.FieldDefinition) int {
		return a.Order - b.Order
	})
	return out
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func firstDuplicate(values []string) string {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return v
		}
		seen[v] = struct{}{}
	}
	return ""
}
