package forms

import (
	"fmt"
	"strings"
)

// FieldError describes one problem with a definition or a submitted value.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects every problem found in one pass so callers can show them together.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "form validation failed: " + strings.Join(parts, "; ")
}

// Map flattens the errors for JSON responses, keeping the first message per field.
func (e FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

func (e *FieldErrors) add(field, format string, args ...any) {
	*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// orNil lets validators return a nil error interface when nothing was collected.
func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
