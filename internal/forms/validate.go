package forms

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"job-board-api/internal/models"
)

// DateLayout is the wire format of date fields.
const DateLayout = "2006-01-02"

var (
	shapes       = validator.New()
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-.]{5,20}$`)
)

// ValidateSubmission checks a captured submission against its plan: required presence,
// the field's own pattern, the value shape implied by its type and option membership.
func ValidateSubmission(plan RenderPlan, sub Submission) error {
	var errs FieldErrors

	for _, c := range plan.Controls {
		var (
			value   string
			present bool
		)
		switch {
		case c.Injected:
			value = sub.Identity[c.Name]
			present = value != ""
		case c.FieldType == models.FieldTypeFile:
			v, ok := sub.FormData[c.Name]
			present = ok && !v.IsEmpty()
		case c.FieldType == models.FieldTypeCheckbox:
			v := sub.FormData[c.Name]
			present = v.Bool()
		default:
			v := sub.FormData[c.Name]
			value = strings.TrimSpace(v.String())
			present = value != ""
		}

		if !present {
			if c.Required {
				errs.add(c.Name, "%s is required", c.Label)
			}
			continue
		}
		if value == "" {
			continue
		}

		if c.Pattern != "" {
			if re, err := compilePattern(c.Pattern); err == nil && !re.MatchString(value) {
				errs.add(c.Name, "%s does not match the expected format", c.Label)
				continue
			}
		}
		if msg := checkShape(c, value); msg != "" {
			errs.add(c.Name, "%s %s", c.Label, msg)
		}
	}
	return errs.orNil()
}

// compilePattern anchors a field pattern so it must match the whole value,
// the way browsers apply the pattern attribute.
func compilePattern(p string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + p + `)$`)
}

func checkShape(c Control, value string) string {
	switch c.FieldType {
	case models.FieldTypeEmail:
		if shapes.Var(value, "email") != nil {
			return "must be a valid email address"
		}
	case models.FieldTypeURL:
		if shapes.Var(value, "url") != nil {
			return "must be a valid URL"
		}
	case models.FieldTypePhone:
		if !phonePattern.MatchString(value) {
			return "must be a valid phone number"
		}
	case models.FieldTypeNumber:
		if shapes.Var(value, "numeric") != nil {
			return "must be a number"
		}
	case models.FieldTypeDate:
		if _, err := time.Parse(DateLayout, value); err != nil {
			return "must be a date in YYYY-MM-DD format"
		}
	case models.FieldTypeSelect, models.FieldTypeRadio:
		if !slices.Contains(c.Options, value) {
			return "must be one of the listed options"
		}
	}
	return ""
}
