package forms

import (
	"slices"
	"strings"

	"job-board-api/internal/models"
)

// FileRef is a captured file-field value awaiting its ApplicationFile row.
type FileRef struct {
	FieldName string
	Value     models.FormValue
}

// Submission is a filled form reduced to what the plan allows.
// FormData holds custom fields only; injected identity values live in Identity.
type Submission struct {
	FormData map[string]models.FormValue
	Identity map[string]string
	Files    []FileRef
	Dropped  []string
}

// Capture keeps the submitted values the plan knows about and coerces each to its control's type.
// Untouched custom controls take their seeded value. File controls with nothing uploaded are left
// out of FormData entirely. Keys the plan does not know are reported in Dropped.
func Capture(plan RenderPlan, submitted map[string]models.FormValue) Submission {
	sub := Submission{
		FormData: make(map[string]models.FormValue, len(plan.Controls)),
		Identity: make(map[string]string, 2),
	}

	known := make(map[string]struct{}, len(plan.Controls))
	for _, c := range plan.Controls {
		known[c.Name] = struct{}{}
		v, ok := submitted[c.Name]

		if c.Injected {
			if ok && !v.IsFile() {
				sub.Identity[c.Name] = strings.TrimSpace(v.String())
			}
			continue
		}

		switch c.FieldType {
		case models.FieldTypeFile:
			ref, ok := fileValue(v, ok)
			if !ok {
				continue
			}
			sub.FormData[c.Name] = ref
			sub.Files = append(sub.Files, FileRef{FieldName: c.Name, Value: ref})
		case models.FieldTypeCheckbox:
			sub.FormData[c.Name] = models.ScalarValue(ok && checked(v))
		default:
			if !ok || v.IsFile() {
				sub.FormData[c.Name] = plan.Initial[c.Name]
				continue
			}
			sub.FormData[c.Name] = models.ScalarValue(v.String())
		}
	}

	for name := range submitted {
		if _, ok := known[name]; !ok {
			sub.Dropped = append(sub.Dropped, name)
		}
	}
	slices.Sort(sub.Dropped)
	return sub
}

// fileValue accepts a tagged file reference, or a bare storage id since the control already says it is a file.
func fileValue(v models.FormValue, present bool) (models.FormValue, bool) {
	if !present || v.IsEmpty() {
		return models.FormValue{}, false
	}
	if v.IsFile() {
		return v, true
	}
	if id, ok := v.Value.(string); ok {
		return models.FileValue(strings.TrimSpace(id), "", "", 0), true
	}
	return models.FormValue{}, false
}

func checked(v models.FormValue) bool {
	if v.IsFile() {
		return false
	}
	if b, ok := v.Value.(bool); ok {
		return b
	}
	switch strings.ToLower(strings.TrimSpace(v.String())) {
	case "true", "on", "yes", "1":
		return true
	default:
		return false
	}
}

// Identity is the baseline applicant data copied onto the Application row.
type Identity struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// ExtractIdentity reads the baseline attributes from custom fields first, then from the injected controls.
// A name split over firstName/middleName/lastName is joined with single spaces.
func ExtractIdentity(sub Submission) Identity {
	text := func(name string) string {
		if v, ok := sub.FormData[name]; ok && !v.IsFile() {
			return strings.TrimSpace(v.String())
		}
		return ""
	}

	id := Identity{
		FullName: text("fullName"),
		Email:    firstNonEmpty(text("email"), text("emailAddress")),
		Phone:    firstNonEmpty(text("phone"), text("phoneNumber"), text("mobile")),
		Address:  firstNonEmpty(text("address"), sub.Identity[InjectedAddress]),
	}
	if id.FullName == "" {
		var parts []string
		for _, n := range []string{"firstName", "middleName", "lastName"} {
			if p := text(n); p != "" {
				parts = append(parts, p)
			}
		}
		id.FullName = strings.Join(parts, " ")
	}
	if id.FullName == "" {
		id.FullName = sub.Identity[InjectedFullName]
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
