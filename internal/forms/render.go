package forms

import (
	"job-board-api/internal/models"
)

// Widget names the kind of control a client draws for a field.
type Widget string

const (
	WidgetInput    Widget = "input"
	WidgetTextarea Widget = "textarea"
	WidgetSelect   Widget = "select"
	WidgetRadio    Widget = "radio"
	WidgetCheckbox Widget = "checkbox"
	WidgetFile     Widget = "file"
	WidgetDate     Widget = "date"
)

// Names of the identity fields injected ahead of custom fields.
const (
	InjectedFullName = "fullName"
	InjectedAddress  = "address"
)

// nameParts are the field names that make a form carry its own applicant name.
var nameParts = []string{"fullName", "firstName", "middleName", "lastName"}

// Control is one input of a render plan.
type Control struct {
	Name        string           `json:"name"`
	Label       string           `json:"label"`
	FieldType   models.FieldType `json:"fieldType"`
	Widget      Widget           `json:"widget"`
	InputType   string           `json:"inputType,omitempty"`
	Required    bool             `json:"required"`
	Placeholder string           `json:"placeholder,omitempty"`
	Options     []string         `json:"options,omitempty"`
	Pattern     string           `json:"pattern,omitempty"`
	Injected    bool             `json:"injected"`
}

// RenderPlan is everything a client needs to draw a form and hold its state.
// Initial has exactly one entry per control.
type RenderPlan struct {
	Controls []Control                   `json:"controls"`
	Initial  map[string]models.FormValue `json:"initial"`
}

// Control returns the control registered under name.
func (p RenderPlan) Control(name string) (Control, bool) {
	for _, c := range p.Controls {
		if c.Name == name {
			return c, true
		}
	}
	return Control{}, false
}

// BuildRenderPlan maps a form's fields to controls in ascending order and seeds their values.
// A nil form yields only the injected identity controls.
func BuildRenderPlan(form *models.Form) RenderPlan {
	var fields []models.FieldDefinition
	if form != nil {
		fields = SortFields(form.Fields)
	}

	defined := make(map[string]bool, len(fields))
	for _, f := range fields {
		defined[f.Name] = true
	}

	plan := RenderPlan{
		Controls: make([]Control, 0, len(fields)+2),
		Initial:  make(map[string]models.FormValue, len(fields)+2),
	}

	if !definesAny(defined, nameParts...) {
		plan.add(Control{
			Name:      InjectedFullName,
			Label:     "Full Name",
			FieldType: models.FieldTypeText,
			Widget:    WidgetInput,
			InputType: "text",
			Required:  true,
			Injected:  true,
		})
	}
	if !defined[InjectedAddress] {
		plan.add(Control{
			Name:      InjectedAddress,
			Label:     "Address",
			FieldType: models.FieldTypeTextarea,
			Widget:    WidgetTextarea,
			Required:  true,
			Injected:  true,
		})
	}

	for _, f := range fields {
		plan.add(controlFor(f))
	}
	return plan
}

func (p *RenderPlan) add(c Control) {
	p.Controls = append(p.Controls, c)
	p.Initial[c.Name] = seed(c)
}

func controlFor(f models.FieldDefinition) Control {
	c := Control{
		Name:      f.Name,
		Label:     f.Label,
		FieldType: f.FieldType,
		Required:  f.Required,
		Options:   f.Options,
	}
	if f.Placeholder != nil {
		c.Placeholder = *f.Placeholder
	}
	if f.Validation != nil {
		c.Pattern = *f.Validation
	}

	switch f.FieldType {
	case models.FieldTypeTextarea:
		c.Widget = WidgetTextarea
	case models.FieldTypeSelect:
		c.Widget = WidgetSelect
	case models.FieldTypeRadio:
		c.Widget = WidgetRadio
	case models.FieldTypeCheckbox:
		c.Widget = WidgetCheckbox
	case models.FieldTypeFile:
		c.Widget = WidgetFile
	case models.FieldTypeDate:
		c.Widget = WidgetDate
		c.InputType = "date"
	default:
		c.Widget = WidgetInput
		c.InputType = inputType(f.FieldType)
	}
	return c
}

func inputType(ft models.FieldType) string {
	switch ft {
	case models.FieldTypeEmail:
		return "email"
	case models.FieldTypePhone:
		return "tel"
	case models.FieldTypeNumber:
		return "number"
	case models.FieldTypeURL:
		return "url"
	default:
		return "text"
	}
}

// seed is the value a control holds before the applicant touches it.
// Radio stays unset until chosen; select starts on its first option.
func seed(c Control) models.FormValue {
	switch c.FieldType {
	case models.FieldTypeCheckbox:
		return models.ScalarValue(false)
	case models.FieldTypeSelect:
		if len(c.Options) > 0 {
			return models.ScalarValue(c.Options[0])
		}
		return models.ScalarValue("")
	default:
		return models.ScalarValue("")
	}
}

func definesAny(defined map[string]bool, names ...string) bool {
	for _, n := range names {
		if defined[n] {
			return true
		}
	}
	return false
}
