package forms_test

import (
	"testing"

	"job-board-api/internal/forms"
	"job-board-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefinitions(t *testing.T) {
	tests := []struct {
		name      string
		fields    []models.FieldDefinition
		wantField string
	}{
		{
			name:   "valid set",
			fields: []models.FieldDefinition{field("firstName", models.FieldTypeText, 0), field("shift", models.FieldTypeRadio, 1, "day")},
		},
		{
			name:      "duplicate name",
			fields:    []models.FieldDefinition{field("email", models.FieldTypeEmail, 0), field("email", models.FieldTypeText, 1)},
			wantField: "fields[1].name",
		},
		{
			name:      "bad name",
			fields:    []models.FieldDefinition{field("first name", models.FieldTypeText, 0)},
			wantField: "fields[0].name",
		},
		{
			name:      "unknown type",
			fields:    []models.FieldDefinition{field("x", models.FieldType("slider"), 0)},
			wantField: "fields[0].field_type",
		},
		{
			name:      "select without options",
			fields:    []models.FieldDefinition{field("country", models.FieldTypeSelect, 0)},
			wantField: "fields[0].options",
		},
		{
			name:      "duplicate options",
			fields:    []models.FieldDefinition{field("shift", models.FieldTypeRadio, 0, "day", "day")},
			wantField: "fields[0].options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := forms.ValidateDefinitions(tt.fields)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var fe forms.FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe.Map(), tt.wantField)
		})
	}
}

func TestValidateDefinitions_BadPattern(t *testing.T) {
	f := field("code", models.FieldTypeText, 0)
	f.Validation = ptrString("([a-z")

	err := forms.ValidateDefinitions([]models.FieldDefinition{f})

	var fe forms.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Map(), "fields[0].validation")
}

func TestNormalizeDefinitions(t *testing.T) {
	in := []models.FieldDefinition{{
		FieldType:   " Select ",
		Label:       "  Country ",
		Name:        " country ",
		Placeholder: ptrString("   "),
		Options:     []string{" NL ", "", "DE"},
	}, {
		FieldType: models.FieldTypeText,
		Label:     "Notes",
		Name:      "notes",
		Options:   []string{"ignored"},
	}}

	out := forms.NormalizeDefinitions(in)

	assert.Equal(t, models.FieldTypeSelect, out[0].FieldType)
	assert.Equal(t, "Country", out[0].Label)
	assert.Equal(t, "country", out[0].Name)
	assert.Nil(t, out[0].Placeholder)
	assert.Equal(t, []string{"NL", "DE"}, out[0].Options)
	assert.Empty(t, out[1].Options)
	assert.Equal(t, " country ", in[0].Name, "input is not modified")
}
