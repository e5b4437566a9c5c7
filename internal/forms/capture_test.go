package forms_test

import (
	"testing"

	"job-board-api/internal/forms"
	"job-board-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_FileFieldWithoutUploadIsAbsent(t *testing.T) {
	first := field("firstName", models.FieldTypeText, 0)
	first.Required = true
	resume := field("resume", models.FieldTypeFile, 1)
	resume.Required = true
	plan := forms.BuildRenderPlan(&models.Form{Fields: []models.FieldDefinition{first, resume}})

	sub := forms.Capture(plan, map[string]models.FormValue{
		"firstName": models.ScalarValue("Ada"),
	})

	assert.Equal(t, map[string]models.FormValue{"firstName": models.ScalarValue("Ada")}, sub.FormData)
	assert.Empty(t, sub.Files)
}

func TestCapture_Coercion(t *testing.T) {
	plan := forms.BuildRenderPlan(&models.Form{Fields: []models.FieldDefinition{
		field("years", models.FieldTypeNumber, 0),
		field("agree", models.FieldTypeCheckbox, 1),
		field("newsletter", models.FieldTypeCheckbox, 2),
		field("country", models.FieldTypeSelect, 3, "NL", "DE"),
		field("idCardFront", models.FieldTypeFile, 4),
		field("portfolio", models.FieldTypeFile, 5),
		field("notes", models.FieldTypeText, 6),
	}})

	sub := forms.Capture(plan, map[string]models.FormValue{
		"fullName":    models.ScalarValue(" Ada Lovelace "),
		"address":     models.ScalarValue("1 Analytical Way"),
		"years":       models.ScalarValue("7"),
		"agree":       models.ScalarValue("on"),
		"idCardFront": models.FileValue("blob-1", "front.png", "image/png", 2048),
		"portfolio":   models.ScalarValue("blob-2"),
		"notes":       models.FileValue("blob-3", "x", "y", 1),
		"injected":    models.ScalarValue("nope"),
	})

	assert.Equal(t, models.ScalarValue("7"), sub.FormData["years"])
	assert.Equal(t, models.ScalarValue(true), sub.FormData["agree"])
	assert.Equal(t, models.ScalarValue(false), sub.FormData["newsletter"])
	assert.Equal(t, models.ScalarValue("NL"), sub.FormData["country"], "untouched select keeps its seed")
	assert.Equal(t, models.ScalarValue(""), sub.FormData["notes"], "file value on a text field falls back to the seed")
	assert.Equal(t, models.FileValue("blob-2", "", "", 0), sub.FormData["portfolio"])
	assert.NotContains(t, sub.FormData, "fullName")
	assert.NotContains(t, sub.FormData, "address")

	assert.Equal(t, "Ada Lovelace", sub.Identity["fullName"])
	assert.Equal(t, []string{"injected"}, sub.Dropped)

	require.Len(t, sub.Files, 2)
	assert.Equal(t, "idCardFront", sub.Files[0].FieldName)
	assert.Equal(t, "blob-1", sub.Files[0].Value.StorageID)
	assert.Equal(t, "portfolio", sub.Files[1].FieldName)
}

func TestExtractIdentity(t *testing.T) {
	tests := []struct {
		name     string
		formData map[string]models.FormValue
		identity map[string]string
		want     forms.Identity
	}{
		{
			name: "name triple and phone aliases",
			formData: map[string]models.FormValue{
				"firstName":   models.ScalarValue("Ada"),
				"middleName":  models.ScalarValue(""),
				"lastName":    models.ScalarValue("Lovelace"),
				"phoneNumber": models.ScalarValue("+44 20 7946 0000"),
			},
			identity: map[string]string{"address": "1 Analytical Way"},
			want:     forms.Identity{FullName: "Ada Lovelace", Phone: "+44 20 7946 0000", Address: "1 Analytical Way"},
		},
		{
			name:     "custom fields win over injected inputs",
			formData: map[string]models.FormValue{"fullName": models.ScalarValue("Grace Hopper"), "email": models.ScalarValue("g@navy.mil")},
			identity: map[string]string{"fullName": "ignored"},
			want:     forms.Identity{FullName: "Grace Hopper", Email: "g@navy.mil"},
		},
		{
			name:     "falls back to injected full name",
			formData: map[string]models.FormValue{"mobile": models.ScalarValue("0612345678")},
			identity: map[string]string{"fullName": "Alan Turing"},
			want:     forms.Identity{FullName: "Alan Turing", Phone: "0612345678"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := forms.ExtractIdentity(forms.Submission{FormData: tt.formData, Identity: tt.identity})
			assert.Equal(t, tt.want, got)
		})
	}
}
