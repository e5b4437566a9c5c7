package models_test

import (
	"encoding/json"
	"testing"

	"job-board-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.FormValue
	}{
		{
			name:     "Tagged scalar",
			input:    `{"kind":"scalar","value":"Jane"}`,
			expected: models.ScalarValue("Jane"),
		},
		{
			name:     "Tagged checkbox",
			input:    `{"kind":"scalar","value":false}`,
			expected: models.ScalarValue(false),
		},
		{
			name:     "Tagged file",
			input:    `{"kind":"file","storageId":"abc","fileName":"cv.pdf","fileType":"application/pdf","fileSize":42}`,
			expected: models.FileValue("abc", "cv.pdf", "application/pdf", 42),
		},
		{
			name:     "Legacy bare string stays scalar",
			input:    `"kg2a9c0d8e7f"`,
			expected: models.ScalarValue("kg2a9c0d8e7f"),
		},
		{
			name:     "Legacy bare number becomes text",
			input:    `42.5`,
			expected: models.ScalarValue("42.5"),
		},
		{
			name:     "Missing kind defaults to scalar",
			input:    `{"value":"x"}`,
			expected: models.ScalarValue("x"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.FormValue
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormValue_UnmarshalJSON_UnknownKind(t *testing.T) {
	var got models.FormValue
	err := json.Unmarshal([]byte(`{"kind":"blob","value":"x"}`), &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown form value kind")
}

func TestFormValue_MarshalKeepsUncheckedCheckbox(t *testing.T) {
	data, err := json.Marshal(map[string]models.FormValue{"agree": models.ScalarValue(false)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"agree":{"kind":"scalar","value":false}}`, string(data))
}

func TestFormValue_IsEmpty(t *testing.T) {
	assert.True(t, models.ScalarValue("  ").IsEmpty())
	assert.True(t, models.FileValue("", "", "", 0).IsEmpty())
	assert.False(t, models.ScalarValue(false).IsEmpty())
	assert.False(t, models.FileValue("id-1", "a.png", "image/png", 1).IsEmpty())
}

func TestFormValue_UnmarshalJSON_LargeNumbersKeepDigits(t *testing.T) {
	const digits = "12345678901234567891"

	var bare, tagged models.FormValue
	require.NoError(t, json.Unmarshal([]byte(digits), &bare))
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"scalar","value":`+digits+`}`), &tagged))

	assert.Equal(t, digits, bare.String())
	assert.Equal(t, digits, tagged.String())
	assert.Equal(t, bare, tagged)
}
