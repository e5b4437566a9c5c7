package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the two shapes a submitted form value can take.
type ValueKind string

const (
	ValueKindScalar ValueKind = "scalar"
	ValueKindFile   ValueKind = "file"
)

// FormValue is one entry of an application's formData.
//
// Scalars carry Value (a string, or a bool for checkboxes). File references carry
// StorageID plus the descriptive metadata captured at upload time. The kind tag is
// persisted so readers never have to guess whether a string names a stored blob.
type FormValue struct {
	Kind      ValueKind `json:"kind"`
	Value     any       `json:"value,omitempty"`
	StorageID string    `json:"storageId,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	FileType  string    `json:"fileType,omitempty"`
	FileSize  int64     `json:"fileSize,omitempty"`
}

// ScalarValue wraps a string or bool.
func ScalarValue(v any) FormValue {
	return FormValue{Kind: ValueKindScalar, Value: v}
}

// FileValue wraps a storage reference and its metadata.
func FileValue(storageID, fileName, fileType string, fileSize int64) FormValue {
	return FormValue{
		Kind:      ValueKindFile,
		StorageID: storageID,
		FileName:  fileName,
		FileType:  fileType,
		FileSize:  fileSize,
	}
}

func (v FormValue) IsFile() bool { return v.Kind == ValueKindFile }

// String renders scalars as text. Files render as their storage id.
func (v FormValue) String() string {
	if v.IsFile() {
		return v.StorageID
	}
	switch t := v.Value.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}

// Bool reports the checkbox state of a scalar. Non-bool scalars are false.
func (v FormValue) Bool() bool {
	b, _ := v.Value.(bool)
	return b
}

// IsEmpty reports whether the value carries nothing a reviewer would see.
// An unchecked checkbox is not empty: false is an answer.
func (v FormValue) IsEmpty() bool {
	if v.IsFile() {
		return v.StorageID == ""
	}
	switch t := v.Value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

// UnmarshalJSON accepts the tagged object form as well as bare JSON scalars.
// Bare scalars come from rows written before values were tagged and always decode as scalars.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		type alias FormValue
		var tagged alias
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&tagged); err != nil {
			return err
		}
		if tagged.Kind == "" {
			tagged.Kind = ValueKindScalar
		}
		if tagged.Kind != ValueKindScalar && tagged.Kind != ValueKindFile {
			return fmt.Errorf("unknown form value kind %q", tagged.Kind)
		}
		*v = FormValue(tagged)
		if v.Kind == ValueKindScalar {
			v.Value = normalizeScalar(v.Value)
		} else {
			v.Value = nil
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = ScalarValue(normalizeScalar(raw))
	return nil
}

// normalizeScalar keeps scalar values to string or bool; numbers become their text form.
func normalizeScalar(raw any) any {
	switch t := raw.(type) {
	case nil:
		return ""
	case string, bool:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
