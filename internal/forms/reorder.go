package forms

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"job-board-api/internal/models"
)

var ErrOrderMismatch = errors.New("field order must list every field of the form exactly once")

// Reorder puts fields in the sequence given by ids and renumbers Order from zero.
// ids must be a permutation of the fields' ids.
func Reorder(fields []models.FieldDefinition, ids []uuid.UUID) ([]models.FieldDefinition, error) {
	if len(ids) != len(fields) {
		return nil, fmt.Errorf("%w: got %d ids for %d fields", ErrOrderMismatch, len(ids), len(fields))
	}
	byID := make(map[uuid.UUID]models.FieldDefinition, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	out := make([]models.FieldDefinition, 0, len(ids))
	for i, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown or repeated field %s", ErrOrderMismatch, id)
		}
		delete(byID, id)
		f.Order = i
		out = append(out, f)
	}
	return out, nil
}

// Move relocates the field at position from to position to, as a drag-and-drop does,
// and renumbers Order from zero. Positions refer to render order.
func Move(fields []models.FieldDefinition, from, to int) ([]models.FieldDefinition, error) {
	sorted := SortFields(fields)
	if from < 0 || from >= len(sorted) || to < 0 || to >= len(sorted) {
		return nil, fmt.Errorf("move %d -> %d out of range for %d fields", from, to, len(sorted))
	}
	moved := sorted[from]
	sorted = append(sorted[:from], sorted[from+1:]...)
	sorted = append(sorted[:to], append([]models.FieldDefinition{moved}, sorted[to:]...)...)
	for i := range sorted {
		sorted[i].Order = i
	}
	return sorted, nil
}

// Renumber assigns Order from zero following the current render order.
func Renumber(fields []models.FieldDefinition) []models.FieldDefinition {
	sorted := SortFields(fields)
	for i := range sorted {
		sorted[i].Order = i
	}
	return sorted
}
