package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"job-board-api/internal/forms"
	"job-board-api/internal/models"
	"job-board-api/internal/storage"
	"job-board-api/internal/transport/dto"

	"github.com/google/uuid"
)

// MapRepoError maps storage errors to service errors
func MapRepoError(err error, operation string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	}
	if errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("%w: %s (%v)", ErrConflict, operation, err)
	}
	if errors.Is(err, storage.ErrReferenced) {
		return fmt.Errorf("%w: %s (%v)", ErrValidation, operation, err)
	}
	// Log other unexpected errors
	slog.Error("unexpected repository error", "operation", operation, "error", err)
	return fmt.Errorf("internal error during %s: %w", operation, err)
}

// validationError wraps per-field problems so callers can both match ErrValidation
// and recover the forms.FieldErrors for the response body.
func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// adminGate loads the acting user and rejects anyone who is not an admin.
// Any failure to establish the identity is a rejection.
type adminGate struct {
	users storage.UserRepository
}

func (g adminGate) requireAdmin(ctx context.Context, actorID uuid.UUID) (*models.User, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("%w: no authenticated user", ErrForbidden)
	}
	user, err := g.users.GetByID(ctx, actorID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("admin check: loading user failed", "user_id", actorID, "error", err)
		}
		return nil, fmt.Errorf("%w: cannot resolve acting user", ErrForbidden)
	}
	if !user.IsAdmin {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return user, nil
}

// fieldsFromInput turns builder input into normalized, validated definitions with contiguous order.
// Inputs without an explicit order keep their position in the list.
func fieldsFromInput(inputs []dto.FieldInput) ([]models.FieldDefinition, error) {
	defs := make([]models.FieldDefinition, len(inputs))
	for i, in := range inputs {
		order := i
		if in.Order != nil {
			order = *in.Order
		}
		defs[i] = models.FieldDefinition{
			FieldType:   models.FieldType(in.FieldType),
			Label:       in.Label,
			Name:        in.Name,
			Required:    in.Required,
			Placeholder: in.Placeholder,
			Options:     in.Options,
			Validation:  in.Validation,
			Order:       order,
		}
	}
	return prepareFields(defs)
}

func prepareFields(defs []models.FieldDefinition) ([]models.FieldDefinition, error) {
	defs = forms.NormalizeDefinitions(defs)
	if err := forms.ValidateDefinitions(defs); err != nil {
		return nil, validationError(err)
	}
	return forms.Renumber(forms.SortFields(defs)), nil
}

// validStorageID reports whether id has the shape of an id minted by the upload endpoint.
func validStorageID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// blobReleaser deletes blobs that no longer belong to anything and queues the ones it could not delete.
type blobReleaser struct {
	blobs   storage.BlobStore
	cleanup storage.BlobCleanupRepository
}

// release returns how many blobs were deleted inline and how many were left to the reconciler.
func (r blobReleaser) release(ctx context.Context, storageIDs []string, reason string) (deleted, pending int) {
	var failed []string
	for _, id := range storageIDs {
		if err := r.blobs.Delete(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("blob delete failed, queueing for retry", "storage_id", id, "reason", reason, "error", err)
			failed = append(failed, id)
			continue
		}
		deleted++
	}
	if len(failed) == 0 {
		return deleted, 0
	}
	if err := r.cleanup.Enqueue(ctx, failed, reason); err != nil {
		slog.Error("queueing blob cleanup failed", "storage_ids", failed, "reason", reason, "error", err)
	}
	return deleted, len(failed)
}
