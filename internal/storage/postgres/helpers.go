package postgres

import (
	"errors"
	"fmt"
	"strings"

	"job-board-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapPgError translates driver errors into storage errors, wrapping with op for context.
func mapPgError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, storage.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, storage.ErrReferenced)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// buildListQuery appends filters, ordering and pagination to a SELECT.
func buildListQuery(baseQuery string, conditions []string, args *[]any, orderBy string, offset, limit int) string {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(baseQuery)

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(orderBy)

	if limit > 0 {
		*args = append(*args, limit)
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(*args)))
	}
	if offset > 0 {
		*args = append(*args, offset)
		queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", len(*args)))
	}
	return queryBuilder.String()
}

// unreferencedStorageIDs keeps the ids no application row or form_data value points at any more.
// Run it after the deleting statements, inside the same transaction.
const unreferencedStorageIDs = `
	SELECT sid FROM unnest($1::text[]) AS sid
	WHERE NOT EXISTS (SELECT 1 FROM application_files f WHERE f.storage_id = sid)
	  AND NOT EXISTS (
		SELECT 1 FROM applications a
		WHERE jsonb_path_exists(a.form_data, '$.* ? (@.kind == "file" && @.storageId == $sid)', jsonb_build_object('sid', sid))
	  )
`

func collectStrings(rows pgx.Rows) ([]string, error) {
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func isReferenced(err error) bool {
	return errors.Is(err, storage.ErrReferenced)
}
