package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const dateLayout = "2006-01-02"

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translateWriteError maps constraint violations on insert/update to
// validation errors naming the offending column.
func translateWriteError(entity string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return domain.NewValidationError(fieldFromConstraint(pgErr), "references a row that does not exist")
		case pgUniqueViolation:
			return domain.NewValidationError(fieldFromConstraint(pgErr), "already exists")
		}
	}
	return fmt.Errorf("error saving %s: %w", entity, err)
}

// translateDeleteError reports rows that are still referenced elsewhere.
func translateDeleteError(entity string, id int64, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return domain.NewValidationError("id", fmt.Sprintf("%s %d is still in use", entity, id))
	}
	return fmt.Errorf("error deleting %s %d: %w", entity, id, err)
}

// fieldFromConstraint turns "prospects_source_id_fkey" into "source_id".
func fieldFromConstraint(pgErr *pgconn.PgError) string {
	name := pgErr.ConstraintName
	if name == "" {
		return "id"
	}
	name = strings.TrimPrefix(name, pgErr.TableName+"_")
	for _, suffix := range []string{"_fkey", "_key"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
