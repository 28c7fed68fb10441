package pgstore

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/roach88/balanca/internal/model"
)

// PgErrUniqueViolation is the SQLSTATE of a unique_violation.
const PgErrUniqueViolation = "23505"

// mapError turns a unique violation into a *model.DuplicateError and a
// missing record into model.ErrNotFound. Other errors are returned unchanged.
func mapError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != PgErrUniqueViolation {
		return err
	}
	entity, field := constraintField(pgErr.TableName, pgErr.ConstraintName)
	return &model.DuplicateError{Entity: entity, Field: field, Err: err}
}

// constraintField recovers the table and column from a unique constraint
// name. It understands the uq_<table>_<column> indexes declared on the
// models as well as the <table>_pkey and <table>_<column>_key names
// PostgreSQL generates.
func constraintField(table, constraint string) (entity, field string) {
	if rest, ok := strings.CutPrefix(constraint, "uq_"); ok {
		if table != "" {
			if col, ok := strings.CutPrefix(rest, table+"_"); ok {
				return table, col
			}
		}
		for _, t := range knownTables {
			if col, ok := strings.CutPrefix(rest, t+"_"); ok {
				return t, col
			}
		}
		return table, rest
	}
	if t, ok := strings.CutSuffix(constraint, "_pkey"); ok {
		return t, "id"
	}
	if rest, ok := strings.CutSuffix(constraint, "_key"); ok && table != "" {
		if col, ok := strings.CutPrefix(rest, table+"_"); ok {
			return table, col
		}
	}
	return table, constraint
}

// knownTables resolves uq_ names when the server does not report the table.
var knownTables = []string{
	"weighing_entries",
	"tare_weights",
	"unit_prices",
	"weighings",
	"products",
	"settings",
	"buyers",
}
