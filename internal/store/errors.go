package store

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/balanca/internal/model"
)

// mapConstraint turns a SQLite UNIQUE violation into a *model.DuplicateError.
// Other errors are returned unchanged.
//
// SQLite reports the violated columns as "UNIQUE constraint failed: t.c[, t.c]";
// the first column names the field.
func mapConstraint(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return err
	}
	if se.ExtendedCode != sqlite3.ErrConstraintUnique && se.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return err
	}

	cols, ok := strings.CutPrefix(se.Error(), "UNIQUE constraint failed: ")
	if !ok {
		return &model.DuplicateError{Err: err}
	}
	first, _, _ := strings.Cut(cols, ",")
	entity, field, _ := strings.Cut(strings.TrimSpace(first), ".")
	return &model.DuplicateError{Entity: entity, Field: field, Err: err}
}
