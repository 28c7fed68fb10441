package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// DuplicateError reports a uniqueness violation detected by the store.
type DuplicateError struct {
	Entity string // table, e.g. "buyers"
	Field  string // column, e.g. "phone"
	Err    error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s.%s", e.Entity, e.Field)
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// UserMessage is the operator-facing text for the violated field.
func (e *DuplicateError) UserMessage() string {
	switch e.Field {
	case "name":
		return "Já existe um comprador com este nome"
	case "phone":
		return "Já existe um comprador com este telefone"
	case "document":
		return "Já existe um comprador com este documento"
	}
	return fmt.Sprintf("Registro duplicado (%s)", e.Field)
}

// IsDuplicate reports whether err wraps a DuplicateError.
func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}
