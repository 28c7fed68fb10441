package pgstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/roach88/balanca/internal/model"
)

func TestConstraintField(t *testing.T) {
	tests := []struct {
		table, constraint string
		entity, field     string
	}{
		{"buyers", "uq_buyers_phone", "buyers", "phone"},
		{"", "uq_buyers_document", "buyers", "document"},
		{"weighing_entries", "uq_weighing_entries_position", "weighing_entries", "position"},
		{"", "uq_weighing_entries_position", "weighing_entries", "position"},
		{"unit_prices", "uq_unit_prices_item_type", "unit_prices", "item_type"},
		{"weighings", "weighings_pkey", "weighings", "id"},
		{"buyers", "buyers_name_key", "buyers", "name"},
		{"buyers", "something_else", "buyers", "something_else"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			entity, field := constraintField(tt.table, tt.constraint)
			assert.Equal(t, tt.entity, entity)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestMapError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: PgErrUniqueViolation, TableName: "buyers", ConstraintName: "uq_buyers_phone"}
	err := mapError(fmt.Errorf("insert: %w", pgErr))

	var de *model.DuplicateError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "buyers", de.Entity)
	assert.Equal(t, "phone", de.Field)
	assert.Equal(t, "Já existe um comprador com este telefone", de.UserMessage())

	var got *pgconn.PgError
	assert.ErrorAs(t, err, &got, "the driver error stays reachable")
}

func TestMapError_PassThrough(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_weighings_buyer"}
	assert.Same(t, error(fk), mapError(fk))

	plain := errors.New("connection refused")
	assert.Same(t, plain, mapError(plain))

	assert.ErrorIs(t, mapError(gorm.ErrRecordNotFound), model.ErrNotFound)
}
