package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/balanca/internal/model"
)

const buyerColumns = `id, name, phone, document, document_kind, company, created_at`

// CreateBuyer inserts a buyer. An empty ID is replaced with a UUIDv7 and a
// zero CreatedAt with the current time. Returns *model.DuplicateError when
// the name, phone or document is already registered.
func (s *Store) CreateBuyer(ctx context.Context, b model.Buyer) (model.Buyer, error) {
	if b.ID == "" {
		b.ID = newID()
	}
	b.CreatedAt = s.stamp(b.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO buyers (`+buyerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID,
		b.Name,
		b.Phone,
		nullString(b.Document),
		string(b.DocumentKind),
		b.Company,
		toMillis(b.CreatedAt),
	)
	if err != nil {
		return model.Buyer{}, fmt.Errorf("create buyer: %w", mapConstraint(err))
	}
	return b, nil
}

// UpdateBuyer replaces every mutable field of an existing buyer.
// Returns model.ErrNotFound if the id does not exist.
func (s *Store) UpdateBuyer(ctx context.Context, b model.Buyer) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE buyers
		SET name = ?, phone = ?, document = ?, document_kind = ?, company = ?
		WHERE id = ?
	`,
		b.Name,
		b.Phone,
		nullString(b.Document),
		string(b.DocumentKind),
		b.Company,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update buyer: %w", mapConstraint(err))
	}
	return requireAffected(res, "update buyer")
}

// DeleteBuyer removes a buyer. Weighings that referenced it keep their rows
// with buyer_id set to NULL.
func (s *Store) DeleteBuyer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM buyers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete buyer: %w", err)
	}
	return requireAffected(res, "delete buyer")
}

// GetBuyer retrieves a buyer by id.
// Returns model.ErrNotFound if not found.
func (s *Store) GetBuyer(ctx context.Context, id string) (model.Buyer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE id = ?`, id)
	b, err := scanBuyer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Buyer{}, fmt.Errorf("get buyer %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Buyer{}, fmt.Errorf("get buyer %s: %w", id, err)
	}
	return b, nil
}

// ListBuyers returns all buyers ordered by name.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListBuyers(ctx context.Context) ([]model.Buyer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+buyerColumns+`
		FROM buyers
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query buyers: %w", err)
	}
	defer rows.Close()

	buyers := []model.Buyer{}
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, err
		}
		buyers = append(buyers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buyers: %w", err)
	}
	return buyers, nil
}

// BuyerExists reports whether any buyer has value in the given field.
// field must be one of name, phone or document. An empty value never exists.
func (s *Store) BuyerExists(ctx context.Context, field, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	switch field {
	case "name", "phone", "document":
	default:
		return false, fmt.Errorf("buyer exists: unknown field %q", field)
	}

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM buyers WHERE `+field+` = ? LIMIT 1`, value).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("buyer exists: %w", err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuyer(row rowScanner) (model.Buyer, error) {
	var (
		b        model.Buyer
		document sql.NullString
		kind     string
		created  int64
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Phone, &document, &kind, &b.Company, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Buyer{}, err
		}
		return model.Buyer{}, fmt.Errorf("scan buyer: %w", err)
	}
	b.Document = document.String
	b.DocumentKind = model.DocumentKind(kind)
	b.CreatedAt = fromMillis(created)
	return b, nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	return nil
}
