package pgstore

import (
	"context"
	"fmt"

	"github.com/roach88/balanca/internal/model"
)

// CreateBuyer inserts a buyer. Returns *model.DuplicateError when the name,
// phone or document is already registered.
func (s *Store) CreateBuyer(ctx context.Context, b model.Buyer) (model.Buyer, error) {
	if b.ID == "" {
		b.ID = newID()
	}
	b.CreatedAt = s.stamp(b.CreatedAt)

	row := toBuyerRow(b)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Buyer{}, fmt.Errorf("create buyer: %w", mapError(err))
	}
	return b, nil
}

// UpdateBuyer replaces every mutable field of an existing buyer.
func (s *Store) UpdateBuyer(ctx context.Context, b model.Buyer) error {
	row := toBuyerRow(b)
	res := s.db.WithContext(ctx).Model(&buyerRow{}).Where("id = ?", b.ID).Updates(map[string]any{
		"name":          row.Name,
		"phone":         row.Phone,
		"document":      row.Document,
		"document_kind": row.DocumentKind,
		"company":       row.Company,
	})
	if res.Error != nil {
		return fmt.Errorf("update buyer: %w", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update buyer %s: %w", b.ID, model.ErrNotFound)
	}
	return nil
}

// DeleteBuyer removes a buyer; its weighings keep a NULL buyer.
func (s *Store) DeleteBuyer(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&buyerRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete buyer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete buyer %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetBuyer retrieves a buyer by id.
func (s *Store) GetBuyer(ctx context.Context, id string) (model.Buyer, error) {
	var row buyerRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return model.Buyer{}, fmt.Errorf("get buyer %s: %w", id, mapError(err))
	}
	return row.toModel(), nil
}

// ListBuyers returns every buyer ordered by name.
func (s *Store) ListBuyers(ctx context.Context) ([]model.Buyer, error) {
	var rows []buyerRow
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	out := make([]model.Buyer, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// BuyerExists reports whether a buyer with field = value exists. field is
// one of name, phone or document.
func (s *Store) BuyerExists(ctx context.Context, field, value string) (bool, error) {
	switch field {
	case "name", "phone", "document":
	default:
		return false, fmt.Errorf("buyer exists: unknown field %q", field)
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&buyerRow{}).Where(field+" = ?", value).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("buyer exists: %w", err)
	}
	return n > 0, nil
}
