package pgstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/roach88/balanca/internal/model"
)

// SaveWeighing stores a weighing and its entries in a single transaction.
// Defaults match the SQLite store.
func (s *Store) SaveWeighing(ctx context.Context, w model.Weighing, entries []model.WeighingEntry) (model.Weighing, error) {
	if w.ID == "" {
		w.ID = newID()
	}
	w.CreatedAt = s.stamp(w.CreatedAt)
	if w.ReportDate == "" {
		w.ReportDate = w.CreatedAt.Format(time.DateOnly)
	}

	parent := toWeighingRow(w)
	children := make([]entryRow, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			e.ID = newID()
		}
		e.WeighingID = w.ID
		e.Position = i
		children[i] = toEntryRow(e)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Buyer", "Entries").Create(&parent).Error; err != nil {
			return fmt.Errorf("insert weighing: %w", mapError(err))
		}
		if len(children) == 0 {
			return nil
		}
		if err := tx.Omit("Product").Create(&children).Error; err != nil {
			return fmt.Errorf("insert entries: %w", mapError(err))
		}
		return nil
	})
	if err != nil {
		return model.Weighing{}, fmt.Errorf("save weighing: %w", err)
	}
	return w, nil
}

// ListWeighings returns weighings matching the filter, newest first, with
// their buyer joined. End includes the whole named day.
func (s *Store) ListWeighings(ctx context.Context, f model.WeighingFilter) ([]model.WeighingWithBuyer, error) {
	q := s.db.WithContext(ctx).Preload("Buyer")
	if f.Start != nil {
		q = q.Where("created_at >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("created_at < ?", model.DayAfter(*f.End))
	}
	if f.BuyerID != "" {
		q = q.Where("buyer_id = ?", f.BuyerID)
	}

	var rows []weighingRow
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query weighings: %w", err)
	}
	out := make([]model.WeighingWithBuyer, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// GetWeighing retrieves one weighing with its buyer.
// Returns model.ErrNotFound if not found.
func (s *Store) GetWeighing(ctx context.Context, id string) (model.WeighingWithBuyer, error) {
	var row weighingRow
	if err := s.db.WithContext(ctx).Preload("Buyer").First(&row, "id = ?", id).Error; err != nil {
		return model.WeighingWithBuyer{}, fmt.Errorf("get weighing %s: %w", id, mapError(err))
	}
	return row.toModel(), nil
}

// WeighingEntries returns the entries of a weighing in saved order, with the
// product description joined.
func (s *Store) WeighingEntries(ctx context.Context, weighingID string) ([]model.WeighingEntry, error) {
	var rows []entryRow
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("weighing_id = ?", weighingID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query entries of %s: %w", weighingID, err)
	}
	out := make([]model.WeighingEntry, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}
