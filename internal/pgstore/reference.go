package pgstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roach88/balanca/internal/model"
)

// CreateProduct inserts a product.
func (s *Store) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	p.CreatedAt = s.stamp(p.CreatedAt)

	row := productRow{ID: p.ID, Code: p.Code, Description: p.Description, ItemType: p.ItemType, CreatedAt: p.CreatedAt}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", mapError(err))
	}
	return p, nil
}

// ListProducts returns every product ordered by description.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Order("description ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]model.Product, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// UpsertUnitPrice sets the price of an item type.
func (s *Store) UpsertUnitPrice(ctx context.Context, itemType string, price float64) error {
	row := unitPriceRow{ID: newID(), ItemType: itemType, Price: price, CreatedAt: s.stamp(s.now())}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"price"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert unit price %s: %w", itemType, err)
	}
	return nil
}

// ListUnitPrices returns every price row ordered by item type.
func (s *Store) ListUnitPrices(ctx context.Context) ([]model.UnitPrice, error) {
	var rows []unitPriceRow
	if err := s.db.WithContext(ctx).Order("item_type ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list unit prices: %w", err)
	}
	out := make([]model.UnitPrice, len(rows))
	for i, r := range rows {
		out[i] = model.UnitPrice{ID: r.ID, ItemType: r.ItemType, Price: r.Price, CreatedAt: r.CreatedAt}
	}
	return out, nil
}

// UpsertTareWeight sets the tare of an item type.
func (s *Store) UpsertTareWeight(ctx context.Context, itemType string, tareKg float64) error {
	row := tareWeightRow{ID: newID(), ItemType: itemType, TareKg: tareKg, CreatedAt: s.stamp(s.now())}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"tare_kg"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert tare weight %s: %w", itemType, err)
	}
	return nil
}

// ListTareWeights returns every tare row ordered by item type.
func (s *Store) ListTareWeights(ctx context.Context) ([]model.TareWeight, error) {
	var rows []tareWeightRow
	if err := s.db.WithContext(ctx).Order("item_type ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tare weights: %w", err)
	}
	out := make([]model.TareWeight, len(rows))
	for i, r := range rows {
		out[i] = model.TareWeight{ID: r.ID, ItemType: r.ItemType, TareKg: r.TareKg, CreatedAt: r.CreatedAt}
	}
	return out, nil
}

// ListItemTypes returns every item type that has a price or a tare, with
// missing values reported as 0, ordered by name.
func (s *Store) ListItemTypes(ctx context.Context) ([]model.ItemType, error) {
	prices, err := s.ListUnitPrices(ctx)
	if err != nil {
		return nil, err
	}
	tares, err := s.ListTareWeights(ctx)
	if err != nil {
		return nil, err
	}
	return mergeItemTypes(prices, tares), nil
}

func mergeItemTypes(prices []model.UnitPrice, tares []model.TareWeight) []model.ItemType {
	byName := make(map[string]model.ItemType)
	for _, p := range prices {
		it := byName[p.ItemType]
		it.Name = p.ItemType
		it.Price = p.Price
		byName[p.ItemType] = it
	}
	for _, t := range tares {
		it := byName[t.ItemType]
		it.Name = t.ItemType
		it.TareKg = t.TareKg
		byName[t.ItemType] = it
	}

	types := make([]model.ItemType, 0, len(byName))
	for _, it := range byName {
		types = append(types, it)
	}
	// Byte order, matching the SQLite store regardless of the server collation.
	slices.SortFunc(types, func(a, b model.ItemType) int { return strings.Compare(a.Name, b.Name) })
	return types
}

const settingsID = "default"

// GetSettings returns the settings row, or nil when none has been saved.
func (s *Store) GetSettings(ctx context.Context) (*model.Settings, error) {
	var row settingsRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", settingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &model.Settings{
		ID:             row.ID,
		TabName:        row.TabName,
		ReportFooter1:  row.ReportFooter1,
		ReportFooter2:  row.ReportFooter2,
		DetailedReport: row.DetailedReport,
	}, nil
}

// UpdateSettings creates or replaces the settings row.
func (s *Store) UpdateSettings(ctx context.Context, st model.Settings) error {
	row := settingsRow{
		ID:             settingsID,
		TabName:        st.TabName,
		ReportFooter1:  st.ReportFooter1,
		ReportFooter2:  st.ReportFooter2,
		DetailedReport: st.DetailedReport,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tab_name", "report_footer1", "report_footer2", "detailed_report"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
