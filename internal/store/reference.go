package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/balanca/internal/model"
)

// CreateProduct inserts a product. An empty ID is replaced with a UUIDv7.
func (s *Store) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	p.CreatedAt = s.stamp(p.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, code, description, item_type, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Code, p.Description, p.ItemType, toMillis(p.CreatedAt))
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", mapConstraint(err))
	}
	return p, nil
}

// ListProducts returns all products ordered by description.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, description, item_type, created_at
		FROM products
		ORDER BY description ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var (
			p       model.Product
			created int64
		)
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.ItemType, &created); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.CreatedAt = fromMillis(created)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// UpsertUnitPrice sets the active price for an item type.
func (s *Store) UpsertUnitPrice(ctx context.Context, itemType string, price float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO unit_prices (id, item_type, price, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(item_type) DO UPDATE SET price = excluded.price
	`, newID(), itemType, price, toMillis(s.now()))
	if err != nil {
		return fmt.Errorf("upsert unit price %s: %w", itemType, err)
	}
	return nil
}

// ListUnitPrices returns the price rows ordered by item type.
func (s *Store) ListUnitPrices(ctx context.Context) ([]model.UnitPrice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_type, price, created_at
		FROM unit_prices
		ORDER BY item_type ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query unit prices: %w", err)
	}
	defer rows.Close()

	prices := []model.UnitPrice{}
	for rows.Next() {
		var (
			p       model.UnitPrice
			created int64
		)
		if err := rows.Scan(&p.ID, &p.ItemType, &p.Price, &created); err != nil {
			return nil, fmt.Errorf("scan unit price: %w", err)
		}
		p.CreatedAt = fromMillis(created)
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unit prices: %w", err)
	}
	return prices, nil
}

// UpsertTareWeight sets the reference tare for an item type.
func (s *Store) UpsertTareWeight(ctx context.Context, itemType string, tareKg float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tare_weights (id, item_type, tare_kg, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(item_type) DO UPDATE SET tare_kg = excluded.tare_kg
	`, newID(), itemType, tareKg, toMillis(s.now()))
	if err != nil {
		return fmt.Errorf("upsert tare weight %s: %w", itemType, err)
	}
	return nil
}

// ListTareWeights returns the tare rows ordered by item type.
func (s *Store) ListTareWeights(ctx context.Context) ([]model.TareWeight, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_type, tare_kg, created_at
		FROM tare_weights
		ORDER BY item_type ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tare weights: %w", err)
	}
	defer rows.Close()

	tares := []model.TareWeight{}
	for rows.Next() {
		var (
			w       model.TareWeight
			created int64
		)
		if err := rows.Scan(&w.ID, &w.ItemType, &w.TareKg, &created); err != nil {
			return nil, fmt.Errorf("scan tare weight: %w", err)
		}
		w.CreatedAt = fromMillis(created)
		tares = append(tares, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tare weights: %w", err)
	}
	return tares, nil
}

// ListItemTypes returns every item type that has a price or a tare, with
// missing values reported as 0, ordered by name.
func (s *Store) ListItemTypes(ctx context.Context) ([]model.ItemType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.item_type, COALESCE(p.price, 0), COALESCE(w.tare_kg, 0)
		FROM (
			SELECT item_type FROM unit_prices
			UNION
			SELECT item_type FROM tare_weights
		) t
		LEFT JOIN unit_prices p ON p.item_type = t.item_type
		LEFT JOIN tare_weights w ON w.item_type = t.item_type
		ORDER BY t.item_type ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query item types: %w", err)
	}
	defer rows.Close()

	types := []model.ItemType{}
	for rows.Next() {
		var it model.ItemType
		if err := rows.Scan(&it.Name, &it.Price, &it.TareKg); err != nil {
			return nil, fmt.Errorf("scan item type: %w", err)
		}
		types = append(types, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item types: %w", err)
	}
	return types, nil
}

const settingsID = "default"

// GetSettings returns the settings row, or nil when none has been saved.
func (s *Store) GetSettings(ctx context.Context) (*model.Settings, error) {
	var (
		st       model.Settings
		detailed int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tab_name, report_footer1, report_footer2, detailed_report
		FROM settings
		WHERE id = ?
	`, settingsID).Scan(&st.ID, &st.TabName, &st.ReportFooter1, &st.ReportFooter2, &detailed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	st.DetailedReport = detailed != 0
	return &st, nil
}

// UpdateSettings creates or replaces the settings row.
func (s *Store) UpdateSettings(ctx context.Context, st model.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, tab_name, report_footer1, report_footer2, detailed_report)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tab_name = excluded.tab_name,
			report_footer1 = excluded.report_footer1,
			report_footer2 = excluded.report_footer2,
			detailed_report = excluded.detailed_report
	`, settingsID, st.TabName, st.ReportFooter1, st.ReportFooter2, boolInt(st.DetailedReport))
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
