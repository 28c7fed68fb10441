package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/balanca/internal/model"
)

// ReportDateLayout is the layout of weighings.report_date.
const ReportDateLayout = "2006-01-02"

// SaveWeighing stores a weighing and its entries in a single transaction.
//
// Empty IDs are generated, CreatedAt defaults to now, ReportDate defaults to
// the CreatedAt day, and each entry gets WeighingID and its Position in the
// slice. Either every row is committed or none is.
func (s *Store) SaveWeighing(ctx context.Context, w model.Weighing, entries []model.WeighingEntry) (model.Weighing, error) {
	if w.ID == "" {
		w.ID = newID()
	}
	w.CreatedAt = s.stamp(w.CreatedAt)
	if w.ReportDate == "" {
		w.ReportDate = w.CreatedAt.Format(ReportDateLayout)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Weighing{}, fmt.Errorf("save weighing: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO weighings (id, buyer_id, total_kg, total_price, tab_name, created_at, report_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		w.ID,
		nullString(w.BuyerID),
		w.TotalKg,
		w.TotalPrice,
		w.TabName,
		toMillis(w.CreatedAt),
		w.ReportDate,
	)
	if err != nil {
		return model.Weighing{}, fmt.Errorf("save weighing: insert weighing: %w", mapConstraint(err))
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weighing_entries
		(id, weighing_id, position, item_type, product_id, gross_weight, tare_used, net_weight, unit_price, total_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return model.Weighing{}, fmt.Errorf("save weighing: prepare entries: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if e.ID == "" {
			e.ID = newID()
		}
		_, err := stmt.ExecContext(ctx,
			e.ID,
			w.ID,
			i,
			e.ItemType,
			nullString(e.ProductID),
			e.GrossWeight,
			e.TareUsed,
			e.NetWeight,
			e.UnitPrice,
			e.TotalPrice,
		)
		if err != nil {
			return model.Weighing{}, fmt.Errorf("save weighing: insert entry %d: %w", i, mapConstraint(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Weighing{}, fmt.Errorf("save weighing: commit: %w", err)
	}
	return w, nil
}

const weighingSelect = `
	SELECT w.id, w.buyer_id, w.total_kg, w.total_price, w.tab_name, w.created_at, w.report_date,
	       b.id, b.name, b.phone, b.document, b.document_kind, b.company, b.created_at
	FROM weighings w
	LEFT JOIN buyers b ON b.id = w.buyer_id
`

// ListWeighings returns weighings matching the filter, newest first, with
// their buyer joined. Start is inclusive; End includes the whole named day.
func (s *Store) ListWeighings(ctx context.Context, f model.WeighingFilter) ([]model.WeighingWithBuyer, error) {
	var (
		where []string
		args  []any
	)
	if f.Start != nil {
		where = append(where, "w.created_at >= ?")
		args = append(args, toMillis(*f.Start))
	}
	if f.End != nil {
		where = append(where, "w.created_at < ?")
		args = append(args, toMillis(model.DayAfter(*f.End)))
	}
	if f.BuyerID != "" {
		where = append(where, "w.buyer_id = ?")
		args = append(args, f.BuyerID)
	}

	query := weighingSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY w.created_at DESC, w.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query weighings: %w", err)
	}
	defer rows.Close()

	out := []model.WeighingWithBuyer{}
	for rows.Next() {
		w, err := scanWeighing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weighings: %w", err)
	}
	return out, nil
}

// GetWeighing retrieves one weighing with its buyer.
// Returns model.ErrNotFound if not found.
func (s *Store) GetWeighing(ctx context.Context, id string) (model.WeighingWithBuyer, error) {
	row := s.db.QueryRowContext(ctx, weighingSelect+" WHERE w.id = ?", id)
	w, err := scanWeighing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WeighingWithBuyer{}, fmt.Errorf("get weighing %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.WeighingWithBuyer{}, fmt.Errorf("get weighing %s: %w", id, err)
	}
	return w, nil
}

// WeighingEntries returns the entries of a weighing in saved order, with the
// product description joined.
func (s *Store) WeighingEntries(ctx context.Context, weighingID string) ([]model.WeighingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.weighing_id, e.position, e.item_type, e.product_id, COALESCE(p.description, ''),
		       e.gross_weight, e.tare_used, e.net_weight, e.unit_price, e.total_price
		FROM weighing_entries e
		LEFT JOIN products p ON p.id = e.product_id
		WHERE e.weighing_id = ?
		ORDER BY e.position ASC
	`, weighingID)
	if err != nil {
		return nil, fmt.Errorf("query weighing entries: %w", err)
	}
	defer rows.Close()

	entries := []model.WeighingEntry{}
	for rows.Next() {
		var (
			e         model.WeighingEntry
			productID sql.NullString
		)
		err := rows.Scan(&e.ID, &e.WeighingID, &e.Position, &e.ItemType, &productID, &e.ProductDescription,
			&e.GrossWeight, &e.TareUsed, &e.NetWeight, &e.UnitPrice, &e.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("scan weighing entry: %w", err)
		}
		e.ProductID = productID.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weighing entries: %w", err)
	}
	return entries, nil
}

func scanWeighing(row rowScanner) (model.WeighingWithBuyer, error) {
	var (
		w                        model.WeighingWithBuyer
		buyerRef                 sql.NullString
		created                  int64
		bID, bName, bPhone, bDoc sql.NullString
		bKind, bCompany          sql.NullString
		bCreated                 sql.NullInt64
	)
	err := row.Scan(&w.ID, &buyerRef, &w.TotalKg, &w.TotalPrice, &w.TabName, &created, &w.ReportDate,
		&bID, &bName, &bPhone, &bDoc, &bKind, &bCompany, &bCreated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.WeighingWithBuyer{}, err
		}
		return model.WeighingWithBuyer{}, fmt.Errorf("scan weighing: %w", err)
	}
	w.BuyerID = buyerRef.String
	w.CreatedAt = fromMillis(created)
	if bID.Valid {
		w.Buyer = &model.Buyer{
			ID:           bID.String,
			Name:         bName.String,
			Phone:        bPhone.String,
			Document:     bDoc.String,
			DocumentKind: model.DocumentKind(bKind.String),
			Company:      bCompany.String,
			CreatedAt:    fromMillis(bCreated.Int64),
		}
	}
	return w, nil
}
