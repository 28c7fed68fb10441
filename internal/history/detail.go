package history

import (
	"context"
	"fmt"

	"github.com/roach88/balanca/internal/model"
	"github.com/roach88/balanca/internal/report"
)

// Reader reads saved weighings. Both store backends implement it.
type Reader interface {
	ListWeighings(ctx context.Context, f model.WeighingFilter) ([]model.WeighingWithBuyer, error)
	GetWeighing(ctx context.Context, id string) (model.WeighingWithBuyer, error)
	WeighingEntries(ctx context.Context, weighingID string) ([]model.WeighingEntry, error)
}

// List returns the weighings in r, newest first, with their summary.
func List(ctx context.Context, rd Reader, r Range, buyerID string) ([]model.WeighingWithBuyer, Summary, error) {
	ws, err := rd.ListWeighings(ctx, r.Filter(buyerID))
	if err != nil {
		return nil, Summary{}, fmt.Errorf("list history: %w", err)
	}
	return ws, Summarize(ws), nil
}

// Detail builds the report of a saved weighing. The weighing's id and buyer
// replace those in opts; IssuedAt defaults to the weighing's creation time.
func Detail(ctx context.Context, rd Reader, id string, opts report.Options) (report.Report, error) {
	w, err := rd.GetWeighing(ctx, id)
	if err != nil {
		return report.Report{}, fmt.Errorf("weighing detail: %w", err)
	}
	entries, err := rd.WeighingEntries(ctx, id)
	if err != nil {
		return report.Report{}, fmt.Errorf("weighing detail: %w", err)
	}

	opts.WeighingID = w.ID
	opts.Buyer = w.Buyer
	if opts.IssuedAt.IsZero() {
		opts.IssuedAt = w.CreatedAt
	}
	return report.Build(report.FromRecords(entries), opts), nil
}
