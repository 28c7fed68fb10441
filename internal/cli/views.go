package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/balanca/internal/batch"
	"github.com/roach88/balanca/internal/numfmt"
)

// entryView is the JSON form of a batch entry with its derived amounts.
type entryView struct {
	batch.Entry
	NetWeightKg float64 `json:"net_weight_kg"`
	TotalPrice  float64 `json:"total_price"`
}

func newEntryView(e batch.Entry) entryView {
	return entryView{Entry: e, NetWeightKg: e.NetWeightKg(), TotalPrice: e.TotalPrice()}
}

// aggregateView is the JSON form of the running totals.
type aggregateView struct {
	Count               int      `json:"count"`
	TotalNetWeightKg    float64  `json:"total_net_weight_kg"`
	TotalPrice          float64  `json:"total_price"`
	AveragePricePerItem *float64 `json:"average_price_per_item,omitempty"`
}

func newAggregateView(a batch.Aggregate) aggregateView {
	v := aggregateView{Count: a.Count, TotalNetWeightKg: a.TotalNetWeightKg, TotalPrice: a.TotalPrice}
	if avg, ok := a.AveragePricePerItem(); ok {
		v.AveragePricePerItem = &avg
	}
	return v
}

type batchView struct {
	SortOrder batch.SortOrder `json:"sort_order"`
	Entries   []entryView     `json:"entries"`
	Totals    aggregateView   `json:"totals"`
}

func sortOrderLabel(o batch.SortOrder) string {
	if o == batch.Oldest {
		return "mais antigas primeiro"
	}
	return "mais recentes primeiro"
}

func writeEntries(w io.Writer, entries []batch.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ID\tHora\tTipo\tProduto\tBruto\tTara\tLíquido\tPreço/kg\tTotal\t")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			e.ID,
			e.CreatedAt.Format("15:04:05"),
			e.ItemType,
			e.ProductDescription,
			numfmt.FormatWeight(e.GrossWeightKg),
			numfmt.FormatWeight(e.TareKg),
			numfmt.FormatWeight(e.NetWeightKg()),
			numfmt.FormatCurrency(e.UnitPrice),
			numfmt.FormatCurrency(e.TotalPrice()))
	}
	return tw.Flush()
}

func writeAggregate(w io.Writer, a batch.Aggregate) {
	line := fmt.Sprintf("Itens: %d | Peso líquido: %s | Total: %s",
		a.Count, numfmt.FormatWeight(a.TotalNetWeightKg), numfmt.FormatCurrency(a.TotalPrice))
	if avg, ok := a.AveragePricePerItem(); ok {
		line += " | Média por item: " + numfmt.FormatCurrency(avg)
	}
	fmt.Fprintln(w, line)
}
