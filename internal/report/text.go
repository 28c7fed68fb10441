package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/balanca/internal/numfmt"
)

// RenderText writes the report as plain text.
//
// Regular groups come first in first-seen order, then the bone category with
// one block per product and its subtotal, then the grand totals and footer.
func RenderText(w io.Writer, r Report) error {
	var b strings.Builder

	b.WriteString(r.Title + "\n")
	fmt.Fprintf(&b, "Data de emissão: %s\n", numfmt.FormatDate(r.IssuedAt))
	if r.Buyer != nil {
		line := "Comprador: " + r.Buyer.Name
		if r.Buyer.Company != "" {
			line += " - " + r.Buyer.Company
		}
		b.WriteString(line + "\n")
	}
	if r.WeighingID != "" {
		fmt.Fprintf(&b, "Pesagem: %s\n", r.WeighingID)
	}

	for _, g := range r.Groups {
		if g.IsBone() {
			continue
		}
		fmt.Fprintf(&b, "\nRelatório de pesagem: %s\n", g.Name)
		writeBlock(&b, "  ", g, r.Detailed)
	}

	if bone, ok := r.Bone(); ok {
		fmt.Fprintf(&b, "\nRelatório de pesagem: %s\n", bone.Name)
		for _, sg := range bone.Subgroups {
			fmt.Fprintf(&b, "  Produto: %s\n", sg.Name)
			writeBlock(&b, "    ", sg, r.Detailed)
		}
		fmt.Fprintf(&b, "  Total %s: %s kg\n", bone.Name, numfmt.FormatNumber(bone.Totals.NetWeightKg, 2))
		fmt.Fprintf(&b, "  Valor Total %s: %s\n", bone.Name, numfmt.FormatCurrency(bone.Totals.TotalPrice))
	}

	fmt.Fprintf(&b, "\nPeso Líquido Total: %s kg\n", numfmt.FormatNumber(r.Totals.NetWeightKg, 2))
	fmt.Fprintf(&b, "Valor Total: %s\n", numfmt.FormatCurrency(r.Totals.TotalPrice))

	if len(r.Footer) > 0 {
		b.WriteString("\n")
		for _, f := range r.Footer {
			b.WriteString(f + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBlock(b *strings.Builder, indent string, g Group, detailed bool) {
	if detailed {
		b.WriteString(indent + row("Peso Bruto", "Tara", "Peso Líquido", "Preço/kg", "Total"))
		for _, l := range g.Lines {
			b.WriteString(indent + row(
				numfmt.FormatNumber(l.GrossWeightKg, 2),
				numfmt.FormatNumber(l.TareKg, 2),
				numfmt.FormatNumber(l.NetWeightKg, 2),
				numfmt.FormatCurrency(l.UnitPrice),
				numfmt.FormatCurrency(l.TotalPrice),
			))
		}
	} else {
		fmt.Fprintf(b, "%sTara: %s kg\n", indent, numfmt.FormatNumber(g.TareUsed, 2))
	}
	fmt.Fprintf(b, "%sTotal de itens: %d | Peso líquido: %s kg | Total: %s\n",
		indent, g.Totals.Count, numfmt.FormatNumber(g.Totals.NetWeightKg, 2), numfmt.FormatCurrency(g.Totals.TotalPrice))
}

func row(gross, tare, net, price, total string) string {
	return fmt.Sprintf("%12s %10s %14s %12s %14s\n", gross, tare, net, price, total)
}
