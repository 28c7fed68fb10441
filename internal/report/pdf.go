package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/roach88/balanca/internal/numfmt"
)

const (
	pdfMargin   = 15.0
	pdfLineH    = 6.0
	pdfQRSize   = 28.0
	pdfQRPixels = 256
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Peso Bruto (kg)", 36},
	{"Tara (kg)", 30},
	{"Peso Líquido (kg)", 40},
	{"Preço/kg", 32},
	{"Total", 42},
}

// RenderPDF writes the report as an A4 PDF. Detailed reports list every
// entry; compact reports print only the group totals. A saved weighing gets a
// QR code carrying its id in the top right corner.
func RenderPDF(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(r.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargin

	if r.WeighingID != "" {
		png, err := qrcode.Encode(r.WeighingID, qrcode.Medium, pdfQRPixels)
		if err != nil {
			return fmt.Errorf("render pdf: qr code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("weighing_qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("weighing_qr", pageW-pdfMargin-pdfQRSize, pdfMargin, pdfQRSize, pdfQRSize, false, opts, 0, "")
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(contentW, 10, tr(r.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(contentW, pdfLineH, tr("Data de emissão: "+numfmt.FormatDate(r.IssuedAt)), "", 1, "C", false, 0, "")
	if r.Buyer != nil {
		line := "Comprador: " + r.Buyer.Name
		if r.Buyer.Company != "" {
			line += " - " + r.Buyer.Company
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(contentW, pdfLineH, tr(line), "", 1, "C", false, 0, "")
	}
	if r.WeighingID != "" {
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(contentW, pdfLineH, tr("Pesagem: "+r.WeighingID), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, g := range r.Groups {
		if g.IsBone() {
			continue
		}
		pdfHeading(pdf, tr, 13, "Relatório de pesagem: "+g.Name)
		pdfBlock(pdf, tr, g, r.Detailed)
	}

	if bone, ok := r.Bone(); ok {
		pdfHeading(pdf, tr, 13, "Relatório de pesagem: "+bone.Name)
		for _, sg := range bone.Subgroups {
			pdfHeading(pdf, tr, 11, "Produto: "+sg.Name)
			pdfBlock(pdf, tr, sg, r.Detailed)
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(contentW, pdfLineH, tr(fmt.Sprintf("Total %s: %s kg", bone.Name, numfmt.FormatNumber(bone.Totals.NetWeightKg, 2))), "", 1, "L", true, 0, "")
		pdf.CellFormat(contentW, pdfLineH, tr(fmt.Sprintf("Valor Total %s: %s", bone.Name, numfmt.FormatCurrency(bone.Totals.TotalPrice))), "", 1, "L", true, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentW/2, 8, tr("Peso Líquido Total:"), "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 8, tr(numfmt.FormatNumber(r.Totals.NetWeightKg, 2)+" kg"), "T", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(contentW/2, 9, tr("Valor Total:"), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 9, tr(numfmt.FormatCurrency(r.Totals.TotalPrice)), "", 1, "R", false, 0, "")

	if len(r.Footer) > 0 {
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 9)
		for _, f := range r.Footer {
			pdf.CellFormat(contentW, 5, tr(f), "", 1, "C", false, 0, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func pdfHeading(pdf *gofpdf.Fpdf, tr func(string) string, size float64, text string) {
	pdf.SetFont("Arial", "B", size)
	pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
}

func pdfBlock(pdf *gofpdf.Fpdf, tr func(string) string, g Group, detailed bool) {
	if detailed {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, pdfLineH, tr(c.title), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, l := range g.Lines {
			cells := []string{
				numfmt.FormatNumber(l.GrossWeightKg, 2),
				numfmt.FormatNumber(l.TareKg, 2),
				numfmt.FormatNumber(l.NetWeightKg, 2),
				numfmt.FormatCurrency(l.UnitPrice),
				numfmt.FormatCurrency(l.TotalPrice),
			}
			for i, c := range pdfColumns {
				pdf.CellFormat(c.width, pdfLineH, tr(cells[i]), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	} else {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, pdfLineH, tr("Tara: "+numfmt.FormatNumber(g.TareUsed, 2)+" kg"), "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	countW := pdfColumns[0].width + pdfColumns[1].width
	pdf.CellFormat(countW, pdfLineH, tr(fmt.Sprintf("Total de itens: %d", g.Totals.Count)), "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfColumns[2].width, pdfLineH, tr(numfmt.FormatNumber(g.Totals.NetWeightKg, 2)), "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfColumns[3].width, pdfLineH, "", "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfColumns[4].width, pdfLineH, tr(numfmt.FormatCurrency(g.Totals.TotalPrice)), "1", 1, "L", true, 0, "")
	pdf.Ln(3)
}
