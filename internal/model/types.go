package model

import "time"

// ItemType is a category of material with its active unit price and tare.
// Identity is the name.
type ItemType struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	TareKg float64 `json:"tare_kg"`
}

// UnitPrice is the stored price row for one item type.
type UnitPrice struct {
	ID        string    `json:"id"`
	ItemType  string    `json:"item_type"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// TareWeight is the stored tare row for one item type.
type TareWeight struct {
	ID        string    `json:"id"`
	ItemType  string    `json:"item_type"`
	TareKg    float64   `json:"tare_kg"`
	CreatedAt time.Time `json:"created_at"`
}

// Product belongs to exactly one item type.
type Product struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	ItemType    string    `json:"item_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentKind is inferred from the digit count of a buyer document.
type DocumentKind string

const (
	DocumentNone    DocumentKind = ""
	DocumentCPF     DocumentKind = "CPF"
	DocumentCNPJ    DocumentKind = "CNPJ"
	DocumentRG      DocumentKind = "RG"
	DocumentInvalid DocumentKind = "INVALID"
)

// Buyer is a registered buyer. Phone and Document hold digits only.
type Buyer struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Phone        string       `json:"phone"`
	Document     string       `json:"document,omitempty"`
	DocumentKind DocumentKind `json:"document_kind,omitempty"`
	Company      string       `json:"company,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Weighing is the durable summary of one saved batch.
type Weighing struct {
	ID         string    `json:"id"`
	BuyerID    string    `json:"buyer_id,omitempty"`
	TotalKg    float64   `json:"total_kg"`
	TotalPrice float64   `json:"total_price"`
	TabName    string    `json:"tab_name"`
	CreatedAt  time.Time `json:"created_at"`
	ReportDate string    `json:"report_date"` // YYYY-MM-DD
}

// WeighingWithBuyer is a weighing joined with its buyer, if any.
type WeighingWithBuyer struct {
	Weighing
	Buyer *Buyer `json:"buyer,omitempty"`
}

// WeighingEntry is one persisted child row of a Weighing.
//
// ProductDescription is filled on read from the products table and is not
// stored on the row itself.
type WeighingEntry struct {
	ID                 string  `json:"id"`
	WeighingID         string  `json:"weighing_id"`
	Position           int     `json:"position"`
	ItemType           string  `json:"item_type"`
	ProductID          string  `json:"product_id,omitempty"`
	ProductDescription string  `json:"product_description,omitempty"`
	GrossWeight        float64 `json:"gross_weight"`
	TareUsed           float64 `json:"tare_used"`
	NetWeight          float64 `json:"net_weight"`
	UnitPrice          float64 `json:"unit_price"`
	TotalPrice         float64 `json:"total_price"`
}

// Settings is the singleton settings record.
type Settings struct {
	ID             string `json:"id"`
	TabName        string `json:"tab_name"`
	ReportFooter1  string `json:"report_footer1"`
	ReportFooter2  string `json:"report_footer2"`
	DetailedReport bool   `json:"detailed_report"`
}

// Footer returns the non-empty footer lines in order.
func (s *Settings) Footer() []string {
	if s == nil {
		return nil
	}
	var lines []string
	for _, l := range []string{s.ReportFooter1, s.ReportFooter2} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// WeighingFilter selects weighings by creation time and buyer.
// Start is inclusive; End names the last included day.
type WeighingFilter struct {
	Start   *time.Time
	End     *time.Time
	BuyerID string
}

// DayAfter returns midnight of the day following t, in t's location.
// It is the exclusive upper bound for an inclusive end day.
func DayAfter(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
