package pgstore

import (
	"time"

	"github.com/roach88/balanca/internal/model"
)

// Unique indexes are named uq_<table>_<column> so violations map back to a
// field.

type buyerRow struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Name         string  `gorm:"not null;uniqueIndex:uq_buyers_name"`
	Phone        string  `gorm:"not null;uniqueIndex:uq_buyers_phone"`
	Document     *string `gorm:"uniqueIndex:uq_buyers_document"`
	DocumentKind string  `gorm:"size:8;not null"`
	Company      string  `gorm:"not null"`
	CreatedAt    time.Time
}

func (buyerRow) TableName() string { return "buyers" }

type productRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	Code        string `gorm:"not null"`
	Description string `gorm:"not null"`
	ItemType    string `gorm:"not null;index"`
	CreatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

type unitPriceRow struct {
	ID        string  `gorm:"primaryKey;size:36"`
	ItemType  string  `gorm:"not null;uniqueIndex:uq_unit_prices_item_type"`
	Price     float64 `gorm:"not null;check:price >= 0"`
	CreatedAt time.Time
}

func (unitPriceRow) TableName() string { return "unit_prices" }

type tareWeightRow struct {
	ID        string  `gorm:"primaryKey;size:36"`
	ItemType  string  `gorm:"not null;uniqueIndex:uq_tare_weights_item_type"`
	TareKg    float64 `gorm:"not null;check:tare_kg >= 0"`
	CreatedAt time.Time
}

func (tareWeightRow) TableName() string { return "tare_weights" }

type weighingRow struct {
	ID         string     `gorm:"primaryKey;size:36"`
	BuyerID    *string    `gorm:"size:36;index"`
	Buyer      *buyerRow  `gorm:"foreignKey:BuyerID;constraint:OnDelete:SET NULL"`
	TotalKg    float64    `gorm:"not null"`
	TotalPrice float64    `gorm:"not null"`
	TabName    string     `gorm:"not null"`
	CreatedAt  time.Time  `gorm:"not null;index"`
	ReportDate string     `gorm:"size:10;not null;index"`
	Entries    []entryRow `gorm:"foreignKey:WeighingID;constraint:OnDelete:CASCADE"`
}

func (weighingRow) TableName() string { return "weighings" }

type entryRow struct {
	ID          string      `gorm:"primaryKey;size:36"`
	WeighingID  string      `gorm:"size:36;not null;uniqueIndex:uq_weighing_entries_position,priority:1"`
	Position    int         `gorm:"not null;uniqueIndex:uq_weighing_entries_position,priority:2"`
	ItemType    string      `gorm:"not null"`
	ProductID   *string     `gorm:"size:36"`
	Product     *productRow `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	GrossWeight float64     `gorm:"not null"`
	TareUsed    float64     `gorm:"not null"`
	NetWeight   float64     `gorm:"not null"`
	UnitPrice   float64     `gorm:"not null"`
	TotalPrice  float64     `gorm:"not null"`
}

func (entryRow) TableName() string { return "weighing_entries" }

type settingsRow struct {
	ID             string `gorm:"primaryKey;size:16"`
	TabName        string `gorm:"not null"`
	ReportFooter1  string `gorm:"not null"`
	ReportFooter2  string `gorm:"not null"`
	DetailedReport bool   `gorm:"not null"`
}

func (settingsRow) TableName() string { return "settings" }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toBuyerRow(b model.Buyer) buyerRow {
	return buyerRow{
		ID:           b.ID,
		Name:         b.Name,
		Phone:        b.Phone,
		Document:     optional(b.Document),
		DocumentKind: string(b.DocumentKind),
		Company:      b.Company,
		CreatedAt:    b.CreatedAt,
	}
}

func (r buyerRow) toModel() model.Buyer {
	return model.Buyer{
		ID:           r.ID,
		Name:         r.Name,
		Phone:        r.Phone,
		Document:     deref(r.Document),
		DocumentKind: model.DocumentKind(r.DocumentKind),
		Company:      r.Company,
		CreatedAt:    r.CreatedAt,
	}
}

func (r productRow) toModel() model.Product {
	return model.Product{
		ID:          r.ID,
		Code:        r.Code,
		Description: r.Description,
		ItemType:    r.ItemType,
		CreatedAt:   r.CreatedAt,
	}
}

func toWeighingRow(w model.Weighing) weighingRow {
	return weighingRow{
		ID:         w.ID,
		BuyerID:    optional(w.BuyerID),
		TotalKg:    w.TotalKg,
		TotalPrice: w.TotalPrice,
		TabName:    w.TabName,
		CreatedAt:  w.CreatedAt,
		ReportDate: w.ReportDate,
	}
}

func (r weighingRow) toModel() model.WeighingWithBuyer {
	out := model.WeighingWithBuyer{Weighing: model.Weighing{
		ID:         r.ID,
		BuyerID:    deref(r.BuyerID),
		TotalKg:    r.TotalKg,
		TotalPrice: r.TotalPrice,
		TabName:    r.TabName,
		CreatedAt:  r.CreatedAt,
		ReportDate: r.ReportDate,
	}}
	if r.Buyer != nil {
		b := r.Buyer.toModel()
		out.Buyer = &b
	}
	return out
}

func toEntryRow(e model.WeighingEntry) entryRow {
	return entryRow{
		ID:          e.ID,
		WeighingID:  e.WeighingID,
		Position:    e.Position,
		ItemType:    e.ItemType,
		ProductID:   optional(e.ProductID),
		GrossWeight: e.GrossWeight,
		TareUsed:    e.TareUsed,
		NetWeight:   e.NetWeight,
		UnitPrice:   e.UnitPrice,
		TotalPrice:  e.TotalPrice,
	}
}

func (r entryRow) toModel() model.WeighingEntry {
	e := model.WeighingEntry{
		ID:          r.ID,
		WeighingID:  r.WeighingID,
		Position:    r.Position,
		ItemType:    r.ItemType,
		ProductID:   deref(r.ProductID),
		GrossWeight: r.GrossWeight,
		TareUsed:    r.TareUsed,
		NetWeight:   r.NetWeight,
		UnitPrice:   r.UnitPrice,
		TotalPrice:  r.TotalPrice,
	}
	if r.Product != nil {
		e.ProductDescription = r.Product.Description
	}
	return e
}
