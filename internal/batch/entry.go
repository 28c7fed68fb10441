package batch

import (
	"math"
	"time"
)

// Draft is what the caller supplies to Add: an entry without identity,
// timestamp or derived values.
type Draft struct {
	ItemType           string
	ProductID          string // empty when the item type takes no product
	ProductDescription string // snapshot for display
	GrossWeightKg      float64
	TareKg             float64
	UnitPrice          float64
}

// Entry is one weighing transaction in the batch.
type Entry struct {
	ID                 string    `json:"id"`
	ItemType           string    `json:"item_type"`
	ProductID          string    `json:"product_id,omitempty"`
	ProductDescription string    `json:"product_description,omitempty"`
	GrossWeightKg      float64   `json:"gross_weight_kg"`
	TareKg             float64   `json:"tare_kg"`
	UnitPrice          float64   `json:"unit_price"`
	CreatedAt          time.Time `json:"created_at"`
	Seq                int64     `json:"seq"`
}

// NetWeightKg is max(0, gross - tare).
func (e Entry) NetWeightKg() float64 {
	return NetWeight(e.GrossWeightKg, e.TareKg)
}

// TotalPrice is NetWeightKg * UnitPrice.
func (e Entry) TotalPrice() float64 {
	return TotalPrice(e.GrossWeightKg, e.TareKg, e.UnitPrice)
}

// NetWeight clamps gross - tare at zero.
func NetWeight(grossKg, tareKg float64) float64 {
	return math.Max(0, grossKg-tareKg)
}

// TotalPrice prices the net weight.
func TotalPrice(grossKg, tareKg, unitPrice float64) float64 {
	return NetWeight(grossKg, tareKg) * unitPrice
}

// valid reports whether the stored inputs are usable after deserialization.
func (e Entry) valid() bool {
	if e.ID == "" || e.ItemType == "" {
		return false
	}
	for _, v := range []float64{e.GrossWeightKg, e.TareKg, e.UnitPrice} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}
