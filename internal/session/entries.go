package session

import (
	"iter"
	"math"
	"strings"

	"github.com/roach88/balanca/internal/batch"
)

// EntryForm is the operator's input for one weighing. A nil TareKg or
// UnitPrice takes the reference value of the item type.
type EntryForm struct {
	ItemType      string
	ProductID     string
	GrossWeightKg float64
	TareKg        *float64
	UnitPrice     *float64
}

// AddEntry validates the form and appends the entry to the batch.
//
// The product is required for the bone category and ignored otherwise.
// When the entry was added but the draft could not be written, the entry is
// returned together with an IO error.
func (s *Session) AddEntry(f EntryForm) (batch.Entry, error) {
	d, err := s.validate(f)
	if err != nil {
		return batch.Entry{}, err
	}

	e := s.batch.Add(d)
	s.logger.Debug("entry added",
		"entry_id", e.ID,
		"item_type", e.ItemType,
		"net_weight_kg", e.NetWeightKg(),
		"total_price", e.TotalPrice())

	if err := s.persistDraft(); err != nil {
		return e, err
	}
	return e, nil
}

func (s *Session) validate(f EntryForm) (batch.Draft, error) {
	itemType := strings.TrimSpace(f.ItemType)
	if itemType == "" {
		return batch.Draft{}, validationError("item_type", "Selecione o tipo de item")
	}
	if s.cache.Loaded() && !s.cache.Known(itemType) {
		return batch.Draft{}, validationError("item_type", "Tipo de item desconhecido: "+itemType)
	}

	d := batch.Draft{ItemType: itemType}

	if itemType == s.cfg.BoneCategory {
		if f.ProductID == "" {
			return batch.Draft{}, validationError("product", "Selecione o produto")
		}
		p, ok := s.cache.Product(f.ProductID)
		if !ok || p.ItemType != itemType {
			return batch.Draft{}, validationError("product", "Produto não encontrado para "+itemType)
		}
		d.ProductID = p.ID
		d.ProductDescription = p.Description
	}

	if !finite(f.GrossWeightKg) || f.GrossWeightKg <= 0 {
		return batch.Draft{}, validationError("gross_weight", "O peso bruto deve ser maior que zero")
	}
	d.GrossWeightKg = f.GrossWeightKg

	d.TareKg = s.cache.Tare(itemType)
	if f.TareKg != nil {
		d.TareKg = *f.TareKg
	}
	if !finite(d.TareKg) || d.TareKg < 0 {
		return batch.Draft{}, validationError("tare", "A tara não pode ser negativa")
	}

	d.UnitPrice = s.cache.Price(itemType)
	if f.UnitPrice != nil {
		d.UnitPrice = *f.UnitPrice
	}
	if !finite(d.UnitPrice) || d.UnitPrice < 0 {
		return batch.Draft{}, validationError("unit_price", "O preço não pode ser negativo")
	}

	return d, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RemoveEntry removes an entry by id. Unknown ids are a no-op.
func (s *Session) RemoveEntry(id string) (bool, error) {
	if !s.batch.Remove(id) {
		return false, nil
	}
	s.logger.Debug("entry removed", "entry_id", id)
	return true, s.persistDraft()
}

// ClearEntries discards the whole batch and its draft. The sort order is kept.
func (s *Session) ClearEntries() error {
	n := s.batch.Len()
	s.batch.Clear()
	s.logger.Debug("batch cleared", "entries", n)
	return s.persistDraft()
}

// ToggleSortOrder flips the display order.
func (s *Session) ToggleSortOrder() (batch.SortOrder, error) {
	o := s.batch.ToggleSortOrder()
	return o, s.persistDraft()
}

// SortOrder returns the display order.
func (s *Session) SortOrder() batch.SortOrder {
	return s.batch.SortOrder()
}

// Entries returns the batch in display order.
func (s *Session) Entries() []batch.Entry {
	return s.batch.Entries()
}

// SortedView yields the batch in display order.
func (s *Session) SortedView() iter.Seq[batch.Entry] {
	return s.batch.SortedView()
}

// Aggregate returns the running totals.
func (s *Session) Aggregate() batch.Aggregate {
	return s.batch.Aggregate()
}

// Len returns the number of entries in the batch.
func (s *Session) Len() int {
	return s.batch.Len()
}
