package session

import (
	"context"

	"github.com/roach88/balanca/internal/model"
	"github.com/roach88/balanca/internal/report"
)

const reportDateLayout = "2006-01-02"

// Save writes the batch as one weighing with its entries.
//
// An empty batch fails with NOTHING_TO_SAVE before any store access. On
// success the batch and its draft are cleared; on failure the batch is left
// exactly as it was. buyerID may be empty unless the session requires a buyer.
//
// When the weighing is stored but the draft cannot be cleared, the weighing
// is returned together with an IO error. Check the weighing ID to tell this
// apart from a failed save.
func (s *Session) Save(ctx context.Context, buyerID string) (model.Weighing, error) {
	if s.batch.IsEmpty() {
		return model.Weighing{}, &Error{Code: ErrCodeNothingToSave, Message: "Não há pesagens para salvar"}
	}
	if !s.saving.CompareAndSwap(false, true) {
		return model.Weighing{}, &Error{Code: ErrCodeSaveInProgress, Message: "Já existe um salvamento em andamento"}
	}
	defer s.saving.Store(false)

	if buyerID == "" && s.cfg.RequireBuyer {
		return model.Weighing{}, &Error{Code: ErrCodeBuyerRequired, Message: "Selecione um comprador", Field: "buyer"}
	}
	if buyerID != "" && s.cache.Loaded() {
		if _, ok := s.cache.Buyer(buyerID); !ok {
			return model.Weighing{}, validationError("buyer", "Comprador não encontrado")
		}
	}

	agg := s.batch.Aggregate()
	entries := s.batch.InsertionOrder()
	rows := make([]model.WeighingEntry, len(entries))
	for i, e := range entries {
		rows[i] = model.WeighingEntry{
			Position:    i,
			ItemType:    e.ItemType,
			ProductID:   e.ProductID,
			GrossWeight: e.GrossWeightKg,
			TareUsed:    e.TareKg,
			NetWeight:   e.NetWeightKg(),
			UnitPrice:   e.UnitPrice,
			TotalPrice:  e.TotalPrice(),
		}
	}

	now := s.clock.Now()
	w, err := s.store.SaveWeighing(ctx, model.Weighing{
		BuyerID:    buyerID,
		TotalKg:    agg.TotalNetWeightKg,
		TotalPrice: agg.TotalPrice,
		TabName:    s.tabName(),
		CreatedAt:  now,
		ReportDate: now.Format(reportDateLayout),
	}, rows)
	if err != nil {
		s.logger.Error("save weighing failed", "buyer_id", buyerID, "entries", len(rows), "error", err)
		if model.IsDuplicate(err) {
			return model.Weighing{}, &Error{Code: ErrCodeDuplicate, Message: "Pesagem já registrada", Err: err}
		}
		return model.Weighing{}, ioError("Erro ao salvar pesagem", err)
	}

	s.batch.Clear()
	s.logger.Info("weighing saved",
		"weighing_id", w.ID,
		"buyer_id", buyerID,
		"entries", len(rows),
		"total_kg", w.TotalKg,
		"total_price", w.TotalPrice)

	return w, s.discardDraft(w.ID)
}

// discardDraft removes the draft of a saved batch. When the delete fails the
// draft is overwritten with the empty batch, so the next session cannot offer
// the saved entries again.
func (s *Session) discardDraft(weighingID string) error {
	if s.drafts == nil {
		return nil
	}
	err := s.drafts.Delete(s.cfg.DraftKey)
	if err == nil {
		return nil
	}
	s.logger.Warn("delete draft after save failed", "session", s.cfg.DraftKey, "weighing_id", weighingID, "error", err)

	if err := s.drafts.Save(s.cfg.DraftKey, s.batch.Snapshot()); err != nil {
		s.logger.Error("draft still holds a saved batch", "session", s.cfg.DraftKey, "weighing_id", weighingID, "error", err)
		return ioError("Pesagem salva, mas o rascunho não foi limpo; limpe o lote antes de continuar", err)
	}
	return nil
}

func (s *Session) tabName() string {
	if st := s.cache.Settings(); st != nil && st.TabName != "" {
		return st.TabName
	}
	return s.cfg.DefaultTabName
}

// Report projects the batch in its display order. buyerID may be empty.
func (s *Session) Report(buyerID string) report.Report {
	opts := s.reportOptions(buyerID)
	return report.Build(report.FromEntries(s.batch.Entries()), opts)
}

func (s *Session) reportOptions(buyerID string) report.Options {
	opts := report.Options{
		StoreName:     s.cfg.StoreName,
		IssuedAt:      s.clock.Now(),
		BoneCategory:  s.cfg.BoneCategory,
		ReferenceTare: s.cache.Tare,
		Settings:      s.cache.Settings(),
	}
	if buyerID != "" {
		if b, ok := s.cache.Buyer(buyerID); ok {
			opts.Buyer = &b
		}
	}
	return opts
}

// PrintResult is the outcome of Print.
type PrintResult struct {
	Report report.Report

	// Weighing is set when the batch was saved.
	Weighing *model.Weighing

	// SaveErr holds a save failure; the report is still valid. When Weighing
	// is also set, the save succeeded and SaveErr only reports the draft.
	SaveErr error
}

// Print builds the report of the batch and, when save is set, saves the batch
// too under the same buyer policy as Save. A failed save does not prevent
// printing: the report is returned with SaveErr set and the batch kept.
func (s *Session) Print(ctx context.Context, buyerID string, save bool) PrintResult {
	res := PrintResult{Report: s.Report(buyerID)}
	if !save || s.batch.IsEmpty() {
		return res
	}

	w, err := s.Save(ctx, buyerID)
	if w.ID != "" {
		res.Weighing = &w
		res.Report.WeighingID = w.ID
	}
	if err != nil {
		s.logger.Warn("printing without a clean save", "buyer_id", buyerID, "weighing_id", w.ID, "error", err)
		res.SaveErr = err
	}
	return res
}
