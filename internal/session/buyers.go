package session

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/balanca/internal/document"
	"github.com/roach88/balanca/internal/model"
)

// BuyerForm is the operator's input for a new buyer.
type BuyerForm struct {
	Name     string
	Phone    string
	Document string
	Company  string
}

// CreateBuyer validates and registers a buyer, then refreshes the buyer
// list. Phone and document are stored as digits only.
//
// Uniqueness of name, phone and document is enforced by the store; a
// violation comes back as a DUPLICATE error naming the field.
func (s *Session) CreateBuyer(ctx context.Context, f BuyerForm) (model.Buyer, error) {
	name := norm.NFC.String(strings.TrimSpace(f.Name))
	if name == "" {
		return model.Buyer{}, validationError("name", "Nome é obrigatório")
	}
	phone := document.Digits(f.Phone)
	if phone == "" {
		return model.Buyer{}, validationError("phone", "Telefone é obrigatório")
	}
	doc := document.Digits(f.Document)
	if !document.Validate(doc) {
		return model.Buyer{}, validationError("document", "Documento inválido")
	}

	b, err := s.store.CreateBuyer(ctx, model.Buyer{
		Name:         name,
		Phone:        phone,
		Document:     doc,
		DocumentKind: document.KindOf(doc),
		Company:      norm.NFC.String(strings.TrimSpace(f.Company)),
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		var de *model.DuplicateError
		if errors.As(err, &de) {
			return model.Buyer{}, &Error{Code: ErrCodeDuplicate, Message: de.UserMessage(), Field: de.Field, Err: err}
		}
		s.logger.Error("create buyer failed", "error", err)
		return model.Buyer{}, ioError("Erro ao cadastrar comprador", err)
	}

	if err := s.cache.RefreshBuyers(ctx, s.store); err != nil {
		s.logger.Warn("buyer list refresh failed", "buyer_id", b.ID, "error", err)
	}
	s.logger.Info("buyer created", "buyer_id", b.ID)
	return b, nil
}
