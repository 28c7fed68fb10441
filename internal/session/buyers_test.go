package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balanca/internal/model"
)

func TestCreateBuyer_Normalizes(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store, Config{})

	b, err := s.CreateBuyer(t.Context(), BuyerForm{
		Name:     "  José Silva ",
		Phone:    "(11) 91234-5678",
		Document: "529.982.247-25",
		Company:  " Sucata Silva ",
	})
	require.NoError(t, err)

	assert.Equal(t, "José Silva", b.Name)
	assert.Equal(t, "11912345678", b.Phone)
	assert.Equal(t, "52998224725", b.Document)
	assert.Equal(t, model.DocumentCPF, b.DocumentKind)
	assert.Equal(t, "Sucata Silva", b.Company)
	assert.Equal(t, t0, b.CreatedAt)

	cached, ok := s.Cache().Buyer(b.ID)
	require.True(t, ok, "buyer list is refreshed after create")
	assert.Equal(t, b.Name, cached.Name)
}

func TestCreateBuyer_DocumentIsOptional(t *testing.T) {
	s := newTestSession(t, newFakeStore(), Config{})

	b, err := s.CreateBuyer(t.Context(), BuyerForm{Name: "Bia", Phone: "2133334444"})
	require.NoError(t, err)
	assert.Empty(t, b.Document)
	assert.Equal(t, model.DocumentNone, b.DocumentKind)
}

func TestCreateBuyer_Validation(t *testing.T) {
	tests := []struct {
		name  string
		form  BuyerForm
		field string
	}{
		{"blank name", BuyerForm{Name: "   ", Phone: "119"}, "name"},
		{"phone without digits", BuyerForm{Name: "Caio", Phone: "sem telefone"}, "phone"},
		{"bad CPF check digit", BuyerForm{Name: "Caio", Phone: "119", Document: "529.982.247-26"}, "document"},
		{"repeated digits", BuyerForm{Name: "Caio", Phone: "119", Document: "111.111.111-11"}, "document"},
		{"odd length", BuyerForm{Name: "Caio", Phone: "119", Document: "123"}, "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			s := newTestSession(t, store, Config{})

			_, err := s.CreateBuyer(t.Context(), tt.form)
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.field, se.Field)
			assert.Len(t, store.buyers, 1)
		})
	}
}

func TestCreateBuyer_Duplicates(t *testing.T) {
	tests := []struct {
		name    string
		form    BuyerForm
		field   string
		message string
	}{
		{"name", BuyerForm{Name: "Ana", Phone: "000"}, "name", "Já existe um comprador com este nome"},
		{"phone", BuyerForm{Name: "Outra Ana", Phone: "(11) 98765-4321"}, "phone", "Já existe um comprador com este telefone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, newFakeStore(), Config{})

			_, err := s.CreateBuyer(t.Context(), tt.form)
			require.Error(t, err)
			assert.True(t, IsDuplicate(err))

			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.field, se.Field)
			assert.Equal(t, tt.message, se.Message)
		})
	}
}

func TestCreateBuyer_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.buyerErr = errStore
	s := newTestSession(t, store, Config{})

	_, err := s.CreateBuyer(t.Context(), BuyerForm{Name: "Caio", Phone: "119"})
	assert.True(t, IsIO(err))
	assert.ErrorIs(t, err, errStore)
}
