package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balanca/internal/model"
)

func TestCreateBuyer_AssignsIDAndTimestamp(t *testing.T) {
	s := createTestStore(t)
	s.SetNow(func() time.Time { return at(5, 9) })

	b, err := s.CreateBuyer(t.Context(), model.Buyer{
		Name:         "Açougue Central",
		Phone:        "11987654321",
		Document:     "11222333000181",
		DocumentKind: model.DocumentCNPJ,
		Company:      "Central Ltda",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.True(t, b.CreatedAt.Equal(at(5, 9)))

	got, err := s.GetBuyer(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Name, got.Name)
	assert.Equal(t, b.Phone, got.Phone)
	assert.Equal(t, "11222333000181", got.Document)
	assert.Equal(t, model.DocumentCNPJ, got.DocumentKind)
	assert.Equal(t, "Central Ltda", got.Company)
	assert.True(t, got.CreatedAt.Equal(b.CreatedAt))
}

func TestCreateBuyer_DuplicateFields(t *testing.T) {
	s := createTestStore(t)
	_, err := s.CreateBuyer(t.Context(), model.Buyer{Name: "Ana", Phone: "111", Document: "52998224725"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		buyer model.Buyer
		field string
	}{
		{"same name", model.Buyer{Name: "Ana", Phone: "222"}, "name"},
		{"same phone", model.Buyer{Name: "Bia", Phone: "111"}, "phone"},
		{"same document", model.Buyer{Name: "Caio", Phone: "333", Document: "52998224725"}, "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateBuyer(t.Context(), tt.buyer)
			require.Error(t, err)
			require.True(t, model.IsDuplicate(err), "expected duplicate error, got %v", err)

			var de *model.DuplicateError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "buyers", de.Entity)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestCreateBuyer_EmptyDocumentsDoNotCollide(t *testing.T) {
	s := createTestStore(t)
	createTestBuyer(t, s, "Ana", "111")
	createTestBuyer(t, s, "Bia", "222")

	buyers, err := s.ListBuyers(t.Context())
	require.NoError(t, err)
	assert.Len(t, buyers, 2)
}

func TestListBuyers_OrderedByName(t *testing.T) {
	s := createTestStore(t)
	createTestBuyer(t, s, "Carlos", "3")
	createTestBuyer(t, s, "Ana", "1")
	createTestBuyer(t, s, "Bruno", "2")

	buyers, err := s.ListBuyers(t.Context())
	require.NoError(t, err)

	var names []string
	for _, b := range buyers {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Ana", "Bruno", "Carlos"}, names)
}

func TestListBuyers_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	buyers, err := s.ListBuyers(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, buyers)
	assert.Empty(t, buyers)
}

func TestGetBuyer_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetBuyer(t.Context(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateBuyer(t *testing.T) {
	s := createTestStore(t)
	b := createTestBuyer(t, s, "Ana", "111")
	other := createTestBuyer(t, s, "Bia", "222")

	b.Company = "Mercado Ana"
	require.NoError(t, s.UpdateBuyer(t.Context(), b))

	got, err := s.GetBuyer(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mercado Ana", got.Company)

	b.Phone = other.Phone
	err = s.UpdateBuyer(t.Context(), b)
	assert.True(t, model.IsDuplicate(err))

	err = s.UpdateBuyer(t.Context(), model.Buyer{ID: "missing", Name: "X", Phone: "9"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteBuyer_KeepsWeighings(t *testing.T) {
	s := createTestStore(t)
	b := createTestBuyer(t, s, "Ana", "111")
	w, err := s.SaveWeighing(t.Context(), model.Weighing{BuyerID: b.ID, TabName: "Pesagem"}, testEntries())
	require.NoError(t, err)

	require.NoError(t, s.DeleteBuyer(t.Context(), b.ID))

	got, err := s.GetWeighing(t.Context(), w.ID)
	require.NoError(t, err)
	assert.Empty(t, got.BuyerID)
	assert.Nil(t, got.Buyer)

	assert.ErrorIs(t, s.DeleteBuyer(t.Context(), b.ID), model.ErrNotFound)
}

func TestBuyerExists(t *testing.T) {
	s := createTestStore(t)
	_, err := s.CreateBuyer(t.Context(), model.Buyer{Name: "Ana", Phone: "111", Document: "52998224725"})
	require.NoError(t, err)

	tests := []struct {
		field, value string
		want         bool
	}{
		{"name", "Ana", true},
		{"name", "Bia", false},
		{"phone", "111", true},
		{"document", "52998224725", true},
		{"document", "", false},
	}
	for _, tt := range tests {
		got, err := s.BuyerExists(t.Context(), tt.field, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s=%q", tt.field, tt.value)
	}

	_, err = s.BuyerExists(t.Context(), "company", "x")
	assert.Error(t, err)
}
