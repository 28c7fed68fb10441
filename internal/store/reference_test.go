package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balanca/internal/model"
)

func TestUpsertUnitPrice_ReplacesPrice(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.UpsertUnitPrice(ctx, "Papelão", 1.5))
	require.NoError(t, s.UpsertUnitPrice(ctx, "Papelão", 2))

	prices, err := s.ListUnitPrices(ctx)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Papelão", prices[0].ItemType)
	assert.Equal(t, 2.0, prices[0].Price)
}

func TestUpsertUnitPrice_RejectsNegative(t *testing.T) {
	s := createTestStore(t)
	assert.Error(t, s.UpsertUnitPrice(t.Context(), "Papelão", -1))
}

func TestUpsertTareWeight_ReplacesTare(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.UpsertTareWeight(ctx, "Osso", 1))
	require.NoError(t, s.UpsertTareWeight(ctx, "Osso", 0.75))

	tares, err := s.ListTareWeights(ctx)
	require.NoError(t, err)
	require.Len(t, tares, 1)
	assert.Equal(t, 0.75, tares[0].TareKg)
}

func TestListItemTypes_MergesPricesAndTares(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.UpsertUnitPrice(ctx, "Papelão", 2))
	require.NoError(t, s.UpsertTareWeight(ctx, "Papelão", 1))
	require.NoError(t, s.UpsertUnitPrice(ctx, "Osso", 3))
	require.NoError(t, s.UpsertTareWeight(ctx, "Sebo", 0.5))

	types, err := s.ListItemTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ItemType{
		{Name: "Osso", Price: 3, TareKg: 0},
		{Name: "Papelão", Price: 2, TareKg: 1},
		{Name: "Sebo", Price: 0, TareKg: 0.5},
	}, types)
}

func TestProducts(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	_, err := s.CreateProduct(ctx, model.Product{Code: "02", Description: "Pescoço", ItemType: "Osso"})
	require.NoError(t, err)
	costela, err := s.CreateProduct(ctx, model.Product{Code: "01", Description: "Costela", ItemType: "Osso"})
	require.NoError(t, err)
	assert.NotEmpty(t, costela.ID)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Costela", products[0].Description)
	assert.Equal(t, "Pescoço", products[1].Description)

	_, err = s.CreateProduct(ctx, model.Product{ID: costela.ID, Description: "Outro", ItemType: "Osso"})
	assert.True(t, model.IsDuplicate(err))
}

func TestSettings_AbsentThenUpsert(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	st, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, st)

	require.NoError(t, s.UpdateSettings(ctx, model.Settings{TabName: "Balança 1", ReportFooter1: "Obrigado", DetailedReport: true}))
	require.NoError(t, s.UpdateSettings(ctx, model.Settings{TabName: "Balança 2", ReportFooter2: "Volte sempre"}))

	st, err = s.GetSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "default", st.ID)
	assert.Equal(t, "Balança 2", st.TabName)
	assert.Empty(t, st.ReportFooter1)
	assert.Equal(t, "Volte sempre", st.ReportFooter2)
	assert.False(t, st.DetailedReport)

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM settings").Scan(&rows))
	assert.Equal(t, 1, rows)
}
