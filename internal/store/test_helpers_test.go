package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/balanca/internal/model"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func at(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.Local)
}

// createTestBuyer creates a buyer with minimal required fields.
func createTestBuyer(t *testing.T, s *Store, name, phone string) model.Buyer {
	t.Helper()
	b, err := s.CreateBuyer(t.Context(), model.Buyer{Name: name, Phone: phone})
	require.NoError(t, err)
	return b
}

func testEntries() []model.WeighingEntry {
	return []model.WeighingEntry{
		{ItemType: "Papelão", GrossWeight: 12, TareUsed: 2, NetWeight: 10, UnitPrice: 2, TotalPrice: 20},
		{ItemType: "Osso", GrossWeight: 5, TareUsed: 0, NetWeight: 5, UnitPrice: 3, TotalPrice: 15},
	}
}
