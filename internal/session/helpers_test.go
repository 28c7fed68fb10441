package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/roach88/balanca/internal/batch"
	"github.com/roach88/balanca/internal/model"
	"github.com/roach88/balanca/internal/testutil"
)

var t0 = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

var errStore = errors.New("connection reset")

type savedWeighing struct {
	weighing model.Weighing
	entries  []model.WeighingEntry
}

// fakeStore is an in-memory Store with failure injection.
type fakeStore struct {
	mu        sync.Mutex
	types     []model.ItemType
	products  []model.Product
	buyers    []model.Buyer
	settings  *model.Settings
	saved     []savedWeighing
	saveCalls int
	loadErr   error
	saveErr   error
	buyerErr  error

	// saveGate, when set, blocks SaveWeighing until closed.
	saveGate    chan struct{}
	saveStarted chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		types: []model.ItemType{
			{Name: "Osso", Price: 7, TareKg: 0},
			{Name: "Papelão", Price: 2, TareKg: 1.5},
		},
		products: []model.Product{
			{ID: "p-costela", Description: "Costela", ItemType: "Osso"},
			{ID: "p-caixa", Description: "Caixa", ItemType: "Papelão"},
		},
		buyers: []model.Buyer{{ID: "b-ana", Name: "Ana", Phone: "11987654321", Company: "Mercado Ana"}},
	}
}

func (f *fakeStore) ListItemTypes(context.Context) ([]model.ItemType, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.types, nil
}

func (f *fakeStore) ListProducts(context.Context) ([]model.Product, error) {
	return f.products, nil
}

func (f *fakeStore) ListBuyers(context.Context) ([]model.Buyer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Buyer(nil), f.buyers...), nil
}

func (f *fakeStore) GetSettings(context.Context) (*model.Settings, error) {
	return f.settings, nil
}

func (f *fakeStore) CreateBuyer(_ context.Context, b model.Buyer) (model.Buyer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.buyerErr != nil {
		return model.Buyer{}, f.buyerErr
	}
	for _, have := range f.buyers {
		switch {
		case have.Name == b.Name:
			return model.Buyer{}, &model.DuplicateError{Entity: "buyers", Field: "name"}
		case have.Phone == b.Phone:
			return model.Buyer{}, &model.DuplicateError{Entity: "buyers", Field: "phone"}
		case b.Document != "" && have.Document == b.Document:
			return model.Buyer{}, &model.DuplicateError{Entity: "buyers", Field: "document"}
		}
	}
	b.ID = fmt.Sprintf("b-%d", len(f.buyers)+1)
	f.buyers = append(f.buyers, b)
	return b, nil
}

func (f *fakeStore) SaveWeighing(_ context.Context, w model.Weighing, entries []model.WeighingEntry) (model.Weighing, error) {
	if f.saveStarted != nil {
		close(f.saveStarted)
	}
	if f.saveGate != nil {
		<-f.saveGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return model.Weighing{}, f.saveErr
	}
	w.ID = fmt.Sprintf("w-%d", len(f.saved)+1)
	f.saved = append(f.saved, savedWeighing{weighing: w, entries: entries})
	return w, nil
}

// memDrafts is an in-memory Drafts with failure injection.
type memDrafts struct {
	snaps     map[string]batch.Snapshot
	loadErr   error
	saveErr   error
	deleteErr error
	deletes   int
}

func newMemDrafts() *memDrafts {
	return &memDrafts{snaps: map[string]batch.Snapshot{}}
}

func (d *memDrafts) Save(session string, snap batch.Snapshot) error {
	if d.saveErr != nil {
		return d.saveErr
	}
	d.snaps[session] = snap
	return nil
}

func (d *memDrafts) Load(session string) (batch.Snapshot, error) {
	if d.loadErr != nil {
		return batch.Snapshot{}, d.loadErr
	}
	return d.snaps[session], nil
}

func (d *memDrafts) Delete(session string) error {
	d.deletes++
	if d.deleteErr != nil {
		return d.deleteErr
	}
	delete(d.snaps, session)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, store *fakeStore, cfg Config, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithClock(testutil.NewStepClock(t0, time.Second)),
		WithIDGenerator(testutil.NewSequentialIDs("e")),
		WithLogger(discardLogger()),
	}
	s := New(store, cfg, append(base, opts...)...)
	if err := s.Load(t.Context()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return s
}

func ptr(v float64) *float64 { return &v }
