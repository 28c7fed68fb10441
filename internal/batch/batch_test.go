package batch

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balanca/internal/testutil"
)

var t0 = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func newTestBatch(step time.Duration) *Batch {
	return New(
		WithClock(testutil.NewStepClock(t0, step)),
		WithIDGenerator(testutil.NewSequentialIDs("e")),
	)
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestAdd_StampsIdentityAndTime(t *testing.T) {
	b := newTestBatch(time.Second)

	e := b.Add(Draft{ItemType: "Papelão", GrossWeightKg: 12, TareKg: 2, UnitPrice: 2})

	assert.Equal(t, "e-1", e.ID)
	assert.Equal(t, t0, e.CreatedAt)
	assert.Equal(t, int64(1), e.Seq)
	assert.InDelta(t, 10.0, e.NetWeightKg(), 1e-9)
	assert.InDelta(t, 20.0, e.TotalPrice(), 1e-9)
	assert.Equal(t, 1, b.Len())
	assert.False(t, b.IsEmpty())
}

func TestNetWeight_ClampsAtZero(t *testing.T) {
	assert.Equal(t, 0.0, NetWeight(3, 5))
	assert.Equal(t, 0.0, TotalPrice(3, 5, 10))
	assert.Equal(t, 0.0, NetWeight(5, 5))
	assert.False(t, math.Signbit(NetWeight(5, 5)))
	assert.InDelta(t, 2.5, NetWeight(7.5, 5), 1e-9)
}

func TestRemove(t *testing.T) {
	b := newTestBatch(time.Second)
	b.Add(Draft{ItemType: "A", GrossWeightKg: 1})
	e2 := b.Add(Draft{ItemType: "B", GrossWeightKg: 2})
	b.Add(Draft{ItemType: "C", GrossWeightKg: 3})

	assert.True(t, b.Remove(e2.ID))
	assert.Equal(t, []string{"e-1", "e-3"}, ids(b.InsertionOrder()))

	_, ok := b.Get(e2.ID)
	assert.False(t, ok)
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	b := newTestBatch(time.Second)
	b.Add(Draft{ItemType: "A", GrossWeightKg: 1})
	before := b.Snapshot()

	assert.False(t, b.Remove("missing"))
	assert.Equal(t, before, b.Snapshot())
}

func TestClear_KeepsSortOrder(t *testing.T) {
	b := newTestBatch(time.Second)
	b.Add(Draft{ItemType: "A", GrossWeightKg: 1})
	b.ToggleSortOrder()

	b.Clear()

	assert.True(t, b.IsEmpty())
	assert.Equal(t, Oldest, b.SortOrder())
	assert.Equal(t, Aggregate{}, b.Aggregate())
}

func TestToggleSortOrder_TwiceIsIdentity(t *testing.T) {
	b := newTestBatch(time.Second)
	for range 3 {
		b.Add(Draft{ItemType: "A", GrossWeightKg: 1})
	}
	before := b.Entries()

	assert.Equal(t, Oldest, b.ToggleSortOrder())
	assert.Equal(t, Newest, b.ToggleSortOrder())
	assert.Equal(t, before, b.Entries())
}

func TestSortedView_NewestIsReverseOfOldest(t *testing.T) {
	b := newTestBatch(time.Second)
	for range 4 {
		b.Add(Draft{ItemType: "A", GrossWeightKg: 1})
	}

	newest := slices.Collect(b.SortedView())
	assert.Equal(t, []string{"e-4", "e-3", "e-2", "e-1"}, ids(newest))

	b.SetSortOrder(Oldest)
	oldest := slices.Collect(b.SortedView())
	assert.Equal(t, []string{"e-1", "e-2", "e-3", "e-4"}, ids(oldest))

	slices.Reverse(oldest)
	assert.Equal(t, newest, oldest)
}

func TestSortedView_EqualTimestampsUseSequence(t *testing.T) {
	b := newTestBatch(0)
	for range 3 {
		b.Add(Draft{ItemType: "A", GrossWeightKg: 1})
	}

	assert.Equal(t, []string{"e-3", "e-2", "e-1"}, ids(b.Entries()))
	b.ToggleSortOrder()
	assert.Equal(t, []string{"e-1", "e-2", "e-3"}, ids(b.Entries()))
}

func TestSortedView_ReflectsLaterMutations(t *testing.T) {
	b := newTestBatch(time.Second)
	view := b.SortedView()
	b.Add(Draft{ItemType: "A", GrossWeightKg: 1})
	b.Add(Draft{ItemType: "B", GrossWeightKg: 1})

	assert.Len(t, slices.Collect(view), 2)
	assert.Len(t, slices.Collect(view), 2)
}

func TestSortedView_StopsEarly(t *testing.T) {
	b := newTestBatch(time.Second)
	for range 3 {
		b.Add(Draft{ItemType: "A", GrossWeightKg: 1})
	}

	var seen []string
	for e := range b.SortedView() {
		seen = append(seen, e.ID)
		break
	}
	assert.Equal(t, []string{"e-3"}, seen)
}

func TestAggregate(t *testing.T) {
	b := newTestBatch(time.Second)
	b.Add(Draft{ItemType: "Papelão", GrossWeightKg: 12, TareKg: 2, UnitPrice: 2})
	b.Add(Draft{ItemType: "Osso", GrossWeightKg: 5, TareKg: 0, UnitPrice: 3})
	b.Add(Draft{ItemType: "Osso", GrossWeightKg: 3, TareKg: 0, UnitPrice: 3})
	b.Add(Draft{ItemType: "Osso", GrossWeightKg: 1, TareKg: 4, UnitPrice: 3})

	agg := b.Aggregate()
	assert.Equal(t, 4, agg.Count)
	assert.InDelta(t, 18.0, agg.TotalNetWeightKg, 1e-9)
	assert.InDelta(t, 44.0, agg.TotalPrice, 1e-9)

	avg, ok := agg.AveragePricePerItem()
	require.True(t, ok)
	assert.InDelta(t, 11.0, avg, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	b := newTestBatch(time.Second)

	agg := b.Aggregate()
	assert.Equal(t, Aggregate{}, agg)
	_, ok := agg.AveragePricePerItem()
	assert.False(t, ok)
}

func TestAggregate_IndependentOfSortOrder(t *testing.T) {
	b := newTestBatch(time.Second)
	b.Add(Draft{ItemType: "A", GrossWeightKg: 1.1, UnitPrice: 0.3})
	b.Add(Draft{ItemType: "A", GrossWeightKg: 2.2, UnitPrice: 0.7})
	before := b.Aggregate()

	b.ToggleSortOrder()
	assert.Equal(t, before, b.Aggregate())
}

func TestSnapshotRestore(t *testing.T) {
	b := newTestBatch(time.Second)
	b.Add(Draft{ItemType: "A", GrossWeightKg: 4, TareKg: 1, UnitPrice: 2})
	b.Add(Draft{ItemType: "Osso", ProductID: "p1", ProductDescription: "Costela", GrossWeightKg: 5, UnitPrice: 3})
	b.ToggleSortOrder()
	snap := b.Snapshot()

	restored := New(WithIDGenerator(testutil.NewSequentialIDs("r")))
	discarded := restored.Restore(snap)

	assert.Zero(t, discarded)
	assert.Equal(t, Oldest, restored.SortOrder())
	assert.Equal(t, b.Entries(), restored.Entries())
	assert.Equal(t, b.Aggregate(), restored.Aggregate())

	// New entries sort after restored ones even with identical timestamps.
	e := restored.Add(Draft{ItemType: "B", GrossWeightKg: 1})
	assert.Equal(t, int64(3), e.Seq)
}

func TestRestore_DiscardsInvalidEntries(t *testing.T) {
	good := Entry{ID: "a", ItemType: "A", GrossWeightKg: 1, CreatedAt: t0, Seq: 1}
	snap := Snapshot{
		SortOrder: "sideways",
		Entries: []Entry{
			good,
			{ID: "", ItemType: "A", GrossWeightKg: 1, Seq: 2},
			{ID: "b", ItemType: "", GrossWeightKg: 1, Seq: 3},
			{ID: "c", ItemType: "A", GrossWeightKg: -1, Seq: 4},
			{ID: "d", ItemType: "A", GrossWeightKg: math.NaN(), Seq: 5},
			{ID: "e", ItemType: "A", UnitPrice: math.Inf(1), Seq: 6},
			{ID: "a", ItemType: "A", GrossWeightKg: 9, Seq: 7},
		},
	}

	b := New()
	discarded := b.Restore(snap)

	assert.Equal(t, 6, discarded)
	assert.Equal(t, []Entry{good}, b.Entries())
	assert.Equal(t, Newest, b.SortOrder())
}

func TestRestore_RenumbersDuplicateSequences(t *testing.T) {
	snap := Snapshot{Entries: []Entry{
		{ID: "a", ItemType: "A", CreatedAt: t0, Seq: 2},
		{ID: "b", ItemType: "A", CreatedAt: t0, Seq: 2},
	}}

	b := New()
	b.Restore(snap)

	assert.Equal(t, []string{"b", "a"}, ids(b.Entries()))
	got := b.InsertionOrder()
	assert.Equal(t, int64(2), got[0].Seq)
	assert.Equal(t, int64(3), got[1].Seq)
}
