package batch

import (
	"cmp"
	"iter"
	"slices"
)

// SortOrder selects the display order of SortedView.
type SortOrder string

const (
	Newest SortOrder = "newest"
	Oldest SortOrder = "oldest"
)

// Aggregate holds the totals over the current entries.
type Aggregate struct {
	Count            int     `json:"count"`
	TotalNetWeightKg float64 `json:"total_net_weight_kg"`
	TotalPrice       float64 `json:"total_price"`
}

// AveragePricePerItem is TotalPrice / Count; ok is false for an empty batch.
func (a Aggregate) AveragePricePerItem() (avg float64, ok bool) {
	if a.Count == 0 {
		return 0, false
	}
	return a.TotalPrice / float64(a.Count), true
}

// Batch is the ordered collection of entries for one unsaved batch.
type Batch struct {
	entries []Entry // insertion order
	order   SortOrder
	clock   Clock
	ids     IDGenerator
	seq     sequence
}

// Option configures a Batch.
type Option func(*Batch)

// WithClock sets the wall clock used for CreatedAt.
func WithClock(c Clock) Option {
	return func(b *Batch) {
		b.clock = c
	}
}

// WithIDGenerator sets the entry id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(b *Batch) {
		b.ids = g
	}
}

// New creates an empty batch sorted newest first.
func New(opts ...Option) *Batch {
	b := &Batch{
		order: Newest,
		clock: SystemClock{},
		ids:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add stores a new entry built from d with a fresh id, the current time and
// the next sequence number. Add does not validate d.
func (b *Batch) Add(d Draft) Entry {
	e := Entry{
		ID:                 b.ids.Generate(),
		ItemType:           d.ItemType,
		ProductID:          d.ProductID,
		ProductDescription: d.ProductDescription,
		GrossWeightKg:      d.GrossWeightKg,
		TareKg:             d.TareKg,
		UnitPrice:          d.UnitPrice,
		CreatedAt:          b.clock.Now(),
		Seq:                b.seq.next(),
	}
	b.entries = append(b.entries, e)
	return e
}

// Remove deletes the entry with the given id. Removing an unknown id is a
// no-op; the result reports whether anything was removed.
func (b *Batch) Remove(id string) bool {
	i := slices.IndexFunc(b.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	b.entries = slices.Delete(b.entries, i, i+1)
	return true
}

// Clear empties the batch. The sort order is kept.
func (b *Batch) Clear() {
	b.entries = nil
}

// Len returns the number of entries.
func (b *Batch) Len() int {
	return len(b.entries)
}

// IsEmpty reports whether the batch has no entries.
func (b *Batch) IsEmpty() bool {
	return len(b.entries) == 0
}

// Get returns the entry with the given id.
func (b *Batch) Get(id string) (Entry, bool) {
	i := slices.IndexFunc(b.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, false
	}
	return b.entries[i], true
}

// SortOrder returns the current display order.
func (b *Batch) SortOrder() SortOrder {
	return b.order
}

// SetSortOrder sets the display order; unknown values select Newest.
func (b *Batch) SetSortOrder(o SortOrder) {
	if o != Oldest {
		o = Newest
	}
	b.order = o
}

// ToggleSortOrder flips between Newest and Oldest and returns the new order.
// Entry storage is untouched.
func (b *Batch) ToggleSortOrder() SortOrder {
	if b.order == Newest {
		b.order = Oldest
	} else {
		b.order = Newest
	}
	return b.order
}

// SortedView yields the entries in the current sort order. The sequence is
// computed when iterated, reflects the batch at that moment, and can be
// iterated any number of times.
//
// Newest orders by CreatedAt descending and Oldest by CreatedAt ascending.
// Equal timestamps fall back to the sequence number in the same direction,
// so Newest is always the exact reverse of Oldest.
func (b *Batch) SortedView() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range b.sorted() {
			if !yield(e) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries in the current sort order.
func (b *Batch) Entries() []Entry {
	return b.sorted()
}

// InsertionOrder returns a copy of the entries oldest first by sequence.
func (b *Batch) InsertionOrder() []Entry {
	return slices.Clone(b.entries)
}

func (b *Batch) sorted() []Entry {
	out := slices.Clone(b.entries)
	slices.SortStableFunc(out, func(x, y Entry) int {
		c := x.CreatedAt.Compare(y.CreatedAt)
		if c == 0 {
			c = cmp.Compare(x.Seq, y.Seq)
		}
		if b.order == Newest {
			return -c
		}
		return c
	})
	return out
}

// Aggregate recomputes the totals from the current entries, summing in
// insertion order.
func (b *Batch) Aggregate() Aggregate {
	a := Aggregate{Count: len(b.entries)}
	for _, e := range b.entries {
		a.TotalNetWeightKg += e.NetWeightKg()
		a.TotalPrice += e.TotalPrice()
	}
	return a
}
