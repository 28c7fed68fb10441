package batch

import (
	"cmp"
	"slices"
)

// Snapshot is the serializable state of a batch. Only stored inputs are
// captured; derived values are recomputed after Restore.
type Snapshot struct {
	SortOrder SortOrder `json:"sort_order"`
	Entries   []Entry   `json:"entries"`
}

// Snapshot captures the batch in insertion order.
func (b *Batch) Snapshot() Snapshot {
	return Snapshot{
		SortOrder: b.order,
		Entries:   slices.Clone(b.entries),
	}
}

// Restore replaces the batch contents with s. Entries with a missing id or
// item type, duplicate ids, or numeric inputs that are not finite and
// non-negative are discarded. Restore returns the number of discarded
// entries.
func (b *Batch) Restore(s Snapshot) (discarded int) {
	seen := make(map[string]bool, len(s.Entries))
	kept := make([]Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if !e.valid() || seen[e.ID] {
			discarded++
			continue
		}
		seen[e.ID] = true
		kept = append(kept, e)
	}

	slices.SortStableFunc(kept, func(x, y Entry) int { return cmp.Compare(x.Seq, y.Seq) })

	// Renumber so sequence numbers are unique and follow the stored order.
	var maxSeq int64
	for i := range kept {
		if kept[i].Seq <= maxSeq {
			kept[i].Seq = maxSeq + 1
		}
		maxSeq = kept[i].Seq
	}
	b.seq.advanceTo(maxSeq)

	if len(kept) == 0 {
		kept = nil
	}
	b.entries = kept
	b.SetSortOrder(s.SortOrder)
	return discarded
}
