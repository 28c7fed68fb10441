// Package batch holds the in-memory ledger of weighing entries for the
// current, unsaved batch.
//
// The batch has two visible states, empty and non-empty. Entries are kept in
// insertion order and stamped with a wall-clock CreatedAt plus a logical
// sequence number; the sequence breaks CreatedAt ties so that every ordering
// is deterministic.
//
// Derived values (net weight, total price) are computed accessors on Entry
// and are never stored, so no code path can leave them stale.
//
// The batch performs no validation. Callers reject invalid drafts before
// calling Add. A Batch is owned by one session and is not safe for
// concurrent use.
package batch
