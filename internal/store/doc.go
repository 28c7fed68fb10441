// Package store provides SQLite-backed durable storage for buyers, reference
// data and saved weighings.
//
// # Tables
//
//   - buyers: UNIQUE name, phone and document (document may be NULL)
//   - products, unit_prices, tare_weights: reference data keyed by item type
//   - weighings: one row per saved batch
//   - weighing_entries: child rows, ON DELETE CASCADE from weighings
//   - settings: singleton row with id 'default'
//
// SaveWeighing writes the parent and every child row in one SQL transaction,
// so a weighing is either stored whole or not at all.
//
// Uniqueness violations surface as *model.DuplicateError.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
