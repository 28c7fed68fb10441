// Package model provides the record types shared by the weighing core.
//
// This package contains type definitions only. All other internal packages
// import model; model imports nothing internal.
//
// Key design constraints:
//   - Ids are opaque strings (UUIDv7 in practice), never assumed numeric
//   - Weights are kilograms and prices are currency per kilogram, as float64
//   - Persisted weighing entries are immutable after creation
package model
