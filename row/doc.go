// Package row defines the row abstraction consumed by decode plans.
//
// A Row exposes column values by name and by position. Implementations own
// the decoding of a raw column value into the requested Go type and must
// report a missing column with ErrColumnNotFound, distinguishable from
// ErrDecode, so that `default` fields can fall back to their zero value.
//
// Values is an in-memory Row backed by an ordered column list. Adapters for
// database/sql, pgx and JSON live in the sqlrow, pgxrow and jsonrow packages.
package row
