// Package sqlrow decodes database/sql result sets with a mapper.
package sqlrow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rowmapper/mapper"
	"rowmapper/row"
)

// Querier is implemented by *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Snapshot copies the current row of rows into an in-memory row. It must
// be called after a successful rows.Next.
func Snapshot(rows *sql.Rows) (*row.Values, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	return snapshot(rows, columns)
}

func snapshot(rows *sql.Rows, columns []string) (*row.Values, error) {
	values := make([]any, len(columns))
	dests := make([]any, len(columns))

	for i := range values {
		dests[i] = &values[i]
	}

	if err := rows.Scan(dests...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	return row.New(columns, values)
}

// Collect decodes every remaining row of rows into a T and closes rows.
// Decoding stops at the first failing row.
func Collect[T any](m *mapper.Mapper, rows *sql.Rows) ([]T, error) {
	defer rows.Close()

	if err := mapper.Register[T](m); err != nil {
		return nil, err
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []T

	for n := 0; rows.Next(); n++ {
		r, err := snapshot(rows, columns)
		if err != nil {
			return nil, err
		}

		v, err := mapper.FromRow[T](m, r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}

		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}

// Query runs query on q and decodes every result row into a T.
func Query[T any](ctx context.Context, m *mapper.Mapper, q Querier, query string, args ...any) ([]T, error) {
	// Fail on schema problems before touching the database.
	if err := mapper.Register[T](m); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	return Collect[T](m, rows)
}

// QueryOne runs query on q and decodes the first result row into a T.
// It returns sql.ErrNoRows if the query produced no rows.
func QueryOne[T any](ctx context.Context, m *mapper.Mapper, q Querier, query string, args ...any) (T, error) {
	var zero T

	if err := mapper.Register[T](m); err != nil {
		return zero, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, fmt.Errorf("iterate rows: %w", err)
		}

		return zero, sql.ErrNoRows
	}

	r, err := Snapshot(rows)
	if err != nil {
		return zero, err
	}

	v, err := mapper.FromRow[T](m, r)
	if err != nil {
		return zero, err
	}

	return v, rows.Close()
}

// IsNoRows reports whether err means a query returned nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
