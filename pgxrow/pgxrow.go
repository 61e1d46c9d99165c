// Package pgxrow decodes jackc/pgx result rows with a mapper.
package pgxrow

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/stdlib"

	"rowmapper/mapper"
	"rowmapper/row"
)

// Snapshot copies the current row into an in-memory row, using the values
// pgx decoded for each column's Postgres type.
func Snapshot(r pgx.CollectableRow) (*row.Values, error) {
	fields := r.FieldDescriptions()

	values, err := r.Values()
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}

	if len(values) != len(fields) {
		return nil, fmt.Errorf("row has %d fields but %d values", len(fields), len(values))
	}

	columns := make([]string, len(fields))
	for i := range fields {
		columns[i] = fields[i].Name
		values[i] = normalize(values[i])
	}

	return row.New(columns, values)
}

// normalize turns pgtype values without a native Go form into scalars.
func normalize(v any) any {
	switch n := v.(type) {
	case pgtype.Numeric:
		if !n.Valid {
			return nil
		}

		if n.NaN || n.InfinityModifier != pgtype.Finite {
			f, err := n.Float64Value()
			if err != nil {
				return v
			}

			return f.Float64
		}

		if n.Int != nil && n.Exp >= 0 && n.Int.IsInt64() {
			i, err := n.Int64Value()
			if err == nil && i.Valid {
				return i.Int64
			}
		}

		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return v
		}

		return f.Float64
	default:
		return v
	}
}

// RowTo returns a pgx.RowToFunc that decodes each row into a T with m.
// Use it with pgx.CollectRows and pgx.CollectOneRow.
func RowTo[T any](m *mapper.Mapper) pgx.RowToFunc[T] {
	return func(r pgx.CollectableRow) (T, error) {
		var zero T

		values, err := Snapshot(r)
		if err != nil {
			return zero, err
		}

		return mapper.FromRow[T](m, values)
	}
}

// Collect decodes every row of rows into a T and closes rows.
func Collect[T any](m *mapper.Mapper, rows pgx.Rows) ([]T, error) {
	if err := mapper.Register[T](m); err != nil {
		rows.Close()
		return nil, err
	}

	return pgx.CollectRows(rows, RowTo[T](m))
}

// Querier is implemented by *pgx.Conn, pgx.Tx and pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Query runs query on q and decodes every result row into a T.
func Query[T any](ctx context.Context, m *mapper.Mapper, q Querier, query string, args ...any) ([]T, error) {
	if err := mapper.Register[T](m); err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	return pgx.CollectRows(rows, RowTo[T](m))
}

// QueryOne runs query on q and decodes its first row into a T. It returns
// pgx.ErrNoRows if there is none.
func QueryOne[T any](ctx context.Context, m *mapper.Mapper, q Querier, query string, args ...any) (T, error) {
	var zero T

	if err := mapper.Register[T](m); err != nil {
		return zero, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("execute query: %w", err)
	}

	return pgx.CollectOneRow(rows, RowTo[T](m))
}

// OpenDB opens a database/sql handle backed by pgx, for use with the
// sqlrow package.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
