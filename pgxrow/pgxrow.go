// Package pgxrow feeds pgx result sets into a capture.Mapper.
package pgxrow

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/nlimpid/sqlcapture/capture"
)

// Querier is the query method set shared by *pgx.Conn, *pgxpool.Pool and
// pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// Row adapts pgx.Rows to capture.ScannableRow. Column names come from the
// field descriptions; values are decoded once per record by Values.
type Row struct {
	rows    pgx.Rows
	columns []string
	index   map[string]int
	values  []any
	loaded  bool
}

var _ capture.Cursor = (*Row)(nil)
var _ capture.ScannableRow = (*Row)(nil)

// NewRow wraps rows. The cursor is not advanced.
func NewRow(rows pgx.Rows) *Row {
	return &Row{rows: rows}
}

func (r *Row) describe() {
	if r.index != nil {
		return
	}

	fields := r.rows.FieldDescriptions()
	r.columns = make([]string, len(fields))
	r.index = make(map[string]int, len(fields))
	for i, field := range fields {
		name := string(field.Name)
		r.columns[i] = name
		if _, dup := r.index[name]; !dup {
			r.index[name] = i
		}
	}
}

func (r *Row) Next() bool {
	r.loaded = false
	r.values = nil
	return r.rows.Next()
}

func (r *Row) Err() error {
	if err := r.rows.Err(); err != nil {
		return wrapPgErr(err, "read rows")
	}

	return nil
}

func (r *Row) Columns() []string {
	r.describe()
	return slices.Clone(r.columns)
}

func (r *Row) Scan(dest ...any) error {
	if err := r.rows.Scan(dest...); err != nil {
		return wrapPgErr(err, "scan row")
	}

	return nil
}

func (r *Row) Value(column string) (any, bool, error) {
	r.describe()

	i, ok := r.index[column]
	if !ok {
		return nil, false, fmt.Errorf("%w %q", capture.ErrUnknownColumn, column)
	}

	if !r.loaded {
		values, err := r.rows.Values()
		if err != nil {
			return nil, false, wrapPgErr(err, "get row values")
		}
		r.values = values
		r.loaded = true
	}

	if i >= len(r.values) {
		return nil, false, fmt.Errorf("row has %d values for %d fields, column %q missing", len(r.values), len(r.columns), column)
	}

	return r.values[i], r.values[i] == nil, nil
}

// ScanRows consumes rows and returns one object per row, in order. rows is
// closed when ScanRows returns.
func ScanRows[T any](rows pgx.Rows, m *capture.Mapper[T], opts ...capture.QueryOption) ([]*T, error) {
	defer rows.Close()

	return capture.Collect(NewRow(rows), m, opts...)
}

// QueryRows runs sql against q and delegates to ScanRows.
func QueryRows[T any](ctx context.Context, q Querier, m *capture.Mapper[T], sql string, args []any, opts ...capture.QueryOption) ([]*T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapPgErr(err, "execute query")
	}

	return ScanRows(rows, m, opts...)
}

func wrapPgErr(err error, message string) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s (code %s, position %d): %w", message, pgErr.Code, pgErr.Position, err)
	}

	return fmt.Errorf("%s: %w", message, err)
}
