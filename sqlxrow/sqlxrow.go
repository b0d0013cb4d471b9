// Package sqlxrow feeds sqlx result sets into a capture.Mapper.
package sqlxrow

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"

	"github.com/nlimpid/sqlcapture/capture"
)

// Row adapts *sqlx.Rows to capture.ScannableRow. The current record is read
// with MapScan on the first Value call after Next.
type Row struct {
	rows    *sqlx.Rows
	columns []string
	values  capture.Values
}

var _ capture.Cursor = (*Row)(nil)
var _ capture.ScannableRow = (*Row)(nil)

// NewRow wraps rows. The cursor is not advanced.
func NewRow(rows *sqlx.Rows) (*Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	return &Row{rows: rows, columns: columns}, nil
}

func (r *Row) Next() bool {
	r.values = nil
	return r.rows.Next()
}

func (r *Row) Err() error {
	return r.rows.Err()
}

func (r *Row) Columns() []string {
	return slices.Clone(r.columns)
}

func (r *Row) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *Row) Value(column string) (any, bool, error) {
	if r.values == nil {
		values := make(map[string]any, len(r.columns))
		if err := r.rows.MapScan(values); err != nil {
			return nil, false, fmt.Errorf("failed to scan row: %w", err)
		}
		r.values = values
	}

	return r.values.Value(column)
}

// ScanRows consumes rows and returns one object per row, in order.
func ScanRows[T any](rows *sqlx.Rows, m *capture.Mapper[T], opts ...capture.QueryOption) ([]*T, error) {
	row, err := NewRow(rows)
	if err != nil {
		return nil, err
	}

	return capture.Collect(row, m, opts...)
}

// QueryRows runs query against q with the supplied args, then delegates to
// ScanRows. The rows cursor is closed automatically.
func QueryRows[T any](ctx context.Context, q sqlx.QueryerContext, m *capture.Mapper[T], query string, args []any, opts ...capture.QueryOption) ([]*T, error) {
	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return ScanRows(rows, m, opts...)
}
