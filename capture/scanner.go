package capture

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
)

// Cursor is a Row that can be advanced through a result set. Next moves to
// the following record and reports whether there is one; Err returns the
// iteration error, if any, once Next has returned false.
type Cursor interface {
	Row
	Next() bool
	Err() error
}

// Queryer runs a query and returns its rows. *sql.DB, *sql.Tx, *sql.Conn and
// *sqlx.DB all satisfy it.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryOption configures query behavior.
type QueryOption func(*queryConfig)

type queryConfig struct {
	expectedSize int
	logger       *slog.Logger
}

func newQueryConfig(opts []QueryOption) *queryConfig {
	cfg := &queryConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithExpectedSize pre-allocates slice capacity for better performance when
// the number of rows is known ahead of time.
func WithExpectedSize(size int) QueryOption {
	return func(c *queryConfig) {
		c.expectedSize = size
	}
}

// WithLogger sets the logger that receives debug records about each result
// set. Logging is discarded by default.
func WithLogger(logger *slog.Logger) QueryOption {
	return func(c *queryConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// SQLRow adapts *sql.Rows to ScannableRow. The current record is scanned at
// most once into an internal buffer, on the first Value call after Next.
type SQLRow struct {
	rows    *sql.Rows
	columns []string
	index   map[string]int
	values  []any
	loaded  bool
}

var _ Cursor = (*SQLRow)(nil)
var _ ScannableRow = (*SQLRow)(nil)

// NewRow wraps rows. The cursor is not advanced.
func NewRow(rows *sql.Rows) (*SQLRow, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	return &SQLRow{
		rows:    rows,
		columns: columns,
		index:   index,
		values:  make([]any, len(columns)),
	}, nil
}

func (r *SQLRow) Next() bool {
	r.loaded = false
	return r.rows.Next()
}

func (r *SQLRow) Err() error {
	return r.rows.Err()
}

func (r *SQLRow) Columns() []string {
	return slices.Clone(r.columns)
}

func (r *SQLRow) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *SQLRow) Value(column string) (any, bool, error) {
	i, ok := r.index[column]
	if !ok {
		return nil, false, fmt.Errorf("%w %q", ErrUnknownColumn, column)
	}

	if !r.loaded {
		targets := make([]any, len(r.values))
		for j := range r.values {
			targets[j] = &r.values[j]
		}
		if err := r.rows.Scan(targets...); err != nil {
			return nil, false, fmt.Errorf("failed to scan row: %w", err)
		}
		r.loaded = true
	}

	return r.values[i], r.values[i] == nil, nil
}

// Collect advances cur to the end of the result set, mapping every record
// with m. Row indexes start at zero.
func Collect[T any](cur Cursor, m *Mapper[T], opts ...QueryOption) ([]*T, error) {
	cfg := newQueryConfig(opts)

	results := make([]*T, 0, cfg.expectedSize)
	for i := 0; cur.Next(); i++ {
		obj, err := m.MapRow(cur, i)
		if err != nil {
			cfg.logger.Debug("capture row failed", "row", i, "error", err)
			return nil, fmt.Errorf("failed to map row: %w", err)
		}
		results = append(results, obj)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	cfg.logger.Debug("rows captured", "rows", len(results), "columns", m.columns)

	return results, nil
}

// ScanRows consumes rows and returns one object per row in the order they
// are produced by the driver.
func ScanRows[T any](rows *sql.Rows, m *Mapper[T], opts ...QueryOption) ([]*T, error) {
	row, err := NewRow(rows)
	if err != nil {
		return nil, err
	}

	return Collect(row, m, opts...)
}

// QueryRows runs query against q with the supplied args, then delegates to
// ScanRows. The rows cursor is closed automatically.
func QueryRows[T any](ctx context.Context, q Queryer, m *Mapper[T], query string, args []any, opts ...QueryOption) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return ScanRows(rows, m, opts...)
}
