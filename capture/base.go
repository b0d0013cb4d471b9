package capture

import (
	"fmt"

	"github.com/georgysavva/scany/dbscan"
	"github.com/georgysavva/scany/sqlscan"
)

// Scanner describes a type that knows how to turn a set of database column
// names into destinations that a ScannableRow can write into.
type Scanner interface {
	// ScanTargets returns a slice of pointers matching the provided columns.
	// Each entry must be safe to pass to Scan in the same order.
	ScanTargets(columns []string) []any
}

// Ptr is a generic type constraint requiring a pointer to T that also implements
// Scanner. It lets FromScanner control the creation of new values while still
// letting the user provide custom ScanTargets logic.
type Ptr[T any] interface {
	*T
	Scanner
}

// FromScanner returns a base mapping that allocates a new T per row and scans
// the record into the targets it reports.
func FromScanner[T any, P Ptr[T]]() MapFunc[T] {
	return func(row Row, _ int) (*T, error) {
		sr, ok := row.(ScannableRow)
		if !ok {
			return nil, ErrRowNotScannable
		}

		var result T
		targets := P(&result).ScanTargets(sr.Columns())
		if err := sr.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		return &result, nil
	}
}

// FromStruct returns a base mapping that scans each record into a new T using
// scany's struct mapping (`db` tags, snake_case field names). Columns without
// a matching field are ignored, so a query may project extra columns that are
// only captured.
func FromStruct[T any]() (MapFunc[T], error) {
	dbscanAPI, err := sqlscan.NewDBScanAPI(dbscan.WithAllowUnknownColumns(true))
	if err != nil {
		return nil, fmt.Errorf("failed to configure struct scanner: %w", err)
	}

	return func(row Row, _ int) (*T, error) {
		sr, ok := row.(ScannableRow)
		if !ok {
			return nil, ErrRowNotScannable
		}

		var result T
		if err := dbscanAPI.ScanRow(&result, scanyRows{row: sr}); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		return &result, nil
	}, nil
}

// scanyRows exposes a single positioned record through dbscan.Rows. scany
// only calls Columns and Scan when scanning one row.
type scanyRows struct {
	row ScannableRow
}

func (r scanyRows) Close() error { return nil }
func (r scanyRows) Err() error { return nil }
func (r scanyRows) Next() bool { return false }
func (r scanyRows) NextResultSet() bool { return false }
func (r scanyRows) Columns() ([]string, error) { return r.row.Columns(), nil }
func (r scanyRows) Scan(dest ...any) error { return r.row.Scan(dest...) }

// ScanMap creates a ScanTargets-compatible slice from a column-to-field map.
// Columns not present in mapping receive a throwaway placeholder pointer so the
// caller can ignore unexpected projections safely.
func ScanMap(columns []string, mapping map[string]any) []any {
	targets := make([]any, len(columns))
	for i, col := range columns {
		if target, ok := mapping[col]; ok {
			targets[i] = target
		} else {
			var placeholder any
			targets[i] = &placeholder
		}
	}
	return targets
}
