package capture

import (
	"fmt"
	"maps"
	"slices"
)

// Row is a read-only view of the record a cursor is positioned at.
type Row interface {
	// Columns returns the column names of the result set.
	Columns() []string
	// Value returns the value of column in the current record. isNull is
	// true when the column holds SQL NULL.
	Value(column string) (value any, isNull bool, err error)
}

// ScannableRow is a Row that can also scan the current record into
// destinations, in column order, the way (*sql.Rows).Scan does.
type ScannableRow interface {
	Row
	Scan(dest ...any) error
}

// Values is a Row over an already materialised record. A nil value is SQL
// NULL.
type Values map[string]any

var _ Row = Values(nil)

func (v Values) Columns() []string {
	return slices.Sorted(maps.Keys(v))
}

func (v Values) Value(column string) (any, bool, error) {
	value, ok := v[column]
	if !ok {
		return nil, false, fmt.Errorf("%w %q", ErrUnknownColumn, column)
	}

	return value, value == nil, nil
}
