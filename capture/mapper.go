package capture

import (
	"database/sql"
	"fmt"
	"reflect"
	"slices"
)

// MapFunc converts the current record of row into a new object. It is the
// ordinary row-mapping logic that a Mapper decorates. Returning a nil object
// with a nil error is a contract violation reported as ErrBaseObjectNull.
type MapFunc[T any] func(row Row, index int) (*T, error)

type capturedValue struct {
	value any
	null  bool
}

// Mapper wraps a MapFunc and records a fixed set of raw column values for
// every object it maps. Captured values are keyed by the object's pointer and
// can be read back with Captured, CapturedNull or Lookup.
//
// A Mapper is not safe for concurrent use. Its store is never pruned: use one
// Mapper per result set, or call Reset before reusing it.
type Mapper[T any] struct {
	base    MapFunc[T]
	columns []string
	values  map[*T]map[string]capturedValue
}

// New returns a Mapper that maps rows with base and captures columns.
func New[T any](base MapFunc[T], columns ...string) (*Mapper[T], error) {
	if base == nil {
		return nil, ErrNilBaseMapping
	}
	if reflect.TypeFor[T]().Size() == 0 {
		return nil, fmt.Errorf("%w: %v", ErrZeroSizeObject, reflect.TypeFor[T]())
	}

	cols := make([]string, 0, len(columns))
	for _, col := range columns {
		if !slices.Contains(cols, col) {
			cols = append(cols, col)
		}
	}

	return &Mapper[T]{
		base:    base,
		columns: cols,
		values:  make(map[*T]map[string]capturedValue),
	}, nil
}

// MapRow maps the current record of row with the base mapping and captures
// the configured columns for the returned object. index is passed through to
// the base mapping untouched.
//
// A column read failure is returned as *DataAccessError. Columns captured
// before the failing one stay recorded.
func (m *Mapper[T]) MapRow(row Row, index int) (*T, error) {
	obj, err := m.base(row, index)
	if err != nil {
		return nil, fmt.Errorf("failed to map base object for row %d: %w", index, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("row %d: %w", index, ErrBaseObjectNull)
	}

	entry := make(map[string]capturedValue, len(m.columns))
	m.values[obj] = entry

	for _, col := range m.columns {
		value, isNull, err := row.Value(col)
		if err != nil {
			return nil, &DataAccessError{Column: col, Err: err}
		}
		entry[col] = capturedValue{value: value, null: isNull || value == nil}
	}

	return obj, nil
}

// Lookup returns the value captured for obj under field. ok is false with a
// nil error when the column was SQL NULL; in that case expected is not
// checked. Otherwise the value's dynamic type must equal expected.
func (m *Mapper[T]) Lookup(obj *T, field string, expected reflect.Type) (value any, ok bool, err error) {
	if !slices.Contains(m.columns, field) {
		return nil, false, &FieldNotCapturedError{Field: field}
	}

	entry, found := m.values[obj]
	if !found {
		return nil, false, ErrObjectNotCaptured
	}

	cv, found := entry[field]
	if !found {
		return nil, false, &FieldNotCapturedError{Field: field}
	}
	if cv.null {
		return nil, false, nil
	}

	if actual := reflect.TypeOf(cv.value); actual != expected {
		return nil, false, &FieldTypeMismatchError{Field: field, Expected: expected, Actual: actual}
	}

	return cv.value, true, nil
}

// Columns returns a copy of the captured column names in capture order.
func (m *Mapper[T]) Columns() []string {
	return slices.Clone(m.columns)
}

// Len reports how many objects have capture entries.
func (m *Mapper[T]) Len() int {
	return len(m.values)
}

// Reset drops every capture entry. The column set is kept.
func (m *Mapper[T]) Reset() {
	clear(m.values)
}

// Captured returns the value captured for obj under field as a V. The second
// result is false when the column was SQL NULL.
//
//	name, ok, err := capture.Captured[string](m, user, "display_name")
func Captured[V any, T any](m *Mapper[T], obj *T, field string) (V, bool, error) {
	var zero V

	value, ok, err := m.Lookup(obj, field, reflect.TypeFor[V]())
	if err != nil || !ok {
		return zero, false, err
	}

	return value.(V), true, nil
}

// CapturedNull is Captured with the result folded into a sql.Null.
func CapturedNull[V any, T any](m *Mapper[T], obj *T, field string) (sql.Null[V], error) {
	value, ok, err := Captured[V](m, obj, field)
	if err != nil {
		return sql.Null[V]{}, err
	}

	return sql.Null[V]{V: value, Valid: ok}, nil
}
