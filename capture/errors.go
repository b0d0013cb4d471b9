package capture

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrBaseObjectNull is returned by MapRow when the base mapping produced
	// no object for a row.
	ErrBaseObjectNull = errors.New("capture: base mapping returned nil object")

	// ErrObjectNotCaptured is returned when an object was never produced by
	// the mapper's MapRow.
	ErrObjectNotCaptured = errors.New("capture: object is not captured")

	// ErrFieldNotCaptured matches every *FieldNotCapturedError.
	ErrFieldNotCaptured = errors.New("capture: field is not captured")

	// ErrNilBaseMapping is returned by New when no base mapping is given.
	ErrNilBaseMapping = errors.New("capture: base mapping is nil")

	// ErrZeroSizeObject is returned by New for zero-size object types. Distinct
	// zero-size values may share an address, so they cannot key the store.
	ErrZeroSizeObject = errors.New("capture: zero-size object type cannot be captured")

	// ErrRowNotScannable is returned by base-mapping helpers that need Scan
	// but were given a Row without it.
	ErrRowNotScannable = errors.New("capture: row does not support Scan")

	// ErrUnknownColumn is returned by row sources when a column is not part
	// of the result set.
	ErrUnknownColumn = errors.New("capture: unknown column")
)

// DataAccessError reports a failed column read while capturing.
type DataAccessError struct {
	Column string
	Err    error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("capture: failed to read column %q: %v", e.Column, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// FieldNotCapturedError reports an accessor call for a column that is not in
// the mapper's column set.
type FieldNotCapturedError struct {
	Field string
}

func (e *FieldNotCapturedError) Error() string {
	return fmt.Sprintf("capture: field %q is not captured", e.Field)
}

func (e *FieldNotCapturedError) Is(target error) bool {
	return target == ErrFieldNotCaptured
}

// FieldTypeMismatchError reports a captured value whose dynamic type differs
// from the requested one.
type FieldTypeMismatchError struct {
	Field    string
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *FieldTypeMismatchError) Error() string {
	return fmt.Sprintf("capture: field %q is not of type %v, it is of type %v", e.Field, e.Expected, e.Actual)
}
