// Package capture decorates a row-mapping function so that, next to the
// domain object it builds, a chosen set of raw column values is kept for
// every row.
//
// This is useful when a query projects columns the domain type does not hold
// (a version stamp, a join key, an audit column) and the caller still needs
// them after mapping.
//
// # Basic Usage
//
// Build a Mapper from a base mapping and the columns to capture:
//
//	type User struct {
//	    ID   int64  `db:"id"`
//	    Name string `db:"name"`
//	}
//
//	base, err := capture.FromStruct[User]()
//	if err != nil {
//	    return err
//	}
//	m, err := capture.New(base, "updated_at", "tenant_id")
//	if err != nil {
//	    return err
//	}
//
//	users, err := capture.QueryRows(ctx, db, m,
//	    "SELECT id, name, updated_at, tenant_id FROM users", nil)
//	if err != nil {
//	    return err
//	}
//
// # Reading Captured Values
//
// Captured checks the dynamic type of the stored value against V. A column
// that was SQL NULL returns ok == false with a nil error:
//
//	tenant, ok, err := capture.Captured[int64](m, users[0], "tenant_id")
//
// Lookup does the same with a reflect.Type when V is only known at run time.
// Asking for a column outside the mapper's set fails with
// *FieldNotCapturedError; asking with the wrong type fails with
// *FieldTypeMismatchError.
//
// # Base Mappings
//
// Any MapFunc works. FromScanner reuses a Scanner implementation:
//
//	func (u *User) ScanTargets(columns []string) []any {
//	    return capture.ScanMap(columns, map[string]any{
//	        "id":   &u.ID,
//	        "name": &u.Name,
//	    })
//	}
//
//	m, err := capture.New(capture.FromScanner[User](), "updated_at")
//
// # Identity and Lifetime
//
// Captured values are keyed by the pointer MapRow returns, so value-equal
// objects never share an entry. Zero-size object types are rejected by New.
// A Mapper keeps every entry until Reset is called; scope one Mapper to one
// result set. A Mapper is not safe for concurrent use.
//
// # Row Sources
//
// SQLRow adapts *sql.Rows. The pgxrow and sqlxrow packages adapt pgx and
// sqlx cursors. Values is a Row over a plain map, handy for tests.
package capture
