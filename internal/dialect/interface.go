package dialect

import (
	"errors"
	"fmt"
)

// Dialect abstracts the statement syntax conventions of one SQL engine.
type Dialect interface {
	// Name returns the canonical dialect identifier (see Names).
	Name() string

	// Identifiers
	QuoteIdentifier(name string) string
	TempTableHeader(table string, global bool) string

	// Placeholder returns the native bind variable for the column at the given position,
	// e.g. $1, ?, @Name or :Name.
	Placeholder(index int, column string) string

	// Helpers
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
	GetLimitRowQuery(query string, limit int) string
}

// Introspector is implemented by dialects that can read table metadata from the catalog.
//
// Every query takes the schema as its only bind argument. The columns query must return, in order:
// table, column, data type, full column type, length, nullable flag, key marker, extra, unique marker, comment.
type Introspector interface {
	GetTablesQuery(schema string) string
	GetColumnsQuery(schema string) string
	GetForeignKeysQuery(schema string) string

	// IsAutoIncrement reports whether the column is system generated, based on the extra field
	// returned by the columns query.
	IsAutoIncrement(column, extra string) bool
}

// ErrNoIntrospection is returned when a dialect cannot read catalog metadata.
var ErrNoIntrospection = errors.New("dialect does not support introspection")

// AsIntrospector returns the Introspector behind d, or ErrNoIntrospection.
func AsIntrospector(d Dialect) (Introspector, error) {
	if i, ok := d.(Introspector); ok {
		return i, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoIntrospection, d.Name())
}
