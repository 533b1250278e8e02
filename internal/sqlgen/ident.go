package sqlgen

import (
	"fmt"

	"db-upsert/internal/dialect"
)

// TempKind selects the temporary-table naming convention of a table name.
type TempKind string

const (
	TempNone   TempKind = ""
	TempLocal  TempKind = "local"
	TempGlobal TempKind = "global"
)

var tempMarkers = map[TempKind]string{
	TempLocal:  "#",
	TempGlobal: "##",
}

// ParseTempKind validates a user supplied temp-table kind.
func ParseTempKind(value string) (TempKind, error) {
	kind := TempKind(value)
	if err := kind.Validate(); err != nil {
		return TempNone, err
	}
	return kind, nil
}

func (k TempKind) Validate() error {
	if k == TempNone {
		return nil
	}
	if _, ok := tempMarkers[k]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q, expected %q or %q", ErrInvalidTempKind, string(k), TempLocal, TempGlobal)
}

// Quoter renders one identifier.
type Quoter func(name string) string

// Plain leaves identifiers untouched.
func Plain(name string) string {
	return name
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return dialect.QuoteWith('"', '"', name)
}

// FormatTableName composes [schema.][marker]name without quoting.
func FormatTableName(name, schema string, kind TempKind) (string, error) {
	return Quoter(Plain).Table(name, schema, kind)
}

// Table composes a schema-qualified table name, quoting the schema and the (marked) name separately.
// The temp marker sits after the schema prefix.
func (q Quoter) Table(name, schema string, kind TempKind) (string, error) {
	if err := kind.Validate(); err != nil {
		return "", err
	}
	table := q(tempMarkers[kind] + name)
	if schema == "" {
		return table, nil
	}
	return q(schema) + "." + table, nil
}

func (q Quoter) all(names []string) []string {
	result := make([]string, len(names))
	for i, name := range names {
		result[i] = q(name)
	}
	return result
}
