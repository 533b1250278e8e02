package schema

import (
	"fmt"
	"strings"

	"db-upsert/internal/dataset"
)

type Table struct {
	Name         string
	Columns      []*Column
	ForeignKeys  []*ForeignKey
	Dependencies []string // referenced tables, used for load ordering
}

type Column struct {
	Name       string
	DataType   string // normalized by the dialect, e.g. "varchar"
	ColumnType string // catalog spelling, e.g. "varchar(50)"
	Length     int
	IsNullable bool
	IsPK       bool
	IsAutoInc  bool
	IsUnique   bool
	Comment    string
	Meaning    string // what the column holds, derived from its comment or name (e.g. "phone", "email")
}

type ForeignKey struct {
	Name      string
	Column    string
	RefTable  string
	RefColumn string
}

// ColumnNames returns the column names in ordinal order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Shape returns an empty dataset with the table's columns, for generating statements
// against the table itself.
func (t *Table) Shape() (*dataset.Frame, error) {
	frame, err := dataset.New(t.ColumnNames(), nil)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", t.Name, err)
	}
	return frame, nil
}

// Column looks a column up by name, ignoring case.
func (t *Table) Column(name string) (*Column, bool) {
	for _, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return nil, false
}

// PrimaryKey returns the primary key columns in ordinal order.
func (t *Table) PrimaryKey() []string {
	var keys []string
	for _, col := range t.Columns {
		if col.IsPK {
			keys = append(keys, col.Name)
		}
	}
	return keys
}

// GeneratedColumns returns the auto-increment / identity columns.
func (t *Table) GeneratedColumns() []string {
	var cols []string
	for _, col := range t.Columns {
		if col.IsAutoInc {
			cols = append(cols, col.Name)
		}
	}
	return cols
}

// UpsertKeys returns the columns identifying a row: the primary key, or the
// generated columns when the table has none.
func (t *Table) UpsertKeys() []string {
	if keys := t.PrimaryKey(); len(keys) > 0 {
		return keys
	}
	return t.GeneratedColumns()
}

// IsNumeric reports whether the normalized type holds numbers.
func (c *Column) IsNumeric() bool {
	t := strings.ToLower(c.DataType)
	if strings.Contains(t, "interval") || strings.Contains(t, "point") {
		return false
	}
	for _, marker := range []string{"int", "decimal", "numeric", "number", "float", "double", "real", "money"} {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}
