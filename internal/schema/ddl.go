package schema

import (
	"fmt"
	"strconv"
	"strings"

	"db-upsert/internal/dialect"
	"db-upsert/internal/sqlgen"
)

// DDLOptions renames the copy produced by CreateTableDDL. Empty fields keep the source table's name.
type DDLOptions struct {
	Name   string
	Schema string
	Temp   sqlgen.TempKind
}

// CreateTableDDL renders a CREATE TABLE statement reproducing the table's columns and key.
// Temporary copies use the dialect's temp-table header and are never schema qualified.
func CreateTableDDL(t *Table, d dialect.Dialect, opts DDLOptions) (string, error) {
	if err := opts.Temp.Validate(); err != nil {
		return "", err
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%w: table %s has no columns", sqlgen.ErrEmptyClause, t.Name)
	}
	name := opts.Name
	if name == "" {
		name = t.Name
	}

	var header string
	if opts.Temp == sqlgen.TempNone {
		table, err := sqlgen.Quoter(d.QuoteIdentifier).Table(name, opts.Schema, sqlgen.TempNone)
		if err != nil {
			return "", err
		}
		header = "CREATE TABLE " + table
	} else {
		header = d.TempTableHeader(name, opts.Temp == sqlgen.TempGlobal)
	}

	lines := make([]string, 0, len(t.Columns)+1)
	for _, col := range t.Columns {
		line := d.QuoteIdentifier(col.Name) + " " + typeSpec(col)
		if !col.IsNullable {
			line += " NOT NULL"
		}
		lines = append(lines, line)
	}
	// tables without a declared key fall back to their generated columns
	if keys := t.UpsertKeys(); len(keys) > 0 {
		lines = append(lines, "PRIMARY KEY ("+quoteAll(d, keys)+")")
	}
	return header + " (\n    " + strings.Join(lines, ",\n    ") + "\n);", nil
}

// ForeignKeyDDL renders one ALTER TABLE ... ADD CONSTRAINT statement per foreign key. Unnamed keys
// get <ref_table>_<ref_column>_<table>_<column>_fk.
func ForeignKeyDDL(t *Table, d dialect.Dialect, schemaName string) ([]string, error) {
	q := sqlgen.Quoter(d.QuoteIdentifier)
	local, err := q.Table(t.Name, schemaName, sqlgen.TempNone)
	if err != nil {
		return nil, err
	}
	statements := make([]string, 0, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		ref, err := q.Table(fk.RefTable, schemaName, sqlgen.TempNone)
		if err != nil {
			return nil, err
		}
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
			local, d.QuoteIdentifier(constraintName(t.Name, fk)), d.QuoteIdentifier(fk.Column), ref, d.QuoteIdentifier(fk.RefColumn)))
	}
	return statements, nil
}

// SelectStatement renders a SELECT of every column, replacing NULL numbers with 0.
func SelectStatement(t *Table, d dialect.Dialect, schemaName string) (string, error) {
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%w: table %s has no columns", sqlgen.ErrEmptyClause, t.Name)
	}
	table, err := sqlgen.Quoter(d.QuoteIdentifier).Table(t.Name, schemaName, sqlgen.TempNone)
	if err != nil {
		return "", err
	}
	items := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		name := d.QuoteIdentifier(col.Name)
		if col.IsNumeric() {
			items[i] = fmt.Sprintf("COALESCE(%s, 0) AS %s", name, name)
		} else {
			items[i] = name
		}
	}
	return "SELECT\n    " + strings.Join(items, ",\n    ") + "\nFROM " + table + ";", nil
}

func constraintName(table string, fk *ForeignKey) string {
	if fk.Name != "" {
		return fk.Name
	}
	return strings.Join([]string{fk.RefTable, fk.RefColumn, table, fk.Column, "fk"}, "_")
}

func typeSpec(col *Column) string {
	spec := col.ColumnType
	if spec == "" {
		spec = col.DataType
	}
	switch {
	case strings.Contains(spec, "("):
		return spec
	case col.Length == -1:
		return spec + "(max)"
	case col.Length > 0 && !col.IsNumeric():
		return spec + "(" + strconv.Itoa(col.Length) + ")"
	default:
		return spec
	}
}

func quoteAll(d dialect.Dialect, names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = d.QuoteIdentifier(name)
	}
	return strings.Join(quoted, ", ")
}
