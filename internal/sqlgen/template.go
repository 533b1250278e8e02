package sqlgen

import "strings"

const (
	indent    = "    "
	listSep   = ",\n" + indent
	valuesSQL = `INSERT INTO {table} (
    {columns}
)
VALUES (
    {values}
)`
	selectSQL = `INSERT INTO {table} (
    {columns}
)
SELECT
    {columns}
FROM {source}`
	boundSelectSQL = `INSERT INTO {table} (
    {columns}
)
SELECT
    {values}`
	mergeSQL = `MERGE INTO {target} AS TARGET
USING {source} AS SOURCE
ON {conditions}
{matched}WHEN NOT MATCHED THEN
INSERT (
    {insert_columns}
)
VALUES (
    {insert_values}
);`
	matchedSQL = `WHEN MATCHED AND (
    {changed}
)
THEN UPDATE SET
    {assignments}
`
	conflictSQL = `{insert}
{where}ON CONFLICT ({match})
{action}`
	conflictUpdateSQL = `DO UPDATE SET
    {assignments}`
	conflictNothingSQL = "DO NOTHING"
	sqliteWhere        = "WHERE true\n"
	rowSourceSQL       = "(SELECT {values}{from})"
)

// render fills {slot} markers with already-escaped fragments in a single pass,
// so fragments that happen to contain markers are left alone.
func render(tmpl string, slots map[string]string) string {
	pairs := make([]string, 0, len(slots)*2)
	for slot, fragment := range slots {
		pairs = append(pairs, "{"+slot+"}", fragment)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// each formats every column with fn and joins the results with sep.
func each(columns []string, sep string, fn func(i int, column string) string) string {
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fn(i, column)
	}
	return strings.Join(parts, sep)
}
