package dialect

import (
	"fmt"
)

type PostgresDialect struct{}

var postgresTypes = map[string]string{
	"int2":   "int",
	"int4":   "int",
	"int8":   "bigint",
	"float4": "float",
	"float8": "double",
	"bpchar": "char",
}

func (d *PostgresDialect) Name() string {
	return PostgreSQL
}

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`
}

// GetColumnsQuery reports identity columns through the extra field, so both nextval defaults and
// GENERATED ... AS IDENTITY columns count as auto-increment. Comments come from col_description.
func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	return `
WITH keyed AS (
    SELECT kcu.table_name, kcu.column_name, tc.constraint_type
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage kcu
        ON kcu.constraint_schema = tc.constraint_schema AND kcu.constraint_name = tc.constraint_name
    WHERE tc.table_schema = $1 AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE')
)
SELECT
    c.table_name,
    c.column_name,
    c.data_type,
    c.udt_name,
    c.character_maximum_length,
    c.is_nullable,
    CASE WHEN EXISTS (SELECT 1 FROM keyed k WHERE k.table_name = c.table_name AND k.column_name = c.column_name AND k.constraint_type = 'PRIMARY KEY') THEN 'PRI' END,
    CASE WHEN c.is_identity = 'YES' THEN 'identity' ELSE c.column_default END,
    CASE WHEN EXISTS (SELECT 1 FROM keyed k WHERE k.table_name = c.table_name AND k.column_name = c.column_name AND k.constraint_type = 'UNIQUE') THEN 'UNIQUE' END,
    col_description((quote_ident(c.table_schema) || '.' || quote_ident(c.table_name))::regclass, c.ordinal_position::int)
FROM information_schema.columns c
JOIN information_schema.tables t
    ON t.table_schema = c.table_schema AND t.table_name = c.table_name AND t.table_type = 'BASE TABLE'
WHERE c.table_schema = $1
ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) GetForeignKeysQuery(schema string) string {
	return `
SELECT kcu.table_name, kcu.constraint_name, kcu.column_name, ref.table_name, ref.column_name
FROM information_schema.referential_constraints rc
JOIN information_schema.key_column_usage kcu
    ON kcu.constraint_schema = rc.constraint_schema AND kcu.constraint_name = rc.constraint_name
JOIN information_schema.key_column_usage ref
    ON ref.constraint_schema = rc.unique_constraint_schema AND ref.constraint_name = rc.unique_constraint_name
    AND ref.ordinal_position = kcu.position_in_unique_constraint
WHERE kcu.table_schema = $1
ORDER BY kcu.table_name, kcu.constraint_name, kcu.ordinal_position`
}

func (d *PostgresDialect) IsAutoIncrement(column, extra string) bool {
	return DefaultIsAutoIncrement(column, extra)
}

func (d *PostgresDialect) QuoteIdentifier(name string) string {
	return QuoteWith('"', '"', name)
}

func (d *PostgresDialect) TempTableHeader(table string, global bool) string {
	return "CREATE TEMP TABLE " + d.QuoteIdentifier(table)
}

func (d *PostgresDialect) Placeholder(index int, column string) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	return normalizeType(sqlType, postgresTypes)
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}

// RedshiftDialect speaks the PostgreSQL catalog but upserts with MERGE.
type RedshiftDialect struct {
	PostgresDialect
}

func (d *RedshiftDialect) Name() string {
	return Redshift
}

func (d *RedshiftDialect) TempTableHeader(table string, global bool) string {
	return "CREATE TEMPORARY TABLE " + d.QuoteIdentifier(table)
}
