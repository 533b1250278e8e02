package dialect

import (
	"fmt"
	"strings"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

var mssqlTypes = map[string]string{
	"nvarchar":      "varchar",
	"nchar":         "varchar",
	"text":          "varchar",
	"ntext":         "varchar",
	"bit":           "boolean",
	"numeric":       "decimal",
	"money":         "decimal",
	"smallmoney":    "decimal",
	"real":          "float",
	"datetime2":     "datetime",
	"smalldatetime": "datetime",
	"date":          "datetime",
	"image":         "blob",
	"binary":        "blob",
	"varbinary":     "blob",
}

func (d *MSSQLDialect) Name() string {
	return MSSQL
}

func (d *MSSQLDialect) GetTablesQuery(schema string) string {
	return `SELECT t.name FROM sys.tables t JOIN sys.schemas s ON s.schema_id = t.schema_id WHERE s.name = @p1 ORDER BY t.name`
}

// GetColumnsQuery reads sys.columns directly. CharMaxLen is -1 for (max) types.
func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	return `
SELECT
    t.name,
    c.name,
    ty.name,
    ty.name,
    COLUMNPROPERTY(c.object_id, c.name, 'CharMaxLen'),
    CASE WHEN c.is_nullable = 1 THEN 'YES' ELSE 'NO' END,
    CASE WHEN ix.is_pk = 1 THEN 'PRIMARY' ELSE '' END,
    CASE WHEN c.is_identity = 1 THEN 'identity' ELSE OBJECT_DEFINITION(c.default_object_id) END,
    CASE WHEN ix.is_uq = 1 THEN 'UNIQUE' ELSE '' END,
    CAST(ep.value AS NVARCHAR(MAX))
FROM sys.tables t
JOIN sys.schemas s ON s.schema_id = t.schema_id
JOIN sys.columns c ON c.object_id = t.object_id
JOIN sys.types ty ON ty.user_type_id = c.user_type_id
OUTER APPLY (
    SELECT
        MAX(CASE WHEN i.is_primary_key = 1 THEN 1 ELSE 0 END) AS is_pk,
        MAX(CASE WHEN i.is_primary_key = 0 THEN 1 ELSE 0 END) AS is_uq
    FROM sys.indexes i
    JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
    WHERE i.object_id = t.object_id AND i.is_unique = 1 AND ic.column_id = c.column_id
) ix
LEFT JOIN sys.extended_properties ep
    ON ep.major_id = t.object_id AND ep.minor_id = c.column_id AND ep.name = 'MS_Description'
WHERE s.name = @p1
ORDER BY t.name, c.column_id`
}

func (d *MSSQLDialect) GetForeignKeysQuery(schema string) string {
	return `
SELECT
    OBJECT_NAME(fk.parent_object_id),
    fk.name,
    pc.name,
    OBJECT_NAME(fk.referenced_object_id),
    rc.name
FROM sys.foreign_keys fk
JOIN sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id
JOIN sys.columns pc ON pc.object_id = fkc.parent_object_id AND pc.column_id = fkc.parent_column_id
JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
WHERE SCHEMA_NAME(fk.schema_id) = @p1
ORDER BY fk.name, fkc.constraint_column_id`
}

func (d *MSSQLDialect) IsAutoIncrement(column, extra string) bool {
	return strings.EqualFold(extra, "identity")
}

func (d *MSSQLDialect) QuoteIdentifier(name string) string {
	return QuoteWith('[', ']', name)
}

// TempTableHeader uses the # (session) and ## (global) name markers.
func (d *MSSQLDialect) TempTableHeader(table string, global bool) string {
	marker := "#"
	if global {
		marker = "##"
	}
	return "CREATE TABLE " + d.QuoteIdentifier(marker+table)
}

// Placeholder uses named parameters, bound with sql.Named.
func (d *MSSQLDialect) Placeholder(index int, column string) string {
	return namedPlaceholder("@", column)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	return normalizeType(sqlType, mssqlTypes)
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

// GetLimitRowQuery injects TOP after the leading SELECT.
func (d *MSSQLDialect) GetLimitRowQuery(query string, limit int) string {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < 6 || !strings.EqualFold(trimmed[:6], "SELECT") {
		return query
	}
	return fmt.Sprintf("SELECT TOP %d%s", limit, trimmed[6:])
}
