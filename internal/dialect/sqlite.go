package dialect

import (
	"fmt"
	"regexp"
	"strings"
)

// SQLite keeps no information_schema; metadata comes from sqlite_master and the pragma table functions.
type SQLiteDialect struct{}

var sqliteTypes = map[string]string{
	"integer": "int",
	"real":    "double",
}

var autoIncrementDDL = regexp.MustCompile(`(?i)(\w+) INTEGER PRIMARY KEY AUTOINCREMENT`)

// AutoIncrementFromDDL extracts the AUTOINCREMENT column name from a CREATE TABLE statement.
func AutoIncrementFromDDL(ddl string) (string, bool) {
	match := autoIncrementDDL.FindStringSubmatch(ddl)
	if match == nil {
		return "", false
	}
	return strings.Trim(match[1], "\"`[]"), true
}

func (d *SQLiteDialect) Name() string {
	return SQLite
}

func (d *SQLiteDialect) GetTablesQuery(schema string) string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND ? IS NOT NULL ORDER BY name`
}

func (d *SQLiteDialect) GetColumnsQuery(schema string) string {
	// the table DDL is returned as the extra field for AUTOINCREMENT detection
	return `SELECT
    m.name,
    p.name,
    p.type,
    p.type,
    NULL,
    CASE WHEN p."notnull" = 0 AND p.pk = 0 THEN 'YES' ELSE 'NO' END,
    CASE WHEN p.pk > 0 THEN 'PRI' ELSE '' END,
    m.sql,
    NULL,
    NULL
FROM sqlite_master m
JOIN pragma_table_info(m.name) p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
ORDER BY m.name, p.cid`
}

func (d *SQLiteDialect) GetForeignKeysQuery(schema string) string {
	// SQLite does not report constraint names
	return `SELECT m.name, NULL, f."from", f."table", f."to"
FROM sqlite_master m
JOIN pragma_foreign_key_list(m.name) f
WHERE m.type = 'table' AND ? IS NOT NULL`
}

func (d *SQLiteDialect) IsAutoIncrement(column, extra string) bool {
	name, ok := AutoIncrementFromDDL(extra)
	return ok && strings.EqualFold(name, column)
}

func (d *SQLiteDialect) QuoteIdentifier(name string) string {
	return QuoteWith('"', '"', name)
}

func (d *SQLiteDialect) TempTableHeader(table string, global bool) string {
	return "CREATE TEMP TABLE " + d.QuoteIdentifier(table)
}

func (d *SQLiteDialect) Placeholder(index int, column string) string {
	return namedPlaceholder(":", column)
}

// NormalizeType drops the declared length, e.g. VARCHAR(20) becomes varchar.
func (d *SQLiteDialect) NormalizeType(sqlType string) string {
	return normalizeType(sqlType, sqliteTypes)
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}

func (d *SQLiteDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
