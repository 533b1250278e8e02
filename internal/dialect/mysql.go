package dialect

import (
	"fmt"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string {
	return MySQL
}

func (d *MysqlDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, COLUMN_TYPE, CHARACTER_MAXIMUM_LENGTH, IS_NULLABLE, COLUMN_KEY, EXTRA, IF(COLUMN_KEY='UNI', 'UNIQUE', NULL) AS IS_UNIQUE, COLUMN_COMMENT FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT TABLE_NAME, CONSTRAINT_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL`
}

func (d *MysqlDialect) IsAutoIncrement(column, extra string) bool {
	return DefaultIsAutoIncrement(column, extra)
}

func (d *MysqlDialect) QuoteIdentifier(name string) string {
	return QuoteWith('`', '`', name)
}

func (d *MysqlDialect) TempTableHeader(table string, global bool) string {
	return "CREATE TEMPORARY TABLE " + d.QuoteIdentifier(table)
}

func (d *MysqlDialect) Placeholder(index int, column string) string {
	return "?"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return input
}

func (d *MysqlDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
