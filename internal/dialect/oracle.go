package dialect

import (
	"fmt"
	"strings"
)

// OracleDialect reads the ALL_* dictionary views filtered by owner.
// Oracle stores unquoted names in upper case, so GetSchemaName upper-cases the owner.
type OracleDialect struct{}

func (d *OracleDialect) Name() string {
	return Oracle
}

func (d *OracleDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`
}

// GetColumnsQuery maps NUMBER to INTEGER or DECIMAL by scale so that the value generators pick a numeric kind.
func (d *OracleDialect) GetColumnsQuery(schema string) string {
	return `
WITH keyed AS (
    SELECT k.TABLE_NAME, k.COLUMN_NAME, con.CONSTRAINT_TYPE
    FROM ALL_CONSTRAINTS con
    JOIN ALL_CONS_COLUMNS k ON k.OWNER = con.OWNER AND k.CONSTRAINT_NAME = con.CONSTRAINT_NAME
    WHERE con.OWNER = :1 AND con.CONSTRAINT_TYPE IN ('P', 'U')
)
SELECT
    col.TABLE_NAME,
    col.COLUMN_NAME,
    DECODE(col.DATA_TYPE, 'NUMBER', DECODE(NVL(col.DATA_SCALE, 0), 0, 'INTEGER', 'DECIMAL'), col.DATA_TYPE),
    col.DATA_TYPE || '(' || NVL(col.DATA_PRECISION, col.DATA_LENGTH) || ')',
    NVL(col.DATA_PRECISION, col.CHAR_LENGTH),
    col.NULLABLE,
    (SELECT MAX('PRI') FROM keyed WHERE keyed.TABLE_NAME = col.TABLE_NAME AND keyed.COLUMN_NAME = col.COLUMN_NAME AND keyed.CONSTRAINT_TYPE = 'P'),
    DECODE(col.IDENTITY_COLUMN, 'YES', 'auto_increment', TO_CHAR(col.DATA_DEFAULT_VC)),
    (SELECT MAX('UNIQUE') FROM keyed WHERE keyed.TABLE_NAME = col.TABLE_NAME AND keyed.COLUMN_NAME = col.COLUMN_NAME AND keyed.CONSTRAINT_TYPE = 'U'),
    cm.COMMENTS
FROM ALL_TAB_COLUMNS col
JOIN ALL_TABLES tab ON tab.OWNER = col.OWNER AND tab.TABLE_NAME = col.TABLE_NAME
LEFT JOIN ALL_COL_COMMENTS cm
    ON cm.OWNER = col.OWNER AND cm.TABLE_NAME = col.TABLE_NAME AND cm.COLUMN_NAME = col.COLUMN_NAME
WHERE col.OWNER = :1
ORDER BY col.TABLE_NAME, col.COLUMN_ID`
}

func (d *OracleDialect) GetForeignKeysQuery(schema string) string {
	return `
SELECT fk.TABLE_NAME, fk.CONSTRAINT_NAME, src.COLUMN_NAME, pk.TABLE_NAME, dst.COLUMN_NAME
FROM ALL_CONSTRAINTS fk
JOIN ALL_CONSTRAINTS pk ON pk.OWNER = fk.R_OWNER AND pk.CONSTRAINT_NAME = fk.R_CONSTRAINT_NAME
JOIN ALL_CONS_COLUMNS src ON src.OWNER = fk.OWNER AND src.CONSTRAINT_NAME = fk.CONSTRAINT_NAME
JOIN ALL_CONS_COLUMNS dst ON dst.OWNER = pk.OWNER AND dst.CONSTRAINT_NAME = pk.CONSTRAINT_NAME AND dst.POSITION = src.POSITION
WHERE fk.CONSTRAINT_TYPE = 'R' AND fk.OWNER = :1
ORDER BY fk.CONSTRAINT_NAME, src.POSITION`
}

// IsAutoIncrement treats identity columns and sequence-backed defaults (seq.NEXTVAL) as generated.
func (d *OracleDialect) IsAutoIncrement(column, extra string) bool {
	upper := strings.ToUpper(extra)
	for _, marker := range []string{"AUTO_INCREMENT", "NEXTVAL", "SEQ"} {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

func (d *OracleDialect) QuoteIdentifier(name string) string {
	return QuoteWith('"', '"', name)
}

func (d *OracleDialect) TempTableHeader(table string, global bool) string {
	return "CREATE GLOBAL TEMPORARY TABLE " + d.QuoteIdentifier(table)
}

func (d *OracleDialect) Placeholder(index int, column string) string {
	return namedPlaceholder(":", column)
}

// NormalizeType folds the Oracle type families into string, integer and datetime.
func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(sqlType)
	families := []struct {
		family  string
		markers []string
	}{
		{"string", []string{"char", "clob"}},
		{"integer", []string{"int", "number", "float"}},
		{"datetime", []string{"date", "time", "year"}},
	}
	for _, f := range families {
		for _, m := range f.markers {
			if strings.Contains(s, m) {
				return f.family
			}
		}
	}
	return s
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}

func (d *OracleDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, limit)
}
