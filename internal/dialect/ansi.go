package dialect

import (
	"fmt"
	"strings"
)

type limitStyle int

const (
	limitClause limitStyle = iota
	limitFetchFirst
	limitTop
)

// ANSIDialect covers the warehouse engines that only need statement generation:
// they quote and bind in a standard way and have no catalog reader here.
type ANSIDialect struct {
	name          string
	quoteOpen     byte
	quoteClose    byte
	tempHeader    string
	globalHeader  string
	defaultSchema string
	limit         limitStyle
}

var (
	snowflake = &ANSIDialect{name: Snowflake, quoteOpen: '"', quoteClose: '"', tempHeader: "CREATE TEMPORARY TABLE ", defaultSchema: "PUBLIC"}
	bigquery  = &ANSIDialect{name: BigQuery, quoteOpen: '`', quoteClose: '`', tempHeader: "CREATE TEMP TABLE "}
	db2       = &ANSIDialect{name: DB2, quoteOpen: '"', quoteClose: '"', tempHeader: "DECLARE GLOBAL TEMPORARY TABLE ", limit: limitFetchFirst}
	teradata  = &ANSIDialect{name: Teradata, quoteOpen: '"', quoteClose: '"', tempHeader: "CREATE VOLATILE TABLE ", globalHeader: "CREATE GLOBAL TEMPORARY TABLE ", limit: limitTop}
	hana      = &ANSIDialect{name: HANA, quoteOpen: '"', quoteClose: '"', tempHeader: "CREATE LOCAL TEMPORARY TABLE #", globalHeader: "CREATE GLOBAL TEMPORARY TABLE "}
)

func (d *ANSIDialect) Name() string {
	return d.name
}

func (d *ANSIDialect) QuoteIdentifier(name string) string {
	return QuoteWith(d.quoteOpen, d.quoteClose, name)
}

func (d *ANSIDialect) TempTableHeader(table string, global bool) string {
	if global && d.globalHeader != "" {
		return d.globalHeader + d.QuoteIdentifier(table)
	}
	if strings.HasSuffix(d.tempHeader, "#") {
		// HANA local temporary tables carry the marker inside the name
		return strings.TrimSuffix(d.tempHeader, "#") + d.QuoteIdentifier("#"+table)
	}
	return d.tempHeader + d.QuoteIdentifier(table)
}

func (d *ANSIDialect) Placeholder(index int, column string) string {
	if d.name == BigQuery {
		return namedPlaceholder("@", column)
	}
	return "?"
}

func (d *ANSIDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *ANSIDialect) GetSchemaName(input string) string {
	if input == "" {
		return d.defaultSchema
	}
	return input
}

func (d *ANSIDialect) GetLimitRowQuery(query string, limit int) string {
	switch d.limit {
	case limitFetchFirst:
		return fmt.Sprintf("%s FETCH FIRST %d ROWS ONLY", query, limit)
	case limitTop:
		trimmed := strings.TrimSpace(query)
		if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
			return strings.Replace(query, "SELECT", fmt.Sprintf("SELECT TOP %d", limit), 1)
		}
		return query
	default:
		return fmt.Sprintf("%s LIMIT %d", query, limit)
	}
}
