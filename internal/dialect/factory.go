package dialect

import "fmt"

// GetDialect returns the Dialect implementation for a dialect or driver name.
func GetDialect(name string) (Dialect, error) {
	canonical, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	switch canonical {
	case PostgreSQL:
		return &PostgresDialect{}, nil
	case Redshift:
		return &RedshiftDialect{}, nil
	case MySQL:
		return &MysqlDialect{}, nil
	case SQLite:
		return &SQLiteDialect{}, nil
	case MSSQL:
		return &MSSQLDialect{}, nil
	case Oracle:
		return &OracleDialect{}, nil
	case Snowflake:
		return snowflake, nil
	case BigQuery:
		return bigquery, nil
	case DB2:
		return db2, nil
	case Teradata:
		return teradata, nil
	case HANA:
		return hana, nil
	}
	return nil, fmt.Errorf("%w: %q has no dialect implementation", ErrUnsupportedDialect, name)
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*RedshiftDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*ANSIDialect)(nil)

var _ Introspector = (*MysqlDialect)(nil)
var _ Introspector = (*PostgresDialect)(nil)
var _ Introspector = (*SQLiteDialect)(nil)
var _ Introspector = (*MSSQLDialect)(nil)
var _ Introspector = (*OracleDialect)(nil)
