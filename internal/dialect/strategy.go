package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedDialect is returned for dialect names outside the known taxonomy.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// Canonical dialect names.
const (
	PostgreSQL = "postgresql"
	MySQL      = "mysql"
	SQLite     = "sqlite"
	MSSQL      = "mssql"
	Oracle     = "oracle"
	Snowflake  = "snowflake"
	BigQuery   = "bigquery"
	Redshift   = "redshift"
	DB2        = "db2"
	Teradata   = "teradata"
	HANA       = "hana"
)

// Strategy is the upsert form a dialect supports.
type Strategy int

const (
	StrategyMerge Strategy = iota + 1
	StrategyInsertOnConflict
)

func (s Strategy) String() string {
	switch s {
	case StrategyMerge:
		return "MERGE"
	case StrategyInsertOnConflict:
		return "INSERT_ON_CONFLICT"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Info describes how a dialect upserts.
type Info struct {
	Name     string
	Strategy Strategy
	// SQLiteConflict marks SQLite's ON CONFLICT form, which needs a WHERE true before the clause.
	SQLiteConflict bool
	// RowTable is the one-row table a bare SELECT must read from, e.g. DUAL.
	RowTable string
}

var registry = map[string]Info{
	PostgreSQL: {Name: PostgreSQL, Strategy: StrategyInsertOnConflict},
	MySQL:      {Name: MySQL, Strategy: StrategyInsertOnConflict},
	SQLite:     {Name: SQLite, Strategy: StrategyInsertOnConflict, SQLiteConflict: true},
	MSSQL:      {Name: MSSQL, Strategy: StrategyMerge},
	Oracle:     {Name: Oracle, Strategy: StrategyMerge, RowTable: "DUAL"},
	Snowflake:  {Name: Snowflake, Strategy: StrategyMerge},
	BigQuery:   {Name: BigQuery, Strategy: StrategyMerge},
	Redshift:   {Name: Redshift, Strategy: StrategyMerge},
	DB2:        {Name: DB2, Strategy: StrategyMerge, RowTable: "SYSIBM.SYSDUMMY1"},
	Teradata:   {Name: Teradata, Strategy: StrategyMerge},
	HANA:       {Name: HANA, Strategy: StrategyMerge},
}

// driver names registered with database/sql, mapped to the dialect they speak
var aliases = map[string]string{
	"postgres":  PostgreSQL,
	"pgx":       PostgreSQL,
	"pg":        PostgreSQL,
	"mariadb":   MySQL,
	"sqlite3":   SQLite,
	"sqlserver": MSSQL,
	"godror":    Oracle,
	"ora":       Oracle,
	"hdb":       HANA,
}

// Resolve returns the canonical dialect name for a dialect or driver name.
func Resolve(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := registry[key]; ok {
		return key, nil
	}
	if canonical, ok := aliases[key]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, name)
}

// Lookup returns the upsert description of a dialect.
func Lookup(name string) (Info, error) {
	canonical, err := Resolve(name)
	if err != nil {
		return Info{}, err
	}
	return registry[canonical], nil
}

// StrategyFor maps a dialect name to its upsert strategy.
func StrategyFor(name string) (Strategy, error) {
	info, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	return info.Strategy, nil
}

// Names returns the canonical dialect names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
