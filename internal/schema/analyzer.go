package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"db-upsert/internal/dialect"
)

// ErrTableNotFound is returned by Inspect when the schema has no such table.
var ErrTableNotFound = errors.New("table not found")

// Analyze reads every base table of a schema with its columns and foreign keys, and returns
// the tables in load order (referenced tables first).
func Analyze(ctx context.Context, db *sql.DB, d dialect.Dialect, schemaName string) ([]*Table, error) {
	intro, err := dialect.AsIntrospector(d)
	if err != nil {
		return nil, err
	}
	target := d.GetSchemaName(schemaName)

	// keys are upper-cased: Oracle reports names in upper case, FK queries sometimes do not
	catalog := make(map[string]*Table)

	tables, err := loadTables(ctx, db, intro.GetTablesQuery(target), target, catalog)
	if err != nil {
		return nil, err
	}
	if err := loadColumns(ctx, db, d, intro, target, catalog); err != nil {
		return nil, err
	}
	if err := loadForeignKeys(ctx, db, intro.GetForeignKeysQuery(target), target, catalog); err != nil {
		return nil, err
	}
	return SortTablesByFKCount(tables), nil
}

// Inspect returns the metadata of one table. The name is matched case-insensitively.
func Inspect(ctx context.Context, db *sql.DB, d dialect.Dialect, schemaName, table string) (*Table, error) {
	tables, err := Analyze(ctx, db, d, schemaName)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if strings.EqualFold(t.Name, table) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in schema %q", ErrTableNotFound, table, d.GetSchemaName(schemaName))
}

func loadTables(ctx context.Context, db *sql.DB, query, target string, catalog map[string]*Table) ([]*Table, error) {
	rows, err := db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []*Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		t := &Table{Name: name, Dependencies: []string{}}
		catalog[strings.ToUpper(name)] = t
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

func loadColumns(ctx context.Context, db *sql.DB, d dialect.Dialect, intro dialect.Introspector, target string, catalog map[string]*Table) error {
	rows, err := db.QueryContext(ctx, intro.GetColumnsQuery(target), target)
	if err != nil {
		return fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tName, cName, dType, cType, cLen, isNull, cKey, extra, isUnique, comment sql.NullString
		if err := rows.Scan(&tName, &cName, &dType, &cType, &cLen, &isNull, &cKey, &extra, &isUnique, &comment); err != nil {
			return fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}
		t, ok := catalog[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}

		col := &Column{
			Name:       cName.String,
			DataType:   d.NormalizeType(dType.String),
			ColumnType: cType.String,
			Length:     parseLength(cLen.String),
			IsNullable: isNull.String == "YES" || isNull.String == "Y",
			IsPK:       strings.Contains(cKey.String, "PRI"),
			IsAutoInc:  extra.Valid && intro.IsAutoIncrement(cName.String, extra.String),
			IsUnique:   strings.Contains(isUnique.String, "UNIQUE"),
			Comment:    comment.String,
		}
		if col.ColumnType == "" {
			col.ColumnType = dType.String
		}
		col.Meaning = AnalyzeMeaning(col.Name, col.Comment)
		t.Columns = append(t.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating columns: %w", err)
	}
	return nil
}

func loadForeignKeys(ctx context.Context, db *sql.DB, query, target string, catalog map[string]*Table) error {
	rows, err := db.QueryContext(ctx, query, target)
	if err != nil {
		return fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tName, cConst, cName, rTable, rCol sql.NullString
		if err := rows.Scan(&tName, &cConst, &cName, &rTable, &rCol); err != nil {
			return fmt.Errorf("failed to scan foreign key: %w", err)
		}
		if !tName.Valid || !rTable.Valid || strings.EqualFold(tName.String, rTable.String) {
			continue
		}
		t, ok := catalog[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}
		// references outside the schema cannot be ordered
		ref, ok := catalog[strings.ToUpper(rTable.String)]
		if !ok {
			continue
		}
		t.Dependencies = append(t.Dependencies, ref.Name)
		t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{
			Name:      cConst.String,
			Column:    cName.String,
			RefTable:  ref.Name,
			RefColumn: rCol.String,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating foreign keys: %w", err)
	}
	return nil
}

// parseLength accepts integer and decimal spellings ("50", "50.0"); anything else is 0.
func parseLength(raw string) int {
	if raw == "" {
		return 0
	}
	var length int
	if _, err := fmt.Sscanf(raw, "%d", &length); err == nil {
		return length
	}
	var fLength float64
	if _, err := fmt.Sscanf(raw, "%f", &fLength); err == nil {
		return int(fLength)
	}
	return 0
}

// SortTablesByFKCount orders tables so that referenced tables come before the tables
// referencing them. Cycles are broken by picking the table with the fewest unresolved
// dependencies, preferring members of a direct two-way cycle.
func SortTablesByFKCount(tables []*Table) []*Table {
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	sorted := make([]*Table, 0, len(tables))
	processed := make(map[string]bool, len(tables))
	for len(sorted) < len(tables) {
		added := false
		for _, t := range tables {
			if processed[t.Name] || pending(t, processed) > 0 {
				continue
			}
			sorted = append(sorted, t)
			processed[t.Name] = true
			added = true
		}
		if added {
			continue
		}

		best, score := breakCycle(tables, byName, processed)
		if best == nil {
			log.Println("[Sort] Remaining tables cannot be ordered")
			break
		}
		sorted = append(sorted, best)
		processed[best.Name] = true
		log.Printf("[Sort] Breaking circular dependency: %s (Score: %d)", best.Name, score)
	}
	return sorted
}

func pending(t *Table, processed map[string]bool) int {
	count := 0
	for _, dep := range t.Dependencies {
		if !processed[dep] {
			count++
		}
	}
	return count
}

func breakCycle(tables []*Table, byName map[string]*Table, processed map[string]bool) (*Table, int) {
	var best *Table
	bestScore := 0
	for _, t := range tables {
		if processed[t.Name] {
			continue
		}
		score := -100 * pending(t, processed)
		if inTwoWayCycle(t, byName, processed) {
			score += 500
		}
		// ties go to the alphabetically last name
		if best == nil || score > bestScore || (score == bestScore && t.Name > best.Name) {
			best, bestScore = t, score
		}
	}
	return best, bestScore
}

func inTwoWayCycle(t *Table, byName map[string]*Table, processed map[string]bool) bool {
	for _, dep := range t.Dependencies {
		if processed[dep] {
			continue
		}
		other, ok := byName[dep]
		if !ok {
			continue
		}
		for _, back := range other.Dependencies {
			if back == t.Name {
				return true
			}
		}
	}
	return false
}
