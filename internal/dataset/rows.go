package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"db-upsert/internal/dialect"
)

// FromRows drains rows into a Frame. Byte slices are converted to strings.
func FromRows(rows *sql.Rows) (*Frame, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	var data [][]any
	for rows.Next() {
		values := make([]any, len(names))
		pointers := make([]any, len(names))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(data)+1, err)
		}
		for i, value := range values {
			if b, ok := value.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return New(names, data)
}

// FromTable reads up to limit rows of an existing table, whose name is passed already formatted.
// A limit of zero reads the shape only.
func FromTable(ctx context.Context, db *sql.DB, d dialect.Dialect, table string, limit int) (*Frame, error) {
	query := d.GetLimitRowQuery("SELECT * FROM "+table, limit)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()
	return FromRows(rows)
}
