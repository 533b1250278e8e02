package sqlgen

import (
	"fmt"
)

// BindFunc renders the bind variable of the column at the given position.
type BindFunc func(index int, column string) string

// NamedBind renders :Column, the default bind form.
func NamedBind(_ int, column string) string {
	return ":" + column
}

// Engine fills the statement templates. Table arguments are taken as already formatted text;
// column names are quoted by Quote and bound by Bind.
type Engine struct {
	Quote Quoter
	Bind  BindFunc
	// RowTable is appended as FROM to a bound row source when the dialect needs one.
	RowTable string
}

func (e Engine) quote(name string) string {
	if e.Quote == nil {
		return name
	}
	return e.Quote(name)
}

func (e Engine) bind(index int, column string) string {
	if e.Bind == nil {
		return NamedBind(index, column)
	}
	return e.Bind(index, column)
}

// BuildInsert builds a parameterized INSERT, or INSERT ... SELECT when source is not empty,
// with unquoted identifiers.
func BuildInsert(table string, columns []string, source string) (string, error) {
	return Engine{}.Insert(table, columns, source)
}

// BuildMerge builds a MERGE statement with unquoted identifiers.
func BuildMerge(target, source string, match, insert, update []string) (string, error) {
	return Engine{}.Merge(target, source, match, insert, update)
}

// BuildInsertOnConflict wraps insert with an ON CONFLICT clause, with unquoted identifiers.
func BuildInsertOnConflict(insert string, match, update []string, sqlite bool) (string, error) {
	return Engine{}.InsertOnConflict(insert, match, update, sqlite)
}

// Insert builds INSERT INTO table (columns) VALUES (binds), or INSERT ... SELECT columns FROM source.
func (e Engine) Insert(table string, columns []string, source string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("insert into %s: %w: no columns to insert", table, ErrEmptyClause)
	}
	quoted := each(columns, listSep, func(_ int, column string) string {
		return e.quote(column)
	})
	if source != "" {
		return render(selectSQL, map[string]string{
			"table":   table,
			"columns": quoted,
			"source":  source,
		}), nil
	}
	return render(valuesSQL, map[string]string{
		"table":   table,
		"columns": quoted,
		"values":  each(columns, listSep, e.bind),
	}), nil
}

// insertBoundSelect is the single-row INSERT ... SELECT :a, :b form. SQLite needs it where a
// WHERE clause has to precede ON CONFLICT.
func (e Engine) insertBoundSelect(table string, columns []string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("insert into %s: %w: no columns to insert", table, ErrEmptyClause)
	}
	return render(boundSelectSQL, map[string]string{
		"table": table,
		"columns": each(columns, listSep, func(_ int, column string) string {
			return e.quote(column)
		}),
		"values": each(columns, listSep, e.bind),
	}), nil
}

// Merge builds MERGE INTO target USING source. The WHEN MATCHED branch is left out when there is
// nothing to update.
func (e Engine) Merge(target, source string, match, insert, update []string) (string, error) {
	if len(match) == 0 {
		return "", fmt.Errorf("merge into %s: %w: no match columns", target, ErrEmptyClause)
	}
	if len(insert) == 0 {
		return "", fmt.Errorf("merge into %s: %w: no columns to insert", target, ErrEmptyClause)
	}
	matched := ""
	if len(update) > 0 {
		matched = render(matchedSQL, map[string]string{
			"changed": each(update, "\n"+indent+"OR ", func(_ int, column string) string {
				return "TARGET." + e.quote(column) + " <> SOURCE." + e.quote(column)
			}),
			"assignments": each(update, listSep, func(_ int, column string) string {
				return e.quote(column) + " = SOURCE." + e.quote(column)
			}),
		})
	}
	return render(mergeSQL, map[string]string{
		"target": target,
		"source": source,
		"conditions": each(match, "\n"+indent+"AND ", func(_ int, column string) string {
			return "SOURCE." + e.quote(column) + " = TARGET." + e.quote(column)
		}),
		"matched": matched,
		"insert_columns": each(insert, listSep, func(_ int, column string) string {
			return e.quote(column)
		}),
		"insert_values": each(insert, listSep, func(_ int, column string) string {
			return "SOURCE." + e.quote(column)
		}),
	}), nil
}

// InsertOnConflict appends ON CONFLICT (match) DO UPDATE SET to a built INSERT. An empty update
// list turns the action into DO NOTHING. The sqlite variant puts WHERE true before ON CONFLICT.
func (e Engine) InsertOnConflict(insert string, match, update []string, sqlite bool) (string, error) {
	if len(match) == 0 {
		return "", fmt.Errorf("on conflict: %w: no conflict target columns", ErrEmptyClause)
	}
	action := conflictNothingSQL
	if len(update) > 0 {
		action = render(conflictUpdateSQL, map[string]string{
			"assignments": each(update, listSep, func(_ int, column string) string {
				return e.quote(column) + " = EXCLUDED." + e.quote(column)
			}),
		})
	}
	where := ""
	if sqlite {
		where = sqliteWhere
	}
	return render(conflictSQL, map[string]string{
		"insert": insert,
		"where":  where,
		"match": each(match, ", ", func(_ int, column string) string {
			return e.quote(column)
		}),
		"action": action,
	}), nil
}

// RowSource renders a single parameterized row, (SELECT :a AS a, ...), usable as a MERGE source.
// A RowTable adds FROM RowTable.
func (e Engine) RowSource(columns []string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("row source: %w: no columns", ErrEmptyClause)
	}
	from := ""
	if e.RowTable != "" {
		from = " FROM " + e.RowTable
	}
	return render(rowSourceSQL, map[string]string{
		"values": each(columns, ", ", func(i int, column string) string {
			return e.bind(i, column) + " AS " + e.quote(column)
		}),
		"from": from,
	}), nil
}
