package dataset

import (
	"fmt"
	"time"
)

// Kind is the inferred value domain of a column.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindTime
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	default:
		return "text"
	}
}

// Column describes one dataset column.
type Column struct {
	Name string
	Kind Kind
}

// Frame is an ordered set of named columns and rows of values.
type Frame struct {
	columns []Column
	rows    [][]any
}

// New builds a Frame, inferring each column's kind from its values.
func New(names []string, rows [][]any) (*Frame, error) {
	seen := make(map[string]bool, len(names))
	columns := make([]Column, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("column %d has no name", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
		columns[i] = Column{Name: name, Kind: KindNull}
	}
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", r+1, len(row), len(names))
		}
		for i, value := range row {
			columns[i].Kind = widen(columns[i].Kind, kindOf(value))
		}
	}
	return &Frame{columns: columns, rows: rows}, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.columns))
	for i, column := range f.columns {
		names[i] = column.Name
	}
	return names
}

// Schema returns the columns with their inferred kinds.
func (f *Frame) Schema() []Column {
	return append([]Column(nil), f.columns...)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Row returns the values of row i.
func (f *Frame) Row(i int) []any {
	return f.rows[i]
}

// Params returns row i as bind parameters keyed by column name.
func (f *Frame) Params(i int) map[string]any {
	row := f.rows[i]
	params := make(map[string]any, len(f.columns))
	for j, column := range f.columns {
		params[column.Name] = row[j]
	}
	return params
}

// Select returns a Frame restricted to the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	index := make(map[string]int, len(f.columns))
	for i, column := range f.columns {
		index[column.Name] = i
	}
	positions := make([]int, len(names))
	for i, name := range names {
		position, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("column %q is not present in the dataset", name)
		}
		positions[i] = position
	}
	rows := make([][]any, len(f.rows))
	for r, row := range f.rows {
		selected := make([]any, len(positions))
		for i, position := range positions {
			selected[i] = row[position]
		}
		rows[r] = selected
	}
	return New(names, rows)
}

func kindOf(value any) Kind {
	switch value.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32, float64:
		return KindFloat
	case time.Time:
		return KindTime
	default:
		return KindText
	}
}

// widen merges two observed kinds; nulls never narrow a column and mixed kinds become text,
// except integers and floats which become float.
func widen(current, observed Kind) Kind {
	switch {
	case observed == KindNull || observed == current:
		return current
	case current == KindNull:
		return observed
	case (current == KindInteger && observed == KindFloat) || (current == KindFloat && observed == KindInteger):
		return KindFloat
	default:
		return KindText
	}
}
