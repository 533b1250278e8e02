package sqlgen

import (
	"fmt"

	"db-upsert/internal/dialect"
)

// Dataset is the read-only view of the tabular data the statements are generated for.
type Dataset interface {
	// Columns returns the column names in dataset order.
	Columns() []string
}

// Table identifies where generated statements write.
type Table struct {
	Name   string
	Schema string
}

// Source names the table rows are copied or merged from.
type Source struct {
	Name   string
	Schema string
	Temp   TempKind
}

// InsertRequest describes one INSERT.
type InsertRequest struct {
	// Table overrides the target table name; the target schema still applies.
	Table string
	// Columns restricts the statement to a subset of the dataset's columns.
	Columns []string
	// Source switches to INSERT ... SELECT from a table.
	Source *Source
}

// UpsertRequest describes one MERGE, INSERT ... ON CONFLICT or dialect dispatched upsert.
type UpsertRequest struct {
	// Table overrides the target table name; the target schema still applies.
	Table string
	// Match correlates source and target rows; it is the conflict target for ON CONFLICT.
	Match []string
	// Constraint columns (primary keys, identity columns) are left out of the inserted column list.
	Constraint []string
	// Source is the table rows come from. Without it the statements bind a single row.
	Source *Source
	// SQLite selects SQLite's ON CONFLICT form.
	SQLite bool
	// Dialect drives Upsert.
	Dialect string
}

// Generator builds statements for one target table and one dataset. It holds no mutable state.
type Generator struct {
	target Table
	data   Dataset
	engine Engine
	fold   bool
}

// Option configures a Generator.
type Option func(g *Generator)

// WithQuoter quotes every identifier with q.
func WithQuoter(q Quoter) Option {
	return func(g *Generator) {
		g.engine.Quote = q
	}
}

// WithBind renders bind variables with b instead of :Column.
func WithBind(b BindFunc) Option {
	return func(g *Generator) {
		g.engine.Bind = b
	}
}

// WithDialect quotes identifiers and binds variables the way d does.
func WithDialect(d dialect.Dialect) Option {
	return func(g *Generator) {
		g.engine.Quote = d.QuoteIdentifier
		g.engine.Bind = d.Placeholder
		if info, err := dialect.Lookup(d.Name()); err == nil {
			g.engine.RowTable = info.RowTable
		}
	}
}

// WithCaseInsensitiveMatch compares match and constraint columns with the dataset case-insensitively.
func WithCaseInsensitiveMatch() Option {
	return func(g *Generator) {
		g.fold = true
	}
}

// New binds a Generator to target and data.
func New(target Table, data Dataset, opts ...Option) *Generator {
	g := &Generator{target: target, data: data}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Target returns the bound target table.
func (g *Generator) Target() Table {
	return g.target
}

func (g *Generator) targetName(override string) (string, error) {
	name := g.target.Name
	if override != "" {
		name = override
	}
	return g.engine.quoter().Table(name, g.target.Schema, TempNone)
}

func (g *Generator) sourceName(source *Source) (string, error) {
	if source == nil {
		return "", nil
	}
	return g.engine.quoter().Table(source.Name, source.Schema, source.Temp)
}

func (e Engine) quoter() Quoter {
	if e.Quote == nil {
		return Plain
	}
	return e.Quote
}

// Insert builds a parameterized INSERT over the dataset's columns, or INSERT ... SELECT from req.Source.
func (g *Generator) Insert(req InsertRequest) (string, error) {
	columns := g.data.Columns()
	if req.Columns != nil {
		selected, err := resolve("insert", columns, req.Columns, g.fold)
		if err != nil {
			return "", err
		}
		columns = intersect(columns, selected)
	}
	table, err := g.targetName(req.Table)
	if err != nil {
		return "", err
	}
	source, err := g.sourceName(req.Source)
	if err != nil {
		return "", err
	}
	return g.engine.Insert(table, columns, source)
}

// Merge builds a MERGE of req.Source, or of a single bound row, into the target table.
func (g *Generator) Merge(req UpsertRequest) (string, error) {
	partition, err := Classify(g.data.Columns(), req.Match, req.Constraint, g.fold)
	if err != nil {
		return "", err
	}
	target, err := g.targetName(req.Table)
	if err != nil {
		return "", err
	}
	source, err := g.sourceName(req.Source)
	if err != nil {
		return "", err
	}
	if source == "" {
		if source, err = g.engine.RowSource(g.data.Columns()); err != nil {
			return "", err
		}
	}
	return g.engine.Merge(target, source, partition.Match, partition.Insert, partition.Update)
}

// InsertOnConflict builds INSERT ... ON CONFLICT (match) DO UPDATE SET over the non-constraint columns.
// The SQLite form of a single bound row selects the binds instead of using VALUES.
func (g *Generator) InsertOnConflict(req UpsertRequest) (string, error) {
	partition, err := Classify(g.data.Columns(), req.Match, req.Constraint, g.fold)
	if err != nil {
		return "", err
	}
	table, err := g.targetName(req.Table)
	if err != nil {
		return "", err
	}
	source, err := g.sourceName(req.Source)
	if err != nil {
		return "", err
	}
	var insert string
	if req.SQLite && source == "" {
		insert, err = g.engine.insertBoundSelect(table, partition.Insert)
	} else {
		insert, err = g.engine.Insert(table, partition.Insert, source)
	}
	if err != nil {
		return "", err
	}
	return g.engine.InsertOnConflict(insert, partition.Match, partition.Update, req.SQLite)
}

// Upsert dispatches to Merge or InsertOnConflict according to the upsert strategy of req.Dialect.
func (g *Generator) Upsert(req UpsertRequest) (string, error) {
	info, err := dialect.Lookup(req.Dialect)
	if err != nil {
		return "", err
	}
	switch info.Strategy {
	case dialect.StrategyMerge:
		if g.engine.RowTable == "" && info.RowTable != "" {
			clone := *g
			clone.engine.RowTable = info.RowTable
			return clone.Merge(req)
		}
		return g.Merge(req)
	case dialect.StrategyInsertOnConflict:
		req.SQLite = info.SQLiteConflict
		return g.InsertOnConflict(req)
	}
	return "", fmt.Errorf("%w: %s has no upsert strategy", dialect.ErrUnsupportedDialect, info.Name)
}
