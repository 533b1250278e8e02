package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"db-upsert/internal/dataset"
	"db-upsert/internal/dialect"
	"db-upsert/internal/schema"
	"db-upsert/internal/sqlgen"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statementFlags are the flags shared by insert, merge, conflict and upsert.
type statementFlags struct {
	table        string
	data         string
	fromTable    string
	rows         int
	match        []string
	constraint   []string
	columns      []string
	autoKeys     bool
	source       string
	sourceSchema string
	temp         string
	sqlite       bool
	out          string
}

type buildFunc func(g *sqlgen.Generator, f *statementFlags, d dialect.Dialect, source *sqlgen.Source) (string, error)

func init() {
	RootCmd.AddCommand(
		newStatementCmd("insert", "Generate an INSERT (VALUES or INSERT ... SELECT)", buildInsert),
		newStatementCmd("merge", "Generate a MERGE statement", buildMerge),
		newStatementCmd("conflict", "Generate an INSERT ... ON CONFLICT statement", buildConflict),
		newStatementCmd("upsert", "Generate the upsert form of the dialect (MERGE or ON CONFLICT)", buildUpsert),
	)
}

func newStatementCmd(use, short string, build buildFunc) *cobra.Command {
	f := &statementFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

The dataset is read from --data (CSV with a header row) or from --from-table; without
either, the columns of the target table itself are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatement(cmd, f, build)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.table, "table", "", "target table")
	flags.StringVar(&f.data, "data", "", "CSV file holding the dataset")
	flags.StringVar(&f.fromTable, "from-table", "", "read the dataset from this table of the connected database")
	flags.IntVar(&f.rows, "rows", 0, "rows read by --from-table (0 reads the column list only)")
	flags.StringSliceVar(&f.match, "match", nil, "key columns correlating dataset and target rows")
	flags.StringSliceVar(&f.constraint, "constraint", nil, "columns left out of the inserted column list (identity, generated keys)")
	flags.StringSliceVar(&f.columns, "columns", nil, "insert only these dataset columns")
	flags.BoolVar(&f.autoKeys, "auto-keys", false, "take --match and --constraint from the target table's keys")
	flags.StringVar(&f.source, "source", "", "source table; without it a single row is bound")
	flags.StringVar(&f.sourceSchema, "source-schema", "", "schema of the source table")
	flags.StringVar(&f.temp, "temp", "", "source is a temporary table: local or global")
	flags.BoolVar(&f.sqlite, "sqlite", false, "use SQLite's ON CONFLICT form")
	flags.StringVarP(&f.out, "out", "o", "", "write the statement to this file instead of stdout")
	cmd.MarkFlagRequired("table")
	cmd.MarkFlagsMutuallyExclusive("data", "from-table")
	return cmd
}

func runStatement(cmd *cobra.Command, f *statementFlags, build buildFunc) error {
	ctx := cmd.Context()

	kind, err := sqlgen.ParseTempKind(f.temp)
	if err != nil {
		return err
	}
	var source *sqlgen.Source
	if f.source != "" {
		source = &sqlgen.Source{Name: f.source, Schema: f.sourceSchema, Temp: kind}
	}

	d, err := statementDialect(cmd)
	if err != nil {
		return err
	}

	data, err := loadDataset(ctx, f)
	if err != nil {
		return err
	}
	if f.autoKeys {
		if err := applyTableKeys(ctx, f); err != nil {
			return err
		}
	}

	g := sqlgen.New(sqlgen.Table{Name: f.table, Schema: targetSchema()}, data, generatorOptions(d)...)
	statement, err := build(g, f, d, source)
	if err != nil {
		return err
	}
	return writeStatement(cmd, f.out, statement)
}

// statementDialect resolves the dialect when the command needs one: upsert always does,
// the others only for dialect quoting or bind variables.
func statementDialect(cmd *cobra.Command) (dialect.Dialect, error) {
	needed := cmd.Name() == "upsert" ||
		viper.GetBool("settings.quote") ||
		viper.GetBool("settings.native_binds") ||
		viper.GetString("settings.dialect") != ""
	if !needed {
		return nil, nil
	}
	return currentDialect()
}

func loadDataset(ctx context.Context, f *statementFlags) (sqlgen.Dataset, error) {
	if f.data != "" {
		file, err := os.Open(f.data)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		defer file.Close()
		frame, err := dataset.ReadCSV(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.data, err)
		}
		log.Printf("Read %d rows, %d columns from %s", frame.Len(), len(frame.Columns()), f.data)
		return frame, nil
	}

	db, err := connect(ctx)
	if err != nil {
		return nil, err
	}
	d, err := currentDialect()
	if err != nil {
		return nil, err
	}
	if f.fromTable != "" {
		name, err := sqlgen.Quoter(d.QuoteIdentifier).Table(f.fromTable, SchemaName, sqlgen.TempNone)
		if err != nil {
			return nil, err
		}
		return dataset.FromTable(ctx, db, d, name, f.rows)
	}
	table, err := schema.Inspect(ctx, db, d, SchemaName, f.table)
	if err != nil {
		return nil, err
	}
	return table.Shape()
}

// applyTableKeys fills unset --match / --constraint from the target table's keys.
func applyTableKeys(ctx context.Context, f *statementFlags) error {
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	d, err := currentDialect()
	if err != nil {
		return err
	}
	table, err := schema.Inspect(ctx, db, d, SchemaName, f.table)
	if err != nil {
		return err
	}
	if len(f.match) == 0 {
		f.match = table.UpsertKeys()
	}
	if len(f.constraint) == 0 {
		f.constraint = table.GeneratedColumns()
	}
	log.Printf("Keys of %s: match=%v constraint=%v", table.Name, f.match, f.constraint)
	return nil
}

func writeStatement(cmd *cobra.Command, path, statement string) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), statement)
		return err
	}
	if err := os.WriteFile(path, []byte(statement+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("Wrote %s", path)
	return nil
}

func buildInsert(g *sqlgen.Generator, f *statementFlags, _ dialect.Dialect, source *sqlgen.Source) (string, error) {
	return g.Insert(sqlgen.InsertRequest{Columns: f.columns, Source: source})
}

func buildMerge(g *sqlgen.Generator, f *statementFlags, _ dialect.Dialect, source *sqlgen.Source) (string, error) {
	return g.Merge(sqlgen.UpsertRequest{Match: f.match, Constraint: f.constraint, Source: source})
}

func buildConflict(g *sqlgen.Generator, f *statementFlags, d dialect.Dialect, source *sqlgen.Source) (string, error) {
	sqlite := f.sqlite
	if d != nil && d.Name() == dialect.SQLite {
		sqlite = true
	}
	return g.InsertOnConflict(sqlgen.UpsertRequest{Match: f.match, Constraint: f.constraint, Source: source, SQLite: sqlite})
}

func buildUpsert(g *sqlgen.Generator, f *statementFlags, d dialect.Dialect, source *sqlgen.Source) (string, error) {
	return g.Upsert(sqlgen.UpsertRequest{Match: f.match, Constraint: f.constraint, Source: source, Dialect: d.Name()})
}
