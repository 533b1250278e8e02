package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"db-upsert/internal/dialect"
	"db-upsert/internal/schema"
	"db-upsert/internal/sqlgen"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	exportDir      string
	exportTables   []string
	exportDDL      bool
	exportProgress bool
)

type exportResult struct {
	Table  string
	File   string
	Status string
	Err    error
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one upsert script per table of the schema, in foreign key order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := connect(ctx)
		if err != nil {
			return err
		}
		d, err := currentDialect()
		if err != nil {
			return err
		}
		if exportDir == "" {
			exportDir = viper.GetString("settings.output_dir")
		}
		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", exportDir, err)
		}

		log.Printf("Analyzing schema %s (%s)...", SchemaName, d.Name())
		allTables, err := schema.Analyze(ctx, db, d, SchemaName)
		if err != nil {
			return err
		}
		targets, err := filterTables(allTables, exportTables)
		if err != nil {
			return err
		}

		start := time.Now()
		var bar *uiprogress.Bar
		if exportProgress {
			uiprogress.Start()
			bar = uiprogress.AddBar(len(targets)).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return "Exporting: "
			})
		}
		results := make([]exportResult, 0, len(targets))
		for i, t := range targets {
			results = append(results, exportTable(d, t, i+1))
			if bar != nil {
				bar.Incr()
			}
		}
		if exportProgress {
			uiprogress.Stop()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Summary (dependency order):")
		failed := 0
		for i, r := range results {
			fmt.Fprintf(out, "[%02d/%02d] %-24s %-8s %s\n", i+1, len(results), r.Table, r.Status, r.File)
			if r.Err != nil {
				fmt.Fprintf(out, "        error: %v\n", r.Err)
				failed++
			}
		}
		log.Printf("Export done in %s", time.Since(start))
		if failed > 0 {
			return fmt.Errorf("%d of %d tables failed", failed, len(results))
		}
		return nil
	},
}

// filterTables keeps the requested tables (flag, then settings.tables, else all), preserving
// dependency order.
func filterTables(all []*schema.Table, requested []string) ([]*schema.Table, error) {
	if len(requested) == 0 {
		requested = viper.GetStringSlice("settings.tables")
	}
	if len(requested) == 0 {
		return all, nil
	}
	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		wanted[strings.ToLower(name)] = true
	}
	var filtered []*schema.Table
	for _, t := range all {
		if wanted[strings.ToLower(t.Name)] {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", requested)
	}
	return filtered, nil
}

// exportTable writes the upsert script of one table. Tables without any key get a plain INSERT.
func exportTable(d dialect.Dialect, t *schema.Table, position int) exportResult {
	result := exportResult{Table: t.Name, File: filepath.Join(exportDir, fmt.Sprintf("%02d_%s.sql", position, t.Name))}

	shape, err := t.Shape()
	if err != nil {
		return result.fail(err)
	}
	g := sqlgen.New(sqlgen.Table{Name: t.Name, Schema: targetSchema()}, shape, generatorOptions(d)...)
	var parts []string
	if exportDDL {
		ddl, err := schema.CreateTableDDL(t, d, schema.DDLOptions{Schema: targetSchema()})
		if err != nil {
			return result.fail(err)
		}
		parts = append(parts, ddl)
	}

	keys := t.UpsertKeys()
	var statement string
	if len(keys) == 0 {
		result.Status = "INSERT"
		statement, err = g.Insert(sqlgen.InsertRequest{})
	} else {
		result.Status = "UPSERT"
		statement, err = g.Upsert(sqlgen.UpsertRequest{Match: keys, Constraint: t.GeneratedColumns(), Dialect: d.Name()})
	}
	switch {
	case errors.Is(err, sqlgen.ErrEmptyClause) && len(parts) == 0:
		// every column is generated: nothing to write
		result.Status = "SKIPPED"
		result.File = ""
		return result
	case errors.Is(err, sqlgen.ErrEmptyClause):
		result.Status = "DDL ONLY"
	case err != nil:
		return result.fail(err)
	default:
		parts = append(parts, statement)
	}

	if err := os.WriteFile(result.File, []byte(strings.Join(parts, "\n\n")+"\n"), 0o644); err != nil {
		return result.fail(err)
	}
	return result
}

func (r exportResult) fail(err error) exportResult {
	r.Status = "FAILED"
	r.Err = err
	return r
}

func init() {
	RootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "output directory (default: settings.output_dir)")
	exportCmd.Flags().StringSliceVarP(&exportTables, "tables", "t", []string{}, "tables to export (comma-separated, default: all)")
	exportCmd.Flags().BoolVar(&exportDDL, "ddl", false, "prefix each script with the CREATE TABLE statement")
	exportCmd.Flags().BoolVar(&exportProgress, "progress", true, "show a progress bar")
	viper.SetDefault("settings.output_dir", "upserts")
}
