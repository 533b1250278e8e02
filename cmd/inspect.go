package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"db-upsert/internal/dataset"
	"db-upsert/internal/dialect"
	"db-upsert/internal/sample"
	"db-upsert/internal/schema"
	"db-upsert/internal/sqlgen"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	inspectTable string
	ddlName      string
	ddlSchema    string
	ddlTemp      string
	ddlFK        bool
	sampleRows   int
	sampleSeed   int64
	sampleOut    string
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the columns of a table with its key and generated columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, _, err := inspectTarget(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Table:       %s\n", table.Name)
		for _, col := range table.Columns {
			flags := []string{}
			if col.IsPK {
				flags = append(flags, "PK")
			}
			if col.IsAutoInc {
				flags = append(flags, "generated")
			}
			if col.IsUnique {
				flags = append(flags, "unique")
			}
			if !col.IsNullable {
				flags = append(flags, "not null")
			}
			fmt.Fprintf(out, "  %-24s %-20s %s\n", col.Name, col.ColumnType, strings.Join(flags, ", "))
		}
		fmt.Fprintf(out, "Primary key: %s\n", strings.Join(table.PrimaryKey(), ", "))
		fmt.Fprintf(out, "Generated:   %s\n", strings.Join(table.GeneratedColumns(), ", "))
		fmt.Fprintf(out, "Upsert keys: %s\n", strings.Join(table.UpsertKeys(), ", "))
		return nil
	},
}

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Generate CREATE TABLE (and foreign key) statements copying a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, d, err := inspectTarget(cmd.Context())
		if err != nil {
			return err
		}
		kind, err := sqlgen.ParseTempKind(ddlTemp)
		if err != nil {
			return err
		}
		ddl, err := schema.CreateTableDDL(table, d, schema.DDLOptions{Name: ddlName, Schema: ddlSchema, Temp: kind})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ddl)
		if !ddlFK {
			return nil
		}
		copied := *table
		if ddlName != "" {
			copied.Name = ddlName
		}
		statements, err := schema.ForeignKeyDDL(&copied, d, ddlSchema)
		if err != nil {
			return err
		}
		for _, statement := range statements {
			fmt.Fprintln(cmd.OutOrStdout(), statement)
		}
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Generate a SELECT of every column, with NULL numbers read as 0",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, d, err := inspectTarget(cmd.Context())
		if err != nil {
			return err
		}
		query, err := schema.SelectStatement(table, d, targetSchema())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), query)
		return nil
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a CSV dataset of synthetic rows shaped like a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, _, err := inspectTarget(cmd.Context())
		if err != nil {
			return err
		}
		rows := viper.GetInt("settings.sample_rows")
		frame, err := sample.Generate(table, rows, sampleSeed)
		if err != nil {
			return err
		}
		if sampleOut == "" {
			return dataset.WriteCSV(cmd.OutOrStdout(), frame)
		}
		file, err := os.Create(sampleOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", sampleOut, err)
		}
		defer file.Close()
		if err := dataset.WriteCSV(file, frame); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows of %s to %s\n", frame.Len(), table.Name, sampleOut)
		return nil
	},
}

// inspectTarget introspects --table in the connected database.
func inspectTarget(ctx context.Context) (*schema.Table, dialect.Dialect, error) {
	db, err := connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	d, err := currentDialect()
	if err != nil {
		return nil, nil, err
	}
	table, err := schema.Inspect(ctx, db, d, SchemaName, inspectTable)
	if err != nil {
		return nil, nil, err
	}
	return table, d, nil
}

func init() {
	for _, c := range []*cobra.Command{keysCmd, ddlCmd, selectCmd, sampleCmd} {
		c.Flags().StringVar(&inspectTable, "table", "", "table to inspect")
		c.MarkFlagRequired("table")
		RootCmd.AddCommand(c)
	}

	ddlCmd.Flags().StringVar(&ddlName, "name", "", "name of the copy (default: the table's name)")
	ddlCmd.Flags().StringVar(&ddlSchema, "target-schema", "", "schema of the copy")
	ddlCmd.Flags().StringVar(&ddlTemp, "temp", "", "create a temporary table: local or global")
	ddlCmd.Flags().BoolVar(&ddlFK, "fk", false, "also generate ALTER TABLE ... ADD CONSTRAINT for foreign keys")

	sampleCmd.Flags().IntVar(&sampleRows, "rows", 0, "number of rows (overrides config)")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 1, "random seed; the same seed gives the same rows")
	sampleCmd.Flags().StringVarP(&sampleOut, "out", "o", "", "CSV file to write (default: stdout)")
	viper.BindPFlag("settings.sample_rows", sampleCmd.Flags().Lookup("rows"))
	viper.SetDefault("settings.sample_rows", 100)
}
