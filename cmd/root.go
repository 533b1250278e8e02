package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"db-upsert/internal/dialect"
	"db-upsert/internal/sqlgen"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/sijms/go-ora/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

var (
	cfgFile    string
	DB         *sql.DB
	DriverName string // database/sql driver of the open connection
	SchemaName string // schema used for introspection and as the default target schema
)

var RootCmd = &cobra.Command{
	Use:   "db-upsert",
	Short: "Generate INSERT, MERGE and INSERT ... ON CONFLICT statements",
	Long: `
db-upsert turns a tabular dataset (a CSV file, or rows of an existing table)
into INSERT, MERGE or INSERT ... ON CONFLICT statements for the SQL dialect
of the target database. Statements are printed, never executed.

Supported dialects: postgresql, mysql, sqlite, mssql, oracle, snowflake,
bigquery, redshift, db2, teradata, hana.
`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if DB == nil {
			return nil
		}
		err := DB.Close()
		DB = nil
		return err
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./db-upsert.yaml)")
	flags.String("dsn", "", "Database Source Name (DSN), used when no database is marked active in the config")
	flags.String("driver", "", "database/sql driver for --dsn (postgres, pgx, mysql, sqlserver, oracle, sqlite)")
	flags.String("dialect", "", "SQL dialect of the generated statements (default: derived from the driver)")
	flags.String("schema", "", "schema of the target table")
	flags.Bool("quote", false, "quote identifiers the way the dialect does")
	flags.Bool("native-binds", false, "use the dialect's bind variables instead of :Column")
	flags.Bool("case-insensitive", false, "match key columns against the dataset ignoring case")

	viper.BindPFlag("database.dsn", flags.Lookup("dsn"))
	viper.BindPFlag("database.driver", flags.Lookup("driver"))
	viper.BindPFlag("settings.dialect", flags.Lookup("dialect"))
	viper.BindPFlag("settings.schema", flags.Lookup("schema"))
	viper.BindPFlag("settings.quote", flags.Lookup("quote"))
	viper.BindPFlag("settings.native_binds", flags.Lookup("native-binds"))
	viper.BindPFlag("settings.case_insensitive", flags.Lookup("case-insensitive"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// executable directory first, then the working directory
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")

		viper.SetConfigName("db-upsert")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// connect opens the configured database once per command run.
func connect(ctx context.Context) (*sql.DB, error) {
	if DB != nil {
		return DB, nil
	}
	config, err := GetDBConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	log.Printf("Connected to %s (%s)", config.Name, config.Driver)

	DB = db
	DriverName = config.Driver
	SchemaName = viper.GetString("settings.schema")
	if SchemaName == "" {
		if SchemaName, err = defaultSchema(ctx, db, config.Driver); err != nil {
			return nil, err
		}
	}
	return DB, nil
}

// defaultSchema asks MySQL for the database selected in the DSN and Oracle for the
// connected user; other engines use the dialect's default schema.
func defaultSchema(ctx context.Context, db *sql.DB, driver string) (string, error) {
	name, err := dialect.Resolve(driver)
	if err != nil {
		return "", err
	}
	var query string
	switch name {
	case dialect.MySQL:
		query = "SELECT DATABASE()"
	case dialect.Oracle:
		query = "SELECT USER FROM DUAL"
	default:
		d, err := dialect.GetDialect(name)
		if err != nil {
			return "", err
		}
		return d.GetSchemaName(""), nil
	}
	var schemaName sql.NullString
	if err := db.QueryRowContext(ctx, query).Scan(&schemaName); err != nil {
		return "", fmt.Errorf("failed to get default schema: %w", err)
	}
	if schemaName.String == "" {
		return "", fmt.Errorf("no database selected in DSN")
	}
	return schemaName.String, nil
}

// currentDialect resolves --dialect, falling back to the configured driver.
func currentDialect() (dialect.Dialect, error) {
	name := viper.GetString("settings.dialect")
	if name == "" {
		name = DriverName
	}
	if name == "" {
		if config, err := GetDBConfig(); err == nil {
			name = config.Driver
		}
	}
	if name == "" {
		return nil, fmt.Errorf("a dialect is required: pass --dialect or configure a database")
	}
	return dialect.GetDialect(name)
}

// generatorOptions maps the quoting and binding settings onto sqlgen options.
func generatorOptions(d dialect.Dialect) []sqlgen.Option {
	var opts []sqlgen.Option
	if viper.GetBool("settings.case_insensitive") {
		opts = append(opts, sqlgen.WithCaseInsensitiveMatch())
	}
	if d == nil {
		return opts
	}
	if viper.GetBool("settings.quote") {
		opts = append(opts, sqlgen.WithQuoter(d.QuoteIdentifier))
	}
	if viper.GetBool("settings.native_binds") {
		opts = append(opts, sqlgen.WithBind(d.Placeholder))
	}
	return opts
}

// targetSchema qualifies generated target tables; empty leaves them unqualified.
func targetSchema() string {
	return viper.GetString("settings.schema")
}
