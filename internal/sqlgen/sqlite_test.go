package sqlgen_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"db-upsert/internal/dataset"
	"db-upsert/internal/dialect"
	"db-upsert/internal/sqlgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection would get its own in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func namedArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for name, value := range params {
		args = append(args, sql.Named(name, value))
	}
	return args
}

func TestGeneratedStatementsRunOnSQLite(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	_, err := db.ExecContext(ctx, `CREATE TABLE "Items" ("ItemID" INTEGER PRIMARY KEY, "ItemName" TEXT, "Quantity" INTEGER)`)
	require.NoError(t, err)

	lite, err := dialect.GetDialect("sqlite")
	require.NoError(t, err)

	frame, err := dataset.ReadCSV(strings.NewReader("ItemID,ItemName,Quantity\n1,Laptop,10\n2,Office Chair,25\n1,Laptop,7\n"))
	require.NoError(t, err)
	g := sqlgen.New(sqlgen.Table{Name: "Items"}, frame, sqlgen.WithDialect(lite))

	upsert, err := g.Upsert(sqlgen.UpsertRequest{Match: []string{"ItemID"}, Dialect: "sqlite"})
	require.NoError(t, err)
	for i := 0; i < frame.Len(); i++ {
		_, err := db.ExecContext(ctx, upsert, namedArgs(frame.Params(i))...)
		require.NoError(t, err, upsert)
	}

	var count, quantity int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "Items"`).Scan(&count))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT "Quantity" FROM "Items" WHERE "ItemID" = 1`).Scan(&quantity))
	assert.Equal(t, 2, count)
	assert.Equal(t, 7, quantity)

	// copy through a staging table with INSERT ... SELECT
	_, err = db.ExecContext(ctx, `CREATE TABLE "Archive" ("ItemID" INTEGER PRIMARY KEY, "ItemName" TEXT, "Quantity" INTEGER)`)
	require.NoError(t, err)
	copyRows, err := g.Insert(sqlgen.InsertRequest{Table: "Archive", Source: &sqlgen.Source{Name: "Items"}})
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, copyRows)
	require.NoError(t, err, copyRows)

	merge, err := g.InsertOnConflict(sqlgen.UpsertRequest{
		Table:  "Archive",
		Match:  []string{"ItemID"},
		Source: &sqlgen.Source{Name: "Items"},
		SQLite: true,
	})
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE "Items" SET "Quantity" = 99`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, merge)
	require.NoError(t, err, merge)
	require.NoError(t, db.QueryRowContext(ctx, `SELECT SUM("Quantity") FROM "Archive"`).Scan(&quantity))
	assert.Equal(t, 198, quantity)
}
