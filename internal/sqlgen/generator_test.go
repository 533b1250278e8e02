package sqlgen_test

import (
	"errors"
	"strings"
	"testing"

	"db-upsert/internal/dialect"
	"db-upsert/internal/sqlgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type columns []string

func (c columns) Columns() []string {
	return c
}

var items = columns{"ItemID", "ItemName", "Quantity"}

func updateClause(statement string) string {
	start := strings.Index(statement, "THEN UPDATE SET")
	end := strings.Index(statement, "WHEN NOT MATCHED")
	if start == -1 || end == -1 {
		return ""
	}
	return statement[start:end]
}

func insertClause(statement string) string {
	start := strings.Index(statement, "INSERT (")
	end := strings.Index(statement, "VALUES (")
	return statement[start:end]
}

func TestGenerator_Merge(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "Items", Schema: "dbo"}, items)

	actual, err := g.Merge(sqlgen.UpsertRequest{
		Match:  []string{"ItemID"},
		Source: &sqlgen.Source{Name: "Items", Temp: sqlgen.TempLocal},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(actual, "MERGE INTO dbo.Items AS TARGET\nUSING #Items AS SOURCE\n"), actual)
	assert.Contains(t, actual, "ON SOURCE.ItemID = TARGET.ItemID")
	assert.NotContains(t, updateClause(actual), "ItemID")
	assert.Contains(t, updateClause(actual), "ItemName = SOURCE.ItemName")
	assert.Contains(t, insertClause(actual), "ItemID")
}

func TestGenerator_Merge_IndependentExclusions(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "Items"}, items)

	actual, err := g.Merge(sqlgen.UpsertRequest{
		Match:      []string{"ItemID"},
		Constraint: []string{"ItemID"},
		Source:     &sqlgen.Source{Name: "staging_items"},
	})
	require.NoError(t, err)
	assert.NotContains(t, insertClause(actual), "ItemID")
	assert.NotContains(t, updateClause(actual), "ItemID")
	assert.Contains(t, actual, "ON SOURCE.ItemID = TARGET.ItemID")
	assert.Contains(t, actual, "VALUES (\n    SOURCE.ItemName,\n    SOURCE.Quantity\n);")
}

func TestGenerator_Merge_ClauseCounts(t *testing.T) {
	testCases := []struct {
		description string
		data        columns
		match       []string
	}{
		{description: "one key", data: items, match: []string{"ItemID"}},
		{description: "two keys", data: columns{"a", "b", "c", "d", "e"}, match: []string{"a", "c"}},
		{description: "keys at the end", data: columns{"x", "y", "z"}, match: []string{"z"}},
		{description: "one value column", data: columns{"k1", "k2", "v"}, match: []string{"k1", "k2"}},
	}

	for _, testCase := range testCases {
		g := sqlgen.New(sqlgen.Table{Name: "t"}, testCase.data)
		actual, err := g.Merge(sqlgen.UpsertRequest{Match: testCase.match, Source: &sqlgen.Source{Name: "s"}})
		require.NoError(t, err, testCase.description)
		assert.Equal(t, len(testCase.match), strings.Count(actual, " = TARGET."), testCase.description)
		assert.Equal(t, len(testCase.data)-len(testCase.match), strings.Count(actual, " = SOURCE."), testCase.description)
	}
}

func TestGenerator_Merge_AllKeys(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "tags"}, columns{"post_id", "tag"})
	actual, err := g.Merge(sqlgen.UpsertRequest{Match: []string{"post_id", "tag"}, Source: &sqlgen.Source{Name: "s"}})
	require.NoError(t, err)
	assert.NotContains(t, actual, "WHEN MATCHED")

	_, err = g.Merge(sqlgen.UpsertRequest{
		Match:      []string{"post_id"},
		Constraint: []string{"post_id", "tag"},
		Source:     &sqlgen.Source{Name: "s"},
	})
	assert.ErrorIs(t, err, sqlgen.ErrEmptyClause)
}

func TestGenerator_Merge_BoundRow(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "Items"}, items)
	actual, err := g.Merge(sqlgen.UpsertRequest{Match: []string{"ItemID"}})
	require.NoError(t, err)
	assert.Contains(t, actual, "USING (SELECT :ItemID AS ItemID, :ItemName AS ItemName, :Quantity AS Quantity) AS SOURCE\n")
}

func TestGenerator_Merge_BoundRowTable(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "Items"}, items)
	testCases := []struct {
		dialect string
		using   string
	}{
		{dialect: "oracle", using: "USING (SELECT :ItemID AS ItemID, :ItemName AS ItemName, :Quantity AS Quantity FROM DUAL) AS SOURCE\n"},
		{dialect: "db2", using: "FROM SYSIBM.SYSDUMMY1) AS SOURCE\n"},
		{dialect: "mssql", using: "AS Quantity) AS SOURCE\n"},
	}
	for _, testCase := range testCases {
		actual, err := g.Upsert(sqlgen.UpsertRequest{Match: []string{"ItemID"}, Dialect: testCase.dialect})
		require.NoError(t, err, testCase.dialect)
		assert.Contains(t, actual, testCase.using, testCase.dialect)
	}

	oracle, err := dialect.GetDialect("oracle")
	require.NoError(t, err)
	actual, err := sqlgen.New(sqlgen.Table{Name: "Items"}, items, sqlgen.WithDialect(oracle)).Merge(sqlgen.UpsertRequest{Match: []string{"ItemID"}})
	require.NoError(t, err)
	assert.Contains(t, actual, `:Quantity AS "Quantity" FROM DUAL) AS SOURCE`)
}

func TestGenerator_ValidationError(t *testing.T) {
	datasets := []columns{items, {"a"}, {"nonexistent", "NONEXISTENT"}}
	for _, data := range datasets {
		g := sqlgen.New(sqlgen.Table{Name: "t"}, data)
		for _, build := range []func(sqlgen.UpsertRequest) (string, error){g.Merge, g.InsertOnConflict} {
			actual, err := build(sqlgen.UpsertRequest{Match: []string{"Nonexistent"}, Source: &sqlgen.Source{Name: "s"}})
			require.Error(t, err)
			assert.Empty(t, actual)
			var validationErr *sqlgen.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, "Nonexistent", validationErr.Column)
			assert.Contains(t, err.Error(), "Nonexistent")
		}
	}
}

func TestGenerator_Insert(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "Items", Schema: "SPO"}, items)

	actual, err := g.Insert(sqlgen.InsertRequest{})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO SPO.Items (\n    ItemID,\n    ItemName,\n    Quantity\n)\nVALUES (\n    :ItemID,\n    :ItemName,\n    :Quantity\n)", actual)

	actual, err = g.Insert(sqlgen.InsertRequest{Table: "Items_archive", Columns: []string{"Quantity", "ItemID"}})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO SPO.Items_archive (\n    ItemID,\n    Quantity\n)\nVALUES (\n    :ItemID,\n    :Quantity\n)", actual)

	actual, err = g.Insert(sqlgen.InsertRequest{Source: &sqlgen.Source{Name: "Items", Temp: sqlgen.TempGlobal}})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(actual, "FROM ##Items"), actual)

	_, err = g.Insert(sqlgen.InsertRequest{Columns: []string{"Price"}})
	assert.ErrorIs(t, err, sqlgen.ErrValidation)

	_, err = g.Insert(sqlgen.InsertRequest{Source: &sqlgen.Source{Name: "Items", Temp: "volatile"}})
	assert.ErrorIs(t, err, sqlgen.ErrInvalidTempKind)
}

func TestGenerator_InsertOnConflict(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "Items"}, items)

	actual, err := g.InsertOnConflict(sqlgen.UpsertRequest{
		Match:      []string{"ItemID"},
		Constraint: []string{"ItemID"},
	})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO Items (
    ItemName,
    Quantity
)
VALUES (
    :ItemName,
    :Quantity
)
ON CONFLICT (ItemID)
DO UPDATE SET
    ItemName = EXCLUDED.ItemName,
    Quantity = EXCLUDED.Quantity`, actual)

	actual, err = g.InsertOnConflict(sqlgen.UpsertRequest{
		Match:  []string{"ItemID"},
		Source: &sqlgen.Source{Name: "staging"},
		SQLite: true,
	})
	require.NoError(t, err)
	assert.Contains(t, actual, "FROM staging\nWHERE true\nON CONFLICT (ItemID)\n")

	actual, err = g.InsertOnConflict(sqlgen.UpsertRequest{Match: []string{"ItemID"}, SQLite: true})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO Items (
    ItemID,
    ItemName,
    Quantity
)
SELECT
    :ItemID,
    :ItemName,
    :Quantity
WHERE true
ON CONFLICT (ItemID)
DO UPDATE SET
    ItemName = EXCLUDED.ItemName,
    Quantity = EXCLUDED.Quantity`, actual)
}

func TestGenerator_CaseInsensitiveMatch(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "Items"}, items, sqlgen.WithCaseInsensitiveMatch())

	actual, err := g.InsertOnConflict(sqlgen.UpsertRequest{Match: []string{"ITEMID"}})
	require.NoError(t, err)
	assert.Contains(t, actual, "ON CONFLICT (ItemID)")
	assert.NotContains(t, actual, "ItemID = EXCLUDED.ItemID")

	strict := sqlgen.New(sqlgen.Table{Name: "Items"}, items)
	_, err = strict.InsertOnConflict(sqlgen.UpsertRequest{Match: []string{"ITEMID"}})
	assert.ErrorIs(t, err, sqlgen.ErrValidation)
}

func TestGenerator_Upsert(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "Items"}, items)
	req := sqlgen.UpsertRequest{Match: []string{"ItemID"}, Source: &sqlgen.Source{Name: "staging"}}

	testCases := []struct {
		dialect string
		prefix  string
		sqlite  bool
	}{
		{dialect: "mssql", prefix: "MERGE INTO Items"},
		{dialect: "oracle", prefix: "MERGE INTO Items"},
		{dialect: "postgresql", prefix: "INSERT INTO Items"},
		{dialect: "sqlite", prefix: "INSERT INTO Items", sqlite: true},
	}
	for _, testCase := range testCases {
		req.Dialect = testCase.dialect
		actual, err := g.Upsert(req)
		require.NoError(t, err, testCase.dialect)
		assert.True(t, strings.HasPrefix(actual, testCase.prefix), testCase.dialect)
		assert.Equal(t, testCase.sqlite, strings.Contains(actual, "WHERE true"), testCase.dialect)
	}

	req.Dialect = "unknown_engine"
	_, err := g.Upsert(req)
	assert.ErrorIs(t, err, dialect.ErrUnsupportedDialect)
}

func TestGenerator_WithDialect(t *testing.T) {
	mssql, err := dialect.GetDialect("mssql")
	require.NoError(t, err)
	g := sqlgen.New(sqlgen.Table{Name: "Items", Schema: "dbo"}, items, sqlgen.WithDialect(mssql))

	actual, err := g.Merge(sqlgen.UpsertRequest{Match: []string{"ItemID"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(actual, "MERGE INTO [dbo].[Items] AS TARGET\nUSING (SELECT @ItemID AS [ItemID], @ItemName AS [ItemName], @Quantity AS [Quantity]) AS SOURCE\n"), actual)
	assert.Contains(t, actual, "ON SOURCE.[ItemID] = TARGET.[ItemID]")

	pg, err := dialect.GetDialect("postgresql")
	require.NoError(t, err)
	actual, err = sqlgen.New(sqlgen.Table{Name: "Items"}, items, sqlgen.WithDialect(pg)).Insert(sqlgen.InsertRequest{})
	require.NoError(t, err)
	assert.Contains(t, actual, "VALUES (\n    $1,\n    $2,\n    $3\n)")
}

func TestGenerator_Deterministic(t *testing.T) {
	g := sqlgen.New(sqlgen.Table{Name: "Items", Schema: "dbo"}, items, sqlgen.WithQuoter(sqlgen.QuoteIdentifier))
	req := sqlgen.UpsertRequest{Match: []string{"ItemID"}, Constraint: []string{"ItemID"}, Source: &sqlgen.Source{Name: "Items", Temp: sqlgen.TempLocal}}

	for _, name := range dialect.Names() {
		req.Dialect = name
		first, err := g.Upsert(req)
		require.NoError(t, err, name)
		for i := 0; i < 5; i++ {
			again, err := g.Upsert(req)
			require.NoError(t, err, name)
			assert.Equal(t, first, again, name)
		}
	}
}
