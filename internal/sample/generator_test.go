package sample_test

import (
	"strings"
	"testing"
	"time"

	"db-upsert/internal/dataset"
	"db-upsert/internal/sample"
	"db-upsert/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customers() *schema.Table {
	return &schema.Table{
		Name: "customers",
		Columns: []*schema.Column{
			{Name: "id", DataType: "int", IsPK: true, IsAutoInc: true},
			{Name: "email", DataType: "varchar", Length: 100},
			{Name: "full_name", DataType: "varchar", Length: 2},
			{Name: "joined", DataType: "date"},
			{Name: "balance", DataType: "numeric"},
			{Name: "is_active", DataType: "tinyint"},
			{Name: "shape", DataType: "geometry", IsNullable: true},
		},
	}
}

func TestGenerate(t *testing.T) {
	frame, err := sample.Generate(customers(), 5, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "email", "full_name", "joined", "balance", "is_active", "shape"}, frame.Columns())
	require.Equal(t, 5, frame.Len())

	for i := 0; i < frame.Len(); i++ {
		row := frame.Params(i)
		assert.Equal(t, int64(i+1), row["id"])
		assert.Contains(t, row["email"], "@")
		assert.LessOrEqual(t, len([]rune(row["full_name"].(string))), 2)
		joined := row["joined"].(time.Time)
		assert.True(t, joined.Equal(joined.Truncate(24*time.Hour)))
		assert.IsType(t, float64(0), row["balance"])
		assert.Contains(t, []any{int64(0), int64(1)}, row["is_active"])
		assert.Nil(t, row["shape"])
	}

	kinds := map[string]dataset.Kind{}
	for _, column := range frame.Schema() {
		kinds[column.Name] = column.Kind
	}
	assert.Equal(t, dataset.KindInteger, kinds["id"])
	assert.Equal(t, dataset.KindText, kinds["email"])
	assert.Equal(t, dataset.KindTime, kinds["joined"])
	assert.Equal(t, dataset.KindNull, kinds["shape"])
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := sample.Generate(customers(), 3, 7)
	require.NoError(t, err)
	second, err := sample.Generate(customers(), 3, 7)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first.Row(i), second.Row(i))
	}
}

func TestGenerate_Errors(t *testing.T) {
	_, err := sample.Generate(customers(), -1, 1)
	assert.ErrorContains(t, err, "must not be negative")

	frame, err := sample.Generate(customers(), 0, 1)
	require.NoError(t, err)
	assert.Zero(t, frame.Len())
}

func TestGenerateValue(t *testing.T) {
	faker := gofakeit.New(1)

	assert.IsType(t, int64(0), sample.GenerateValue(faker, &schema.Column{Name: "released", DataType: "year"}))
	assert.IsType(t, true, sample.GenerateValue(faker, &schema.Column{Name: "flag", DataType: "boolean"}))
	code := sample.GenerateValue(faker, &schema.Column{Name: "code", DataType: "char", Length: 4})
	assert.LessOrEqual(t, len([]rune(code.(string))), 4)

	flag := sample.GenerateValue(faker, &schema.Column{Name: "deleted_yn", DataType: "char", Length: 1, Meaning: "deleted yesno"})
	assert.Contains(t, []any{"Y", "N"}, flag)

	year := sample.GenerateValue(faker, &schema.Column{Name: "model_year", DataType: "int"})
	assert.GreaterOrEqual(t, year, int64(2000))

	word := sample.GenerateValue(faker, &schema.Column{Name: "payload", DataType: "xml"})
	assert.NotEmpty(t, word)
	assert.False(t, strings.Contains(word.(string), " "))
}
