package schema_test

import (
	"testing"

	"db-upsert/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_UpsertKeys(t *testing.T) {
	withPK := &schema.Table{Columns: []*schema.Column{
		{Name: "tenant", IsPK: true},
		{Name: "id", IsPK: true, IsAutoInc: true},
		{Name: "label"},
	}}
	assert.Equal(t, []string{"tenant", "id"}, withPK.UpsertKeys())
	assert.Equal(t, []string{"id"}, withPK.GeneratedColumns())

	identityOnly := &schema.Table{Columns: []*schema.Column{{Name: "row_id", IsAutoInc: true}, {Name: "label"}}}
	assert.Equal(t, []string{"row_id"}, identityOnly.UpsertKeys())

	assert.Empty(t, (&schema.Table{Columns: []*schema.Column{{Name: "label"}}}).UpsertKeys())
}

func TestTable_Shape(t *testing.T) {
	table := &schema.Table{Name: "items", Columns: []*schema.Column{{Name: "ItemID"}, {Name: "ItemName"}}}
	shape, err := table.Shape()
	require.NoError(t, err)
	assert.Equal(t, []string{"ItemID", "ItemName"}, shape.Columns())
	assert.Zero(t, shape.Len())

	duplicate := &schema.Table{Name: "items", Columns: []*schema.Column{{Name: "ItemID"}, {Name: "ItemID"}}}
	_, err = duplicate.Shape()
	assert.ErrorContains(t, err, "table items")
}

func TestColumn_IsNumeric(t *testing.T) {
	for dataType, numeric := range map[string]bool{
		"int": true, "bigint": true, "numeric": true, "decimal": true, "double": true, "money": true,
		"varchar": false, "interval": false, "point": false, "timestamp": false,
	} {
		assert.Equal(t, numeric, (&schema.Column{DataType: dataType}).IsNumeric(), dataType)
	}
}

func TestAnalyzeMeaning(t *testing.T) {
	assert.Equal(t, "phone", schema.AnalyzeMeaning("contact", "Mobile number"))
	assert.Equal(t, "email", schema.AnalyzeMeaning("x", "E-mail address"))
	assert.Equal(t, "cust name", schema.AnalyzeMeaning("CUST_NM", ""))
	assert.Equal(t, "order quantity", schema.AnalyzeMeaning("order_qty", ""))
}
