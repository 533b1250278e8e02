package dataset_test

import (
	"strings"
	"testing"
	"time"

	"db-upsert/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	frame, err := dataset.New([]string{"Name", "Age", "Salary", "Hired", "Active", "Note"}, [][]any{
		{"Alice", int64(25), int64(70000), time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), true, nil},
		{"Bob", int64(30), 80000.5, nil, false, nil},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age", "Salary", "Hired", "Active", "Note"}, frame.Columns())
	assert.Equal(t, 2, frame.Len())
	assert.Equal(t, []dataset.Column{
		{Name: "Name", Kind: dataset.KindText},
		{Name: "Age", Kind: dataset.KindInteger},
		{Name: "Salary", Kind: dataset.KindFloat},
		{Name: "Hired", Kind: dataset.KindTime},
		{Name: "Active", Kind: dataset.KindBool},
		{Name: "Note", Kind: dataset.KindNull},
	}, frame.Schema())
}

func TestNew_Errors(t *testing.T) {
	_, err := dataset.New([]string{"a", "a"}, nil)
	assert.ErrorContains(t, err, `duplicate column "a"`)

	_, err = dataset.New([]string{"a", ""}, nil)
	assert.ErrorContains(t, err, "column 2 has no name")

	_, err = dataset.New([]string{"a", "b"}, [][]any{{1}})
	assert.ErrorContains(t, err, "row 1 has 1 values, expected 2")
}

func TestFrame_Params(t *testing.T) {
	frame, err := dataset.New([]string{"Name", "Age", "City", "Salary"}, [][]any{
		{"Alice", int64(25), "New York", int64(70000)},
		{"Bob", int64(30), "Los Angeles", int64(80000)},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Name": "Alice", "Age": int64(25), "City": "New York", "Salary": int64(70000)}, frame.Params(0))
	assert.Equal(t, []any{"Bob", int64(30), "Los Angeles", int64(80000)}, frame.Row(1))
}

func TestFrame_Select(t *testing.T) {
	frame, err := dataset.ReadCSV(strings.NewReader("a,b,c\n1,x,2.5\n2,y,\n"))
	require.NoError(t, err)

	selected, err := frame.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, selected.Columns())
	assert.Equal(t, []any{2.5, int64(1)}, selected.Row(0))
	assert.Equal(t, []any{nil, int64(2)}, selected.Row(1))

	_, err = frame.Select("z")
	assert.ErrorContains(t, err, `"z"`)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "integer", dataset.KindInteger.String())
	assert.Equal(t, "text", dataset.KindText.String())
	assert.Equal(t, "null", dataset.KindNull.String())
}
