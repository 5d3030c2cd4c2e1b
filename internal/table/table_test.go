// ABOUTME: Tests for the table container
// ABOUTME: Covers column-name synthesis and rendering limits

package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SynthesizesColumnNames(t *testing.T) {
	rows := [][]string{
		{"a", "b", "c", "d"},
		{"e", "f", "g", "h"},
		{"i", "j", "k", "l"},
	}

	tbl := New(nil, rows)

	require.Equal(t, 4, tbl.NumColumns())
	assert.Equal(t, []string{"column_0", "column_1", "column_2", "column_3"}, tbl.ColumnNames())
	assert.Equal(t, 3, tbl.NumRows())
}

func TestNew_KeepsSuppliedColumns(t *testing.T) {
	tbl := New(
		[]Column{{Name: "region"}, {Name: "total", TypeName: "LONG"}},
		[][]string{{"emea", "42"}},
	)

	assert.Equal(t, []string{"region", "total"}, tbl.ColumnNames())
}

func TestNew_EmptyRowsNoColumns(t *testing.T) {
	tbl := New(nil, nil)

	assert.Equal(t, 0, tbl.NumColumns())
	assert.Equal(t, 0, tbl.NumRows())
}

func TestRender_LimitsRows(t *testing.T) {
	tbl := New(
		[]Column{{Name: "n"}},
		[][]string{{"1"}, {"2"}, {"3"}, {"4"}},
	)

	out := tbl.Render(2)

	assert.Contains(t, out, "n")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "2")
	assert.NotContains(t, out, "3")
	assert.Contains(t, out, "2 more rows")
}

func TestRender_AllRows(t *testing.T) {
	tbl := New([]Column{{Name: "n"}}, [][]string{{"1"}, {"2"}})

	out := tbl.Render(0)

	assert.Equal(t, 3, len(strings.Split(strings.TrimRight(out, "\n"), "\n")))
}
