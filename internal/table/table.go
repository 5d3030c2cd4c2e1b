// ABOUTME: Ordered-columns table type holding Genie query results
// ABOUTME: Synthesizes positional column names when the schema supplies none

package table

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Column describes a single result column.
type Column struct {
	Name     string
	TypeName string
}

// Table is an ordered set of columns paired with an ordered row set.
// Cell values are kept as strings, matching the wire representation.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// New builds a Table from column descriptors and a row set. If rows are
// present but no columns were supplied, positional names (column_0,
// column_1, ...) are generated from the width of the first row.
func New(columns []Column, rows [][]string) *Table {
	if len(columns) == 0 && len(rows) > 0 {
		columns = make([]Column, len(rows[0]))
		for i := range columns {
			columns[i] = Column{Name: fmt.Sprintf("column_%d", i)}
		}
	}
	return &Table{Columns: columns, Rows: rows}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Render writes the table as aligned text. maxRows limits output; a
// non-positive value renders every row.
func (t *Table) Render(maxRows int) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(t.ColumnNames(), "\t"))

	rows := t.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	if maxRows > 0 && len(t.Rows) > maxRows {
		fmt.Fprintf(&sb, "... (%d more rows)\n", len(t.Rows)-maxRows)
	}
	return sb.String()
}
