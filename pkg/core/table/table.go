// Package table provides a small string table with the reshaping operations
// used to turn provider statement responses into displayable tables.
package table

import (
	"fmt"
	"strconv"
)

// Table is a rectangular grid of string cells with named columns.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New builds a table, padding short rows with empty cells and truncating long ones.
func New(columns []string, rows [][]string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	for _, r := range rows {
		t.AppendRow(r)
	}
	return t
}

// AppendRow adds a row, padded or truncated to the column count.
func (t *Table) AppendRow(cells []string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Column returns the cells of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Transpose swaps rows and columns. Each former column becomes a row whose
// first cell is the column name; the result's first column is named indexName
// and the remaining columns are the former row positions ("0", "1", ...).
func (t *Table) Transpose(indexName string) *Table {
	cols := make([]string, 0, len(t.Rows)+1)
	cols = append(cols, indexName)
	for i := range t.Rows {
		cols = append(cols, strconv.Itoa(i))
	}

	out := &Table{Columns: cols, Rows: make([][]string, 0, len(t.Columns))}
	for j, name := range t.Columns {
		row := make([]string, 0, len(cols))
		row = append(row, name)
		for _, r := range t.Rows {
			row = append(row, r[j])
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// DropRows returns a copy without the first n rows. Dropping more rows than
// exist yields an empty table with the same columns.
func (t *Table) DropRows(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows[n:] {
		out.Rows = append(out.Rows, append([]string(nil), r...))
	}
	return out
}

// PromoteHeader returns a copy whose columns are the values of row 0, with
// row 0 removed.
func (t *Table) PromoteHeader() (*Table, error) {
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("cannot promote header of an empty table")
	}
	out := t.DropRows(1)
	out.Columns = append([]string(nil), t.Rows[0]...)
	return out, nil
}

// ReshapeStatement converts a provider statement table (one row per report,
// one column per field, fiscalDateEnding and reportedCurrency first) into the
// display layout: transposed, then ReshapeTransposed.
func ReshapeStatement(provider *Table) *Table {
	if provider == nil || len(provider.Columns) == 0 {
		return &Table{}
	}
	return ReshapeTransposed(provider.Transpose("field"))
}

// ReshapeTransposed takes a field-per-row table whose row 0 carries the
// header values and whose first two rows are not data. The result has the
// row 0 values as columns and len(t.Rows)-2 rows (never negative).
func ReshapeTransposed(t *Table) *Table {
	if t == nil || len(t.Rows) == 0 {
		return &Table{}
	}
	header := append([]string(nil), t.Rows[0]...)
	out := t.DropRows(2)
	out.Columns = header
	return out
}
