// Package dataset provides the in-memory numeric table that preprocessors and
// engines operate on.
package dataset

import (
	"fmt"
)

// Table is a column-oriented numeric dataset.
type Table struct {
	columns []string
	index   map[string]int
	data    [][]float64 // data[col][row]
	rows    int
}

// New creates a table from named columns. All columns must have equal length.
func New(columns []string, data [][]float64) (*Table, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("got %d column names for %d columns", len(columns), len(data))
	}
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		data:    data,
	}
	for i, name := range columns {
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t.index[name] = i
	}
	if len(data) > 0 {
		t.rows = len(data[0])
		for i, col := range data {
			if len(col) != t.rows {
				return nil, fmt.Errorf("column %q has %d rows, expected %d", columns[i], len(col), t.rows)
			}
		}
	}
	return t, nil
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string { return t.columns }

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// Column returns the values of a named column.
func (t *Table) Column(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	return t.data[i], nil
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Subset returns a new table containing only the given row indexes, in order.
func (t *Table) Subset(rows []int) (*Table, error) {
	data := make([][]float64, len(t.data))
	for c, col := range t.data {
		sub := make([]float64, len(rows))
		for i, r := range rows {
			if r < 0 || r >= t.rows {
				return nil, fmt.Errorf("row index %d out of range [0,%d)", r, t.rows)
			}
			sub[i] = col[r]
		}
		data[c] = sub
	}
	return New(t.columns, data)
}
