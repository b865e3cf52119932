package types

import (
	"errors"
	"fmt"
)

// ExtractedTextColumn is the single column of a table built from document text.
const ExtractedTextColumn = "Extracted Text"

var ErrInvalidTable = errors.New("invalid table")

type ConversionResult struct {
	InputFile    string
	OutputFile   string
	InputFormat  Format
	OutputFormat Format
	Columns      []string
	RowsRead     int
	RowsWritten  int
	BytesWritten int64
	Cleaned      bool
}

// Table is the row/column pivot every conversion reads from or writes into.
// Cells hold nil, string, int64, float64 or bool, aligned to Columns by position.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable builds a table and checks that every row matches the column count.
func NewTable(columns []string, rows [][]any) (*Table, error) {
	t := &Table{Columns: columns, Rows: rows}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ExtractedTable wraps extracted lines in a one-column table, one row per line.
func ExtractedTable(lines []string) *Table {
	rows := make([][]any, len(lines))
	for i, line := range lines {
		rows[i] = []any{line}
	}
	return &Table{
		Columns: []string{ExtractedTextColumn},
		Rows:    rows,
	}
}

func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrInvalidTable, i, len(row), len(t.Columns))
		}
	}
	return nil
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the values of column i in row order.
func (t *Table) Column(i int) []any {
	values := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		if i < len(row) {
			values = append(values, row[i])
		}
	}
	return values
}
