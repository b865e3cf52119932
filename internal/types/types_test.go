package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	table, err := NewTable([]string{"A", "B"}, [][]any{{"x", int64(1)}, {nil, 2.5}})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []any{int64(1), 2.5}, table.Column(1))

	_, err = NewTable([]string{"A", "B"}, [][]any{{"x"}})
	assert.ErrorIs(t, err, ErrInvalidTable)

	var nilTable *Table
	assert.ErrorIs(t, nilTable.Validate(), ErrInvalidTable)
	assert.Zero(t, nilTable.Len())
}

func TestExtractedTable(t *testing.T) {
	table := ExtractedTable([]string{"p0", "", "p2"})

	assert.Equal(t, []string{ExtractedTextColumn}, table.Columns)
	assert.Equal(t, [][]any{{"p0"}, {""}, {"p2"}}, table.Rows)
	assert.NoError(t, table.Validate())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"Nil", nil, ""},
		{"NaN", math.NaN(), ""},
		{"String", "hello", "hello"},
		{"Empty string", "", ""},
		{"Int64", int64(-42), "-42"},
		{"Int", 7, "7"},
		{"Integral float", 2.0, "2"},
		{"Fraction", 0.5, "0.5"},
		{"Tenth", 0.1, "0.1"},
		{"Large float", 1e21, "1000000000000000000000"},
		{"Small float", 0.000001, "0.000001"},
		{"Positive infinity", math.Inf(1), "+Inf"},
		{"Negative infinity", math.Inf(-1), "-Inf"},
		{"True", true, "true"},
		{"False", false, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatValue(tt.input)
			if got != tt.expected {
				t.Errorf("FormatValue(%v) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestJoinRow(t *testing.T) {
	assert.Equal(t, "a, b, c", JoinRow([]any{"a", "b", "c"}))
	assert.Equal(t, "Alice, 30, 1.5, true, ", JoinRow([]any{"Alice", int64(30), 1.5, true, nil}))
	assert.Equal(t, "", JoinRow(nil))
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(math.NaN()))
	assert.False(t, IsMissing(""))
	assert.False(t, IsMissing(0.0))
	assert.False(t, IsMissing(false))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		format    Format
		tag       string
		ext       string
		canImport bool
		canExport bool
	}{
		{FormatCSV, "csv", ".csv", true, false},
		{FormatXLSX, "xlsx", ".xlsx", true, true},
		{FormatPDF, "pdf", ".pdf", true, true},
		{FormatDOCX, "docx", ".docx", true, true},
		{FormatUnknown, "unknown", "", false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tag, tt.format.String())
		assert.Equal(t, tt.ext, tt.format.Ext())
		assert.Equal(t, tt.canImport, tt.format.CanImport(), "%s import", tt.tag)
		assert.Equal(t, tt.canExport, tt.format.CanExport(), "%s export", tt.tag)
		assert.NotEmpty(t, tt.format.MimeType())
	}
}
