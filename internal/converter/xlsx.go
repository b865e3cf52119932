package converter

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nconklindev/unifile/internal/types"

	"github.com/xuri/excelize/v2"
)

// readXLSX parses the first worksheet of a workbook. Cells keep their
// spreadsheet type: booleans, numbers and strings; empty cells are nil.
func readXLSX(data []byte, detectHeader bool) (*types.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty XLSX file")
	}

	headerRowIdx := 0
	if detectHeader {
		headerRowIdx = findHeaderRow(rows)
		if headerRowIdx == -1 {
			return nil, fmt.Errorf("could not find header row")
		}
	}

	width := 0
	for _, row := range rows[headerRowIdx:] {
		if len(row) > width {
			width = len(row)
		}
	}
	rawHeaders := make([]string, width)
	copy(rawHeaders, rows[headerRowIdx])
	headers := uniqueHeaders(rawHeaders)

	table := &types.Table{
		Columns: headers,
		Rows:    make([][]any, 0, len(rows)-headerRowIdx-1),
	}
	for rowIdx := headerRowIdx + 1; rowIdx < len(rows); rowIdx++ {
		row := make([]any, width)
		for colIdx, raw := range rows[rowIdx] {
			if raw == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			row[colIdx] = cellValue(raw, cellType)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func cellValue(raw string, cellType excelize.CellType) any {
	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return raw
	default:
		return parseValue(raw)
	}
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// writeXLSX serializes the table as a single worksheet: the header row
// followed by one row per table row, one typed cell per value.
func writeXLSX(t *types.Table, w io.Writer, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := opts.SheetName
	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return err
		}
	}

	for colIdx, header := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}

	total := len(t.Rows)
	for rowIdx, row := range t.Rows {
		reportProgress(opts.Progress, rowIdx, total)

		for colIdx, v := range row {
			if types.IsMissing(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, xlsxValue(v)); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return err
	}
	reportProgress(opts.Progress, total, total)
	return nil
}

// xlsxValue maps values a cell cannot store as a number onto their text form.
func xlsxValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) {
			return types.FormatValue(x)
		}
	case string, bool, int, int32, int64, uint64, float32:
	default:
		return types.FormatValue(v)
	}
	return v
}

// findHeaderRow locates the first row that appears to be a header
// by finding the row with the most non-empty text cells
func findHeaderRow(rows [][]string) int {
	maxNonEmpty := 0
	headerIdx := -1

	searchLimit := len(rows)
	if searchLimit > RowDetectionLimit*2 {
		searchLimit = RowDetectionLimit * 2
	}

	for i := 0; i < searchLimit; i++ {
		nonEmptyCount := 0
		hasText := false

		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed != "" {
				nonEmptyCount++
				if containsLetters(trimmed) {
					hasText = true
				}
			}
		}

		// Header should have multiple columns AND contain text
		if nonEmptyCount >= 2 && hasText && nonEmptyCount > maxNonEmpty {
			maxNonEmpty = nonEmptyCount
			headerIdx = i
		}
	}

	return headerIdx
}

// containsLetters checks if a string contains any alphabetic characters
func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
