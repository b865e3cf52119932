package converter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/nconklindev/unifile/internal/types"
)

type columnKind int

const (
	kindString columnKind = iota
	kindInt
	kindFloat
	kindBool
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV parses delimited text with the first record as the header.
// Column types are inferred from the data; empty fields become nil.
func readCSV(data []byte) (*types.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	headers := uniqueHeaders(records[0])
	for i, record := range records[1:] {
		if len(record) > len(headers) {
			return nil, fmt.Errorf("line %d: %d fields, header has %d", i+2, len(record), len(headers))
		}
	}

	kinds := detectColumnKinds(headers, records[1:])

	rows := make([][]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]any, len(headers))
		for colIdx := range headers {
			if colIdx < len(record) {
				row[colIdx] = convertField(record[colIdx], kinds[colIdx])
			}
		}
		rows = append(rows, row)
	}

	return &types.Table{Columns: headers, Rows: rows}, nil
}

// detectColumnKinds picks the narrowest type that fits every non-empty value
// of each column: int, then float, then bool, else string.
func detectColumnKinds(headers []string, records [][]string) []columnKind {
	kinds := make([]columnKind, len(headers))

	for i := range headers {
		isInt, isFloat, isBool := true, true, true
		checked := 0

		for _, record := range records {
			if i >= len(record) {
				continue
			}
			val := strings.TrimSpace(record[i])
			if val == "" {
				continue
			}
			checked++
			if isInt && !IsInteger(val) {
				isInt = false
			}
			if isFloat && !IsNumber(val) {
				isFloat = false
			}
			if isBool && !IsBool(val) {
				isBool = false
			}
			if !isInt && !isFloat && !isBool {
				break
			}
		}

		switch {
		case checked == 0:
			kinds[i] = kindString
		case isInt:
			kinds[i] = kindInt
		case isFloat:
			kinds[i] = kindFloat
		case isBool:
			kinds[i] = kindBool
		default:
			kinds[i] = kindString
		}
	}

	return kinds
}

func convertField(field string, kind columnKind) any {
	val := strings.TrimSpace(field)
	if val == "" {
		return nil
	}

	switch kind {
	case kindInt:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	case kindFloat:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	case kindBool:
		return strings.EqualFold(val, "true")
	}
	return field
}

// IsInteger checks if a string is a base-10 integer that fits in an int64
func IsInteger(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

// IsNumber checks if a string parses as a float
func IsNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// IsBool accepts true/false in any letter case
func IsBool(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

// uniqueHeaders makes every column name distinct: blanks become "Unnamed: i"
// and repeats get a ".n" suffix.
func uniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	counts := make(map[string]int, len(raw))

	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		candidate := name
		for used[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		used[candidate] = true
		headers[i] = candidate
	}

	return headers
}
