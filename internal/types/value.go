package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RowSeparator joins stringified values in the flat-text formats.
const RowSeparator = ", "

// IsMissing reports whether v counts as a missing value: nil or a float NaN.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

// FormatValue is the one scalar-to-string rule used by every text exporter.
//
//	nil, NaN -> ""
//	int64    -> base 10
//	float64  -> shortest decimal that round-trips, never an exponent ("2", "0.5")
//	bool     -> "true" / "false"
func FormatValue(v any) string {
	if IsMissing(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

// JoinRow renders a row as its values joined with RowSeparator.
func JoinRow(row []any) string {
	var sb strings.Builder
	for i, v := range row {
		if i > 0 {
			sb.WriteString(RowSeparator)
		}
		sb.WriteString(FormatValue(v))
	}
	return sb.String()
}
