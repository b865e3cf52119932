package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nconklindev/unifile/internal/types"
)

// Clean returns a new table without rows that repeat an earlier row and
// without rows holding a missing value. Surviving rows keep their order.
// The input table is not modified. A nil table cleans to an empty one.
func Clean(t *types.Table) *types.Table {
	if t == nil {
		return &types.Table{}
	}

	out := &types.Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]any, 0, len(t.Rows)),
	}

	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		key := rowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true

		if hasMissing(row) {
			continue
		}
		out.Rows = append(out.Rows, append([]any(nil), row...))
	}

	return out
}

func hasMissing(row []any) bool {
	for _, v := range row {
		if types.IsMissing(v) {
			return true
		}
	}
	return false
}

// rowKey encodes a row so that two rows share a key only when every value
// has the same type and the same value.
func rowKey(row []any) string {
	var sb strings.Builder
	for _, v := range row {
		switch x := v.(type) {
		case nil:
			sb.WriteString("n")
		case string:
			sb.WriteString("s")
			sb.WriteString(strconv.Quote(x))
		case int64:
			sb.WriteString("i")
			sb.WriteString(strconv.FormatInt(x, 10))
		case float64:
			sb.WriteString("f")
			sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		case bool:
			sb.WriteString("b")
			sb.WriteString(strconv.FormatBool(x))
		default:
			sb.WriteString(fmt.Sprintf("%T", v))
			sb.WriteString(strconv.Quote(fmt.Sprint(v)))
		}
		sb.WriteByte(';')
	}
	return sb.String()
}
