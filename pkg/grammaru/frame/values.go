package frame

import (
	"encoding/json"
	"math"
)

// AsInt converts integral cell values of any numeric type to int64.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		if float32(int64(n)) == n {
			return int64(n), true
		}
	case float64:
		if math.Trunc(n) == n && !math.IsInf(n, 0) {
			return int64(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	return 0, false
}

// AsString returns the cell as a string when it holds one.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsBool returns the cell as a bool when it holds one.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// Fill returns a column of n copies of v.
func Fill(n int, v any) []any {
	col := make([]any, n)
	for i := range col {
		col[i] = v
	}
	return col
}
