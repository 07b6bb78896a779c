package frame

import (
	"fmt"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
)

// LeftJoin attaches the columns of right onto f, matching rows on the
// columns in on. Every row of f is kept, in order; rows without a match get
// nil in the joined columns. Join keys are not duplicated.
//
// right must hold at most one row per key, so the join never multiplies
// rows, and must not repeat non-key columns of f.
func (f *Frame) LeftJoin(right *Frame, on []string) (*Frame, error) {
	if len(on) == 0 {
		return nil, fmt.Errorf("%w: join needs at least one key column", internalerr.ErrInvalidInput)
	}
	for _, key := range on {
		if !f.Has(key) {
			return nil, fmt.Errorf("%w: left side lacks join key %q", internalerr.ErrMissingColumns, key)
		}
		if !right.Has(key) {
			return nil, fmt.Errorf("%w: right side lacks join key %q", internalerr.ErrMissingColumns, key)
		}
	}

	isKey := make(map[string]bool, len(on))
	for _, key := range on {
		isKey[key] = true
	}
	var added []string
	for _, name := range right.columns {
		if isKey[name] {
			continue
		}
		if f.Has(name) {
			return nil, fmt.Errorf("%w: %q exists on both sides", internalerr.ErrColumnConflict, name)
		}
		added = append(added, name)
	}

	lookup := make(map[string]int, right.rows)
	for r := 0; r < right.rows; r++ {
		k := right.rowKey(on, r)
		if _, dup := lookup[k]; dup {
			return nil, fmt.Errorf("%w: join key %s appears twice on the right side", internalerr.ErrDuplicate, k)
		}
		lookup[k] = r
	}

	out := f.shallowCopy()
	for _, name := range added {
		src := right.data[right.index[name]]
		col := make([]any, f.rows)
		for r := 0; r < f.rows; r++ {
			if m, ok := lookup[f.rowKey(on, r)]; ok {
				col[r] = src[m]
			}
		}
		out.index[name] = len(out.columns)
		out.columns = append(out.columns, name)
		out.data = append(out.data, col)
	}
	return out, nil
}

func (f *Frame) rowKey(on []string, row int) string {
	parts := make([]string, len(on))
	for i, key := range on {
		parts[i] = KeyOf(f.data[f.index[key]][row])
	}
	return strings.Join(parts, "\x1f")
}

// KeyOf renders a cell as a join key. Integral numbers compare equal
// regardless of their Go type, so an int64 decoded from storage matches an
// int produced in memory.
func KeyOf(v any) string {
	if v == nil {
		return "\x00nil"
	}
	if n, ok := AsInt(v); ok {
		return fmt.Sprintf("i:%d", n)
	}
	if s, ok := v.(string); ok {
		return "s:" + s
	}
	return fmt.Sprintf("v:%v", v)
}
