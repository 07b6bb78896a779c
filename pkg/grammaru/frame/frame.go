// Package frame implements the word-row table shared by analyzers,
// algorithms and the corpus tooling.
//
// A Frame is an immutable, column-oriented table: every transformation
// returns a new Frame and never writes into the column slices of its input,
// so one Frame can be handed to many analyzers at once.
package frame

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
)

// Record is a single row keyed by column name.
type Record map[string]any

// Frame is an ordered set of equally long columns.
type Frame struct {
	columns []string
	index   map[string]int
	data    [][]any
	rows    int
}

// Empty returns a frame with no columns and no rows.
func Empty() *Frame {
	return &Frame{index: map[string]int{}}
}

// New builds a frame from column names and the matching column values.
// The value slices are copied.
func New(columns []string, data [][]any) (*Frame, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("%w: %d columns but %d value slices", internalerr.ErrInvalidInput, len(columns), len(data))
	}
	f := &Frame{index: make(map[string]int, len(columns))}
	for i, name := range columns {
		if _, dup := f.index[name]; dup {
			return nil, fmt.Errorf("%w: column %q", internalerr.ErrDuplicate, name)
		}
		if i > 0 && len(data[i]) != f.rows {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", internalerr.ErrInvalidInput, name, len(data[i]), f.rows)
		}
		f.rows = len(data[i])
		f.index[name] = i
		f.columns = append(f.columns, name)
		f.data = append(f.data, append([]any(nil), data[i]...))
	}
	return f, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(columns []string, data [][]any) *Frame {
	f, err := New(columns, data)
	if err != nil {
		panic(err)
	}
	return f
}

// FromRecords builds a frame from row records. Keys named in order come
// first, in that order; any other keys follow sorted. Keys missing from a
// record become nil.
func FromRecords(records []Record, order ...string) *Frame {
	present := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			present[k] = true
		}
	}
	seen := make(map[string]bool)
	var columns []string
	for _, name := range order {
		if present[name] && !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}
	var extra []string
	for k := range present {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	columns = append(columns, extra...)

	f := &Frame{index: make(map[string]int, len(columns)), rows: len(records)}
	for i, name := range columns {
		col := make([]any, len(records))
		for r, rec := range records {
			col[r] = rec[name]
		}
		f.index[name] = i
		f.columns = append(f.columns, name)
		f.data = append(f.data, col)
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.rows }

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Has reports whether the frame contains the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]any, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return append([]any(nil), f.data[i]...), true
}

// Value returns a single cell, or nil if the column is absent.
func (f *Frame) Value(column string, row int) any {
	i, ok := f.index[column]
	if !ok || row < 0 || row >= f.rows {
		return nil
	}
	return f.data[i][row]
}

// Row returns the row at position i as a record.
func (f *Frame) Row(i int) Record {
	rec := make(Record, len(f.columns))
	for c, name := range f.columns {
		rec[name] = f.data[c][i]
	}
	return rec
}

// Records returns every row as a record.
func (f *Frame) Records() []Record {
	out := make([]Record, f.rows)
	for i := range out {
		out[i] = f.Row(i)
	}
	return out
}

// WithColumn returns a new frame with the column added, or replaced when a
// column of that name already exists.
func (f *Frame) WithColumn(name string, values []any) (*Frame, error) {
	if len(f.columns) > 0 && len(values) != f.rows {
		return nil, fmt.Errorf("%w: column %q has %d values, want %d", internalerr.ErrInvalidInput, name, len(values), f.rows)
	}
	out := f.shallowCopy()
	if len(f.columns) == 0 {
		out.rows = len(values)
	}
	vals := append([]any(nil), values...)
	if i, ok := out.index[name]; ok {
		out.data[i] = vals
		return out, nil
	}
	out.index[name] = len(out.columns)
	out.columns = append(out.columns, name)
	out.data = append(out.data, vals)
	return out, nil
}

// Select returns a frame holding only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	var missing []string
	for _, name := range names {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrMissingColumns, strings.Join(missing, ", "))
	}
	out := &Frame{index: make(map[string]int, len(names)), rows: f.rows}
	for i, name := range names {
		if _, dup := out.index[name]; dup {
			return nil, fmt.Errorf("%w: column %q", internalerr.ErrDuplicate, name)
		}
		out.index[name] = i
		out.columns = append(out.columns, name)
		out.data = append(out.data, f.data[f.index[name]])
	}
	return out, nil
}

// Filter returns the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	var rows []int
	for i := 0; i < f.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return f.take(rows)
}

// Head returns at most the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n >= f.rows {
		return f
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return f.take(rows)
}

// Concat stacks frames vertically. The result holds the union of all
// columns in first-seen order; cells for columns a frame lacks are nil.
func Concat(frames ...*Frame) *Frame {
	out := Empty()
	for _, f := range frames {
		for _, name := range f.columns {
			if !out.Has(name) {
				out.index[name] = len(out.columns)
				out.columns = append(out.columns, name)
				out.data = append(out.data, nil)
			}
		}
	}
	for _, f := range frames {
		for c, name := range out.columns {
			if i, ok := f.index[name]; ok {
				out.data[c] = append(out.data[c], f.data[i]...)
			} else {
				out.data[c] = append(out.data[c], make([]any, f.rows)...)
			}
		}
		out.rows += f.rows
	}
	return out
}

func (f *Frame) take(rows []int) *Frame {
	out := &Frame{
		columns: append([]string(nil), f.columns...),
		index:   make(map[string]int, len(f.columns)),
		data:    make([][]any, len(f.columns)),
		rows:    len(rows),
	}
	for c, name := range f.columns {
		out.index[name] = c
		col := make([]any, len(rows))
		for i, r := range rows {
			col[i] = f.data[c][r]
		}
		out.data[c] = col
	}
	return out
}

// shallowCopy shares column slices with f. Safe because column slices are
// never written after construction.
func (f *Frame) shallowCopy() *Frame {
	out := &Frame{
		columns: append([]string(nil), f.columns...),
		index:   make(map[string]int, len(f.columns)),
		data:    append([][]any(nil), f.data...),
		rows:    f.rows,
	}
	for k, v := range f.index {
		out.index[k] = v
	}
	return out
}
