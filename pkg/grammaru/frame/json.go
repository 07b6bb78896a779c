package frame

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type wireFrame struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// MarshalJSON encodes the frame row by row.
func (f *Frame) MarshalJSON() ([]byte, error) {
	w := wireFrame{Columns: f.columns, Rows: make([][]any, f.rows)}
	if w.Columns == nil {
		w.Columns = []string{}
	}
	for r := 0; r < f.rows; r++ {
		row := make([]any, len(f.columns))
		for c := range f.columns {
			row[c] = f.data[c][r]
		}
		w.Rows[r] = row
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a frame written by MarshalJSON. Integral numbers
// come back as int64, other numbers as float64.
func (f *Frame) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var w wireFrame
	if err := dec.Decode(&w); err != nil {
		return err
	}
	data := make([][]any, len(w.Columns))
	for c := range data {
		data[c] = make([]any, len(w.Rows))
	}
	for r, row := range w.Rows {
		if len(row) != len(w.Columns) {
			return fmt.Errorf("frame row %d has %d cells, want %d", r, len(row), len(w.Columns))
		}
		for c, v := range row {
			data[c][r] = normalizeNumber(v)
		}
	}
	decoded, err := New(w.Columns, data)
	if err != nil {
		return err
	}
	*f = *decoded
	return nil
}

// NormalizeRecord converts json.Number cells of a decoded record in place.
func NormalizeRecord(rec Record) Record {
	for k, v := range rec {
		rec[k] = normalizeNumber(v)
	}
	return rec
}

func normalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if fl, err := n.Float64(); err == nil {
		return fl
	}
	return n.String()
}
