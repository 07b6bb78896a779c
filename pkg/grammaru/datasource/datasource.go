// Package datasource provides the record sources pipelines and
// featurization jobs read from.
package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
)

// Source yields row records.
type Source interface {
	Data(ctx context.Context) ([]frame.Record, error)
}

// ToFrame reads a source into a frame.
func ToFrame(ctx context.Context, src Source) (*frame.Frame, error) {
	if m, ok := src.(*Mock); ok {
		return m.frame, nil
	}
	records, err := src.Data(ctx)
	if err != nil {
		return nil, err
	}
	return frame.FromRecords(records, separator.Columns...), nil
}

// Mock wraps an in-memory frame.
type Mock struct {
	frame *frame.Frame
}

// NewMock returns a source over f.
func NewMock(f *frame.Frame) *Mock {
	return &Mock{frame: f}
}

// Data implements Source.
func (m *Mock) Data(ctx context.Context) ([]frame.Record, error) {
	return m.frame.Records(), nil
}

// Frame returns the wrapped frame.
func (m *Mock) Frame() *frame.Frame { return m.frame }

// SQL runs a query and returns one record per result row.
type SQL struct {
	DB    *sql.DB
	Query string
	Args  []any
}

// Data implements Source.
func (s *SQL) Data(ctx context.Context) ([]frame.Record, error) {
	rows, err := s.DB.QueryContext(ctx, s.Query, s.Args...)
	if err != nil {
		return nil, fmt.Errorf("query source: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []frame.Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(frame.Record, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = values[i]
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Text reads a plain text or HTML file and separates it into word rows.
// Files ending in .html or .htm are parsed as HTML.
type Text struct {
	Path string
}

// Data implements Source.
func (t *Text) Data(ctx context.Context) ([]frame.Record, error) {
	f, err := t.Frame()
	if err != nil {
		return nil, err
	}
	return f.Records(), nil
}

// Frame separates the file directly, keeping column order.
func (t *Text) Frame() (*frame.Frame, error) {
	switch strings.ToLower(filepath.Ext(t.Path)) {
	case ".html", ".htm":
		fh, err := os.Open(t.Path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		return separator.SeparateHTML(fh)
	}
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, err
	}
	return separator.SeparateString(string(data)), nil
}
