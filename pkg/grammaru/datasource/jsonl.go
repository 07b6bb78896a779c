package datasource

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
)

// JSONL reads one JSON object per line. Malformed lines are skipped with a
// warning.
type JSONL struct {
	Path   string
	Logger *slog.Logger
}

// Data implements Source.
func (j *JSONL) Data(ctx context.Context) ([]frame.Record, error) {
	fh, err := os.Open(j.Path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", j.Path, err)
	}
	defer fh.Close()

	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var records []frame.Record
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var rec frame.Record
		if err := dec.Decode(&rec); err != nil {
			logger.Warn("skipping malformed JSON line", "path", j.Path, "line", line, "error", err)
			continue
		}
		records = append(records, frame.NormalizeRecord(rec))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", j.Path, err)
	}
	return records, nil
}

// WriteJSONL writes every row of f as one JSON object per line.
func WriteJSONL(path string, f *frame.Frame) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range f.Records() {
		if err := enc.Encode(rec); err != nil {
			fh.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
