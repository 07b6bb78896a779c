// Package docs loads raw documents for corpus import.
package docs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/corpus"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
)

// Item is one document line of an import file. HTML wins over Text when
// both are set.
type Item struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Text  string `json:"text"`
	HTML  string `json:"html"`
}

// LoadFromJSONL loads items from a JSONL file, skipping malformed lines.
func LoadFromJSONL(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []Item
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			slog.Warn("skipping malformed JSON", "line", i+1, "path", path, "error", err)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}

	return items, nil
}

// Document converts an item into paragraphs ready for the corpus builder.
func (it Item) Document() (corpus.Document, error) {
	name := it.Name
	if name == "" {
		name = it.Title
	}
	if it.HTML != "" {
		paras, err := separator.HTMLParagraphs(strings.NewReader(it.HTML))
		if err != nil {
			return corpus.Document{}, fmt.Errorf("parse html of %q: %w", name, err)
		}
		return corpus.Document{Name: name, Paragraphs: paras}, nil
	}
	var paras []string
	if it.Title != "" && it.Name != "" {
		paras = append(paras, it.Title)
	}
	paras = append(paras, strings.Split(it.Text, "\n")...)
	return corpus.Document{Name: name, Paragraphs: paras}, nil
}

// Documents converts every item, stopping at the first failure.
func Documents(items []Item) ([]corpus.Document, error) {
	out := make([]corpus.Document, 0, len(items))
	for _, it := range items {
		d, err := it.Document()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// FromRecords maps rows with name, title, text and html columns to items,
// as returned by a SQL data source.
func FromRecords(records []frame.Record) []Item {
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		var it Item
		it.Name, _ = frame.AsString(rec["name"])
		it.Title, _ = frame.AsString(rec["title"])
		it.Text, _ = frame.AsString(rec["text"])
		it.HTML, _ = frame.AsString(rec["html"])
		if it.Text == "" && it.HTML == "" {
			continue
		}
		items = append(items, it)
	}
	return items
}
