package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
)

func TestLoadFromJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	content := `{"name": "a.txt", "text": "Первая строка\nВторая строка"}
not json
{"title": "Статья", "html": "<html><body><p>Деревянный стол.</p><p>Кожаный диван.</p></body></html>"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadFromJSONL(path)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	docs, err := Documents(items)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if docs[0].Name != "a.txt" || len(docs[0].Paragraphs) != 2 {
		t.Errorf("Unexpected text document %+v", docs[0])
	}
	if docs[1].Name != "Статья" {
		t.Errorf("Expected title as name, got %q", docs[1].Name)
	}
	if len(docs[1].Paragraphs) != 2 || docs[1].Paragraphs[1] != "Кожаный диван." {
		t.Errorf("Unexpected html paragraphs %v", docs[1].Paragraphs)
	}
}

func TestLoadFromJSONLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := os.WriteFile(path, []byte("\n\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromJSONL(path); err == nil {
		t.Error("Expected error for file without items")
	}
}

func TestTitleBecomesFirstParagraph(t *testing.T) {
	d, err := Item{Name: "n", Title: "Заголовок", Text: "Текст"}.Document()
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Paragraphs) != 2 || d.Paragraphs[0] != "Заголовок" {
		t.Errorf("Unexpected paragraphs %v", d.Paragraphs)
	}
}

func TestFromRecords(t *testing.T) {
	items := FromRecords([]frame.Record{
		{"name": "a", "text": "Текст"},
		{"name": "empty"},
		{"title": "b", "html": "<p>Абзац</p>", "extra": 1},
	})
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[1].Title != "b" || items[1].HTML == "" {
		t.Errorf("Unexpected item %+v", items[1])
	}
}
