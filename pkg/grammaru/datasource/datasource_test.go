package datasource

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
)

func TestMockRoundTrip(t *testing.T) {
	f := frame.MustNew([]string{"word_id", "word"}, [][]any{{0, 1}, {"а", "б"}})
	src := NewMock(f)

	records, err := src.Data(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	back, err := ToFrame(context.Background(), src)
	require.NoError(t, err)
	assert.Same(t, f, back)
}

func TestJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.jsonl")
	content := `{"word_id": 0, "word": "мама"}
not json

{"word_id": 1, "word": "мыла", "score": 0.5}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := (&JSONL{Path: path}).Data(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[1]["word_id"])
	assert.Equal(t, 0.5, records[1]["score"])

	f, err := ToFrame(context.Background(), &JSONL{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"word_id", "word", "score"}, f.Columns())
}

func TestJSONLMissingFile(t *testing.T) {
	_, err := (&JSONL{Path: filepath.Join(t.TempDir(), "none.jsonl")}).Data(context.Background())
	assert.Error(t, err)
}

func TestWriteJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	f := frame.MustNew([]string{"word_id", "word"}, [][]any{{0, 1}, {"<а>", "б"}})
	require.NoError(t, WriteJSONL(path, f))

	records, err := (&JSONL{Path: path}).Data(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "<а>", records[0]["word"])
}

func TestSQLSource(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "src.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE words (word_id INTEGER, word TEXT);
INSERT INTO words VALUES (0, 'кот'), (1, 'пёс');`)
	require.NoError(t, err)

	src := &SQL{DB: db, Query: "SELECT word_id, word FROM words WHERE word_id >= ? ORDER BY word_id", Args: []any{1}}
	records, err := src.Data(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0]["word_id"])
	assert.Equal(t, "пёс", records[0]["word"])
}

func TestTextSource(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "a.txt")
	htm := filepath.Join(dir, "a.html")
	require.NoError(t, os.WriteFile(txt, []byte("Первый абзац.\nВторой."), 0644))
	require.NoError(t, os.WriteFile(htm, []byte("<p>Один</p><p>Два</p>"), 0644))

	f, err := ToFrame(context.Background(), &Text{Path: txt})
	require.NoError(t, err)
	assert.Equal(t, 5, f.Len())
	assert.Equal(t, "word_id", f.Columns()[0])

	hf, err := (&Text{Path: htm}).Frame()
	require.NoError(t, err)
	assert.Equal(t, 2, hf.Len())
	assert.Equal(t, 1, hf.Value("paragraph_id", 1))
}
