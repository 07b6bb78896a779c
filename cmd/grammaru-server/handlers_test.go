package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/grammaru/pkg/grammaru/config"
)

func testServer(t *testing.T, withVocab bool) http.Handler {
	t.Helper()
	loader := &config.Loader{}
	if withVocab {
		path := filepath.Join(t.TempDir(), "vocab.json")
		require.NoError(t, os.WriteFile(path, []byte(`["деревянный", "стеклянная"]`), 0o644))
		loader.VocabularyPath = path
	}
	comp, err := loader.Load()
	require.NoError(t, err)
	s := &server{comp: comp, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	return s.routes([]string{"https://example.org"})
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer(t, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["check"])
}

func TestAnalyze(t *testing.T) {
	rec := post(testServer(t, false), "/api/analyze", `{"text":"Деревянный стол"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rows      int `json:"rows"`
		Analyzers map[string]struct {
			Columns []string `json:"columns"`
			Rows    [][]any  `json:"rows"`
		} `json:"analyzers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Rows)
	assert.Contains(t, body.Analyzers, config.MorphName)
	assert.Contains(t, body.Analyzers[config.CandidateName].Columns, "nn_kind")
}

func TestAnalyzeRejectsEmptyText(t *testing.T) {
	rec := post(testServer(t, false), "/api/analyze", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(testServer(t, false), "/api/analyze", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheck(t *testing.T) {
	h := testServer(t, true)
	rec := post(h, "/api/check", `{"text":"Деревяный стол\nСтекляная дверь","paragraphs":[1]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body checkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NNChecker", body.Algorithm)
	assert.Equal(t, 1, body.Flagged)
	require.Len(t, body.Issues, 1)
	assert.Equal(t, "Стеклянная", body.Issues[0].Suggestion)
	assert.Nil(t, body.Frame)
}

func TestCheckParagraphSelection(t *testing.T) {
	h := testServer(t, true)
	text := `"Деревяный стол\nСтекляная дверь"`

	var all checkResponse
	rec := post(h, "/api/check", `{"text":`+text+`}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, 2, all.Flagged)

	// an explicit empty list selects no paragraphs
	var none checkResponse
	rec = post(h, "/api/check", `{"text":`+text+`,"paragraphs":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &none))
	assert.Equal(t, 0, none.Checked)
	assert.Equal(t, 0, none.Flagged)
	assert.Empty(t, none.Issues)
}

func TestRejectsOversizedBody(t *testing.T) {
	big := `{"text":"` + strings.Repeat("а", maxBodyBytes) + `"}`
	rec := post(testServer(t, false), "/api/analyze", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCheckWithoutVocabulary(t *testing.T) {
	rec := post(testServer(t, false), "/api/check", `{"text":"Деревяный стол"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer(t, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/check", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	testServer(t, false).ServeHTTP(rec, req)

	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}
