package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `lemmas:
  - lemma: стеклянный
    pos: ADJF
    forms:
      стеклянная: femn,sing,nomn
      стеклянного: masc,sing,gent
  - lemma: стекло
    pos: NOUN
    forms:
      стекло: neut,sing,nomn
  - lemma: стечь
    pos: VERB
    forms:
      стекло: neut,past
`

func TestLexiconNew(t *testing.T) {
	lex := New()
	if lex == nil {
		t.Fatal("New() returned nil")
	}
	if stats := lex.Stats(); stats.Lemmas != 0 || stats.Forms != 0 {
		t.Errorf("New lexicon should be empty, got %+v", stats)
	}
}

func TestParseAndLookup(t *testing.T) {
	lex, err := LoadFromBytes([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	parses := lex.Lookup("Стеклянная")
	if len(parses) != 1 {
		t.Fatalf("Expected 1 parse, got %d", len(parses))
	}
	if parses[0].Lemma != "стеклянный" || parses[0].POS != "ADJF" || parses[0].Tags != "femn,sing,nomn" {
		t.Errorf("unexpected parse %+v", parses[0])
	}

	// Ambiguous form keeps both readings in insertion order
	amb := lex.Lookup("стекло")
	if len(amb) != 2 || amb[0].POS != "NOUN" || amb[1].POS != "VERB" {
		t.Errorf("Expected NOUN then VERB for 'стекло', got %+v", amb)
	}

	if got := lex.Normalize("СТЕКЛЯННОГО"); got != "стеклянный" {
		t.Errorf("Normalize = %q, want стеклянный", got)
	}
	if got := lex.Normalize("Неизвестное"); got != "неизвестное" {
		t.Errorf("Normalize of unknown word = %q", got)
	}
}

func TestLemmaIsItsOwnForm(t *testing.T) {
	lex, err := LoadFromBytes([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if !lex.Has("стеклянный") {
		t.Error("lemma should be registered as a form")
	}
	forms := lex.Forms("стеклянного")
	if len(forms) != 3 || forms[0] != "стеклянный" {
		t.Errorf("Forms should start with the lemma, got %v", forms)
	}
	if got := lex.Forms("кот"); len(got) != 1 || got[0] != "кот" {
		t.Errorf("unknown word should yield itself, got %v", got)
	}
}

func TestStatsAndWords(t *testing.T) {
	lex, err := LoadFromBytes([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	stats := lex.Stats()
	if stats.Lemmas != 3 {
		t.Errorf("Expected 3 lemmas, got %d", stats.Lemmas)
	}
	// стеклянный, стеклянная, стеклянного, стекло, стечь
	if stats.Forms != 5 {
		t.Errorf("Expected 5 forms, got %d (%v)", stats.Forms, lex.Words())
	}
	if stats.Parses != 6 {
		t.Errorf("Expected 6 parses, got %d", stats.Parses)
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	lex, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if !lex.Has("стекло") {
		t.Error("expected стекло to be loaded")
	}

	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Should error on non-existent file")
	}
}
