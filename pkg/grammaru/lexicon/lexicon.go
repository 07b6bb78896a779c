package lexicon

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon stores a morphological dictionary:
// - Lemmas: normal form -> part of speech and every inflected form
// - Forms: inflected form -> the parses it can stand for
//
// A form may belong to several lemmas ("стекло" is a noun and a past-tense
// verb); Lookup returns every parse in the order the lemmas were added.
type Lexicon struct {
	// lemma -> all forms (lemma itself first)
	// Example: "стеклянный" -> ["стеклянный", "стеклянная", "стеклянного"]
	lemmas map[string][]string

	// form -> parses
	// Example: "стеклянная" -> [{стеклянный ADJF femn,sing,nomn}]
	forms map[string][]Parse
}

// Parse is one morphological reading of a word form.
type Parse struct {
	Lemma string
	POS   string
	Tags  string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		lemmas: make(map[string][]string),
		forms:  make(map[string][]Parse),
	}
}

type yamlLexicon struct {
	Lemmas []struct {
		Lemma string            `yaml:"lemma"`
		POS   string            `yaml:"pos"`
		Forms map[string]string `yaml:"forms"`
	} `yaml:"lemmas"`
}

// LoadFromYAML loads a lexicon from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - lemma: стеклянный
//	    pos: ADJF
//	    forms:
//	      стеклянный: masc,sing,nomn
//	      стеклянная: femn,sing,nomn
//
// Notes:
// - Case-insensitive: forms and lemmas are stored lower-cased
// - The lemma is always registered as one of its own forms
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFromBytes(data)
}

// LoadFromBytes reads a lexicon from YAML bytes in the LoadFromYAML format.
func LoadFromBytes(data []byte) (*Lexicon, error) {
	var config yamlLexicon
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	for _, entry := range config.Lemmas {
		lex.AddLemma(entry.Lemma, entry.POS, entry.Forms)
	}
	return lex, nil
}

// AddLemma registers a lemma with its forms (form -> grammatical tags).
// Adding the same lemma again merges the forms.
func (l *Lexicon) AddLemma(lemma, pos string, forms map[string]string) {
	lemma = strings.ToLower(strings.TrimSpace(lemma))
	if lemma == "" {
		return
	}

	keys := make([]string, 0, len(forms))
	for f := range forms {
		keys = append(keys, f)
	}
	sort.Strings(keys)

	if _, ok := forms[lemma]; !ok {
		l.addForm(lemma, Parse{Lemma: lemma, POS: pos})
	}
	for _, f := range keys {
		l.addForm(strings.ToLower(f), Parse{Lemma: lemma, POS: pos, Tags: forms[f]})
	}
}

func (l *Lexicon) addForm(form string, p Parse) {
	if form == "" {
		return
	}
	for _, existing := range l.forms[form] {
		if existing == p {
			return
		}
	}
	l.forms[form] = append(l.forms[form], p)

	for _, known := range l.lemmas[p.Lemma] {
		if known == form {
			return
		}
	}
	if form == p.Lemma {
		l.lemmas[p.Lemma] = append([]string{form}, l.lemmas[p.Lemma]...)
	} else {
		l.lemmas[p.Lemma] = append(l.lemmas[p.Lemma], form)
	}
}

// Lookup returns every parse of a form, or nil if the form is unknown.
func (l *Lexicon) Lookup(form string) []Parse {
	return l.forms[strings.ToLower(form)]
}

// Has reports whether the form is in the lexicon.
func (l *Lexicon) Has(form string) bool {
	_, ok := l.forms[strings.ToLower(form)]
	return ok
}

// Normalize returns the lemma of the first parse of a form.
// Unknown forms are returned lower-cased.
//
// Examples:
//   - Normalize("Стеклянная") -> "стеклянный"
//   - Normalize("неизвестное") -> "неизвестное"
func (l *Lexicon) Normalize(form string) string {
	form = strings.ToLower(form)
	if parses := l.forms[form]; len(parses) > 0 {
		return parses[0].Lemma
	}
	return form
}

// Forms returns every known form of the lemma of a word, lemma first.
// Unknown words yield a slice containing only the word.
func (l *Lexicon) Forms(word string) []string {
	lemma := l.Normalize(word)
	if forms, ok := l.lemmas[lemma]; ok {
		return append([]string(nil), forms...)
	}
	return []string{lemma}
}

// Words returns every known form in sorted order.
func (l *Lexicon) Words() []string {
	out := make([]string, 0, len(l.forms))
	for f := range l.forms {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	parses := 0
	for _, p := range l.forms {
		parses += len(p)
	}
	return Stats{Lemmas: len(l.lemmas), Forms: len(l.forms), Parses: parses}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	Lemmas int // Number of lemmas
	Forms  int // Number of distinct forms
	Parses int // Total parses across all forms
}
