// Package morph annotates words with their lemma, part of speech and
// grammatical tags from a morphological lexicon.
package morph

import (
	"fmt"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/analyzer"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/lexicon"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
	"github.com/cognicore/grammaru/pkg/grammaru/validations"
)

// Output columns.
const (
	ColNormalForm   = "normal_form"
	ColPOS          = "pos"
	ColTags         = "tags"
	ColIsNormalForm = "is_normal_form"
)

// Morph looks words up in a lexicon. Words the lexicon does not know get
// no output row, so they are nil after the join.
type Morph struct {
	lex *lexicon.Lexicon
}

// New returns an analyzer joined by word_id that requires the word column.
func New(lex *lexicon.Lexicon) (*analyzer.Analyzer, error) {
	if lex == nil {
		return nil, fmt.Errorf("%w: morph analyzer needs a lexicon", internalerr.ErrInvalidInput)
	}
	return analyzer.New(&Morph{lex: lex}, []string{validations.WordID}, separator.ColWord)
}

// AnalyzeInner implements analyzer.Inner. The first parse of an ambiguous
// form wins.
func (m *Morph) AnalyzeInner(f *frame.Frame) (*frame.Frame, error) {
	var ids, normal, pos, tags, isNormal []any
	for i := 0; i < f.Len(); i++ {
		word, ok := frame.AsString(f.Value(separator.ColWord, i))
		if !ok {
			continue
		}
		parses := m.lex.Lookup(word)
		if len(parses) == 0 {
			continue
		}
		p := parses[0]
		ids = append(ids, f.Value(validations.WordID, i))
		normal = append(normal, p.Lemma)
		pos = append(pos, p.POS)
		tags = append(tags, p.Tags)
		isNormal = append(isNormal, strings.ToLower(word) == p.Lemma)
	}
	return frame.New(
		[]string{validations.WordID, ColNormalForm, ColPOS, ColTags, ColIsNormalForm},
		[][]any{orEmpty(ids), orEmpty(normal), orEmpty(pos), orEmpty(tags), orEmpty(isNormal)},
	)
}

func orEmpty(col []any) []any {
	if col == nil {
		return []any{}
	}
	return col
}
