// Package nncandidate marks words whose spelling hinges on н versus нн.
package nncandidate

import (
	"github.com/cognicore/grammaru/pkg/grammaru/analyzer"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/nn"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
	"github.com/cognicore/grammaru/pkg/grammaru/validations"
)

// ColKind holds "n" or "nn" for candidates.
const ColKind = "nn_kind"

// Candidates is the analysis step; only candidate words produce rows.
type Candidates struct{}

// New returns the candidate analyzer joined by word_id.
func New() *analyzer.Analyzer {
	a, err := analyzer.New(Candidates{}, []string{validations.WordID}, separator.ColWord)
	if err != nil {
		panic(err)
	}
	return a
}

// AnalyzeInner implements analyzer.Inner.
func (Candidates) AnalyzeInner(f *frame.Frame) (*frame.Frame, error) {
	ids, kinds := []any{}, []any{}
	for i := 0; i < f.Len(); i++ {
		word, _ := frame.AsString(f.Value(separator.ColWord, i))
		if kind := nn.Classify(word); kind != nn.None {
			ids = append(ids, f.Value(validations.WordID, i))
			kinds = append(kinds, kind.String())
		}
	}
	return frame.New([]string{validations.WordID, ColKind}, [][]any{ids, kinds})
}
