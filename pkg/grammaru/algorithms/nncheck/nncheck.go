// Package nncheck flags н/нн spelling mistakes against a vocabulary of
// attested word forms.
package nncheck

import (
	"fmt"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/algorithm"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/nn"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
)

// Columns written by the algorithm.
const (
	StatusColumn  = "nn_status"
	SuggestColumn = "nn_suggest"
)

// Checker decides н/нн spelling by vocabulary lookup.
type Checker struct {
	vocab map[string]struct{}
}

// NewChecker builds a checker from attested forms. Case is ignored.
func NewChecker(vocabulary []string) *Checker {
	v := make(map[string]struct{}, len(vocabulary))
	for _, w := range vocabulary {
		v[strings.ToLower(w)] = struct{}{}
	}
	return &Checker{vocab: v}
}

// New returns the н/нн algorithm over the given vocabulary.
func New(vocabulary []string) (*algorithm.Algorithm, error) {
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty н/нн vocabulary", internalerr.ErrInvalidInput)
	}
	return algorithm.New(NewChecker(vocabulary), algorithm.Options{
		StatusColumn:  StatusColumn,
		SuggestColumn: SuggestColumn,
		Required:      []string{separator.ColWord},
	})
}

// Name implements algorithm.Namer.
func (c *Checker) Name() string { return "NNChecker" }

// Check implements algorithm.Checker. For every requested candidate word
// the status is true unless only the counterpart spelling is attested, in
// which case it is false and the counterpart is suggested. Rows that are
// not requested or not candidates stay nil.
func (c *Checker) Check(f *frame.Frame) (algorithm.Verdict, error) {
	v := algorithm.Verdict{
		Status:  make([]any, f.Len()),
		Suggest: make([]any, f.Len()),
	}
	for i := 0; i < f.Len(); i++ {
		if requested, _ := frame.AsBool(f.Value(algorithm.CheckRequested, i)); !requested {
			continue
		}
		word, _ := frame.AsString(f.Value(separator.ColWord, i))
		status, suggestion, ok := c.CheckWord(word)
		if !ok {
			continue
		}
		v.Status[i] = status
		if suggestion != "" {
			v.Suggest[i] = suggestion
		}
	}
	return v, nil
}

// CheckWord checks a single word. ok is false for non-candidates.
func (c *Checker) CheckWord(word string) (correct bool, suggestion string, ok bool) {
	other, candidate := nn.Counterpart(word)
	if !candidate {
		return false, "", false
	}
	if c.attested(word) || !c.attested(other) {
		return true, "", true
	}
	return false, other, true
}

func (c *Checker) attested(word string) bool {
	_, ok := c.vocab[strings.ToLower(word)]
	return ok
}
