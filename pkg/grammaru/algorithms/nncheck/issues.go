package nncheck

import (
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
	"github.com/cognicore/grammaru/pkg/grammaru/validations"
)

// Issue is one flagged word of a checked frame.
type Issue struct {
	Word        string `json:"word"`
	Suggestion  string `json:"suggestion"`
	ParagraphID int64  `json:"paragraph_id"`
	SentenceID  int64  `json:"sentence_id"`
	WordIndex   int64  `json:"word_index"`
}

// Issues lists the rows of a checked frame whose status is false.
func Issues(f *frame.Frame) []Issue {
	var out []Issue
	for i := 0; i < f.Len(); i++ {
		if ok, isBool := frame.AsBool(f.Value(StatusColumn, i)); !isBool || ok {
			continue
		}
		word, _ := frame.AsString(f.Value(separator.ColWord, i))
		sugg, _ := frame.AsString(f.Value(SuggestColumn, i))
		para, _ := frame.AsInt(f.Value(validations.ParagraphID, i))
		sent, _ := frame.AsInt(f.Value(validations.SentenceID, i))
		idx, _ := frame.AsInt(f.Value(validations.WordIndex, i))
		out = append(out, Issue{Word: word, Suggestion: sugg, ParagraphID: para, SentenceID: sent, WordIndex: idx})
	}
	return out
}
