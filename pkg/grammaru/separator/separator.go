// Package separator turns raw text into word-row frames: one row per word
// or punctuation token, carrying the coordinate columns every analyzer
// expects.
package separator

import (
	"strings"
	"unicode/utf8"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/validations"
)

// Columns written by the separator, in order.
const (
	ColWord       = "word"
	ColWordType   = "word_type"
	ColWordLength = "word_length"
	ColWordTail   = "word_tail"
)

// Columns lists every column a separated frame carries.
var Columns = validations.WithCoordinates(ColWord, ColWordType, ColWordLength, ColWordTail)

// SeparateParagraphs builds a frame from lines, one paragraph per non-blank
// line. word_id and sentence_id are numbered across the whole text,
// paragraph_id counts non-blank lines, word_index restarts per sentence.
func SeparateParagraphs(lines []string) *frame.Frame {
	data := make([][]any, len(Columns))
	wordID, sentenceID, paragraphID := 0, 0, 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tokens := Tokenize(line)
		wordIndex := 0
		for i, tok := range tokens {
			row := []any{
				wordID,
				sentenceID,
				paragraphID,
				wordIndex,
				tok.Text,
				tok.Type,
				utf8.RuneCountInString(tok.Text),
				tok.Tail,
			}
			for c := range data {
				data[c] = append(data[c], row[c])
			}
			wordID++
			wordIndex++
			if endsSentence(tok) && i < len(tokens)-1 {
				sentenceID++
				wordIndex = 0
			}
		}
		if len(tokens) > 0 {
			sentenceID++
		}
		paragraphID++
	}

	for c := range data {
		if data[c] == nil {
			data[c] = []any{}
		}
	}
	return frame.MustNew(Columns, data)
}

// SeparateString splits text on line breaks and separates the lines.
func SeparateString(text string) *frame.Frame {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return SeparateParagraphs(strings.Split(text, "\n"))
}
