// Package validations checks word-row frames before analysis.
package validations

import (
	"fmt"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
)

// Coordinate columns locating a word inside a document.
const (
	WordID      = "word_id"
	SentenceID  = "sentence_id"
	ParagraphID = "paragraph_id"
	WordIndex   = "word_index"
)

// WordCoordinates must be present in every frame handed to an analyzer or
// algorithm.
var WordCoordinates = []string{WordID, SentenceID, ParagraphID, WordIndex}

// EnsureContains fails with internalerr.ErrMissingColumns if f lacks any of
// the required columns. All missing names are reported at once.
func EnsureContains(required []string, f *frame.Frame) error {
	var missing []string
	seen := make(map[string]bool, len(required))
	for _, col := range required {
		if seen[col] {
			continue
		}
		seen[col] = true
		if !f.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// WithCoordinates prepends the coordinate columns to extra.
func WithCoordinates(extra ...string) []string {
	out := make([]string, 0, len(WordCoordinates)+len(extra))
	out = append(out, WordCoordinates...)
	return append(out, extra...)
}
