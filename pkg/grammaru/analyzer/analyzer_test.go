package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
)

func wordTable() *frame.Frame {
	return frame.MustNew(
		[]string{"word_id", "sentence_id", "paragraph_id", "word_index", "word"},
		[][]any{{0, 1}, {0, 0}, {0, 0}, {0, 1}, {"красный", "дом"}},
	)
}

// lengthAnalyzer derives X from the word column.
type lengthAnalyzer struct{ calls int }

func (l *lengthAnalyzer) AnalyzeInner(f *frame.Frame) (*frame.Frame, error) {
	l.calls++
	ids, _ := f.Column("word_id")
	words, _ := f.Column("word")
	x := make([]any, len(words))
	for i, w := range words {
		x[i] = len([]rune(w.(string)))
	}
	return frame.New([]string{"word_id", "X"}, [][]any{ids, x})
}

func TestApplyAddsDerivedColumn(t *testing.T) {
	inner := &lengthAnalyzer{}
	a, err := New(inner, []string{"word_id"}, "word")
	require.NoError(t, err)

	in := wordTable()
	out, err := a.Apply(in)
	require.NoError(t, err)

	assert.Equal(t, in.Len(), out.Len())
	assert.Equal(t, append(in.Columns(), "X"), out.Columns())
	assert.Equal(t, 7, out.Value("X", 0))
	assert.Equal(t, 3, out.Value("X", 1))
	assert.False(t, in.Has("X"))
}

func TestApplyNullsForMissingKeys(t *testing.T) {
	partial := InnerFunc(func(f *frame.Frame) (*frame.Frame, error) {
		return frame.New([]string{"word_id", "X"}, [][]any{{1}, {"only"}})
	})
	a, err := New(partial, []string{"word_id"})
	require.NoError(t, err)

	out, err := a.Apply(wordTable())
	require.NoError(t, err)
	assert.Nil(t, out.Value("X", 0))
	assert.Equal(t, "only", out.Value("X", 1))
}

func TestValidateFailsBeforeInnerRuns(t *testing.T) {
	inner := &lengthAnalyzer{}
	a, err := New(inner, []string{"word_id"}, "lemma")
	require.NoError(t, err)

	_, err = a.Apply(wordTable())
	assert.True(t, errors.Is(err, internalerr.ErrMissingColumns))
	assert.Zero(t, inner.calls)

	noCoords := frame.MustNew([]string{"word_id", "lemma"}, [][]any{{0}, {"дом"}})
	_, err = a.Analyze(noCoords)
	assert.True(t, errors.Is(err, internalerr.ErrMissingColumns))
	assert.Zero(t, inner.calls)
}

func TestAnalyzeRejectsCopiedInputColumns(t *testing.T) {
	copying := InnerFunc(func(f *frame.Frame) (*frame.Frame, error) {
		return f.Select("word_id", "word")
	})
	a, err := New(copying, []string{"word_id"})
	require.NoError(t, err)

	_, err = a.Analyze(wordTable())
	assert.True(t, errors.Is(err, internalerr.ErrColumnConflict))
}

func TestAnalyzeRequiresJoinKeysInOutput(t *testing.T) {
	keyless := InnerFunc(func(f *frame.Frame) (*frame.Frame, error) {
		return frame.New([]string{"X"}, [][]any{{1, 2}})
	})
	a, err := New(keyless, []string{"word_id"})
	require.NoError(t, err)

	_, err = a.Analyze(wordTable())
	assert.True(t, errors.Is(err, internalerr.ErrMissingColumns))
}

func TestNewRejectsMissingStep(t *testing.T) {
	_, err := New(nil, []string{"word_id"})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	_, err = New(&lengthAnalyzer{}, nil)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}
