package algorithm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
)

// capsChecker flags capitalised words in checked rows.
type capsChecker struct{ calls int }

func (c *capsChecker) Check(f *frame.Frame) (Verdict, error) {
	c.calls++
	v := Verdict{Status: make([]any, f.Len()), Suggest: make([]any, f.Len())}
	for i := 0; i < f.Len(); i++ {
		if ok, _ := frame.AsBool(f.Value(CheckRequested, i)); !ok {
			continue
		}
		w, _ := frame.AsString(f.Value("word", i))
		lower := []rune(w)
		if len(lower) > 0 && lower[0] >= 'А' && lower[0] <= 'Я' {
			v.Status[i] = false
			lower[0] += 'а' - 'А'
			v.Suggest[i] = string(lower)
		} else {
			v.Status[i] = true
		}
	}
	return v, nil
}

type namedChecker struct{ capsChecker }

func (namedChecker) Name() string { return "caps" }

func twoRows() *frame.Frame {
	return frame.MustNew(
		[]string{"word_id", "sentence_id", "paragraph_id", "word_index", "word"},
		[][]any{{0, 1}, {0, 0}, {1, 1}, {0, 1}, {"Мама", "мыла"}},
	)
}

func newCaps(t *testing.T) (*Algorithm, *capsChecker) {
	t.Helper()
	c := &capsChecker{}
	a, err := New(c, Options{StatusColumn: "caps_ok", SuggestColumn: "caps_fix", Required: []string{"word"}})
	require.NoError(t, err)
	return a, c
}

func TestPutCheckRequested(t *testing.T) {
	a, _ := newCaps(t)
	in := twoRows()

	none, err := a.PutCheckRequested(in, ParagraphSet(2))
	require.NoError(t, err)
	flags, _ := none.Column(CheckRequested)
	assert.Equal(t, []any{false, false}, flags)

	all, err := a.PutCheckRequested(in, nil)
	require.NoError(t, err)
	flags, _ = all.Column(CheckRequested)
	assert.Equal(t, []any{true, true}, flags)

	some, err := a.PutCheckRequested(in, ParagraphSet(1))
	require.NoError(t, err)
	flags, _ = some.Column(CheckRequested)
	assert.Equal(t, []any{true, true}, flags)

	assert.False(t, in.Has(CheckRequested), "input frame must stay untouched")
}

func TestPutCheckRequestedMixedParagraphs(t *testing.T) {
	a, _ := newCaps(t)
	f := frame.MustNew(
		[]string{"word_id", "sentence_id", "paragraph_id", "word_index"},
		[][]any{{0, 1, 2}, {0, 1, 2}, {int64(0), int64(1), int64(2)}, {0, 0, 0}},
	)
	out, err := a.PutCheckRequested(f, ParagraphSet(0, 2))
	require.NoError(t, err)
	flags, _ := out.Column(CheckRequested)
	assert.Equal(t, []any{true, false, true}, flags)

	empty, err := a.PutCheckRequested(f, ParagraphSet())
	require.NoError(t, err)
	flags, _ = empty.Column(CheckRequested)
	assert.Equal(t, []any{false, false, false}, flags)
}

func TestRunWritesStatusAndSuggestion(t *testing.T) {
	a, c := newCaps(t)
	in := twoRows()

	res, err := a.Run(in, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.calls)

	status, _ := res.Frame.Column("caps_ok")
	suggest, _ := res.Frame.Column("caps_fix")
	assert.Equal(t, []any{false, true}, status)
	assert.Equal(t, []any{"мама", nil}, suggest)
	assert.Equal(t, []string{CheckRequested, "caps_ok", "caps_fix"}, res.Applied.Columns)
	assert.Equal(t, 2, res.Applied.Checked)
	assert.Equal(t, 1, res.Applied.Flagged)

	assert.False(t, in.Has("caps_ok"))
	assert.False(t, in.Has(CheckRequested))
}

func TestRunRespectsParagraphs(t *testing.T) {
	a, _ := newCaps(t)
	res, err := a.Run(twoRows(), ParagraphSet(7))
	require.NoError(t, err)
	status, _ := res.Frame.Column("caps_ok")
	assert.Equal(t, []any{nil, nil}, status)
	assert.Zero(t, res.Applied.Checked)
}

func TestRunValidatesBeforeChecking(t *testing.T) {
	a, c := newCaps(t)
	noWord := frame.MustNew(
		[]string{"word_id", "sentence_id", "paragraph_id", "word_index"},
		[][]any{{0}, {0}, {0}, {0}},
	)
	_, err := a.Run(noWord, nil)
	assert.True(t, errors.Is(err, internalerr.ErrMissingColumns))
	assert.Zero(t, c.calls)
}

func TestRunRejectsShortVerdict(t *testing.T) {
	a, err := New(CheckerFunc(func(f *frame.Frame) (Verdict, error) {
		return Verdict{Status: []any{true}}, nil
	}), Options{StatusColumn: "s"})
	require.NoError(t, err)

	_, err = a.Run(twoRows(), nil)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func TestRunWithoutSuggestColumn(t *testing.T) {
	a, err := New(CheckerFunc(func(f *frame.Frame) (Verdict, error) {
		return Verdict{Status: frame.Fill(f.Len(), true)}, nil
	}), Options{StatusColumn: "s"})
	require.NoError(t, err)

	res, err := a.Run(twoRows(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{CheckRequested, "s"}, res.Applied.Columns)
	assert.Equal(t, "", a.SuggestColumn())
}

func TestRunOnString(t *testing.T) {
	a, _ := newCaps(t)
	res, err := a.RunOnString("Мама мыла раму.\nПапа спал.", ParagraphSet(1))
	require.NoError(t, err)

	for i := 0; i < res.Frame.Len(); i++ {
		requested := res.Frame.Value(CheckRequested, i).(bool)
		paragraph := res.Frame.Value("paragraph_id", i).(int)
		assert.Equal(t, paragraph == 1, requested)
	}
	assert.Equal(t, 1, res.Applied.Flagged)
}

func TestRunOnText(t *testing.T) {
	a, _ := newCaps(t)
	res, err := a.RunOnText([]string{"Мама", "Папа"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied.Flagged)
}

func TestName(t *testing.T) {
	a, _ := newCaps(t)
	assert.Equal(t, "capsChecker", a.Name())

	named, err := New(&namedChecker{}, Options{StatusColumn: "s"})
	require.NoError(t, err)
	assert.Equal(t, "caps", named.Name())
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(nil, Options{StatusColumn: "s"})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	_, err = New(&capsChecker{}, Options{})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	_, err = New(&capsChecker{}, Options{StatusColumn: "s", SuggestColumn: "s"})
	assert.True(t, errors.Is(err, internalerr.ErrDuplicate))
}
