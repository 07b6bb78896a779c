// Package algorithm provides the per-paragraph checking contract: an
// algorithm marks which rows to check, validates its input and writes a
// status column, and optionally a suggestion column, for the checked rows.
package algorithm

import (
	"fmt"
	"reflect"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
	"github.com/cognicore/grammaru/pkg/grammaru/validations"
)

// CheckRequested is the transient column marking rows an algorithm run
// should evaluate.
const CheckRequested = "check_requested"

// Checker is the step a concrete algorithm supplies. It receives a
// validated frame carrying check_requested and returns one verdict entry per
// row.
type Checker interface {
	Check(f *frame.Frame) (Verdict, error)
}

// Namer lets a checker override the name reported by Algorithm.Name.
type Namer interface {
	Name() string
}

// Verdict holds the values a checker wants written. Status must have one
// entry per row. Suggest may be nil; otherwise it needs one entry per row
// too.
type Verdict struct {
	Status  []any
	Suggest []any
}

// Options configures an Algorithm.
type Options struct {
	StatusColumn  string
	SuggestColumn string // optional
	Required      []string
}

// Algorithm runs a Checker over word-row frames.
type Algorithm struct {
	checker  Checker
	status   string
	suggest  string
	required []string
}

// New creates an algorithm. A checker and a status column are mandatory.
func New(checker Checker, opts Options) (*Algorithm, error) {
	if checker == nil {
		return nil, fmt.Errorf("%w: algorithm needs a checker", internalerr.ErrInvalidInput)
	}
	if opts.StatusColumn == "" {
		return nil, fmt.Errorf("%w: algorithm needs a status column", internalerr.ErrInvalidInput)
	}
	if opts.StatusColumn == opts.SuggestColumn {
		return nil, fmt.Errorf("%w: status and suggestion column are both %q", internalerr.ErrDuplicate, opts.StatusColumn)
	}
	return &Algorithm{
		checker:  checker,
		status:   opts.StatusColumn,
		suggest:  opts.SuggestColumn,
		required: append([]string(nil), opts.Required...),
	}, nil
}

// StatusColumn returns the column the status is written to.
func (a *Algorithm) StatusColumn() string { return a.status }

// SuggestColumn returns the suggestion column, or "" if there is none.
func (a *Algorithm) SuggestColumn() string { return a.suggest }

// Name identifies the algorithm by its checker's type name.
func (a *Algorithm) Name() string {
	if n, ok := a.checker.(Namer); ok {
		return n.Name()
	}
	t := reflect.TypeOf(a.checker)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Paragraphs is a set of paragraph ids. A nil set means every paragraph.
type Paragraphs map[int64]struct{}

// ParagraphSet builds a non-nil set from ids; with no ids it matches
// nothing.
func ParagraphSet(ids ...int) Paragraphs {
	p := make(Paragraphs, len(ids))
	for _, id := range ids {
		p[int64(id)] = struct{}{}
	}
	return p
}

// Contains reports whether the paragraph id is in the set.
func (p Paragraphs) Contains(v any) bool {
	id, ok := frame.AsInt(v)
	if !ok {
		return false
	}
	_, in := p[id]
	return in
}

// PutCheckRequested returns a copy of f with the check_requested column set:
// true everywhere when paragraphs is nil, otherwise true only for rows whose
// paragraph_id is in the set.
func (a *Algorithm) PutCheckRequested(f *frame.Frame, paragraphs Paragraphs) (*frame.Frame, error) {
	if paragraphs == nil {
		return f.WithColumn(CheckRequested, frame.Fill(f.Len(), true))
	}
	ids, ok := f.Column(validations.ParagraphID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrMissingColumns, validations.ParagraphID)
	}
	flags := make([]any, len(ids))
	for i, id := range ids {
		flags[i] = paragraphs.Contains(id)
	}
	return f.WithColumn(CheckRequested, flags)
}

// Validate fails unless f carries the coordinates, check_requested and the
// declared required columns.
func (a *Algorithm) Validate(f *frame.Frame) error {
	return validations.EnsureContains(validations.WithCoordinates(append([]string{CheckRequested}, a.required...)...), f)
}

// Result is the outcome of one run.
type Result struct {
	Frame   *frame.Frame
	Applied Applied
}

// Applied records what a run changed. Flagged counts rows whose status is
// false.
type Applied struct {
	Columns []string
	Checked int
	Flagged int
}

// Run marks the rows to check, validates and applies the checker. f itself
// is never modified; the returned frame carries check_requested and the
// status and suggestion columns.
func (a *Algorithm) Run(f *frame.Frame, paragraphs Paragraphs) (Result, error) {
	marked, err := a.PutCheckRequested(f, paragraphs)
	if err != nil {
		return Result{}, err
	}
	if err := a.Validate(marked); err != nil {
		return Result{}, err
	}

	verdict, err := a.checker.Check(marked)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.Name(), err)
	}
	if len(verdict.Status) != marked.Len() {
		return Result{}, fmt.Errorf("%w: %s returned %d statuses for %d rows", internalerr.ErrInvalidInput, a.Name(), len(verdict.Status), marked.Len())
	}

	out, err := marked.WithColumn(a.status, verdict.Status)
	if err != nil {
		return Result{}, err
	}
	applied := Applied{Columns: []string{CheckRequested, a.status}}

	if a.suggest != "" {
		suggest := verdict.Suggest
		if suggest == nil {
			suggest = make([]any, marked.Len())
		}
		if len(suggest) != marked.Len() {
			return Result{}, fmt.Errorf("%w: %s returned %d suggestions for %d rows", internalerr.ErrInvalidInput, a.Name(), len(suggest), marked.Len())
		}
		if out, err = out.WithColumn(a.suggest, suggest); err != nil {
			return Result{}, err
		}
		applied.Columns = append(applied.Columns, a.suggest)
	}

	for i := 0; i < marked.Len(); i++ {
		if requested, _ := frame.AsBool(marked.Value(CheckRequested, i)); requested {
			applied.Checked++
		}
		if ok, isBool := frame.AsBool(verdict.Status[i]); isBool && !ok {
			applied.Flagged++
		}
	}

	return Result{Frame: out, Applied: applied}, nil
}

// RunOnText separates lines into paragraphs and runs the algorithm.
func (a *Algorithm) RunOnText(lines []string, paragraphs Paragraphs) (Result, error) {
	return a.Run(separator.SeparateParagraphs(lines), paragraphs)
}

// RunOnString separates text and runs the algorithm.
func (a *Algorithm) RunOnString(text string, paragraphs Paragraphs) (Result, error) {
	return a.Run(separator.SeparateString(text), paragraphs)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(f *frame.Frame) (Verdict, error)

// Check calls fn(f).
func (fn CheckerFunc) Check(f *frame.Frame) (Verdict, error) { return fn(f) }
