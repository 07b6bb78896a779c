// Package analyzer provides the stateless word annotator contract: an
// analyzer derives new columns from a word-row frame and joins them back
// onto it by a key such as word_id.
package analyzer

import (
	"fmt"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/validations"
)

// Inner is the analysis step a concrete analyzer supplies. It receives a
// validated frame and returns a frame holding the join keys and only the
// newly derived columns, at most one row per key.
type Inner interface {
	AnalyzeInner(f *frame.Frame) (*frame.Frame, error)
}

// InnerFunc adapts a function to Inner.
type InnerFunc func(f *frame.Frame) (*frame.Frame, error)

// AnalyzeInner calls fn(f).
func (fn InnerFunc) AnalyzeInner(f *frame.Frame) (*frame.Frame, error) { return fn(f) }

// Analyzer wraps an Inner step with input validation and the join back onto
// the input frame.
type Analyzer struct {
	inner    Inner
	joinBy   []string
	required []string
}

// New creates an analyzer joined by joinBy that additionally requires the
// given input columns.
func New(inner Inner, joinBy []string, required ...string) (*Analyzer, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: analyzer needs an analysis step", internalerr.ErrInvalidInput)
	}
	if len(joinBy) == 0 {
		return nil, fmt.Errorf("%w: analyzer needs at least one join column", internalerr.ErrInvalidInput)
	}
	return &Analyzer{
		inner:    inner,
		joinBy:   append([]string(nil), joinBy...),
		required: append([]string(nil), required...),
	}, nil
}

// JoinBy returns the join key columns.
func (a *Analyzer) JoinBy() []string { return append([]string(nil), a.joinBy...) }

// Required returns the extra input columns beyond the word coordinates.
func (a *Analyzer) Required() []string { return append([]string(nil), a.required...) }

// Validate fails if f lacks a coordinate column or a declared required column.
func (a *Analyzer) Validate(f *frame.Frame) error {
	return validations.EnsureContains(validations.WithCoordinates(a.required...), f)
}

// Analyze validates f and runs the inner step. The result is checked to
// carry the join keys and no copies of input columns.
func (a *Analyzer) Analyze(f *frame.Frame) (*frame.Frame, error) {
	if err := a.Validate(f); err != nil {
		return nil, err
	}
	out, err := a.inner.AnalyzeInner(f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: analysis step returned no frame", internalerr.ErrInvalidInput)
	}
	if err := validations.EnsureContains(a.joinBy, out); err != nil {
		return nil, fmt.Errorf("analysis output: %w", err)
	}
	isKey := make(map[string]bool, len(a.joinBy))
	for _, k := range a.joinBy {
		isKey[k] = true
	}
	for _, col := range out.Columns() {
		if !isKey[col] && f.Has(col) {
			return nil, fmt.Errorf("%w: analysis output repeats input column %q", internalerr.ErrColumnConflict, col)
		}
	}
	return out, nil
}

// Apply analyzes f and left-joins the result onto it. The returned frame
// has every row and column of f plus the derived columns; f is unchanged.
func (a *Analyzer) Apply(f *frame.Frame) (*frame.Frame, error) {
	out, err := a.Analyze(f)
	if err != nil {
		return nil, err
	}
	return f.LeftJoin(out, a.joinBy)
}
