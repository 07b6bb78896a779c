// Package pipeline runs a named set of analyzers over word-row frames.
package pipeline

import (
	"context"
	"fmt"

	"github.com/cognicore/grammaru/pkg/grammaru/datasource"
	"github.com/cognicore/grammaru/pkg/grammaru/featurization"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
)

// Analyzer is anything that annotates a frame; *analyzer.Analyzer is the
// usual implementation.
type Analyzer = featurization.Featurizer

// Named pairs an analyzer with the name its results are reported under.
type Named struct {
	Name     string
	Analyzer Analyzer
}

// Pipeline holds analyzers in order. Every analyzer sees the same input
// frame; outputs are not chained.
type Pipeline struct {
	analyzers []Named
}

// New creates a pipeline. Names must be non-empty and unique.
func New(analyzers ...Named) (*Pipeline, error) {
	seen := make(map[string]bool, len(analyzers))
	for _, a := range analyzers {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: analyzer without a name", internalerr.ErrInvalidInput)
		}
		if a.Analyzer == nil {
			return nil, fmt.Errorf("%w: analyzer %q is nil", internalerr.ErrInvalidInput, a.Name)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("%w: analyzer name %q", internalerr.ErrDuplicate, a.Name)
		}
		seen[a.Name] = true
	}
	return &Pipeline{analyzers: append([]Named(nil), analyzers...)}, nil
}

// Names returns the analyzer names in pipeline order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.analyzers))
	for i, a := range p.analyzers {
		names[i] = a.Name
	}
	return names
}

// AnalyzeFrame applies every analyzer to f independently and returns the
// results keyed by analyzer name.
func (p *Pipeline) AnalyzeFrame(f *frame.Frame) (map[string]*frame.Frame, error) {
	results := make(map[string]*frame.Frame, len(p.analyzers))
	for _, a := range p.analyzers {
		out, err := a.Analyzer.Apply(f)
		if err != nil {
			return nil, fmt.Errorf("analyzer %s: %w", a.Name, err)
		}
		results[a.Name] = out
	}
	return results, nil
}

// Analyze reads src into a frame and runs AnalyzeFrame on it.
func (p *Pipeline) Analyze(ctx context.Context, src datasource.Source) (map[string]*frame.Frame, error) {
	f, err := datasource.ToFrame(ctx, src)
	if err != nil {
		return nil, err
	}
	return p.AnalyzeFrame(f)
}

// FrameToJob packages the analyzers as a featurization job over f.
func (p *Pipeline) FrameToJob(f *frame.Frame, opts featurization.Options) (*featurization.Job, error) {
	return p.SourceToJob(datasource.NewMock(f), opts)
}

// SourceToJob packages the analyzers as a featurization job over src.
// opts.Source and opts.Featurizers are overwritten.
func (p *Pipeline) SourceToJob(src datasource.Source, opts featurization.Options) (*featurization.Job, error) {
	opts.Source = src
	opts.Featurizers = make(map[string]featurization.Featurizer, len(p.analyzers))
	for _, a := range p.analyzers {
		opts.Featurizers[a.Name] = a.Analyzer
	}
	return featurization.NewJob(opts)
}
