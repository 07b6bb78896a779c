// Package featurization runs a set of named featurizers over a data source
// and persists each featurizer's output.
package featurization

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/grammaru/pkg/grammaru/datasource"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/store"
)

// Defaults for unnamed jobs.
const (
	DefaultName    = "job"
	DefaultVersion = "v1"
)

// Featurizer derives a feature frame from a word-row frame. Analyzers
// satisfy it through their Apply method.
type Featurizer interface {
	Apply(f *frame.Frame) (*frame.Frame, error)
}

// Sink receives featurizer outputs.
type Sink interface {
	Write(ctx context.Context, fs store.FeatureSet) error
}

// Options configures a Job.
type Options struct {
	Name        string
	Version     string
	Source      datasource.Source
	Featurizers map[string]Featurizer
	// Destination defaults to a MemorySink.
	Destination Sink
	// Logger for job events. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Job applies featurizers to a source.
type Job struct {
	name        string
	version     string
	source      datasource.Source
	featurizers map[string]Featurizer
	dest        Sink
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewJob validates opts and creates a job.
func NewJob(opts Options) (*Job, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("%w: featurization job needs a source", internalerr.ErrInvalidInput)
	}
	if len(opts.Featurizers) == 0 {
		return nil, fmt.Errorf("%w: featurization job needs at least one featurizer", internalerr.ErrInvalidInput)
	}
	for name, f := range opts.Featurizers {
		if name == "" || f == nil {
			return nil, fmt.Errorf("%w: featurizer %q is empty", internalerr.ErrInvalidInput, name)
		}
	}

	j := &Job{
		name:        opts.Name,
		version:     opts.Version,
		source:      opts.Source,
		featurizers: make(map[string]Featurizer, len(opts.Featurizers)),
		dest:        opts.Destination,
		logger:      opts.Logger,
		now:         opts.Now,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
	for name, f := range opts.Featurizers {
		j.featurizers[name] = f
	}
	if j.name == "" {
		j.name = DefaultName
	}
	if j.version == "" {
		j.version = DefaultVersion
	}
	if j.dest == nil {
		j.dest = NewMemorySink()
	}
	if j.logger == nil {
		j.logger = slog.Default()
	}
	if j.now == nil {
		j.now = time.Now
	}
	return j, nil
}

// Name returns the job name.
func (j *Job) Name() string { return j.name }

// Version returns the job version.
func (j *Job) Version() string { return j.version }

// Destination returns the sink outputs are written to.
func (j *Job) Destination() Sink { return j.dest }

// Featurizers returns the featurizer names in sorted order.
func (j *Job) Featurizers() []string {
	names := make([]string, 0, len(j.featurizers))
	for name := range j.featurizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run records one execution of a job.
type Run struct {
	ID        string
	Job       string
	Version   string
	StartedAt time.Time
	Duration  time.Duration
	InputRows int
	Rows      map[string]int // featurizer -> output rows
}

// Run reads the source once and writes one feature set per featurizer, in
// name order. The first failure aborts the run.
func (j *Job) Run(ctx context.Context) (Run, error) {
	started := j.now()
	run := Run{
		ID:        j.newID(started),
		Job:       j.name,
		Version:   j.version,
		StartedAt: started,
		Rows:      make(map[string]int, len(j.featurizers)),
	}
	logger := j.logger.With("job", j.name, "version", j.version, "run_id", run.ID)

	input, err := datasource.ToFrame(ctx, j.source)
	if err != nil {
		return run, fmt.Errorf("read source: %w", err)
	}
	run.InputRows = input.Len()
	logger.Info("featurization started", "rows", input.Len(), "featurizers", len(j.featurizers))

	for _, name := range j.Featurizers() {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		out, err := j.featurizers[name].Apply(input)
		if err != nil {
			return run, fmt.Errorf("featurizer %s: %w", name, err)
		}
		fs := store.FeatureSet{
			Job:        j.name,
			Version:    j.version,
			Featurizer: name,
			RunID:      run.ID,
			CreatedAt:  j.now(),
			Frame:      out,
		}
		if err := j.dest.Write(ctx, fs); err != nil {
			return run, fmt.Errorf("write %s: %w", name, err)
		}
		run.Rows[name] = out.Len()
		logger.Debug("featurizer done", "featurizer", name, "rows", out.Len())
	}

	run.Duration = j.now().Sub(started)
	logger.Info("featurization finished", "duration", run.Duration)
	return run, nil
}

func (j *Job) newID(t time.Time) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), j.entropy).String()
}
