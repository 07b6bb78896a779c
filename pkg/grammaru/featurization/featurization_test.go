package featurization

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/grammaru/pkg/grammaru/analyzers/nncandidate"
	"github.com/cognicore/grammaru/pkg/grammaru/datasource"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
	"github.com/cognicore/grammaru/pkg/grammaru/store/memstore"
)

type failing struct{}

func (failing) Apply(f *frame.Frame) (*frame.Frame, error) {
	return nil, errors.New("boom")
}

type identity struct{}

func (identity) Apply(f *frame.Frame) (*frame.Frame, error) { return f, nil }

func TestJobRunWritesOneSetPerFeaturizer(t *testing.T) {
	ctx := context.Background()
	in := separator.SeparateString("Деревянный стол стоял.")
	sink := NewMemorySink()

	job, err := NewJob(Options{
		Source: datasource.NewMock(in),
		Featurizers: map[string]Featurizer{
			"nn":       nncandidate.New(),
			"identity": identity{},
		},
		Destination: sink,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultName, job.Name())
	assert.Equal(t, DefaultVersion, job.Version())

	run, err := job.Run(ctx)
	require.NoError(t, err)

	_, err = ulid.Parse(run.ID)
	assert.NoError(t, err, "run id should be a ULID")
	assert.Equal(t, in.Len(), run.InputRows)
	assert.Equal(t, map[string]int{"nn": in.Len(), "identity": in.Len()}, run.Rows)

	sets := sink.Sets()
	require.Len(t, sets, 2)
	assert.Equal(t, "identity", sets[0].Featurizer)
	assert.Equal(t, "nn", sets[1].Featurizer)
	for _, fs := range sets {
		assert.Equal(t, run.ID, fs.RunID)
	}
	assert.Equal(t, "nn", sets[1].Frame.Value(nncandidate.ColKind, 0))
}

func TestJobRunIDsAreMonotonic(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	job, err := NewJob(Options{
		Source:      datasource.NewMock(separator.SeparateString("а")),
		Featurizers: map[string]Featurizer{"id": identity{}},
		Now:         func() time.Time { return fixed },
	})
	require.NoError(t, err)

	first, err := job.Run(context.Background())
	require.NoError(t, err)
	second, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Less(t, first.ID, second.ID)
}

func TestJobRunStoreSink(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	job, err := NewJob(Options{
		Name:        "nn-features",
		Version:     "v2",
		Source:      datasource.NewMock(separator.SeparateString("стеклянный")),
		Featurizers: map[string]Featurizer{"nn": nncandidate.New()},
		Destination: StoreSink{Store: st},
	})
	require.NoError(t, err)

	run, err := job.Run(ctx)
	require.NoError(t, err)

	fs, ok, err := st.GetFeatures(ctx, "nn-features", "v2", "nn")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, run.ID, fs.RunID)
}

func TestJobRunStopsOnFailure(t *testing.T) {
	sink := NewMemorySink()
	job, err := NewJob(Options{
		Source:      datasource.NewMock(separator.SeparateString("а")),
		Featurizers: map[string]Featurizer{"a": identity{}, "b": failing{}, "c": identity{}},
		Destination: sink,
	})
	require.NoError(t, err)

	_, err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "featurizer b")
	assert.Len(t, sink.Sets(), 1)
}

func TestJobRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job, err := NewJob(Options{
		Source:      datasource.NewMock(separator.SeparateString("а")),
		Featurizers: map[string]Featurizer{"a": identity{}},
	})
	require.NoError(t, err)
	_, err = job.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewJobValidation(t *testing.T) {
	src := datasource.NewMock(frame.Empty())

	_, err := NewJob(Options{Featurizers: map[string]Featurizer{"a": identity{}}})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	_, err = NewJob(Options{Source: src})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	_, err = NewJob(Options{Source: src, Featurizers: map[string]Featurizer{"": identity{}}})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}
