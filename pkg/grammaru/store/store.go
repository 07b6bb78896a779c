package store

import (
	"context"
	"time"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
)

// Store persists corpus frames and featurization outputs.
type Store interface {
	Close() error

	// Corpus frames, one per source file, kept in insertion order
	PutFrame(ctx context.Context, e FrameEntry) error
	GetFrame(ctx context.Context, fileID string) (FrameEntry, bool, error)
	FileIDs(ctx context.Context) ([]string, error)
	DeleteFrame(ctx context.Context, fileID string) error

	// Featurization outputs
	PutFeatures(ctx context.Context, fs FeatureSet) error
	GetFeatures(ctx context.Context, job, version, featurizer string) (FeatureSet, bool, error)
	ListFeaturizers(ctx context.Context, job, version string) ([]string, error)
}

// FrameEntry is a stored corpus frame.
type FrameEntry struct {
	FileID string
	Name   string // human-readable source name, e.g. the original file
	Frame  *frame.Frame
}

// FeatureSet is the output of one featurizer in one job run.
type FeatureSet struct {
	Job        string
	Version    string
	Featurizer string
	RunID      string
	CreatedAt  time.Time
	Frame      *frame.Frame
}
