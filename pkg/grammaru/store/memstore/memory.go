package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	nextSeq  int64
	frames   map[string]store.FrameEntry
	seq      map[string]int64
	features map[string]store.FeatureSet
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		frames:   make(map[string]store.FrameEntry),
		seq:      make(map[string]int64),
		features: make(map[string]store.FeatureSet),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// PutFrame inserts or replaces a frame, keyed by file id. A replaced frame
// keeps its original position.
func (s *Store) PutFrame(ctx context.Context, e store.FrameEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.FileID == "" {
		return nil
	}
	if e.Frame == nil {
		return fmt.Errorf("%w: frame %s is nil", internalerr.ErrInvalidInput, e.FileID)
	}
	if _, ok := s.seq[e.FileID]; !ok {
		s.seq[e.FileID] = s.nextSeq
		s.nextSeq++
	}
	s.frames[e.FileID] = e
	return nil
}

// GetFrame returns a frame by file id.
func (s *Store) GetFrame(ctx context.Context, fileID string) (store.FrameEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.frames[fileID]
	return e, ok, nil
}

// FileIDs returns every file id in insertion order.
func (s *Store) FileIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.frames))
	for id := range s.frames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.seq[ids[i]] < s.seq[ids[j]]
	})
	return ids, nil
}

// DeleteFrame removes a frame; unknown ids are ignored.
func (s *Store) DeleteFrame(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.frames, fileID)
	delete(s.seq, fileID)
	return nil
}

// PutFeatures stores a feature set, replacing any earlier run of the same
// featurizer.
func (s *Store) PutFeatures(ctx context.Context, fs store.FeatureSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.features[featureKey(fs.Job, fs.Version, fs.Featurizer)] = fs
	return nil
}

// GetFeatures returns the latest feature set of a featurizer.
func (s *Store) GetFeatures(ctx context.Context, job, version, featurizer string) (store.FeatureSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fs, ok := s.features[featureKey(job, version, featurizer)]
	return fs, ok, nil
}

// ListFeaturizers returns the featurizer names stored for a job version.
func (s *Store) ListFeaturizers(ctx context.Context, job, version string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for _, fs := range s.features {
		if fs.Job == job && fs.Version == version {
			names = append(names, fs.Featurizer)
		}
	}
	sort.Strings(names)
	return names, nil
}

func featureKey(job, version, featurizer string) string {
	return job + "\x00" + version + "\x00" + featurizer
}
