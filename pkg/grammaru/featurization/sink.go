package featurization

import (
	"context"
	"sync"

	"github.com/cognicore/grammaru/pkg/grammaru/store"
)

// MemorySink keeps every written feature set in memory.
type MemorySink struct {
	mu   sync.Mutex
	sets []store.FeatureSet
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write implements Sink.
func (m *MemorySink) Write(ctx context.Context, fs store.FeatureSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets = append(m.sets, fs)
	return nil
}

// Sets returns the written feature sets in write order.
func (m *MemorySink) Sets() []store.FeatureSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.FeatureSet(nil), m.sets...)
}

// StoreSink persists feature sets into a store.
type StoreSink struct {
	Store store.Store
}

// Write implements Sink.
func (s StoreSink) Write(ctx context.Context, fs store.FeatureSet) error {
	return s.Store.PutFeatures(ctx, fs)
}
