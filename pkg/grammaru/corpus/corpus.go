// Package corpus reads and builds corpora: stores of word-row frames, one
// frame per source document, identified by a uuid file id.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cognicore/grammaru/pkg/grammaru/datasource"
	"github.com/cognicore/grammaru/pkg/grammaru/featurization"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
	"github.com/cognicore/grammaru/pkg/grammaru/store"
)

// ColFileID is added to assembled frames to identify the source document.
const ColFileID = "file_id"

// SrcFile is the name of the assembled source table inside a bundle.
const SrcFile = "src.jsonl"

var errStop = errors.New("stop iteration")

// Reader iterates the frames of a corpus.
type Reader struct {
	store store.Store
}

// NewReader creates a reader over st.
func NewReader(st store.Store) *Reader {
	return &Reader{store: st}
}

// Each calls fn for every frame in insertion order, stopping at the first
// error.
func (r *Reader) Each(ctx context.Context, fn func(store.FrameEntry) error) error {
	ids, err := r.store.FileIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, ok, err := r.store.GetFrame(ctx, id)
		if err != nil {
			return fmt.Errorf("read frame %s: %w", id, err)
		}
		if !ok {
			continue
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// Frames returns every frame of the corpus.
func (r *Reader) Frames(ctx context.Context) ([]store.FrameEntry, error) {
	var out []store.FrameEntry
	err := r.Each(ctx, func(e store.FrameEntry) error {
		out = append(out, e)
		return nil
	})
	return out, err
}

// Document is raw text to add to a corpus.
type Document struct {
	Name       string
	Paragraphs []string
}

// Selector picks and annotates the rows of a frame worth keeping. An empty
// result drops the frame.
type Selector func(f *frame.Frame) (*frame.Frame, error)

// Builder creates and transforms corpora.
type Builder struct {
	logger *slog.Logger
	newID  func() string
}

// NewBuilder creates a builder. If logger is nil, slog.Default() is used.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
}

// AddDocuments separates each document and stores it under a fresh file
// id. The ids are returned in document order.
func (b *Builder) AddDocuments(ctx context.Context, dst store.Store, docs []Document) ([]string, error) {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		f := separator.SeparateParagraphs(d.Paragraphs)
		if f.Len() == 0 {
			b.logger.Warn("skipping empty document", "name", d.Name)
			continue
		}
		id := b.newID()
		if err := dst.PutFrame(ctx, store.FrameEntry{FileID: id, Name: d.Name, Frame: f}); err != nil {
			return ids, fmt.Errorf("store %s: %w", d.Name, err)
		}
		ids = append(ids, id)
	}
	b.logger.Info("documents added", "count", len(ids))
	return ids, nil
}

// Transfuse copies frames from every source into dst through selector,
// keeping file ids. It returns the number of frames written.
func (b *Builder) Transfuse(ctx context.Context, sources []store.Store, dst store.Store, selector Selector) (int, error) {
	written := 0
	for i, src := range sources {
		err := NewReader(src).Each(ctx, func(e store.FrameEntry) error {
			selected := e.Frame
			if selector != nil {
				var err error
				if selected, err = selector(e.Frame); err != nil {
					return fmt.Errorf("select %s: %w", e.FileID, err)
				}
			}
			if selected == nil || selected.Len() == 0 {
				return nil
			}
			written++
			return dst.PutFrame(ctx, store.FrameEntry{FileID: e.FileID, Name: e.Name, Frame: selected})
		})
		if err != nil {
			return written, fmt.Errorf("source %d: %w", i, err)
		}
	}
	b.logger.Info("corpus transfused", "sources", len(sources), "frames", written)
	return written, nil
}

// Featurize applies the featurizers, in name order and each seeing the
// columns added before it, to every frame of src and writes the result to
// dst. Frames are processed by up to workers goroutines.
func (b *Builder) Featurize(ctx context.Context, src, dst store.Store, featurizers map[string]featurization.Featurizer, workers int) error {
	if workers < 1 {
		workers = 1
	}
	names := make([]string, 0, len(featurizers))
	for name := range featurizers {
		names = append(names, name)
	}
	sort.Strings(names)

	ids, err := src.FileIDs(ctx)
	if err != nil {
		return err
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if err := b.featurizeOne(ctx, src, dst, id, names, featurizers); err != nil {
					fail(err)
				}
			}
		}()
	}

feed:
	for _, id := range ids {
		select {
		case jobs <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if err := parent.Err(); err != nil {
		return err
	}
	b.logger.Info("corpus featurized", "frames", len(ids), "featurizers", len(names), "workers", workers)
	return nil
}

func (b *Builder) featurizeOne(ctx context.Context, src, dst store.Store, id string, names []string, featurizers map[string]featurization.Featurizer) error {
	if err := ctx.Err(); err != nil {
		return nil
	}
	e, ok, err := src.GetFrame(ctx, id)
	if err != nil || !ok {
		return err
	}
	acc := e.Frame
	for _, name := range names {
		if acc, err = featurizers[name].Apply(acc); err != nil {
			return fmt.Errorf("featurize %s with %s: %w", id, name, err)
		}
	}
	return dst.PutFrame(ctx, store.FrameEntry{FileID: id, Name: e.Name, Frame: acc})
}

// Assemble concatenates up to limit frames of src (all when limit <= 0),
// tags each row with its file id and writes the table to bundleDir/src.jsonl.
func (b *Builder) Assemble(ctx context.Context, src store.Store, bundleDir string, limit int) (*frame.Frame, error) {
	var parts []*frame.Frame
	err := NewReader(src).Each(ctx, func(e store.FrameEntry) error {
		if limit > 0 && len(parts) >= limit {
			return errStop
		}
		tagged, err := e.Frame.WithColumn(ColFileID, frame.Fill(e.Frame.Len(), e.FileID))
		if err != nil {
			return err
		}
		parts = append(parts, tagged)
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}

	assembled := frame.Concat(parts...)
	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		return nil, err
	}
	if err := datasource.WriteJSONL(filepath.Join(bundleDir, SrcFile), assembled); err != nil {
		return nil, fmt.Errorf("write %s: %w", SrcFile, err)
	}
	b.logger.Info("bundle assembled", "dir", bundleDir, "frames", len(parts), "rows", assembled.Len())
	return assembled, nil
}
