// Package bundle wires the corpus, index and featurization packages into
// the steps that turn a raw corpus into a training bundle. Corpora are
// SQLite files; a bundle is a directory.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cognicore/grammaru/pkg/grammaru/corpus"
	"github.com/cognicore/grammaru/pkg/grammaru/datasource"
	"github.com/cognicore/grammaru/pkg/grammaru/featurization"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/index"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/store"
	"github.com/cognicore/grammaru/pkg/grammaru/store/sqlite"
)

// IndexFile is the name of the sample index inside a bundle.
const IndexFile = "index.jsonl"

// ReadData returns every frame of the corpus at corpusPath.
func ReadData(ctx context.Context, corpusPath string) ([]*frame.Frame, error) {
	st, err := openSource(ctx, corpusPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	entries, err := corpus.NewReader(st).Frames(ctx)
	if err != nil {
		return nil, err
	}
	frames := make([]*frame.Frame, len(entries))
	for i, e := range entries {
		frames[i] = e.Frame
	}
	return frames, nil
}

// BuildWordDict writes the н/нн dictionary of a corpus to vocabPath.
func BuildWordDict(ctx context.Context, corpusPath, vocabPath string) ([]string, error) {
	frames, err := ReadData(ctx, corpusPath)
	if err != nil {
		return nil, err
	}
	words := index.BuildDictionary(frames)
	if err := index.WriteDictionary(vocabPath, words); err != nil {
		return nil, err
	}
	slog.Info("dictionary built", "corpus", corpusPath, "words", len(words), "path", vocabPath)
	return words, nil
}

// BuildIndex transfuses the corpus at corpusPath into the corpus at
// bundlePath, keeping only dictionary rows.
func BuildIndex(ctx context.Context, builder *index.DictionaryIndexBuilder, corpusPath, bundlePath string) (int, error) {
	src, err := openSource(ctx, corpusPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	dst, err := openInDir(ctx, bundlePath)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	return corpus.NewBuilder(slog.Default()).Transfuse(ctx, []store.Store{src}, dst, builder.BuildTrainIndex)
}

// FeaturizeIndex applies featurizers to every frame of the source corpus
// and writes the results to the destination corpus.
func FeaturizeIndex(ctx context.Context, source, destination string, featurizers map[string]featurization.Featurizer, workers int) error {
	src, err := openSource(ctx, source)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := openInDir(ctx, destination)
	if err != nil {
		return err
	}
	defer dst.Close()

	return corpus.NewBuilder(slog.Default()).Featurize(ctx, src, dst, featurizers, workers)
}

// Assemble writes src.jsonl and index.jsonl for the corpus at corpusPath
// into the bundle directory and returns the per-split sample counts.
func Assemble(ctx context.Context, name string, limit int, corpusPath, bundlePath string) (map[string]int, error) {
	st, err := openSource(ctx, corpusPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	src, err := corpus.NewBuilder(slog.Default()).Assemble(ctx, st, bundlePath, limit)
	if err != nil {
		return nil, err
	}
	idx, err := index.NNnIndexBuilder{}.BuildIndexFromSrc(src)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if err := datasource.WriteJSONL(filepath.Join(bundlePath, IndexFile), idx); err != nil {
		return nil, err
	}

	counts := index.SplitCounts(idx)
	slog.Info("bundle ready", "name", name,
		index.Train, counts[index.Train],
		index.Test, counts[index.Test],
		index.Display, counts[index.Display])
	return counts, nil
}

// openSource opens an existing corpus. Unlike destinations, a missing
// source is an error rather than a new empty database.
func openSource(ctx context.Context, path string) (store.Store, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: corpus %s", internalerr.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: corpus %s is a directory", internalerr.ErrInvalidInput, path)
	}
	return sqlite.OpenSQLite(ctx, path)
}

func openInDir(ctx context.Context, path string) (store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return sqlite.OpenSQLite(ctx, path)
}
