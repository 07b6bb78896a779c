package index

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/nn"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
	"github.com/cognicore/grammaru/pkg/grammaru/validations"
)

// Index columns.
const (
	ColLabel    = "label"
	ColSampleID = "sample_id"
	ColFileID   = "file_id"
	ColSplit    = "split"
)

// Splits.
const (
	Train   = "train"
	Test    = "test"
	Display = "display"
)

// DictionaryIndexBuilder keeps the candidate words found in a dictionary.
type DictionaryIndexBuilder struct {
	vocab map[string]struct{}
}

// NewDictionaryIndexBuilder creates a builder over words. Case is ignored.
func NewDictionaryIndexBuilder(words []string) *DictionaryIndexBuilder {
	v := make(map[string]struct{}, len(words))
	for _, w := range words {
		v[strings.ToLower(w)] = struct{}{}
	}
	return &DictionaryIndexBuilder{vocab: v}
}

// Size returns the number of dictionary words.
func (b *DictionaryIndexBuilder) Size() int { return len(b.vocab) }

// BuildTrainIndex returns the rows of f holding dictionary н/нн words with
// a label column added: 0 for н, 1 for нн.
func (b *DictionaryIndexBuilder) BuildTrainIndex(f *frame.Frame) (*frame.Frame, error) {
	if !f.Has(separator.ColWord) {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrMissingColumns, separator.ColWord)
	}
	var labels []any
	kept := f.Filter(func(r int) bool {
		w, _ := frame.AsString(f.Value(separator.ColWord, r))
		kind := nn.Classify(w)
		if kind == nn.None {
			return false
		}
		if _, ok := b.vocab[strings.ToLower(w)]; !ok {
			return false
		}
		labels = append(labels, kind.Label())
		return true
	})
	return kept.WithColumn(ColLabel, labels)
}

// NNnIndexBuilder turns an assembled source table into the sample index of
// a bundle.
type NNnIndexBuilder struct{}

// BuildIndexFromSrc emits one sample per н/нн candidate row of src with its
// file id, word id, label and split. The split depends only on the file id,
// so every sample of a document lands in the same split.
func (NNnIndexBuilder) BuildIndexFromSrc(src *frame.Frame) (*frame.Frame, error) {
	var missing []string
	for _, col := range []string{ColFileID, validations.WordID, separator.ColWord} {
		if !src.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrMissingColumns, strings.Join(missing, ", "))
	}

	var sampleIDs, fileIDs, wordIDs, labels, splits []any
	for r := 0; r < src.Len(); r++ {
		w, _ := frame.AsString(src.Value(separator.ColWord, r))
		kind := nn.Classify(w)
		if kind == nn.None {
			continue
		}
		fileID, _ := frame.AsString(src.Value(ColFileID, r))
		sampleIDs = append(sampleIDs, len(sampleIDs))
		fileIDs = append(fileIDs, fileID)
		wordIDs = append(wordIDs, src.Value(validations.WordID, r))
		labels = append(labels, kind.Label())
		splits = append(splits, SplitOf(fileID))
	}
	return frame.New(
		[]string{ColSampleID, ColFileID, validations.WordID, ColLabel, ColSplit},
		[][]any{orEmpty(sampleIDs), orEmpty(fileIDs), orEmpty(wordIDs), orEmpty(labels), orEmpty(splits)},
	)
}

// SplitOf assigns a file to a split: 70% train, 20% test, 10% display.
func SplitOf(fileID string) string {
	h := fnv.New32a()
	h.Write([]byte(fileID))
	switch bucket := h.Sum32() % 10; {
	case bucket < 7:
		return Train
	case bucket < 9:
		return Test
	default:
		return Display
	}
}

// SplitCounts counts the samples of each split in an index.
func SplitCounts(idx *frame.Frame) map[string]int {
	counts := map[string]int{Train: 0, Test: 0, Display: 0}
	col, _ := idx.Column(ColSplit)
	for _, v := range col {
		if s, ok := frame.AsString(v); ok {
			counts[s]++
		}
	}
	return counts
}

func orEmpty(col []any) []any {
	if col == nil {
		return []any{}
	}
	return col
}
