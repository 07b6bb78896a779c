// Package index builds the н/нн dictionary and the sample indexes a
// training bundle is assembled from.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/nn"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
)

// BuildDictionary collects the distinct lowercase н/нн candidate words of
// the frames, sorted.
func BuildDictionary(frames []*frame.Frame) []string {
	seen := make(map[string]struct{})
	for _, f := range frames {
		col, ok := f.Column(separator.ColWord)
		if !ok {
			continue
		}
		for _, v := range col {
			w, ok := frame.AsString(v)
			if !ok || nn.Classify(w) == nn.None {
				continue
			}
			seen[strings.ToLower(w)] = struct{}{}
		}
	}
	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// WriteDictionary stores words as a JSON array.
func WriteDictionary(path string, words []string) error {
	if words == nil {
		words = []string{}
	}
	b, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// ReadDictionary loads a dictionary written by WriteDictionary.
func ReadDictionary(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	var words []string
	if err := json.Unmarshal(b, &words); err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}
	return words, nil
}
