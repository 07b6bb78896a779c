package config

import (
	"fmt"

	"github.com/cognicore/grammaru/pkg/grammaru/algorithm"
	"github.com/cognicore/grammaru/pkg/grammaru/algorithms/nncheck"
	"github.com/cognicore/grammaru/pkg/grammaru/analyzer"
	"github.com/cognicore/grammaru/pkg/grammaru/analyzers/morph"
	"github.com/cognicore/grammaru/pkg/grammaru/analyzers/nncandidate"
	"github.com/cognicore/grammaru/pkg/grammaru/index"
	"github.com/cognicore/grammaru/pkg/grammaru/lexicon"
	"github.com/cognicore/grammaru/pkg/grammaru/pipeline"
)

// Analyzer names used by the default pipeline.
const (
	MorphName     = "morph"
	CandidateName = "nn_candidate"
)

// Loader loads resource files and constructs components
type Loader struct {
	LexiconPath    string
	VocabularyPath string
}

// NewLoader returns a loader for the resource paths of cfg.
func NewLoader(cfg *Config) *Loader {
	return &Loader{LexiconPath: cfg.Paths.Lexicon, VocabularyPath: cfg.Paths.Vocabulary}
}

// Components holds the analyzers and algorithms built from configuration.
type Components struct {
	Lexicon    *lexicon.Lexicon
	Vocabulary []string
	Morph      *analyzer.Analyzer
	Candidates *analyzer.Analyzer
	NN         *algorithm.Algorithm // nil without a vocabulary
	Pipeline   *pipeline.Pipeline
}

// Load reads the resource files and returns initialized components. Missing
// paths yield empty resources.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.New()
	}

	if l.VocabularyPath != "" {
		words, err := index.ReadDictionary(l.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		comp.Vocabulary = words
	}

	m, err := morph.New(comp.Lexicon)
	if err != nil {
		return nil, err
	}
	comp.Morph = m
	comp.Candidates = nncandidate.New()

	if len(comp.Vocabulary) > 0 {
		if comp.NN, err = nncheck.New(comp.Vocabulary); err != nil {
			return nil, err
		}
	}

	comp.Pipeline, err = pipeline.New(
		pipeline.Named{Name: MorphName, Analyzer: comp.Morph},
		pipeline.Named{Name: CandidateName, Analyzer: comp.Candidates},
	)
	if err != nil {
		return nil, err
	}
	return comp, nil
}
