// Command grammaru-bundle builds a н/нн training bundle from raw documents.
//
// Steps, normally run in order:
//
//	import     load documents (JSONL file or SQL query) into the corpus
//	dict       build the н/нн dictionary of the corpus
//	index      keep the dictionary rows of the corpus in the bundle
//	featurize  apply the analyzers to the selected rows
//	assemble   write src.jsonl and index.jsonl into the bundle
//	job        run the analyzer pipeline over src.jsonl as a featurization job
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/cognicore/grammaru/internal/docs"
	"github.com/cognicore/grammaru/pkg/grammaru/bundle"
	"github.com/cognicore/grammaru/pkg/grammaru/config"
	"github.com/cognicore/grammaru/pkg/grammaru/corpus"
	"github.com/cognicore/grammaru/pkg/grammaru/datasource"
	"github.com/cognicore/grammaru/pkg/grammaru/featurization"
	"github.com/cognicore/grammaru/pkg/grammaru/index"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
	"github.com/cognicore/grammaru/pkg/grammaru/store/sqlite"
	"github.com/cognicore/grammaru/pkg/grammaru/validations"
)

// Files created inside the bundle directory.
const (
	selectedDB   = "selected.db"
	featurizedDB = "featurized.db"
	featuresDB   = "features.db"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		step       = flag.String("step", "", "Step to run: import|dict|index|featurize|assemble|job (required)")
		dataPath   = flag.String("data", "", "Input JSONL documents for the import step")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *step, *dataPath, logger); err != nil {
		logger.Error("step failed", "step", *step, "error", err)
		os.Exit(1)
	}
	logger.Info("step finished", "step", *step)
}

func run(ctx context.Context, cfg *config.Config, step, dataPath string, logger *slog.Logger) error {
	vocabPath := cfg.Paths.Vocabulary
	if vocabPath == "" {
		vocabPath = filepath.Join(cfg.Paths.Bundle, "vocab.json")
	}
	selected := filepath.Join(cfg.Paths.Bundle, selectedDB)
	featurized := filepath.Join(cfg.Paths.Bundle, featurizedDB)

	switch step {
	case "import":
		items, err := loadItems(ctx, cfg, dataPath)
		if err != nil {
			return err
		}
		return importItems(ctx, cfg.Paths.Corpus, items, logger)

	case "dict":
		if err := os.MkdirAll(filepath.Dir(vocabPath), 0o755); err != nil {
			return err
		}
		_, err := bundle.BuildWordDict(ctx, cfg.Paths.Corpus, vocabPath)
		return err

	case "index":
		words, err := index.ReadDictionary(vocabPath)
		if err != nil {
			return err
		}
		n, err := bundle.BuildIndex(ctx, index.NewDictionaryIndexBuilder(words), cfg.Paths.Corpus, selected)
		if err != nil {
			return err
		}
		logger.Info("index built", "frames", n, "path", selected)
		return nil

	case "featurize":
		comp, err := config.NewLoader(cfg).Load()
		if err != nil {
			return err
		}
		featurizers := map[string]featurization.Featurizer{
			config.MorphName:     comp.Morph,
			config.CandidateName: comp.Candidates,
		}
		return bundle.FeaturizeIndex(ctx, selected, featurized, featurizers, cfg.Featurization.Workers)

	case "assemble":
		_, err := bundle.Assemble(ctx, cfg.Featurization.Name, cfg.Featurization.Limit, featurized, cfg.Paths.Bundle)
		return err

	case "job":
		return runJob(ctx, cfg, logger)

	default:
		return fmt.Errorf("unknown step %q", step)
	}
}

func loadItems(ctx context.Context, cfg *config.Config, dataPath string) ([]docs.Item, error) {
	if dataPath != "" {
		return docs.LoadFromJSONL(dataPath)
	}
	if cfg.Source.DSN == "" {
		return nil, fmt.Errorf("import needs --data or source.dsn")
	}
	db, err := sql.Open(cfg.Source.Driver, cfg.Source.DSN)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer db.Close()

	records, err := (&datasource.SQL{DB: db, Query: cfg.Source.Query}).Data(ctx)
	if err != nil {
		return nil, err
	}
	return docs.FromRecords(records), nil
}

func importItems(ctx context.Context, corpusPath string, items []docs.Item, logger *slog.Logger) error {
	documents, err := docs.Documents(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(corpusPath), 0o755); err != nil {
		return err
	}
	st, err := sqlite.OpenSQLite(ctx, corpusPath)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = corpus.NewBuilder(logger).AddDocuments(ctx, st, documents)
	return err
}

func runJob(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	comp, err := config.NewLoader(cfg).Load()
	if err != nil {
		return err
	}
	st, err := sqlite.OpenSQLite(ctx, filepath.Join(cfg.Paths.Bundle, featuresDB))
	if err != nil {
		return err
	}
	defer st.Close()

	// src.jsonl already carries analyzer columns; start again from the words.
	src, err := datasource.ToFrame(ctx, &datasource.JSONL{Path: filepath.Join(cfg.Paths.Bundle, corpus.SrcFile), Logger: logger})
	if err != nil {
		return err
	}
	cols := append(append([]string(nil), separator.Columns...), corpus.ColFileID)
	words, err := src.Select(cols...)
	if err != nil {
		return err
	}
	// word ids restart in every document; join keys must be unique per table
	ids := make([]any, words.Len())
	for i := range ids {
		ids[i] = i
	}
	if words, err = words.WithColumn(validations.WordID, ids); err != nil {
		return err
	}
	job, err := comp.Pipeline.FrameToJob(words, featurization.Options{
		Name:        cfg.Featurization.Name,
		Version:     cfg.Featurization.Version,
		Destination: featurization.StoreSink{Store: st},
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	r, err := job.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("featurization job done", "run_id", r.ID, "input_rows", r.InputRows, "duration", r.Duration)
	return nil
}
