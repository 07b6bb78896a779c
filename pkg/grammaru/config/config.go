package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
)

// Config is the YAML configuration shared by the grammaru commands.
type Config struct {
	LogLevel      string        `yaml:"log_level"`
	Paths         Paths         `yaml:"paths"`
	Featurization Featurization `yaml:"featurization"`
	Server        Server        `yaml:"server"`
	Source        Source        `yaml:"source"`
}

// Paths locates corpora, bundles and the resources analyzers load.
type Paths struct {
	Corpus     string `yaml:"corpus"`
	Bundle     string `yaml:"bundle"`
	Vocabulary string `yaml:"vocabulary"`
	Lexicon    string `yaml:"lexicon"`
}

// Featurization configures featurization jobs and corpus workers.
type Featurization struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Workers int    `yaml:"workers"`
	Limit   int    `yaml:"limit"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Source is an optional SQL database to import documents from.
type Source struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Query  string `yaml:"query"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Paths: Paths{
			Corpus: "data/corpus.db",
			Bundle: "data/bundle",
		},
		Featurization: Featurization{Name: "nn", Version: "v1", Workers: 4},
		Server:        Server{Addr: ":8080", AllowedOrigins: []string{"*"}},
		Source:        Source{Driver: "postgres"},
	}
}

// Load reads a YAML file over the defaults, applies GRAMMARU_* environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"GRAMMARU_LOG_LEVEL":  &c.LogLevel,
		"GRAMMARU_CORPUS":     &c.Paths.Corpus,
		"GRAMMARU_BUNDLE":     &c.Paths.Bundle,
		"GRAMMARU_VOCABULARY": &c.Paths.Vocabulary,
		"GRAMMARU_LEXICON":    &c.Paths.Lexicon,
		"GRAMMARU_ADDR":       &c.Server.Addr,
		"GRAMMARU_SOURCE_DSN": &c.Source.DSN,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	if v := getenv("GRAMMARU_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: GRAMMARU_WORKERS=%q", internalerr.ErrInvalidConfig, v)
		}
		c.Featurization.Workers = n
	}
	if v := getenv("GRAMMARU_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	return nil
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	var problems []string
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	if c.Paths.Corpus == "" {
		problems = append(problems, "paths.corpus is empty")
	}
	if c.Paths.Bundle == "" {
		problems = append(problems, "paths.bundle is empty")
	}
	if c.Featurization.Workers < 1 {
		problems = append(problems, "featurization.workers must be at least 1")
	}
	if c.Featurization.Limit < 0 {
		problems = append(problems, "featurization.limit must not be negative")
	}
	if c.Source.DSN != "" && c.Source.Query == "" {
		problems = append(problems, "source.query is required with source.dsn")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParseLogLevel maps a log_level value to a slog level, ignoring case.
// Unknown values fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
