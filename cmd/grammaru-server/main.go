// Command grammaru-server exposes the analyzers and the н/нн check as a
// JSON API.
//
// Endpoints:
//
//	POST /api/analyze        body: {"text":"..."}
//	POST /api/check[?frame=true] body: {"text":"...", "paragraphs":[0,2]}
//	GET  /api/health
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cognicore/grammaru/pkg/grammaru/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	comp, err := config.NewLoader(cfg).Load()
	if err != nil {
		logger.Error("failed to load components", "error", err)
		os.Exit(1)
	}
	logger.Info("components loaded",
		"version", Version,
		"lexicon_forms", comp.Lexicon.Stats().Forms,
		"vocabulary", len(comp.Vocabulary),
	)

	s := &server{comp: comp, logger: logger}
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.routes(cfg.Server.AllowedOrigins),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
