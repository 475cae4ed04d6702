// Command ingest runs a single ingestion cycle and prints its summary as JSON. It is
// meant for an external scheduler such as a cron job or a CI workflow.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilgisen/feedpress/internal/cache"
	"github.com/bilgisen/feedpress/internal/config"
	"github.com/bilgisen/feedpress/internal/ingest"
	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/bilgisen/feedpress/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	// stdout carries the summary
	output := "stderr"
	if cfg.LogFile != "" {
		output = cfg.LogFile
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Output: output, Pretty: cfg.LogPretty})
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.IngestTimeout)
	defer cancel()

	store, err := storage.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize store")
		return 1
	}
	defer store.Close()

	slugCache := cache.New(cfg)
	defer slugCache.Close()

	archive, err := storage.NewArchive(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize post archive")
		return 1
	}

	summary, err := ingest.NewFromConfig(cfg, store, slugCache, archive).Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Ingestion failed")
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Error().Err(err).Msg("Failed to write summary")
		return 1
	}

	if len(summary.Errors) > 0 {
		return 2
	}
	return 0
}
