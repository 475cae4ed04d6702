package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/feedpress/internal/api"
	"github.com/bilgisen/feedpress/internal/cache"
	"github.com/bilgisen/feedpress/internal/config"
	"github.com/bilgisen/feedpress/internal/ingest"
	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/bilgisen/feedpress/internal/middleware"
	"github.com/bilgisen/feedpress/internal/recommend"
	"github.com/bilgisen/feedpress/internal/scheduler"
	"github.com/bilgisen/feedpress/internal/storage"
	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Failed to load configuration")
	}

	output := "stdout"
	if cfg.LogFile != "" {
		output = cfg.LogFile
	}
	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.LogPretty,
	})

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("Starting application...")

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing store")
		}
	}()

	slugCache := cache.New(cfg)
	defer func() {
		log.Info().Msg("Closing slug cache...")
		if err := slugCache.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing slug cache")
		}
	}()

	archive, err := storage.NewArchive(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize post archive")
	}

	orchestrator := ingest.NewFromConfig(cfg, store, slugCache, archive)

	var sched *scheduler.Scheduler
	if cfg.CronSchedule != "" {
		sched, err = scheduler.New(cfg.CronSchedule, cfg.IngestTimeout, func(ctx context.Context) error {
			_, err := orchestrator.Run(ctx)
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize scheduler")
		}
		sched.Start()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.IngestTimeout + cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	handlers := api.NewHandlers(store, store, orchestrator, recommend.New(store), cfg.IngestTimeout)
	api.SetupRoutes(app, handlers, cfg.AdminAPIKey)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if sched != nil {
		sched.Stop(ctx)
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
