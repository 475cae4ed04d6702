package ingest

import (
	"github.com/bilgisen/feedpress/internal/ai"
	"github.com/bilgisen/feedpress/internal/cache"
	"github.com/bilgisen/feedpress/internal/config"
	"github.com/bilgisen/feedpress/internal/feed"
	"github.com/bilgisen/feedpress/internal/storage"
)

// NewFromConfig wires an Orchestrator from configuration. archive may be nil.
func NewFromConfig(cfg *config.Config, store storage.Store, slugCache cache.SlugCache, archive storage.Archive) *Orchestrator {
	throttle := ai.NewThrottle(cfg.AIRequestsPerMinute)

	target := ""
	if cfg.TranslationEnabled() {
		target = cfg.TranslateTarget
	}

	return NewOrchestrator(Deps{
		Store:      store,
		Fetcher:    feed.NewFetcher(cfg.FetchTimeout, cfg.UserAgent),
		Parser:     feed.NewParser(),
		Cache:      slugCache,
		Archive:    archive,
		Translator: ai.NewTranslator(cfg, throttle),
		Rewriter:   ai.NewRewriter(cfg, throttle),
	}, Options{
		Mode:            cfg.IngestMode,
		DailyLimit:      cfg.DailyPostLimit,
		SourceLimit:     cfg.SourceDailyPostLimit,
		TranslateTarget: target,
	})
}
