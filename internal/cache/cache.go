package cache

import (
	"context"

	"github.com/bilgisen/feedpress/internal/config"
	"github.com/bilgisen/feedpress/internal/logger"
)

// SlugCache remembers slugs of posts that already exist so duplicate entries can be
// skipped without a database round trip
type SlugCache interface {
	IsProcessed(ctx context.Context, slug string) (bool, error)
	MarkProcessed(ctx context.Context, slug string) error
	ClearProcessed(ctx context.Context) error
	Close() error
}

// New returns a Redis cache when REDIS_URL is set, otherwise an in-memory cache.
// An unreachable Redis degrades to the in-memory cache.
func New(cfg *config.Config) SlugCache {
	if cfg.RedisURL == "" {
		return NewMemoryCache()
	}

	client, err := NewRedisClient(cfg)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("Redis unavailable, using in-memory slug cache")
		return NewMemoryCache()
	}
	return client
}
