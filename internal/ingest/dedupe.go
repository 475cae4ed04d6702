package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/bilgisen/feedpress/internal/cache"
	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/bilgisen/feedpress/internal/models"
)

// ErrDuplicate marks an entry whose slug already belongs to a post
var ErrDuplicate = errors.New("post already exists")

// SlugLookup finds a post by exact slug, returning nil when there is none
type SlugLookup interface {
	PostBySlug(ctx context.Context, slug string) (*models.Post, error)
}

// Deduplicator checks slugs against the slug cache and then the store. A cached slug is
// taken for CACHE_TTL without asking the store, so a post deleted in the meantime keeps
// blocking its slug until the entry expires. Cache failures are logged and fall through
// to the store.
type Deduplicator struct {
	store SlugLookup
	cache cache.SlugCache
}

func NewDeduplicator(store SlugLookup, slugCache cache.SlugCache) *Deduplicator {
	if slugCache == nil {
		slugCache = cache.NewMemoryCache()
	}
	return &Deduplicator{store: store, cache: slugCache}
}

// Check returns ErrDuplicate when slug is taken
func (d *Deduplicator) Check(ctx context.Context, slug string) error {
	log := logger.Get()

	seen, err := d.cache.IsProcessed(ctx, slug)
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Slug cache lookup failed")
	}
	if seen {
		return ErrDuplicate
	}

	existing, err := d.store.PostBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("look up slug %s: %w", slug, err)
	}
	if existing != nil {
		d.Remember(ctx, slug)
		return ErrDuplicate
	}

	return nil
}

// Remember records slug as taken
func (d *Deduplicator) Remember(ctx context.Context, slug string) {
	if err := d.cache.MarkProcessed(ctx, slug); err != nil {
		logger.Get().Warn().Err(err).Str("slug", slug).Msg("Failed to cache slug")
	}
}
