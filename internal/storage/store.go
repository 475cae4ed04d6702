package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilgisen/feedpress/internal/config"
	"github.com/bilgisen/feedpress/internal/models"
)

// ErrDuplicateSlug is wrapped by PersistError when the slug uniqueness constraint rejects
// an insert
var ErrDuplicateSlug = errors.New("duplicate slug")

// PersistError reports a post the store refused to insert
type PersistError struct {
	Slug string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist post %q: %v", e.Slug, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Store is the database collaborator of the ingestion pipeline
type Store interface {
	ListActiveSources(ctx context.Context) ([]models.FeedSource, error)
	AddSource(ctx context.Context, src *models.FeedSource) error
	UpdateSourceLastFetch(ctx context.Context, sourceID string, at time.Time) error

	// PostBySlug returns nil and no error when no post has the slug
	PostBySlug(ctx context.Context, slug string) (*models.Post, error)
	CountPostsSince(ctx context.Context, since time.Time) (int, error)
	CountPostsSinceByKeyword(ctx context.Context, since time.Time, keyword string) (int, error)
	// InsertPost returns a *PersistError when the insert is rejected
	InsertPost(ctx context.Context, post *models.Post) error
	ListRecentPosts(ctx context.Context, limit int) ([]models.Post, error)

	// FindBotProfile returns nil and no error when the bot profile does not exist yet
	FindBotProfile(ctx context.Context) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error

	Ping(ctx context.Context) error
	Close() error
}

// New opens the store selected by cfg.StoreDriver
func New(cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case config.StoreSupabase:
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.HTTPTimeout), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
