package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/bilgisen/feedpress/internal/content"
	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/bilgisen/feedpress/internal/models"
	"github.com/bilgisen/feedpress/internal/storage"
	"github.com/google/uuid"
)

const (
	excerptLength         = 200
	metaDescriptionLength = 160
)

// Draft is a composed post ready to be stored
type Draft struct {
	Title         string
	Content       string
	Slug          string
	AuthorID      string
	ImageURL      string
	ProvenanceTag string

	// Excerpt and ReadingTime are derived from Content when left empty
	Excerpt     string
	ReadingTime int
}

// PostInserter stores new posts
type PostInserter interface {
	InsertPost(ctx context.Context, post *models.Post) error
}

// Writer computes the derived fields of a post and inserts it
type Writer struct {
	store   PostInserter
	dedup   *Deduplicator
	archive storage.Archive
	now     func() time.Time
}

func NewWriter(store PostInserter, dedup *Deduplicator, archive storage.Archive, now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{store: store, dedup: dedup, archive: archive, now: now}
}

// Write inserts the post built from d. Insert failures are *storage.PersistError.
func (w *Writer) Write(ctx context.Context, d Draft) (*models.Post, error) {
	plain := content.StripHTML(d.Content)

	excerpt := d.Excerpt
	if excerpt == "" {
		excerpt = content.Excerpt(plain, excerptLength)
	}

	readingTime := d.ReadingTime
	if readingTime <= 0 {
		readingTime = content.ReadingTime(content.WordCount(plain), 0)
	}

	post := &models.Post{
		ID:                 uuid.NewString(),
		Title:              d.Title,
		Slug:               d.Slug,
		Content:            d.Content,
		Excerpt:            excerpt,
		ImageURL:           d.ImageURL,
		AuthorID:           d.AuthorID,
		MetaDescription:    content.Truncate(plain, metaDescriptionLength),
		MetaKeywords:       []string{d.ProvenanceTag},
		ReadingTimeMinutes: readingTime,
		CreatedAt:          w.now(),
	}

	if err := w.store.InsertPost(ctx, post); err != nil {
		var persistErr *storage.PersistError
		if !errors.As(err, &persistErr) {
			err = &storage.PersistError{Slug: post.Slug, Err: err}
		}
		return nil, err
	}

	if w.dedup != nil {
		w.dedup.Remember(ctx, post.Slug)
	}

	if w.archive != nil {
		if err := w.archive.Save(ctx, post); err != nil {
			logger.Get().Warn().Err(err).Str("slug", post.Slug).Msg("Failed to archive post")
		}
	}

	return post, nil
}
