package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilgisen/feedpress/internal/ai"
	"github.com/bilgisen/feedpress/internal/cache"
	"github.com/bilgisen/feedpress/internal/config"
	"github.com/bilgisen/feedpress/internal/content"
	"github.com/bilgisen/feedpress/internal/feed"
	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/bilgisen/feedpress/internal/models"
	"github.com/bilgisen/feedpress/internal/storage"
	"github.com/rs/zerolog"
)

// maxSlugAttempts bounds the numeric suffixes tried for a taken timestamped slug
const maxSlugAttempts = 10

// Source outcomes
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Fetcher retrieves a raw feed document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Parser turns a raw feed document into entries
type Parser interface {
	Parse(raw string) ([]models.FeedEntry, error)
}

// Composer builds the HTML body of a post
type Composer interface {
	Compose(in content.Input) content.Result
}

// SourceResult is the outcome of processing one feed source
type SourceResult struct {
	SourceID string `json:"source_id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Status   string `json:"status"`
	Created  int    `json:"created"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// Summary is the result of one ingestion cycle
type Summary struct {
	Message  string         `json:"message"`
	Posts    []models.Post  `json:"posts"`
	Errors   []string       `json:"errors,omitempty"`
	Sources  []SourceResult `json:"sources"`
	Duration time.Duration  `json:"duration"`
}

// Deps are the collaborators of an Orchestrator. Translator, Rewriter, Cache and
// Archive are optional.
type Deps struct {
	Store      storage.Store
	Fetcher    Fetcher
	Parser     Parser
	Cache      cache.SlugCache
	Archive    storage.Archive
	Translator ai.Translator
	Rewriter   ai.Rewriter
}

// Options tune one pipeline variant
type Options struct {
	// Mode is config.ModeEnhanced (skip duplicates, template expansion, reading time
	// floor) or config.ModePlain (timestamped unique slugs, plain paragraphs)
	Mode            string
	DailyLimit      int
	SourceLimit     int
	TranslateTarget string
	Now             func() time.Time
}

// Orchestrator runs the ingestion pipeline: for each active source it fetches, parses
// and turns entries into posts, then records the fetch time.
type Orchestrator struct {
	store      storage.Store
	fetcher    Fetcher
	parser     Parser
	extractor  *feed.Extractor
	limiter    *RateLimiter
	dedup      *Deduplicator
	writer     *Writer
	composer   Composer
	translator ai.Translator
	rewriter   ai.Rewriter
	sanitizer  *ai.Sanitizer
	opts       Options
}

func NewOrchestrator(deps Deps, opts Options) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Mode == "" {
		opts.Mode = config.ModeEnhanced
	}
	if deps.Translator == nil {
		deps.Translator = ai.Passthrough{}
	}
	if deps.Rewriter == nil {
		deps.Rewriter = ai.Passthrough{}
	}

	var composer Composer = content.NewEnhancer(content.NewCategoryTemplateRepository())
	if opts.Mode == config.ModePlain {
		composer = content.NewFormatter()
	}

	dedup := NewDeduplicator(deps.Store, deps.Cache)

	return &Orchestrator{
		store:      deps.Store,
		fetcher:    deps.Fetcher,
		parser:     deps.Parser,
		extractor:  feed.NewExtractor(),
		limiter:    NewRateLimiter(deps.Store, opts.DailyLimit, opts.SourceLimit, opts.Now),
		dedup:      dedup,
		writer:     NewWriter(deps.Store, dedup, deps.Archive, opts.Now),
		composer:   composer,
		translator: deps.Translator,
		rewriter:   deps.Rewriter,
		sanitizer:  ai.NewSanitizer(),
		opts:       opts,
	}
}

// Run executes one ingestion cycle. Source and entry failures are collected in the
// summary; only an unreachable store or an unresolvable bot profile return an error.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	log := logger.Component("ingest")
	start := o.opts.Now()

	sources, err := o.store.ListActiveSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	botID, err := resolveBot(ctx, o.store)
	if err != nil {
		return nil, err
	}

	rc := &RunContext{BotID: botID, Mode: o.opts.Mode, StartedAt: start}

	log.Info().
		Int("sources", len(sources)).
		Str("mode", rc.Mode).
		Msg("Starting ingestion cycle")

	for _, src := range sources {
		if rc.globalCapReached {
			rc.sources = append(rc.sources, SourceResult{
				SourceID: src.ID, Name: src.Name, URL: src.URL, Status: StatusSkipped,
			})
			continue
		}

		if err := ctx.Err(); err != nil {
			rc.recordError(src.Name, err)
			rc.sources = append(rc.sources, SourceResult{
				SourceID: src.ID, Name: src.Name, URL: src.URL, Status: StatusSkipped, Error: err.Error(),
			})
			continue
		}

		result := o.processSource(ctx, rc, src)
		rc.sources = append(rc.sources, result)

		// Failed sources are stamped too so a broken feed waits for the next cycle
		if err := o.store.UpdateSourceLastFetch(ctx, src.ID, o.opts.Now()); err != nil {
			log.Error().Err(err).Str("source", src.Name).Msg("Failed to update last fetch time")
			rc.recordError(src.Name, err)
		}
	}

	summary := &Summary{
		Message:  fmt.Sprintf("Processed %d sources, created %d posts", len(sources), len(rc.posts)),
		Posts:    rc.posts,
		Errors:   rc.errors,
		Sources:  rc.sources,
		Duration: o.opts.Now().Sub(start),
	}
	if summary.Posts == nil {
		summary.Posts = []models.Post{}
	}

	log.Info().
		Int("posts", len(summary.Posts)).
		Int("errors", len(summary.Errors)).
		Dur("duration", summary.Duration).
		Msg("Finished ingestion cycle")

	return summary, nil
}

func (o *Orchestrator) processSource(ctx context.Context, rc *RunContext, src models.FeedSource) SourceResult {
	log := logger.Component("ingest").With().Str("source", src.Name).Str("url", src.URL).Logger()
	result := SourceResult{SourceID: src.ID, Name: src.Name, URL: src.URL, Status: StatusCompleted}

	raw, err := o.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch feed")
		rc.recordError(src.Name, err)
		result.Status, result.Error = StatusFailed, err.Error()
		return result
	}

	entries, err := o.parser.Parse(raw)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse feed")
		rc.recordError(src.Name, err)
		result.Status, result.Error = StatusFailed, err.Error()
		return result
	}

	log.Info().Int("entries", len(entries)).Msg("Fetched feed")

	for _, entry := range entries {
		if ctx.Err() != nil {
			rc.recordError(src.Name, ctx.Err())
			break
		}

		post, err := o.processEntry(ctx, rc, src, entry, log)
		if errors.Is(err, ErrRateLimited) {
			log.Info().Err(err).Msg("Daily limit reached, skipping remaining entries")
			result.Skipped++
			if errors.Is(err, ErrGlobalLimit) {
				rc.globalCapReached = true
			}
			break
		}
		if err != nil {
			rc.recordError(src.Name, err)
			result.Skipped++
			continue
		}

		rc.posts = append(rc.posts, *post)
		result.Created++
	}

	return result
}

func (o *Orchestrator) processEntry(ctx context.Context, rc *RunContext, src models.FeedSource, entry models.FeedEntry, log zerolog.Logger) (*models.Post, error) {
	extracted, err := o.extractor.Extract(entry)
	if err != nil {
		log.Warn().Err(err).Str("link", entry.Link).Msg("Skipping entry")
		return nil, err
	}

	tag := src.URL
	if err := o.limiter.Check(ctx, tag); err != nil {
		return nil, err
	}

	slug := content.Slugify(extracted.Title)
	if rc.Mode == config.ModePlain {
		slug = content.UniqueSlug(extracted.Title, o.opts.Now())
	}
	if slug == "" {
		return nil, &feed.ValidationError{Field: "title"}
	}

	if rc.Mode == config.ModePlain {
		if slug, err = o.freeSlug(ctx, slug); err != nil {
			return nil, err
		}
	} else if err := o.dedup.Check(ctx, slug); err != nil {
		if errors.Is(err, ErrDuplicate) {
			log.Info().Str("slug", slug).Msg("Post already exists, skipping")
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, slug)
		}
		return nil, err
	}

	title, body := extracted.Title, o.sanitizer.Clean(extracted.Body)
	if body == "" {
		return nil, &feed.ValidationError{Field: "content"}
	}
	if o.opts.TranslateTarget != "" {
		title = o.translator.Translate(ctx, title, o.opts.TranslateTarget)
		body = o.translator.Translate(ctx, body, o.opts.TranslateTarget)
	}
	body = o.rewriter.Rewrite(ctx, body)

	composed := o.composer.Compose(content.Input{
		Title:    title,
		Body:     body,
		Category: src.Category,
		ImageURL: extracted.ImageURL,
	})

	post, err := o.writer.Write(ctx, Draft{
		Title:         title,
		Content:       composed.HTML,
		Slug:          slug,
		AuthorID:      rc.BotID,
		ImageURL:      composed.ImageURL,
		ProvenanceTag: tag,
		Excerpt:       composed.Excerpt,
		ReadingTime:   composed.ReadingTime,
	})
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to store post")
		return nil, err
	}

	log.Info().Str("slug", slug).Int("reading_time", post.ReadingTimeMinutes).Msg("Created post")
	return post, nil
}

// freeSlug returns base, or base with the first free numeric suffix. Timestamped slugs
// collide when two entries share a title and a millisecond.
func (o *Orchestrator) freeSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		err := o.dedup.Check(ctx, slug)
		if err == nil {
			return slug, nil
		}
		if !errors.Is(err, ErrDuplicate) {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("%w: no free slug for %s", ErrDuplicate, base)
}
