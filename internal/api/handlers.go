package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bilgisen/feedpress/internal/ingest"
	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/bilgisen/feedpress/internal/middleware"
	"github.com/bilgisen/feedpress/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPostLimit = 20
	maxPostLimit     = 100
)

// Ingester runs one ingestion cycle
type Ingester interface {
	Run(ctx context.Context) (*ingest.Summary, error)
}

// Recommender renders suggestion cards for a user
type Recommender interface {
	Suggest(ctx context.Context, userID string) (string, error)
}

// PostReader is the read side of the post store
type PostReader interface {
	Ping(ctx context.Context) error
	ListRecentPosts(ctx context.Context, limit int) ([]models.Post, error)
	PostBySlug(ctx context.Context, slug string) (*models.Post, error)
}

// SourceWriter registers feed sources
type SourceWriter interface {
	AddSource(ctx context.Context, src *models.FeedSource) error
}

// SourceRequest is the body of POST /sources
type SourceRequest struct {
	Name     string `json:"name" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
	Category string `json:"category" validate:"required"`
}

// RecommendationRequest is the body of POST /recommendations
type RecommendationRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type Handlers struct {
	posts         PostReader
	sources       SourceWriter
	ingester      Ingester
	recommender   Recommender
	ingestTimeout time.Duration
}

func NewHandlers(posts PostReader, sources SourceWriter, ingester Ingester, recommender Recommender, ingestTimeout time.Duration) *Handlers {
	return &Handlers{
		posts:         posts,
		sources:       sources,
		ingester:      ingester,
		recommender:   recommender,
		ingestTimeout: ingestTimeout,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := h.posts.Ping(ctx); err != nil {
		logger.Get().Warn().Err(err).Msg("Store health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  err.Error(),
			"time":   time.Now().Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Ingest handles POST /ingest. The cycle runs synchronously: 200 when every source
// went through cleanly, 207 with the error list otherwise, 500 when the cycle could
// not run at all.
func (h *Handlers) Ingest(c *fiber.Ctx) error {
	log := logger.Get()

	ctx := c.UserContext()
	if h.ingestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.ingestTimeout)
		defer cancel()
	}

	log.Info().Str("ip", c.IP()).Msg("Ingestion triggered")

	summary, err := h.ingester.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Ingestion failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"stack": errorChain(err),
		})
	}

	if len(summary.Errors) > 0 {
		return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{
			"message": summary.Message,
			"posts":   summary.Posts,
			"errors":  summary.Errors,
			"sources": summary.Sources,
		})
	}

	return c.JSON(fiber.Map{
		"message": summary.Message,
		"posts":   summary.Posts,
		"sources": summary.Sources,
	})
}

// AddSource handles POST /sources. New sources start active and are picked up by the
// next ingestion cycle.
func (h *Handlers) AddSource(c *fiber.Ctx) error {
	req := middleware.Validated[SourceRequest](c)

	category := models.Category(req.Category)
	if !category.Valid() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      "Unknown category",
			"categories": models.Categories,
		})
	}

	src := &models.FeedSource{
		Name:     req.Name,
		URL:      req.URL,
		Category: category,
		Active:   true,
	}
	if err := h.sources.AddSource(c.UserContext(), src); err != nil {
		logger.Get().Error().Err(err).Str("url", req.URL).Msg("Error adding source")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add source",
		})
	}

	logger.Get().Info().Str("source_id", src.ID).Str("url", src.URL).Msg("Source added")
	return c.Status(fiber.StatusCreated).JSON(src)
}

// Recommendations handles POST /recommendations
func (h *Handlers) Recommendations(c *fiber.Ctx) error {
	req := middleware.Validated[RecommendationRequest](c)

	html, err := h.recommender.Suggest(c.UserContext(), req.UserID)
	if err != nil {
		logger.Get().Error().Err(err).Str("user_id", req.UserID).Msg("Error building recommendations")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"suggestions": html})
}

// ListPosts handles GET /posts?limit=
func (h *Handlers) ListPosts(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPostLimit)))
	switch {
	case limit > maxPostLimit:
		limit = maxPostLimit
	case limit <= 0:
		limit = defaultPostLimit
	}

	posts, err := h.posts.ListRecentPosts(c.UserContext(), limit)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing posts")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list posts",
		})
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return c.JSON(fiber.Map{
		"limit": limit,
		"total": len(posts),
		"items": posts,
	})
}

// GetPost handles GET /posts/:slug
func (h *Handlers) GetPost(c *fiber.Ctx) error {
	slug := c.Params("slug")

	post, err := h.posts.PostBySlug(c.UserContext(), slug)
	if err != nil {
		logger.Get().Error().Err(err).Str("slug", slug).Msg("Error getting post")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get post",
		})
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	return c.JSON(post)
}

// errorChain lists the messages of err and everything it wraps, outermost first
func errorChain(err error) []string {
	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, e.Error())
	}
	return chain
}
