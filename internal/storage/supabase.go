package storage

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bilgisen/feedpress/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	tableSources  = "feed_sources"
	tablePosts    = "posts"
	tableProfiles = "profiles"
)

// SupabaseStore talks to the hosted database through its PostgREST API
type SupabaseStore struct {
	client *resty.Client
}

type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func NewSupabaseStore(baseURL, serviceKey string, timeout time.Duration) *SupabaseStore {
	client := resty.New().
		SetTimeout(timeout).
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetHeader("apikey", serviceKey).
		SetAuthToken(serviceKey).
		SetHeader("Accept", "application/json")

	return &SupabaseStore{client: client}
}

func (s *SupabaseStore) Close() error {
	return nil
}

func (s *SupabaseStore) Ping(ctx context.Context) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"select": "id", "limit": "1"}).
		Get("/" + tableSources)
	return checkResponse(resp, err, "ping")
}

func (s *SupabaseStore) ListActiveSources(ctx context.Context) ([]models.FeedSource, error) {
	var sources []models.FeedSource
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"active": "eq.true",
			"order":  "created_at.asc",
		}).
		SetResult(&sources).
		Get("/" + tableSources)
	if err := checkResponse(resp, err, "list sources"); err != nil {
		return nil, err
	}
	return sources, nil
}

func (s *SupabaseStore) AddSource(ctx context.Context, src *models.FeedSource) error {
	if src.ID == "" {
		src.ID = uuid.NewString()
	}
	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now()
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(src).
		Post("/" + tableSources)
	return checkResponse(resp, err, "add source")
}

func (s *SupabaseStore) UpdateSourceLastFetch(ctx context.Context, sourceID string, at time.Time) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+sourceID).
		SetHeader("Prefer", "return=minimal").
		SetBody(map[string]string{"last_fetch_at": at.UTC().Format(time.RFC3339Nano)}).
		Patch("/" + tableSources)
	return checkResponse(resp, err, "update last fetch")
}

func (s *SupabaseStore) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var posts []models.Post
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"slug":   "eq." + slug,
			"limit":  "1",
		}).
		SetResult(&posts).
		Get("/" + tablePosts)
	if err := checkResponse(resp, err, "look up post"); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

func (s *SupabaseStore) CountPostsSince(ctx context.Context, since time.Time) (int, error) {
	return s.count(ctx, map[string]string{
		"created_at": "gte." + since.UTC().Format(time.RFC3339Nano),
	})
}

func (s *SupabaseStore) CountPostsSinceByKeyword(ctx context.Context, since time.Time, keyword string) (int, error) {
	return s.count(ctx, map[string]string{
		"created_at":    "gte." + since.UTC().Format(time.RFC3339Nano),
		"meta_keywords": "cs.{" + strconv.Quote(keyword) + "}",
	})
}

// count asks PostgREST for an exact row count and reads it from Content-Range
func (s *SupabaseStore) count(ctx context.Context, filters map[string]string) (int, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "id").
		SetQueryParams(filters).
		SetHeader("Prefer", "count=exact").
		Head("/" + tablePosts)
	if err := checkResponse(resp, err, "count posts"); err != nil {
		return 0, err
	}
	return parseContentRange(resp.Header().Get("Content-Range"))
}

// parseContentRange reads the total from headers like "0-0/12" or "*/0"
func parseContentRange(header string) (int, error) {
	i := strings.LastIndexByte(header, '/')
	if i < 0 || i == len(header)-1 {
		return 0, fmt.Errorf("missing count in Content-Range %q", header)
	}
	total := header[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("count not returned in Content-Range %q", header)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("invalid Content-Range %q: %w", header, err)
	}
	return n, nil
}

func (s *SupabaseStore) InsertPost(ctx context.Context, post *models.Post) error {
	var apiErr postgrestError
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(post).
		SetError(&apiErr).
		Post("/" + tablePosts)
	if err != nil {
		return &PersistError{Slug: post.Slug, Err: err}
	}

	if resp.StatusCode() == http.StatusConflict || apiErr.Code == "23505" {
		return &PersistError{Slug: post.Slug, Err: fmt.Errorf("%w: %s", ErrDuplicateSlug, apiErr.Message)}
	}
	if resp.IsError() {
		return &PersistError{Slug: post.Slug, Err: fmt.Errorf("status %d: %s", resp.StatusCode(), apiErr.Message)}
	}
	return nil
}

func (s *SupabaseStore) ListRecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"order":  "created_at.desc",
			"limit":  strconv.Itoa(limit),
		}).
		SetResult(&posts).
		Get("/" + tablePosts)
	if err := checkResponse(resp, err, "list posts"); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *SupabaseStore) FindBotProfile(ctx context.Context) (*models.Profile, error) {
	var profiles []models.Profile
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select":    "*",
			"is_bot":    "eq.true",
			"full_name": "eq." + models.BotFullName,
			"limit":     "1",
		}).
		SetResult(&profiles).
		Get("/" + tableProfiles)
	if err := checkResponse(resp, err, "find bot profile"); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

func (s *SupabaseStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(profile).
		Post("/" + tableProfiles)
	return checkResponse(resp, err, "create profile")
}

func checkResponse(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}
