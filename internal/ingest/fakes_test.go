package ingest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bilgisen/feedpress/internal/models"
	"github.com/bilgisen/feedpress/internal/storage"
	"github.com/google/uuid"
)

// memStore is an in-memory storage.Store
type memStore struct {
	mu             sync.Mutex
	sources        []models.FeedSource
	posts          []models.Post
	profiles       []models.Profile
	lastFetch      map[string]time.Time
	createProfiles int
	listErr        error
	insertErr      error
}

var _ storage.Store = (*memStore)(nil)

func newMemStore(sources ...models.FeedSource) *memStore {
	return &memStore{sources: sources, lastFetch: make(map[string]time.Time)}
}

func (s *memStore) AddSource(ctx context.Context, src *models.FeedSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, *src)
	return nil
}

func (s *memStore) ListActiveSources(ctx context.Context) ([]models.FeedSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.FeedSource
	for _, src := range s.sources {
		if src.Active {
			out = append(out, src)
		}
	}
	return out, nil
}

func (s *memStore) UpdateSourceLastFetch(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetch[id] = at
	return nil
}

func (s *memStore) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].Slug == slug {
			p := s.posts[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *memStore) CountPostsSince(ctx context.Context, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.posts {
		if !p.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CountPostsSinceByKeyword(ctx context.Context, since time.Time, keyword string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.posts {
		if p.CreatedAt.Before(since) {
			continue
		}
		for _, kw := range p.MetaKeywords {
			if kw == keyword {
				n++
				break
			}
		}
	}
	return n, nil
}

func (s *memStore) InsertPost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return &storage.PersistError{Slug: post.Slug, Err: s.insertErr}
	}
	for _, p := range s.posts {
		if p.Slug == post.Slug {
			return &storage.PersistError{Slug: post.Slug, Err: storage.ErrDuplicateSlug}
		}
	}
	s.posts = append(s.posts, *post)
	return nil
}

func (s *memStore) ListRecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Post(nil), s.posts...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) FindBotProfile(ctx context.Context) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.IsBot && p.FullName == models.BotFullName {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	s.createProfiles++
	s.profiles = append(s.profiles, *profile)
	return nil
}

func (s *memStore) Ping(ctx context.Context) error { return nil }

func (s *memStore) Close() error { return nil }

func (s *memStore) seedPost(slug, tag string, at time.Time) {
	s.posts = append(s.posts, models.Post{ID: uuid.NewString(), Slug: slug, MetaKeywords: []string{tag}, CreatedAt: at})
}

// fakeFetcher serves canned documents by URL
type fakeFetcher struct {
	mu    sync.Mutex
	docs  map[string]string
	errs  map[string]error
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{docs: map[string]string{}, errs: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	doc, ok := f.docs[url]
	if !ok {
		return "", errors.New("not found")
	}
	return doc, nil
}

// clock advances one millisecond on every call
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(start time.Time) *clock { return &clock{now: start} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func source(id, url string) models.FeedSource {
	return models.FeedSource{ID: id, Name: "Source " + id, URL: url, Category: models.CategoryAITools, Active: true}
}

func rssDoc(items ...string) string {
	doc := `<?xml version="1.0"?><rss version="2.0"><channel><title>Test</title>`
	for _, item := range items {
		doc += item
	}
	return doc + `</channel></rss>`
}

func rssItem(title, description string) string {
	return "<item><title>" + title + "</title><link>https://example.com/" + title + "</link><description>" + description + "</description></item>"
}
