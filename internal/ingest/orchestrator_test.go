package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bilgisen/feedpress/internal/config"
	"github.com/bilgisen/feedpress/internal/feed"
	"github.com/bilgisen/feedpress/internal/models"
)

var cycleStart = time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

type harness struct {
	store   *memStore
	fetcher *fakeFetcher
	clock   *clock
}

func newHarness(sources ...models.FeedSource) *harness {
	return &harness{
		store:   newMemStore(sources...),
		fetcher: newFakeFetcher(),
		clock:   newClock(cycleStart),
	}
}

func (h *harness) orchestrator(opts Options) *Orchestrator {
	opts.Now = h.clock.Now
	if opts.DailyLimit == 0 {
		opts.DailyLimit = 5
	}
	if opts.SourceLimit == 0 {
		opts.SourceLimit = 1
	}
	return NewOrchestrator(Deps{
		Store:   h.store,
		Fetcher: h.fetcher,
		Parser:  feed.NewParser(),
	}, opts)
}

func TestRunCreatesPostsAndStampsSources(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"), source("b", "https://b.example.com/feed"))
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(rssItem("First Story", "Short body about automation tools."))
	h.fetcher.docs["https://b.example.com/feed"] = rssDoc(rssItem("Second Story", "Another short body."))

	summary, err := h.orchestrator(Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(summary.Posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d (errors: %v)", len(summary.Posts), summary.Errors)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", summary.Errors)
	}

	post := summary.Posts[0]
	if post.Slug != "first-story" {
		t.Errorf("slug = %q, want first-story", post.Slug)
	}
	if len(post.MetaKeywords) != 1 || post.MetaKeywords[0] != "https://a.example.com/feed" {
		t.Errorf("Expected source URL as provenance tag, got %v", post.MetaKeywords)
	}
	if post.ReadingTimeMinutes != 5 {
		t.Errorf("Expected enhanced reading time floor of 5, got %d", post.ReadingTimeMinutes)
	}
	if !strings.Contains(post.Content, "narrative-expansion") {
		t.Error("Expected short entry to be expanded")
	}
	if post.AuthorID == "" || post.AuthorID != summary.Posts[1].AuthorID {
		t.Errorf("Expected both posts attributed to the bot, got %q and %q", post.AuthorID, summary.Posts[1].AuthorID)
	}
	if !strings.HasSuffix(post.Excerpt, "...") {
		t.Errorf("Expected excerpt with ellipsis, got %q", post.Excerpt)
	}

	for _, id := range []string{"a", "b"} {
		if _, ok := h.store.lastFetch[id]; !ok {
			t.Errorf("Expected last_fetch_at update for source %s", id)
		}
	}
	for _, res := range summary.Sources {
		if res.Status != StatusCompleted || res.Created != 1 {
			t.Errorf("Unexpected source result %+v", res)
		}
	}
}

func TestRunGlobalCap(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"), source("b", "https://b.example.com/feed"))
	for i := 0; i < 5; i++ {
		h.store.seedPost("existing-"+string(rune('a'+i)), "https://other.example.com/feed", cycleStart.Add(-time.Hour))
	}
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(rssItem("Sixth", "body"))
	h.fetcher.docs["https://b.example.com/feed"] = rssDoc(rssItem("Seventh", "body"))

	summary, err := h.orchestrator(Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(summary.Posts) != 0 {
		t.Errorf("Expected no posts past the global cap, got %d", len(summary.Posts))
	}
	if len(summary.Errors) != 0 {
		t.Errorf("Expected rate limiting not to be reported as an error, got %v", summary.Errors)
	}
	if h.fetcher.calls["https://b.example.com/feed"] != 0 {
		t.Error("Expected sources after the cap not to be fetched")
	}
	if summary.Sources[1].Status != StatusSkipped {
		t.Errorf("Expected second source skipped, got %+v", summary.Sources[1])
	}
	if _, ok := h.store.lastFetch["b"]; ok {
		t.Error("Expected skipped source to keep its last_fetch_at")
	}
}

func TestRunGlobalCapPostsFromYesterdayDoNotCount(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"))
	for i := 0; i < 5; i++ {
		h.store.seedPost("old-"+string(rune('a'+i)), "https://a.example.com/feed", DayStart(cycleStart).Add(-time.Minute))
	}
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(rssItem("Fresh", "body"))

	summary, err := h.orchestrator(Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Posts) != 1 {
		t.Errorf("Expected 1 post, got %d", len(summary.Posts))
	}
}

func TestRunSourceCap(t *testing.T) {
	h := newHarness(source("x", "https://x.example.com/feed"), source("y", "https://y.example.com/feed"))
	h.store.seedPost("earlier-x", "https://x.example.com/feed", cycleStart.Add(-time.Hour))
	h.fetcher.docs["https://x.example.com/feed"] = rssDoc(rssItem("From X", "body"))
	h.fetcher.docs["https://y.example.com/feed"] = rssDoc(rssItem("From Y", "body"), rssItem("Also From Y", "body"))

	summary, err := h.orchestrator(Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(summary.Posts) != 1 {
		t.Fatalf("Expected exactly one post, got %d", len(summary.Posts))
	}
	if summary.Posts[0].Slug != "from-y" {
		t.Errorf("Expected the post from Y, got %q", summary.Posts[0].Slug)
	}
	if summary.Sources[0].Created != 0 || summary.Sources[1].Created != 1 {
		t.Errorf("Unexpected source results %+v", summary.Sources)
	}
}

func TestRunSkipsDuplicatesInEnhancedMode(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"))
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(rssItem("Same Title", "one"), rssItem("Same Title", "two"))

	summary, err := h.orchestrator(Options{SourceLimit: 5}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(summary.Posts) != 1 {
		t.Fatalf("Expected 1 post, got %d", len(summary.Posts))
	}
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0], "already exists") {
		t.Errorf("Expected duplicate recorded in errors, got %v", summary.Errors)
	}
	if len(h.store.posts) != 1 {
		t.Errorf("Expected a single stored post, got %d", len(h.store.posts))
	}
}

func TestRunSkipsPostsAlreadyInStore(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"))
	h.store.seedPost("known-story", "https://elsewhere", cycleStart.AddDate(0, 0, -3))
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(rssItem("Known Story", "body"))

	summary, err := h.orchestrator(Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Posts) != 0 {
		t.Errorf("Expected existing post not to be recreated, got %d posts", len(summary.Posts))
	}
	if summary.Sources[0].Skipped != 1 {
		t.Errorf("Expected one skipped entry, got %+v", summary.Sources[0])
	}
}

func TestRunForceUniqueInPlainMode(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"))
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(rssItem("Same Title", "one"), rssItem("Same Title", "two"))

	summary, err := h.orchestrator(Options{Mode: config.ModePlain, SourceLimit: 5}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(summary.Posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d (errors: %v)", len(summary.Posts), summary.Errors)
	}
	first, second := summary.Posts[0].Slug, summary.Posts[1].Slug
	if first == second {
		t.Errorf("Expected distinct slugs, got %q twice", first)
	}
	for _, slug := range []string{first, second} {
		if !strings.HasPrefix(slug, "same-title-") {
			t.Errorf("Expected timestamped slug, got %q", slug)
		}
	}
	if summary.Posts[0].ReadingTimeMinutes != 1 {
		t.Errorf("Expected no reading time floor on plain path, got %d", summary.Posts[0].ReadingTimeMinutes)
	}
	if strings.Contains(summary.Posts[0].Content, "narrative-expansion") {
		t.Error("Expected plain path not to expand content")
	}
}

func TestRunForceUniqueWithinOneMillisecond(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"))
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(
		rssItem("Same Title", "one"),
		rssItem("Same Title", "two"),
		rssItem("Same Title", "three"),
	)

	o := NewOrchestrator(Deps{
		Store:   h.store,
		Fetcher: h.fetcher,
		Parser:  feed.NewParser(),
	}, Options{
		Mode:        config.ModePlain,
		DailyLimit:  5,
		SourceLimit: 5,
		Now:         func() time.Time { return cycleStart },
	})

	summary, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(summary.Posts) != 3 {
		t.Fatalf("Expected 3 posts, got %d (errors: %v)", len(summary.Posts), summary.Errors)
	}
	base := fmt.Sprintf("same-title-%d", cycleStart.UnixMilli())
	want := []string{base, base + "-2", base + "-3"}
	for i, post := range summary.Posts {
		if post.Slug != want[i] {
			t.Errorf("post %d slug = %q, want %q", i, post.Slug, want[i])
		}
	}
}

func TestRunRecordsSourceFailures(t *testing.T) {
	h := newHarness(
		source("broken", "https://broken.example.com/feed"),
		source("down", "https://down.example.com/feed"),
		source("ok", "https://ok.example.com/feed"),
		source("mismatched", "https://mismatched.example.com/feed"),
	)
	h.fetcher.docs["https://broken.example.com/feed"] = `<rss version="2.0"><channel><item><title>Broken`
	h.fetcher.docs["https://mismatched.example.com/feed"] = `<rss version="2.0"><channel><item><title>a</item></channel></rss>`
	h.fetcher.errs["https://down.example.com/feed"] = &feed.FetchError{URL: "https://down.example.com/feed", StatusCode: 503}
	h.fetcher.docs["https://ok.example.com/feed"] = rssDoc(rssItem("Working", "body"))

	summary, err := h.orchestrator(Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Expected source failures not to fail the run, got %v", err)
	}

	if len(summary.Posts) != 1 {
		t.Errorf("Expected the healthy source to produce a post, got %d", len(summary.Posts))
	}
	if len(summary.Errors) != 3 {
		t.Fatalf("Expected 3 errors, got %v", summary.Errors)
	}
	if !strings.Contains(summary.Errors[0], "parse feed") {
		t.Errorf("Expected parse error recorded, got %q", summary.Errors[0])
	}
	if !strings.Contains(summary.Errors[1], "503") {
		t.Errorf("Expected fetch error recorded, got %q", summary.Errors[1])
	}

	if !strings.Contains(summary.Errors[2], "parse feed") {
		t.Errorf("Expected mismatched tags rejected as a parse error, got %q", summary.Errors[2])
	}

	for _, id := range []string{"broken", "down", "ok", "mismatched"} {
		if _, ok := h.store.lastFetch[id]; !ok {
			t.Errorf("Expected last_fetch_at updated for %s", id)
		}
	}
	if summary.Sources[0].Status != StatusFailed || summary.Sources[1].Status != StatusFailed || summary.Sources[3].Status != StatusFailed {
		t.Errorf("Expected failed sources, got %+v", summary.Sources)
	}
}

func TestRunSkipsInvalidEntries(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"))
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(
		rssItem("   ", "body without title"),
		rssItem("No Body", "  "),
		rssItem("Valid", "a proper body"),
	)

	summary, err := h.orchestrator(Options{SourceLimit: 5}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(summary.Posts) != 1 || summary.Posts[0].Slug != "valid" {
		t.Errorf("Expected only the valid entry to be stored, got %+v", summary.Posts)
	}
	if len(summary.Errors) != 2 {
		t.Errorf("Expected 2 validation errors, got %v", summary.Errors)
	}
}

func TestRunReportsPersistErrors(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"))
	h.store.insertErr = errors.New("constraint violation")
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(rssItem("Story", "body"))

	summary, err := h.orchestrator(Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Posts) != 0 || len(summary.Errors) != 1 {
		t.Errorf("Expected one persist error and no posts, got %d posts, errors %v", len(summary.Posts), summary.Errors)
	}
}

func TestRunFailsWhenSourcesCannotBeListed(t *testing.T) {
	h := newHarness()
	h.store.listErr = errors.New("connection refused")

	if _, err := h.orchestrator(Options{}).Run(context.Background()); err == nil {
		t.Error("Expected error when the store is unreachable")
	}
}

func TestRunResolvesBotProfileOnce(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"))
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc()
	o := h.orchestrator(Options{})

	for i := 0; i < 2; i++ {
		if _, err := o.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}

	if h.store.createProfiles != 1 {
		t.Errorf("Expected bot profile created once, got %d", h.store.createProfiles)
	}
}

type upperTranslator struct{ calls int }

func (u *upperTranslator) Translate(_ context.Context, text, target string) string {
	u.calls++
	return strings.ToUpper(text)
}

func TestRunTranslatesBeforeComposing(t *testing.T) {
	h := newHarness(source("a", "https://a.example.com/feed"))
	h.fetcher.docs["https://a.example.com/feed"] = rssDoc(rssItem("Merhaba Dunya", "kisa metin"))
	translator := &upperTranslator{}

	o := NewOrchestrator(Deps{
		Store:      h.store,
		Fetcher:    h.fetcher,
		Parser:     feed.NewParser(),
		Translator: translator,
	}, Options{DailyLimit: 5, SourceLimit: 1, TranslateTarget: "en", Now: h.clock.Now})

	summary, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Posts) != 1 {
		t.Fatalf("Expected 1 post, got %d", len(summary.Posts))
	}
	if summary.Posts[0].Title != "MERHABA DUNYA" {
		t.Errorf("Expected translated title, got %q", summary.Posts[0].Title)
	}
	if summary.Posts[0].Slug != "merhaba-dunya" {
		t.Errorf("Expected slug from the source title, got %q", summary.Posts[0].Slug)
	}
	if translator.calls != 2 {
		t.Errorf("Expected title and body translated, got %d calls", translator.calls)
	}
}
