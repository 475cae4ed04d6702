package recommend

import (
	"context"
	"fmt"
	"hash/fnv"
	"html/template"
	"strings"

	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/bilgisen/feedpress/internal/models"
)

// AnonymousUser is the user id sent by visitors who are not signed in
const AnonymousUser = "anonymous"

const (
	cardCount = 3
	poolSize  = 12
)

// PostLister returns the newest posts first
type PostLister interface {
	ListRecentPosts(ctx context.Context, limit int) ([]models.Post, error)
}

var cardsTemplate = template.Must(template.New("cards").Parse(
	`<div class="recommendations">` +
		`{{range .}}<article class="recommendation-card"><a href="/blog/{{.Slug}}">` +
		`{{if .ImageURL}}<img src="{{.ImageURL}}" alt="{{.Title}}" loading="lazy">{{end}}` +
		`<h3>{{.Title}}</h3>` +
		`{{if .Excerpt}}<p>{{.Excerpt}}</p>{{end}}` +
		`<span class="reading-time">{{.ReadingTimeMinutes}} min read</span>` +
		`</a></article>{{else}}<p class="recommendations-empty">No suggestions yet.</p>{{end}}` +
		`</div>`))

// Recommender renders suggestion cards from recent posts
type Recommender struct {
	posts PostLister
}

func New(posts PostLister) *Recommender {
	return &Recommender{posts: posts}
}

// Suggest returns an HTML fragment with up to three post cards. Anonymous visitors see
// the newest posts; signed-in users get a stable selection rotated by their id.
func (r *Recommender) Suggest(ctx context.Context, userID string) (string, error) {
	posts, err := r.posts.ListRecentPosts(ctx, poolSize)
	if err != nil {
		return "", fmt.Errorf("list recent posts: %w", err)
	}

	picked := pick(posts, userID)

	var b strings.Builder
	if err := cardsTemplate.Execute(&b, picked); err != nil {
		return "", fmt.Errorf("render suggestions: %w", err)
	}

	logger.Get().Debug().
		Str("user_id", userID).
		Int("cards", len(picked)).
		Msg("Rendered recommendations")

	return b.String(), nil
}

func pick(posts []models.Post, userID string) []models.Post {
	if len(posts) <= cardCount {
		return posts
	}
	if userID == "" || userID == AnonymousUser {
		return posts[:cardCount]
	}

	h := fnv.New32a()
	h.Write([]byte(userID))
	offset := int(h.Sum32() % uint32(len(posts)))

	picked := make([]models.Post, 0, cardCount)
	for i := 0; i < cardCount; i++ {
		picked = append(picked, posts[(offset+i)%len(posts)])
	}
	return picked
}
