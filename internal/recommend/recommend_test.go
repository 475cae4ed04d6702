package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bilgisen/feedpress/internal/models"
)

type stubLister struct {
	posts []models.Post
	err   error
}

func (s stubLister) ListRecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if len(s.posts) > limit {
		return s.posts[:limit], s.err
	}
	return s.posts, s.err
}

func recentPosts(n int) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			Title:              fmt.Sprintf("Post %d", i),
			Slug:               fmt.Sprintf("post-%d", i),
			Excerpt:            "Excerpt...",
			ReadingTimeMinutes: 5,
		}
	}
	return posts
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name      string
		posts     []models.Post
		userID    string
		wantCards int
		wantSlugs []string
	}{
		{
			name:      "anonymous gets newest",
			posts:     recentPosts(8),
			userID:    AnonymousUser,
			wantCards: 3,
			wantSlugs: []string{"post-0", "post-1", "post-2"},
		},
		{
			name:      "fewer posts than cards",
			posts:     recentPosts(2),
			userID:    "user-1",
			wantCards: 2,
		},
		{
			name:      "signed in user",
			posts:     recentPosts(8),
			userID:    "3f1c5a4e-user",
			wantCards: 3,
		},
		{
			name:      "no posts",
			posts:     nil,
			userID:    AnonymousUser,
			wantCards: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := New(stubLister{posts: tt.posts}).Suggest(context.Background(), tt.userID)
			if err != nil {
				t.Fatalf("Suggest() error = %v", err)
			}

			if got := strings.Count(html, `class="recommendation-card"`); got != tt.wantCards {
				t.Errorf("Expected %d cards, got %d in %s", tt.wantCards, got, html)
			}
			for _, slug := range tt.wantSlugs {
				if !strings.Contains(html, `href="/blog/`+slug+`"`) {
					t.Errorf("Expected link to %s in %s", slug, html)
				}
			}
			if tt.wantCards == 0 && !strings.Contains(html, "recommendations-empty") {
				t.Errorf("Expected empty state, got %s", html)
			}
		})
	}
}

func TestSuggestIsStablePerUser(t *testing.T) {
	r := New(stubLister{posts: recentPosts(10)})

	first, err := r.Suggest(context.Background(), "user-42")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	second, _ := r.Suggest(context.Background(), "user-42")
	if first != second {
		t.Error("Expected the same suggestions for the same user")
	}
}

func TestSuggestEscapesTitles(t *testing.T) {
	posts := []models.Post{{Title: `<script>alert(1)</script>`, Slug: "x"}}

	html, err := New(stubLister{posts: posts}).Suggest(context.Background(), AnonymousUser)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("Expected title to be escaped, got %s", html)
	}
}

func TestSuggestStoreError(t *testing.T) {
	_, err := New(stubLister{err: errors.New("timeout")}).Suggest(context.Background(), AnonymousUser)
	if err == nil {
		t.Error("Expected error when posts cannot be listed")
	}
}

func TestPickWrapsAround(t *testing.T) {
	posts := recentPosts(4)
	for _, user := range []string{"a", "b", "c", "d", "e"} {
		picked := pick(posts, user)
		if len(picked) != 3 {
			t.Fatalf("Expected 3 posts for %s, got %d", user, len(picked))
		}
		seen := map[string]bool{}
		for _, p := range picked {
			if seen[p.Slug] {
				t.Errorf("Duplicate post %s for user %s", p.Slug, user)
			}
			seen[p.Slug] = true
		}
	}
}
