package content

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"AI Tools: 10 Tips & Tricks!", "ai-tools-10-tips-tricks"},
		{"---already-slugged---", "already-slugged"},
		{"Çok güzel haber", "ok-g-zel-haber"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugifyProperties(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	titles := []string{
		"The Future of Work", "GTD -- Weekly Review", "Q3 2024 results (final)",
		"  multiple   spaces\tand\nnewlines ", "ÜNİCODE Başlık 42",
	}

	for _, title := range titles {
		slug := Slugify(title)
		if !valid.MatchString(slug) {
			t.Errorf("Slugify(%q) = %q is not a valid slug", title, slug)
		}
		if Slugify(title) != slug {
			t.Errorf("Slugify(%q) is not deterministic", title)
		}
		if strings.ToLower(slug) != slug {
			t.Errorf("Slugify(%q) = %q is not lowercase", title, slug)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	if got := UniqueSlug("Hello World", now); got != "hello-world-1700000000123" {
		t.Errorf("Unexpected unique slug %q", got)
	}
	if got := UniqueSlug("???", now); got != "1700000000123" {
		t.Errorf("Expected bare timestamp for empty slug, got %q", got)
	}

	first := UniqueSlug("Same Title", now)
	second := UniqueSlug("Same Title", now.Add(time.Millisecond))
	if first == second {
		t.Errorf("Expected distinct slugs, got %q twice", first)
	}
}
