package feed

import (
	"errors"
	"testing"

	"github.com/bilgisen/feedpress/internal/models"
)

func TestExtractBodyPriority(t *testing.T) {
	tests := []struct {
		name  string
		entry models.FeedEntry
		want  string
	}{
		{
			name:  "content wins",
			entry: models.FeedEntry{Title: "T", Content: "content", ContentEncoded: "encoded", Description: "desc", Summary: "summary"},
			want:  "content",
		},
		{
			name:  "blank content falls through to encoded",
			entry: models.FeedEntry{Title: "T", Content: "   ", ContentEncoded: "encoded", Description: "desc"},
			want:  "encoded",
		},
		{
			name:  "description",
			entry: models.FeedEntry{Title: "T", Description: "desc", Summary: "summary"},
			want:  "desc",
		},
		{
			name:  "summary last",
			entry: models.FeedEntry{Title: "T", Summary: "summary"},
			want:  "summary",
		},
	}

	extractor := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractor.Extract(tt.entry)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Body != tt.want {
				t.Errorf("Expected body %q, got %q", tt.want, got.Body)
			}
		})
	}
}

func TestExtractRejectsIncompleteEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry models.FeedEntry
		field string
	}{
		{name: "missing title", entry: models.FeedEntry{Description: "body"}, field: "title"},
		{name: "blank title", entry: models.FeedEntry{Title: "  \n ", Description: "body"}, field: "title"},
		{name: "no body", entry: models.FeedEntry{Title: "Title", Content: " ", Summary: "\t"}, field: "content"},
	}

	extractor := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.Extract(tt.entry)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, vErr.Field)
			}
		})
	}
}

func TestExtractImage(t *testing.T) {
	tests := []struct {
		name  string
		entry models.FeedEntry
		want  string
	}{
		{
			name: "image enclosure",
			entry: models.FeedEntry{
				Title:       "T",
				Description: `<p>text <img src="https://example.com/inline.jpg"></p>`,
				Media:       []models.MediaAttachment{{URL: "https://example.com/cover.jpg", Type: "image/jpeg"}},
			},
			want: "https://example.com/cover.jpg",
		},
		{
			name: "non-image enclosure is ignored",
			entry: models.FeedEntry{
				Title:       "T",
				Description: `<p>text <img alt="x" src="https://example.com/inline.jpg"></p>`,
				Media:       []models.MediaAttachment{{URL: "https://example.com/a.mp3", Type: "audio/mpeg"}},
			},
			want: "https://example.com/inline.jpg",
		},
		{
			name: "untyped media is ignored",
			entry: models.FeedEntry{
				Title:       "T",
				Description: "plain text",
				Media:       []models.MediaAttachment{{URL: "https://example.com/thumb.jpg"}},
			},
			want: "",
		},
		{
			name:  "no image",
			entry: models.FeedEntry{Title: "T", Description: "<p>no pictures here</p>"},
			want:  "",
		},
	}

	extractor := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractor.Extract(tt.entry)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.ImageURL != tt.want {
				t.Errorf("Expected image %q, got %q", tt.want, got.ImageURL)
			}
		})
	}
}

func TestFirstImageSkipsEmptySrc(t *testing.T) {
	html := `<img src=""><img src="https://example.com/second.png">`
	if got := FirstImage(html); got != "https://example.com/second.png" {
		t.Errorf("Expected second image, got %q", got)
	}
}
