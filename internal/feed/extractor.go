package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bilgisen/feedpress/internal/models"
)

// Extracted holds the pieces of an entry needed to build a post
type Extracted struct {
	Title    string
	Body     string
	ImageURL string
	Link     string
}

// Extractor picks the best available title, body and image from an entry
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns a ValidationError when the entry has no title or no body text
func (e *Extractor) Extract(entry models.FeedEntry) (Extracted, error) {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return Extracted{}, &ValidationError{Field: "title"}
	}

	body := firstNonBlank(entry.Content, entry.ContentEncoded, entry.Description, entry.Summary)
	if body == "" {
		return Extracted{}, &ValidationError{Field: "content"}
	}

	return Extracted{
		Title:    title,
		Body:     body,
		ImageURL: e.image(entry.Media, body),
		Link:     strings.TrimSpace(entry.Link),
	}, nil
}

// image prefers an attachment that declares an image MIME type, then the first <img>
// in the body
func (e *Extractor) image(media []models.MediaAttachment, body string) string {
	for _, m := range media {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(m.Type)), "image/") && strings.TrimSpace(m.URL) != "" {
			return strings.TrimSpace(m.URL)
		}
	}
	return FirstImage(body)
}

// FirstImage returns the src of the first <img> in an HTML fragment
func FirstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src = strings.TrimSpace(s.AttrOr("src", ""))
		return src == ""
	})
	return src
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
