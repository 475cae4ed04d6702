package feed

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/bilgisen/feedpress/internal/models"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/mmcdole/gofeed/rss"
)

// Parser turns raw RSS 2.0 or Atom documents into feed entries
type Parser struct {
	rssParser  *rss.Parser
	atomParser *atom.Parser
}

func NewParser() *Parser {
	return &Parser{
		rssParser:  &rss.Parser{},
		atomParser: &atom.Parser{},
	}
}

// dialectEntry is an item as read by one of the dialect parsers. It is converted to
// models.FeedEntry right away so nothing downstream needs to know the dialect.
type dialectEntry interface {
	toEntry() models.FeedEntry
}

type rssItem struct{ item *rss.Item }

type atomEntry struct{ entry *atom.Entry }

// Parse reads raw and returns its entries in document order. A well-formed document that
// is neither RSS nor Atom yields no entries and no error.
func (p *Parser) Parse(raw string) ([]models.FeedEntry, error) {
	// gofeed's dialect parsers tolerate mismatched tags, so strictness is checked first
	if err := checkWellFormed(raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	var items []dialectEntry

	switch gofeed.DetectFeedType(strings.NewReader(raw)) {
	case gofeed.FeedTypeRSS:
		feed, err := p.rssParser.Parse(strings.NewReader(raw))
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		if feed == nil {
			return nil, &ParseError{Err: errors.New("empty parse result")}
		}
		for _, item := range feed.Items {
			if item != nil {
				items = append(items, rssItem{item: item})
			}
		}

	case gofeed.FeedTypeAtom:
		feed, err := p.atomParser.Parse(strings.NewReader(raw))
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		if feed == nil {
			return nil, &ParseError{Err: errors.New("empty parse result")}
		}
		for _, entry := range feed.Entries {
			if entry != nil {
				items = append(items, atomEntry{entry: entry})
			}
		}

	default:
		return []models.FeedEntry{}, nil
	}

	entries := make([]models.FeedEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, item.toEntry())
	}
	return entries, nil
}

func (r rssItem) toEntry() models.FeedEntry {
	item := r.item
	entry := models.FeedEntry{
		Title:          item.Title,
		Link:           item.Link,
		ContentEncoded: item.Content,
		Description:    item.Description,
	}

	// Un-namespaced <content> and <summary> are not part of RSS 2.0; gofeed keeps them
	// as custom elements
	if item.Custom != nil {
		entry.Content = item.Custom["content"]
		entry.Summary = item.Custom["summary"]
	}

	if item.Enclosure != nil && item.Enclosure.URL != "" {
		entry.Media = append(entry.Media, models.MediaAttachment{
			URL:  item.Enclosure.URL,
			Type: item.Enclosure.Type,
		})
	}
	entry.Media = append(entry.Media, mediaExtensions(item.Extensions)...)

	return entry
}

func (a atomEntry) toEntry() models.FeedEntry {
	e := a.entry
	entry := models.FeedEntry{
		Title:   e.Title,
		Summary: e.Summary,
	}

	if e.Content != nil {
		entry.Content = e.Content.Value
	}

	for _, link := range e.Links {
		if link == nil {
			continue
		}
		switch link.Rel {
		case "", "alternate":
			if entry.Link == "" {
				entry.Link = link.Href
			}
		case "enclosure":
			entry.Media = append(entry.Media, models.MediaAttachment{URL: link.Href, Type: link.Type})
		}
	}
	entry.Media = append(entry.Media, mediaExtensions(e.Extensions)...)

	return entry
}

// mediaExtensions collects Media RSS attachments (media:content, media:thumbnail)
func mediaExtensions(exts ext.Extensions) []models.MediaAttachment {
	media, ok := exts["media"]
	if !ok {
		return nil
	}

	var out []models.MediaAttachment
	for _, name := range []string{"content", "thumbnail"} {
		for _, m := range media[name] {
			if url := m.Attrs["url"]; url != "" {
				out = append(out, models.MediaAttachment{URL: url, Type: m.Attrs["type"]})
			}
		}
	}
	return out
}

// checkWellFormed walks the document token by token and fails on the first syntax error
// or when the document has no root element at all.
func checkWellFormed(raw string) error {
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	hasRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if _, ok := tok.(xml.StartElement); ok {
			hasRoot = true
		}
	}

	if !hasRoot {
		return errors.New("document has no root element")
	}
	return nil
}
