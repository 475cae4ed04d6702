package models

// FeedEntry is one article pulled out of a fetched feed document, normalised across RSS and Atom.
// It is never persisted as-is.
type FeedEntry struct {
	Title string
	Link  string

	// Body candidates in priority order: content, content:encoded, description, summary
	Content        string
	ContentEncoded string
	Description    string
	Summary        string

	Media []MediaAttachment
}

// MediaAttachment is an enclosure or media element attached to an entry
type MediaAttachment struct {
	URL  string
	Type string
}
