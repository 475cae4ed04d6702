package content

import (
	"strconv"
	"strings"
	"time"
)

// Slugify lowercases title, collapses every run of characters outside [a-z0-9] into a
// single hyphen and trims hyphens from both ends.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// UniqueSlug appends the millisecond timestamp to the slug of title. Used by the
// always-create ingestion path instead of skipping duplicates.
func UniqueSlug(title string, now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	slug := Slugify(title)
	if slug == "" {
		return ms
	}
	return slug + "-" + ms
}
