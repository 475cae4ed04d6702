package content

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Policies are safe for concurrent use once built
var feedPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips scripts, event handler attributes, unsafe URL schemes and any
// element outside the user-generated-content allow list. Plain text is returned trimmed
// and unescaped so it can still be wrapped by Paragraphs.
func SanitizeHTML(s string) string {
	if !IsHTML(s) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(feedPolicy.Sanitize(s))
}
