package ai

import (
	"regexp"
	"strings"

	"github.com/bilgisen/feedpress/internal/content"
)

var (
	codeFence    = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

// Sanitizer cleans feed bodies and language model output before they are stored
type Sanitizer struct{}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Clean drops markdown code fences the model sometimes wraps its answer in and control
// characters, then runs the HTML through content.SanitizeHTML.
func (s *Sanitizer) Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = codeFence.ReplaceAllString(text, "")
	text = controlChars.ReplaceAllString(text, "")
	return content.SanitizeHTML(text)
}
