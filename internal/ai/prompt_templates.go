package ai

import (
	"fmt"
	"strings"
)

// PromptTemplates contains the prompts sent to language models
var PromptTemplates = struct {
	RewriteSystem string
	Rewrite       string
}{
	RewriteSystem: `You are an experienced editor for a blog about AI tools, productivity and business. You improve writing without changing its meaning.`,

	Rewrite: `Improve the writing of the following article:

1. Keep every fact, name and number unchanged
2. Fix grammar and awkward phrasing
3. Keep the existing HTML tags and structure
4. Do not add headings, links or commentary
5. Respond with the edited article only, without code fences

Article:
%s`,
}

// BuildRewritePrompt creates the user prompt for a rewrite request
func BuildRewritePrompt(text string) string {
	return fmt.Sprintf(PromptTemplates.Rewrite, strings.TrimSpace(text))
}
