package ai

import "context"

// Translator translates text into a target language, preserving markup.
// Implementations fail open: on any error the input is returned unchanged.
type Translator interface {
	Translate(ctx context.Context, text, target string) string
}

// Rewriter edits text for clarity and style. Implementations fail open.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) string
}

// Passthrough is the Translator and Rewriter used when no API key is configured
type Passthrough struct{}

func (Passthrough) Translate(_ context.Context, text, _ string) string { return text }

func (Passthrough) Rewrite(_ context.Context, text string) string { return text }
