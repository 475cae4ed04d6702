package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/sashabaranov/go-openai"
)

// OpenAIRewriter rewrites text with a chat completion. Any OpenAI compatible endpoint
// can be used by setting a base URL.
type OpenAIRewriter struct {
	client    *openai.Client
	model     string
	throttle  *Throttle
	sanitizer *Sanitizer
}

func NewOpenAIRewriter(apiKey, model, baseURL string, timeout time.Duration, throttle *Throttle) *OpenAIRewriter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIRewriter{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		throttle:  throttle,
		sanitizer: NewSanitizer(),
	}
}

// Rewrite returns the edited text, or text itself when the call fails
func (p *OpenAIRewriter) Rewrite(ctx context.Context, text string) string {
	log := logger.Get()
	if strings.TrimSpace(text) == "" {
		return text
	}

	if err := p.throttle.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("OpenAI rewrite skipped while waiting for throttle")
		return text
	}

	start := time.Now()
	out, err := p.chat(ctx, text)
	if err != nil {
		log.Error().
			Err(err).
			Str("model", p.model).
			Dur("duration", time.Since(start)).
			Msg("OpenAI rewrite failed, keeping original text")
		return text
	}

	cleaned := p.sanitizer.Clean(out)
	if cleaned == "" {
		log.Warn().Str("model", p.model).Msg("OpenAI rewrite returned empty content, keeping original text")
		return text
	}

	return cleaned
}

func (p *OpenAIRewriter) chat(ctx context.Context, text string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: PromptTemplates.RewriteSystem},
			{Role: openai.ChatMessageRoleUser, Content: BuildRewritePrompt(text)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	logger.Get().Debug().
		Str("model", p.model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("OpenAI rewrite completed")

	return resp.Choices[0].Message.Content, nil
}
