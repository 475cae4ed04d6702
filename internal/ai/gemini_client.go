package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/go-resty/resty/v2"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiRewriter rewrites text with the Gemini generateContent API
type GeminiRewriter struct {
	client    *resty.Client
	apiKey    string
	model     string
	baseURL   string
	throttle  *Throttle
	sanitizer *Sanitizer
}

type geminiRequest struct {
	SystemInstruction *geminiContent `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// DefaultGeminiModel is used when AI_MODEL is empty
const DefaultGeminiModel = "gemini-1.5-flash"

func NewGeminiRewriter(apiKey, model string, timeout time.Duration, throttle *Throttle) *GeminiRewriter {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiRewriter{
		client:    resty.New().SetTimeout(timeout),
		apiKey:    apiKey,
		model:     model,
		baseURL:   geminiBaseURL,
		throttle:  throttle,
		sanitizer: NewSanitizer(),
	}
}

// WithBaseURL points the client at a different API host
func (g *GeminiRewriter) WithBaseURL(baseURL string) *GeminiRewriter {
	if baseURL != "" {
		g.baseURL = strings.TrimRight(baseURL, "/")
	}
	return g
}

// Rewrite returns the edited text, or text itself when the call fails
func (g *GeminiRewriter) Rewrite(ctx context.Context, text string) string {
	log := logger.Get()
	if strings.TrimSpace(text) == "" {
		return text
	}

	if err := g.throttle.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("Gemini rewrite skipped while waiting for throttle")
		return text
	}

	start := time.Now()
	out, err := g.callGeminiAPI(ctx, BuildRewritePrompt(text))
	if err != nil {
		log.Error().
			Err(err).
			Str("model", g.model).
			Dur("duration", time.Since(start)).
			Msg("Gemini rewrite failed, keeping original text")
		return text
	}

	cleaned := g.sanitizer.Clean(out)
	if cleaned == "" {
		log.Warn().Str("model", g.model).Msg("Gemini rewrite returned empty content, keeping original text")
		return text
	}

	log.Debug().
		Str("model", g.model).
		Dur("duration", time.Since(start)).
		Int("response_length", len(cleaned)).
		Msg("Gemini rewrite completed")

	return cleaned
}

func (g *GeminiRewriter) callGeminiAPI(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)

	req := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: PromptTemplates.RewriteSystem}}},
		Contents: []geminiContent{{
			Parts: []geminiPart{{
				Text: prompt,
			}},
		}},
	}

	var resp geminiResponse
	httpResp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(url)

	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if httpResp.IsError() {
		return "", fmt.Errorf("API returned status %d", httpResp.StatusCode())
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
