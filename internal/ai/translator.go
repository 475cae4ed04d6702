package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/feedpress/internal/content"
	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/go-resty/resty/v2"
)

const googleTranslateURL = "https://translation.googleapis.com/language/translate/v2"

// GoogleTranslator calls the Google Cloud Translation v2 REST API
type GoogleTranslator struct {
	client   *resty.Client
	apiKey   string
	endpoint string
	throttle *Throttle
}

type translateRequest struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewGoogleTranslator(apiKey string, timeout time.Duration, throttle *Throttle) *GoogleTranslator {
	return &GoogleTranslator{
		client:   resty.New().SetTimeout(timeout),
		apiKey:   apiKey,
		endpoint: googleTranslateURL,
		throttle: throttle,
	}
}

// WithEndpoint overrides the API endpoint
func (t *GoogleTranslator) WithEndpoint(endpoint string) *GoogleTranslator {
	if endpoint != "" {
		t.endpoint = endpoint
	}
	return t
}

// Translate returns text translated to target, or text itself when the call fails
func (t *GoogleTranslator) Translate(ctx context.Context, text, target string) string {
	log := logger.Get()
	if strings.TrimSpace(text) == "" || target == "" {
		return text
	}

	if err := t.throttle.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("Translation skipped while waiting for throttle")
		return text
	}

	out, err := t.translate(ctx, text, target)
	if err != nil {
		log.Error().
			Err(err).
			Str("target", target).
			Msg("Translation failed, keeping original text")
		return text
	}
	return out
}

func (t *GoogleTranslator) translate(ctx context.Context, text, target string) (string, error) {
	// html format re-escapes entities in plain strings such as titles
	format := "text"
	if content.IsHTML(text) {
		format = "html"
	}

	var result translateResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParam("key", t.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(translateRequest{Q: []string{text}, Target: target, Format: format}).
		SetResult(&result).
		SetError(&result).
		Post(t.endpoint)

	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}

	if resp.IsError() {
		if result.Error != nil {
			return "", fmt.Errorf("translate API error %d: %s", result.Error.Code, result.Error.Message)
		}
		return "", fmt.Errorf("translate API returned status %d", resp.StatusCode())
	}

	if len(result.Data.Translations) == 0 || strings.TrimSpace(result.Data.Translations[0].TranslatedText) == "" {
		return "", fmt.Errorf("empty translation")
	}

	return result.Data.Translations[0].TranslatedText, nil
}
