package ai

import (
	"github.com/bilgisen/feedpress/internal/config"
)

// NewTranslator returns the configured translator, or Passthrough when translation is off
func NewTranslator(cfg *config.Config, throttle *Throttle) Translator {
	if !cfg.TranslationEnabled() {
		return Passthrough{}
	}
	return NewGoogleTranslator(cfg.TranslateAPIKey, cfg.AITimeout, throttle)
}

// NewRewriter returns the configured rewriter, or Passthrough when no AI key is set
func NewRewriter(cfg *config.Config, throttle *Throttle) Rewriter {
	if cfg.AIApiKey == "" {
		return Passthrough{}
	}

	switch cfg.AIProvider {
	case "gemini":
		return NewGeminiRewriter(cfg.AIApiKey, cfg.AIModel, cfg.AITimeout, throttle).WithBaseURL(cfg.AIBaseURL)
	default:
		return NewOpenAIRewriter(cfg.AIApiKey, cfg.AIModel, cfg.AIBaseURL, cfg.AITimeout, throttle)
	}
}
