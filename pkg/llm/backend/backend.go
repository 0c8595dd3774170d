// Package backend builds the configured llm.Provider.
package backend

import (
	"context"
	"fmt"

	"github.com/entrhq/mailpilot/pkg/config"
	"github.com/entrhq/mailpilot/pkg/llm"
	"github.com/entrhq/mailpilot/pkg/llm/gemini"
	"github.com/entrhq/mailpilot/pkg/llm/openai"
)

// New returns the provider selected by cfg.Provider. A missing API key
// yields an error wrapping llm.ErrNotConfigured.
func New(ctx context.Context, cfg config.LLMConfig) (llm.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", providerName(cfg), llm.ErrNotConfigured)
	}

	switch providerName(cfg) {
	case config.ProviderGemini:
		opts := []gemini.ProviderOption{gemini.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.BaseURL))
		}
		p, err := gemini.NewProvider(ctx, cfg.APIKey, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderOpenAI:
		p, err := openai.NewProvider(cfg.APIKey,
			openai.WithModel(cfg.Model),
			openai.WithBaseURL(cfg.BaseURL),
		)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func providerName(cfg config.LLMConfig) string {
	if cfg.Provider == "" {
		return config.ProviderGemini
	}
	return cfg.Provider
}
