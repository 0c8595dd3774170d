// Package gemini provides an llm.Provider backed by the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/mailpilot/pkg/llm"
	"google.golang.org/genai"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-1.5-flash-002"

	maxOutputTokens = 64
)

// Provider implements llm.Provider using the genai SDK.
type Provider struct {
	client  *genai.Client
	apiKey  string
	baseURL string
	model   string
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for generation.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL points the client at a different Gemini endpoint.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// NewProvider creates a Gemini provider. An empty key returns
// llm.ErrNotConfigured.
func NewProvider(ctx context.Context, apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", llm.ErrNotConfigured)
	}

	p := &Provider{
		apiKey: apiKey,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      p.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: p.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	p.client = client

	return p, nil
}

// Complete generates a reply for the given messages. System messages become
// the system instruction.
func (p *Provider) Complete(ctx context.Context, messages []*llm.Message) (*llm.Message, error) {
	config := &genai.GenerateContentConfig{MaxOutputTokens: maxOutputTokens}

	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, msg.Content)
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content failed: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}

	return &llm.Message{Role: llm.RoleAssistant, Content: text}, nil
}

// responseText returns the first non-empty text the response carries: the
// SDK's aggregated text, then any candidate's text part.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if text := resp.Text(); strings.TrimSpace(text) != "" {
		return text
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}
