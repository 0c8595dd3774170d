package backend

import (
	"context"
	"testing"

	"github.com/entrhq/mailpilot/pkg/config"
	"github.com/entrhq/mailpilot/pkg/llm"
	"github.com/entrhq/mailpilot/pkg/llm/gemini"
	"github.com/entrhq/mailpilot/pkg/llm/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := New(ctx, config.LLMConfig{Provider: config.ProviderOpenAI})
		assert.ErrorIs(t, err, llm.ErrNotConfigured)
	})

	t.Run("gemini by default", func(t *testing.T) {
		p, err := New(ctx, config.LLMConfig{APIKey: "g"})
		require.NoError(t, err)
		assert.IsType(t, &gemini.Provider{}, p)
		assert.Equal(t, gemini.DefaultModel, p.GetModel())
	})

	t.Run("openai with model", func(t *testing.T) {
		p, err := New(ctx, config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "o", Model: "gpt-4o"})
		require.NoError(t, err)
		assert.IsType(t, &openai.Provider{}, p)
		assert.Equal(t, "gpt-4o", p.GetModel())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(ctx, config.LLMConfig{Provider: "bard", APIKey: "x"})
		assert.Error(t, err)
	})
}
