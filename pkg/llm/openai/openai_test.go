package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entrhq/mailpilot/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, status int, contents ...string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&captured)

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}

		choices := make([]map[string]any, 0, len(contents))
		for i, c := range contents {
			choices = append(choices, map[string]any{
				"index":         i,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": c},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": choices,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestNewProvider_RequiresKey(t *testing.T) {
	_, err := NewProvider("")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestNewProvider_Options(t *testing.T) {
	p, err := NewProvider("sk-test", WithModel("gpt-4o"), WithBaseURL("http://localhost:8080/v1"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.GetModel())
	assert.Equal(t, "http://localhost:8080/v1", p.GetBaseURL())

	p, err = NewProvider("sk-test", WithModel(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, p.GetModel())
	assert.Equal(t, DefaultBaseURL, p.GetBaseURL())
}

func TestProvider_Complete(t *testing.T) {
	srv, captured := completionServer(t, http.StatusOK, "", "Lunch at noon")

	p, err := NewProvider("sk-test", WithBaseURL(srv.URL), WithMaxRetries(0))
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), []*llm.Message{
		llm.NewSystemMessage("be brief"),
		llm.NewUserMessage("subject please"),
	})
	require.NoError(t, err)
	assert.Equal(t, llm.RoleAssistant, reply.Role)
	assert.Equal(t, "Lunch at noon", reply.Content)

	assert.Equal(t, DefaultModel, (*captured)["model"])
	msgs, ok := (*captured)["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestProvider_CompleteEmpty(t *testing.T) {
	srv, _ := completionServer(t, http.StatusOK, "   ")

	p, err := NewProvider("sk-test", WithBaseURL(srv.URL), WithMaxRetries(0))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), []*llm.Message{llm.NewUserMessage("x")})
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestProvider_CompleteServerError(t *testing.T) {
	srv, _ := completionServer(t, http.StatusBadRequest)

	p, err := NewProvider("sk-test", WithBaseURL(srv.URL), WithMaxRetries(0))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), []*llm.Message{llm.NewUserMessage("x")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, llm.ErrEmptyResponse)
	assert.NotErrorIs(t, err, llm.ErrNotConfigured)
}
