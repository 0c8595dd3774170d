// Package llm provides abstractions for the text-generation services used to
// write email subjects.
//
// Example usage:
//
//	provider, err := gemini.NewProvider(ctx, cfg.LLM.APIKey)
//	if err != nil {
//	    return err
//	}
//	msg, err := provider.Complete(ctx, []*llm.Message{
//	    llm.NewUserMessage("Summarise this email in one line"),
//	})
package llm

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured reports that no provider is usable, typically because
	// no API key was supplied.
	ErrNotConfigured = errors.New("llm: provider not configured")

	// ErrEmptyResponse reports a successful call that produced no text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    Role
	Content string
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// Provider defines the interface for text-generation integrations.
type Provider interface {
	// Complete sends messages and returns the assistant's reply.
	//
	// Implementations return ErrEmptyResponse (possibly wrapped) when the
	// service answered without any text.
	Complete(ctx context.Context, messages []*Message) (*Message, error)

	// GetModel returns the model name being used.
	GetModel() string
}
