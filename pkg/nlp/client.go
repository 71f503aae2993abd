// Package nlp provides the LLM chat client used for optional query intent
// refinement, with retry and circuit-breaking wrappers.
package nlp

import (
	"context"

	"github.com/polisearch/polisearch/pkg/types"
)

// Client is the interface all LLM providers must implement.
type Client interface {
	// Chat sends a chat completion request and returns the raw text
	// response.
	Chat(ctx context.Context, messages []types.Message) (string, error)

	// Close cleans up any resources.
	Close() error
}

const (
	// RoleSystem represents a system message.
	RoleSystem types.Role = "system"
	// RoleUser represents a user message.
	RoleUser types.Role = "user"
	// RoleAssistant represents an assistant message.
	RoleAssistant types.Role = "assistant"
)
