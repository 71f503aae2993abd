package types

// contextKey is a private type for context values to avoid collisions with
// other packages.
type contextKey string

const (
	// ContextKeySessionID carries the orchestration session ID through
	// logging and telemetry.
	ContextKeySessionID contextKey = "session_id"
	// ContextKeyRequestSource identifies where a query entered the system
	// (http, cli, csv).
	ContextKeyRequestSource contextKey = "request_source"
)

// Role identifies the author of a chat message sent to the LLM classifier.
type Role string

// Message is a single chat message exchanged with an LLM provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
