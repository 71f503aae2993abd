package embedder

import "context"

// Client is the interface all embedding providers must implement.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embeddings.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common embedder configuration.
type Config struct {
	// Model is the embedding model name.
	Model string
	// BaseURL overrides the API endpoint. For Azure this is the resource
	// endpoint.
	BaseURL string
	// APIVersion is the Azure API version. Ignored for other providers.
	APIVersion string
	// Dimensions is the embedding dimensionality.
	Dimensions int
	// BatchSize limits texts per request. Zero means provider default.
	BatchSize int
}
