package search

import (
	"context"

	"github.com/polisearch/polisearch/pkg/types"
)

// Request describes one search against the chunk index. Strategies differ
// only in how they populate it.
type Request struct {
	// Query is the full-text search expression.
	Query string
	// SearchFields restricts full-text matching to the named fields.
	// Empty searches all searchable fields.
	SearchFields []string
	// Select lists the fields to return. Empty returns all retrievable
	// fields.
	Select []string
	// Filter is the structured filter applied before scoring.
	Filter *Filter
	// Facets requests facet counts, e.g. "file_name,count:10".
	Facets []string
	// Vector enables hybrid retrieval when non-nil.
	Vector []float32
	// VectorField is the index field holding chunk embeddings.
	VectorField string
	// KNearest is the vector neighbourhood size. Zero uses the default.
	KNearest int
	// TopK caps the number of results.
	TopK int
}

// Backend executes search requests against a chunk index.
type Backend interface {
	Search(ctx context.Context, req Request) ([]types.DocumentChunk, error)
	Close() error
}

// DefaultKNearest is the vector neighbourhood size used when a request does
// not set one.
const DefaultKNearest = 50
