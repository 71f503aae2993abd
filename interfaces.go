package polisearch

import (
	"context"

	"github.com/polisearch/polisearch/pkg/types"
)

// This file defines focused interfaces following the Interface Segregation
// Principle. Consumers should depend on the smallest interface that meets
// their needs.

// QueryRunner executes one query session and returns its final response.
// The HTTP server and the CLI depend on this interface rather than the
// concrete Client.
type QueryRunner interface {
	Run(ctx context.Context, req Request) (*types.FinalResponse, error)
}

// Closer releases client resources. Separate from QueryRunner so request
// handlers cannot close shared infrastructure.
type Closer interface {
	Close() error
}
