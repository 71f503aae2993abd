package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/polisearch/polisearch/pkg/config"
	"github.com/polisearch/polisearch/pkg/types"
)

// AzureBackend executes requests against an Azure AI Search index over its
// REST API.
type AzureBackend struct {
	endpoint   string
	apiKey     string
	indexName  string
	apiVersion string
	httpClient *http.Client
}

// NewAzureBackend creates a backend from configuration.
func NewAzureBackend(cfg config.SearchConfig) (*AzureBackend, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("search endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("search api key is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("search index name is required")
	}
	return &AzureBackend{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		indexName:  cfg.IndexName,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// searchBody is the REST request payload.
type searchBody struct {
	Search        string        `json:"search"`
	Filter        string        `json:"filter,omitempty"`
	Select        string        `json:"select,omitempty"`
	SearchFields  string        `json:"searchFields,omitempty"`
	Facets        []string      `json:"facets,omitempty"`
	Top           int           `json:"top,omitempty"`
	VectorQueries []vectorQuery `json:"vectorQueries,omitempty"`
}

type vectorQuery struct {
	Kind              string    `json:"kind"`
	Vector            []float32 `json:"vector"`
	KNearestNeighbors int       `json:"k"`
	Fields            string    `json:"fields"`
}

// searchDocument is one result row. Azure returns the selected index fields
// alongside the relevance score.
type searchDocument struct {
	types.DocumentChunk
	SearchScore float64 `json:"@search.score"`
}

type searchResponse struct {
	Value []searchDocument `json:"value"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Search implements Backend.
func (b *AzureBackend) Search(ctx context.Context, req Request) ([]types.DocumentChunk, error) {
	body := searchBody{
		Search:       req.Query,
		Filter:       req.Filter.OData(),
		Select:       strings.Join(req.Select, ","),
		SearchFields: strings.Join(req.SearchFields, ","),
		Facets:       req.Facets,
		Top:          req.TopK,
	}
	if len(req.Vector) > 0 {
		k := req.KNearest
		if k <= 0 {
			k = DefaultKNearest
		}
		body.VectorQueries = []vectorQuery{{
			Kind:              "vector",
			Vector:            req.Vector,
			KNearestNeighbors: k,
			Fields:            req.VectorField,
		}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s",
		b.endpoint, b.indexName, b.apiVersion)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("search error: %s", parsed.Error.Message)
	}

	chunks := make([]types.DocumentChunk, 0, len(parsed.Value))
	for _, doc := range parsed.Value {
		chunk := doc.DocumentChunk
		chunk.Score = doc.SearchScore
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Close implements Backend.
func (b *AzureBackend) Close() error {
	return nil
}
