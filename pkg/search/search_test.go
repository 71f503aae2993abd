package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polisearch/polisearch/pkg/config"
	"github.com/polisearch/polisearch/pkg/types"
)

func TestFilterOData(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{
			name:   "empty",
			filter: NewFilter(),
			want:   "",
		},
		{
			name:   "nil",
			filter: nil,
			want:   "",
		},
		{
			name:   "single equality",
			filter: NewFilter().Eq("branch_name", "Kowloon"),
			want:   "branch_name eq 'Kowloon'",
		},
		{
			name: "context filters with word count",
			filter: NewFilter().
				Eq("branch_name", "Kowloon").
				Eq("category_name_en", "Travel").
				Ge("chunk_word_count", 50),
			want: "branch_name eq 'Kowloon' and category_name_en eq 'Travel' and chunk_word_count ge 50",
		},
		{
			name:   "empty values skipped",
			filter: NewFilter().Eq("branch_name", "").Eq("library_name_en", "Forms"),
			want:   "library_name_en eq 'Forms'",
		},
		{
			name:   "quote escaping",
			filter: NewFilter().Eq("file_name", "driver's_guide.pdf"),
			want:   "file_name eq 'driver''s_guide.pdf'",
		},
		{
			name:   "confidence floor",
			filter: NewFilter().Ge("qa_confidence", 0.75),
			want:   "qa_confidence ge 0.75",
		},
		{
			name:   "page range",
			filter: NewFilter().Eq("file_name", "policy.pdf").Ge("chunk_page_number", 2).Le("chunk_page_number", 10),
			want:   "file_name eq 'policy.pdf' and chunk_page_number ge 2 and chunk_page_number le 10",
		},
		{
			name:   "collection contains",
			filter: NewFilter().AnyEq("chunk_entities", "HK$500"),
			want:   "chunk_entities/any(e: e eq 'HK$500')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.OData())
		})
	}
}

func TestAzureBackendSearch(t *testing.T) {
	var captured searchBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.Contains(t, r.URL.Path, "/indexes/chunks/docs/search")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{
				{
					"file_name":         "travel_policy.pdf",
					"chunk_content":     "Coverage details",
					"chunk_page_number": 3,
					"@search.score":     2.5,
				},
			},
		})
	}))
	defer server.Close()

	backend, err := NewAzureBackend(config.SearchConfig{
		Endpoint:   server.URL,
		APIKey:     "test-key",
		IndexName:  "chunks",
		APIVersion: "2024-07-01",
	})
	require.NoError(t, err)

	chunks, err := backend.Search(context.Background(), Request{
		Query:        "premium levy",
		SearchFields: []string{"qa_questions", "qa_answers"},
		Select:       []string{"file_name", "chunk_content"},
		Filter:       NewFilter().Ge("qa_confidence", 0.0),
		TopK:         5,
		Vector:       []float32{0.1, 0.2},
		VectorField:  "chunk_content_vector",
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "travel_policy.pdf", chunks[0].FileName)
	assert.Equal(t, 3, chunks[0].ChunkPageNumber)
	assert.Equal(t, 2.5, chunks[0].Score)

	assert.Equal(t, "premium levy", captured.Search)
	assert.Equal(t, "qa_questions,qa_answers", captured.SearchFields)
	assert.Equal(t, "qa_confidence ge 0", captured.Filter)
	assert.Equal(t, 5, captured.Top)
	require.Len(t, captured.VectorQueries, 1)
	assert.Equal(t, DefaultKNearest, captured.VectorQueries[0].KNearestNeighbors)
	assert.Equal(t, "chunk_content_vector", captured.VectorQueries[0].Fields)
}

func TestAzureBackendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"message": "invalid key"}}`))
	}))
	defer server.Close()

	backend, err := NewAzureBackend(config.SearchConfig{
		Endpoint:   server.URL,
		APIKey:     "bad-key",
		IndexName:  "chunks",
		APIVersion: "2024-07-01",
	})
	require.NoError(t, err)

	_, err = backend.Search(context.Background(), Request{Query: "anything"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestNewAzureBackendValidation(t *testing.T) {
	_, err := NewAzureBackend(config.SearchConfig{APIKey: "k", IndexName: "i"})
	assert.Error(t, err)
	_, err = NewAzureBackend(config.SearchConfig{Endpoint: "http://x", IndexName: "i"})
	assert.Error(t, err)
	_, err = NewAzureBackend(config.SearchConfig{Endpoint: "http://x", APIKey: "k"})
	assert.Error(t, err)
}

// staticEmbedder returns fixed vectors keyed by known phrases so similarity
// ordering in tests is deterministic.
type staticEmbedder struct{}

func (staticEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = embedText(text)
	}
	return out, nil
}

func (s staticEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return embedText(text), nil
}

func (staticEmbedder) Dimensions() int { return 3 }
func (staticEmbedder) Close() error    { return nil }

func embedText(text string) []float32 {
	switch {
	case text == "travel coverage":
		return []float32{1, 0, 0}
	case text == "Travel coverage includes medical expenses":
		return []float32{0.9, 0.1, 0}
	case text == "Motor claims must be filed within 30 days":
		return []float32{0, 1, 0}
	default:
		return []float32{0, 0, 1}
	}
}

func localTestChunks() []types.DocumentChunk {
	return []types.DocumentChunk{
		{
			FileName:        "travel_policy.pdf",
			ChunkContent:    "Travel coverage includes medical expenses",
			ChunkPageNumber: 2,
			QAConfidence:    0.9,
			ChunkEntities:   []string{"premium"},
		},
		{
			FileName:        "motor_policy.pdf",
			ChunkContent:    "Motor claims must be filed within 30 days",
			ChunkPageNumber: 7,
			QAConfidence:    0.4,
		},
	}
}

func TestLocalBackendSearch(t *testing.T) {
	backend, err := NewLocalBackend(staticEmbedder{})
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, backend.Index(ctx, localTestChunks()))

	chunks, err := backend.Search(ctx, Request{Query: "travel coverage", TopK: 2})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "travel_policy.pdf", chunks[0].FileName)
	assert.Greater(t, chunks[0].Score, 0.0)
}

func TestLocalBackendFilters(t *testing.T) {
	backend, err := NewLocalBackend(staticEmbedder{})
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, backend.Index(ctx, localTestChunks()))

	// file_name equality is a native metadata filter
	chunks, err := backend.Search(ctx, Request{
		Query:  "travel coverage",
		Filter: NewFilter().Eq("file_name", "motor_policy.pdf"),
		TopK:   5,
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "motor_policy.pdf", chunks[0].FileName)

	// qa_confidence floor is applied post-retrieval
	chunks, err = backend.Search(ctx, Request{
		Query:  "travel coverage",
		Filter: NewFilter().Ge("qa_confidence", 0.8),
		TopK:   5,
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "travel_policy.pdf", chunks[0].FileName)

	// entity containment
	chunks, err = backend.Search(ctx, Request{
		Query:  "travel coverage",
		Filter: NewFilter().AnyEq("chunk_entities", "Premium"),
		TopK:   5,
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	// page range excludes everything
	chunks, err = backend.Search(ctx, Request{
		Query:  "travel coverage",
		Filter: NewFilter().Ge("chunk_page_number", 100),
		TopK:   5,
	})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestLocalBackendEmptyIndex(t *testing.T) {
	backend, err := NewLocalBackend(staticEmbedder{})
	require.NoError(t, err)
	defer backend.Close()

	chunks, err := backend.Search(context.Background(), Request{Query: "anything", TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
