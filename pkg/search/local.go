package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/polisearch/polisearch/pkg/embedder"
	"github.com/polisearch/polisearch/pkg/types"
)

const localCollectionName = "chunks"

// LocalBackend serves searches from an in-process vector index, for running
// without the remote search service. Chunks are loaded from a JSON snapshot
// and queried by embedding similarity; structured filters are applied over
// chunk metadata.
type LocalBackend struct {
	db         *chromem.DB
	collection *chromem.Collection
	chunks     map[string]types.DocumentChunk
}

// NewLocalBackend creates an empty local backend using emb for both
// indexing and query embeddings.
func NewLocalBackend(emb embedder.Client) (*LocalBackend, error) {
	db := chromem.NewDB()
	ef := toEmbeddingFunc(emb)

	col, err := db.GetOrCreateCollection(localCollectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &LocalBackend{
		db:         db,
		collection: col,
		chunks:     make(map[string]types.DocumentChunk),
	}, nil
}

// NewLocalBackendFromSnapshot creates a local backend and indexes the chunks
// in the JSON snapshot at path.
func NewLocalBackendFromSnapshot(emb embedder.Client, path string) (*LocalBackend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index snapshot: %w", err)
	}
	var chunks []types.DocumentChunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("failed to parse index snapshot: %w", err)
	}

	backend, err := NewLocalBackend(emb)
	if err != nil {
		return nil, err
	}
	if err := backend.Index(context.Background(), chunks); err != nil {
		return nil, err
	}
	return backend, nil
}

// toEmbeddingFunc adapts an embedder.Client to the one-text-at-a-time
// function chromem expects.
func toEmbeddingFunc(emb embedder.Client) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return emb.EmbedSingle(ctx, text)
	}
}

// Index adds chunks to the collection. Safe to call more than once; chunk
// identity is file name plus page plus position.
func (b *LocalBackend) Index(ctx context.Context, chunks []types.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for i, chunk := range chunks {
		id := fmt.Sprintf("%s:%d:%d", chunk.FileName, chunk.ChunkPageNumber, i)
		content := chunk.ChunkContent
		if content == "" {
			content = chunk.ChunkFunctionSummary
		}
		if content == "" {
			content = strings.Join(chunk.QAQuestions, " ")
		}
		docs = append(docs, chromem.Document{
			ID:      id,
			Content: content,
			Metadata: map[string]string{
				"file_name":         chunk.FileName,
				"chunk_page_number": strconv.Itoa(chunk.ChunkPageNumber),
			},
		})
		b.chunks[id] = chunk
	}

	if err := b.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("failed to index chunks: %w", err)
	}
	return nil
}

// Search implements Backend. Equality clauses on file_name become native
// metadata filters; the remaining clauses are applied to the full chunk
// records after retrieval.
func (b *LocalBackend) Search(ctx context.Context, req Request) ([]types.DocumentChunk, error) {
	count := b.collection.Count()
	if count == 0 {
		return nil, nil
	}

	where := map[string]string{}
	for _, c := range req.Filter.Clauses() {
		if c.Op == OpEq && c.Field == "file_name" {
			where["file_name"] = c.Value.(string)
		}
	}
	if len(where) == 0 {
		where = nil
	}

	// Over-fetch so post-retrieval filtering still fills TopK.
	limit := req.TopK * 4
	if limit <= 0 || limit > count {
		limit = count
	}

	results, err := b.collection.Query(ctx, req.Query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("local query failed: %w", err)
	}

	chunks := make([]types.DocumentChunk, 0, len(results))
	for _, r := range results {
		chunk, ok := b.chunks[r.ID]
		if !ok {
			continue
		}
		chunk.Score = float64(r.Similarity)
		if !matchesFilter(chunk, req.Filter) {
			continue
		}
		chunks = append(chunks, chunk)
		if req.TopK > 0 && len(chunks) >= req.TopK {
			break
		}
	}
	return chunks, nil
}

// matchesFilter evaluates the structured filter against a chunk record.
// Clauses on fields the local index does not carry (branch, category,
// library) match everything, since snapshots are already scoped.
func matchesFilter(chunk types.DocumentChunk, f *Filter) bool {
	for _, c := range f.Clauses() {
		switch c.Field {
		case "file_name":
			if c.Op == OpEq && chunk.FileName != c.Value.(string) {
				return false
			}
		case "chunk_page_number":
			v := float64(chunk.ChunkPageNumber)
			if c.Op == OpGe && v < c.Value.(float64) {
				return false
			}
			if c.Op == OpLe && v > c.Value.(float64) {
				return false
			}
		case "qa_confidence":
			if c.Op == OpGe && chunk.QAConfidence < c.Value.(float64) {
				return false
			}
		case "chunk_word_count":
			if c.Op == OpGe {
				words := float64(len(strings.Fields(chunk.ChunkContent)))
				if words < c.Value.(float64) {
					return false
				}
			}
		case "chunk_entities":
			if c.Op == OpAnyEq && !containsFold(chunk.ChunkEntities, c.Value.(string)) {
				return false
			}
		}
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

// Close implements Backend.
func (b *LocalBackend) Close() error {
	return nil
}
