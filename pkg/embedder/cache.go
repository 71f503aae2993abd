package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"

	badger "github.com/dgraph-io/badger/v4"
)

// CachingClient wraps a Client with a persistent badger-backed cache. Queries
// and answers repeat heavily across sessions, so caching their embeddings
// avoids most provider calls.
type CachingClient struct {
	inner Client
	db    *badger.DB
	model string
}

// NewCachingClient opens (or creates) the cache at path and wraps inner.
// Cache keys include the model name so switching models never serves stale
// vectors.
func NewCachingClient(inner Client, path, model string) (*CachingClient, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}

	return &CachingClient{
		inner: inner,
		db:    db,
		model: model,
	}, nil
}

// Embed returns cached embeddings where available and delegates the misses to
// the wrapped client in a single batch.
func (c *CachingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	err := c.db.View(func(txn *badger.Txn) error {
		for i, text := range texts {
			item, err := txn.Get(c.key(text))
			if err == badger.ErrKeyNotFound {
				missing = append(missing, text)
				missingIdx = append(missingIdx, i)
				continue
			}
			if err != nil {
				return err
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			embeddings[i] = decodeVector(val)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding cache read failed: %w", err)
	}

	if len(missing) == 0 {
		return embeddings, nil
	}

	fresh, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missing) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(fresh))
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		for j, vec := range fresh {
			embeddings[missingIdx[j]] = vec
			if err := txn.Set(c.key(missing[j]), encodeVector(vec)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding cache write failed: %w", err)
	}

	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *CachingClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// Dimensions returns the number of dimensions in the embeddings.
func (c *CachingClient) Dimensions() int {
	return c.inner.Dimensions()
}

// Close closes the cache and the wrapped client.
func (c *CachingClient) Close() error {
	if err := c.db.Close(); err != nil {
		return err
	}
	return c.inner.Close()
}

func (c *CachingClient) key(text string) []byte {
	h := sha256.Sum256([]byte(c.model + "\x00" + text))
	return h[:]
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
