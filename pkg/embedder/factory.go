package embedder

import (
	"fmt"

	"github.com/polisearch/polisearch/pkg/config"
)

// New builds an embedding client from configuration, wrapping it in a
// persistent cache when a cache path is configured.
func New(cfg config.EmbeddingConfig) (Client, error) {
	base := Config{
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		Dimensions: cfg.Dimensions,
	}

	var client Client
	var err error
	switch cfg.Provider {
	case "azure":
		client, err = NewAzureOpenAIEmbedder(cfg.APIKey, base)
		if err != nil {
			return nil, err
		}
	case "openai":
		client = NewOpenAIEmbedder(cfg.APIKey, base)
	case "embedeverything":
		client, err = NewEmbedEverythingClient(base)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}

	if cfg.CachePath != "" {
		cached, err := NewCachingClient(client, cfg.CachePath, cfg.Model)
		if err != nil {
			client.Close()
			return nil, err
		}
		return cached, nil
	}
	return client, nil
}
