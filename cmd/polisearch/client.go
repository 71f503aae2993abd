package polisearch

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/polisearch/polisearch"
	"github.com/polisearch/polisearch/pkg/config"
	"github.com/polisearch/polisearch/pkg/logger"
	"github.com/polisearch/polisearch/pkg/telemetry"
	"github.com/spf13/cobra"
)

// newLogger builds the slog logger, chaining the parquet error-tracking
// handler in front of the console handler when telemetry is configured.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logger.ParseLevel(cfg.Log.Level)}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)

	if cfg.Telemetry.ParquetPath != "" {
		if err := os.MkdirAll(cfg.Telemetry.ParquetPath, 0755); err == nil {
			if parquetHandler, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath); err == nil {
				handler = parquetHandler
			} else {
				fmt.Fprintf(os.Stderr, "Warning: error tracking disabled: %v\n", err)
			}
		}
	}

	return slog.New(handler)
}

// initializeClient loads configuration, applies shared command-line flags,
// and builds the polisearch client.
func initializeClient(cmd *cobra.Command) (*polisearch.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	log := newLogger(cfg)

	client, err := polisearch.New(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize polisearch: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Polisearch initialized (offline=%v, index=%s)\n",
		cfg.Search.Offline, cfg.Search.IndexName)
	return client, cfg, nil
}

// overrideConfigWithFlags applies flags shared between the server and query
// commands. Only flags the user actually set override the loaded config.
func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("search-endpoint") {
		cfg.Search.Endpoint, _ = cmd.Flags().GetString("search-endpoint")
	}
	if cmd.Flags().Changed("search-api-key") {
		cfg.Search.APIKey, _ = cmd.Flags().GetString("search-api-key")
	}
	if cmd.Flags().Changed("search-index") {
		cfg.Search.IndexName, _ = cmd.Flags().GetString("search-index")
	}
	if cmd.Flags().Changed("offline") {
		cfg.Search.Offline, _ = cmd.Flags().GetBool("offline")
	}
	if cmd.Flags().Changed("index-path") {
		cfg.Search.IndexPath, _ = cmd.Flags().GetString("index-path")
	}

	if cmd.Flags().Changed("nlp-enabled") {
		cfg.NLP.Enabled, _ = cmd.Flags().GetBool("nlp-enabled")
	}
	if cmd.Flags().Changed("nlp-model") {
		cfg.NLP.Model, _ = cmd.Flags().GetString("nlp-model")
	}
	if cmd.Flags().Changed("nlp-api-key") {
		cfg.NLP.APIKey, _ = cmd.Flags().GetString("nlp-api-key")
	}
	if cmd.Flags().Changed("nlp-base-url") {
		cfg.NLP.BaseURL, _ = cmd.Flags().GetString("nlp-base-url")
	}

	if cmd.Flags().Changed("embedding-provider") {
		cfg.Embedding.Provider, _ = cmd.Flags().GetString("embedding-provider")
	}
	if cmd.Flags().Changed("embedding-model") {
		cfg.Embedding.Model, _ = cmd.Flags().GetString("embedding-model")
	}
	if cmd.Flags().Changed("embedding-api-key") {
		cfg.Embedding.APIKey, _ = cmd.Flags().GetString("embedding-api-key")
	}
	if cmd.Flags().Changed("embedding-base-url") {
		cfg.Embedding.BaseURL, _ = cmd.Flags().GetString("embedding-base-url")
	}
	if cmd.Flags().Changed("embedding-cache") {
		cfg.Embedding.CachePath, _ = cmd.Flags().GetString("embedding-cache")
	}

	if cmd.Flags().Changed("confidence-threshold") {
		cfg.Orchestrator.ConfidenceThreshold, _ = cmd.Flags().GetFloat64("confidence-threshold")
	}

	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}

// addClientFlags registers the flags consumed by overrideConfigWithFlags.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("search-endpoint", "", "Search service endpoint")
	cmd.Flags().String("search-api-key", "", "Search service API key")
	cmd.Flags().String("search-index", "", "Search index name")
	cmd.Flags().Bool("offline", false, "Use the in-process index instead of the remote search service")
	cmd.Flags().String("index-path", "", "Path to an offline index snapshot (JSON)")

	cmd.Flags().Bool("nlp-enabled", false, "Enable LLM intent classification")
	cmd.Flags().String("nlp-model", "gpt-4o", "NLP model")
	cmd.Flags().String("nlp-api-key", "", "NLP API key")
	cmd.Flags().String("nlp-base-url", "", "NLP base URL")

	cmd.Flags().String("embedding-provider", "azure", "Embedding provider (openai, azure, embedeverything)")
	cmd.Flags().String("embedding-model", "text-embedding-3-small", "Embedding model")
	cmd.Flags().String("embedding-api-key", "", "Embedding API key")
	cmd.Flags().String("embedding-base-url", "", "Embedding base URL")
	cmd.Flags().String("embedding-cache", "", "Path to the on-disk embedding cache")

	cmd.Flags().Float64("confidence-threshold", 0.8, "Answer acceptance threshold")

	cmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry (query audit and errors)")
}
