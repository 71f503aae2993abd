// Package config loads application configuration from file, environment
// variables, and flags via viper.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Search backend configuration
	Search SearchConfig `mapstructure:"search"`

	// NLP configuration (intent classification)
	NLP NLPConfig `mapstructure:"nlp"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Orchestrator configuration
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// SearchConfig holds search backend configuration. When Offline is true the
// in-process index is used instead of the remote search service.
type SearchConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api_key"`
	IndexName  string `mapstructure:"index_name"`
	APIVersion string `mapstructure:"api_version"`
	Offline    bool   `mapstructure:"offline"`
	IndexPath  string `mapstructure:"index_path"` // offline index snapshot
}

// NLPConfig holds the LLM classifier configuration. Enabled=false skips the
// LLM entirely and relies on heuristic intent classification.
type NLPConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Provider     string  `mapstructure:"provider"` // openai, azure
	Model        string  `mapstructure:"model"`
	APIKey       string  `mapstructure:"api_key"`
	BaseURL      string  `mapstructure:"base_url"`
	DeploymentID string  `mapstructure:"deployment_id"`
	APIVersion   string  `mapstructure:"api_version"`
	Temperature  float32 `mapstructure:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"`
}

// EmbeddingConfig holds embedding configuration
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"` // openai, azure, embedeverything
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
	CachePath  string `mapstructure:"cache_path"` // badger dir, empty disables caching
}

// OrchestratorConfig holds the retry loop settings
type OrchestratorConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	TopK                int     `mapstructure:"top_k"`
	MaxSteps            int     `mapstructure:"max_steps"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("search.api_version", "2024-07-01")
	viper.SetDefault("search.offline", false)

	viper.SetDefault("nlp.enabled", false)
	viper.SetDefault("nlp.provider", "azure")
	viper.SetDefault("nlp.model", "gpt-4o")
	viper.SetDefault("nlp.api_version", "2024-02-15-preview")
	viper.SetDefault("nlp.temperature", 0.0)
	viper.SetDefault("nlp.max_tokens", 512)

	viper.SetDefault("embedding.provider", "azure")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.dimensions", 1536)

	viper.SetDefault("orchestrator.confidence_threshold", 0.8)
	viper.SetDefault("orchestrator.top_k", 10)
	viper.SetDefault("orchestrator.max_steps", 60)

	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.polisearch/telemetry", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if endpoint := os.Getenv("AZURE_SEARCH_ENDPOINT"); endpoint != "" {
		config.Search.Endpoint = endpoint
	}
	if key := os.Getenv("AZURE_SEARCH_API_KEY"); key != "" {
		config.Search.APIKey = key
	}
	if index := os.Getenv("AZURE_SEARCH_INDEX_NAME"); index != "" {
		config.Search.IndexName = index
	}
	if offline := os.Getenv("OFFLINE_MODE"); offline != "" {
		if v, err := strconv.ParseBool(offline); err == nil {
			config.Search.Offline = v
		}
	}

	if apiKey := os.Getenv("AZURE_OPENAI_API_KEY"); apiKey != "" {
		config.NLP.APIKey = apiKey
		config.Embedding.APIKey = apiKey
	}
	if baseURL := os.Getenv("AZURE_OPENAI_ENDPOINT"); baseURL != "" {
		config.NLP.BaseURL = baseURL
		config.Embedding.BaseURL = baseURL
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.NLP.APIKey == "" {
			config.NLP.APIKey = apiKey
		}
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
	}

	if threshold := os.Getenv("CONFIDENCE_THRESHOLD"); threshold != "" {
		if v, err := strconv.ParseFloat(threshold, 64); err == nil {
			config.Orchestrator.ConfidenceThreshold = v
		}
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			config.Server.Port = v
		}
	}

	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
