package polisearch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/polisearch/polisearch/pkg/alert"
	"github.com/polisearch/polisearch/pkg/config"
	"github.com/polisearch/polisearch/pkg/embedder"
	"github.com/polisearch/polisearch/pkg/evaluation"
	"github.com/polisearch/polisearch/pkg/intent"
	"github.com/polisearch/polisearch/pkg/lexicon"
	"github.com/polisearch/polisearch/pkg/nlp"
	"github.com/polisearch/polisearch/pkg/orchestrator"
	"github.com/polisearch/polisearch/pkg/search"
	"github.com/polisearch/polisearch/pkg/strategy"
	"github.com/polisearch/polisearch/pkg/telemetry"
	"github.com/polisearch/polisearch/pkg/types"
)

// Request is one query to answer.
type Request struct {
	// Query is the natural-language question. Required.
	Query string
	// SessionID identifies the session in logs and telemetry. Empty
	// generates one.
	SessionID string
	// Context carries optional branch/category/library/filename scoping.
	Context types.UserContext
	// Strategy optionally forces the first strategy ("qa_pairs",
	// "hybrid_search", ...). Empty lets the selector decide.
	Strategy string
	// TopK overrides the configured result count. Zero uses the default.
	TopK int
	// ConfidenceThreshold overrides the configured acceptance gate.
	// Zero uses the default.
	ConfidenceThreshold float64
}

// Client composes the retrieval pipeline: search backend, embedder,
// optional LLM classifier, and the orchestrator that drives them. One
// Client serves many concurrent sessions.
type Client struct {
	cfg          *config.Config
	logger       *slog.Logger
	backend      search.Backend
	embedder     embedder.Client
	llm          nlp.Client
	orchestrator *orchestrator.Orchestrator
	audit        *telemetry.AuditWriter
}

// New builds a client from configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var alerter alert.Alerter = &alert.NoOpAlerter{}
	if cfg.Alert.Enabled {
		alerter = alert.NewEmailAlerter(cfg.Alert)
	}

	emb, err := embedder.New(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	backend, err := newBackend(cfg, emb, alerter)
	if err != nil {
		emb.Close()
		return nil, err
	}

	var llm nlp.Client
	if cfg.NLP.Enabled {
		base, err := nlp.NewOpenAIClient(cfg.NLP)
		if err != nil {
			backend.Close()
			emb.Close()
			return nil, fmt.Errorf("failed to create nlp client: %w", err)
		}
		llm = nlp.NewRetryClient(base, nil)
		if cfg.CircuitBreaker.Enabled {
			llm = nlp.NewCircuitBreakerClient(llm, cfg.CircuitBreaker, alerter, "nlp")
		}
	}

	var audit *telemetry.AuditWriter
	if cfg.Telemetry.ParquetPath != "" {
		audit, err = telemetry.NewAuditWriter(cfg.Telemetry.ParquetPath)
		if err != nil {
			logger.Warn("query audit disabled", "error", err)
			audit = nil
		}
	}

	lex := lexicon.Default()
	orch := orchestrator.New(
		intent.NewClassifier(llm, lex, logger),
		strategy.NewSelector(lex),
		strategy.NewEngine(backend, emb, lex, logger),
		evaluation.NewGenerator(lex),
		evaluation.NewAnswerEvaluator(emb, logger),
		logger,
		cfg.Orchestrator.MaxSteps,
	)

	return &Client{
		cfg:          cfg,
		logger:       logger,
		backend:      backend,
		embedder:     emb,
		llm:          llm,
		orchestrator: orch,
		audit:        audit,
	}, nil
}

// newBackend selects the remote or offline backend per configuration and
// wraps it in a circuit breaker when enabled.
func newBackend(cfg *config.Config, emb embedder.Client, alerter alert.Alerter) (search.Backend, error) {
	var backend search.Backend
	var err error
	if cfg.Search.Offline {
		if cfg.Search.IndexPath != "" {
			backend, err = search.NewLocalBackendFromSnapshot(emb, cfg.Search.IndexPath)
		} else {
			backend, err = search.NewLocalBackend(emb)
		}
	} else {
		backend, err = search.NewAzureBackend(cfg.Search)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create search backend: %w", err)
	}

	if cfg.CircuitBreaker.Enabled {
		backend = search.NewBreakerBackend(backend, cfg.CircuitBreaker, alerter, "search")
	}
	return backend, nil
}

// Run executes one query session to completion. Errors are returned only
// for caller misuse (empty query, unknown strategy) or internal faults;
// retrieval and scoring failures degrade into the response status instead.
func (c *Client) Run(ctx context.Context, req Request) (*types.FinalResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	var override types.Strategy
	if req.Strategy != "" {
		parsed, err := types.ParseStrategy(req.Strategy)
		if err != nil {
			return nil, fmt.Errorf("invalid strategy override: %w", err)
		}
		override = parsed
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s := types.NewSession(query, sessionID, req.Context)
	s.CurrentStrategy = override
	if req.TopK > 0 {
		s.TopK = req.TopK
	} else if c.cfg.Orchestrator.TopK > 0 {
		s.TopK = c.cfg.Orchestrator.TopK
	}
	if req.ConfidenceThreshold > 0 {
		s.ConfidenceThreshold = req.ConfidenceThreshold
	} else if c.cfg.Orchestrator.ConfidenceThreshold > 0 {
		s.ConfidenceThreshold = c.cfg.Orchestrator.ConfidenceThreshold
	}

	ctx = context.WithValue(ctx, types.ContextKeySessionID, sessionID)

	c.logger.Info("session started", "session_id", sessionID, "query", query)
	resp, err := c.orchestrator.Run(ctx, s)
	if err != nil {
		c.logger.Error("session failed", "session_id", sessionID, "error", err)
		return nil, err
	}
	c.logger.Info("session finished",
		"session_id", sessionID,
		"status", string(resp.Status),
		"strategy", string(resp.StrategyUsed),
		"attempts", resp.Attempts,
		"confidence", resp.Confidence)

	if c.audit != nil {
		c.audit.Record(sessionID, query, resp)
	}
	return resp, nil
}

// Close flushes telemetry and releases backend, embedder, and LLM
// resources.
func (c *Client) Close() error {
	var firstErr error
	if c.audit != nil {
		if err := c.audit.Flush(); err != nil {
			firstErr = err
		}
	}
	if err := c.backend.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.embedder.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if c.llm != nil {
		if err := c.llm.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
