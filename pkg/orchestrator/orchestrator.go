package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/polisearch/polisearch/pkg/evaluation"
	"github.com/polisearch/polisearch/pkg/types"
	"github.com/polisearch/polisearch/pkg/utils"
)

// DefaultMaxSteps bounds the driver loop. The longest legitimate run is five
// attempts of the four-state retry cycle plus entry and exit states, well
// under this cap; hitting it means a transition bug, not a long query.
const DefaultMaxSteps = 60

// Classifier analyzes a query into structured intent.
type Classifier interface {
	Classify(ctx context.Context, query string) types.QueryIntent
}

// Selector maps intent to a retrieval strategy with a reason.
type Selector interface {
	Select(query string, intent *types.QueryIntent, userCtx types.UserContext, override types.Strategy) (types.Strategy, string)
}

// Engine executes one strategy against the search backend.
type Engine interface {
	Execute(ctx context.Context, strat types.Strategy, query string, userCtx types.UserContext, topK int) []types.DocumentChunk
}

// Generator extracts an answer from retrieved chunks.
type Generator interface {
	Generate(query string, chunks []types.DocumentChunk) string
}

// Scorer computes answer confidence and tracks the attempt as a candidate.
type Scorer interface {
	Evaluate(ctx context.Context, s *types.Session)
}

// Orchestrator runs query sessions through the state machine. It is
// stateless across sessions and safe for concurrent use as long as its
// collaborators are.
type Orchestrator struct {
	classifier Classifier
	selector   Selector
	engine     Engine
	generator  Generator
	evaluator  Scorer
	logger     *slog.Logger
	maxSteps   int
}

// New creates an orchestrator. maxSteps <= 0 uses DefaultMaxSteps.
func New(
	classifier Classifier,
	selector Selector,
	engine Engine,
	generator Generator,
	evaluator Scorer,
	logger *slog.Logger,
	maxSteps int,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Orchestrator{
		classifier: classifier,
		selector:   selector,
		engine:     engine,
		generator:  generator,
		evaluator:  evaluator,
		logger:     logger,
		maxSteps:   maxSteps,
	}
}

// Run drives the session to completion and returns its final response. It
// never returns an error for retrieval or scoring failures, which degrade
// inside the loop; only an internal transition fault or a panic surfaces.
func (o *Orchestrator) Run(ctx context.Context, s *types.Session) (resp *types.FinalResponse, err error) {
	defer utils.RecoverAsError(&err)

	started := time.Now()
	state := StateAnalyzeQuery

	// A caller-supplied strategy skips analysis and selection entirely on
	// the first pass: it is recorded as an override.
	override := s.CurrentStrategy

	for steps := 0; state != StateDone; steps++ {
		if steps >= o.maxSteps {
			return nil, fmt.Errorf("orchestration exceeded %d steps in state %q", o.maxSteps, state)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("orchestration cancelled in state %q: %w", state, ctx.Err())
		}

		outcome := o.handle(ctx, state, s, override)

		nextState, terr := next(state, outcome)
		if terr != nil {
			return nil, terr
		}
		o.logger.Debug("state transition",
			"session_id", s.SessionID,
			"from", string(state),
			"to", string(nextState),
			"outcome", string(outcome))
		state = nextState
	}

	s.FinalResponse.Notifications = s.Notifications
	s.FinalResponse.Confidence = s.AnswerConfidence
	s.FinalResponse.ProcessingMS = time.Since(started).Milliseconds()
	return s.FinalResponse, nil
}

// handle executes one state and returns the gate outcome where the state is
// conditional. Unconditional states return the zero Outcome.
func (o *Orchestrator) handle(ctx context.Context, state State, s *types.Session, override types.Strategy) Outcome {
	switch state {
	case StateAnalyzeQuery:
		o.analyzeQuery(ctx, s)
	case StateSelectStrategy:
		o.selectStrategy(s, override)
	case StateExecuteSearch:
		o.executeSearch(ctx, s)
	case StateEvaluateResults:
		return o.evaluateResults(s)
	case StateNotifyUser:
		o.notifyUser(s)
	case StateReplanStrategy:
		o.replanStrategy(s)
	case StateGenerateAnswer:
		o.generateAnswer(s)
	case StateEvaluateAnswer:
		return o.evaluateAnswer(ctx, s)
	case StateReturnResponse:
		o.returnResponse(s)
	case StateReturnPartial:
		o.returnPartial(s)
	case StateReturnBest:
		o.returnBest(s)
	}
	return ""
}

func (o *Orchestrator) analyzeQuery(ctx context.Context, s *types.Session) {
	queryIntent := o.classifier.Classify(ctx, s.Query)
	s.Intent = &queryIntent
}

func (o *Orchestrator) selectStrategy(s *types.Session, override types.Strategy) {
	strat, reason := o.selector.Select(s.Query, s.Intent, s.UserContext, override)
	s.RecordStrategy(strat, reason)
}

func (o *Orchestrator) executeSearch(ctx context.Context, s *types.Session) {
	strat := s.CurrentStrategy
	if strat == "" {
		strat = types.StrategyHybrid
	}
	s.RetrievedDocuments = o.engine.Execute(ctx, strat, s.Query, s.UserContext, s.TopK)
	s.AttemptCount++
	o.logger.Info("search executed",
		"session_id", s.SessionID,
		"strategy", string(strat),
		"attempt", s.AttemptCount,
		"results", len(s.RetrievedDocuments))
}

func (o *Orchestrator) evaluateResults(s *types.Session) Outcome {
	evaluation.EvaluateResults(s)
	if s.IsSatisfied {
		return OutcomeSatisfied
	}
	if s.Exhausted() {
		return OutcomeAllDone
	}
	return OutcomeRetry
}

func (o *Orchestrator) notifyUser(s *types.Session) {
	s.Notifications = append(s.Notifications, fmt.Sprintf(
		"Retrying with a new strategy. Tried=%d; current=%s.",
		len(s.StrategiesTried), s.CurrentStrategy))
}

// replanStrategy picks the first untried strategy in the fixed order. When
// every strategy has been tried the cyclic successor keeps the loop moving
// until the attempt counter trips the exhaustion gate.
func (o *Orchestrator) replanStrategy(s *types.Session) {
	current := s.CurrentStrategy
	if current == "" {
		current = types.StrategyHybrid
	}

	next := types.Strategy("")
	for _, candidate := range types.StrategyOrder {
		if !s.HasTried(candidate) {
			next = candidate
			break
		}
	}
	if next == "" {
		next = current.Next()
	}
	s.RecordStrategy(next, fmt.Sprintf("Fallback from %s", current))
}

func (o *Orchestrator) generateAnswer(s *types.Session) {
	s.GeneratedAnswer = o.generator.Generate(s.Query, s.RetrievedDocuments)
}

func (o *Orchestrator) evaluateAnswer(ctx context.Context, s *types.Session) Outcome {
	o.evaluator.Evaluate(ctx, s)
	if s.AnswerConfidence >= s.ConfidenceThreshold {
		return OutcomeAccept
	}
	if s.Exhausted() {
		return OutcomeAllDone
	}
	return OutcomeRetry
}

func (o *Orchestrator) returnResponse(s *types.Session) {
	top := s.TopDocument()
	s.FinalResponse = &types.FinalResponse{
		Status:       types.StatusOK,
		Answer:       s.GeneratedAnswer,
		TopFile:      top.FileName,
		TopPage:      top.ChunkPageNumber,
		TopSnippet:   top.CitationText(),
		ResultCount:  len(s.RetrievedDocuments),
		StrategyUsed: s.CurrentStrategy,
		Attempts:     s.AttemptCount,
	}
}

func (o *Orchestrator) returnPartial(s *types.Session) {
	top := s.TopDocument()
	s.FinalResponse = &types.FinalResponse{
		Status:       types.StatusPartial,
		Message:      "Max attempts reached; returning best available results.",
		Answer:       s.GeneratedAnswer,
		TopFile:      top.FileName,
		TopPage:      top.ChunkPageNumber,
		TopSnippet:   top.CitationText(),
		ResultCount:  len(s.RetrievedDocuments),
		StrategyUsed: s.CurrentStrategy,
		Attempts:     s.AttemptCount,
	}
}

// returnBest selects the strongest candidate across all attempts. With no
// candidates at all the session never produced an answer, so it degrades to
// the partial response.
func (o *Orchestrator) returnBest(s *types.Session) {
	if len(s.Candidates) == 0 {
		o.returnPartial(s)
		return
	}

	candidates := make([]types.Candidate, len(s.Candidates))
	copy(candidates, s.Candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		if candidates[i].ResultCount != candidates[j].ResultCount {
			return candidates[i].ResultCount > candidates[j].ResultCount
		}
		return candidates[i].AnswerLength > candidates[j].AnswerLength
	})

	best := candidates[0]
	s.AnswerConfidence = best.Confidence
	s.FinalResponse = &types.FinalResponse{
		Status:       types.StatusOK,
		Answer:       best.Answer,
		TopFile:      best.TopFile,
		TopPage:      best.TopPage,
		TopSnippet:   best.TopSnippet,
		ResultCount:  best.ResultCount,
		StrategyUsed: best.StrategyUsed,
		Attempts:     len(s.StrategiesTried),
	}
}
