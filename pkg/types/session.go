package types

// DefaultConfidenceThreshold gates answer acceptance when the caller does
// not supply a threshold.
const DefaultConfidenceThreshold = 0.8

// DefaultTopK is the result count requested from the backend when the
// caller does not supply one. Individual strategies may widen or narrow it.
const DefaultTopK = 10

// Session is the mutable state of one orchestration run. One Session exists
// per query; it is owned exclusively by its orchestrator and discarded after
// the final response is produced.
type Session struct {
	// Input
	Query       string
	SessionID   string
	UserContext UserContext

	// Analysis
	Intent *QueryIntent

	// Strategy tracking. StrategiesTried preserves attempt order and holds
	// no duplicates until every strategy has been tried once.
	CurrentStrategy Strategy
	StrategiesTried []Strategy
	StrategyReasons map[Strategy]string
	AttemptCount    int

	// Most recent retrieval
	RetrievedDocuments  []DocumentChunk
	IsSatisfied         bool
	RetrievalEvaluation *RetrievalEvaluation

	// Answer
	GeneratedAnswer  string
	AnswerConfidence float64
	AnswerEvaluation *AnswerEvaluation

	// Candidates accumulated across answer-evaluation cycles.
	Candidates []Candidate

	// User-facing retry notifications, in order.
	Notifications []string

	// Output
	FinalResponse *FinalResponse

	// Settings
	ConfidenceThreshold float64
	TopK                int
}

// NewSession builds a Session with required fields populated and settings
// clamped to sane defaults. Query must be validated by the caller before
// the session is created; the constructor does not reject it so that tests
// can build degenerate sessions deliberately.
func NewSession(query, sessionID string, userCtx UserContext) *Session {
	return &Session{
		Query:               query,
		SessionID:           sessionID,
		UserContext:         userCtx,
		StrategyReasons:     make(map[Strategy]string),
		ConfidenceThreshold: DefaultConfidenceThreshold,
		TopK:                DefaultTopK,
	}
}

// RecordStrategy sets the current strategy, appends it to the tried list if
// it has not been tried before, and stores the selection reason. Insertion
// order is attempt order.
func (s *Session) RecordStrategy(strategy Strategy, reason string) {
	s.CurrentStrategy = strategy
	if !s.HasTried(strategy) {
		s.StrategiesTried = append(s.StrategiesTried, strategy)
	}
	if s.StrategyReasons == nil {
		s.StrategyReasons = make(map[Strategy]string)
	}
	s.StrategyReasons[strategy] = reason
}

// HasTried reports whether strategy already appears in the tried list.
func (s *Session) HasTried(strategy Strategy) bool {
	for _, t := range s.StrategiesTried {
		if t == strategy {
			return true
		}
	}
	return false
}

// Exhausted reports whether the session has run out of strategies or
// attempts. Both counters are checked from this single predicate so that
// the retrieval gate and the answer gate can never disagree.
func (s *Session) Exhausted() bool {
	return len(s.StrategiesTried) >= MaxAttempts || s.AttemptCount >= MaxAttempts
}

// TopDocument returns the highest-ranked retrieved chunk, or a zero chunk
// when the last retrieval was empty.
func (s *Session) TopDocument() DocumentChunk {
	if len(s.RetrievedDocuments) == 0 {
		return DocumentChunk{}
	}
	return s.RetrievedDocuments[0]
}
