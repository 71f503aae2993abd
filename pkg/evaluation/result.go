// Package evaluation scores retrieval results and generated answers. Result
// evaluation gates the retry loop; answer evaluation produces the embedding
// confidence that gates final delivery.
package evaluation

import (
	"github.com/polisearch/polisearch/pkg/types"
)

// EvaluateResults marks the session satisfied when the last retrieval
// returned anything, and records the evaluation for traceability.
func EvaluateResults(s *types.Session) {
	strat := s.CurrentStrategy
	if strat == "" {
		strat = types.StrategyHybrid
	}
	s.IsSatisfied = len(s.RetrievedDocuments) > 0
	s.RetrievalEvaluation = &types.RetrievalEvaluation{
		ResultCount: len(s.RetrievedDocuments),
		Strategy:    strat,
	}
}
