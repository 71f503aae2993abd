package types

import "fmt"

// Strategy identifies one of the five retrieval strategies the orchestrator
// can execute against the search backend.
type Strategy string

const (
	// StrategyQAPairs searches curated question/answer pairs.
	StrategyQAPairs Strategy = "qa_pairs"
	// StrategyHybrid combines keyword and vector search across all fields.
	StrategyHybrid Strategy = "hybrid_search"
	// StrategySummary searches chunk function summaries.
	StrategySummary Strategy = "summary_search"
	// StrategyDocument restricts search to a single named document.
	StrategyDocument Strategy = "document_search"
	// StrategyEntity filters by extracted entities.
	StrategyEntity Strategy = "entity_search"
)

// StrategyOrder is the fixed order in which strategies are attempted when
// replanning. Selection and replanning both consult this list so the cycle
// is defined in exactly one place.
var StrategyOrder = []Strategy{
	StrategyQAPairs,
	StrategyHybrid,
	StrategySummary,
	StrategyDocument,
	StrategyEntity,
}

// MaxAttempts caps both the number of distinct strategies and the number of
// search executions per session. It must equal len(StrategyOrder); a test
// guards the two against drifting apart.
const MaxAttempts = 5

// ParseStrategy converts a string into a Strategy. Matching is exact against
// the wire values ("qa_pairs", "hybrid_search", ...).
func ParseStrategy(s string) (Strategy, error) {
	for _, known := range StrategyOrder {
		if string(known) == s {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Valid reports whether s is one of the five known strategies.
func (s Strategy) Valid() bool {
	_, err := ParseStrategy(string(s))
	return err == nil
}

// Next returns the strategy following s in the fixed cycle. Used only as a
// defensive fallback when every strategy has already been tried.
func (s Strategy) Next() Strategy {
	for i, known := range StrategyOrder {
		if known == s {
			return StrategyOrder[(i+1)%len(StrategyOrder)]
		}
	}
	return StrategyHybrid
}
