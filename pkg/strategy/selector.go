// Package strategy selects and executes retrieval strategies. The Selector
// maps analyzed intent to a strategy with a human-readable reason; the
// Engine shapes and runs the backend request for each strategy.
package strategy

import (
	"regexp"
	"strings"

	"github.com/polisearch/polisearch/pkg/lexicon"
	"github.com/polisearch/polisearch/pkg/types"
)

var filenameHintRe = regexp.MustCompile(`\b\w+\.pdf\b`)

// Selector picks a retrieval strategy from analyzed intent and optional
// user context. Every decision carries a reason string for traceability.
type Selector struct {
	lex *lexicon.Lexicon
}

// NewSelector creates a selector. lex may be nil to use the embedded
// lexicon.
func NewSelector(lex *lexicon.Lexicon) *Selector {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Selector{lex: lex}
}

// DefaultStrategy is used when no intent is available.
const DefaultStrategy = types.StrategyHybrid

// Select returns the strategy to run and the reason it was chosen. An
// override from the caller always wins.
func (s *Selector) Select(query string, intent *types.QueryIntent, userCtx types.UserContext, override types.Strategy) (types.Strategy, string) {
	if override != "" {
		return override, "Using override strategy from initial state"
	}

	if intent == nil {
		return DefaultStrategy, "No analyzed intent available; defaulting to hybrid search"
	}

	// Document-focused queries
	if intent.MentionsDocument {
		if userCtx.Filename != "" || filenameHintRe.MatchString(query) {
			return types.StrategyDocument, "Document mention/filename hint detected; using document search"
		}
		return types.StrategyDocument, "Document mention detected; using document search"
	}

	// Questions
	if intent.QueryType == types.QueryTypeQuestion {
		if intent.HasEntities {
			return types.StrategyEntity, "Question with entities; using entity search"
		}
		if s.hasOverviewAspect(intent.Aspects) {
			return types.StrategySummary, "Overview aspect; using summary search"
		}
		if intent.RequiresMultiHop || intent.Complexity == types.ComplexityHigh {
			return types.StrategyHybrid, "Complex/multi-hop question; using hybrid search"
		}
		return types.StrategyQAPairs, "Direct question; preferring curated QA pairs"
	}

	// Statements
	if intent.HasEntities {
		return types.StrategyEntity, "Entity-like statement; using entity search"
	}
	if s.hasOverviewAspect(intent.Aspects) {
		return types.StrategySummary, "Overview aspect; using summary search"
	}
	if intent.RequiresMultiHop || intent.Complexity == types.ComplexityHigh {
		return types.StrategyHybrid, "Complex statement; using hybrid search"
	}

	return DefaultStrategy, "Defaulting to hybrid based on analyzed intent"
}

func (s *Selector) hasOverviewAspect(aspects []string) bool {
	for _, a := range aspects {
		if s.lex.IsOverview(strings.ToLower(a)) {
			return true
		}
	}
	return false
}
