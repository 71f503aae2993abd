// Package intent classifies user queries into structured intent used for
// retrieval strategy selection. Classification never fails: an optional LLM
// refines the result, and lexicon heuristics back every field.
package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/polisearch/polisearch/pkg/lexicon"
	"github.com/polisearch/polisearch/pkg/nlp"
	"github.com/polisearch/polisearch/pkg/types"
)

const systemPrompt = "You are an intent classifier. Return ONLY JSON with keys: " +
	"query_type (question|statement), complexity (low|medium|high), " +
	"mentions_document (bool), has_entities (bool), requires_multi_hop (bool), " +
	"aspects (list of strings), language (en|tc)."

// Classifier derives a QueryIntent from a raw query.
type Classifier struct {
	llm    nlp.Client
	lex    *lexicon.Lexicon
	logger *slog.Logger
}

// NewClassifier creates a classifier. llm may be nil, in which case only the
// heuristics run.
func NewClassifier(llm nlp.Client, lex *lexicon.Lexicon, logger *slog.Logger) *Classifier {
	if lex == nil {
		lex = lexicon.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{llm: llm, lex: lex, logger: logger}
}

// Classify returns the intent for query. It always returns a usable intent;
// LLM errors degrade to heuristics per field.
func (c *Classifier) Classify(ctx context.Context, query string) types.QueryIntent {
	heuristic := c.heuristic(query)
	if c.llm == nil {
		return heuristic
	}

	messages := []types.Message{
		{Role: nlp.RoleSystem, Content: systemPrompt},
		{Role: nlp.RoleUser, Content: fmt.Sprintf("Query: %s", query)},
	}
	raw, err := c.llm.Chat(ctx, messages)
	if err != nil {
		c.logger.Warn("intent classification llm call failed, using heuristics",
			"error", err)
		return heuristic
	}

	// Pointer fields distinguish "absent" from "false" so partial responses
	// still contribute what they have.
	var parsed struct {
		QueryType        string   `json:"query_type"`
		Complexity       string   `json:"complexity"`
		MentionsDocument *bool    `json:"mentions_document"`
		HasEntities      *bool    `json:"has_entities"`
		RequiresMultiHop *bool    `json:"requires_multi_hop"`
		Aspects          []string `json:"aspects"`
		Language         string   `json:"language"`
	}
	if err := nlp.ParseJSONResponse(raw, &parsed); err != nil {
		c.logger.Warn("intent classification response unparseable, using heuristics",
			"error", err)
		return heuristic
	}

	merged := heuristic
	if qt := types.QueryType(strings.ToLower(parsed.QueryType)); qt == types.QueryTypeQuestion || qt == types.QueryTypeStatement {
		merged.QueryType = qt
	}
	if cx := types.Complexity(strings.ToLower(parsed.Complexity)); cx == types.ComplexityLow || cx == types.ComplexityMedium || cx == types.ComplexityHigh {
		merged.Complexity = cx
	}
	if parsed.MentionsDocument != nil {
		merged.MentionsDocument = *parsed.MentionsDocument
	}
	if parsed.HasEntities != nil {
		merged.HasEntities = *parsed.HasEntities
	}
	if parsed.RequiresMultiHop != nil {
		merged.RequiresMultiHop = *parsed.RequiresMultiHop
	}
	if len(parsed.Aspects) > 0 {
		merged.Aspects = parsed.Aspects
	}
	if lang := types.Language(strings.ToLower(parsed.Language)); lang == types.LanguageEN || lang == types.LanguageTC {
		merged.Language = lang
	}
	return merged
}

// heuristic classifies the query with lexicon rules alone.
func (c *Classifier) heuristic(query string) types.QueryIntent {
	q := strings.ToLower(strings.TrimSpace(query))

	queryType := types.QueryTypeStatement
	if strings.HasSuffix(q, "?") || c.lex.IsInterrogative(q) {
		queryType = types.QueryTypeQuestion
	}

	mentionsDocument := c.lex.MentionsDocument(q)
	hasEntities := c.lex.HasEntities(q)
	requiresMultiHop := c.lex.RequiresMultiHop(q)

	complexity := types.ComplexityLow
	switch {
	case requiresMultiHop:
		complexity = types.ComplexityHigh
	case hasEntities:
		complexity = types.ComplexityMedium
	}

	language := types.LanguageEN
	if c.lex.HasCJK(q) {
		language = types.LanguageTC
	}

	return types.QueryIntent{
		QueryType:        queryType,
		Complexity:       complexity,
		MentionsDocument: mentionsDocument,
		HasEntities:      hasEntities,
		RequiresMultiHop: requiresMultiHop,
		Aspects:          []string{},
		Language:         language,
	}
}
