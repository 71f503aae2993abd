package evaluation

import (
	"strings"

	"github.com/polisearch/polisearch/pkg/lexicon"
	"github.com/polisearch/polisearch/pkg/types"
)

// Generator extracts an answer from retrieved chunks. It is deterministic:
// the best curated QA answer by boosted token overlap, falling back to the
// top chunk's summary or leading content.
type Generator struct {
	lex *lexicon.Lexicon
}

// NewGenerator creates a generator. lex may be nil to use the embedded
// lexicon.
func NewGenerator(lex *lexicon.Lexicon) *Generator {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Generator{lex: lex}
}

// Generate returns the answer text for the query, or the empty string when
// there are no results.
func (g *Generator) Generate(query string, chunks []types.DocumentChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	if answer := g.bestQAAnswer(query, chunks); answer != "" {
		return answer
	}

	// Fallback to the first chunk's summary or leading content.
	top := chunks[0]
	if top.ChunkFunctionSummary != "" {
		return top.ChunkFunctionSummary
	}
	return types.Truncate(strings.TrimSpace(top.ChunkContent), types.SnippetLength)
}

// bestQAAnswer scores every curated QA answer by token overlap with the
// query. Domain terms carry triple weight. Returns the empty string when no
// chunk carries QA pairs.
func (g *Generator) bestQAAnswer(query string, chunks []types.DocumentChunk) string {
	tokens := queryTokens(query)

	bestScore := -1.0
	bestAnswer := ""
	for _, chunk := range chunks {
		for _, answer := range chunk.QAAnswers {
			lowered := strings.ToLower(strings.TrimSpace(answer))

			score := 0.0
			for _, tok := range tokens {
				if strings.Contains(lowered, tok) {
					score++
				}
			}
			for _, term := range g.lex.BoostTerms() {
				if strings.Contains(lowered, term) {
					score += 3
				}
			}

			if score > bestScore {
				bestScore = score
				bestAnswer = answer
			}
		}
	}
	return bestAnswer
}

// queryTokens lowercases the query, drops the question mark, and keeps
// tokens longer than three characters.
func queryTokens(query string) []string {
	cleaned := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(query)), "?", " ")
	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) > 3 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
