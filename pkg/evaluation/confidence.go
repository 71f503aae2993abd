package evaluation

import (
	"context"
	"log/slog"

	"github.com/polisearch/polisearch/pkg/embedder"
	"github.com/polisearch/polisearch/pkg/types"
	"github.com/polisearch/polisearch/pkg/utils"
)

// Confidence weights: answer-to-citation grounding dominates over
// query-to-answer relevance.
const (
	simQAWeight = 0.4
	simACWeight = 0.6

	// maxCitations caps how many retrieved chunks ground the answer.
	maxCitations = 3
)

// AnswerEvaluator scores a generated answer by embedding similarity against
// the query and its citations.
type AnswerEvaluator struct {
	embedder embedder.Client
	logger   *slog.Logger
}

// NewAnswerEvaluator creates an evaluator. emb may be nil; without an
// embedder every answer scores zero, which drives the loop to exhaustion
// and the best-of fallback.
func NewAnswerEvaluator(emb embedder.Client, logger *slog.Logger) *AnswerEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerEvaluator{embedder: emb, logger: logger}
}

// Evaluate computes the answer confidence for the session, records the
// evaluation, and tracks the attempt as a candidate for best-of selection.
// An empty answer scores zero without any embedding calls.
func (e *AnswerEvaluator) Evaluate(ctx context.Context, s *types.Session) {
	answer := s.GeneratedAnswer

	var simQA, simACMax float64
	if answer != "" {
		simQA, simACMax = e.similarities(ctx, s.Query, answer, s.RetrievedDocuments)
	}

	confidence := utils.Clamp01(simQAWeight*simQA + simACWeight*simACMax)
	citations := citationTexts(s.RetrievedDocuments)

	s.AnswerConfidence = confidence
	s.AnswerEvaluation = &types.AnswerEvaluation{
		SimQA:         simQA,
		SimACMax:      simACMax,
		CitationsUsed: len(citations),
		AnswerLength:  len(answer),
	}

	strat := s.CurrentStrategy
	if strat == "" {
		strat = types.StrategyHybrid
	}
	candidate := types.Candidate{
		StrategyUsed: strat,
		Confidence:   confidence,
		ResultCount:  len(s.RetrievedDocuments),
		Answer:       answer,
		AnswerLength: len(answer),
	}
	if len(s.RetrievedDocuments) > 0 {
		top := s.RetrievedDocuments[0]
		candidate.TopFile = top.FileName
		candidate.TopPage = top.ChunkPageNumber
		candidate.TopSnippet = top.CitationText()
	}
	s.Candidates = append(s.Candidates, candidate)
}

// similarities returns cosine(E(query), E(answer)) and the maximum
// cosine(E(answer), E(citation)) over the leading citations. Any embedding
// failure yields zeros so a flaky provider gates the answer rather than
// crashing the loop.
func (e *AnswerEvaluator) similarities(ctx context.Context, query, answer string, chunks []types.DocumentChunk) (float64, float64) {
	if e.embedder == nil {
		return 0, 0
	}

	eq, err := e.embedder.EmbedSingle(ctx, query)
	if err != nil {
		e.logger.Warn("query embedding failed during answer evaluation", "error", err)
		return 0, 0
	}
	ea, err := e.embedder.EmbedSingle(ctx, answer)
	if err != nil {
		e.logger.Warn("answer embedding failed during answer evaluation", "error", err)
		return 0, 0
	}

	simQA := utils.CosineSimilarity(eq, ea)

	texts := citationTexts(chunks)
	simACMax := 0.0
	if len(texts) > 0 {
		vectors, err := e.embedder.Embed(ctx, texts)
		if err != nil {
			e.logger.Warn("citation embedding failed during answer evaluation", "error", err)
			return 0, 0
		}
		for _, ec := range vectors {
			if sim := utils.CosineSimilarity(ea, ec); sim > simACMax {
				simACMax = sim
			}
		}
	}
	return simQA, simACMax
}

// citationTexts returns the non-empty citation snippets of the first
// maxCitations chunks.
func citationTexts(chunks []types.DocumentChunk) []string {
	if len(chunks) > maxCitations {
		chunks = chunks[:maxCitations]
	}
	var texts []string
	for _, chunk := range chunks {
		if text := chunk.CitationText(); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
