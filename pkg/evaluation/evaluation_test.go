package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polisearch/polisearch/pkg/types"
)

func TestEvaluateResults(t *testing.T) {
	s := types.NewSession("what is covered?", "s1", types.UserContext{})
	s.CurrentStrategy = types.StrategyQAPairs

	EvaluateResults(s)
	assert.False(t, s.IsSatisfied)
	require.NotNil(t, s.RetrievalEvaluation)
	assert.Equal(t, 0, s.RetrievalEvaluation.ResultCount)
	assert.Equal(t, types.StrategyQAPairs, s.RetrievalEvaluation.Strategy)

	s.RetrievedDocuments = []types.DocumentChunk{{FileName: "a.pdf"}}
	EvaluateResults(s)
	assert.True(t, s.IsSatisfied)
	assert.Equal(t, 1, s.RetrievalEvaluation.ResultCount)
}

func TestGenerateEmptyResults(t *testing.T) {
	g := NewGenerator(nil)
	assert.Empty(t, g.Generate("anything", nil))
}

func TestGeneratePrefersOverlappingQAAnswer(t *testing.T) {
	g := NewGenerator(nil)
	chunks := []types.DocumentChunk{
		{
			QAQuestions: []string{"What about weather?", "What is the claim deadline?"},
			QAAnswers: []string{
				"Weather delays are covered up to 12 hours.",
				"Claims must be submitted within thirty days of the incident deadline.",
			},
		},
	}

	answer := g.Generate("what is the claim deadline?", chunks)
	assert.Contains(t, answer, "thirty days")
}

func TestGenerateBoostTermsOutweighPlainOverlap(t *testing.T) {
	g := NewGenerator(nil)
	chunks := []types.DocumentChunk{
		{
			QAAnswers: []string{
				"General information about policies and coverage options available.",
				"The levy is charged on each premium payment.",
			},
		},
	}

	// Three boost terms at weight 3 beat any plain-token overlap here.
	answer := g.Generate("tell me about coverage options available", chunks)
	assert.Contains(t, answer, "levy")
}

func TestGenerateFallbackToSummary(t *testing.T) {
	g := NewGenerator(nil)
	chunks := []types.DocumentChunk{
		{ChunkFunctionSummary: "Summary of the travel plan benefits."},
		{ChunkContent: "Other content"},
	}
	assert.Equal(t, "Summary of the travel plan benefits.", g.Generate("query", chunks))
}

func TestGenerateFallbackToContentSnippet(t *testing.T) {
	g := NewGenerator(nil)
	long := make([]byte, 800)
	for i := range long {
		long[i] = 'x'
	}
	chunks := []types.DocumentChunk{{ChunkContent: string(long)}}

	answer := g.Generate("query", chunks)
	assert.Len(t, answer, types.SnippetLength)
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewGenerator(nil)
	chunks := []types.DocumentChunk{
		{QAAnswers: []string{"First answer about coverage.", "Second answer about coverage."}},
	}
	first := g.Generate("coverage details", chunks)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, g.Generate("coverage details", chunks))
	}
}

// vectorEmbedder maps known texts to fixed vectors.
type vectorEmbedder struct {
	vectors map[string][]float32
	fail    bool
	calls   int
}

func (v *vectorEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := v.EmbedSingle(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (v *vectorEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	v.calls++
	if v.fail {
		return nil, errors.New("embedding service down")
	}
	if vec, ok := v.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func (v *vectorEmbedder) Dimensions() int { return 3 }
func (v *vectorEmbedder) Close() error    { return nil }

func TestEvaluateEmptyAnswerScoresZeroWithoutEmbedding(t *testing.T) {
	emb := &vectorEmbedder{}
	e := NewAnswerEvaluator(emb, nil)

	s := types.NewSession("query", "s1", types.UserContext{})
	s.GeneratedAnswer = ""
	e.Evaluate(context.Background(), s)

	assert.Zero(t, s.AnswerConfidence)
	assert.Zero(t, emb.calls)
	// The cycle is still tracked for best-of selection.
	require.Len(t, s.Candidates, 1)
	assert.Zero(t, s.Candidates[0].Confidence)
}

func TestEvaluateConfidenceFormula(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{
		"the query":  {1, 0, 0},
		"the answer": {1, 0, 0},
		"summary":    {1, 0, 0},
	}}
	e := NewAnswerEvaluator(emb, nil)

	s := types.NewSession("the query", "s1", types.UserContext{})
	s.CurrentStrategy = types.StrategyQAPairs
	s.GeneratedAnswer = "the answer"
	s.RetrievedDocuments = []types.DocumentChunk{{FileName: "a.pdf", ChunkPageNumber: 4, ChunkFunctionSummary: "summary"}}

	e.Evaluate(context.Background(), s)

	// Identical vectors: 0.4*1 + 0.6*1 = 1.0
	assert.InDelta(t, 1.0, s.AnswerConfidence, 1e-9)
	require.NotNil(t, s.AnswerEvaluation)
	assert.Equal(t, 1, s.AnswerEvaluation.CitationsUsed)
	assert.Equal(t, len("the answer"), s.AnswerEvaluation.AnswerLength)

	require.Len(t, s.Candidates, 1)
	cand := s.Candidates[0]
	assert.Equal(t, types.StrategyQAPairs, cand.StrategyUsed)
	assert.Equal(t, "a.pdf", cand.TopFile)
	assert.Equal(t, 4, cand.TopPage)
	assert.Equal(t, "summary", cand.TopSnippet)
}

func TestEvaluateOrthogonalAnswerScoresLow(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{
		"the query":  {1, 0, 0},
		"the answer": {0, 1, 0},
	}}
	e := NewAnswerEvaluator(emb, nil)

	s := types.NewSession("the query", "s1", types.UserContext{})
	s.GeneratedAnswer = "the answer"

	e.Evaluate(context.Background(), s)
	assert.Zero(t, s.AnswerConfidence)
	assert.Len(t, s.Candidates, 1)
}

func TestEvaluateEmbeddingFailureScoresZero(t *testing.T) {
	e := NewAnswerEvaluator(&vectorEmbedder{fail: true}, nil)

	s := types.NewSession("query", "s1", types.UserContext{})
	s.GeneratedAnswer = "an answer"
	s.RetrievedDocuments = []types.DocumentChunk{{ChunkContent: "content"}}

	e.Evaluate(context.Background(), s)
	assert.Zero(t, s.AnswerConfidence)
	// Still tracked as a candidate so best-of has something to return.
	assert.Len(t, s.Candidates, 1)
}

func TestEvaluateNilEmbedderScoresZero(t *testing.T) {
	e := NewAnswerEvaluator(nil, nil)

	s := types.NewSession("query", "s1", types.UserContext{})
	s.GeneratedAnswer = "an answer"

	e.Evaluate(context.Background(), s)
	assert.Zero(t, s.AnswerConfidence)
}

func TestEvaluateCapsCitationsAtThree(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{}}
	e := NewAnswerEvaluator(emb, nil)

	s := types.NewSession("query", "s1", types.UserContext{})
	s.GeneratedAnswer = "answer"
	s.RetrievedDocuments = []types.DocumentChunk{
		{ChunkContent: "one"}, {ChunkContent: "two"},
		{ChunkContent: "three"}, {ChunkContent: "four"},
	}

	e.Evaluate(context.Background(), s)
	assert.Equal(t, 3, s.AnswerEvaluation.CitationsUsed)
}
