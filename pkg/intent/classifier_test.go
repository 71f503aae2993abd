package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polisearch/polisearch/pkg/types"
)

// scriptedLLM returns a fixed response or error.
type scriptedLLM struct {
	response string
	err      error
	called   bool
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []types.Message) (string, error) {
	s.called = true
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *scriptedLLM) Close() error { return nil }

func TestHeuristicClassification(t *testing.T) {
	c := NewClassifier(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  types.QueryIntent
	}{
		{
			name:  "interrogative question",
			query: "What is the annual premium for the travel plan?",
			want: types.QueryIntent{
				QueryType:   types.QueryTypeQuestion,
				Complexity:  types.ComplexityMedium,
				HasEntities: true,
				Language:    types.LanguageEN,
			},
		},
		{
			name:  "question mark only",
			query: "the claim form is online?",
			want: types.QueryIntent{
				QueryType:        types.QueryTypeQuestion,
				Complexity:       types.ComplexityLow,
				MentionsDocument: true,
				Language:         types.LanguageEN,
			},
		},
		{
			name:  "document statement",
			query: "show me the application form for medical insurance",
			want: types.QueryIntent{
				QueryType:        types.QueryTypeStatement,
				Complexity:       types.ComplexityLow,
				MentionsDocument: true,
				Language:         types.LanguageEN,
			},
		},
		{
			name:  "multi hop comparison",
			query: "compare the levy between the two plans",
			want: types.QueryIntent{
				QueryType:        types.QueryTypeStatement,
				Complexity:       types.ComplexityHigh,
				HasEntities:      true,
				RequiresMultiHop: true,
				Language:         types.LanguageEN,
			},
		},
		{
			name:  "chinese query with product name",
			query: "旅遊保險的保費是多少?",
			want: types.QueryIntent{
				QueryType:   types.QueryTypeQuestion,
				Complexity:  types.ComplexityMedium,
				HasEntities: true,
				Language:    types.LanguageTC,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(ctx, tt.query)
			assert.Equal(t, tt.want.QueryType, got.QueryType)
			assert.Equal(t, tt.want.Complexity, got.Complexity)
			assert.Equal(t, tt.want.MentionsDocument, got.MentionsDocument)
			assert.Equal(t, tt.want.HasEntities, got.HasEntities)
			assert.Equal(t, tt.want.RequiresMultiHop, got.RequiresMultiHop)
			assert.Equal(t, tt.want.Language, got.Language)
			assert.NotNil(t, got.Aspects)
		})
	}
}

func TestClassifyLLMRefinesHeuristics(t *testing.T) {
	llm := &scriptedLLM{response: `{"query_type": "question", "complexity": "high", "aspects": ["coverage", "exclusions"], "language": "en"}`}
	c := NewClassifier(llm, nil, nil)

	got := c.Classify(context.Background(), "tell me about the travel plan")
	assert.True(t, llm.called)
	assert.Equal(t, types.QueryTypeQuestion, got.QueryType)
	assert.Equal(t, types.ComplexityHigh, got.Complexity)
	assert.Equal(t, []string{"coverage", "exclusions"}, got.Aspects)
}

func TestClassifyPartialLLMResponseKeepsHeuristicFields(t *testing.T) {
	// Only query_type comes back; everything else stays heuristic.
	llm := &scriptedLLM{response: `{"query_type": "statement"}`}
	c := NewClassifier(llm, nil, nil)

	got := c.Classify(context.Background(), "what is the premium levy?")
	assert.Equal(t, types.QueryTypeStatement, got.QueryType)
	assert.True(t, got.HasEntities)
	assert.Equal(t, types.ComplexityMedium, got.Complexity)
}

func TestClassifyLLMErrorFallsBack(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("model unavailable")}
	c := NewClassifier(llm, nil, nil)

	got := c.Classify(context.Background(), "what does the policy cover?")
	assert.Equal(t, types.QueryTypeQuestion, got.QueryType)
}

func TestClassifyInvalidLLMValuesIgnored(t *testing.T) {
	llm := &scriptedLLM{response: `{"query_type": "riddle", "complexity": "extreme", "language": "fr"}`}
	c := NewClassifier(llm, nil, nil)

	got := c.Classify(context.Background(), "what does the policy cover?")
	assert.Equal(t, types.QueryTypeQuestion, got.QueryType)
	assert.Equal(t, types.ComplexityLow, got.Complexity)
	assert.Equal(t, types.LanguageEN, got.Language)
}
