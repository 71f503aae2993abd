package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     QueryRequest
		wantErr string
	}{
		{
			name: "valid minimal",
			req:  QueryRequest{Query: "What is the levy rate?"},
		},
		{
			name: "valid with overrides",
			req: QueryRequest{
				Query:               "What is the levy rate?",
				Strategy:            "entity_search",
				TopK:                5,
				ConfidenceThreshold: 0.75,
			},
		},
		{
			name:    "empty query",
			req:     QueryRequest{Query: "   "},
			wantErr: "query cannot be empty",
		},
		{
			name:    "query too long",
			req:     QueryRequest{Query: strings.Repeat("a", MaxQueryLength+1)},
			wantErr: "maximum length",
		},
		{
			name:    "unknown strategy",
			req:     QueryRequest{Query: "q", Strategy: "psychic_search"},
			wantErr: "unknown strategy",
		},
		{
			name:    "negative top_k",
			req:     QueryRequest{Query: "q", TopK: -1},
			wantErr: "top_k cannot be negative",
		},
		{
			name:    "threshold out of range",
			req:     QueryRequest{Query: "q", ConfidenceThreshold: 1.5},
			wantErr: "between 0 and 1",
		},
		{
			name: "valid page range",
			req:  QueryRequest{Query: "q", StartPage: 2, EndPage: 8},
		},
		{
			name:    "negative page bound",
			req:     QueryRequest{Query: "q", StartPage: -1},
			wantErr: "page bounds cannot be negative",
		},
		{
			name:    "inverted page range",
			req:     QueryRequest{Query: "q", StartPage: 9, EndPage: 2},
			wantErr: "start_page cannot exceed end_page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestQueryRequestUserContext(t *testing.T) {
	req := QueryRequest{
		Query:     "q",
		Branch:    "central",
		Category:  "medical",
		Library:   "policies",
		Filename:  "plan_a.pdf",
		Language:  "tc",
		StartPage: 2,
		EndPage:   8,
	}

	ctx := req.UserContext()
	assert.Equal(t, "central", ctx.Branch)
	assert.Equal(t, "medical", ctx.Category)
	assert.Equal(t, "policies", ctx.Library)
	assert.Equal(t, "plan_a.pdf", ctx.Filename)
	assert.Equal(t, "tc", ctx.Language)
	assert.Equal(t, 2, ctx.StartPage)
	assert.Equal(t, 8, ctx.EndPage)
}
