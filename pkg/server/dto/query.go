// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"

	"github.com/polisearch/polisearch/pkg/types"
)

// MaxQueryLength bounds accepted query sizes.
const MaxQueryLength = 2000

// ErrQueryTooLong is returned when the query exceeds MaxQueryLength.
var ErrQueryTooLong = errors.New("query exceeds maximum length")

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	Query               string  `json:"query" binding:"required"`
	SessionID           string  `json:"session_id,omitempty"`
	Strategy            string  `json:"strategy,omitempty"`
	TopK                int     `json:"top_k,omitempty"`
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`

	// Optional retrieval scoping.
	Branch    string `json:"branch,omitempty"`
	Category  string `json:"category,omitempty"`
	Library   string `json:"library,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Language  string `json:"language,omitempty"`
	StartPage int    `json:"start_page,omitempty"`
	EndPage   int    `json:"end_page,omitempty"`
}

// Validate performs validation on QueryRequest
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query cannot be empty")
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	if r.Strategy != "" {
		if _, err := types.ParseStrategy(r.Strategy); err != nil {
			return err
		}
	}
	if r.TopK < 0 {
		return errors.New("top_k cannot be negative")
	}
	if r.ConfidenceThreshold < 0 || r.ConfidenceThreshold > 1 {
		return errors.New("confidence_threshold must be between 0 and 1")
	}
	if r.StartPage < 0 || r.EndPage < 0 {
		return errors.New("page bounds cannot be negative")
	}
	if r.StartPage > 0 && r.EndPage > 0 && r.StartPage > r.EndPage {
		return errors.New("start_page cannot exceed end_page")
	}
	return nil
}

// UserContext converts the scoping fields.
func (r *QueryRequest) UserContext() types.UserContext {
	return types.UserContext{
		Branch:    r.Branch,
		Category:  r.Category,
		Library:   r.Library,
		Filename:  r.Filename,
		Language:  r.Language,
		StartPage: r.StartPage,
		EndPage:   r.EndPage,
	}
}

// Result represents a generic API result
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
