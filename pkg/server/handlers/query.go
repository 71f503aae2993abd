package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/polisearch/polisearch"
	"github.com/polisearch/polisearch/pkg/server/dto"
	"github.com/polisearch/polisearch/pkg/types"
)

// QueryHandler handles query requests
type QueryHandler struct {
	runner polisearch.QueryRunner
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(runner polisearch.QueryRunner) *QueryHandler {
	return &QueryHandler{runner: runner}
}

// Query handles POST /api/v1/query
func (h *QueryHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.runner.Run(c.Request.Context(), polisearch.Request{
		Query:               req.Query,
		SessionID:           req.SessionID,
		Context:             req.UserContext(),
		Strategy:            req.Strategy,
		TopK:                req.TopK,
		ConfidenceThreshold: req.ConfidenceThreshold,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Strategies handles GET /api/v1/strategies
func (h *QueryHandler) Strategies(c *gin.Context) {
	names := make([]string, 0, len(types.StrategyOrder))
	for _, s := range types.StrategyOrder {
		names = append(names, string(s))
	}
	c.JSON(http.StatusOK, gin.H{"strategies": names})
}
