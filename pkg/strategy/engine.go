package strategy

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/polisearch/polisearch/pkg/embedder"
	"github.com/polisearch/polisearch/pkg/lexicon"
	"github.com/polisearch/polisearch/pkg/search"
	"github.com/polisearch/polisearch/pkg/types"
)

const (
	// QATopK caps curated QA retrieval; QA pairs are dense enough that a
	// handful suffices.
	QATopK = 5
	// DocumentTopK is wide so a whole document's chunks come back.
	DocumentTopK = 100
	// MinHybridWordCount filters out boilerplate fragments from hybrid
	// retrieval.
	MinHybridWordCount = 50

	vectorField = "chunk_content_vector"
)

var filenameRe = regexp.MustCompile(`([\w\s]+\.pdf)`)

// Engine executes a strategy against the search backend. Retrieval errors
// surface as empty result sets: the retry loop treats them the same as no
// matches and moves to the next strategy.
type Engine struct {
	backend  search.Backend
	embedder embedder.Client
	lex      *lexicon.Lexicon
	logger   *slog.Logger
}

// NewEngine creates an engine. emb may be nil, in which case hybrid search
// runs keyword-only.
func NewEngine(backend search.Backend, emb embedder.Client, lex *lexicon.Lexicon, logger *slog.Logger) *Engine {
	if lex == nil {
		lex = lexicon.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{backend: backend, embedder: emb, lex: lex, logger: logger}
}

// Execute runs the given strategy for the query and returns retrieved
// chunks. Unknown strategies fall back to hybrid search.
func (e *Engine) Execute(ctx context.Context, strat types.Strategy, query string, userCtx types.UserContext, topK int) []types.DocumentChunk {
	if topK <= 0 {
		topK = types.DefaultTopK
	}

	var req search.Request
	switch strat {
	case types.StrategyQAPairs:
		req = e.qaRequest(query, userCtx)
	case types.StrategyEntity:
		req = e.entityRequest(query, userCtx, topK)
	case types.StrategySummary:
		req = e.summaryRequest(query, userCtx, topK)
	case types.StrategyDocument:
		req = e.documentRequest(query, userCtx)
	default:
		req = e.hybridRequest(ctx, query, userCtx, topK)
	}

	chunks, err := e.backend.Search(ctx, req)
	if err != nil {
		e.logger.Warn("search failed",
			"strategy", string(strat),
			"error", err)
		return nil
	}
	return chunks
}

// qaRequest searches curated question/answer pairs.
func (e *Engine) qaRequest(query string, userCtx types.UserContext) search.Request {
	filter := search.NewFilter().
		Ge("qa_confidence", 0.0).
		Eq("branch_name", userCtx.Branch)
	return search.Request{
		Query:        query,
		SearchFields: []string{"qa_questions", "qa_answers"},
		Select:       []string{"qa_questions", "qa_answers", "file_name", "chunk_page_number", "qa_confidence"},
		Filter:       filter,
		TopK:         QATopK,
	}
}

// hybridRequest combines keyword and vector retrieval over chunk content.
func (e *Engine) hybridRequest(ctx context.Context, query string, userCtx types.UserContext, topK int) search.Request {
	filter := contextFilter(userCtx).Ge("chunk_word_count", MinHybridWordCount)
	req := search.Request{
		Query:  query,
		Select: []string{"doc_id", "file_name", "chunk_content", "chunk_page_number", "chunk_function_summary", "file_url", "qa_questions", "qa_answers"},
		Filter: filter,
		TopK:   topK,
	}

	if e.embedder != nil {
		vector, err := e.embedder.EmbedSingle(ctx, query)
		if err != nil {
			e.logger.Warn("query embedding failed, running keyword-only hybrid",
				"error", err)
		} else {
			req.Vector = vector
			req.VectorField = vectorField
			req.KNearest = search.DefaultKNearest
		}
	}
	return req
}

// entityRequest filters on extracted entity mentions.
func (e *Engine) entityRequest(query string, userCtx types.UserContext, topK int) search.Request {
	entity := e.lex.ExtractEntity(strings.ToLower(query))
	filter := search.NewFilter().
		AnyEq("chunk_entities", entity).
		Eq("branch_name", userCtx.Branch)
	return search.Request{
		Query:  query,
		Select: []string{"file_name", "chunk_page_number", "chunk_entities", "chunk_function_summary"},
		Filter: filter,
		Facets: []string{"file_name,count:10"},
		TopK:   topK,
	}
}

// summaryRequest searches chunk function summaries only.
func (e *Engine) summaryRequest(query string, userCtx types.UserContext, topK int) search.Request {
	return search.Request{
		Query:        query,
		SearchFields: []string{"chunk_function_summary"},
		Select:       []string{"file_name", "chunk_page_number", "chunk_function_summary"},
		Filter:       contextFilter(userCtx),
		TopK:         topK,
	}
}

// documentRequest scopes retrieval to one document, named in the query or
// the user context.
func (e *Engine) documentRequest(query string, userCtx types.UserContext) search.Request {
	filename := userCtx.Filename
	if m := filenameRe.FindStringSubmatch(query); m != nil {
		filename = m[1]
	}
	filter := search.NewFilter().Eq("file_name", filename)
	if userCtx.StartPage > 0 {
		filter = filter.Ge("chunk_page_number", float64(userCtx.StartPage))
	}
	if userCtx.EndPage > 0 {
		filter = filter.Le("chunk_page_number", float64(userCtx.EndPage))
	}
	return search.Request{
		Query:  query,
		Select: []string{"chunk_page_number", "chunk_content", "chunk_function_summary", "file_url", "qa_questions", "qa_answers"},
		Filter: filter,
		TopK:   DocumentTopK,
	}
}

// contextFilter builds the shared branch/category/library filter.
func contextFilter(userCtx types.UserContext) *search.Filter {
	return search.NewFilter().
		Eq("branch_name", userCtx.Branch).
		Eq("category_name_en", userCtx.Category).
		Eq("library_name_en", userCtx.Library)
}
