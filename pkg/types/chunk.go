package types

// SnippetLength is the maximum number of characters taken from chunk
// content when a function summary is unavailable.
const SnippetLength = 600

// DocumentChunk is one scored result from the search backend. Chunks are
// immutable once returned; the session holds them only for the duration of
// a single attempt.
type DocumentChunk struct {
	FileName             string   `json:"file_name"`
	ChunkContent         string   `json:"chunk_content"`
	ChunkPageNumber      int      `json:"chunk_page_number"`
	QAQuestions          []string `json:"qa_questions,omitempty"`
	QAAnswers            []string `json:"qa_answers,omitempty"`
	QAConfidence         float64  `json:"qa_confidence,omitempty"`
	ChunkFunctionSummary string   `json:"chunk_function_summary,omitempty"`
	ChunkEntities        []string `json:"chunk_entities,omitempty"`
	Score                float64  `json:"score"`
}

// CitationText returns the text used when a chunk is cited: the function
// summary when present, otherwise the first SnippetLength characters of the
// chunk content. Truncation is byte-safe for the purposes of embedding and
// display; snippets are not required to end on a rune boundary upstream, so
// we back off to the previous rune start.
func (c DocumentChunk) CitationText() string {
	if c.ChunkFunctionSummary != "" {
		return c.ChunkFunctionSummary
	}
	return Truncate(c.ChunkContent, SnippetLength)
}

// Truncate returns s limited to max bytes without splitting a UTF-8 rune.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
