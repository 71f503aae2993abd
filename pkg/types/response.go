package types

// ResponseStatus marks whether a final response carries an accepted answer
// or degraded evidence.
type ResponseStatus string

const (
	// StatusOK means the answer passed the confidence gate.
	StatusOK ResponseStatus = "ok"
	// StatusPartial means no confident answer was reached and the response
	// carries the best evidence gathered.
	StatusPartial ResponseStatus = "partial"
)

// Candidate is a snapshot recorded at each answer-evaluation cycle. The
// candidate list is append-only and is the sole input to best-of selection
// when all strategies are exhausted.
type Candidate struct {
	StrategyUsed Strategy `json:"strategy_used"`
	Confidence   float64  `json:"confidence"`
	ResultCount  int      `json:"result_count"`
	Answer       string   `json:"answer"`
	TopFile      string   `json:"top_file"`
	TopPage      int      `json:"top_page"`
	TopSnippet   string   `json:"top_snippet"`
	AnswerLength int      `json:"answer_length"`
}

// RetrievalEvaluation records the outcome of one search attempt.
type RetrievalEvaluation struct {
	ResultCount int      `json:"result_count"`
	Strategy    Strategy `json:"strategy"`
}

// AnswerEvaluation records the embedding similarities behind a confidence
// score.
type AnswerEvaluation struct {
	SimQA         float64 `json:"sim_qa"`
	SimACMax      float64 `json:"sim_ac_max"`
	CitationsUsed int     `json:"citations_used"`
	AnswerLength  int     `json:"answer_length"`
}

// FinalResponse is the terminal, immutable output of one orchestration
// session.
type FinalResponse struct {
	Status        ResponseStatus `json:"status"`
	Message       string         `json:"message,omitempty"`
	Answer        string         `json:"answer"`
	TopFile       string         `json:"top_file,omitempty"`
	TopPage       int            `json:"top_page,omitempty"`
	TopSnippet    string         `json:"top_snippet,omitempty"`
	ResultCount   int            `json:"result_count"`
	StrategyUsed  Strategy       `json:"strategy_used"`
	Attempts      int            `json:"attempts"`
	Confidence    float64        `json:"confidence"`
	Notifications []string       `json:"notifications,omitempty"`
	ProcessingMS  int64          `json:"processing_time_ms"`
}
