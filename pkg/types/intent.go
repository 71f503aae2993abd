package types

// QueryType distinguishes interrogative queries from statements.
type QueryType string

const (
	QueryTypeQuestion  QueryType = "question"
	QueryTypeStatement QueryType = "statement"
)

// Complexity is a coarse estimate of how much retrieval work a query needs.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Language is the detected query language.
type Language string

const (
	LanguageEN Language = "en"
	LanguageTC Language = "tc"
)

// QueryIntent captures the coarse properties of a query derived by the
// intent classifier. The classifier always produces a complete intent;
// none of these fields are optional.
type QueryIntent struct {
	QueryType        QueryType  `json:"query_type"`
	Complexity       Complexity `json:"complexity"`
	MentionsDocument bool       `json:"mentions_document"`
	HasEntities      bool       `json:"has_entities"`
	RequiresMultiHop bool       `json:"requires_multi_hop"`
	Aspects          []string   `json:"aspects"`
	Language         Language   `json:"language"`
}

// UserContext carries the caller-supplied scoping hints used to build
// search filters.
type UserContext struct {
	Branch   string `json:"branch,omitempty"`
	Category string `json:"category,omitempty"`
	Library  string `json:"library,omitempty"`
	Filename string `json:"filename,omitempty"`
	Language string `json:"language,omitempty"`
	// StartPage and EndPage bound document-scoped retrieval to a page
	// range. Zero means unbounded.
	StartPage int `json:"start_page,omitempty"`
	EndPage   int `json:"end_page,omitempty"`
}
