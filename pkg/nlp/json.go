package nlp

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

var (
	thinkTagRe  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	codeFenceRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")
)

// ParseJSONResponse extracts and unmarshals a JSON object from raw LLM
// output into target. Models wrap JSON in markdown fences or reasoning
// tags, and frequently emit slightly invalid JSON; this strips the wrapping
// and runs jsonrepair before giving up.
func ParseJSONResponse(raw string, target any) error {
	cleaned := strings.TrimSpace(thinkTagRe.ReplaceAllString(raw, ""))

	if m := codeFenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}

	// Narrow to the outermost object if there is leading/trailing prose.
	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	if cleaned == "" {
		return fmt.Errorf("no JSON content in response")
	}

	if err := json.Unmarshal([]byte(cleaned), target); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return fmt.Errorf("failed to repair JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), target); err != nil {
		return fmt.Errorf("repaired JSON still invalid: %w", err)
	}
	return nil
}
