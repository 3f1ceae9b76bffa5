package chat

import (
	"encoding/json"
	"strings"
)

// categoryResult is the structured output requested from the classifier.
type categoryResult struct {
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
}

// parseCategoryJSON recovers a category object from free-form model output:
// take the region between the first '{' and the last '}', then parse it.
// Returns ok=false when no parseable object is present, letting the caller
// fall through to keyword heuristics.
func parseCategoryJSON(raw string) (category string, confidence float64, ok bool) {
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", 0, false
	}

	var result categoryResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return "", 0, false
	}

	category = result.Category
	if category == "" {
		category = "unknown"
	}
	confidence = 0.5
	if result.Confidence != nil {
		confidence = *result.Confidence
	}
	return category, confidence, true
}
