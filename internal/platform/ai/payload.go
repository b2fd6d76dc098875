package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractPayload parses a structured JSON payload out of free-form model
// output. Models routinely wrap JSON in markdown code fences with stray
// whitespace; the fences are stripped before unmarshalling. Malformed input
// is an explicit error, never a silent fallback.
func ExtractPayload(content string, v interface{}) error {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return fmt.Errorf("empty completion payload")
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parse completion payload: %w", err)
	}
	return nil
}
