package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

type suggestionEnvelope struct {
	Outfits []Suggestion `json:"outfits"`
}

// ParseSuggestions decodes model output into suggestions. The primary shape is
// the schema envelope {"outfits": [...]}; if that decode fails or yields
// nothing, the same text is tried once as a raw JSON array before giving up.
func ParseSuggestions(text string) ([]Suggestion, error) {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return nil, fmt.Errorf("empty model output")
	}

	var envelope suggestionEnvelope
	envErr := json.Unmarshal([]byte(cleaned), &envelope)
	if envErr == nil && envelope.Outfits != nil {
		return envelope.Outfits, nil
	}

	var raw []Suggestion
	if arrErr := json.Unmarshal([]byte(cleaned), &raw); arrErr == nil {
		return raw, nil
	}

	if envErr == nil {
		return []Suggestion{}, nil
	}
	return nil, fmt.Errorf("unparseable model output: %w; text=%s", envErr, cleaned)
}

// ParsePreview decodes a preview payload, tolerating a code-fenced response.
func ParsePreview(text string, out any) error {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return fmt.Errorf("empty model output")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("unparseable model output: %w; text=%s", err, cleaned)
	}
	return nil
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}
