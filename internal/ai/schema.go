package ai

// JSON schemas for structured output. Both backends accept the same core
// dialect; OpenAI additionally requires additionalProperties=false when
// strict mode is on.

func suggestionSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"outfits": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"topClothingId":    map[string]any{"type": "integer"},
						"bottomClothingId": map[string]any{"type": "integer"},
						"score":            map[string]any{"type": "integer"},
						"reason":           map[string]any{"type": "string"},
					},
					"required": []string{"topClothingId", "bottomClothingId", "score", "reason"},
				},
			},
		},
		"required": []string{"outfits"},
	}
}

func previewSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":             map[string]any{"type": "string"},
			"outfitDescription": map[string]any{"type": "string"},
			"imagePrompt":       map[string]any{"type": "string"},
		},
		"required": []string{"title", "outfitDescription", "imagePrompt"},
	}
}
