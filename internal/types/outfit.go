package types

// OutfitPreview is a styled-preview description for one outfit.
type OutfitPreview struct {
	Title             string `json:"title"`
	OutfitDescription string `json:"outfitDescription"`
	ImagePrompt       string `json:"imagePrompt"`
}

// OutfitRecommendation is one TOP+BOTTOM pairing inside a task result.
// OutfitNo is 1-based and unique within the task.
type OutfitRecommendation struct {
	OutfitNo         int            `json:"outfitNo"`
	TopClothingID    int64          `json:"topClothingId"`
	BottomClothingID int64          `json:"bottomClothingId"`
	Score            int            `json:"score"`
	Reason           string         `json:"reason"`
	Preview          *OutfitPreview `json:"preview,omitempty"`
	Warning          string         `json:"warning,omitempty"`
}

// MatchResultItem is the flattened legacy view: two entries per outfit,
// each carrying a prefixed reason string.
type MatchResultItem struct {
	ClothingID int64  `json:"clothingId"`
	Reason     string `json:"reason"`
	Score      int    `json:"score"`
}
