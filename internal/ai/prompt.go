package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/stylecast-backend/internal/types"
)

const maxHistoryEntries = 10

const suggestSystemPrompt = "You are a professional fashion stylist. You pair one TOP with one BOTTOM " +
	"from the provided candidate list and explain each pairing. Respond with JSON only."

const previewSystemPrompt = "You are a professional fashion stylist writing a styled outfit preview. " +
	"Respond with JSON only."

func buildSuggestPrompt(req SuggestRequest) string {
	var b strings.Builder

	b.WriteString("Recommend up to 3 outfit pairings for the following person.\n\n")
	writeMemberSection(&b, req.Member)

	if req.Scene != "" {
		fmt.Fprintf(&b, "Occasion: %s\n", req.Scene)
	}

	b.WriteString("\nCandidate clothing items (pair only ids from this list):\n")
	for _, item := range req.Candidates {
		fmt.Fprintf(&b, "- id=%d type=%s name=%q", item.ID, item.ClothingType, item.Name)
		if item.StyleTags != "" {
			fmt.Fprintf(&b, " styleTags=%q", item.StyleTags)
		}
		if size := formatSizeData(item.SizeData); size != "" {
			fmt.Fprintf(&b, " size={%s}", size)
		}
		b.WriteString("\n")
	}

	if len(req.History) > 0 {
		b.WriteString("\nRecently worn (context only, already filtered for eligibility):\n")
		limit := len(req.History)
		if limit > maxHistoryEntries {
			limit = maxHistoryEntries
		}
		for _, record := range req.History[:limit] {
			fmt.Fprintf(&b, "- clothing id=%d status=%s on %s\n",
				record.ClothingID, record.Status, record.CreatedAt.Format("2006-01-02"))
		}
	}

	fmt.Fprintf(&b, "\nReturn JSON with an \"outfits\" array of objects "+
		"{topClothingId, bottomClothingId, score, reason}. Score is 0-100. "+
		"Write every reason in %s.\n", req.Language.PromptLabel())
	return b.String()
}

func buildPreviewPrompt(req PreviewRequest) string {
	var b strings.Builder

	b.WriteString("Describe how the following person would look wearing the selected outfit.\n\n")
	writeMemberSection(&b, req.Member)

	if req.Scene != "" {
		fmt.Fprintf(&b, "Occasion: %s\n", req.Scene)
	}

	b.WriteString("\nSelected outfit:\n")
	for _, item := range req.Items {
		fmt.Fprintf(&b, "- %s: %q", item.ClothingType, item.Name)
		if item.StyleTags != "" {
			fmt.Fprintf(&b, " styleTags=%q", item.StyleTags)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nReturn JSON {title, outfitDescription, imagePrompt}. The title and "+
		"outfitDescription must be written in %s; imagePrompt must be a detailed English "+
		"prompt suitable for an image generation model.\n", req.Language.PromptLabel())
	return b.String()
}

func writeMemberSection(b *strings.Builder, member *types.Member) {
	fmt.Fprintf(b, "Person: %s\n", member.Name)
	if measurements := formatSizeData(member.BodyData); measurements != "" {
		fmt.Fprintf(b, "Body measurements: %s\n", measurements)
	}
	if member.StyleTags != "" {
		fmt.Fprintf(b, "Preferred styles: %s\n", member.StyleTags)
	}
}

// formatSizeData renders a free-form measurement JSON object as a stable
// "key=value" list. Non-object payloads render as-is.
func formatSizeData(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		trimmed := strings.TrimSpace(string(raw))
		if trimmed == "" || trimmed == "null" || trimmed == "{}" {
			return ""
		}
		return trimmed
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, ", ")
}
