package ai

import (
	"sort"

	"github.com/yungbote/stylecast-backend/internal/types"
)

// DefaultReason fills in for a blank provider-written reason.
const DefaultReason = "AI outfit recommendation"

// NormalizeSuggestions turns raw provider suggestions into well-formed
// outfits: scores clamped to [0,100], blank reasons defaulted, pairs with
// equal or missing ids dropped, each pair resolved against candidates and
// reordered so top is the TOP-typed item, pairs that do not resolve to
// exactly one TOP and one BOTTOM dropped, remainder sorted by score
// descending and numbered from 1.
func NormalizeSuggestions(suggestions []Suggestion, candidates []*types.Clothing) []types.OutfitRecommendation {
	byID := make(map[int64]*types.Clothing, len(candidates))
	for _, item := range candidates {
		byID[item.ID] = item
	}

	outfits := make([]types.OutfitRecommendation, 0, len(suggestions))
	for _, s := range suggestions {
		if s.TopClothingID == 0 || s.BottomClothingID == 0 || s.TopClothingID == s.BottomClothingID {
			continue
		}
		first, firstOK := byID[s.TopClothingID]
		second, secondOK := byID[s.BottomClothingID]
		if !firstOK || !secondOK {
			continue
		}

		topID, bottomID, ok := resolvePair(first, second)
		if !ok {
			continue
		}

		reason := s.Reason
		if reason == "" {
			reason = DefaultReason
		}
		outfits = append(outfits, types.OutfitRecommendation{
			TopClothingID:    topID,
			BottomClothingID: bottomID,
			Score:            clampScore(s.Score),
			Reason:           reason,
		})
	}

	sort.SliceStable(outfits, func(i, j int) bool {
		return outfits[i].Score > outfits[j].Score
	})
	for i := range outfits {
		outfits[i].OutfitNo = i + 1
	}
	return outfits
}

// resolvePair accepts the pair in either declared order and returns it as
// (topID, bottomID). A pair that is not exactly one TOP plus one BOTTOM is
// rejected.
func resolvePair(first, second *types.Clothing) (int64, int64, bool) {
	switch {
	case first.ClothingType == types.ClothingTypeTop && second.ClothingType == types.ClothingTypeBottom:
		return first.ID, second.ID, true
	case first.ClothingType == types.ClothingTypeBottom && second.ClothingType == types.ClothingTypeTop:
		return second.ID, first.ID, true
	default:
		return 0, 0, false
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
