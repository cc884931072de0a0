package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/stylecast-backend/internal/types"
)

func normalizeCandidates() []*types.Clothing {
	return []*types.Clothing{
		{ID: 1, ClothingType: types.ClothingTypeTop},
		{ID: 2, ClothingType: types.ClothingTypeTop},
		{ID: 3, ClothingType: types.ClothingTypeBottom},
		{ID: 4, ClothingType: types.ClothingTypeBottom},
	}
}

func TestNormalizeSwapsReversedPair(t *testing.T) {
	outfits := NormalizeSuggestions([]Suggestion{
		{TopClothingID: 3, BottomClothingID: 1, Score: 80, Reason: "reversed"},
	}, normalizeCandidates())

	require.Len(t, outfits, 1)
	require.EqualValues(t, 1, outfits[0].TopClothingID)
	require.EqualValues(t, 3, outfits[0].BottomClothingID)
}

func TestNormalizeDropsInvalidPairs(t *testing.T) {
	outfits := NormalizeSuggestions([]Suggestion{
		{TopClothingID: 1, BottomClothingID: 2, Score: 90, Reason: "two tops"},
		{TopClothingID: 3, BottomClothingID: 4, Score: 90, Reason: "two bottoms"},
		{TopClothingID: 1, BottomClothingID: 1, Score: 90, Reason: "equal ids"},
		{TopClothingID: 1, BottomClothingID: 0, Score: 90, Reason: "missing id"},
		{TopClothingID: 99, BottomClothingID: 3, Score: 90, Reason: "unknown id"},
		{TopClothingID: 1, BottomClothingID: 3, Score: 90, Reason: "valid"},
	}, normalizeCandidates())

	require.Len(t, outfits, 1)
	require.Equal(t, "valid", outfits[0].Reason)
}

func TestNormalizeClampsScores(t *testing.T) {
	outfits := NormalizeSuggestions([]Suggestion{
		{TopClothingID: 1, BottomClothingID: 3, Score: 150, Reason: "high"},
		{TopClothingID: 2, BottomClothingID: 4, Score: -10, Reason: "low"},
	}, normalizeCandidates())

	require.Len(t, outfits, 2)
	require.Equal(t, 100, outfits[0].Score)
	require.Equal(t, 0, outfits[1].Score)
}

func TestNormalizeDefaultsBlankReason(t *testing.T) {
	outfits := NormalizeSuggestions([]Suggestion{
		{TopClothingID: 1, BottomClothingID: 3, Score: 50},
	}, normalizeCandidates())

	require.Len(t, outfits, 1)
	require.Equal(t, DefaultReason, outfits[0].Reason)
}

func TestNormalizeSortsAndNumbers(t *testing.T) {
	outfits := NormalizeSuggestions([]Suggestion{
		{TopClothingID: 1, BottomClothingID: 3, Score: 60, Reason: "mid"},
		{TopClothingID: 2, BottomClothingID: 4, Score: 95, Reason: "best"},
		{TopClothingID: 2, BottomClothingID: 3, Score: 40, Reason: "worst"},
	}, normalizeCandidates())

	require.Len(t, outfits, 3)
	require.Equal(t, []int{95, 60, 40}, []int{outfits[0].Score, outfits[1].Score, outfits[2].Score})
	for i, outfit := range outfits {
		require.Equal(t, i+1, outfit.OutfitNo)
	}
}
