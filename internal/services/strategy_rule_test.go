package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/stylecast-backend/internal/types"
)

func TestRuleBasedStrategySupportsColdStartOnly(t *testing.T) {
	strategy := NewRuleBasedStrategy(newTestLogger(t), rand.New(rand.NewSource(1)))
	require.True(t, strategy.Supports(true))
	require.False(t, strategy.Supports(false))
}

func TestRuleBasedStrategyPairsTopsWithBottoms(t *testing.T) {
	strategy := NewRuleBasedStrategy(newTestLogger(t), rand.New(rand.NewSource(42)))

	member := &types.Member{Name: "Mei", StyleTags: "casual,street"}
	candidates := []*types.Clothing{
		{ID: 1, ClothingType: types.ClothingTypeTop, StyleTags: "casual,street"},
		{ID: 2, ClothingType: types.ClothingTypeTop, StyleTags: "formal"},
		{ID: 3, ClothingType: types.ClothingTypeBottom, StyleTags: "casual"},
		{ID: 4, ClothingType: types.ClothingTypeBottom, StyleTags: "street"},
		{ID: 5, ClothingType: types.ClothingTypeOnePiece, StyleTags: "casual"},
	}

	outfits, warning, err := strategy.Recommend(context.Background(), RecommendRequest{
		Member: member, Candidates: candidates, ColdStart: true,
	})
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Len(t, outfits, 2, "pairs are limited by the scarcer side")

	tops := map[int64]bool{1: true, 2: true}
	bottoms := map[int64]bool{3: true, 4: true}
	for i, outfit := range outfits {
		require.Equal(t, i+1, outfit.OutfitNo)
		require.True(t, tops[outfit.TopClothingID])
		require.True(t, bottoms[outfit.BottomClothingID])
		require.GreaterOrEqual(t, outfit.Score, 0)
		require.LessOrEqual(t, outfit.Score, 100)
	}
}

func TestRuleBasedStrategyCapsAtThreePairs(t *testing.T) {
	strategy := NewRuleBasedStrategy(newTestLogger(t), rand.New(rand.NewSource(7)))

	var candidates []*types.Clothing
	for i := int64(1); i <= 5; i++ {
		candidates = append(candidates, &types.Clothing{ID: i, ClothingType: types.ClothingTypeTop})
		candidates = append(candidates, &types.Clothing{ID: i + 100, ClothingType: types.ClothingTypeBottom})
	}

	outfits, _, err := strategy.Recommend(context.Background(), RecommendRequest{
		Member: &types.Member{Name: "Mei"}, Candidates: candidates, ColdStart: true,
	})
	require.NoError(t, err)
	require.Len(t, outfits, 3)
}

func TestStrategyRouterPrefersFirstSupporting(t *testing.T) {
	log := newTestLogger(t)
	aiStub := &stubStrategy{name: "AI_ONLY"}
	router := NewStrategyRouter(log, aiStub, NewRuleBasedStrategy(log, rand.New(rand.NewSource(1))))

	selected, err := router.Select(true)
	require.NoError(t, err)
	require.Equal(t, "AI_ONLY", selected.Name(), "the AI strategy wins even on cold start")

	selected, err = router.Select(false)
	require.NoError(t, err)
	require.Equal(t, "AI_ONLY", selected.Name())
}

func TestStrategyRouterErrsWhenNothingSupports(t *testing.T) {
	log := newTestLogger(t)
	router := NewStrategyRouter(log, NewRuleBasedStrategy(log, rand.New(rand.NewSource(1))))

	_, err := router.Select(false)
	require.Error(t, err)
}
