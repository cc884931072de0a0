package services

import (
	"context"
	"math/rand"
	"sort"
	"strings"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/types"
)

const (
	ruleBaseScore      = 55
	ruleOverlapWeight  = 12
	ruleSceneBonus     = 8
	ruleJitterRange    = 12
	ruleMaxPairs       = 3
	ruleStrategyReason = "Style tag match"
)

// ruleBasedStrategy is a cold-start fallback that scores candidates by style
// tag overlap with the member plus a scene bonus and a small random jitter,
// then pairs the best tops with the best bottoms index-wise.
type ruleBasedStrategy struct {
	log  *logger.Logger
	rand *rand.Rand
}

func NewRuleBasedStrategy(baseLog *logger.Logger, rng *rand.Rand) Strategy {
	return &ruleBasedStrategy{
		log:  baseLog.With("service", "RuleBasedStrategy"),
		rand: rng,
	}
}

func (rs *ruleBasedStrategy) Name() string { return "RULE_BASED" }

func (rs *ruleBasedStrategy) Supports(coldStart bool) bool { return coldStart }

func (rs *ruleBasedStrategy) Recommend(ctx context.Context, req RecommendRequest) ([]types.OutfitRecommendation, string, error) {
	memberTags := make(map[string]bool)
	for _, tag := range splitTags(req.Member.StyleTags) {
		memberTags[tag] = true
	}

	type scored struct {
		item  *types.Clothing
		score int
	}
	var tops, bottoms []scored
	for _, item := range req.Candidates {
		s := scored{item: item, score: rs.score(item, memberTags, req.Scene)}
		switch item.ClothingType {
		case types.ClothingTypeTop:
			tops = append(tops, s)
		case types.ClothingTypeBottom:
			bottoms = append(bottoms, s)
		}
	}
	sort.SliceStable(tops, func(i, j int) bool { return tops[i].score > tops[j].score })
	sort.SliceStable(bottoms, func(i, j int) bool { return bottoms[i].score > bottoms[j].score })

	pairCount := len(tops)
	if len(bottoms) < pairCount {
		pairCount = len(bottoms)
	}
	if pairCount > ruleMaxPairs {
		pairCount = ruleMaxPairs
	}

	outfits := make([]types.OutfitRecommendation, 0, pairCount)
	for i := 0; i < pairCount; i++ {
		pairScore := (tops[i].score + bottoms[i].score) / 2
		outfits = append(outfits, types.OutfitRecommendation{
			OutfitNo:         i + 1,
			TopClothingID:    tops[i].item.ID,
			BottomClothingID: bottoms[i].item.ID,
			Score:            pairScore,
			Reason:           ruleStrategyReason,
		})
	}
	return outfits, "", nil
}

func (rs *ruleBasedStrategy) score(item *types.Clothing, memberTags map[string]bool, scene string) int {
	overlap := 0
	for _, tag := range splitTags(item.StyleTags) {
		if memberTags[tag] {
			overlap++
		}
	}
	score := ruleBaseScore + overlap*ruleOverlapWeight + rs.rand.Intn(ruleJitterRange)
	if scene != "" && strings.Contains(strings.ToLower(item.StyleTags), strings.ToLower(scene)) {
		score += ruleSceneBonus
	}
	if score > 100 {
		score = 100
	}
	return score
}

func splitTags(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
