package services

import (
	"context"
	"fmt"

	"github.com/yungbote/stylecast-backend/internal/ai"
	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type RecommendRequest struct {
	Member     *types.Member
	Candidates []*types.Clothing
	History    []*types.MatchRecord
	Scene      string
	Language   ai.Language
	// ColdStart is signaled when the member has no match history at all.
	ColdStart bool
}

// Strategy produces ranked outfits for a request. Supports gates whether a
// strategy may serve the request; the router picks the first that passes.
type Strategy interface {
	Name() string
	Supports(coldStart bool) bool
	Recommend(ctx context.Context, req RecommendRequest) ([]types.OutfitRecommendation, string, error)
}

// StrategyRouter holds an ordered, extensible strategy list. With the current
// ordering the AI strategy always wins, but the list keeps the rule-based
// path pluggable.
type StrategyRouter struct {
	log        *logger.Logger
	strategies []Strategy
}

func NewStrategyRouter(baseLog *logger.Logger, strategies ...Strategy) *StrategyRouter {
	return &StrategyRouter{
		log:        baseLog.With("service", "StrategyRouter"),
		strategies: strategies,
	}
}

func (sr *StrategyRouter) Select(coldStart bool) (Strategy, error) {
	for _, strategy := range sr.strategies {
		if strategy.Supports(coldStart) {
			return strategy, nil
		}
	}
	return nil, fmt.Errorf("no recommendation strategy supports this request")
}
