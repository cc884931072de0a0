package services

import (
	"context"
	"fmt"

	"github.com/yungbote/stylecast-backend/internal/ai"
	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/types"
)

// aiStrategy delegates to the AI provider and normalizes its raw suggestions.
// Zero valid outfits after normalization is an explicit failure, never an
// empty success.
type aiStrategy struct {
	log    *logger.Logger
	client ai.Provider
}

func NewAIStrategy(baseLog *logger.Logger, client ai.Provider) Strategy {
	return &aiStrategy{
		log:    baseLog.With("service", "AIStrategy"),
		client: client,
	}
}

func (as *aiStrategy) Name() string { return "AI_ONLY" }

func (as *aiStrategy) Supports(coldStart bool) bool { return true }

func (as *aiStrategy) Recommend(ctx context.Context, req RecommendRequest) ([]types.OutfitRecommendation, string, error) {
	suggestions, err := as.client.Suggest(ctx, ai.SuggestRequest{
		Member:     req.Member,
		Candidates: req.Candidates,
		History:    req.History,
		Scene:      req.Scene,
		Language:   req.Language,
	})
	if err != nil {
		return nil, "", err
	}

	outfits := ai.NormalizeSuggestions(suggestions, req.Candidates)
	if len(outfits) == 0 {
		return nil, "", fmt.Errorf("AI returned %d suggestions but none formed a valid TOP+BOTTOM pair", len(suggestions))
	}
	return outfits, "", nil
}
