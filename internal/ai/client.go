package ai

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/types"
)

// Suggestion is one raw provider-proposed pairing before normalization.
type Suggestion struct {
	TopClothingID    int64  `json:"topClothingId"`
	BottomClothingID int64  `json:"bottomClothingId"`
	Score            int    `json:"score"`
	Reason           string `json:"reason"`
}

type SuggestRequest struct {
	Member     *types.Member
	Candidates []*types.Clothing
	History    []*types.MatchRecord
	Scene      string
	Language   Language
}

type PreviewRequest struct {
	Member   *types.Member
	Items    []*types.Clothing
	Scene    string
	Language Language
}

// Provider is the capability contract each AI backend implements.
type Provider interface {
	Name() string
	Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error)
	GeneratePreview(ctx context.Context, req PreviewRequest) (*types.OutfitPreview, error)
}

// Router selects the active provider by configuration. Both backends are
// constructed up front so a misconfigured key fails at startup, not mid-task.
type Router struct {
	log       *logger.Logger
	providers map[string]Provider
	active    string
}

func NewRouter(baseLog *logger.Logger) (*Router, error) {
	log := baseLog.With("service", "AiClientRouter")

	providers := make(map[string]Provider)
	if openai, err := NewOpenAIProvider(baseLog); err == nil {
		providers[openai.Name()] = openai
	} else {
		log.Warn("OpenAI provider unavailable", "error", err)
	}
	if gemini, err := NewGeminiProvider(baseLog); err == nil {
		providers[gemini.Name()] = gemini
	} else {
		log.Warn("Gemini provider unavailable", "error", err)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no AI provider configured; set OPENAI_API_KEY or GEMINI_API_KEY")
	}

	active := strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER")))
	if active == "" {
		active = "openai"
	}
	if _, ok := providers[active]; !ok {
		for name := range providers {
			log.Warn("Configured AI provider missing; routing to available one", "configured", active, "using", name)
			active = name
			break
		}
	}

	log.Info("AI provider routing configured", "active", active)
	return &Router{log: log, providers: providers, active: active}, nil
}

func (r *Router) Name() string { return r.active }

func (r *Router) Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error) {
	return r.providers[r.active].Suggest(ctx, req)
}

func (r *Router) GeneratePreview(ctx context.Context, req PreviewRequest) (*types.OutfitPreview, error) {
	return r.providers[r.active].GeneratePreview(ctx, req)
}

// retryPolicy bounds preview retries. Attempts = Retries+1; the delay before
// attempt n is Backoff*n (linear, not exponential).
type retryPolicy struct {
	Retries int
	Backoff time.Duration
}

func previewRetryPolicyFromEnv() retryPolicy {
	retries := 2
	if v := os.Getenv("AI_PREVIEW_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			retries = parsed
		}
	}
	backoffMs := 500
	if v := os.Getenv("AI_PREVIEW_BACKOFF_MS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			backoffMs = parsed
		}
	}
	return retryPolicy{Retries: retries, Backoff: time.Duration(backoffMs) * time.Millisecond}
}

// retryOnTimeout runs fn up to policy.Retries+1 times, retrying only
// timeout-classified errors. Any other error propagates immediately.
func retryOnTimeout(ctx context.Context, log *logger.Logger, policy retryPolicy, fn func() error) error {
	maxAttempts := policy.Retries + 1
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTimeout(lastErr) || attempt == maxAttempts {
			return lastErr
		}
		sleep := policy.Backoff * time.Duration(attempt)
		log.Warn("AI call timed out; retrying", "attempt", attempt, "maxAttempts", maxAttempts, "sleep", sleep.String(), "error", lastErr.Error())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return lastErr
}
