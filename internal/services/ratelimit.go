package services

import (
	"sync"
	"time"

	"github.com/yungbote/stylecast-backend/internal/logger"
)

// RateLimiter admits at most maxPerWindow requests per operator within a
// sliding one-second window. State is in-process only; a multi-instance
// deployment needs a shared store instead.
type RateLimiter interface {
	// Allow atomically checks the operator's window and reserves a slot.
	Allow(operator string) bool
}

type rateLimiter struct {
	log          *logger.Logger
	mu           sync.Mutex
	window       time.Duration
	maxPerWindow int
	timestamps   map[string][]time.Time
	now          func() time.Time
}

func NewRateLimiter(maxPerWindow int, baseLog *logger.Logger) RateLimiter {
	if maxPerWindow < 1 {
		maxPerWindow = 1
	}
	return &rateLimiter{
		log:          baseLog.With("service", "RateLimiter"),
		window:       time.Second,
		maxPerWindow: maxPerWindow,
		timestamps:   make(map[string][]time.Time),
		now:          time.Now,
	}
}

func (rl *rateLimiter) Allow(operator string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	queue := rl.timestamps[operator]
	kept := queue[:0]
	for _, ts := range queue {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= rl.maxPerWindow {
		rl.timestamps[operator] = kept
		rl.log.Warn("Rate limit exceeded", "operator", operator, "maxPerWindow", rl.maxPerWindow)
		return false
	}

	rl.timestamps[operator] = append(kept, now)
	return true
}
