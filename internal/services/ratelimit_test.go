package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, maxPerWindow int) (*rateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(maxPerWindow, newTestLogger(t)).(*rateLimiter)
	now := time.Now()
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterAdmitsUpToMax(t *testing.T) {
	rl, _ := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("alice"), "request %d should be admitted", i+1)
	}
	require.False(t, rl.Allow("alice"), "request over the cap must be rejected")
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl, now := newTestLimiter(t, 2)

	require.True(t, rl.Allow("alice"))
	require.True(t, rl.Allow("alice"))
	require.False(t, rl.Allow("alice"))

	*now = now.Add(1100 * time.Millisecond)
	require.True(t, rl.Allow("alice"), "requests succeed again after the window elapses")
}

func TestRateLimiterIsPerOperator(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)

	require.True(t, rl.Allow("alice"))
	require.False(t, rl.Allow("alice"))
	require.True(t, rl.Allow("bob"), "operators do not share windows")
}

func TestRateLimiterConcurrentCheckAndReserve(t *testing.T) {
	rl := NewRateLimiter(5, newTestLogger(t))

	var wg sync.WaitGroup
	admitted := make(chan bool, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted <- rl.Allow("alice")
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	require.Equal(t, 5, count, "exactly maxPerWindow requests may win the race")
}
