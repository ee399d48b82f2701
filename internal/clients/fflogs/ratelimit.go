package fflogs

import (
	"context"
	"sync"

	"github.com/bobmcallan/partygate/internal/common"
	"github.com/bobmcallan/partygate/internal/models"
)

// rateLimitMaxAttempts bounds budget-query retries. Once reached with no
// recorded budget the tracker is considered permanently failed until an
// explicit reset (e.g. a new token).
const rateLimitMaxAttempts = 3

// RateLimitTracker tracks the account's hourly request budget. It is advisory
// telemetry only: it never blocks request issuance, and refreshes run
// asynchronously off the caller's path.
type RateLimitTracker struct {
	mu     sync.Mutex
	state  models.RateLimitState
	fetch  func(ctx context.Context) (int, error)
	logger *common.Logger
}

// NewRateLimitTracker creates a tracker. fetch queries the service for the
// hourly budget and is invoked on the tracker's own goroutine.
func NewRateLimitTracker(fetch func(ctx context.Context) (int, error), logger *common.Logger) *RateLimitTracker {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &RateLimitTracker{fetch: fetch, logger: logger}
}

// Refresh re-queries the hourly budget. With forceReset the attempt counter is
// zeroed first. A refresh already in flight, or a known-exhausted budget at
// the attempt ceiling, makes this a no-op.
func (t *RateLimitTracker) Refresh(ctx context.Context, forceReset bool) {
	t.mu.Lock()
	if forceReset {
		t.state.FetchAttempts = 0
	}
	if t.state.Loading {
		t.mu.Unlock()
		return
	}
	if t.state.LimitPerHour == 0 && t.state.FetchAttempts >= rateLimitMaxAttempts {
		t.mu.Unlock()
		return
	}
	t.state.FetchAttempts++
	t.state.Loading = true
	t.mu.Unlock()

	go t.run(ctx)
}

func (t *RateLimitTracker) run(ctx context.Context) {
	limit, err := t.fetch(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Loading = false

	if err != nil {
		// Elevated attempt count is left in place to bound retries.
		t.logger.Warn().Err(err).Int("attempts", t.state.FetchAttempts).Msg("FFLogs rate limit query failed")
		return
	}

	t.state.LimitPerHour = limit
	t.state.FetchAttempts = 0
	t.logger.Debug().Int("limit_per_hour", limit).Msg("FFLogs rate limit refreshed")
}

// HasPermanentlyFailed reports whether the retry ceiling has been reached.
func (t *RateLimitTracker) HasPermanentlyFailed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.FetchAttempts >= rateLimitMaxAttempts
}

// State returns a copy of the current rate-limit state.
func (t *RateLimitTracker) State() models.RateLimitState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
