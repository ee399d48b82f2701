package fflogs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// waitSettled polls until no refresh is in flight.
func waitSettled(t *testing.T, tracker *RateLimitTracker) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !tracker.State().Loading {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("refresh did not settle")
}

func TestRateLimitTracker_Success(t *testing.T) {
	tracker := NewRateLimitTracker(func(ctx context.Context) (int, error) {
		return 3600, nil
	}, nil)

	tracker.Refresh(context.Background(), false)
	waitSettled(t, tracker)

	state := tracker.State()
	if state.LimitPerHour != 3600 {
		t.Errorf("expected limit 3600, got %d", state.LimitPerHour)
	}
	if state.FetchAttempts != 0 {
		t.Errorf("expected attempts reset to 0 on success, got %d", state.FetchAttempts)
	}
	if tracker.HasPermanentlyFailed() {
		t.Error("expected not permanently failed after success")
	}
}

func TestRateLimitTracker_AttemptCeiling(t *testing.T) {
	var calls atomic.Int32
	tracker := NewRateLimitTracker(func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 0, errors.New("boom")
	}, nil)

	for i := 0; i < 5; i++ {
		tracker.Refresh(context.Background(), false)
		waitSettled(t, tracker)
	}

	if got := calls.Load(); got != rateLimitMaxAttempts {
		t.Errorf("expected exactly %d fetch attempts, got %d", rateLimitMaxAttempts, got)
	}
	if !tracker.HasPermanentlyFailed() {
		t.Error("expected permanently failed at attempt ceiling")
	}
}

func TestRateLimitTracker_ForceResetRetriesAfterCeiling(t *testing.T) {
	var calls atomic.Int32
	tracker := NewRateLimitTracker(func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 0, errors.New("boom")
	}, nil)

	for i := 0; i < 3; i++ {
		tracker.Refresh(context.Background(), false)
		waitSettled(t, tracker)
	}
	before := calls.Load()

	tracker.Refresh(context.Background(), true)
	waitSettled(t, tracker)

	if calls.Load() != before+1 {
		t.Errorf("expected forceReset to allow one more attempt, calls %d -> %d", before, calls.Load())
	}
}

func TestRateLimitTracker_InFlightIsNoOp(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	tracker := NewRateLimitTracker(func(ctx context.Context) (int, error) {
		calls.Add(1)
		close(started)
		<-release
		return 3600, nil
	}, nil)

	tracker.Refresh(context.Background(), false)
	<-started

	// Second refresh while the first is in flight must not issue another query.
	tracker.Refresh(context.Background(), false)
	close(release)
	waitSettled(t, tracker)

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 fetch while in flight, got %d", got)
	}
}
