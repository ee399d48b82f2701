package app

import (
	"context"
	"errors"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/bobmcallan/partygate/internal/clients/fflogs"
	"github.com/bobmcallan/partygate/internal/models"
)

// StartOrchestrator launches the background check loop: acquire a token, then
// poll the roster on the configured interval and run join-triggered checks.
// A zero poll interval disables the loop entirely.
func (a *App) StartOrchestrator() {
	interval := a.Config.Thresholds.GetPollInterval()
	if interval <= 0 {
		a.Logger.Info().Msg("Orchestrator disabled (poll_interval is 0)")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.orchestratorCancel = cancel
	go a.runOrchestrator(ctx, interval)
}

func (a *App) runOrchestrator(ctx context.Context, interval time.Duration) {
	a.acquireToken(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var previous []models.RosterMember

	for {
		select {
		case <-ctx.Done():
			a.Logger.Info().Msg("Orchestrator stopped")
			return
		case <-ticker.C:
			previous = a.tick(ctx, previous)
		}
	}
}

// tick runs one poll cycle and returns the roster snapshot for the next diff.
func (a *App) tick(ctx context.Context, previous []models.RosterMember) []models.RosterMember {
	if !a.LogsClient.TokenValid() {
		a.acquireToken(ctx)
	}

	current, err := a.RosterService.Poll(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Roster poll failed")
		return previous
	}

	delta := a.RosterService.Diff(previous, current)
	if delta.Empty() {
		return current
	}

	a.Logger.Debug().
		Int("joined", len(delta.Joined)).
		Int("left", len(delta.Left)).
		Msg("Roster changed")

	for _, member := range delta.Joined {
		report, err := a.ThresholdService.OnRosterMemberJoined(ctx, member)
		if err != nil {
			a.Logger.Warn().Err(err).Str("member", member.DisplayName()).Msg("Join-triggered check failed")
			continue
		}
		if report != nil && report.Status == models.CycleStatusEvaluated && report.Failed > 0 {
			a.Logger.Warn().
				Str("member", member.DisplayName()).
				Str("cycle", report.CycleID).
				Msg("Joining member failed threshold check")
		}
	}

	return current
}

// acquireToken attempts token acquisition with backoff. Credential rejections
// are not retried: they will not heal without operator action.
func (a *App) acquireToken(ctx context.Context) {
	if a.LogsClient.TokenValid() {
		return
	}

	err := retry.Do(
		func() error {
			return a.LogsClient.RefreshToken(ctx)
		},
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.MaxJitter(2*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			a.Logger.Info().Uint("attempt", n).Err(err).Msg("Retrying token acquisition")
		}),
		retry.RetryIf(func(err error) bool {
			var authErr *fflogs.AuthError
			if errors.As(err, &authErr) {
				return false
			}
			return !errors.Is(err, fflogs.ErrMissingCredentials)
		}),
	)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Token acquisition failed; checks will report unauthorized")
	}
}
