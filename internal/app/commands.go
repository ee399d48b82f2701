package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/partygate/internal/models"
)

// CommandResult is the structured outcome of a dispatched command.
type CommandResult struct {
	Command string              `json:"command"`
	Message string              `json:"message,omitempty"`
	Report  *models.CycleReport `json:"report,omitempty"`
	State   map[string]any      `json:"state,omitempty"`
}

// Dispatch executes a text command of the form the game-side plugin relays:
//
//	party                     check every current party member
//	player First Last@World   check one named player
//	target                    check the player currently targeted in game
//	toggle                    flip threshold checking on or off
//	refresh                   re-acquire the API token
//	clear                     drop all cached results
//	debug                     report token, rate-limit and roster state
func (a *App) Dispatch(ctx context.Context, line string) (*CommandResult, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "party":
		report, err := a.ThresholdService.CheckParty(ctx, models.TriggerManual)
		if err != nil {
			return nil, err
		}
		return &CommandResult{Command: cmd, Report: report}, nil

	case "player":
		first, last, world, err := parsePlayerArgs(args)
		if err != nil {
			return nil, err
		}
		report, err := a.ThresholdService.CheckPlayer(ctx, first, last, world)
		if err != nil {
			return nil, err
		}
		return &CommandResult{Command: cmd, Report: report}, nil

	case "target":
		target := a.GameState.CurrentTarget()
		if target == nil {
			return nil, fmt.Errorf("no player targeted")
		}
		if target.FirstName == "" || target.LastName == "" || target.World == "" {
			return nil, fmt.Errorf("targeted player has no resolvable name")
		}
		report, err := a.ThresholdService.CheckPlayer(ctx, target.FirstName, target.LastName, target.World)
		if err != nil {
			return nil, err
		}
		return &CommandResult{Command: cmd, Report: report}, nil

	case "toggle":
		settings := a.ThresholdService.Settings()
		settings.EnableChecking = !settings.EnableChecking
		if err := a.ThresholdService.UpdateSettings(settings); err != nil {
			return nil, err
		}
		state := "disabled"
		if settings.EnableChecking {
			state = "enabled"
		}
		return &CommandResult{Command: cmd, Message: "threshold checking " + state}, nil

	case "refresh":
		if err := a.LogsClient.RefreshToken(ctx); err != nil {
			return nil, fmt.Errorf("token refresh failed: %w", err)
		}
		return &CommandResult{Command: cmd, Message: "token acquired"}, nil

	case "clear":
		a.LogsClient.ClearCache()
		return &CommandResult{Command: cmd, Message: "result cache cleared"}, nil

	case "debug":
		rl := a.LogsClient.RateLimit()
		return &CommandResult{Command: cmd, State: map[string]any{
			"token_valid":    a.LogsClient.TokenValid(),
			"limit_per_hour": rl.LimitPerHour,
			"fetch_attempts": rl.FetchAttempts,
			"roster_size":    len(a.RosterService.Current()),
		}}, nil

	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

// parsePlayerArgs accepts "First Last@World" or "First Last World".
func parsePlayerArgs(args []string) (first, last, world string, err error) {
	switch len(args) {
	case 2:
		first = args[0]
		rest := args[1]
		at := strings.LastIndex(rest, "@")
		if at <= 0 || at == len(rest)-1 {
			return "", "", "", fmt.Errorf("player command expects First Last@World")
		}
		return first, rest[:at], rest[at+1:], nil
	case 3:
		return args[0], args[1], args[2], nil
	default:
		return "", "", "", fmt.Errorf("player command expects First Last@World")
	}
}
