// Package interfaces defines service contracts for partygate
package interfaces

import (
	"context"
	"encoding/json"

	"github.com/bobmcallan/partygate/internal/models"
)

// LogsClient provides access to the combat-analytics logs API.
type LogsClient interface {
	// FetchEncounterResult retrieves the best parse percentile and kill count
	// for a character on one encounter. A character with zero rankings yields a
	// ParseResult with nil fields, not an error.
	FetchEncounterResult(ctx context.Context, firstName, lastName, world string, encounterID, difficultyID int, metric string) (*models.ParseResult, error)

	// FetchDashboardData retrieves the full multi-zone ranking payload for a
	// character, honoring the character's metric/partition/job filters.
	FetchDashboardData(ctx context.Context, character *models.Character) (json.RawMessage, error)

	// Invalidate drops the cached dashboard entry for the character's current
	// query shape.
	Invalidate(character *models.Character)

	// TokenValid reports whether an API token is currently held.
	TokenValid() bool

	// RefreshToken re-runs the OAuth2 client-credentials exchange.
	RefreshToken(ctx context.Context) error

	// RateLimit returns the last known hourly request budget (advisory).
	RateLimit() models.RateLimitState

	// ClearCache drops every cached response.
	ClearCache()
}
