package interfaces

import (
	"context"

	"github.com/bobmcallan/partygate/internal/models"
)

// GameStateProvider exposes the narrow slice of live game state the engine
// needs. Implemented by an adapter over whatever the real game-state source is.
type GameStateProvider interface {
	CurrentPartyRoster(ctx context.Context) ([]models.RosterMember, error)
	LocalPlayerIdentity(ctx context.Context) (models.PlayerIdentity, error)
	IsPartyLeader(ctx context.Context) (bool, error)
	// CurrentEncounterID returns the encounter the party is engaged with, or 0.
	CurrentEncounterID(ctx context.Context) (int, error)
}

// Notifier receives threshold-failure notifications. Presentation is the
// implementer's concern.
type Notifier interface {
	NotifyFailure(member models.RosterMember, result models.EncounterResult)
	NotifyCycle(report *models.CycleReport)
}

// RemovalExecutor carries out party-removal directives. The engine never
// assumes removal succeeded.
type RemovalExecutor interface {
	RemoveFromParty(ctx context.Context, firstName, lastName string) error
}
