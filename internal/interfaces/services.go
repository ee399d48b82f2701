package interfaces

import (
	"context"

	"github.com/bobmcallan/partygate/internal/models"
)

// ThresholdService evaluates configured kill thresholds against players.
type ThresholdService interface {
	// CheckParty evaluates every current roster member. The report is produced
	// only after all fetches for the cycle have resolved.
	CheckParty(ctx context.Context, trigger models.CycleTrigger) (*models.CycleReport, error)

	// CheckPlayer evaluates a single named player.
	CheckPlayer(ctx context.Context, firstName, lastName, world string) (*models.CycleReport, error)

	// OnRosterMemberJoined runs a join-triggered check for one member, honoring
	// the check-on-join and leader-only policies. A nil report means the
	// policies suppressed the check.
	OnRosterMemberJoined(ctx context.Context, member models.RosterMember) (*models.CycleReport, error)

	// SetCurrentEncounter records the transient live-encounter id used by the
	// matching-encounter filter. It is never persisted.
	SetCurrentEncounter(encounterID int)

	// Settings returns a copy of the current threshold settings.
	Settings() models.ThresholdSettings

	// UpdateSettings replaces the top-level settings flags (not the list).
	UpdateSettings(s models.ThresholdSettings) error

	// Thresholds returns the configured thresholds in insertion order.
	Thresholds() []models.EncounterThreshold

	// AddThreshold appends a threshold entry.
	AddThreshold(t models.EncounterThreshold) error

	// RemoveThreshold deletes the entry with the given encounter id.
	RemoveThreshold(encounterID int) error

	// UpdateThreshold mutates an existing entry. Setting AutoRemove true is a
	// destructive policy change and requires confirmAutoRemove.
	UpdateThreshold(encounterID int, t models.EncounterThreshold, confirmAutoRemove bool) error
}

// RosterService tracks the current party roster.
type RosterService interface {
	// Poll re-derives the roster from game state, preserving relative order for
	// retained members, and atomically swaps the snapshot.
	Poll(ctx context.Context) ([]models.RosterMember, error)

	// Current returns the latest snapshot without re-polling.
	Current() []models.RosterMember

	// Diff computes the membership delta between two snapshots.
	Diff(previous, current []models.RosterMember) models.RosterDelta
}
