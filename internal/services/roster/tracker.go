// Package roster tracks the current party roster
package roster

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/partygate/internal/common"
	"github.com/bobmcallan/partygate/internal/interfaces"
	"github.com/bobmcallan/partygate/internal/models"
)

// Tracker maintains the latest roster snapshot. The snapshot is read-mostly
// and swapped atomically at the end of each Poll; it is never mutated in
// place while a diff is computed against it.
type Tracker struct {
	provider interfaces.GameStateProvider
	logger   *common.Logger

	mu       sync.RWMutex
	snapshot []models.RosterMember
}

// NewTracker creates a roster tracker backed by the given game-state provider.
func NewTracker(provider interfaces.GameStateProvider, logger *common.Logger) *Tracker {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Tracker{provider: provider, logger: logger}
}

// Poll re-derives the roster from game state. Relative order mirrors the live
// party order, which preserves prior ordering for retained members and places
// newly-seen members where the game reports them. Members absent from the
// latest poll are pruned.
func (t *Tracker) Poll(ctx context.Context) ([]models.RosterMember, error) {
	live, err := t.provider.CurrentPartyRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read party roster: %w", err)
	}

	// De-duplicate by identity key, first occurrence wins.
	seen := make(map[string]bool, len(live))
	next := make([]models.RosterMember, 0, len(live))
	for _, m := range live {
		key := m.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		next = append(next, m)
	}

	t.mu.Lock()
	t.snapshot = next
	t.mu.Unlock()

	t.logger.Debug().Int("members", len(next)).Msg("Roster polled")
	return next, nil
}

// Current returns the latest snapshot without re-polling.
func (t *Tracker) Current() []models.RosterMember {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.RosterMember, len(t.snapshot))
	copy(out, t.snapshot)
	return out
}

// Diff computes the membership delta between two snapshots, keyed by the
// case-insensitive (first, last, world) identity. Pure function.
func (t *Tracker) Diff(previous, current []models.RosterMember) models.RosterDelta {
	return Diff(previous, current)
}

// Diff computes the membership delta between two roster snapshots.
func Diff(previous, current []models.RosterMember) models.RosterDelta {
	prevKeys := make(map[string]bool, len(previous))
	for _, m := range previous {
		prevKeys[m.Key()] = true
	}
	curKeys := make(map[string]bool, len(current))
	for _, m := range current {
		curKeys[m.Key()] = true
	}

	var delta models.RosterDelta
	for _, m := range current {
		if !prevKeys[m.Key()] {
			delta.Joined = append(delta.Joined, m)
		}
	}
	for _, m := range previous {
		if !curKeys[m.Key()] {
			delta.Left = append(delta.Left, m)
		}
	}
	return delta
}

// Ensure Tracker implements RosterService
var _ interfaces.RosterService = (*Tracker)(nil)
