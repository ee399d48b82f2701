package app

import (
	"context"
	"sync"

	"github.com/bobmcallan/partygate/internal/interfaces"
	"github.com/bobmcallan/partygate/internal/models"
)

// PushGameState is a GameStateProvider fed over HTTP. The game-side plugin
// pushes roster and encounter state; checks read whatever was pushed last.
type PushGameState struct {
	mu          sync.RWMutex
	roster      []models.RosterMember
	identity    models.PlayerIdentity
	leader      bool
	encounterID int
	target      *models.PlayerIdentity
}

func NewPushGameState() *PushGameState {
	return &PushGameState{}
}

// SetRoster replaces the pushed roster snapshot.
func (p *PushGameState) SetRoster(members []models.RosterMember) {
	p.mu.Lock()
	p.roster = make([]models.RosterMember, len(members))
	copy(p.roster, members)
	p.mu.Unlock()
}

// SetIdentity records the local player and their leader flag.
func (p *PushGameState) SetIdentity(identity models.PlayerIdentity, leader bool) {
	p.mu.Lock()
	p.identity = identity
	p.leader = leader
	p.mu.Unlock()
}

// SetEncounter records the encounter the party is currently standing in.
// Zero clears it.
func (p *PushGameState) SetEncounter(encounterID int) {
	p.mu.Lock()
	p.encounterID = encounterID
	p.mu.Unlock()
}

// SetTarget records the player the local player currently has targeted.
// A nil target clears it.
func (p *PushGameState) SetTarget(target *models.PlayerIdentity) {
	p.mu.Lock()
	if target == nil {
		p.target = nil
	} else {
		t := *target
		p.target = &t
	}
	p.mu.Unlock()
}

// CurrentTarget returns the targeted player, or nil when nothing is targeted.
func (p *PushGameState) CurrentTarget() *models.PlayerIdentity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.target == nil {
		return nil
	}
	t := *p.target
	return &t
}

func (p *PushGameState) CurrentPartyRoster(ctx context.Context) ([]models.RosterMember, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.RosterMember, len(p.roster))
	copy(out, p.roster)
	return out, nil
}

func (p *PushGameState) LocalPlayerIdentity(ctx context.Context) (models.PlayerIdentity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.identity, nil
}

func (p *PushGameState) IsPartyLeader(ctx context.Context) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leader, nil
}

func (p *PushGameState) CurrentEncounterID(ctx context.Context) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.encounterID, nil
}

// Ensure PushGameState implements GameStateProvider
var _ interfaces.GameStateProvider = (*PushGameState)(nil)
