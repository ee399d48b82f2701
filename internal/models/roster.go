package models

import (
	"fmt"
	"strings"
)

// RosterMember is one party member as seen in the latest roster poll.
// Relative order mirrors in-game party order.
type RosterMember struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	World         string `json:"world"`
	JobID         int    `json:"job_id"`
	AllianceIndex *int   `json:"alliance_index,omitempty"`
}

// Key returns the case-insensitive identity key (first, last, world).
func (m *RosterMember) Key() string {
	return strings.ToLower(m.FirstName) + "|" + strings.ToLower(m.LastName) + "|" + strings.ToLower(m.World)
}

// DisplayName returns "First Last@World".
func (m *RosterMember) DisplayName() string {
	return fmt.Sprintf("%s %s@%s", m.FirstName, m.LastName, m.World)
}

// HasFullName reports whether the member decomposes into first and last name.
// Members without both parts cannot be looked up and are skipped with a warning.
func (m *RosterMember) HasFullName() bool {
	return strings.TrimSpace(m.FirstName) != "" && strings.TrimSpace(m.LastName) != ""
}

// RosterDelta is the membership difference between two roster snapshots.
type RosterDelta struct {
	Joined []RosterMember `json:"joined"`
	Left   []RosterMember `json:"left"`
}

// Empty reports whether the delta contains no membership change.
func (d *RosterDelta) Empty() bool {
	return len(d.Joined) == 0 && len(d.Left) == 0
}

// PlayerIdentity identifies a character by name and home world.
type PlayerIdentity struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	World     string `json:"world"`
}
