// Package models defines the domain types for partygate
package models

import (
	"fmt"
	"strings"
)

// EncounterThreshold is a configured minimum kill count for one encounter.
// List order is insertion order and is preserved across edits.
type EncounterThreshold struct {
	EncounterID  int    `toml:"encounter_id" json:"encounter_id"`
	Name         string `toml:"name" json:"name"`
	DifficultyID int    `toml:"difficulty_id" json:"difficulty_id"` // 0 = service default
	MinimumKills int    `toml:"minimum_kills" json:"minimum_kills"`
	Enabled      bool   `toml:"enabled" json:"enabled"`
	Notify       bool   `toml:"notify" json:"notify"`
	// AutoRemove is destructive and defaults false. Mutations that set it true
	// require an explicit confirmation flag (see threshold.Service.UpdateThreshold).
	AutoRemove bool `toml:"auto_remove" json:"auto_remove"`
}

// Validate checks the threshold entry for malformed fields.
func (t *EncounterThreshold) Validate() error {
	if t.EncounterID <= 0 {
		return &ConfigError{Field: "encounter_id", Reason: fmt.Sprintf("must be positive, got %d", t.EncounterID)}
	}
	if t.MinimumKills < 0 {
		return &ConfigError{Field: "minimum_kills", Reason: fmt.Sprintf("must be >= 0, got %d", t.MinimumKills)}
	}
	if strings.TrimSpace(t.Name) == "" {
		return &ConfigError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// ThresholdSettings holds the full threshold-checking configuration.
type ThresholdSettings struct {
	EnableChecking             bool                 `toml:"enable_checking" json:"enable_checking"`
	CheckOnRosterJoin          bool                 `toml:"check_on_roster_join" json:"check_on_roster_join"`
	CheckOnlyIfLeader          bool                 `toml:"check_only_if_leader" json:"check_only_if_leader"`
	CheckOnlyMatchingEncounter bool                 `toml:"check_only_matching_encounter" json:"check_only_matching_encounter"`
	Thresholds                 []EncounterThreshold `toml:"thresholds" json:"thresholds"`

	// CurrentEncounterID is derived from live game state each cycle and is never
	// persisted. Zero means no encounter is resolved.
	CurrentEncounterID int `toml:"-" json:"current_encounter_id,omitempty"`
}

// EnabledThresholds returns the enabled entries in configured order.
func (s *ThresholdSettings) EnabledThresholds() []EncounterThreshold {
	out := make([]EncounterThreshold, 0, len(s.Thresholds))
	for _, t := range s.Thresholds {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// ConfigError describes a malformed threshold entry or settings field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid threshold config: %s %s", e.Field, e.Reason)
}
