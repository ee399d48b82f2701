package models

import "time"

// ParseResult holds the fetched performance data for one (member, encounter) pair.
// Both fields are nil when the service reports zero rankings, meaning the player
// has never logged the fight. That is a valid outcome, distinct from a fetch failure.
type ParseResult struct {
	BestParsePercent *float64 `json:"best_parse_percent,omitempty"`
	KillCount        *int     `json:"kill_count,omitempty"`
}

// HasData reports whether any ranking data was returned.
func (p *ParseResult) HasData() bool {
	return p != nil && p.KillCount != nil
}

// EncounterResult is the per-threshold outcome for one member.
type EncounterResult struct {
	EncounterID  int          `json:"encounter_id"`
	Name         string       `json:"name"`
	MinimumKills int          `json:"minimum_kills"`
	Result       *ParseResult `json:"result,omitempty"`
	// FetchFailed distinguishes "no data because the fetch errored" from a genuine
	// zero-rankings response. Both fail the threshold.
	FetchFailed bool   `json:"fetch_failed,omitempty"`
	FetchError  string `json:"fetch_error,omitempty"`
	Passed      bool   `json:"passed"`
}

// Verdict is one member's evaluation against all applicable thresholds.
type Verdict struct {
	Member     RosterMember      `json:"member"`
	Encounters []EncounterResult `json:"encounters"`
	PassesAll  bool              `json:"passes_all"`
	Skipped    bool              `json:"skipped,omitempty"`
	SkipReason string            `json:"skip_reason,omitempty"`
}

// CycleStatus describes the overall outcome of a check cycle.
type CycleStatus string

const (
	CycleStatusEvaluated     CycleStatus = "evaluated"
	CycleStatusNotConfigured CycleStatus = "not_configured"
	CycleStatusNoParty       CycleStatus = "no_party"
	CycleStatusUnauthorized  CycleStatus = "unauthorized"
	CycleStatusSuperseded    CycleStatus = "superseded"
)

// CycleTrigger records what started a check cycle.
type CycleTrigger string

const (
	TriggerManual     CycleTrigger = "manual"
	TriggerRosterJoin CycleTrigger = "roster_join"
	TriggerScheduled  CycleTrigger = "scheduled"
)

// CycleReport is the aggregate result of one check cycle. It is emitted exactly
// once, after every fetch for the cycle has resolved.
type CycleReport struct {
	CycleID     string       `json:"cycle_id"`
	Trigger     CycleTrigger `json:"trigger"`
	Status      CycleStatus  `json:"status"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
	Verdicts    []Verdict    `json:"verdicts,omitempty"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	Message     string       `json:"message,omitempty"`
}
