package models

// Character identifies a character plus the display filters applied to a
// dashboard lookup. The filter fields participate in the cache fingerprint.
type Character struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	World     string `json:"world"`

	Metric      string `json:"metric,omitempty"`    // rdps, adps, hps...
	PartitionID int    `json:"partition,omitempty"` // 0 = service default
	JobName     string `json:"job,omitempty"`       // "Any" or a specific job
	Timeframe   string `json:"timeframe,omitempty"` // Historical or Standard
}

// Identity returns the bare player identity for this character.
func (c *Character) Identity() PlayerIdentity {
	return PlayerIdentity{FirstName: c.FirstName, LastName: c.LastName, World: c.World}
}

// ZoneQuery is one zone/difficulty pair included in a dashboard fetch.
type ZoneQuery struct {
	ZoneID       int `toml:"zone_id" json:"zone_id"`
	DifficultyID int `toml:"difficulty_id" json:"difficulty_id"`
}
