package fflogs

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/partygate/internal/models"
)

// Query construction is deterministic: identical input parameters always yield
// a byte-identical document. The cache fingerprint is the document itself, so
// this is the load-bearing invariant for cache correctness.

// encounterRankingsQuery builds the single-encounter lookup document.
func encounterRankingsQuery(firstName, lastName, serverSlug, serverRegion string, encounterID, difficultyID int, metric string) string {
	var b strings.Builder
	b.WriteString("query{characterData{character(")
	fmt.Fprintf(&b, "name:%q,serverSlug:%q,serverRegion:%q",
		firstName+" "+lastName, strings.ToLower(serverSlug), serverRegion)
	b.WriteString("){hidden,encounterRankings(")
	fmt.Fprintf(&b, "encounterID:%d", encounterID)
	if difficultyID > 0 {
		fmt.Fprintf(&b, ",difficulty:%d", difficultyID)
	}
	if metric != "" {
		fmt.Fprintf(&b, ",metric:%s", metric)
	}
	b.WriteString(")}}}")
	return b.String()
}

// dashboardQuery builds the multi-zone lookup document, one aliased
// zoneRankings sub-query per configured zone/difficulty pair.
func dashboardQuery(character *models.Character, serverRegion string, zones []models.ZoneQuery) string {
	var b strings.Builder
	b.WriteString("query{characterData{character(")
	fmt.Fprintf(&b, "name:%q,serverSlug:%q,serverRegion:%q",
		character.FirstName+" "+character.LastName, strings.ToLower(character.World), serverRegion)
	b.WriteString("){hidden")

	for _, z := range zones {
		fmt.Fprintf(&b, ",z%dd%d:zoneRankings(zoneID:%d,difficulty:%d", z.ZoneID, z.DifficultyID, z.ZoneID, z.DifficultyID)
		if character.Metric != "" {
			fmt.Fprintf(&b, ",metric:%s", character.Metric)
		}
		if character.PartitionID > 0 {
			fmt.Fprintf(&b, ",partition:%d", character.PartitionID)
		}
		if character.JobName != "" && !strings.EqualFold(character.JobName, "Any") {
			fmt.Fprintf(&b, ",specName:%q", character.JobName)
		}
		if character.Timeframe != "" {
			fmt.Fprintf(&b, ",timeframe:%s", character.Timeframe)
		}
		b.WriteString(")")
	}

	b.WriteString("}}}")
	return b.String()
}

// rateLimitQuery asks for the account's hourly request budget.
const rateLimitQuery = "query{rateLimitData{limitPerHour,pointsSpentThisHour}}"
